package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefault verifies the embedded defaults.
func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Fetch.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", cfg.Fetch.Timeout())
	}
	if len(cfg.CDSL.FortnightlyDates) == 0 || cfg.CDSL.FortnightlyDates[0] != "December 31, 2025" {
		t.Errorf("first date = %v, want December 31, 2025", cfg.CDSL.FortnightlyDates)
	}
	wantTags := []string{"script", "style", "nav", "header", "aside"}
	if len(cfg.CDSL.MonthlyStripTags) != len(wantTags) {
		t.Fatalf("MonthlyStripTags = %v, want %v", cfg.CDSL.MonthlyStripTags, wantTags)
	}
	for i, tag := range wantTags {
		if cfg.CDSL.MonthlyStripTags[i] != tag {
			t.Errorf("MonthlyStripTags[%d] = %q, want %q", i, cfg.CDSL.MonthlyStripTags[i], tag)
		}
	}
	if cfg.Indices.IndianHeaders["Referer"] == "" {
		t.Error("expected a Referer header for the NSE endpoint")
	}
}

// TestDefaultIndependentCopies verifies callers cannot corrupt each other's defaults.
func TestDefaultIndependentCopies(t *testing.T) {
	first := Default()
	first.CDSL.FortnightlyDates[0] = "mutated"

	if Default().CDSL.FortnightlyDates[0] != "December 31, 2025" {
		t.Error("Default() shares state between calls")
	}
}

// TestLoad verifies a file is merged over the defaults.
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marketdata.yaml")
	content := `fetch:
  timeout_seconds: 12
cdsl:
  fortnightly_dates:
    - "January 15, 2026"
    - "December 31, 2025"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Fetch.TimeoutSecs != 12 {
		t.Errorf("TimeoutSecs = %d, want 12", cfg.Fetch.TimeoutSecs)
	}
	if len(cfg.CDSL.FortnightlyDates) != 2 || cfg.CDSL.FortnightlyDates[0] != "January 15, 2026" {
		t.Errorf("FortnightlyDates = %v, want the file's list", cfg.CDSL.FortnightlyDates)
	}
	if cfg.CDSL.MonthlyURL != Default().CDSL.MonthlyURL {
		t.Errorf("MonthlyURL = %q, want default kept", cfg.CDSL.MonthlyURL)
	}
}

// TestLoadErrors verifies unreadable, malformed and invalid files are rejected.
func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load(missing) error = nil, want error")
	}

	malformed := filepath.Join(dir, "malformed.yaml")
	_ = os.WriteFile(malformed, []byte("fetch: [unclosed"), 0o600)
	if _, err := Load(malformed); err == nil {
		t.Error("Load(malformed) error = nil, want error")
	}

	relative := filepath.Join(dir, "relative.yaml")
	_ = os.WriteFile(relative, []byte("cdsl:\n  monthly_url: /reports/monthly.html\n"), 0o600)
	if _, err := Load(relative); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load(relative url) error = %v, want ErrInvalidConfig", err)
	}

	blank := filepath.Join(dir, "blank.yaml")
	_ = os.WriteFile(blank, []byte("cdsl:\n  fortnightly_dates: [\"December 31, 2025\", \" \"]\n"), 0o600)
	if _, err := Load(blank); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load(blank date) error = %v, want ErrInvalidConfig", err)
	}
}

// TestWithDefaults verifies zero values are filled.
func TestWithDefaults(t *testing.T) {
	cfg := (&Config{Fetch: FetchConfig{MaxBodyBytes: -1}}).WithDefaults()

	if cfg.Fetch.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d, want 30", cfg.Fetch.TimeoutSecs)
	}
	if cfg.Fetch.UserAgent == "" || cfg.Fetch.AcceptLanguage == "" {
		t.Error("expected user agent and accept language defaults")
	}
	if cfg.Fetch.MaxBodyBytes != 10*1024*1024 {
		t.Errorf("MaxBodyBytes = %d, want 10MB", cfg.Fetch.MaxBodyBytes)
	}
	if cfg.Fetch.MaxRedirects != 10 {
		t.Errorf("MaxRedirects = %d, want 10", cfg.Fetch.MaxRedirects)
	}

	var nilConfig *Config
	if nilConfig.WithDefaults() == nil {
		t.Error("WithDefaults() on nil receiver returned nil")
	}
}

// TestApplyEnv verifies overrides and rejection of bad values.
func TestApplyEnv(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "overrides",
			env: map[string]string{
				EnvTimeoutSeconds: "45",
				EnvUserAgent:      "  marketdata/1.0 ",
				EnvBrowserTLS:     "true",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Fetch.TimeoutSecs != 45 {
					t.Errorf("TimeoutSecs = %d, want 45", cfg.Fetch.TimeoutSecs)
				}
				if cfg.Fetch.UserAgent != "marketdata/1.0" {
					t.Errorf("UserAgent = %q", cfg.Fetch.UserAgent)
				}
				if !cfg.Fetch.BrowserTLS {
					t.Error("BrowserTLS = false, want true")
				}
			},
		},
		{
			name: "empty values ignored",
			env:  map[string]string{EnvTimeoutSeconds: "", EnvUserAgent: " "},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Fetch.TimeoutSecs != 30 {
					t.Errorf("TimeoutSecs = %d, want 30", cfg.Fetch.TimeoutSecs)
				}
				if cfg.Fetch.UserAgent != Default().Fetch.UserAgent {
					t.Errorf("UserAgent = %q, want default", cfg.Fetch.UserAgent)
				}
			},
		},
		{name: "non numeric timeout", env: map[string]string{EnvTimeoutSeconds: "soon"}, wantErr: true},
		{name: "zero timeout", env: map[string]string{EnvTimeoutSeconds: "0"}, wantErr: true},
		{name: "bad boolean", env: map[string]string{EnvBrowserTLS: "sometimes"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.ApplyEnv(func(key string) (string, bool) {
				v, ok := tc.env[key]
				return v, ok
			})
			if (err != nil) != tc.wantErr {
				t.Fatalf("ApplyEnv() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			tc.check(t, cfg)
		})
	}
}

// TestLoadFromEnv verifies the config path and overrides come from the process environment.
func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte("fetch:\n  timeout_seconds: 7\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvUserAgent, "env-agent")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Fetch.TimeoutSecs != 7 {
		t.Errorf("TimeoutSecs = %d, want 7", cfg.Fetch.TimeoutSecs)
	}
	if cfg.Fetch.UserAgent != "env-agent" {
		t.Errorf("UserAgent = %q, want env-agent", cfg.Fetch.UserAgent)
	}
}

// TestLoadEnvFile verifies .env files are applied without touching the process environment.
func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "MARKETDATA_TIMEOUT_SECONDS=9\nMARKETDATA_BROWSER_TLS=1\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(EnvTimeoutSeconds, "")

	cfg := Default()
	if err := cfg.LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if cfg.Fetch.TimeoutSecs != 9 {
		t.Errorf("TimeoutSecs = %d, want 9", cfg.Fetch.TimeoutSecs)
	}
	if !cfg.Fetch.BrowserTLS {
		t.Error("BrowserTLS = false, want true")
	}
	if os.Getenv(EnvTimeoutSeconds) != "" {
		t.Error("LoadEnvFile modified the process environment")
	}

	if err := cfg.LoadEnvFile(filepath.Join(dir, "missing.env")); err == nil {
		t.Error("LoadEnvFile(missing) error = nil, want error")
	}
}

// TestFetchOptions verifies every fetch setting becomes an option.
func TestFetchOptions(t *testing.T) {
	if got := len(Default().FetchOptions()); got != 6 {
		t.Errorf("len(FetchOptions()) = %d, want 6", got)
	}
}
