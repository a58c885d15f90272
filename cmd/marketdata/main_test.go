package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leofalp/marketdata/core/config"
	"github.com/leofalp/marketdata/core/fetch"
	"github.com/leofalp/marketdata/providers/observability/slogobs"
	"github.com/leofalp/marketdata/providers/tool"
)

const monthlyPage = `<html><head><script>track()</script></head><body>
<nav>menu</nav>
<h1>FPI Monthly</h1>
<table><tr><th>Month</th><th>Net</th></tr><tr><td>Dec</td><td>1200</td></tr></table>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/monthly.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, monthlyPage)
	})
	mux.HandleFunc("/fortnightly/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fortnightly/December 31, 2025.html" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "<h2>Sector wise</h2><p>Banks</p>")
	})
	mux.HandleFunc("/api/allIndices", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[{"index":"NIFTY 50","last":24000.5,"variation":120.25,"percentChange":0.5}]}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(server *httptest.Server) *config.Config {
	cfg := config.Default()
	cfg.Fetch.TimeoutSecs = 5
	cfg.Fetch.BrowserTLS = false
	cfg.CDSL.MonthlyURL = server.URL + "/monthly.html"
	cfg.CDSL.FortnightlyBaseURL = server.URL + "/fortnightly/"
	cfg.CDSL.FortnightlyDates = []string{"December 31, 2025", "December 15, 2025"}
	cfg.Indices.IndianURL = server.URL + "/api/allIndices"
	cfg.Indices.GlobalURL = server.URL + "/monthly.html"
	return cfg
}

func runCommand(t *testing.T, server *httptest.Server, args ...string) (string, error) {
	t.Helper()
	observer := slogobs.New(slogobs.WithOutput(io.Discard))
	var out bytes.Buffer
	err := run(context.Background(), testConfig(server), observer, args, &out)
	return out.String(), err
}

// TestRun_Commands verifies each command prints the expected content.
func TestRun_Commands(t *testing.T) {
	server := newTestServer(t)

	testCases := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{name: "monthly", args: []string{"monthly"}, contains: []string{"# FPI Monthly", "| Dec"}, excludes: []string{"menu", "track()"}},
		{name: "monthly tables", args: []string{"monthly", "-tables"}, contains: []string{"Month | Net", "Dec   | 1200"}},
		{name: "fortnightly latest", args: []string{"fortnightly"}, contains: []string{"## Sector wise", "Banks"}},
		{name: "fortnightly by date", args: []string{"fortnightly", "-date", "December 31, 2025"}, contains: []string{"Banks"}},
		{name: "dates", args: []string{"dates"}, contains: []string{"December 31, 2025\nDecember 15, 2025"}},
		{name: "global", args: []string{"global"}, contains: []string{"Month | Net"}},
		{name: "indian", args: []string{"indian"}, contains: []string{"NIFTY 50", "24000.50", "0.50"}},
		{name: "fetch setext", args: []string{"fetch", "-heading", "setext", server.URL + "/monthly.html"}, contains: []string{"FPI Monthly\n==="}},
		{name: "fetch keep everything", args: []string{"fetch", "-tags", "none", server.URL + "/monthly.html"}, contains: []string{"menu"}},
		{name: "tools", args: []string{"tools"}, contains: []string{"GetFortnightlyFPIReport", "FetchPageAsMarkdown", `"date"`}},
		{name: "call", args: []string{"call", "ListFortnightlyReportDates"}, contains: []string{`"December 31, 2025"`}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runCommand(t, server, tc.args...)
			if err != nil {
				t.Fatalf("run(%v) error = %v", tc.args, err)
			}
			for _, want := range tc.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, unwanted := range tc.excludes {
				if strings.Contains(out, unwanted) {
					t.Errorf("output contains %q:\n%s", unwanted, out)
				}
			}
		})
	}
}

// TestRun_Failures verifies failures are returned so main exits non-zero.
func TestRun_Failures(t *testing.T) {
	server := newTestServer(t)

	testCases := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "no command", args: nil, wantErr: errUsage},
		{name: "unknown command", args: []string{"weekly"}, wantErr: errUsage},
		{name: "fetch without url", args: []string{"fetch"}, wantErr: errUsage},
		{name: "unknown fortnight", args: []string{"fortnightly", "-date", "June 1, 1999"}, wantErr: fetch.ErrNotFound},
		{name: "invalid url", args: []string{"fetch", "not a url"}, wantErr: fetch.ErrInvalidURL},
		{name: "unknown tool", args: []string{"call", "Nope"}, wantErr: tool.ErrToolNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runCommand(t, server, tc.args...)
			if err == nil {
				t.Fatalf("run(%v) error = nil, want failure", tc.args)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("run(%v) error = %v, want %v", tc.args, err, tc.wantErr)
			}
		})
	}
}
