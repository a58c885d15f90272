package fetch

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default whole-request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is a desktop Chrome user agent; several market sites
	// serve degraded pages to non-browser agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	// DefaultAccept is sent with text fetches
	DefaultAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	// DefaultAcceptLanguage is sent with every request
	DefaultAcceptLanguage = "en-US,en;q=0.9"
	// DefaultMaxBodyBytes caps how much of a response body is read (10MB)
	DefaultMaxBodyBytes = 10 * 1024 * 1024
	// DefaultMaxRedirects is the number of redirects followed before failing
	DefaultMaxRedirects = 10
	// DialTimeout is the maximum time to wait for a TCP connection
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the maximum time to wait for TLS handshake
	TLSHandshakeTimeout = 10 * time.Second
	// IdleConnTimeout is the maximum time an idle connection can be reused
	IdleConnTimeout = 90 * time.Second
)

type options struct {
	timeout        time.Duration
	userAgent      string
	acceptLanguage string
	maxBodyBytes   int64
	maxRedirects   int
	browserTLS     bool
	headers        http.Header
	client         *http.Client
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		timeout:        DefaultTimeout,
		userAgent:      DefaultUserAgent,
		acceptLanguage: DefaultAcceptLanguage,
		maxBodyBytes:   DefaultMaxBodyBytes,
		maxRedirects:   DefaultMaxRedirects,
		headers:        http.Header{},
	}
}

// Option configures a Fetcher.
type Option func(*options)

// WithTimeout sets the whole-request timeout. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithAcceptLanguage overrides the Accept-Language header.
func WithAcceptLanguage(value string) Option {
	return func(o *options) {
		if value != "" {
			o.acceptLanguage = value
		}
	}
}

// WithHeader adds a header sent on every request. Per-call headers passed to
// FetchJSON still take precedence.
func WithHeader(key, value string) Option {
	return func(o *options) {
		o.headers.Set(key, value)
	}
}

// WithMaxBodyBytes caps the response size; 0 disables the cap.
func WithMaxBodyBytes(limit int64) Option {
	return func(o *options) {
		if limit >= 0 {
			o.maxBodyBytes = limit
		}
	}
}

// WithMaxRedirects sets how many redirects are followed.
func WithMaxRedirects(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxRedirects = n
		}
	}
}

// WithBrowserTLS makes https requests present a browser TLS fingerprint.
// Proxies from the environment are not used in this mode.
func WithBrowserTLS(enabled bool) Option {
	return func(o *options) {
		o.browserTLS = enabled
	}
}

// WithHTTPClient supplies the client instead of letting the Fetcher build one
// on first use. Close still releases its idle connections.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
