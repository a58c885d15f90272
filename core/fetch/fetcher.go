package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/leofalp/marketdata/internal/utils"
	"github.com/leofalp/marketdata/providers/observability"
)

var (
	errBodyTooLarge     = errors.New("response body exceeds maximum size")
	errTooManyRedirects = errors.New("too many redirects")
)

// Fetcher issues single GET requests and classifies the responses into the
// error taxonomy of this package. One Fetcher owns one HTTP client, created
// on first use and released by Close. A Fetcher is safe for concurrent use;
// it adds no ordering between overlapping requests.
type Fetcher struct {
	opts   options
	logger *slog.Logger

	mu     sync.Mutex
	client *http.Client
	closed bool
}

// New returns a Fetcher. No connection state is created until the first
// request.
//
// Example:
//
//	fetcher := fetch.New(fetch.WithTimeout(20 * time.Second))
//	defer fetcher.Close()
//	html, err := fetcher.FetchText(ctx, "https://www.cdslindia.com/")
func New(opts ...Option) *Fetcher {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{opts: o, logger: logger}
}

// Timeout returns the configured whole-request timeout.
func (f *Fetcher) Timeout() time.Duration {
	return f.opts.timeout
}

// FetchText performs exactly one GET against rawURL and returns the body.
//
// A 404 yields a KindNotFound error, any other status outside [200, 400) a
// KindAPIFailure error carrying the status and a bounded body excerpt, and
// network failures (including timeouts) a KindConnection error.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	body, _, err := f.get(ctx, rawURL, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchJSON behaves like FetchText but sends Accept: application/json and
// decodes the body. Entries in headers override the defaults, Accept
// included. A body that is not valid JSON yields a KindAPIFailure error at
// the response's original status.
func (f *Fetcher) FetchJSON(ctx context.Context, rawURL string, headers map[string]string) (any, error) {
	var value any
	if err := f.FetchJSONInto(ctx, rawURL, headers, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// FetchJSONInto is FetchJSON decoding into dst, which must be a pointer.
func (f *Fetcher) FetchJSONInto(ctx context.Context, rawURL string, headers map[string]string, dst any) error {
	extra := http.Header{}
	extra.Set("Accept", "application/json")
	for key, value := range headers {
		extra.Set(key, value)
	}

	body, status, err := f.get(ctx, rawURL, extra)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return NewAPIFailureError(rawURL, status, string(body), fmt.Errorf("decode json: %w", err))
	}
	return nil
}

// Close releases the pooled connections. It is safe to call more than once;
// requests made afterwards fail with a connection error wrapping ErrClosed.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	if f.client != nil {
		f.client.CloseIdleConnections()
		f.client = nil
	}
	return nil
}

func (f *Fetcher) httpClient(rawURL string) (*http.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, NewConnectionError(rawURL, ErrClosed)
	}
	if f.client == nil {
		f.client = f.newClient()
	}
	return f.client, nil
}

func (f *Fetcher) newClient() *http.Client {
	if f.opts.client != nil {
		return f.opts.client
	}

	var transport http.RoundTripper
	if f.opts.browserTLS {
		transport = newBrowserTransport(DialTimeout)
	} else {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: TLSHandshakeTimeout,
			IdleConnTimeout:     IdleConnTimeout,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			ForceAttemptHTTP2:   true,
		}
	}

	maxRedirects := f.opts.maxRedirects
	return &http.Client{
		Timeout:   f.opts.timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("%w (>%d)", errTooManyRedirects, maxRedirects)
			}
			return nil
		},
	}
}

// get performs the request and returns the body of a successful response
// together with its status code.
func (f *Fetcher) get(ctx context.Context, rawURL string, headers http.Header) ([]byte, int, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, 0, err
	}
	client, err := f.httpClient(rawURL)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	f.setHeaders(req, headers)

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventHTTPRequestPrepared,
			observability.String(observability.AttrHTTPMethod, http.MethodGet),
			observability.String(observability.AttrHTTPURL, rawURL),
		)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		fetchErr := classifyTransportError(rawURL, resp, err)
		f.logFailure(ctx, span, fetchErr, time.Since(start))
		return nil, 0, fetchErr
	}
	defer utils.CloseWithLog(resp.Body)

	status := resp.StatusCode
	if status == http.StatusNotFound {
		fetchErr := NewNotFoundError(rawURL)
		f.logFailure(ctx, span, fetchErr, time.Since(start))
		return nil, status, fetchErr
	}

	body, readErr := readLimited(resp.Body, f.opts.maxBodyBytes)
	elapsed := time.Since(start)

	if status < 200 || status >= 400 {
		fetchErr := NewAPIFailureError(rawURL, status, string(body), nil)
		f.logFailure(ctx, span, fetchErr, elapsed)
		return nil, status, fetchErr
	}
	if readErr != nil {
		var fetchErr *Error
		if errors.Is(readErr, errBodyTooLarge) {
			fetchErr = NewAPIFailureError(rawURL, status, string(body), readErr)
		} else {
			fetchErr = classifyTransportError(rawURL, nil, readErr)
		}
		f.logFailure(ctx, span, fetchErr, elapsed)
		return nil, status, fetchErr
	}

	if span != nil {
		span.AddEvent(observability.EventHTTPResponseReceived,
			observability.Int(observability.AttrHTTPStatusCode, status),
			observability.Int(observability.AttrHTTPResponseBodySize, len(body)),
			observability.Duration(observability.AttrHTTPDuration, elapsed),
		)
	}
	f.logger.DebugContext(ctx, "fetched",
		slog.String("url", rawURL),
		slog.Int("status", status),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", elapsed),
	)
	return body, status, nil
}

func (f *Fetcher) setHeaders(req *http.Request, extra http.Header) {
	req.Header.Set("User-Agent", f.opts.userAgent)
	req.Header.Set("Accept", DefaultAccept)
	req.Header.Set("Accept-Language", f.opts.acceptLanguage)
	for key, values := range f.opts.headers {
		req.Header[key] = append([]string(nil), values...)
	}
	for key, values := range extra {
		req.Header[key] = append([]string(nil), values...)
	}
}

func (f *Fetcher) logFailure(ctx context.Context, span observability.Span, fetchErr *Error, elapsed time.Duration) {
	if span != nil {
		span.AddEvent(observability.EventHTTPRequestError,
			observability.Error(fetchErr),
			observability.String(observability.AttrErrorKind, fetchErr.Kind.String()),
			observability.Duration(observability.AttrHTTPDuration, elapsed),
		)
	}
	f.logger.DebugContext(ctx, "fetch failed",
		slog.String("url", fetchErr.URL),
		slog.String("kind", fetchErr.Kind.String()),
		slog.Int("status", fetchErr.StatusCode),
		slog.Bool("timeout", fetchErr.Timeout()),
		slog.Duration("duration", elapsed),
	)
}

// classifyTransportError maps an error from client.Do or a body read onto
// the taxonomy. resp is only non-nil for redirect-policy failures.
func classifyTransportError(rawURL string, resp *http.Response, err error) *Error {
	if errors.Is(err, errTooManyRedirects) {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		return NewAPIFailureError(rawURL, status, "", err)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewTimeoutError(rawURL, err)
	}
	return NewConnectionError(rawURL, err)
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, rawURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, parsed.Scheme)
	}
	return nil
}

// readLimited reads up to limit bytes from r. When the body is larger it
// returns the first limit bytes and errBodyTooLarge. A limit of 0 reads
// without bound.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	// Read limit+1 bytes so overflow is detectable without a custom reader.
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return data, err
	}
	if int64(len(data)) > limit {
		return data[:limit], errBodyTooLarge
	}
	return data, nil
}
