package indices

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leofalp/marketdata/core/config"
	"github.com/leofalp/marketdata/core/fetch"
)

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range routes {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Referer") == "" && strings.HasPrefix(path, "/api/") {
				http.Error(w, "missing referer", http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(body))
		})
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newListings(t *testing.T, server *httptest.Server) *Listings {
	t.Helper()
	fetcher := fetch.New()
	t.Cleanup(func() { _ = fetcher.Close() })
	return New(fetcher, config.IndicesConfig{
		GlobalURL:     server.URL + "/indices/major-indices",
		IndianURL:     server.URL + "/api/allIndices",
		IndianHeaders: map[string]string{"Referer": "https://www.nseindia.com/"},
	})
}

// TestGlobalIndices verifies the first table of the page is rendered.
func TestGlobalIndices(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/indices/major-indices": `<html><body><h1>Major World Indices</h1>
<table><thead><tr><th>Name</th><th>Last</th></tr></thead>
<tbody><tr><td>Dow Jones</td><td>42,100.5</td></tr><tr><td>FTSE 100</td><td>8,250.1</td></tr></tbody></table>
<table><tr><td>footer links</td></tr></table></body></html>`,
	})

	got, err := newListings(t, server).GlobalIndices(context.Background())
	if err != nil {
		t.Fatalf("GlobalIndices() error = %v", err)
	}
	want := "Name      | Last\n" +
		"----------+---------\n" +
		"Dow Jones | 42,100.5\n" +
		"FTSE 100  | 8,250.1"
	if got != want {
		t.Errorf("GlobalIndices() =\n%s\nwant\n%s", got, want)
	}
}

// TestGlobalIndicesNoTable verifies a page without a table is a parse failure.
func TestGlobalIndicesNoTable(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/indices/major-indices": `<html><body><p>Markets closed</p></body></html>`,
	})

	_, err := newListings(t, server).GlobalIndices(context.Background())
	if !errors.Is(err, fetch.ErrParseFailure) {
		t.Errorf("error = %v, want parse failure", err)
	}
}

// TestIndianIndices verifies JSON decoding, number formatting and rendering.
func TestIndianIndices(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/api/allIndices": `{"data":[
			{"index":"NIFTY 50","last":24500.5,"variation":120.25,"percentChange":0.49},
			{"index":"NIFTY BANK","last":"51,230.10","variation":-80,"percentChange":null},
			{"index":"","last":1}
		],"timestamp":"19-Oct-2026"}`,
	})

	listings := newListings(t, server)
	quotes, err := listings.IndianQuotes(context.Background())
	if err != nil {
		t.Fatalf("IndianQuotes() error = %v", err)
	}
	want := []Quote{
		{Name: "NIFTY 50", Last: "24500.50", Change: "120.25", PercentChange: "0.49"},
		{Name: "NIFTY BANK", Last: "51,230.10", Change: "-80.00", PercentChange: "-"},
	}
	if len(quotes) != len(want) {
		t.Fatalf("quotes = %+v, want %+v", quotes, want)
	}
	for i := range want {
		if quotes[i] != want[i] {
			t.Errorf("quotes[%d] = %+v, want %+v", i, quotes[i], want[i])
		}
	}

	text, err := listings.IndianIndices(context.Background())
	if err != nil {
		t.Fatalf("IndianIndices() error = %v", err)
	}
	if !strings.HasPrefix(text, "Index      | Last") {
		t.Errorf("IndianIndices() = %q, want a header line first", text)
	}
	if !strings.Contains(text, "NIFTY BANK | 51,230.10") {
		t.Errorf("IndianIndices() = %q, missing NIFTY BANK row", text)
	}
}

// TestIndianIndicesFailures verifies error classification of bad responses.
func TestIndianIndicesFailures(t *testing.T) {
	testCases := []struct {
		name string
		body string
		want error
	}{
		{name: "missing data", body: `{"timestamp":"x"}`, want: fetch.ErrParseFailure},
		{name: "empty data", body: `{"data":[]}`, want: fetch.ErrParseFailure},
		{name: "unnamed rows only", body: `{"data":[{"last":1}]}`, want: fetch.ErrParseFailure},
		{name: "not json", body: `<html>Access Denied</html>`, want: fetch.ErrAPIFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(t, map[string]string{"/api/allIndices": tc.body})
			_, err := newListings(t, server).IndianIndices(context.Background())
			if !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

// TestIndianIndicesSendsHeaders verifies configured headers reach the endpoint.
func TestIndianIndicesSendsHeaders(t *testing.T) {
	server := newTestServer(t, map[string]string{"/api/allIndices": `{"data":[{"index":"NIFTY IT","last":1}]}`})
	fetcher := fetch.New()
	defer fetcher.Close()

	listings := New(fetcher, config.IndicesConfig{IndianURL: server.URL + "/api/allIndices"})
	_, err := listings.IndianIndices(context.Background())
	var fetchErr *fetch.Error
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("error = %v, want 401 api failure without Referer", err)
	}
}
