// Package fetch retrieves web pages for the marketdata pipeline and defines
// the error taxonomy every layer reports failures with.
//
// [Fetcher] performs one GET per call with browser-like headers, follows
// redirects, and applies a single whole-request timeout (30s by default). Its
// HTTP client is created on first use and released by [Fetcher.Close], which
// is idempotent. Responses are classified as:
//
//   - 200–399: success, body returned as text
//   - 404: [KindNotFound]
//   - any other status: [KindAPIFailure] with status and a ≤500-character excerpt
//   - DNS/connect/read failures and timeouts: [KindConnection]
//
// Nothing is retried. All failures are *[Error] values, matched with
// errors.Is against [ErrConnection], [ErrNotFound], [ErrAPIFailure],
// [ErrParseFailure] and [ErrTimeout].
package fetch
