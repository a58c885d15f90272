package markettools

import (
	"context"
	"errors"
	"fmt"

	"github.com/leofalp/marketdata/core/convert"
	"github.com/leofalp/marketdata/core/fetch"
	"github.com/leofalp/marketdata/providers/cdsl"
)

// Describe turns an operation failure into a sentence an agent can act on.
// It returns "" for a nil error.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, cdsl.ErrNoKnownDates):
		return "No fortnightly report dates are known, so there is no latest report to fetch."
	case errors.Is(err, convert.ErrUnknownHeadingStyle):
		return "Unknown heading style. Use \"atx\" or \"setext\"."
	case errors.Is(err, fetch.ErrInvalidURL):
		return fmt.Sprintf("The URL is not valid: %v. Use an absolute http or https URL.", err)
	case errors.Is(err, fetch.ErrClosed):
		return "The fetcher has been shut down and cannot make requests."
	case errors.Is(err, context.Canceled):
		return "The request was cancelled before it completed."
	}

	var fetchErr *fetch.Error
	if !errors.As(err, &fetchErr) {
		return fmt.Sprintf("Unexpected error: %v", err)
	}

	switch {
	case fetchErr.Timeout():
		return fmt.Sprintf("The request to %s timed out. The site may be slow; try again later.", fetchErr.URL)
	case fetchErr.Kind == fetch.KindNotFound:
		return fmt.Sprintf("No page exists at %s. If this is a fortnightly report, check the date with ListFortnightlyReportDates.", fetchErr.URL)
	case fetchErr.Kind == fetch.KindAPIFailure && fetchErr.StatusCode != 0:
		return fmt.Sprintf("The server at %s answered with HTTP status %d.", fetchErr.URL, fetchErr.StatusCode)
	case fetchErr.Kind == fetch.KindAPIFailure:
		return fmt.Sprintf("The server at %s returned an unusable response: %s.", fetchErr.URL, fetchErr.Message)
	case fetchErr.Kind == fetch.KindConnection:
		return fmt.Sprintf("Could not reach the site: %v", fetchErr)
	case fetchErr.Kind == fetch.KindParseFailure:
		return fmt.Sprintf("The data could not be read: %s.", fetchErr.Message)
	}
	return fmt.Sprintf("Unexpected error: %v", err)
}
