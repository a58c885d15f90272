// Package markettools exposes the market-report operations as agent tools.
//
// Each tool wraps one operation of the CDSL reports, the index listings or
// the page conversion pipeline. A failed operation does not fail the tool
// call: the agent receives a readable explanation produced by [Describe], so
// it can retry, pick another date or tell the user what went wrong.
//
// Example:
//
//	catalog := markettools.NewCatalog(markettools.Sources{
//		Reports:  reports,
//		Listings: listings,
//		Pages:    converter,
//	})
//	out, err := catalog.Call(ctx, "GetFortnightlyFPIReport", `{"date":"December 31, 2025"}`)
package markettools
