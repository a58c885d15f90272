// Package indices reads market index listings: a global overview scraped
// from an HTML table, and the Indian indices from the NSE allIndices JSON
// endpoint. Both are rendered as aligned plain text.
package indices
