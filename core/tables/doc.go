// Package tables extracts HTML tables into rows of cell text and renders them
// as aligned plain text.
//
// It is used for market pages whose useful content is tabular (index
// listings, FPI sector tables) where a markdown conversion would bury the
// numbers in pipes and escapes. A page without a table is reported as a
// ParseFailure from package fetch.
package tables
