// Package cdsl exposes the CDSL foreign portfolio investor (FPI) reports:
// the monthly summary and the sector-wise fortnightly reports, one per
// date label in a hand-maintained catalog.
//
// Every operation is a single fetch-and-convert round trip; nothing is cached.
package cdsl
