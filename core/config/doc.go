// Package config loads marketdata settings: fetch behaviour, report source
// URLs and the fortnightly report date catalog.
//
// Values come from three layers, later ones winning:
//
//  1. defaults.yaml, embedded in the binary
//  2. an optional YAML file ([Load], or the path in MARKETDATA_CONFIG)
//  3. environment variables ([Config.ApplyEnv]) or .env files ([Config.LoadEnvFile])
//
// The date catalog is data, not code: when CDSL publishes a new fortnight,
// prepend its label to cdsl.fortnightly_dates.
package config
