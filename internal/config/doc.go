// Package config provides configuration management for the paintings curator.
//
// This package handles:
//   - Locating and parsing the TOML configuration file
//   - Default configuration values
//   - Resolving dataset and asset paths against the data directory
//   - Validating timeouts, pacing and discovery thresholds
//
// # Loading
//
// Load resolves the file from an explicit path, ./curator.toml or
// ~/.config/paintings-curator/config.toml, in that order:
//
//	settings, path, exists, err := config.Load("")
//	if err != nil {
//	    // parse or validation failure
//	}
//
// A missing file is not an error; the defaults are used.
//
// # Configuration Options
//
// Settings includes options for:
//   - Dataset, workspace and asset paths
//   - HTTP user agent, timeouts and per-pass pacing
//   - WikiArt, Wikidata, Wikipedia and Commons endpoints
//   - Image normalisation
//   - Log level and format
package config
