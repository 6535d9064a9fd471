// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/pkgplan/config.cue on Linux,
// ~/Library/Application Support/pkgplan/config.cue on macOS and
// %APPDATA%\pkgplan\config.cue on Windows, falling back to ./config.cue.
// Every key can be overridden with a PKGPLAN_ environment variable, e.g.
// PKGPLAN_OUTPUT=json or PKGPLAN_WATCH_DEBOUNCE=1s.
//
// Files are validated against the embedded config_schema.cue before they
// reach Viper.
package config
