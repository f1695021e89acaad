// Package config loads the gridpick configuration file.
//
// The file is YAML. It is validated against a JSON schema generated from the
// Go types before it is decoded, so errors point at the offending line.
package config
