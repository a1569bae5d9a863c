// Package config provides configuration structures and utilities for dupscan.
// It defines the scan options, the optional YAML configuration file, and
// report output preferences.
package config
