// Package config provides configuration structures and utilities for
// vaultlinks: the flat CLI configuration, the .vaultlinks YAML file, the
// optional .env file and the XDG directories used for the run history.
package config
