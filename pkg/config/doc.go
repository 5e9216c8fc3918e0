// Package config loads dosort settings and rules files.
//
// Settings are layered with koanf: built-in defaults, the optional
// settings.toml in the XDG config directory, DOSORT_* environment variables
// and finally command-line overrides.
//
// Rules are read from a YAML file and built through the filter and action
// registries. Map order in the file is significant for group filters and
// group actions, so rules are decoded from yaml.Node trees.
package config
