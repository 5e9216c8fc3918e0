package types

import "fmt"

// Target is the kind of filesystem entry a rule walks
type Target string

const (
	TargetFiles Target = "files"
	TargetDirs  Target = "dirs"
)

// ParseTarget validates a target string; empty means files
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case "", TargetFiles:
		return TargetFiles, nil
	case TargetDirs:
		return TargetDirs, nil
	}
	return "", fmt.Errorf("unknown target %q (expected files or dirs)", s)
}

// FilterMode combines an ordered list of filters into one decision
type FilterMode string

const (
	FilterModeAll  FilterMode = "all"
	FilterModeAny  FilterMode = "any"
	FilterModeNone FilterMode = "none"
)

// ParseFilterMode validates a filter mode string; empty means all
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(s) {
	case "", FilterModeAll:
		return FilterModeAll, nil
	case FilterModeAny:
		return FilterModeAny, nil
	case FilterModeNone:
		return FilterModeNone, nil
	}
	return "", fmt.Errorf("unknown filter mode %q (expected all, any or none)", s)
}

// DependOnMode governs how several dependency edges of a group combine
type DependOnMode string

const (
	DependOnAnd DependOnMode = "and"
	DependOnOr  DependOnMode = "or"
)

// ParseDependOnMode validates a dependency mode string; empty means and
func ParseDependOnMode(s string) (DependOnMode, error) {
	switch DependOnMode(s) {
	case "", DependOnAnd:
		return DependOnAnd, nil
	case DependOnOr:
		return DependOnOr, nil
	}
	return "", fmt.Errorf("unknown depend_on_mode %q (expected and or or)", s)
}

// FilterConfig is the static capability descriptor of a filter
type FilterConfig struct {
	Name  string
	Files bool
	Dirs  bool
}

// Supports reports whether the filter can run on entries of kind target
func (c FilterConfig) Supports(target Target) bool {
	if target == TargetDirs {
		return c.Dirs
	}
	return c.Files
}

// ActionConfig is the static capability descriptor of an action
type ActionConfig struct {
	Name       string
	Standalone bool
	Files      bool
	Dirs       bool
}

// Supports reports whether the action can run on entries of kind target
func (c ActionConfig) Supports(target Target) bool {
	if target == TargetDirs {
		return c.Dirs
	}
	return c.Files
}
