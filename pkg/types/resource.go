package types

import (
	"path/filepath"
	"sort"
)

// Resource is one filesystem entry evaluated against a rule. It lives for a
// single pass through the rule's filters and actions.
type Resource struct {
	// Path is the current location of the entry. Empty in standalone mode.
	// Actions that move or rename the entry update it.
	Path string

	// BaseDir is the location root the entry was discovered under
	BaseDir string

	// RuleNr identifies the rule that produced this resource
	RuleNr int

	// Vars holds the values computed by filters, keyed by filter name
	Vars *Vars

	// FS is the filesystem the entry lives on
	FS FS

	walkerSkipPaths map[string]struct{}
}

// NewResource creates a resource for path discovered under basedir
func NewResource(fs FS, path, basedir string, ruleNr int) *Resource {
	return &Resource{
		Path:    path,
		BaseDir: basedir,
		RuleNr:  ruleNr,
		Vars:    NewVars(),
		FS:      fs,
	}
}

// NewStandaloneResource creates a path-less resource for standalone rules
func NewStandaloneResource(fs FS, ruleNr int) *Resource {
	return NewResource(fs, "", "", ruleNr)
}

// HasPath reports whether the resource refers to a filesystem entry
func (r *Resource) HasPath() bool {
	return r.Path != ""
}

// RelativePath returns Path relative to BaseDir, or Path when that fails
func (r *Resource) RelativePath() string {
	if r.BaseDir == "" || r.Path == "" {
		return r.Path
	}
	rel, err := filepath.Rel(r.BaseDir, r.Path)
	if err != nil {
		return r.Path
	}
	return rel
}

// SkipPath marks path as consumed for the rest of the current rule scan
func (r *Resource) SkipPath(path string) {
	if r.walkerSkipPaths == nil {
		r.walkerSkipPaths = make(map[string]struct{})
	}
	r.walkerSkipPaths[filepath.Clean(path)] = struct{}{}
}

// WalkerSkipPaths returns the consumed paths in sorted order
func (r *Resource) WalkerSkipPaths() []string {
	paths := make([]string, 0, len(r.walkerSkipPaths))
	for p := range r.walkerSkipPaths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Vars is an insertion-ordered map from filter name to filter result
type Vars struct {
	keys   []string
	values map[string]interface{}
}

// NewVars creates an empty Vars
func NewVars() *Vars {
	return &Vars{values: make(map[string]interface{})}
}

// Set stores value under key. Overwriting keeps the original position.
func (v *Vars) Set(key string, value interface{}) {
	if _, exists := v.values[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.values[key] = value
}

// Get returns the value stored under key
func (v *Vars) Get(key string) (interface{}, bool) {
	value, ok := v.values[key]
	return value, ok
}

// Keys returns the keys in insertion order
func (v *Vars) Keys() []string {
	keys := make([]string, len(v.keys))
	copy(keys, v.keys)
	return keys
}

// Len returns the number of stored values
func (v *Vars) Len() int {
	return len(v.keys)
}

// Map returns a shallow copy as a plain map, for templates and expressions
func (v *Vars) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(v.values))
	for k, value := range v.values {
		m[k] = value
	}
	return m
}
