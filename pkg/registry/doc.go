// Package registry provides a generic, type-safe registry and the global
// name-keyed registries of filter and action factories. Filter and action
// packages register their specs from init() functions; the config loader
// resolves names from rule files through NewFilter and NewAction.
package registry
