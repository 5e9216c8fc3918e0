// Package rules validates and executes organization rules.
//
// A rule walks its locations, decides for every entry whether it matches
// (flat filters combined by a filter mode, or a dependency graph of group
// filters) and runs the matching action sequences. Paths that actions
// create or consume during a rule are not visited again by the same rule.
//
// Rules are selected for a run by their tags; see ShouldExecute.
package rules
