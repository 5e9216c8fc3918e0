// Package filters decides which resources a rule acts on.
//
// It provides the boolean combinators (all, any, none) over flat filter
// lists, the dependency graph matcher over group filters, and the built-in
// leaf filters, which register themselves with the registry package.
package filters
