// Package types defines the core types and interfaces used throughout dosort.
// This includes the Filter and Action interfaces with their capability
// descriptors, the Resource value that flows through a rule, the Output sink
// and the FS abstraction used by filters, actions and the walker.
package types
