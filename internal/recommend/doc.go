// Package recommend implements the campground matching and availability
// engine: free-text preference extraction, scoring of campgrounds against a
// preference tag set, and inclusive date-range availability checks.
//
// The package is pure computation. Callers pass point-in-time snapshots of
// the campground catalog and booking list; nothing here performs I/O, holds
// locks, or mutates its inputs, so results are deterministic for a given
// input and vocabulary.
package recommend
