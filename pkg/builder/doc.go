// Package builder provides a fluent API for constructing flows, step
// lists, and events programmatically.
//
// Builders are value-oriented: each With* call returns a derived builder,
// so partially built flows can be shared and forked safely.
package builder
