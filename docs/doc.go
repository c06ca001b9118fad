// Package docs defines the contract between the harness and the
// documentation-generation plugin under test: an Options bag and a pluggable
// registration interface. It also ships a small reference plugin that renders
// a documentation page (with stylesheet and script asset tags) and serves the
// machine-readable spec, so the harness test suite has something concrete to
// mount when no external plugin is supplied.
package docs
