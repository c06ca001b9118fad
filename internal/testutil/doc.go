// Package testutil provides testing utilities for the harness: assertion
// helpers, random strings, signed JWT fixtures, and a small HTTP request
// builder.
package testutil
