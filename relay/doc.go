// Package relay provides the proxy capability the harness registers on its
// servers and the JSON response relay adapter: a thin bridge that turns a
// proxied upstream HTTP response into a parsed JSON value.
package relay
