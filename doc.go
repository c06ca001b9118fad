// Package harness assembles HTTP server instances preconfigured with a
// documentation-generation plugin under several authentication regimes.
//
// It exists to let a test suite exercise a documentation plugin across
// different server topologies (single-mount, dual-mount, bearer-token auth,
// JWT auth) without duplicating bootstrap logic in every test file. Each
// bootstrap function wires a base set of capabilities (static files,
// templating, proxy relay), mounts the plugin, optionally installs an
// authentication strategy, starts listening, and returns the live server
// handle to the caller. The handle is owned by the caller for the remainder
// of the test and torn down explicitly via Close.
//
// The companion packages provide the moving parts:
//   - auth: pluggable authentication strategies and their validators
//   - docs: the documentation-plugin contract and a reference plugin
//   - htmlscan: extraction of static-asset references from rendered HTML
//   - relay: the proxy capability and the JSON response relay adapter
//
// None of the authentication here is production-grade: the validators use
// hard-coded credentials and exist purely to simulate accept and reject
// outcomes in tests.
package harness
