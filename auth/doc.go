// Package auth provides the pluggable authentication strategies used by the
// harness servers: bearer token, JWT, and basic auth. Each strategy pairs a
// credential format with a validator function. Validators are pure predicates
// over explicitly passed, read-only tables; none of them consult ambient
// global state, and none of them are production-grade — they exist to
// simulate accept and reject outcomes in tests.
package auth
