// Package instrumentation provides OpenTelemetry instrumentation for the
// harness: request, authentication, and bootstrap metrics plus tracing for
// the bootstrap steps. When disabled (the default for most test runs) it
// wires no-op providers, so the harness code can record unconditionally with
// zero overhead.
package instrumentation
