// Package security provides the request-level plumbing the harness servers
// install around every route: per-IP rate limiting with LRU-bounded memory,
// request-ID generation and propagation, and client IP extraction behind
// proxies.
package security
