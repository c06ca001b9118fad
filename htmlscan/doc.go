// Package htmlscan extracts static-asset references from rendered HTML
// documentation pages. It is deliberately not an HTML parser: it is a
// line-oriented scanner that recognizes exactly the two tag shapes the
// documentation plugin emits, stylesheet links and script sources, one per
// line. Arbitrary markup is out of contract.
package htmlscan
