package htmlscan

import (
	"fmt"
	"strings"
)

// Markers anchoring the attribute-value search on a recognized line.
const (
	linkTag   = "<link"
	scriptTag = `<script src`

	hrefMarker = `href="`
	srcMarker  = `src="`
)

// Assets extracts the ordered sequence of asset references (href/src
// attribute values) from an HTML document.
//
// The document is split on "\n"; only lines containing "<link" or
// "<script src" are considered. On a link line the value after the first
// `href="` up to the next `"` is taken, on a script line the value after the
// first `src="`. Line order is preserved and duplicates are kept.
//
// A recognized line missing its marker is an input-contract violation and
// returns an error: the scanner assumes well-formed tags produced by the
// documentation plugin, not arbitrary HTML.
func Assets(doc string) ([]string, error) {
	var refs []string
	for i, line := range strings.Split(doc, "\n") {
		var marker string
		switch {
		case strings.Contains(line, linkTag):
			marker = hrefMarker
		case strings.Contains(line, scriptTag):
			marker = srcMarker
		default:
			continue
		}
		_, rest, ok := strings.Cut(line, marker)
		if !ok {
			return nil, fmt.Errorf("htmlscan: line %d: tag without %s attribute: %q", i+1, strings.TrimSuffix(marker, `="`), line)
		}
		ref, _, _ := strings.Cut(rest, `"`)
		refs = append(refs, ref)
	}
	return refs, nil
}
