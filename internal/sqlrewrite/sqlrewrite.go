// Package sqlrewrite scans query text for {label} node references and
// rewrites them to materialized relation names. It is purely textual: the
// engine decides what the labels resolve to.
package sqlrewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// refPattern matches a "{", one or more non-"}" characters, then "}".
// Whitespace around the label is part of the raw span but not the label.
var refPattern = regexp.MustCompile(`\{([^}]+)\}`)

// Reference is one occurrence of {label} syntax in a query. Raw is the
// exact matched substring including braces and internal whitespace; Start
// and End are its byte offsets in the source text. Two references with the
// same Label but different Raw spans (e.g. "{foo}" vs "{ foo }") denote
// the same node.
type Reference struct {
	Raw   string
	Label string
	Start int
	End   int
}

// ScanReferences extracts all node references from a query, left to right,
// non-overlapping. Returns nil for text with no references, the common
// case, which short-circuits the rest of the pipeline.
func ScanReferences(query string) []Reference {
	matches := refPattern.FindAllStringSubmatchIndex(query, -1)
	if len(matches) == 0 {
		return nil
	}

	refs := make([]Reference, 0, len(matches))
	for _, m := range matches {
		start, end := m[0], m[1]
		label := strings.TrimSpace(query[m[2]:m[3]])
		refs = append(refs, Reference{
			Raw:   query[start:end],
			Label: label,
			Start: start,
			End:   end,
		})
	}
	return refs
}

// DistinctLabels returns the distinct labels of the given references in
// first-occurrence order.
func DistinctLabels(refs []Reference) []string {
	seen := make(map[string]struct{}, len(refs))
	var labels []string
	for _, r := range refs {
		if _, ok := seen[r.Label]; ok {
			continue
		}
		seen[r.Label] = struct{}{}
		labels = append(labels, r.Label)
	}
	return labels
}

// Rewrite replaces every reference occurrence with the relation name bound
// to its label. Replacement operates on the scanned spans, not a second
// regex pass, so each occurrence is replaced exactly once even when a
// replacement value would itself match the reference pattern.
func Rewrite(query string, refs []Reference, relations map[string]string) (string, error) {
	if len(refs) == 0 {
		return query, nil
	}

	var b strings.Builder
	b.Grow(len(query))
	pos := 0
	for _, r := range refs {
		name, ok := relations[r.Label]
		if !ok {
			return "", fmt.Errorf("no relation bound for label %q", r.Label)
		}
		b.WriteString(query[pos:r.Start])
		b.WriteString(name)
		pos = r.End
	}
	b.WriteString(query[pos:])
	return b.String(), nil
}
