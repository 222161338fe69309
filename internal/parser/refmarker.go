package parser

import (
	"regexp"
	"strings"

	"github.com/dgallion1/crossmark/internal/doctree"
	"github.com/dgallion1/crossmark/internal/xref"
)

// Reference markers use the @# sigil so they cannot collide with
// citation syntax (@key):
//
//	@#fig1                       -> figure 3
//	-@#eq1                       -> 4 (numeral only, no type word)
//	[@#fig1, @#fig2, and @#fig3] -> figures 1, 2, and 3
//
// Trailing punctuation is not part of the identifier; ids may not end
// with a period, colon, or comma, so "see @#fig1." parses cleanly.
var (
	refItem  = `@#(?:` + xref.IDPattern + `)`
	markerRe = regexp.MustCompile(`\[` + refItem + `(?:(?:\s*,\s*|\s+)(?:and\s+)?` + refItem + `)*\]|-?` + refItem)
	idRe     = regexp.MustCompile(`@#(` + xref.IDPattern + `)`)
)

// scanRefMarkers splits a text run into plain text and reference-marker
// nodes. Text without markers comes back as a single text node.
func scanRefMarkers(text string) []*doctree.Node {
	locs := markerRe.FindAllStringIndex(text, -1)
	if locs == nil {
		return []*doctree.Node{{Kind: doctree.KindText, Text: text}}
	}

	var nodes []*doctree.Node
	prev := 0
	for _, loc := range locs {
		if before := text[prev:loc[0]]; before != "" {
			nodes = append(nodes, &doctree.Node{Kind: doctree.KindText, Text: before})
		}
		ref := parseMarker(text[loc[0]:loc[1]])
		ref.Capitalize = startsSentence(text[:loc[0]])
		nodes = append(nodes, &doctree.Node{Kind: doctree.KindRefMarker, Ref: ref})
		prev = loc[1]
	}
	if rest := text[prev:]; rest != "" {
		nodes = append(nodes, &doctree.Node{Kind: doctree.KindText, Text: rest})
	}
	return nodes
}

// parseMarker builds the display flags and ordered target list for one
// matched marker.
func parseMarker(marker string) *doctree.RefData {
	ref := &doctree.RefData{}
	switch {
	case strings.HasPrefix(marker, "["):
		ref.IncludeType = true
		ref.Pluralize = true
	case strings.HasPrefix(marker, "-"):
		ref.NumberOnly = true
	default:
		ref.IncludeType = true
	}
	for _, m := range idRe.FindAllStringSubmatch(marker, -1) {
		ref.Targets = append(ref.Targets, doctree.Target{ID: m[1]})
	}
	return ref
}

// startsSentence reports whether a marker preceded by the given text
// opens a new sentence. Pandoc joins known abbreviations ("e.g.") to
// the following word with a non-breaking space; a marker glued to an
// abbreviation that way does not start a sentence even though the
// abbreviation ends with a period.
func startsSentence(before string) bool {
	if strings.HasSuffix(before, "\u00a0") {
		return false
	}
	trimmed := strings.TrimRight(before, " \t\n")
	if trimmed == "" {
		return true
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?', ':':
		return true
	}
	return false
}
