package xref

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/crossmark/internal/doctree"
)

// Catalog maps each identifier to the kind of element that defines it.
// It is rebuilt from scratch on every run and never persisted.
type Catalog map[string]doctree.Kind

// Identifiers follow HTML id naming rules and additionally may not end
// with a period, colon, or comma, so a reference can close a sentence
// without a separating space.
const IDPattern = `[a-zA-Z](?:[a-zA-Z0-9_:.-]*[a-zA-Z0-9_-])?`

var (
	labelRe    = regexp.MustCompile(`\\label\{(` + IDPattern + `)\}`)
	noNumberRe = regexp.MustCompile(`\\(?:nonumber|notag)\b`)
)

// EquationID returns the \label{} identifier embedded in raw math
// source, or "" when the equation carries no label.
func EquationID(src string) string {
	m := labelRe.FindStringSubmatch(src)
	if m == nil {
		return ""
	}
	return m[1]
}

// EquationNumbered reports whether the equation's source requests a
// number. \nonumber and \notag suppress numbering.
func EquationNumbered(src string) bool {
	return !noNumberRe.MatchString(src)
}

type defSite struct {
	kind doctree.Kind
	pos  int
}

// BuildCatalog walks the tree once, in document order, and returns the
// id → element-kind catalog plus duplicate-identifier conflicts. The
// first definition of an identifier wins; later ones are reported and
// ignored. The tree is not mutated: every element keeps its anchor, and
// the labeling pass enforces the same first-wins rule on its side.
func BuildCatalog(doc *doctree.Node) (Catalog, []Diagnostic) {
	catalog := Catalog{}
	sites := map[string]defSite{}
	var diags []Diagnostic

	pos := 0
	doctree.Walk(doc, func(n *doctree.Node) bool {
		kind, id, ok := classify(n)
		if !ok {
			return true
		}
		pos++
		if first, dup := sites[id]; dup {
			diags = append(diags, Diagnostic{
				Kind: DuplicateIdentifier,
				ID:   id,
				Detail: fmt.Sprintf("ID %q was defined more than once (%s at element %d, %s at element %d); first definition wins",
					id, first.kind, first.pos, kind, pos),
			})
			return true
		}
		sites[id] = defSite{kind: kind, pos: pos}
		catalog[id] = kind
		return true
	})
	return catalog, diags
}

// classify decides whether a node defines a referenceable identifier.
// Unlabeled elements are never referenceable. Unnumbered equations are
// excluded from the catalog entirely; other unnumbered elements stay
// cataloged and fail later, at render time, when no label exists.
func classify(n *doctree.Node) (doctree.Kind, string, bool) {
	switch n.Kind {
	case doctree.KindHeading, doctree.KindFigure, doctree.KindSubfigure, doctree.KindTable:
		if n.ID == "" {
			return 0, "", false
		}
		return n.Kind, n.ID, true
	case doctree.KindEquation:
		id := EquationID(n.Source)
		if id == "" || !EquationNumbered(n.Source) {
			return 0, "", false
		}
		return doctree.KindEquation, id, true
	}
	return 0, "", false
}

// TypeWordFor returns the singular display word used when a reference
// includes its target's type. Subfigures read as figures.
func TypeWordFor(k doctree.Kind) string {
	if k == doctree.KindSubfigure {
		return "figure"
	}
	return strings.ToLower(k.String())
}
