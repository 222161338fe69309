package xref

import (
	"fmt"

	"github.com/dgallion1/crossmark/internal/doctree"
)

// ResolveRefs rewrites every reference marker in the tree into a
// cross-reference node carrying its targets, their element types, and
// the marker's display flags. No numbering happens here; labels are a
// render-time concern. Each marker is rewritten exactly once, in place.
//
// Targets whose identifier is absent from the catalog are flagged
// unresolved and render as a visible failure marker, never silently
// dropped. A multi-target marker mixing element types is reported as a
// type mismatch but still resolves (advisory only).
func ResolveRefs(doc *doctree.Node, catalog Catalog) []Diagnostic {
	var diags []Diagnostic

	doctree.Walk(doc, func(n *doctree.Node) bool {
		if n.Kind != doctree.KindRefMarker || n.Ref == nil {
			return true
		}
		n.Kind = doctree.KindCrossRef

		groupType := doctree.Kind(-1)
		for i := range n.Ref.Targets {
			t := &n.Ref.Targets[i]
			kind, ok := catalog[t.ID]
			if !ok {
				diags = append(diags, Diagnostic{
					Kind:   UnresolvedIdentifier,
					ID:     t.ID,
					Detail: fmt.Sprintf("ID %q was either not found in the document or cannot be numbered", t.ID),
				})
				continue
			}
			t.Type = kind
			t.Resolved = true
			if groupType == -1 {
				groupType = kind
				continue
			}
			if kind != groupType {
				diags = append(diags, Diagnostic{
					Kind: TypeMismatch,
					ID:   t.ID,
					Detail: fmt.Sprintf("%s ID %q is grouped with %s references in the same marker",
						TypeWordFor(kind), t.ID, TypeWordFor(groupType)),
				})
			}
		}
		return true
	})
	return diags
}
