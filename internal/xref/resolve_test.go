package xref

import (
	"testing"

	"github.com/dgallion1/crossmark/internal/doctree"
)

func refNode(ids ...string) *doctree.Node {
	ref := &doctree.RefData{IncludeType: true}
	for _, id := range ids {
		ref.Targets = append(ref.Targets, doctree.Target{ID: id})
	}
	if len(ids) > 1 {
		ref.Pluralize = true
	}
	return &doctree.Node{Kind: doctree.KindRefMarker, Ref: ref}
}

func TestResolveRefs(t *testing.T) {
	catalog := Catalog{
		"fig:one":     doctree.KindFigure,
		"eq:einstein": doctree.KindEquation,
	}
	marker := refNode("fig:one")
	doc := (&doctree.Node{Kind: doctree.KindDocument}).Append(
		(&doctree.Node{Kind: doctree.KindParagraph}).Append(marker),
	)

	diags := ResolveRefs(doc, catalog)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if marker.Kind != doctree.KindCrossRef {
		t.Fatalf("marker should be rewritten in place, got %s", marker.Kind)
	}
	tgt := marker.Ref.Targets[0]
	if !tgt.Resolved || tgt.Type != doctree.KindFigure {
		t.Errorf("unexpected target: %+v", tgt)
	}
}

func TestResolveRefs_UnresolvedID(t *testing.T) {
	marker := refNode("ghost")
	doc := (&doctree.Node{Kind: doctree.KindDocument}).Append(marker)

	diags := ResolveRefs(doc, Catalog{})
	if len(diags) != 1 || diags[0].Kind != UnresolvedIdentifier || diags[0].ID != "ghost" {
		t.Fatalf("expected one unresolved-identifier diagnostic, got %v", diags)
	}
	// The node is still rewritten; the target renders as a visible
	// failure marker rather than being dropped.
	if marker.Kind != doctree.KindCrossRef {
		t.Errorf("marker should still be rewritten, got %s", marker.Kind)
	}
	if marker.Ref.Targets[0].Resolved {
		t.Error("target should stay unresolved")
	}
}

func TestResolveRefs_TypeMismatchAdvisory(t *testing.T) {
	catalog := Catalog{
		"fig:one":     doctree.KindFigure,
		"eq:einstein": doctree.KindEquation,
	}
	marker := refNode("fig:one", "eq:einstein")
	doc := (&doctree.Node{Kind: doctree.KindDocument}).Append(marker)

	diags := ResolveRefs(doc, catalog)
	if len(diags) != 1 || diags[0].Kind != TypeMismatch {
		t.Fatalf("expected one type-mismatch diagnostic, got %v", diags)
	}
	// Advisory only: both targets resolve anyway.
	for i, tgt := range marker.Ref.Targets {
		if !tgt.Resolved {
			t.Errorf("target %d should resolve despite the mismatch", i)
		}
	}
}

func TestResolveRefs_Deterministic(t *testing.T) {
	catalog := Catalog{"fig:one": doctree.KindFigure}
	build := func() *doctree.Node {
		m := refNode("fig:one", "ghost")
		return (&doctree.Node{Kind: doctree.KindDocument}).Append(m)
	}
	a, b := build(), build()
	ResolveRefs(a, catalog)
	ResolveRefs(b, catalog)

	ta, tb := a.Children[0].Ref.Targets, b.Children[0].Ref.Targets
	for i := range ta {
		if ta[i] != tb[i] {
			t.Errorf("target %d differs across identical runs: %+v vs %+v", i, ta[i], tb[i])
		}
	}
}
