package parser

import (
	"testing"

	"github.com/dgallion1/crossmark/internal/doctree"
)

func markerNodes(nodes []*doctree.Node) []*doctree.Node {
	var out []*doctree.Node
	for _, n := range nodes {
		if n.Kind == doctree.KindRefMarker {
			out = append(out, n)
		}
	}
	return out
}

func TestScanRefMarkers_Single(t *testing.T) {
	nodes := scanRefMarkers("See @#fig1.")
	markers := markerNodes(nodes)
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}
	ref := markers[0].Ref
	if len(ref.Targets) != 1 || ref.Targets[0].ID != "fig1" {
		t.Fatalf("expected target fig1, got %+v", ref.Targets)
	}
	if !ref.IncludeType || ref.NumberOnly || ref.Pluralize {
		t.Errorf("unexpected flags: %+v", ref)
	}

	// The trailing period stays outside the marker.
	last := nodes[len(nodes)-1]
	if last.Kind != doctree.KindText || last.Text != "." {
		t.Errorf("expected trailing text %q, got %+v", ".", last)
	}
}

func TestScanRefMarkers_NumberOnly(t *testing.T) {
	nodes := scanRefMarkers("As shown in -@#eq:einstein, energy is conserved.")
	markers := markerNodes(nodes)
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}
	ref := markers[0].Ref
	if !ref.NumberOnly {
		t.Error("expected number-only flag")
	}
	if ref.IncludeType {
		t.Error("number-only marker must not include a type word")
	}
	if ref.Targets[0].ID != "eq:einstein" {
		t.Errorf("expected id eq:einstein, got %q", ref.Targets[0].ID)
	}
}

func TestScanRefMarkers_MultiTarget(t *testing.T) {
	nodes := scanRefMarkers("See [@#fig1, @#fig2, and @#fig3].")
	markers := markerNodes(nodes)
	if len(markers) != 1 {
		t.Fatalf("expected a single multi-target marker, got %d", len(markers))
	}
	ref := markers[0].Ref
	if !ref.IncludeType || !ref.Pluralize {
		t.Errorf("expected include-type and pluralize, got %+v", ref)
	}
	want := []string{"fig1", "fig2", "fig3"}
	if len(ref.Targets) != len(want) {
		t.Fatalf("expected %d targets, got %d", len(want), len(ref.Targets))
	}
	for i, w := range want {
		if ref.Targets[i].ID != w {
			t.Errorf("target %d: expected %q, got %q", i, w, ref.Targets[i].ID)
		}
	}
}

func TestScanRefMarkers_DottedID(t *testing.T) {
	nodes := scanRefMarkers("@#part1.part2.")
	markers := markerNodes(nodes)
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}
	if got := markers[0].Ref.Targets[0].ID; got != "part1.part2" {
		t.Errorf("expected id to keep the inner dot and drop the final one, got %q", got)
	}
}

func TestScanRefMarkers_NoMarkers(t *testing.T) {
	nodes := scanRefMarkers("An email like a@b is not a reference.")
	if len(nodes) != 1 || nodes[0].Kind != doctree.KindText {
		t.Fatalf("expected a single text node, got %+v", nodes)
	}
}

func TestStartsSentence(t *testing.T) {
	tests := []struct {
		before string
		want   bool
	}{
		{"", true},
		{"A test. ", true},
		{"A test! ", true},
		{"A test? ", true},
		{"A test: ", true},
		{"Also ", false},
		{"see, ", false},
		{"e.g.\u00a0", false}, // abbreviation glued by non-breaking space
	}
	for _, tt := range tests {
		if got := startsSentence(tt.before); got != tt.want {
			t.Errorf("startsSentence(%q) = %v, want %v", tt.before, got, tt.want)
		}
	}
}

func TestScanRefMarkers_SentenceStartFlag(t *testing.T) {
	nodes := scanRefMarkers("@#fig1 shows the result. @#fig2 confirms it, and @#fig3 does not.")
	markers := markerNodes(nodes)
	if len(markers) != 3 {
		t.Fatalf("expected 3 markers, got %d", len(markers))
	}
	wants := []bool{true, true, false}
	for i, w := range wants {
		if markers[i].Ref.Capitalize != w {
			t.Errorf("marker %d: capitalize = %v, want %v", i, markers[i].Ref.Capitalize, w)
		}
	}
}
