package render

import (
	"strings"
	"testing"

	"github.com/dgallion1/crossmark/internal/doctree"
)

func TestDocument_RoundTripAttributes(t *testing.T) {
	doc := (&doctree.Node{Kind: doctree.KindDocument}).Append(
		&doctree.Node{Kind: doctree.KindHeading, Level: 2, ID: "sec:bg", Text: "Background"},
		&doctree.Node{Kind: doctree.KindHeading, Level: 2, ID: "sec:x", Text: "Appendix", Unnumbered: true},
		&doctree.Node{Kind: doctree.KindEquation, ID: "eq:e", Source: "E=mc^2"},
		&doctree.Node{Kind: doctree.KindEquation, Source: "x=1", Unnumbered: true},
	)
	out := Document(doc)

	for _, want := range []string{
		`<h2 id="sec:bg">Background</h2>`,
		`<h2 id="sec:x" class="unnumbered">Appendix</h2>`,
		`<span class="math display" id="eq:e">`,
		`<span class="math display unnumbered">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestDocument_CrossRefFlags(t *testing.T) {
	ref := &doctree.RefData{
		IncludeType: true,
		Pluralize:   true,
		Targets: []doctree.Target{
			{ID: "fig:a", Type: doctree.KindFigure, Resolved: true},
			{ID: "ghost"},
		},
	}
	doc := (&doctree.Node{Kind: doctree.KindDocument}).Append(
		(&doctree.Node{Kind: doctree.KindParagraph}).Append(
			&doctree.Node{Kind: doctree.KindText, Text: "See "},
			&doctree.Node{Kind: doctree.KindCrossRef, Ref: ref},
		),
	)
	out := Document(doc)

	for _, want := range []string{
		`<span class="cross-ref" data-include-type="true" data-plural="true">`,
		`<a href="#fig:a" data-xref-type="figure"></a>`,
		`<a href="#ghost" data-unresolved="true"></a>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestDocument_SubfigureNesting(t *testing.T) {
	doc := (&doctree.Node{Kind: doctree.KindDocument}).Append(
		(&doctree.Node{Kind: doctree.KindFigure, ID: "fig:g", Caption: "Group"}).Append(
			&doctree.Node{Kind: doctree.KindSubfigure, ID: "fig:a", ImageURL: "a.png", Caption: "A", AltText: "A"},
		),
	)
	out := Document(doc)

	if !strings.Contains(out, `<figure id="fig:g">`) {
		t.Errorf("expected parent figure anchor, got:\n%s", out)
	}
	if !strings.Contains(out, `<figure id="fig:a" class="subfigure">`) {
		t.Errorf("expected nested subfigure, got:\n%s", out)
	}
}

func TestDocument_Table(t *testing.T) {
	doc := (&doctree.Node{Kind: doctree.KindDocument}).Append(
		&doctree.Node{
			Kind:    doctree.KindTable,
			ID:      "tbl:r",
			Caption: "Results",
			Header:  []string{"Name", "Value"},
			Rows:    [][]string{{"a", "1"}},
		},
	)
	out := Document(doc)

	for _, want := range []string{
		`<table id="tbl:r">`,
		`<caption>Results</caption>`,
		`<th>Name</th>`,
		`<td>1</td>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestDocument_EscapesText(t *testing.T) {
	doc := (&doctree.Node{Kind: doctree.KindDocument}).Append(
		(&doctree.Node{Kind: doctree.KindParagraph}).Append(
			&doctree.Node{Kind: doctree.KindText, Text: "a < b & c"},
		),
	)
	out := Document(doc)
	if !strings.Contains(out, "a &lt; b &amp; c") {
		t.Errorf("expected escaped text, got:\n%s", out)
	}
}
