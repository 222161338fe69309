package label

import (
	"strings"
	"testing"

	"github.com/dgallion1/crossmark/internal/xref"
)

func substitutedText(t *testing.T, spanHTML string, table Table) string {
	t.Helper()
	doc := parseHTML(t, spanHTML)
	Substitute(doc, table, NewFormatter(nil, true))
	return renderHTML(t, doc)
}

func TestSubstitute_SingleWithType(t *testing.T) {
	out := substitutedText(t,
		`<p><span class="cross-ref" data-include-type="true"><a href="#fig:one" data-xref-type="figure"></a></span></p>`,
		Table{"fig:one": "3"})

	if !strings.Contains(out, `figure <a href="#fig:one"`) {
		t.Errorf("expected type word before anchor, got:\n%s", out)
	}
	if !strings.Contains(out, ">3</a>") {
		t.Errorf("expected label inside anchor, got:\n%s", out)
	}
}

func TestSubstitute_Pluralization(t *testing.T) {
	out := substitutedText(t,
		`<p><span class="cross-ref" data-include-type="true" data-plural="true">`+
			`<a href="#f1" data-xref-type="figure"></a>`+
			`<a href="#f2" data-xref-type="figure"></a>`+
			`<a href="#f3" data-xref-type="figure"></a></span></p>`,
		Table{"f1": "1", "f2": "2", "f3": "3"})

	// Single shared type word, Oxford-comma join.
	if !strings.Contains(out, "figures <a") {
		t.Errorf("expected plural type word before the group, got:\n%s", out)
	}
	if strings.Count(out, "figures") != 1 {
		t.Errorf("type word must be stated once for the group, got:\n%s", out)
	}
	if !strings.Contains(out, ">1</a>, <a") || !strings.Contains(out, ">2</a>, and <a") {
		t.Errorf("expected %q join, got:\n%s", "1, 2, and 3", out)
	}
}

func TestSubstitute_TwoTargets(t *testing.T) {
	out := substitutedText(t,
		`<p><span class="cross-ref" data-include-type="true" data-plural="true">`+
			`<a href="#f1" data-xref-type="figure"></a>`+
			`<a href="#f2" data-xref-type="figure"></a></span></p>`,
		Table{"f1": "1", "f2": "2"})

	if !strings.Contains(out, ">1</a> and <a") {
		t.Errorf("two targets join with a bare %q, got:\n%s", "and", out)
	}
}

func TestSubstitute_NumberOnly(t *testing.T) {
	out := substitutedText(t,
		`<p><span class="cross-ref" data-include-type="true" data-number-only="true">`+
			`<a href="#eq:e" data-xref-type="equation"></a></span></p>`,
		Table{"eq:e": "4"})

	if !strings.Contains(out, ">4</a>") {
		t.Errorf("expected bare numeral, got:\n%s", out)
	}
	if strings.Contains(out, "equation <a") {
		t.Errorf("number-only suppresses the type word even with include-type set:\n%s", out)
	}
}

func TestSubstitute_Capitalization(t *testing.T) {
	out := substitutedText(t,
		`<p><span class="cross-ref" data-include-type="true" data-capitalize="true">`+
			`<a href="#fig:one" data-xref-type="figure"></a></span></p>`,
		Table{"fig:one": "1"})

	if !strings.Contains(out, "Figure ") {
		t.Errorf("expected capitalized type word at sentence start, got:\n%s", out)
	}
}

func TestSubstitute_UnresolvedTarget(t *testing.T) {
	doc := parseHTML(t,
		`<p><span class="cross-ref" data-include-type="true">`+
			`<a href="#ghost" data-unresolved="true"></a></span></p>`)

	diags := Substitute(doc, Table{}, NewFormatter(nil, true))
	if len(diags) != 1 || diags[0].Kind != xref.UnresolvedReferenceAtRender {
		t.Fatalf("expected one render-time diagnostic, got %v", diags)
	}

	out := renderHTML(t, doc)
	if !strings.Contains(out, ">??</a>") {
		t.Errorf("expected visible failure marker, got:\n%s", out)
	}
	if !strings.Contains(out, `class="cross-ref-unresolved"`) {
		t.Errorf("expected dedicated unresolved styling class, got:\n%s", out)
	}
}

func TestSubstitute_StaleAnchor(t *testing.T) {
	// The anchor resolved at build time but the element is gone from
	// the label table (e.g. it became unnumbered after an edit).
	doc := parseHTML(t,
		`<p><span class="cross-ref" data-include-type="true">`+
			`<a href="#fig:gone" data-xref-type="figure"></a></span></p>`)

	diags := Substitute(doc, Table{}, NewFormatter(nil, true))
	if len(diags) != 1 || diags[0].ID != "fig:gone" {
		t.Fatalf("expected stale-anchor diagnostic, got %v", diags)
	}
	out := renderHTML(t, doc)
	if !strings.Contains(out, ">??</a>") {
		t.Errorf("expected visible failure marker, got:\n%s", out)
	}
}

func TestSubstitute_Idempotent(t *testing.T) {
	table := Table{"f1": "1", "f2": "2"}
	src := `<p><span class="cross-ref" data-include-type="true" data-plural="true">` +
		`<a href="#f1" data-xref-type="figure"></a>` +
		`<a href="#f2" data-xref-type="figure"></a></span></p>`

	doc := parseHTML(t, src)
	Substitute(doc, table, NewFormatter(nil, true))
	first := renderHTML(t, doc)

	doc2 := parseHTML(t, first)
	Substitute(doc2, table, NewFormatter(nil, true))
	second := renderHTML(t, doc2)

	if first != second {
		t.Errorf("substitution is not idempotent:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}
