package label

import (
	"fmt"
	"strings"

	"github.com/dgallion1/crossmark/internal/xref"
	"golang.org/x/net/html"
)

// Substitute rewrites every cross-reference span against the label
// table, producing the final display text. Targets with no label —
// unnumbered elements, stale anchors, identifiers that never resolved —
// degrade to a visible "??" marker with a dedicated styling class, so
// authors can spot breakage in the output itself.
//
// Given a fixed label table, substitution is a pure function of each
// reference's flags and targets: the span's content is rebuilt from
// scratch, so running the pass twice yields identical output.
func Substitute(doc *html.Node, table Table, f *Formatter) []xref.Diagnostic {
	var diags []xref.Diagnostic
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "span" || !nodeHasClass(n, "cross-ref") {
			return
		}
		diags = append(diags, substituteOne(n, table, f)...)
	})
	return diags
}

func substituteOne(span *html.Node, table Table, f *Formatter) []xref.Diagnostic {
	includeType := getAttr(span, "data-include-type") == "true"
	plural := getAttr(span, "data-plural") == "true"
	numberOnly := getAttr(span, "data-number-only") == "true"
	capitalize := getAttr(span, "data-capitalize") == "true"

	var anchors []*html.Node
	for c := span.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "a" {
			anchors = append(anchors, c)
		}
	}
	for span.FirstChild != nil {
		span.RemoveChild(span.FirstChild)
	}

	var diags []xref.Diagnostic
	groupType := ""
	for _, a := range anchors {
		id := strings.TrimPrefix(getAttr(a, "href"), "#")
		lbl, ok := table[id]
		if getAttr(a, "data-unresolved") == "true" || !ok {
			setText(a, "??")
			setAttr(a, "class", "cross-ref-unresolved")
			diags = append(diags, xref.Diagnostic{
				Kind:   xref.UnresolvedReferenceAtRender,
				ID:     id,
				Detail: fmt.Sprintf("reference target %q has no label in the rendered output", id),
			})
			continue
		}
		setText(a, lbl)
		if groupType == "" {
			groupType = getAttr(a, "data-xref-type")
		}
	}

	// Reassemble: the type word is stated once for the whole group,
	// then the labels joined as natural language.
	if includeType && !numberOnly && groupType != "" {
		word := f.typeWord(groupType, plural && len(anchors) > 1, capitalize)
		span.AppendChild(&html.Node{Type: html.TextNode, Data: word + " "})
	}
	for i, a := range anchors {
		if sep := listSeparator(i, len(anchors)); sep != "" {
			span.AppendChild(&html.Node{Type: html.TextNode, Data: sep})
		}
		span.AppendChild(a)
	}
	return diags
}

func setText(n *html.Node, text string) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
