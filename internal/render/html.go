// Package render serializes the document tree to HTML. Cross-reference
// nodes round-trip through this form carrying their target anchors and
// display flags, so the labeling pass can run on the output alone, any
// number of times, without the original Markdown.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/dgallion1/crossmark/internal/doctree"
	"github.com/dgallion1/crossmark/internal/xref"
)

// Document renders the tree as a standalone HTML page.
func Document(doc *doctree.Node) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"></head><body>\n")
	for _, c := range doc.Children {
		writeNode(&b, c)
	}
	b.WriteString("</body></html>\n")
	return b.String()
}

func writeNode(b *strings.Builder, n *doctree.Node) {
	switch n.Kind {
	case doctree.KindHeading:
		level := n.Level
		if level < 1 || level > 6 {
			level = 1
		}
		fmt.Fprintf(b, "<h%d%s%s>%s</h%d>\n",
			level, idAttr(n.ID), classAttr(n.Unnumbered, ""), html.EscapeString(n.Text), level)

	case doctree.KindParagraph:
		b.WriteString("<p>")
		for _, c := range n.Children {
			writeInline(b, c)
		}
		b.WriteString("</p>\n")

	case doctree.KindEquation:
		fmt.Fprintf(b, "<p><span class=\"math display%s\"%s>\\[%s\\]</span></p>\n",
			unnumberedSuffix(n.Unnumbered), idAttr(n.ID), html.EscapeString(n.Source))

	case doctree.KindFigure:
		fmt.Fprintf(b, "<figure%s%s>\n", idAttr(n.ID), classAttr(n.Unnumbered, ""))
		if n.ImageURL != "" {
			writeImg(b, n)
		}
		for _, sub := range n.Children {
			if sub.Kind != doctree.KindSubfigure {
				continue
			}
			fmt.Fprintf(b, "<figure%s%s>\n", idAttr(sub.ID), classAttr(sub.Unnumbered, "subfigure"))
			writeImg(b, sub)
			fmt.Fprintf(b, "<figcaption>%s</figcaption>\n</figure>\n", html.EscapeString(sub.Caption))
		}
		fmt.Fprintf(b, "<figcaption>%s</figcaption>\n</figure>\n", html.EscapeString(n.Caption))

	case doctree.KindTable:
		fmt.Fprintf(b, "<table%s%s>\n<caption>%s</caption>\n",
			idAttr(n.ID), classAttr(n.Unnumbered, ""), html.EscapeString(n.Caption))
		if len(n.Header) > 0 {
			b.WriteString("<thead><tr>")
			for _, cell := range n.Header {
				fmt.Fprintf(b, "<th>%s</th>", html.EscapeString(cell))
			}
			b.WriteString("</tr></thead>\n")
		}
		b.WriteString("<tbody>\n")
		for _, row := range n.Rows {
			b.WriteString("<tr>")
			for _, cell := range row {
				fmt.Fprintf(b, "<td>%s</td>", html.EscapeString(cell))
			}
			b.WriteString("</tr>\n")
		}
		b.WriteString("</tbody>\n</table>\n")

	case doctree.KindRaw:
		b.WriteString(html.EscapeString(n.Text))
		b.WriteByte('\n')
	}
}

func writeInline(b *strings.Builder, n *doctree.Node) {
	switch n.Kind {
	case doctree.KindText:
		b.WriteString(html.EscapeString(n.Text))
	case doctree.KindCrossRef, doctree.KindRefMarker:
		writeCrossRef(b, n.Ref)
	}
}

// writeCrossRef emits the unresolved-reference form: one anchor per
// target plus the display flags as data attributes. The substitution
// pass fills in the final text.
func writeCrossRef(b *strings.Builder, ref *doctree.RefData) {
	if ref == nil {
		return
	}
	b.WriteString(`<span class="cross-ref"`)
	if ref.IncludeType {
		b.WriteString(` data-include-type="true"`)
	}
	if ref.Pluralize {
		b.WriteString(` data-plural="true"`)
	}
	if ref.NumberOnly {
		b.WriteString(` data-number-only="true"`)
	}
	if ref.Capitalize {
		b.WriteString(` data-capitalize="true"`)
	}
	b.WriteString(">")
	for _, t := range ref.Targets {
		fmt.Fprintf(b, `<a href="#%s"`, html.EscapeString(t.ID))
		if t.Resolved {
			fmt.Fprintf(b, ` data-xref-type="%s"`, xref.TypeWordFor(t.Type))
		} else {
			b.WriteString(` data-unresolved="true"`)
		}
		b.WriteString("></a>")
	}
	b.WriteString("</span>")
}

func writeImg(b *strings.Builder, n *doctree.Node) {
	fmt.Fprintf(b, "<img src=\"%s\" alt=\"%s\">\n",
		html.EscapeString(n.ImageURL), html.EscapeString(n.AltText))
}

func idAttr(id string) string {
	if id == "" {
		return ""
	}
	return fmt.Sprintf(" id=%q", html.EscapeString(id))
}

func classAttr(unnumbered bool, extra string) string {
	var classes []string
	if extra != "" {
		classes = append(classes, extra)
	}
	if unnumbered {
		classes = append(classes, "unnumbered")
	}
	if len(classes) == 0 {
		return ""
	}
	return fmt.Sprintf(" class=%q", strings.Join(classes, " "))
}

func unnumberedSuffix(unnumbered bool) string {
	if unnumbered {
		return " unnumbered"
	}
	return ""
}
