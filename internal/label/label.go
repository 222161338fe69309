// Package label implements the render-phase passes: one labeling pass
// per element class over the serialized output, then a substitution
// pass rewriting every cross-reference against the computed labels.
// Labels are recomputed from scratch on every run, never persisted, so
// inserting, removing, or reordering elements renumbers everything that
// references them.
package label

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Table maps anchor identifiers to computed display labels. Equation
// labels are stored as the bare numeral; the parenthesized "(4)" beside
// the equation is a display form only.
type Table map[string]string

// Run labels every element class and returns the merged label table.
// Every pass walks and mutates the same tree, so the passes run one
// after another; each class keeps its own counters, so the order
// between classes never changes a label. When elements share an
// identifier, only the one earliest in document order enters the table,
// matching the catalog's first-definition-wins policy.
func Run(doc *html.Node) Table {
	passes := []func(*html.Node) Table{
		labelSections,
		labelEquations,
		labelFigures,
		labelTables,
	}
	first := firstDefinitions(doc)

	merged := Table{}
	for i, pass := range passes {
		for id, lbl := range pass(doc) {
			if first[id] == i {
				merged[id] = lbl
			}
		}
	}
	return merged
}

// firstDefinitions maps each identifier to the index of the pass that
// owns its earliest definition in document order. The rendered output
// can carry one id on elements of different classes when the source
// defined it twice; every definition is still numbered and keeps its
// anchor, but only the first one's label is referenceable.
func firstDefinitions(doc *html.Node) map[string]int {
	first := map[string]int{}
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		id := getAttr(n, "id")
		if id == "" {
			return
		}
		var pass int
		switch {
		case headingLevel(n.Data) > 0:
			pass = 0
		case n.Data == "span" && nodeHasClass(n, "math") && nodeHasClass(n, "display"):
			pass = 1
		case n.Data == "figure":
			pass = 2
		case n.Data == "table":
			pass = 3
		default:
			return
		}
		if _, ok := first[id]; !ok {
			first[id] = pass
		}
	})
	return first
}

// labelSections assigns hierarchical dotted labels to headings. A
// heading at level L increments slot L of the counter vector and resets
// every deeper slot.
func labelSections(doc *html.Node) Table {
	table := Table{}
	var vec [6]int
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		level := headingLevel(n.Data)
		if level == 0 {
			return
		}
		if nodeHasClass(n, "unnumbered") {
			removeLabelSpan(n)
			return
		}
		vec[level-1]++
		for i := level; i < 6; i++ {
			vec[i] = 0
		}
		lbl := sectionLabel(vec)
		claim(table, getAttr(n, "id"), lbl)
		setLabelSpan(n, lbl+" ", true)
	})
	return table
}

// labelEquations numbers display equations sequentially and appends the
// visible "(n)" beside each. Only the bare numeral enters the table.
func labelEquations(doc *html.Node) Table {
	table := Table{}
	count := 0
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "span" ||
			!nodeHasClass(n, "math") || !nodeHasClass(n, "display") {
			return
		}
		if nodeHasClass(n, "unnumbered") {
			removeLabelSpan(n)
			return
		}
		count++
		lbl := strconv.Itoa(count)
		claim(table, getAttr(n, "id"), lbl)
		setLabelSpan(n, " ("+lbl+")", false)
	})
	return table
}

// labelFigures numbers figures sequentially and their subfigures per
// parent, composing subfigure labels as <figure label><letter>. An
// unnumbered figure is traversed but not counted, and its subfigures
// get no labels since there is no parent label to compose with.
func labelFigures(doc *html.Node) Table {
	table := Table{}
	count := 0
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "figure" && !nodeHasClass(n, "subfigure") {
			if nodeHasClass(n, "unnumbered") {
				removeCaptionLabel(n)
				return
			}
			count++
			lbl := strconv.Itoa(count)
			claim(table, getAttr(n, "id"), lbl)
			setCaptionLabel(n, "Figure "+lbl+": ")

			sub := 0
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type != html.ElementNode || c.Data != "figure" || !nodeHasClass(c, "subfigure") {
					continue
				}
				if nodeHasClass(c, "unnumbered") {
					removeCaptionLabel(c)
					continue
				}
				sub++
				letter := letterFor(sub)
				claim(table, getAttr(c, "id"), lbl+letter)
				setCaptionLabel(c, "("+letter+") ")
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	return table
}

// labelTables numbers tables sequentially, prefixing each caption.
func labelTables(doc *html.Node) Table {
	table := Table{}
	count := 0
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "table" {
			return
		}
		if nodeHasClass(n, "unnumbered") {
			removeCaptionLabel(n)
			return
		}
		count++
		lbl := strconv.Itoa(count)
		claim(table, getAttr(n, "id"), lbl)
		setCaptionLabel(n, "Table "+lbl+": ")
	})
	return table
}

// claim records a label for id unless an earlier element of the same
// class already holds it.
func claim(table Table, id, lbl string) {
	if id == "" {
		return
	}
	if _, ok := table[id]; !ok {
		table[id] = lbl
	}
}

// setCaptionLabel prefixes the element's direct caption child
// (figcaption or caption) with a label span.
func setCaptionLabel(n *html.Node, text string) {
	if c := directCaption(n); c != nil {
		setLabelSpan(c, text, true)
	}
}

func removeCaptionLabel(n *html.Node) {
	if c := directCaption(n); c != nil {
		removeLabelSpan(c)
	}
}

func directCaption(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "figcaption" || c.Data == "caption") {
			return c
		}
	}
	return nil
}

// setLabelSpan inserts (or replaces, keeping reruns idempotent) the
// visible numbering span at the front or back of parent.
func setLabelSpan(parent *html.Node, text string, prefix bool) {
	if span := findLabelSpan(parent); span != nil {
		for span.FirstChild != nil {
			span.RemoveChild(span.FirstChild)
		}
		span.AppendChild(&html.Node{Type: html.TextNode, Data: text})
		return
	}
	span := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr:     []html.Attribute{{Key: "class", Val: "label-number"}},
	}
	span.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	if prefix {
		parent.InsertBefore(span, parent.FirstChild)
	} else {
		parent.AppendChild(span)
	}
}

func removeLabelSpan(parent *html.Node) {
	if span := findLabelSpan(parent); span != nil {
		parent.RemoveChild(span)
	}
}

func findLabelSpan(parent *html.Node) *html.Node {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "span" && nodeHasClass(c, "label-number") {
			return c
		}
	}
	return nil
}

// walk visits n and all descendants.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func nodeHasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
