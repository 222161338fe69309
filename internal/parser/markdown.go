package parser

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/dgallion1/crossmark/internal/doctree"
	"github.com/dgallion1/crossmark/internal/xref"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser converts Pandoc-flavored Markdown into the abstract
// document tree consumed by the cataloging and rendering passes.
//
// Conventions recognized beyond plain Markdown:
//
//   - heading attributes: `## Title {#sec:id .unnumbered}`
//   - display equations: a paragraph delimited by $$, optionally
//     carrying \label{eq:id} and \nonumber or \notag in its source
//   - figures: a paragraph holding one image, `![Caption](f.png){#fig:id}`
//   - subfigures: a paragraph holding several images, each with its own
//     attribute block, followed by the group caption and attribute block
//   - table captions: a paragraph starting with ":" directly after a
//     GFM table, e.g. `: Results {#tbl:id}`
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader) (*doctree.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			gmparser.WithAttribute(),
			gmparser.WithAutoHeadingID(),
		),
	)
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	root := &doctree.Node{Kind: doctree.KindDocument}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			root.Append(p.heading(node, src))

		case *ast.Paragraph:
			root.Append(p.paragraph(node, src))

		case *east.Table:
			tbl := p.table(node, src)
			// A ":"-prefixed paragraph right after a table is its caption.
			if capPara, ok := n.NextSibling().(*ast.Paragraph); ok {
				if capText := inlineText(capPara, src); strings.HasPrefix(capText, ":") {
					applyTableCaption(tbl, strings.TrimSpace(strings.TrimPrefix(capText, ":")))
					n = n.NextSibling()
				}
			}
			root.Append(tbl)

		default:
			if t := rawText(n, src); t != "" {
				root.Append(&doctree.Node{Kind: doctree.KindRaw, Text: t})
			}
		}
	}
	return root, nil
}

func (p *MarkdownParser) heading(node *ast.Heading, src []byte) *doctree.Node {
	h := &doctree.Node{
		Kind:  doctree.KindHeading,
		Level: node.Level,
		Text:  string(node.Text(src)),
	}
	if v, ok := node.AttributeString("id"); ok {
		h.ID = attrString(v)
	}
	if v, ok := node.AttributeString("class"); ok {
		h.Unnumbered = hasClass(attrString(v), "unnumbered")
	}
	return h
}

// paragraph classifies a paragraph as a display equation, a figure
// group, or plain text with reference markers.
func (p *MarkdownParser) paragraph(node *ast.Paragraph, src []byte) *doctree.Node {
	if _, ok := node.FirstChild().(*ast.Image); ok {
		return p.figure(node, src)
	}

	raw := strings.TrimSpace(rawText(node, src))
	if inner, ok := mathSource(raw); ok {
		return &doctree.Node{
			Kind:       doctree.KindEquation,
			Source:     inner,
			ID:         xref.EquationID(inner),
			Unnumbered: !xref.EquationNumbered(inner),
		}
	}

	para := &doctree.Node{Kind: doctree.KindParagraph}
	para.Children = scanRefMarkers(inlineText(node, src))
	return para
}

// figure turns an image paragraph into a figure node. Several images in
// one paragraph become subfigures of a group figure; each image takes
// the attribute block directly following it, and the group's caption
// and attribute block are whatever text is left at the end:
//
//	![Sub A](a.png){#fig:a} ![Sub B](b.png){#fig:b} Both runs {#fig:both}
func (p *MarkdownParser) figure(node *ast.Paragraph, src []byte) *doctree.Node {
	type image struct {
		url, alt, id string
		unnumbered   bool
		hasAttr      bool
	}
	var imgs []image
	var caption strings.Builder

	// Merge adjacent text segments; goldmark splits them arbitrarily.
	var pending strings.Builder
	flushText := func() {
		txt := pending.String()
		pending.Reset()
		for {
			txt = strings.TrimLeft(txt, " \t")
			if !strings.HasPrefix(txt, "{") {
				break
			}
			attr, rest, ok := splitAttrBlock(txt)
			if !ok {
				break
			}
			if i := lastWithoutAttr(len(imgs), func(i int) bool { return imgs[i].hasAttr }); i >= 0 && caption.Len() == 0 {
				imgs[i].id, imgs[i].unnumbered = parseAttrBlock(attr)
				imgs[i].hasAttr = true
			} else {
				// No image is waiting for attributes; this block
				// belongs to the caption and is parsed at the end.
				caption.WriteString(txt)
				return
			}
			txt = rest
		}
		if txt = strings.TrimSpace(txt); txt != "" {
			if caption.Len() > 0 {
				caption.WriteByte(' ')
			}
			caption.WriteString(txt)
		}
	}

	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch el := c.(type) {
		case *ast.Image:
			flushText()
			imgs = append(imgs, image{
				url: string(el.Destination),
				alt: string(el.Text(src)),
			})
		case *ast.Text:
			pending.Write(el.Value(src))
			if el.SoftLineBreak() || el.HardLineBreak() {
				pending.WriteByte(' ')
			}
		}
	}
	flushText()

	// Trailing {...} on the caption is the group's attribute block.
	var groupID string
	var groupUnnumbered bool
	capText := strings.TrimSpace(caption.String())
	if i := strings.LastIndex(capText, "{"); i >= 0 {
		if attr, rest, ok := splitAttrBlock(capText[i:]); ok && strings.TrimSpace(rest) == "" {
			groupID, groupUnnumbered = parseAttrBlock(attr)
			capText = strings.TrimSpace(capText[:i])
		}
	}

	if len(imgs) == 1 && groupID == "" && capText == "" {
		return &doctree.Node{
			Kind:       doctree.KindFigure,
			ID:         imgs[0].id,
			Unnumbered: imgs[0].unnumbered,
			Caption:    imgs[0].alt,
			ImageURL:   imgs[0].url,
			AltText:    imgs[0].alt,
		}
	}

	group := &doctree.Node{
		Kind:       doctree.KindFigure,
		ID:         groupID,
		Unnumbered: groupUnnumbered,
		Caption:    capText,
	}
	for _, img := range imgs {
		group.Append(&doctree.Node{
			Kind:       doctree.KindSubfigure,
			ID:         img.id,
			Unnumbered: img.unnumbered,
			Caption:    img.alt,
			ImageURL:   img.url,
			AltText:    img.alt,
		})
	}
	return group
}

func (p *MarkdownParser) table(node *east.Table, src []byte) *doctree.Node {
	tbl := &doctree.Node{Kind: doctree.KindTable}
	for row := node.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, inlineText(cell, src))
		}
		if _, ok := row.(*east.TableHeader); ok {
			tbl.Header = cells
		} else {
			tbl.Rows = append(tbl.Rows, cells)
		}
	}
	return tbl
}

func applyTableCaption(tbl *doctree.Node, capText string) {
	if i := strings.LastIndex(capText, "{"); i >= 0 {
		if attr, _, ok := splitAttrBlock(capText[i:]); ok {
			tbl.ID, tbl.Unnumbered = parseAttrBlock(attr)
			capText = strings.TrimSpace(capText[:i])
		}
	}
	tbl.Caption = capText
}

// mathSource extracts the raw TeX between $$ delimiters, if any.
func mathSource(raw string) (string, bool) {
	if !strings.HasPrefix(raw, "$$") || !strings.HasSuffix(raw, "$$") || len(raw) < 4 {
		return "", false
	}
	return strings.TrimSpace(raw[2 : len(raw)-2]), true
}

var attrTokenRe = regexp.MustCompile(`#(` + xref.IDPattern + `)|\.([a-zA-Z][\w-]*)`)

// splitAttrBlock splits a leading {...} block from txt.
func splitAttrBlock(txt string) (attr, rest string, ok bool) {
	end := strings.IndexByte(txt, '}')
	if !strings.HasPrefix(txt, "{") || end < 0 {
		return "", "", false
	}
	return txt[1:end], txt[end+1:], true
}

// parseAttrBlock reads `#id` and `.class` tokens from an attribute
// block's inner text.
func parseAttrBlock(attr string) (id string, unnumbered bool) {
	for _, m := range attrTokenRe.FindAllStringSubmatch(attr, -1) {
		switch {
		case m[1] != "":
			if id == "" {
				id = m[1]
			}
		case m[2] == "unnumbered":
			unnumbered = true
		}
	}
	return id, unnumbered
}

// lastWithoutAttr returns the highest index i < n for which done(i) is
// false, or -1.
func lastWithoutAttr(n int, done func(int) bool) int {
	for i := n - 1; i >= 0; i-- {
		if !done(i) {
			return i
		}
	}
	return -1
}

// attrString normalizes goldmark attribute values, which may be stored
// as raw bytes.
func attrString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	}
	return ""
}

func hasClass(classes, want string) bool {
	for _, c := range strings.Fields(classes) {
		if c == want {
			return true
		}
	}
	return false
}

// inlineText flattens a block's inline content to plain text. Soft line
// breaks become spaces so reference markers scan across wrapped lines.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte(' ')
				}
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

// rawText returns a block node's source lines verbatim.
func rawText(n ast.Node, src []byte) string {
	if n.Type() != ast.TypeBlock {
		return ""
	}
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return strings.TrimSpace(buf.String())
}
