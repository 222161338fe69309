package doctree

// Kind tags what a node represents in the document tree.
type Kind int

const (
	KindDocument Kind = iota
	KindHeading
	KindParagraph
	KindText
	KindEquation
	KindFigure
	KindSubfigure
	KindTable
	KindRefMarker // author-written reference, not yet validated
	KindCrossRef  // validated, unresolved reference awaiting a label
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindHeading:
		return "section"
	case KindParagraph:
		return "paragraph"
	case KindText:
		return "text"
	case KindEquation:
		return "equation"
	case KindFigure:
		return "figure"
	case KindSubfigure:
		return "subfigure"
	case KindTable:
		return "table"
	case KindRefMarker:
		return "ref-marker"
	case KindCrossRef:
		return "cross-ref"
	case KindRaw:
		return "raw"
	}
	return "unknown"
}

// Node is a polymorphic document node. The tree owns all nodes; the
// catalog and label table built from it are derived, read-only snapshots.
type Node struct {
	Kind     Kind
	Children []*Node

	ID         string // anchor identifier (empty means not referenceable)
	Unnumbered bool   // excluded from counting and labeling
	Level      int    // heading level 1..6
	Text       string // content for KindText / heading titles
	Caption    string // figure and table captions
	Source     string // raw math source for equations
	ImageURL   string // figure/subfigure image destination
	AltText    string // figure/subfigure image alt text

	Header []string   // table header cells
	Rows   [][]string // table body cells

	Ref *RefData // set on KindRefMarker and KindCrossRef
}

// RefData carries a reference marker's targets and display flags.
type RefData struct {
	Targets     []Target
	IncludeType bool // prefix the label with the type word
	Pluralize   bool // plural type word when several targets render together
	NumberOnly  bool // bare numeral, no type word regardless of IncludeType
	Capitalize  bool // marker starts a sentence
}

// Target is one identifier a reference points at. Type and Resolved are
// filled in during catalog validation.
type Target struct {
	ID       string
	Type     Kind
	Resolved bool
}

// Walk visits n and its descendants in document order. Returning false
// from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Append adds children to n and returns n for chaining.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}
