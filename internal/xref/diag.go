package xref

import (
	"fmt"
	"io"
)

// DiagKind classifies a cross-referencing problem.
type DiagKind string

const (
	DuplicateIdentifier         DiagKind = "duplicate_identifier"
	UnresolvedIdentifier        DiagKind = "unresolved_identifier"
	TypeMismatch                DiagKind = "type_mismatch"
	UnresolvedReferenceAtRender DiagKind = "unresolved_reference_at_render"
)

// Diagnostic is one non-fatal problem found while cataloging, resolving,
// or substituting references. Diagnostics never abort a run: a document
// with broken references still produces output, with visibly broken
// reference text.
type Diagnostic struct {
	Kind   DiagKind `json:"kind"`
	ID     string   `json:"id"`
	Detail string   `json:"detail"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("crossmark: %s: %s", d.Kind, d.Detail)
}

// WriteAll prints one human-readable line per diagnostic to w.
func WriteAll(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String())
	}
}
