// Package engine ties the two cross-referencing phases together.
//
// Phase 1 (Render only): parse Markdown, catalog identifiers, validate
// and rewrite reference markers, serialize to HTML. Phase 2 (Render and
// Relabel): label every element class in the output and substitute
// final reference text. Phase 2 consumes nothing but the serialized
// output, so it can be re-run on edited HTML any number of times
// without touching the source — labels are recomputed from scratch on
// every pass.
package engine

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/crossmark/internal/label"
	"github.com/dgallion1/crossmark/internal/parser"
	"github.com/dgallion1/crossmark/internal/render"
	"github.com/dgallion1/crossmark/internal/xref"
	"golang.org/x/net/html"
)

// Engine runs the cross-referencing passes. Safe for concurrent use:
// all per-document state lives on the stack of each call.
type Engine struct {
	log       *slog.Logger
	diagOut   io.Writer
	formatter *label.Formatter
}

// Options configures an Engine.
type Options struct {
	// DiagOut receives one human-readable line per diagnostic.
	// Diagnostics are warnings: the engine always completes and always
	// produces output.
	DiagOut io.Writer

	// TypeWords overrides the display words used when a reference
	// includes its target's type.
	TypeWords map[string]string

	// Capitalize enables sentence-start capitalization of type words.
	Capitalize bool
}

func New(log *slog.Logger, opts Options) *Engine {
	out := opts.DiagOut
	if out == nil {
		out = io.Discard
	}
	return &Engine{
		log:       log,
		diagOut:   out,
		formatter: label.NewFormatter(opts.TypeWords, opts.Capitalize),
	}
}

// Result is the output of a render or relabel run.
type Result struct {
	HTML        string            `json:"html"`
	Diagnostics []xref.Diagnostic `json:"diagnostics"`
}

// Render runs both phases on Markdown source.
func (e *Engine) Render(src []byte) (Result, error) {
	p := &parser.MarkdownParser{}
	tree, err := p.Parse(bytes.NewReader(src))
	if err != nil {
		return Result{}, fmt.Errorf("parse markdown: %w", err)
	}

	catalog, diags := xref.BuildCatalog(tree)
	diags = append(diags, xref.ResolveRefs(tree, catalog)...)

	out, rdiags, err := e.relabel([]byte(render.Document(tree)))
	if err != nil {
		return Result{}, err
	}
	diags = append(diags, rdiags...)

	e.report(diags)
	return Result{HTML: out, Diagnostics: diags}, nil
}

// Relabel runs phase 2 alone on already-rendered HTML, renumbering
// every element and re-substituting every reference. Used when the
// output has been edited after rendering.
func (e *Engine) Relabel(src []byte) (Result, error) {
	out, diags, err := e.relabel(src)
	if err != nil {
		return Result{}, err
	}
	e.report(diags)
	return Result{HTML: out, Diagnostics: diags}, nil
}

func (e *Engine) relabel(src []byte) (string, []xref.Diagnostic, error) {
	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return "", nil, fmt.Errorf("parse html: %w", err)
	}

	table := label.Run(doc)
	diags := label.Substitute(doc, table, e.formatter)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", nil, fmt.Errorf("render html: %w", err)
	}
	return buf.String(), diags, nil
}

func (e *Engine) report(diags []xref.Diagnostic) {
	xref.WriteAll(e.diagOut, diags)
	for _, d := range diags {
		e.log.Warn("cross-reference diagnostic", "kind", string(d.Kind), "id", d.ID, "detail", d.Detail)
	}
}

// Catalog exposes phase 1's catalog pass for callers that only need
// identifier validation, e.g. linting without rendering.
func (e *Engine) Catalog(src []byte) (xref.Catalog, []xref.Diagnostic, error) {
	p := &parser.MarkdownParser{}
	tree, err := p.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, nil, fmt.Errorf("parse markdown: %w", err)
	}
	catalog, diags := xref.BuildCatalog(tree)
	return catalog, diags, nil
}
