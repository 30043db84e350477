// Package render turns a JSON value into a collapsible HTML tree.
//
// The markup keeps every piece of JSON punctuation as text inside spans
// classed ClassHidden, so the text content of a rendered tree (minus the
// unselectable root label) is valid JSON for the rendered value. Output is
// produced as a lazy sequence of chunks; concatenating them gives the HTML.
package render

import (
	"iter"
	"strings"

	"github.com/mcncl/jsontree/internal/models"
)

// CSS classes shared with the embedded stylesheet and script. Renaming any of
// them breaks the collapse behavior.
const (
	ClassCollapsible  = "jsontree-collapsible"
	ClassCollapsed    = "jsontree-collapsed"
	ClassHidden       = "jsontree-hidden"
	ClassKey          = "jsontree-key"
	ClassUnselectable = "jsontree-unselectable"
	ClassValue        = "jsontree-value"

	ClassString  = "jsontree-string"
	ClassNumber  = "jsontree-number"
	ClassBoolean = "jsontree-boolean"
	ClassNull    = "jsontree-null"
)

// Hidden punctuation tokens.
const (
	quote        = `<span class="` + ClassHidden + `">"</span>`
	colon        = `<span class="` + ClassHidden + `">: </span>`
	comma        = `<span class="` + ClassHidden + `">, </span>`
	curlyOpen    = `<span class="` + ClassHidden + `">&lbrace;</span>`
	curlyClose   = `<span class="` + ClassHidden + `">&rbrace;</span>`
	bracketOpen  = `<span class="` + ClassHidden + `">&lbrack;</span>`
	bracketClose = `<span class="` + ClassHidden + `">&rbrack;</span>`
)

// DefaultRoot is the label shown for the top-level entry.
const DefaultRoot = "root"

// Options configure a single render call.
type Options struct {
	// Root labels the synthetic top-level key.
	Root string
	// Expanded controls whether collapsible entries start open. It applies at every depth.
	Expanded bool
}

// DefaultOptions returns the options used by the convenience entry points.
func DefaultOptions() Options {
	return Options{Root: DefaultRoot, Expanded: true}
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// emitter forwards chunks to an iterator consumer until it asks to stop.
type emitter struct {
	yield   func(string) bool
	stopped bool
}

func (e *emitter) emit(chunks ...string) {
	for _, c := range chunks {
		if e.stopped {
			return
		}
		if c == "" {
			continue
		}
		if !e.yield(c) {
			e.stopped = true
		}
	}
}

func seq(fn func(e *emitter)) iter.Seq[string] {
	return func(yield func(string) bool) {
		fn(&emitter{yield: yield})
	}
}

// Chunks yields the markup of the tree for v: one outer value element holding
// a single entry whose key is opts.Root.
func Chunks(v models.Value, opts Options) iter.Seq[string] {
	return seq(func(e *emitter) {
		e.tree(v, opts)
	})
}

// Tree returns the concatenated markup of Chunks.
func Tree(v models.Value, opts Options) string {
	return Join(Chunks(v, opts))
}

// Join concatenates a chunk sequence.
func Join(chunks iter.Seq[string]) string {
	var b strings.Builder
	for c := range chunks {
		b.WriteString(c)
	}
	return b.String()
}

// Value yields the markup for v at any position in a tree.
func Value(v models.Value, expanded, trailingComma bool) iter.Seq[string] {
	return seq(func(e *emitter) {
		e.value(v, expanded, trailingComma)
	})
}

// Key yields a key element. Keys that are not selectable are skipped when a
// reader copies the tree.
func Key(label string, collapsible, selectable bool) iter.Seq[string] {
	return seq(func(e *emitter) {
		e.key(label, collapsible, selectable)
	})
}

// List yields an array block.
func List(items []models.Value, expanded, trailingComma bool) iter.Seq[string] {
	return seq(func(e *emitter) {
		e.list(items, expanded, trailingComma)
	})
}

// Dict yields an object block.
func Dict(members []models.Member, expanded, trailingComma bool) iter.Seq[string] {
	return seq(func(e *emitter) {
		e.dict(members, expanded, trailingComma)
	})
}

// Scalar yields a scalar value. Containers, including empty ones, are
// delegated to the container emitters so their brackets stay balanced.
func Scalar(v models.Value, trailingComma bool) iter.Seq[string] {
	return seq(func(e *emitter) {
		if v.IsContainer() {
			e.value(v, false, trailingComma)
			return
		}
		e.scalar(v, trailingComma)
	})
}

func (e *emitter) tree(v models.Value, opts Options) {
	e.emit(`<div class="`+ClassValue+`"><ul>`, entryOpen(v, opts.Expanded))
	e.key(opts.Root, v.IsNested(), false)
	e.value(v, opts.Expanded, false)
	e.emit(`</li></ul></div>`)
}

func (e *emitter) value(v models.Value, expanded, trailingComma bool) {
	switch v.Kind {
	case models.List:
		e.list(v.Items(), expanded, trailingComma)
	case models.Map:
		e.dict(v.Members(), expanded, trailingComma)
	default:
		e.scalar(v, trailingComma)
	}
}

func (e *emitter) key(label string, collapsible, selectable bool) {
	classes := ClassKey
	attrs := ""
	if collapsible {
		classes += " " + ClassCollapsible
		attrs = ` tabindex="0"`
	}
	if !selectable {
		classes += " " + ClassUnselectable
	}
	e.emit(`<span class="`+classes+`"`+attrs+`>`, quote, keyText(label), quote, colon, `</span>`)
}

// list emits each element in its own entry. Elements carry no index key. The
// separator after an element is emitted inside that element's markup so it
// never wraps onto its own line below a block value.
func (e *emitter) list(items []models.Value, expanded, trailingComma bool) {
	e.emit(`<div class="`+ClassValue+`">`, bracketOpen, `<ul>`)
	last := len(items) - 1
	for i, item := range items {
		if e.stopped {
			return
		}
		e.emit(entryOpen(item, expanded))
		e.value(item, expanded, i != last)
		e.emit(`</li>`)
	}
	e.emit(`</ul>`, bracketClose, separator(trailingComma), `</div>`)
}

func (e *emitter) dict(members []models.Member, expanded, trailingComma bool) {
	e.emit(`<div class="`+ClassValue+`">`, curlyOpen, `<ul>`)
	last := len(members) - 1
	for i, m := range members {
		if e.stopped {
			return
		}
		e.emit(entryOpen(m.Value, expanded))
		e.key(m.Key, m.Value.IsNested(), true)
		e.value(m.Value, expanded, i != last)
		e.emit(`</li>`)
	}
	e.emit(`</ul>`, curlyClose, separator(trailingComma), `</div>`)
}

func (e *emitter) scalar(v models.Value, trailingComma bool) {
	e.emit(`<span class="`+ClassValue+` `+scalarClass(v.Kind)+`">`, textEscaper.Replace(v.Literal()), `</span>`, separator(trailingComma))
}

func entryOpen(v models.Value, expanded bool) string {
	if v.IsNested() && !expanded {
		return `<li class="` + ClassCollapsed + `">`
	}
	return `<li>`
}

func separator(trailingComma bool) string {
	if trailingComma {
		return comma
	}
	return ""
}

// keyText escapes a key the way a JSON string body is escaped, then makes it
// safe as HTML text.
func keyText(label string) string {
	quoted := models.Quote(label)
	return textEscaper.Replace(quoted[1 : len(quoted)-1])
}

func scalarClass(k models.Kind) string {
	switch k {
	case models.String:
		return ClassString
	case models.Number:
		return ClassNumber
	case models.Bool:
		return ClassBoolean
	default:
		return ClassNull
	}
}
