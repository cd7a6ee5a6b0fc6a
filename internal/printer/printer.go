package printer

import (
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/roach88/prima/internal/reflector"
)

// indentUnit is added for every nesting level.
const indentUnit = "  "

// Printer renders values. It holds configuration only and may be shared.
type Printer struct {
	refl   *reflector.Reflector
	logger *slog.Logger
}

// Option configures a Printer.
type Option func(*Printer)

// WithReflector sets the field accessor.
func WithReflector(r *reflector.Reflector) Option {
	return func(p *Printer) {
		p.refl = r
	}
}

// WithLogger sets the logger used for unreadable fields and failing user
// methods.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Printer) {
		p.logger = logger
	}
}

// New creates a Printer.
func New(opts ...Option) *Printer {
	p := &Printer{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(p)
	}
	if p.refl == nil {
		p.refl = reflector.New()
	}
	return p
}

// Render produces the canonical text of v.
func (p *Printer) Render(v any) string {
	s := p.newSession()
	return s.render(reflect.ValueOf(v))
}

// RenderIterable lists the elements of an iterable, one "Iterable[i]" line
// each. Slices, arrays, library iterables, and types with an All method are
// accepted; anything else renders as with Render.
func (p *Printer) RenderIterable(v any) string {
	s := p.newSession()
	rv := reflector.Unwrap(reflect.ValueOf(v))
	if reflector.IsNil(rv) {
		return "null"
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		var b strings.Builder
		for i := 0; i < rv.Len(); i++ {
			s.item(&b, "Iterable", i, rv.Index(i))
		}
		return trimList(b.String())
	}
	seq, ok := p.refl.Elements(rv, true)
	if !ok {
		return s.render(rv)
	}
	var b strings.Builder
	i := 0
	for e := range seq {
		s.item(&b, "Iterable", i, e)
		i++
	}
	return trimList(b.String())
}

// RenderTraversal lists the elements of a traversal, one "Traversal[i]"
// line each. Values that are no traversal render as with Render.
func (p *Printer) RenderTraversal(v any) string {
	s := p.newSession()
	rv := reflect.ValueOf(v)
	tr, ok := reflector.TraversalOf(rv)
	if !ok {
		return s.render(rv)
	}
	return trimList(s.traversalItems(tr))
}

func (p *Printer) newSession() *session {
	return &session{
		p:      p,
		labels: make(map[reflector.Token]int),
		active: make(map[reflector.Token]bool),
	}
}

// trimList drops the leading newline and trailing comma of an item list.
func trimList(s string) string {
	s = strings.TrimPrefix(s, "\n")
	return strings.TrimSuffix(s, ",")
}
