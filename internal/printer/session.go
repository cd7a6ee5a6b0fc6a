package printer

import (
	"cmp"
	"fmt"
	"log/slog"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/prima/internal/reflector"
)

// session is the state of one top-level render call.
type session struct {
	p       *Printer
	labels  map[reflector.Token]int
	active  map[reflector.Token]bool // non-struct pointers being expanded
	counter int
	indent  string
}

func (s *session) push() {
	s.indent += indentUnit
}

func (s *session) pop() {
	s.indent = s.indent[:len(s.indent)-len(indentUnit)]
}

func (s *session) next() int {
	s.counter++
	return s.counter
}

func (s *session) assign(tok reflector.Token, ref bool) int {
	label := s.next()
	if ref {
		s.labels[tok] = label
	}
	return label
}

func (s *session) render(v reflect.Value) string {
	v = reflector.Unwrap(v)
	if reflector.IsNil(v) {
		return "null"
	}
	t := v.Type()

	if t.Kind() == reflect.String {
		return strconv.Quote(v.String())
	}
	if reflector.IsRandom(v) {
		return "new Random()"
	}
	if reflector.IsColor(v) {
		return `"` + fmt.Sprint(v.Interface()) + `"`
	}
	if text, ok := s.enum(v); ok {
		return text
	}
	if m, ok := reflector.IndentedMethod(v); ok {
		if text, ok := s.callString(m, v, "ToIndentedString", reflect.ValueOf(s.indent)); ok {
			return text
		}
	}
	if text, ok := numeral(v); ok {
		return text
	}
	if m, ok := s.p.refl.StringMethod(v); ok {
		if text, ok := s.callString(m, v, "String"); ok {
			return text
		}
	}
	return s.composite(v)
}

// enum renders named integer types that implement fmt.Stringer. User types
// render as "pkg.Type.Name"; library types use their String verbatim.
func (s *session) enum(v reflect.Value) (string, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return "", false
	}
	if v.Type().PkgPath() == "" {
		return "", false
	}
	m, ok := s.p.refl.StringMethod(v)
	if !ok {
		return "", false
	}
	name, ok := s.callString(m, v, "String")
	if !ok {
		return "", false
	}
	if s.p.refl.Classify(v.Type()) != reflector.UserCode {
		return name, true
	}
	return v.Type().String() + "." + name, true
}

func (s *session) callString(m, v reflect.Value, name string, args ...reflect.Value) (string, bool) {
	out, err := reflector.Call(m, name, v.Type(), args...)
	if err != nil {
		s.p.logger.Warn("render method failed", slog.String("type", v.Type().String()), slog.String("cause", err.Error()))
		return "", false
	}
	return out[0].String(), true
}

// numeral renders scalars and arbitrary precision numbers. Kinds whose
// literal would be ambiguous carry a suffix.
func numeral(v reflect.Value) (string, bool) {
	switch v.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int32:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Int16:
		return strconv.FormatInt(v.Int(), 10) + "S", true
	case reflect.Int64:
		return strconv.FormatInt(v.Int(), 10) + "L", true
	case reflect.Uint8:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Uint, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10) + "U", true
	case reflect.Float64:
		return formatFloat(v.Float(), 64), true
	case reflect.Float32:
		return formatFloat(v.Float(), 32) + "F", true
	case reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128), true
	case reflect.Complex64:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 64) + "F", true
	}

	if !reflector.IsWrapper(v.Type()) {
		return "", false
	}
	if v.Kind() != reflect.Pointer {
		v = reflector.Addressable(v).Addr()
	}
	switch x := v.Interface().(type) {
	case *big.Int:
		return x.String() + "BigInteger", true
	case *big.Float:
		return x.Text('g', -1) + "BigDecimal", true
	case *big.Rat:
		return x.RatString() + "BigDecimal", true
	case *apd.Decimal:
		return x.String() + "BigDecimal", true
	}
	return "", false
}

// formatFloat always shows a decimal point or exponent so that floating
// values never look like integers.
func formatFloat(f float64, bits int) string {
	text := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(text, ".eEnN") {
		text += ".0"
	}
	return text
}

func (s *session) composite(v reflect.Value) string {
	t := v.Type()
	tok, ref := reflector.IdentityOf(v)

	if v.Kind() == reflect.Pointer {
		return s.pointer(v, tok)
	}
	if ref {
		if label, seen := s.labels[tok]; seen {
			return t.String() + ":" + strconv.Itoa(label)
		}
	}

	switch v.Kind() {
	case reflect.Struct:
		return s.object(v, t.String(), s.next())
	case reflect.Array, reflect.Slice:
		return s.sequence(v, t.String(), s.assign(tok, ref))
	case reflect.Map:
		label := s.assign(tok, ref)
		if reflector.IsSet(t) {
			return s.set(v, t.String(), label)
		}
		return s.mapping(v, t.String(), label)
	case reflect.Func:
		if seq, ok := s.p.refl.Elements(v, false); ok {
			return s.iterable(t.String(), seq, s.next())
		}
	}
	return t.String()
}

// pointer renders what v points to. Struct pointers and library iterables
// are labelled by the pointer; other pointers are transparent.
func (s *session) pointer(v reflect.Value, tok reflector.Token) string {
	name := v.Type().Elem().String()
	if label, seen := s.labels[tok]; seen {
		return name + ":" + strconv.Itoa(label)
	}
	if seq, ok := s.p.refl.Elements(v, false); ok {
		return s.iterable(name, seq, s.assign(tok, true))
	}
	if v.Type().Elem().Kind() == reflect.Struct {
		return s.object(v.Elem(), name, s.assign(tok, true))
	}

	if s.active[tok] {
		return name + ":cycle"
	}
	s.active[tok] = true
	defer delete(s.active, tok)
	return s.render(v.Elem())
}

func (s *session) object(v reflect.Value, name string, label int) string {
	var b strings.Builder
	b.WriteString("new " + name + ":" + strconv.Itoa(label) + "(")

	s.push()
	v = reflector.Addressable(v)
	for _, f := range s.p.refl.FieldsOf(v.Type()) {
		b.WriteString("\n" + s.indent + "this." + f.Name + " = ")
		fv, err := reflector.Read(v, f)
		if err != nil {
			s.fieldFailed(err)
			b.WriteString("<inaccessible>")
			continue
		}
		b.WriteString(s.render(fv))
	}
	s.pop()

	b.WriteString(")")
	return b.String()
}

func (s *session) fieldFailed(err error) {
	attrs := []any{slog.String("cause", err.Error())}
	if fae, ok := err.(*reflector.FieldAccessError); ok {
		attrs = append(attrs,
			slog.String("field", fae.Field),
			slog.String("declaring_type", fae.DeclaringType.String()))
	}
	s.p.logger.Warn("field access failed", attrs...)
}

func (s *session) item(b *strings.Builder, tag string, i int, v reflect.Value) {
	b.WriteString("\n" + s.indent + tag + "[" + strconv.Itoa(i) + "] " + s.render(v) + ",")
}

func (s *session) sequence(v reflect.Value, name string, label int) string {
	var b strings.Builder
	b.WriteString("new " + name + ":" + strconv.Itoa(label) + "[" + strconv.Itoa(v.Len()) + "]{")
	s.push()
	for i := 0; i < v.Len(); i++ {
		s.item(&b, "", i, v.Index(i))
	}
	s.pop()
	return strings.TrimSuffix(b.String(), ",") + "}"
}

func (s *session) iterable(name string, seq func(func(reflect.Value) bool), label int) string {
	var b strings.Builder
	b.WriteString("new " + name + ":" + strconv.Itoa(label) + "{")
	s.push()
	i := 0
	for e := range seq {
		s.item(&b, "Iterable", i, e)
		i++
	}
	s.pop()
	return strings.TrimSuffix(b.String(), ",") + "}"
}

func (s *session) traversalItems(tr reflector.Traversal) string {
	var b strings.Builder
	var err error
	i := 0
	for e := range tr.Elements(&err) {
		s.item(&b, "Traversal", i, e)
		i++
	}
	if err != nil {
		s.p.logger.Warn("traversal failed", slog.String("cause", err.Error()))
	}
	return b.String()
}

// sortKey renders v in a scratch session so that ordering map entries does
// not consume labels.
func (s *session) sortKey(v reflect.Value) string {
	scratch := s.p.newSession()
	scratch.indent = s.indent
	return scratch.render(v)
}

// mapEntry carries the sort keys of one map entry. Entries are ordered by
// rendered key, then rendered value, then key identity, then the key's Go
// syntax form, so equal-looking keys keep one order across calls.
type mapEntry struct {
	key      reflect.Value
	rkey     string
	rval     string
	identity uintptr
	syntax   string
}

func (s *session) sortedKeys(v reflect.Value) []reflect.Value {
	keys := v.MapKeys()
	entries := make([]mapEntry, len(keys))
	for i, k := range keys {
		e := mapEntry{key: k, rkey: s.sortKey(k), rval: s.sortKey(v.MapIndex(k))}
		if tok, ok := reflector.IdentityOf(reflector.Unwrap(k)); ok {
			e.identity = tok.Ptr
		}
		e.syntax = fmt.Sprintf("%#v", k)
		entries[i] = e
	}
	slices.SortFunc(entries, func(a, b mapEntry) int {
		return cmp.Or(
			strings.Compare(a.rkey, b.rkey),
			strings.Compare(a.rval, b.rval),
			cmp.Compare(a.identity, b.identity),
			strings.Compare(a.syntax, b.syntax),
		)
	})
	out := make([]reflect.Value, len(entries))
	for i, e := range entries {
		out[i] = e.key
	}
	return out
}

func (s *session) set(v reflect.Value, name string, label int) string {
	var b strings.Builder
	b.WriteString("new " + name + ":" + strconv.Itoa(label) + "{")
	s.push()
	for i, k := range s.sortedKeys(v) {
		s.item(&b, "Set", i, k)
	}
	s.pop()
	return strings.TrimSuffix(b.String(), ",") + "}"
}

func (s *session) mapping(v reflect.Value, name string, label int) string {
	var b strings.Builder
	b.WriteString("new " + name + ":" + strconv.Itoa(label) + "{")
	s.push()
	for _, k := range s.sortedKeys(v) {
		b.WriteString("\n" + s.indent + "(key: " + s.render(k))
		b.WriteString("\n" + s.indent + " value: " + s.render(v.MapIndex(k)) + "),")
	}
	s.pop()
	return strings.TrimSuffix(b.String(), ",") + "}"
}
