package inspector

import (
	"errors"
	"iter"
	"log/slog"
	"math"
	"math/big"
	"reflect"

	"github.com/cockroachdb/apd/v3"

	"github.com/roach88/prima/internal/reflector"
)

// pairKey is an unordered pair of identities, stored sorted.
type pairKey struct {
	lo, hi reflector.Token
}

func newPairKey(a, b reflector.Token) pairKey {
	if b.Less(a) {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// session is the state of one top-level comparison.
type session struct {
	in          *Inspector
	tolerance   float64
	visited     map[pairKey]struct{}
	inexact     bool
	diagnostics []error
}

func newSession(in *Inspector, tolerance float64) *session {
	return &session{
		in:        in,
		tolerance: tolerance,
		visited:   make(map[pairKey]struct{}),
	}
}

func (s *session) diagnose(err error) {
	s.diagnostics = append(s.diagnostics, err)

	var fae *reflector.FieldAccessError
	if errors.As(err, &fae) {
		s.in.logger.Warn("field access failed",
			slog.String("field", fae.Field),
			slog.String("declaring_type", fae.DeclaringType.String()),
			slog.String("cause", fae.Cause.Error()))
		return
	}
	s.in.logger.Warn("comparison diagnostic", slog.String("cause", err.Error()))
}

func (s *session) same(a, b reflect.Value) bool {
	a, b = reflector.Unwrap(a), reflector.Unwrap(b)

	aNil, bNil := reflector.IsNil(a), reflector.IsNil(b)
	if aNil || bNil {
		return aNil && bNil
	}

	ta, aRef := reflector.IdentityOf(a)
	tb, bRef := reflector.IdentityOf(b)
	if aRef && bRef && ta == tb {
		return true
	}

	if reflector.IsOpaque(a) || reflector.IsOpaque(b) {
		return a.Type() == b.Type()
	}

	if a.Type() != b.Type() {
		return false
	}
	t := a.Type()

	switch t.Kind() {
	case reflect.String:
		return a.String() == b.String()
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return s.sameFloat(a.Float(), b.Float())
	case reflect.Complex64, reflect.Complex128:
		ca, cb := a.Complex(), b.Complex()
		re := s.sameFloat(real(ca), real(cb))
		im := s.sameFloat(imag(ca), imag(cb))
		return re && im
	}

	if reflector.IsWrapper(t) {
		return sameNumber(a, b)
	}
	if s.in.refl.Classify(t) == reflector.TrustedLibrary {
		if eq, ok := reflector.EqualMethod(a); ok {
			return s.call(eq, b)
		}
	}

	if aRef && bRef {
		key := newPairKey(ta, tb)
		if _, seen := s.visited[key]; seen {
			return true
		}
		s.visited[key] = struct{}{}
	}

	if t.Kind() == reflect.Array || t.Kind() == reflect.Slice {
		return s.sameSequence(a, b)
	}

	if fn, ok := s.in.sameFuncs[t]; ok {
		return s.call(func(other reflect.Value) (ok bool, err error) {
			defer func() {
				if p := recover(); p != nil {
					err = &reflector.CallError{Method: "same func", Type: t, Value: p}
				}
			}()
			return fn(a, other), nil
		}, b)
	}
	if pred, ok := reflector.SameMethod(a); ok {
		return s.call(pred, b)
	}

	if reflector.IsSet(t) {
		return s.sameSet(a, b)
	}
	if tra, ok := reflector.TraversalOf(a); ok {
		if trb, ok := reflector.TraversalOf(b); ok {
			return s.sameTraversal(tra, trb)
		}
	}
	if ea, ok := s.in.refl.Elements(a, false); ok {
		if eb, ok := s.in.refl.Elements(b, false); ok {
			return s.sameElements(ea, eb)
		}
	}

	switch t.Kind() {
	case reflect.Map:
		return s.sameMap(a, b)
	case reflect.Pointer:
		return s.same(a.Elem(), b.Elem())
	case reflect.Struct:
		return s.sameFields(a, b)
	case reflect.Func:
		// Only the code pointer is observable.
		return a.Pointer() == b.Pointer()
	}

	// Chans and unsafe pointers are the same only by identity.
	return false
}

// sameFloat applies the relative difference rule. Values that are exactly
// equal never count as an inexact comparison.
func (s *session) sameFloat(x, y float64) bool {
	if x == y {
		return true
	}
	s.inexact = true
	switch {
	case x == 0:
		return math.Abs(y) < s.tolerance
	case y == 0:
		return math.Abs(x) < s.tolerance
	}
	return math.Abs(x-y)/math.Abs((x+y)/2) < s.tolerance
}

func (s *session) call(pred reflector.Predicate, other reflect.Value) bool {
	ok, err := pred(other)
	if err != nil {
		s.diagnose(err)
		return false
	}
	return ok
}

func bigOf(v reflect.Value) any {
	if v.Kind() != reflect.Pointer {
		v = reflector.Addressable(v).Addr()
	}
	return v.Interface()
}

func sameNumber(a, b reflect.Value) bool {
	switch x := bigOf(a).(type) {
	case *big.Int:
		return x.Cmp(bigOf(b).(*big.Int)) == 0
	case *big.Float:
		return x.Cmp(bigOf(b).(*big.Float)) == 0
	case *big.Rat:
		return x.Cmp(bigOf(b).(*big.Rat)) == 0
	case *apd.Decimal:
		return x.Cmp(bigOf(b).(*apd.Decimal)) == 0
	}
	return false
}

func (s *session) sameSequence(a, b reflect.Value) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !s.same(a.Index(i), b.Index(i)) {
			return false
		}
	}
	return true
}

// sameSet matches every member of a against some member of b using plain
// equality: an Equal method when present, == otherwise. Members are not
// compared structurally.
func (s *session) sameSet(a, b reflect.Value) bool {
	if a.Len() != b.Len() {
		return false
	}
	it := a.MapRange()
	for it.Next() {
		found := false
		other := b.MapRange()
		for other.Next() {
			if s.plainEqual(it.Key(), other.Key()) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *session) plainEqual(x, y reflect.Value) bool {
	x, y = reflector.Unwrap(x), reflector.Unwrap(y)
	xNil, yNil := reflector.IsNil(x), reflector.IsNil(y)
	if xNil || yNil {
		return xNil && yNil
	}
	if x.Type() != y.Type() {
		return false
	}
	if eq, ok := reflector.EqualMethod(x); ok {
		return s.call(eq, y)
	}
	if x.Type().Comparable() {
		return x.Equal(y)
	}
	return reflect.DeepEqual(x.Interface(), y.Interface())
}

func (s *session) sameMap(a, b reflect.Value) bool {
	if a.Len() != b.Len() {
		return false
	}
	it := a.MapRange()
	for it.Next() {
		bv := b.MapIndex(it.Key())
		if !bv.IsValid() {
			return false
		}
		if !s.same(it.Value(), bv) {
			return false
		}
	}
	return true
}

// sameElements walks both sequences in lockstep.
func (s *session) sameElements(ea, eb iter.Seq[reflect.Value]) bool {
	nextA, stopA := iter.Pull(ea)
	defer stopA()
	nextB, stopB := iter.Pull(eb)
	defer stopB()

	for {
		x, okA := nextA()
		y, okB := nextB()
		if !okA || !okB {
			return okA == okB
		}
		if !s.same(x, y) {
			return false
		}
	}
}

func (s *session) sameTraversal(a, b reflector.Traversal) bool {
	var errA, errB error
	same := s.sameElements(a.Elements(&errA), b.Elements(&errB))
	if err := errors.Join(errA, errB); err != nil {
		s.diagnose(err)
		return false
	}
	return same
}

func (s *session) sameFields(a, b reflect.Value) bool {
	fields := s.in.refl.FieldsOf(a.Type())
	a, b = reflector.Addressable(a), reflector.Addressable(b)
	for _, f := range fields {
		fa, err := reflector.Read(a, f)
		if err != nil {
			s.diagnose(err)
			return false
		}
		fb, err := reflector.Read(b, f)
		if err != nil {
			s.diagnose(err)
			return false
		}
		if !s.same(fa, fb) {
			return false
		}
	}
	return true
}

func (s *session) sameAsSet(a, b reflect.Value) bool {
	a, b = reflector.Unwrap(a), reflector.Unwrap(b)
	aNil, bNil := reflector.IsNil(a), reflector.IsNil(b)
	if aNil || bNil {
		return aNil && bNil
	}
	if a.Type() != b.Type() || !reflector.IsSet(a.Type()) {
		return false
	}
	return s.sameSet(a, b)
}

func (s *session) sameAsIterable(a, b reflect.Value) bool {
	a, b = reflector.Unwrap(a), reflector.Unwrap(b)
	aNil, bNil := reflector.IsNil(a), reflector.IsNil(b)
	if aNil || bNil {
		return aNil && bNil
	}
	ea, ok := s.elementsOf(a)
	if !ok {
		return false
	}
	eb, ok := s.elementsOf(b)
	if !ok {
		return false
	}
	return s.sameElements(ea, eb)
}

func (s *session) elementsOf(v reflect.Value) (iter.Seq[reflect.Value], bool) {
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		return func(yield func(reflect.Value) bool) {
			for i := 0; i < v.Len(); i++ {
				if !yield(v.Index(i)) {
					return
				}
			}
		}, true
	}
	return s.in.refl.Elements(v, true)
}

func (s *session) sameAsTraversal(a, b reflect.Value) bool {
	a, b = reflector.Unwrap(a), reflector.Unwrap(b)
	aNil, bNil := reflector.IsNil(a), reflector.IsNil(b)
	if aNil || bNil {
		return aNil && bNil
	}
	tra, ok := reflector.TraversalOf(a)
	if !ok {
		return false
	}
	trb, ok := reflector.TraversalOf(b)
	if !ok {
		return false
	}
	return s.sameTraversal(tra, trb)
}
