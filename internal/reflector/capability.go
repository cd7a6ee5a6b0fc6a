package reflector

import (
	"container/list"
	"fmt"
	"image/color"
	"iter"
	"math/rand"
	randv2 "math/rand/v2"
	"reflect"
)

var (
	boolType    = reflect.TypeOf(false)
	stringType  = reflect.TypeOf("")
	listPtrType = reflect.TypeOf((*list.List)(nil))
	randType    = reflect.TypeOf((*rand.Rand)(nil))
	randV2Type  = reflect.TypeOf((*randv2.Rand)(nil))
	colorType   = reflect.TypeOf((*color.Color)(nil)).Elem()
)

const opaqueValueName = "OpaqueValue"

// CallError reports a panic raised by a user method invoked reflectively.
type CallError struct {
	Method string
	Type   reflect.Type
	Value  any
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s.%s panicked: %v", typeName(e.Type), e.Method, e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *CallError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Method returns the method called name bound to v. When v is not a pointer
// the pointer method set is consulted as well, using a copy of v as the
// receiver.
func Method(v reflect.Value, name string) (reflect.Value, bool) {
	v = Unwrap(v)
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	if m := v.MethodByName(name); m.IsValid() {
		return m, true
	}
	if v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		return reflect.Value{}, false
	}
	if _, ok := reflect.PointerTo(v.Type()).MethodByName(name); !ok {
		return reflect.Value{}, false
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.MethodByName(name), true
}

// Call invokes fn, converting a panic into a *CallError.
func Call(fn reflect.Value, name string, recv reflect.Type, args ...reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = &CallError{Method: name, Type: recv, Value: p}
		}
	}()
	return fn.Call(args), nil
}

// Predicate compares a receiver captured by SameMethod or EqualMethod
// against another value of the same type.
type Predicate func(other reflect.Value) (bool, error)

// SameMethod returns v's Same method as a predicate. The method must report
// a bool and accept one argument of v's type or of a pointer to it.
func SameMethod(v reflect.Value) (Predicate, bool) {
	return predicateMethod(v, "Same")
}

// EqualMethod is SameMethod for a method called Equal.
func EqualMethod(v reflect.Value) (Predicate, bool) {
	return predicateMethod(v, "Equal")
}

func predicateMethod(v reflect.Value, name string) (Predicate, bool) {
	v = Unwrap(v)
	m, ok := Method(v, name)
	if !ok {
		return nil, false
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0) != boolType {
		return nil, false
	}
	recv := v.Type()
	switch {
	case mt.In(0) == recv:
		return func(other reflect.Value) (bool, error) {
			out, err := Call(m, name, recv, other)
			if err != nil {
				return false, err
			}
			return out[0].Bool(), nil
		}, true
	case recv.Kind() != reflect.Pointer && mt.In(0) == reflect.PointerTo(recv):
		return func(other reflect.Value) (bool, error) {
			out, err := Call(m, name, recv, Addressable(other).Addr())
			if err != nil {
				return false, err
			}
			return out[0].Bool(), nil
		}, true
	}
	return nil, false
}

// IsOpaque reports whether v declares the OpaqueValue marker method. Such
// values are compared by type alone.
func IsOpaque(v reflect.Value) bool {
	m, ok := Method(v, opaqueValueName)
	if !ok {
		return false
	}
	mt := m.Type()
	return mt.NumIn() == 0 && mt.NumOut() == 0
}

// IsRandom reports whether v is a random source handle.
func IsRandom(v reflect.Value) bool {
	return v.Type() == randType || v.Type() == randV2Type
}

// IsColor reports whether v implements image/color.Color.
func IsColor(v reflect.Value) bool {
	return v.Type().Implements(colorType)
}

// IsSet reports whether t is a map used as a set: its element type is an
// empty struct.
func IsSet(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0
}

// isSeqFunc reports whether t has the shape func(yield func(E) bool).
func isSeqFunc(t reflect.Type) bool {
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}
	y := t.In(0)
	return y.Kind() == reflect.Func && y.NumIn() == 1 && y.NumOut() == 1 && y.Out(0) == boolType
}

// Elements returns an iterator over the elements of a library iterable:
// *list.List, a func with iter.Seq shape, or a trusted library type with an
// All method yielding such a func. When users is set, user types with an
// All method qualify as well.
func (r *Reflector) Elements(v reflect.Value, users bool) (iter.Seq[reflect.Value], bool) {
	v = Unwrap(v)
	if !v.IsValid() {
		return nil, false
	}
	if v.Type() == listPtrType && !v.IsNil() {
		l := v.Interface().(*list.List)
		return func(yield func(reflect.Value) bool) {
			for e := l.Front(); e != nil; e = e.Next() {
				if !yield(reflect.ValueOf(e.Value)) {
					return
				}
			}
		}, true
	}
	if isSeqFunc(v.Type()) && !v.IsNil() {
		return v.Seq(), true
	}
	if !users && r.Classify(v.Type()) != TrustedLibrary {
		return nil, false
	}
	m, ok := Method(v, "All")
	if !ok || m.Type().NumIn() != 0 || m.Type().NumOut() != 1 || !isSeqFunc(m.Type().Out(0)) {
		return nil, false
	}
	out, err := Call(m, "All", v.Type())
	if err != nil || out[0].IsNil() {
		return nil, false
	}
	return out[0].Seq(), true
}

// Traversal is a cons-style sequence accessed through IsEmpty, First, and
// Rest methods.
type Traversal struct {
	value reflect.Value
	empty reflect.Value
	first reflect.Value
	rest  reflect.Value
}

// TraversalOf returns v as a Traversal when it declares IsEmpty() bool,
// First() E, and Rest() R.
func TraversalOf(v reflect.Value) (Traversal, bool) {
	v = Unwrap(v)
	if !v.IsValid() || IsNil(v) {
		return Traversal{}, false
	}
	empty, ok := Method(v, "IsEmpty")
	if !ok || empty.Type().NumIn() != 0 || empty.Type().NumOut() != 1 || empty.Type().Out(0) != boolType {
		return Traversal{}, false
	}
	first, ok := Method(v, "First")
	if !ok || first.Type().NumIn() != 0 || first.Type().NumOut() != 1 {
		return Traversal{}, false
	}
	rest, ok := Method(v, "Rest")
	if !ok || rest.Type().NumIn() != 0 || rest.Type().NumOut() != 1 {
		return Traversal{}, false
	}
	return Traversal{value: v, empty: empty, first: first, rest: rest}, true
}

// Value returns the underlying traversal value.
func (t Traversal) Value() reflect.Value { return t.value }

// IsEmpty calls the traversal's IsEmpty method.
func (t Traversal) IsEmpty() (bool, error) {
	out, err := Call(t.empty, "IsEmpty", t.value.Type())
	if err != nil {
		return false, err
	}
	return out[0].Bool(), nil
}

// First calls the traversal's First method.
func (t Traversal) First() (reflect.Value, error) {
	out, err := Call(t.first, "First", t.value.Type())
	if err != nil {
		return reflect.Value{}, err
	}
	return out[0], nil
}

// Rest calls the traversal's Rest method and resolves the result as a
// traversal. A rest value that is no traversal is an error.
func (t Traversal) Rest() (Traversal, error) {
	out, err := Call(t.rest, "Rest", t.value.Type())
	if err != nil {
		return Traversal{}, err
	}
	next, ok := TraversalOf(out[0])
	if !ok {
		return Traversal{}, fmt.Errorf("%s.Rest returned %s, which is not a traversal", t.value.Type(), out[0].Type())
	}
	return next, nil
}

// Elements adapts the traversal to an iterator. Iteration stops at the first
// method failure, which is then reported through errp.
func (t Traversal) Elements(errp *error) iter.Seq[reflect.Value] {
	return func(yield func(reflect.Value) bool) {
		cur := t
		for {
			empty, err := cur.IsEmpty()
			if err != nil {
				*errp = err
				return
			}
			if empty {
				return
			}
			first, err := cur.First()
			if err != nil {
				*errp = err
				return
			}
			if !yield(first) {
				return
			}
			if cur, err = cur.Rest(); err != nil {
				*errp = err
				return
			}
		}
	}
}

// StringMethod returns the String or Error method of v when it is declared
// on v's type itself rather than promoted from an embedded library type.
func (r *Reflector) StringMethod(v reflect.Value) (reflect.Value, bool) {
	for _, name := range []string{"String", "Error"} {
		m, ok := Method(v, name)
		if !ok {
			continue
		}
		mt := m.Type()
		if mt.NumIn() != 0 || mt.NumOut() != 1 || mt.Out(0) != stringType {
			continue
		}
		if r.promotedFromLibrary(v.Type(), name) {
			continue
		}
		return m, true
	}
	return reflect.Value{}, false
}

// IndentedMethod returns v's ToIndentedString(indent string) string method.
func IndentedMethod(v reflect.Value) (reflect.Value, bool) {
	m, ok := Method(v, "ToIndentedString")
	if !ok {
		return reflect.Value{}, false
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.In(0) != stringType || mt.NumOut() != 1 || mt.Out(0) != stringType {
		return reflect.Value{}, false
	}
	return m, true
}

// promotedFromLibrary reports whether the method called name on t could come
// from an embedded field whose type lies beyond the library boundary. Go
// reflection does not record where a promoted method was declared, so a
// user type that both embeds such a field and redeclares the method is
// treated as promoting it.
func (r *Reflector) promotedFromLibrary(t reflect.Type, name string) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || r.Classify(t) != UserCode {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.Anonymous || r.Classify(sf.Type) == UserCode {
			continue
		}
		if _, ok := sf.Type.MethodByName(name); ok {
			return true
		}
		if sf.Type.Kind() != reflect.Pointer {
			if _, ok := reflect.PointerTo(sf.Type).MethodByName(name); ok {
				return true
			}
		}
	}
	return false
}
