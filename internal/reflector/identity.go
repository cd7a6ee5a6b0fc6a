package reflector

import "reflect"

// Token is an opaque identity for reference-like values. Two values share a
// token exactly when they denote the same storage.
type Token struct {
	Type reflect.Type
	Ptr  uintptr
	Len  int
}

// IdentityOf returns the identity token of v. Only pointers, maps, chans,
// and non-empty slices carry identity; values held directly (structs,
// arrays, scalars) do not. Funcs carry none either: closures created from
// the same literal share a code pointer.
func IdentityOf(v reflect.Value) (Token, bool) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			return Token{}, false
		}
		return Token{Type: v.Type(), Ptr: v.Pointer()}, true
	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 {
			return Token{}, false
		}
		return Token{Type: v.Type(), Ptr: v.Pointer(), Len: v.Len()}, true
	}
	return Token{}, false
}

// Less orders tokens so that an unordered pair can be stored as a sorted one.
// The order is total: distinct types with the same name are ordered by their
// runtime type descriptor.
func (t Token) Less(o Token) bool {
	if t.Ptr != o.Ptr {
		return t.Ptr < o.Ptr
	}
	if t.Len != o.Len {
		return t.Len < o.Len
	}
	if tn, on := typeName(t.Type), typeName(o.Type); tn != on {
		return tn < on
	}
	return typeAddr(t.Type) < typeAddr(o.Type)
}

func typeAddr(t reflect.Type) uintptr {
	if t == nil {
		return 0
	}
	return reflect.ValueOf(t).Pointer()
}

func typeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

// IsNil reports whether v is invalid or a nil reference of any kind.
func IsNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}

// Unwrap strips interface layers from v.
func Unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	return v
}
