package reflector

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"unsafe"
)

// TagName is the struct tag key consulted for field exclusion.
const TagName = "prima"

// Field describes one comparable field of a struct type.
type Field struct {
	Name          string
	Index         []int // path for reflect.Value.FieldByIndex from the root struct
	Type          reflect.Type
	DeclaringType reflect.Type
	Exported      bool
}

func (f Field) String() string {
	return f.DeclaringType.String() + "." + f.Name
}

// Reflector enumerates fields and classifies types. The zero value is not
// usable; create one with New. A Reflector is safe for concurrent use.
type Reflector struct {
	opaquePackages []string
	opaqueTypes    map[string]bool

	cache sync.Map // reflect.Type -> []Field
}

// Option configures a Reflector.
type Option func(*Reflector)

// WithOpaquePackages marks every type whose import path equals one of the
// given prefixes, or lives beneath it, as trusted library code.
func WithOpaquePackages(prefixes ...string) Option {
	return func(r *Reflector) {
		for _, p := range prefixes {
			p = strings.TrimSuffix(strings.TrimSpace(p), "/")
			if p != "" {
				r.opaquePackages = append(r.opaquePackages, p)
			}
		}
	}
}

// WithOpaqueTypes marks individual types, named "import/path.TypeName", as
// trusted library code.
func WithOpaqueTypes(names ...string) Option {
	return func(r *Reflector) {
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" {
				r.opaqueTypes[n] = true
			}
		}
	}
}

// New creates a Reflector.
func New(opts ...Option) *Reflector {
	r := &Reflector{opaqueTypes: make(map[string]bool)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FieldsOf returns the comparable fields of t in base-to-derived order.
// Pointer types are dereferenced; non-struct types have no fields.
//
// The fields declared directly on t are always listed, even when t itself
// sits beyond the library boundary.
func (r *Reflector) FieldsOf(t reflect.Type) []Field {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := r.cache.Load(t); ok {
		return cached.([]Field)
	}
	fields := r.collect(t, nil)
	actual, _ := r.cache.LoadOrStore(t, fields)
	return actual.([]Field)
}

func (r *Reflector) collect(t reflect.Type, prefix []int) []Field {
	var base, own []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if excluded(sf) {
			continue
		}
		index := append(slices.Clone(prefix), i)

		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			if r.Classify(sf.Type) != UserCode {
				continue
			}
			base = append(base, r.collect(sf.Type, index)...)
			continue
		}

		own = append(own, Field{
			Name:          sf.Name,
			Index:         index,
			Type:          sf.Type,
			DeclaringType: t,
			Exported:      sf.IsExported(),
		})
	}
	return append(base, own...)
}

func excluded(sf reflect.StructField) bool {
	if sf.Name == "_" {
		return true
	}
	tag, _, _ := strings.Cut(sf.Tag.Get(TagName), ",")
	switch tag {
	case "-", "transient", "volatile":
		return true
	}
	return false
}

// FieldAccessError reports a field that could not be read.
type FieldAccessError struct {
	Field         string
	DeclaringType reflect.Type
	Cause         error
}

func (e *FieldAccessError) Error() string {
	declaring := "<nil>"
	if e.DeclaringType != nil {
		declaring = e.DeclaringType.String()
	}
	return fmt.Sprintf("cannot access field %s of %s: %v", e.Field, declaring, e.Cause)
}

func (e *FieldAccessError) Unwrap() error {
	return e.Cause
}

// Addressable returns v itself when it is addressable and an addressable
// copy otherwise. Pointers are followed first.
func Addressable(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	if v.CanAddr() || !v.IsValid() {
		return v
	}
	tmp := reflect.New(v.Type()).Elem()
	tmp.Set(v)
	return tmp
}

// Read returns the value of f in the struct v, forcing access to unexported
// fields. v may be a pointer to the struct. The returned value is fully
// usable: it can be passed to Interface, Set, and Call.
func Read(v reflect.Value, f Field) (out reflect.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = reflect.Value{}
			err = &FieldAccessError{Field: f.Name, DeclaringType: f.DeclaringType, Cause: fmt.Errorf("%v", p)}
		}
	}()

	if v.Kind() == reflect.Pointer && v.IsNil() {
		return reflect.Value{}, &FieldAccessError{Field: f.Name, DeclaringType: f.DeclaringType, Cause: fmt.Errorf("nil pointer")}
	}
	v = Addressable(v)
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, &FieldAccessError{
			Field:         f.Name,
			DeclaringType: f.DeclaringType,
			Cause:         fmt.Errorf("value of kind %s has no fields", v.Kind()),
		}
	}

	fv := v.FieldByIndex(f.Index)
	if !fv.CanInterface() {
		fv = reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())).Elem()
	}
	return fv, nil
}
