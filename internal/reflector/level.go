package reflector

import (
	"math/big"
	"reflect"
	"slices"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Level classifies a type with respect to the library boundary.
type Level int

const (
	// UserCode types are expanded field by field.
	UserCode Level = iota
	// UniversalBase is the empty interface and untyped nil.
	UniversalBase
	// PrimitiveWrapper covers predeclared scalar types and the arbitrary
	// precision numbers (math/big, apd).
	PrimitiveWrapper
	// TrustedLibrary covers the standard library and configured opaque
	// packages or types.
	TrustedLibrary
)

func (l Level) String() string {
	switch l {
	case UserCode:
		return "user-code"
	case UniversalBase:
		return "universal-base"
	case PrimitiveWrapper:
		return "primitive-wrapper"
	case TrustedLibrary:
		return "trusted-library"
	default:
		return "unknown"
	}
}

var (
	bigIntType     = reflect.TypeOf(big.Int{})
	bigFloatType   = reflect.TypeOf(big.Float{})
	bigRatType     = reflect.TypeOf(big.Rat{})
	apdDecimalType = reflect.TypeOf(apd.Decimal{})
)

// IsWrapper reports whether t (or the type t points to) is one of the
// arbitrary precision number types.
func IsWrapper(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case bigIntType, bigFloatType, bigRatType, apdDecimalType:
		return true
	}
	return false
}

// Classify places t relative to the library boundary. Unnamed pointer types
// are classified by the type they point to.
func (r *Reflector) Classify(t reflect.Type) Level {
	if t == nil {
		return UniversalBase
	}
	for t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
		return UniversalBase
	}
	if IsWrapper(t) {
		return PrimitiveWrapper
	}

	pkg := t.PkgPath()
	if pkg == "" {
		if t.Name() == "" {
			// Composite literal types (struct{...}, []T, map[K]V) carry no
			// package and are treated as user data.
			return UserCode
		}
		if t.Kind() == reflect.Interface {
			return UniversalBase
		}
		return PrimitiveWrapper
	}

	if r.opaqueTypes[qualifiedName(t)] {
		return TrustedLibrary
	}
	if isStdlib(pkg) {
		return TrustedLibrary
	}
	for _, prefix := range r.opaquePackages {
		if pkg == prefix || strings.HasPrefix(pkg, prefix+"/") {
			return TrustedLibrary
		}
	}
	return UserCode
}

//go:generate go run gen_stdlib.go

// isStdlib reports whether pkg is a standard library import path. Module
// paths without a dot (lab1, example/shapes) are user code.
func isStdlib(pkg string) bool {
	if _, ok := slices.BinarySearch(stdPackages, pkg); ok {
		return true
	}
	first, _, _ := strings.Cut(pkg, "/")
	return first == "internal" || first == "vendor"
}

func qualifiedName(t reflect.Type) string {
	return t.PkgPath() + "." + t.Name()
}
