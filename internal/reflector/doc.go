// Package reflector enumerates the comparable fields of arbitrary Go values
// and reads them regardless of export status.
//
// Struct embedding stands in for a class hierarchy: an embedded, non-pointer
// struct field whose type belongs to user code is a base level, and its fields
// are listed before the fields declared on the embedding type. Embedded
// structs from the standard library, primitive wrappers, or packages
// configured as opaque mark the library boundary and are never expanded.
//
// Fields are excluded when they are blank (_) or tagged
//
//	prima:"-"
//	prima:"transient"
//	prima:"volatile"
//
// A field name redeclared at several levels is listed once per declaring
// level; Field.DeclaringType tells them apart.
//
// The package also hosts the capability lookups shared by the inspector and
// the printer: identity tokens, Same predicates, traversals, iterables, and
// string conversions.
package reflector
