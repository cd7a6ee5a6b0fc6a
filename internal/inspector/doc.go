// Package inspector decides extensional equality ("sameness") of arbitrary
// Go values.
//
// Two values are the same when they have the same dynamic type and the same
// structure: scalars compare by value, floating point values by relative
// difference, containers by their contents, and structs field by field.
// Every Compare call owns a fresh session holding the pairs already under
// comparison, so cyclic graphs terminate, and the tolerance mode, so
// concurrent comparisons never share state.
//
// The dispatch order for two non-nil values of equal type is:
//
//	identity, opaque leaf, string, scalar, big number, library Equal,
//	visited pair, array/slice, Same predicate, set, traversal, iterable,
//	map, pointer, struct fields
package inspector
