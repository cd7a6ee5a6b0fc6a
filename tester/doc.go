// Package tester runs example-based tests that compare values by
// extensional equality.
//
// An examples value holds test data and test methods. Every exported method
// whose name starts with "Test" and that takes a single *Tester is
// discovered and run in name order:
//
//	type BookExamples struct {
//	    htdp *Book
//	}
//
//	func (e *BookExamples) TestTitle(t *tester.Tester) {
//	    t.CheckExpect(e.htdp.Title, "HtDP", "title")
//	}
//
// A value implementing Examples runs its own Tests method instead.
//
// Checks compare values structurally rather than by reference: two
// distinct pointers to equal structs are the same, cycles are followed
// safely, sets ignore insertion order, maps ignore layout, and floating
// point values may be compared within a relative tolerance. A failing check
// records an "actual" and "expected" rendering side by side.
//
// Types can take part in the comparison through small capabilities:
//
//   - Samer: a Same method replaces structural comparison.
//   - Traversal: IsEmpty, First, and Rest walk a cons-style sequence.
//   - IndentedStringer: the type renders itself.
//   - Opaque: values are compared by type alone.
//
// Examples register under a name with Register so that the prima command
// can run them.
package tester
