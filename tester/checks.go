package tester

import (
	"fmt"
	"strings"

	"github.com/roach88/prima/internal/inspector"
)

// Check succeeds when cond is true.
func (t *Tester) Check(cond bool, name ...string) bool {
	return t.record(cond, testName(name), false, 0, "expected: true\n")
}

// CheckFalse succeeds when cond is false.
func (t *Tester) CheckFalse(cond bool, name ...string) bool {
	return t.record(!cond, testName(name), false, 0, "expected: false\n")
}

// Success records a passing result.
func (t *Tester) Success(name ...string) bool {
	return t.record(true, testName(name), false, 0, "")
}

// Fail records a failing result.
func (t *Tester) Fail(name ...string) bool {
	return t.record(false, testName(name), false, 0, "")
}

// CheckExpect succeeds when actual and expected are the same. Floating point
// values that differ at all make the check fail with a tolerance violation.
func (t *Tester) CheckExpect(actual, expected any, name ...string) bool {
	v := t.inspector.Compare(actual, expected, inspector.Exact())
	return t.conclude(v, v.Same, name, t.sideBySide(t.printer.Render(actual), t.printer.Render(expected)))
}

// CheckInexact succeeds when actual and expected are the same, comparing
// floating point values within the relative tolerance.
func (t *Tester) CheckInexact(actual, expected any, tolerance float64, name ...string) bool {
	v := t.inspector.Compare(actual, expected, inspector.Inexact(tolerance))
	return t.conclude(v, v.Same, name, t.sideBySide(t.printer.Render(actual), t.printer.Render(expected)))
}

// CheckFail succeeds when actual and expected are not the same.
func (t *Tester) CheckFail(actual, expected any, name ...string) bool {
	v := t.inspector.Compare(actual, expected, inspector.Exact())
	v.ToleranceViolated = false
	return t.conclude(v, !v.Same && v.Err == nil, name, t.sideBySide(t.printer.Render(actual), t.printer.Render(expected)))
}

// CheckInexactFail succeeds when actual and expected are not the same
// within the relative tolerance.
func (t *Tester) CheckInexactFail(actual, expected any, tolerance float64, name ...string) bool {
	v := t.inspector.Compare(actual, expected, inspector.Inexact(tolerance))
	return t.conclude(v, !v.Same && v.Err == nil, name, t.sideBySide(t.printer.Render(actual), t.printer.Render(expected)))
}

// CheckSet compares two sets (map[K]struct{}) by membership.
func (t *Tester) CheckSet(actual, expected any, name ...string) bool {
	v := t.inspector.CompareSet(actual, expected, inspector.Exact())
	return t.conclude(v, v.Same, name, t.sideBySide(t.printer.Render(actual), t.printer.Render(expected)))
}

// CheckIterable compares two iterables element by element.
func (t *Tester) CheckIterable(actual, expected any, name ...string) bool {
	v := t.inspector.CompareIterable(actual, expected, inspector.Exact())
	return t.conclude(v, v.Same, name, t.sideBySide(t.printer.RenderIterable(actual), t.printer.RenderIterable(expected)))
}

// CheckInexactIterable compares two iterables element by element within
// the relative tolerance.
func (t *Tester) CheckInexactIterable(actual, expected any, tolerance float64, name ...string) bool {
	v := t.inspector.CompareIterable(actual, expected, inspector.Inexact(tolerance))
	return t.conclude(v, v.Same, name, t.sideBySide(t.printer.RenderIterable(actual), t.printer.RenderIterable(expected)))
}

// CheckTraversal compares two traversals element by element.
func (t *Tester) CheckTraversal(actual, expected any, name ...string) bool {
	v := t.inspector.CompareTraversal(actual, expected, inspector.Exact())
	return t.conclude(v, v.Same, name, t.sideBySide(t.printer.RenderTraversal(actual), t.printer.RenderTraversal(expected)))
}

// CheckInexactTraversal compares two traversals element by element within
// the relative tolerance.
func (t *Tester) CheckInexactTraversal(actual, expected any, tolerance float64, name ...string) bool {
	v := t.inspector.CompareTraversal(actual, expected, inspector.Inexact(tolerance))
	return t.conclude(v, v.Same, name, t.sideBySide(t.printer.RenderTraversal(actual), t.printer.RenderTraversal(expected)))
}

// CheckOneOf succeeds when actual is the same as at least one of expected.
func (t *Tester) CheckOneOf(name string, actual any, expected ...any) bool {
	return t.oneOf(name, inspector.Exact(), actual, expected, true)
}

// CheckInexactOneOf is CheckOneOf with floating point values compared
// within the relative tolerance.
func (t *Tester) CheckInexactOneOf(name string, tolerance float64, actual any, expected ...any) bool {
	return t.oneOf(name, inspector.Inexact(tolerance), actual, expected, true)
}

// CheckNoneOf succeeds when actual is the same as none of expected.
func (t *Tester) CheckNoneOf(name string, actual any, expected ...any) bool {
	return t.oneOf(name, inspector.Exact(), actual, expected, false)
}

// CheckInexactNoneOf is CheckNoneOf with floating point values compared
// within the relative tolerance.
func (t *Tester) CheckInexactNoneOf(name string, tolerance float64, actual any, expected ...any) bool {
	return t.oneOf(name, inspector.Inexact(tolerance), actual, expected, false)
}

func (t *Tester) oneOf(name string, mode inspector.Mode, actual any, expected []any, want bool) bool {
	var b strings.Builder
	b.WriteString("actual:\n")
	b.WriteString(t.printer.Render(actual))
	if want {
		b.WriteString("\nexpected one of:\n")
	} else {
		b.WriteString("\nexpected none of:\n")
	}

	// A match decides the outcome alone, so only its inexact use counts.
	// Without a match every candidate took part.
	agg := inspector.Verdict{Mode: mode}
	found := false
	for i, e := range expected {
		fmt.Fprintf(&b, "[%d] %s\n", i, t.printer.Render(e))
		if found {
			continue
		}

		v := t.inspector.Compare(actual, e, mode)
		agg.Tolerance = v.Tolerance
		agg.Diagnostics = append(agg.Diagnostics, v.Diagnostics...)
		if v.Err != nil {
			agg.Err = v.Err
		}
		if v.Same {
			found = true
			agg.InexactCompared = v.InexactCompared
		} else {
			agg.InexactCompared = agg.InexactCompared || v.InexactCompared
		}
	}
	return t.conclude(agg, found == want && agg.Err == nil, []string{name}, b.String())
}
