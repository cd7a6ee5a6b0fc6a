package tester

import (
	"errors"
	"math/big"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/prima/internal/testutil"
)

func lastResult(t *testing.T, tt *Tester) Result {
	t.Helper()
	require.NotEmpty(t, tt.Results())
	return tt.Results()[len(tt.Results())-1]
}

func TestCheckExpect(t *testing.T) {
	tt := New()

	a := testutil.Library("Felleisen", 1953, "HtDP", "HtDP 2e")
	b := testutil.Library("Felleisen", 1953, "HtDP", "HtDP 2e")
	assert.True(t, tt.CheckExpect(a, b, "same library"))
	assert.True(t, lastResult(t, tt).Pass)
	assert.Equal(t, "same library", lastResult(t, tt).Name)
	assert.Empty(t, lastResult(t, tt).Location)

	assert.False(t, tt.CheckExpect(testutil.Chain("a", "b"), testutil.Chain("a", "c"), "chains"))
	res := lastResult(t, tt)
	assert.False(t, res.Pass)
	assert.Equal(t, 2, res.Number)
	assert.True(t, strings.HasPrefix(res.Detail, actualHeader))
	assert.Contains(t, res.Location, "tester_test.go:")
}

func TestCheckExpect_FloatsInExactCheck(t *testing.T) {
	tt := New()

	assert.True(t, tt.CheckExpect(1.5, 1.5))
	assert.Empty(t, lastResult(t, tt).Warning)

	assert.False(t, tt.CheckExpect(1.0, 1.0000001))
	res := lastResult(t, tt)
	assert.Contains(t, res.Detail, "INEXACT_IN_EXACT_MODE")
	assert.Equal(t, "The comparison involved inexact numbers with relative tolerance 0.001", res.Warning)
	assert.Equal(t, 1, tt.warnings)
}

func TestCheckInexact(t *testing.T) {
	tt := New()

	assert.True(t, tt.CheckInexact(4.9985, 4.998, 0.001))
	assert.Equal(t, "The comparison involved inexact numbers with relative tolerance 0.001", lastResult(t, tt).Warning)

	assert.False(t, tt.CheckInexact(4.9985, 4.998, 0.0001))
	assert.Equal(t, "The comparison involved inexact numbers with relative tolerance 0.0001", lastResult(t, tt).Warning)

	assert.True(t, tt.CheckInexact(testutil.Point{X: 1, Y: 2}, testutil.Point{X: 1.0001, Y: 2}, 0.01))
}

func TestCheckInexact_PolicyViolations(t *testing.T) {
	tt := New()

	assert.False(t, tt.CheckInexact(1.0, 1.0, -0.5))
	res := lastResult(t, tt)
	assert.Contains(t, res.Detail, "NEGATIVE_TOLERANCE")
	assert.Empty(t, res.Warning)

	assert.False(t, tt.CheckInexact(1, 1, 0.1))
	assert.Contains(t, lastResult(t, tt).Detail, "INEXACT_ON_EXACT_DATA")

	assert.False(t, tt.CheckInexactFail(1, 2, 0.1))
	assert.Equal(t, 0, tt.warnings)
}

func TestCheckFail(t *testing.T) {
	tt := New()

	assert.True(t, tt.CheckFail("HtDP", "SICP"))
	assert.False(t, tt.CheckFail(testutil.Ring("a", "b"), testutil.Ring("a", "b")))
	assert.True(t, tt.CheckFail(testutil.Point{X: 1, Y: 2}, testutil.Point{X: 1, Y: 3}))
	assert.True(t, tt.CheckInexactFail(2.0, 3.0, 0.01))
	assert.False(t, tt.CheckInexactFail(2.0, 2.001, 0.01))
}

func TestCheckBooleans(t *testing.T) {
	tt := New()

	assert.True(t, tt.Check(1 < 2, "less"))
	assert.False(t, tt.Check(false))
	assert.True(t, tt.CheckFalse(false))
	assert.True(t, tt.Success("fine"))
	assert.False(t, tt.Fail("broken"))

	passed := 0
	for _, r := range tt.Results() {
		if r.Pass {
			passed++
		}
	}
	assert.Equal(t, 3, passed)
	assert.Len(t, tt.Results(), 5)
}

func TestCheckCollections(t *testing.T) {
	tt := New()

	a := testutil.Song{Title: "a", Length: 1}
	b := testutil.Song{Title: "b", Length: 2}
	assert.True(t, tt.CheckSet(testutil.SongSet(a, b), testutil.SongSet(b, a)))
	assert.False(t, tt.CheckSet(testutil.SongSet(a), testutil.SongSet(a, b)))

	assert.True(t, tt.CheckIterable(slices.Values([]int{1, 2, 3}), slices.Values([]int{1, 2, 3})))
	assert.False(t, tt.CheckIterable([]int{1, 2, 3}, []int{1, 3, 2}))
	assert.True(t, tt.CheckInexactIterable([]float64{1, 2}, []float64{1, 2.0001}, 0.001))

	assert.True(t, tt.CheckTraversal(testutil.ListOf(1, 2, 3), testutil.ListOf(1, 2, 3)))
	assert.False(t, tt.CheckTraversal(testutil.ListOf(1, 2, 3), testutil.ListOf(1, 2)))
	assert.Contains(t, lastResult(t, tt).Detail, "Traversal[0]")
}

func TestCheckOneOf(t *testing.T) {
	tt := New()

	assert.True(t, tt.CheckOneOf("third", 3, 1, 2, 3))
	assert.False(t, tt.CheckOneOf("missing", 4, 1, 2))
	assert.Contains(t, lastResult(t, tt).Detail, "expected one of:\n[0] 1\n[1] 2\n")

	assert.True(t, tt.CheckNoneOf("absent", 4, 1, 2, 3))
	assert.False(t, tt.CheckNoneOf("present", 2, 1, 2, 3))

	assert.True(t, tt.CheckInexactOneOf("close", 0.01, 1.001, 2.0, 1.0))
	assert.NotEmpty(t, lastResult(t, tt).Warning)
	assert.True(t, tt.CheckInexactNoneOf("far", 0.01, 1.5, 2.0, 1.0))
}

func TestCheckOneOf_WarningFromMatchOnly(t *testing.T) {
	tt := New()

	assert.True(t, tt.CheckOneOf("exact match after a far float", 1.5, 2.5, 1.5))
	assert.Empty(t, lastResult(t, tt).Warning)

	assert.True(t, tt.CheckInexactOneOf("exact match after a far float", 0.01, 1.5, 3.0, 1.5))
	assert.Empty(t, lastResult(t, tt).Warning)
	assert.Equal(t, 0, tt.warnings)

	assert.True(t, tt.CheckInexactOneOf("inexact match", 0.01, 1.5, 1.501))
	assert.NotEmpty(t, lastResult(t, tt).Warning)

	assert.True(t, tt.CheckNoneOf("no match among floats", 1.5, 2.5))
	assert.NotEmpty(t, lastResult(t, tt).Warning)
}

func TestCheckNumRange(t *testing.T) {
	tt := New()

	assert.True(t, tt.CheckNumRange(5, 1, 10))
	assert.True(t, tt.CheckNumRange(1, 1, 10))
	assert.False(t, tt.CheckNumRange(10, 1, 10, "upper"))
	res := lastResult(t, tt)
	assert.True(t, res.Range)
	assert.Equal(t, "upper\nActual value is not within the [low high) range.", res.Name)
	assert.Equal(t, "actual:   10\nlow:      1\nhigh:     10\n", res.Detail)

	assert.True(t, tt.CheckNumRangeBounds(10, 1, 10, false, true))
	assert.False(t, tt.CheckNumRangeBounds(1, 1, 10, false, true))
	assert.True(t, tt.CheckNumRange(big.NewInt(5), uint8(1), 10.5))
	assert.False(t, tt.CheckNumRange("five", 1, 10))
}

func TestCheckRange(t *testing.T) {
	tt := New()

	assert.True(t, CheckRange(tt, "m", "a", "z"))
	assert.False(t, CheckRange(tt, 2.5, 3.0, 4.0))
	assert.True(t, CheckRangeBounds(tt, 4, 3, 4, true, true))

	byLength := func(a, b testutil.Song) int { return a.Length - b.Length }
	assert.True(t, CheckRangeFunc(tt,
		testutil.Song{Title: "mid", Length: 3},
		testutil.Song{Title: "short", Length: 1},
		testutil.Song{Title: "long", Length: 5},
		byLength))

	assert.True(t, CheckEquivalent(tt, "HtDP", "htdp", strings.EqualFold))
	assert.False(t, CheckEquivalent(tt, "HtDP", "SICP", strings.EqualFold))
}

var (
	errDivideByZero = errors.New("division by zero")
	errNegative     = errors.New("negative input")
)

type calculator struct {
	base int
}

func newCalculator(base int) (*calculator, error) {
	if base < 0 {
		return nil, errNegative
	}
	return &calculator{base: base}, nil
}

func (c calculator) Plus(n int) int { return c.base + n }

func (c calculator) Sum(ns ...int) int {
	s := c.base
	for _, n := range ns {
		s += n
	}
	return s
}

func (c calculator) Div(a, b int) (int, error) {
	if b == 0 {
		return 0, errDivideByZero
	}
	return a / b, nil
}

func (c *calculator) MustPositive(n int) int {
	if n < 0 {
		panic(errNegative)
	}
	return n
}

func TestCheckMethod(t *testing.T) {
	tt := New()

	assert.True(t, tt.CheckMethod(5.0, testutil.Point{X: 3, Y: 4}, "Distance"))
	assert.True(t, tt.CheckMethod(7, calculator{base: 5}, "Plus", 2))
	assert.True(t, tt.CheckMethod(7, calculator{base: 5}, "Plus", int8(2)))
	assert.True(t, tt.CheckMethod(10, calculator{base: 1}, "Sum", 2, 3, 4))
	assert.True(t, tt.CheckMethod(3, calculator{}, "MustPositive", 3))
	assert.True(t, tt.CheckInexactMethod(5.0001, 0.001, testutil.Point{X: 3, Y: 4}, "Distance"))

	assert.False(t, tt.CheckMethod(1, calculator{}, "Missing"))
	assert.Contains(t, lastResult(t, tt).Detail, "not found")

	assert.False(t, tt.CheckMethod(1, calculator{}, "Plus", "two"))
	assert.Contains(t, lastResult(t, tt).Detail, "cannot use string as int")

	assert.False(t, tt.CheckMethod(0, calculator{}, "Div", 1, 0))
	assert.Contains(t, lastResult(t, tt).Detail, "division by zero")

	assert.False(t, tt.CheckMethod(0, &calculator{}, "MustPositive", -1))
	assert.Contains(t, lastResult(t, tt).Detail, "invocation panicked")
}

func TestCheckError(t *testing.T) {
	tt := New()

	assert.True(t, tt.CheckError(errDivideByZero, calculator{}, "Div", 1, 0))
	assert.True(t, tt.CheckError(errors.New("division by zero"), calculator{}, "Div", 1, 0))
	assert.True(t, tt.CheckError(errNegative, &calculator{}, "MustPositive", -1))

	assert.False(t, tt.CheckError(errDivideByZero, calculator{}, "Div", 4, 2))
	assert.Contains(t, lastResult(t, tt).Detail, "invocation did not fail")

	assert.False(t, tt.CheckError(errors.New("divide by zero"), calculator{}, "Div", 1, 0))
	assert.Contains(t, lastResult(t, tt).Detail, "message produced: division by zero")

	assert.True(t, tt.CheckConstructorError(errNegative, newCalculator, -1))
	assert.False(t, tt.CheckConstructorError(errNegative, newCalculator, 1))
}

func TestSameAndRender(t *testing.T) {
	tt := New()

	assert.True(t, tt.Same(testutil.Ring("a", "b"), testutil.Ring("a", "b")))
	assert.Equal(t, `"HtDP"`, tt.Render("HtDP"))
	assert.Empty(t, tt.Results())
}

func TestWithSameFunc(t *testing.T) {
	caseless := func(a, b testutil.Song) bool {
		return strings.EqualFold(a.Title, b.Title)
	}
	tt := New(WithSameFunc(caseless))

	assert.True(t, tt.CheckExpect(testutil.Song{Title: "Abc", Length: 1}, testutil.Song{Title: "aBC", Length: 9}))
}
