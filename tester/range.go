package tester

import (
	"cmp"
	"fmt"
	"math/big"
	"reflect"

	"github.com/cockroachdb/apd/v3"
)

// CheckNumRange succeeds when low <= actual < high. Any integer, floating
// point, or arbitrary precision number is accepted.
func (t *Tester) CheckNumRange(actual, low, high any, name ...string) bool {
	return t.CheckNumRangeBounds(actual, low, high, true, false, name...)
}

// CheckNumRangeBounds is CheckNumRange with the inclusion of either bound
// chosen by the caller.
func (t *Tester) CheckNumRangeBounds(actual, low, high any, lowIncl, highIncl bool, name ...string) bool {
	a, okA := toFloat(actual)
	l, okL := toFloat(low)
	h, okH := toFloat(high)
	if !okA || !okL || !okH {
		return t.rangeResult(false, testName(name)+"\nNon-numeric value in a numeric range check.", actual, low, high)
	}
	return t.within(cmp.Compare(a, l), cmp.Compare(a, h), lowIncl, highIncl, testName(name), actual, low, high)
}

// CheckRange succeeds when low <= actual < high.
func CheckRange[T cmp.Ordered](t *Tester, actual, low, high T, name ...string) bool {
	return CheckRangeBounds(t, actual, low, high, true, false, name...)
}

// CheckRangeBounds is CheckRange with the inclusion of either bound chosen
// by the caller.
func CheckRangeBounds[T cmp.Ordered](t *Tester, actual, low, high T, lowIncl, highIncl bool, name ...string) bool {
	return t.within(cmp.Compare(actual, low), cmp.Compare(actual, high), lowIncl, highIncl, testName(name), actual, low, high)
}

// CheckRangeFunc succeeds when low <= actual < high under compare, which
// returns a negative number, zero, or a positive number as in cmp.Compare.
func CheckRangeFunc[T any](t *Tester, actual, low, high T, compare func(a, b T) int, name ...string) bool {
	return t.within(compare(actual, low), compare(actual, high), true, false, testName(name), actual, low, high)
}

// CheckEquivalent succeeds when equiv reports a and b equivalent.
func CheckEquivalent[T any](t *Tester, a, b T, equiv func(a, b T) bool, name ...string) bool {
	return t.record(equiv(a, b), testName(name), false, 0, t.sideBySide(t.printer.Render(a), t.printer.Render(b)))
}

func (t *Tester) within(toLow, toHigh int, lowIncl, highIncl bool, name string, actual, low, high any) bool {
	ls, hs := "(", ")"
	aboveLow := toLow > 0
	if lowIncl {
		ls, aboveLow = "[", toLow >= 0
	}
	belowHigh := toHigh < 0
	if highIncl {
		hs, belowHigh = "]", toHigh <= 0
	}

	if aboveLow && belowHigh {
		return t.rangeResult(true, name, actual, low, high)
	}
	return t.rangeResult(false, fmt.Sprintf("%s\nActual value is not within the %slow high%s range.", name, ls, hs), actual, low, high)
}

func (t *Tester) rangeResult(pass bool, name string, actual, low, high any) bool {
	detail := "actual:   " + t.printer.Render(actual) + "\n" +
		"low:      " + t.printer.Render(low) + "\n" +
		"high:     " + t.printer.Render(high) + "\n"
	t.record(pass, name, false, 0, detail)
	t.results[len(t.results)-1].Range = true
	return pass
}

// toFloat converts a numeric value to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, true
	case *big.Float:
		if n == nil {
			return 0, false
		}
		f, _ := n.Float64()
		return f, true
	case *big.Rat:
		if n == nil {
			return 0, false
		}
		f, _ := n.Float64()
		return f, true
	case *apd.Decimal:
		if n == nil {
			return 0, false
		}
		f, err := n.Float64()
		return f, err == nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
