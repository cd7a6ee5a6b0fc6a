package inspector

import (
	"fmt"
	"strconv"
)

// DefaultTolerance is the relative tolerance applied to floating point
// values under Exact mode before the policy check turns any inexact
// comparison into a violation.
const DefaultTolerance = 0.001

// Mode selects exact or tolerance-based comparison of floating point values.
type Mode struct {
	inexact   bool
	tolerance float64
}

// Exact demands that floating point values be identical.
func Exact() Mode {
	return Mode{}
}

// Inexact allows floating point values to differ by a relative tolerance.
func Inexact(tolerance float64) Mode {
	return Mode{inexact: true, tolerance: tolerance}
}

// IsExact reports whether m is the Exact mode.
func (m Mode) IsExact() bool {
	return !m.inexact
}

// Tolerance returns the relative tolerance of an Inexact mode and 0 for Exact.
func (m Mode) Tolerance() float64 {
	return m.tolerance
}

func (m Mode) String() string {
	if !m.inexact {
		return "exact"
	}
	return fmt.Sprintf("inexact(%s)", strconv.FormatFloat(m.tolerance, 'g', -1, 64))
}
