package inspector

import (
	"errors"
	"fmt"

	"github.com/roach88/prima/internal/reflector"
)

// PolicyCode identifies the kind of tolerance policy violation.
type PolicyCode string

const (
	// NegativeTolerance is reported when Inexact is given a tolerance below 0.
	NegativeTolerance PolicyCode = "NEGATIVE_TOLERANCE"

	// InexactInExactMode is reported when floating point values that differ
	// were compared under Exact mode.
	InexactInExactMode PolicyCode = "INEXACT_IN_EXACT_MODE"

	// InexactOnExactData is reported when an inexact comparison is requested
	// for values of an exact kind (integers, booleans, strings).
	InexactOnExactData PolicyCode = "INEXACT_ON_EXACT_DATA"
)

// PolicyViolation reports misuse of the tolerance policy. It is distinct
// from a plain "not same" verdict.
type PolicyViolation struct {
	Code      PolicyCode
	Message   string
	Tolerance float64
}

func (e *PolicyViolation) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// IsPolicyViolation reports whether err is or wraps a PolicyViolation.
func IsPolicyViolation(err error) bool {
	var pv *PolicyViolation
	return errors.As(err, &pv)
}

// IsFieldAccessError reports whether err is or wraps a field access failure.
func IsFieldAccessError(err error) bool {
	var fae *reflector.FieldAccessError
	return errors.As(err, &fae)
}
