package inspector

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"

	"github.com/roach88/prima/internal/reflector"
)

// Verdict is the outcome of one Compare call.
type Verdict struct {
	// Same is the final answer. Under Exact mode it is false whenever an
	// inexact comparison occurred, even if the values were within tolerance.
	Same bool

	// ToleranceViolated is set when floating point values that differ were
	// compared under Exact mode.
	ToleranceViolated bool

	// InexactCompared is set when any floating point comparison fell back
	// to the relative tolerance rule.
	InexactCompared bool

	Mode      Mode
	Tolerance float64 // tolerance applied to floating point values

	// Diagnostics collects recovered failures: unreadable fields and
	// panicking user methods. Each one made its subtree compare false.
	Diagnostics []error

	// Err is a policy violation that prevented the comparison.
	Err error
}

// Violation returns the tolerance policy violation carried by v, if any.
func (v Verdict) Violation() *PolicyViolation {
	if pv, ok := v.Err.(*PolicyViolation); ok {
		return pv
	}
	if v.ToleranceViolated {
		return &PolicyViolation{
			Code:      InexactInExactMode,
			Message:   "inexact numbers were compared in an exact comparison",
			Tolerance: v.Tolerance,
		}
	}
	return nil
}

// Inspector compares values for extensional equality. It holds only
// configuration; all per-comparison state lives in a session, so one
// Inspector may be shared between goroutines.
type Inspector struct {
	refl             *reflector.Reflector
	logger           *slog.Logger
	defaultTolerance float64
	sameFuncs        map[reflect.Type]func(a, b reflect.Value) bool
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithReflector sets the field accessor, typically to share its opaque
// package configuration with a printer.
func WithReflector(r *reflector.Reflector) Option {
	return func(in *Inspector) {
		in.refl = r
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Inspector) {
		in.logger = logger
	}
}

// WithDefaultTolerance sets the tolerance used for the raw floating point
// comparison under Exact mode.
func WithDefaultTolerance(tolerance float64) Option {
	return func(in *Inspector) {
		in.defaultTolerance = tolerance
	}
}

// WithSameFunc registers fn as the sameness predicate for values of the
// concrete type T. It takes precedence over a Same method declared on T.
func WithSameFunc[T any](fn func(a, b T) bool) Option {
	return func(in *Inspector) {
		in.sameFuncs[reflect.TypeFor[T]()] = func(a, b reflect.Value) bool {
			return fn(a.Interface().(T), b.Interface().(T))
		}
	}
}

// New creates an Inspector.
func New(opts ...Option) *Inspector {
	in := &Inspector{
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		defaultTolerance: DefaultTolerance,
		sameFuncs:        make(map[reflect.Type]func(a, b reflect.Value) bool),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.refl == nil {
		in.refl = reflector.New()
	}
	return in
}

// Reflector returns the field accessor used by in.
func (in *Inspector) Reflector() *reflector.Reflector {
	return in.refl
}

// Compare decides whether actual and expected are the same under mode.
func (in *Inspector) Compare(actual, expected any, mode Mode) Verdict {
	return in.compare(reflect.ValueOf(actual), reflect.ValueOf(expected), mode, (*session).same)
}

// Same reports whether a and b are the same under Exact mode.
func (in *Inspector) Same(a, b any) bool {
	return in.Compare(a, b, Exact()).Same
}

// CompareSet compares two set maps (map[K]struct{}) by membership.
func (in *Inspector) CompareSet(actual, expected any, mode Mode) Verdict {
	return in.compare(reflect.ValueOf(actual), reflect.ValueOf(expected), mode, (*session).sameAsSet)
}

// CompareIterable compares two iterables element by element in order.
// Besides library iterables it accepts slices, arrays, and user types with
// an All method.
func (in *Inspector) CompareIterable(actual, expected any, mode Mode) Verdict {
	return in.compare(reflect.ValueOf(actual), reflect.ValueOf(expected), mode, (*session).sameAsIterable)
}

// CompareTraversal compares two traversals element by element in order.
func (in *Inspector) CompareTraversal(actual, expected any, mode Mode) Verdict {
	return in.compare(reflect.ValueOf(actual), reflect.ValueOf(expected), mode, (*session).sameAsTraversal)
}

func (in *Inspector) compare(a, b reflect.Value, mode Mode, fn func(*session, reflect.Value, reflect.Value) bool) (v Verdict) {
	v = Verdict{Mode: mode, Tolerance: in.defaultTolerance}
	if !mode.IsExact() {
		v.Tolerance = mode.Tolerance()
		if mode.Tolerance() < 0 {
			v.Err = &PolicyViolation{
				Code:      NegativeTolerance,
				Message:   "Provided tolerance value was < 0",
				Tolerance: mode.Tolerance(),
			}
			return v
		}
		if isExactData(a) || isExactData(b) {
			v.Err = &PolicyViolation{
				Code:      InexactOnExactData,
				Message:   "Attempt to make inexact comparison of exact primitive or wrapper data",
				Tolerance: mode.Tolerance(),
			}
			return v
		}
	}

	s := newSession(in, v.Tolerance)
	defer func() {
		if p := recover(); p != nil {
			s.diagnose(fmt.Errorf("comparison aborted: %v", p))
			v.Same = false
			v.Diagnostics = s.diagnostics
		}
	}()

	raw := fn(s, a, b)
	v.InexactCompared = s.inexact
	v.ToleranceViolated = mode.IsExact() && s.inexact
	v.Same = raw && !v.ToleranceViolated
	v.Diagnostics = s.diagnostics
	return v
}

// isExactData reports whether v is a scalar of an exact kind.
func isExactData(v reflect.Value) bool {
	v = reflector.Unwrap(v)
	if !v.IsValid() {
		return false
	}
	switch v.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	t := v.Type()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t == reflect.TypeFor[big.Int]()
}
