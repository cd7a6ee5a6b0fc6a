package tester

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/prima/internal/inspector"
	"github.com/roach88/prima/internal/printer"
	"github.com/roach88/prima/internal/reflector"
)

// DefaultTolerance is the relative tolerance applied to the raw comparison
// of floating point values in exact checks.
const DefaultTolerance = inspector.DefaultTolerance

// actualHeader heads every side-by-side rendering; "expected:" starts in the
// column where Combine places the expected text.
const actualHeader = "actual:                                 expected:\n"

// Tester runs checks and records their results. A Tester is used by one
// examples run at a time and is not safe for concurrent use.
type Tester struct {
	inspector *inspector.Inspector
	printer   *printer.Printer
	logger    *slog.Logger
	now       func() time.Time
	printAll  bool

	results  []Result
	warnings int
	method   string
}

type settings struct {
	logger         *slog.Logger
	tolerance      float64
	opaquePackages []string
	opaqueTypes    []string
	inspectorOpts  []inspector.Option
	now            func() time.Time
	printAll       bool
}

// Option configures a Tester.
type Option func(*settings)

// WithLogger sets the logger for run progress and diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithDefaultTolerance sets the relative tolerance used for the raw
// comparison of floating point values in exact checks.
func WithDefaultTolerance(tolerance float64) Option {
	return func(s *settings) {
		s.tolerance = tolerance
	}
}

// WithOpaquePackages treats types from packages with one of the given
// import path prefixes as trusted library code.
func WithOpaquePackages(prefixes ...string) Option {
	return func(s *settings) {
		s.opaquePackages = append(s.opaquePackages, prefixes...)
	}
}

// WithOpaqueTypes treats the named types ("pkg.Type") as trusted library
// code.
func WithOpaqueTypes(names ...string) Option {
	return func(s *settings) {
		s.opaqueTypes = append(s.opaqueTypes, names...)
	}
}

// WithSameFunc registers fn as the sameness predicate for values of type T.
func WithSameFunc[T any](fn func(a, b T) bool) Option {
	return func(s *settings) {
		s.inspectorOpts = append(s.inspectorOpts, inspector.WithSameFunc(fn))
	}
}

// WithPrintAll renders the examples value at the start of a run.
func WithPrintAll() Option {
	return func(s *settings) {
		s.printAll = true
	}
}

// WithClock sets the time source for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

// New creates a Tester.
func New(opts ...Option) *Tester {
	s := settings{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}

	refl := reflector.New(
		reflector.WithOpaquePackages(s.opaquePackages...),
		reflector.WithOpaqueTypes(s.opaqueTypes...),
	)
	inspectorOpts := append([]inspector.Option{
		inspector.WithReflector(refl),
		inspector.WithLogger(s.logger),
		inspector.WithDefaultTolerance(s.tolerance),
	}, s.inspectorOpts...)

	return &Tester{
		inspector: inspector.New(inspectorOpts...),
		printer:   printer.New(printer.WithReflector(refl), printer.WithLogger(s.logger)),
		logger:    s.logger,
		now:       s.now,
		printAll:  s.printAll,
	}
}

// Render returns the canonical rendering of v.
func (t *Tester) Render(v any) string {
	return t.printer.Render(v)
}

// Same reports whether a and b are the same under an exact comparison. No
// result is recorded.
func (t *Tester) Same(a, b any) bool {
	return t.inspector.Same(a, b)
}

// Results returns the results recorded so far.
func (t *Tester) Results() []Result {
	return t.results
}

// sideBySide renders actual and expected in two columns.
func (t *Tester) sideBySide(actual, expected string) string {
	return actualHeader + printer.Combine(actual, expected) + "\n"
}

// conclude records the result of a comparison check.
func (t *Tester) conclude(v inspector.Verdict, pass bool, name []string, detail string) bool {
	var b strings.Builder
	if pv := v.Violation(); pv != nil {
		pass = false
		b.WriteString(pv.Error())
		b.WriteString("\n")
	}
	for _, d := range v.Diagnostics {
		fmt.Fprintf(&b, "diagnostic: %v\n", d)
	}
	b.WriteString(detail)

	inexact := v.InexactCompared && v.Err == nil
	return t.record(pass, testName(name), inexact, v.Tolerance, b.String())
}

// record appends one result. inexact marks a comparison that fell back to
// the relative tolerance rule and issues a warning.
func (t *Tester) record(pass bool, name string, inexact bool, tolerance float64, detail string) bool {
	r := Result{
		Number: len(t.results) + 1,
		Name:   name,
		Method: t.method,
		Pass:   pass,
		Detail: detail,
	}
	if inexact {
		t.warnings++
		r.Warning = "The comparison involved inexact numbers with relative tolerance " + formatTolerance(tolerance)
	}
	if !pass {
		r.Location = callerLocation()
	}
	t.results = append(t.results, r)

	t.logger.Debug("check recorded",
		"number", r.Number,
		"name", r.Name,
		"method", r.Method,
		"pass", r.Pass,
	)
	return pass
}

func testName(name []string) string {
	return strings.Join(name, " ")
}

func formatTolerance(tol float64) string {
	return strconv.FormatFloat(tol, 'g', -1, 64)
}

var packagePath = reflect.TypeFor[Tester]().PkgPath()

// callerLocation returns "file:line" of the innermost frame outside this
// package, so that failures point at the test method that made the check.
func callerLocation() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !internalFrame(f) {
			return filepath.Base(filepath.Dir(f.File)) + "/" + filepath.Base(f.File) + ":" + strconv.Itoa(f.Line)
		}
		if !more {
			return ""
		}
	}
}

func internalFrame(f runtime.Frame) bool {
	switch {
	case strings.HasPrefix(f.Function, packagePath+"."):
		return !strings.HasSuffix(f.File, "_test.go")
	case strings.HasPrefix(f.Function, "reflect."), strings.HasPrefix(f.Function, "runtime."):
		return true
	}
	return false
}
