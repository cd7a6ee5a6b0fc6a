package tester

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
)

var testerType = reflect.TypeFor[*Tester]()

// Run runs the tests of examples with a new Tester.
func Run(examples any, opts ...Option) *Report {
	return New(opts...).Run(examples)
}

// Run runs the tests of examples and reports the results. When examples
// implements Examples its Tests method is the only test method. Otherwise
// every exported method named Test... that takes a *Tester runs in name
// order. A panic in a test method is recorded as a failed test and skips
// the remaining methods.
func (t *Tester) Run(examples any) *Report {
	r := &Report{
		RunID:     uuid.NewString(),
		Examples:  examplesName(examples),
		StartedAt: t.now(),
	}
	t.results, t.warnings = nil, 0

	if t.printAll {
		r.Data = t.printer.Render(examples)
	}

	methods := t.discover(examples)
	if len(methods) == 0 {
		r.NoTests = true
		t.logger.Warn("no test methods found", "examples", r.Examples)
		return r
	}

	t.logger.Info("running examples", "examples", r.Examples, "run_id", r.RunID, "methods", len(methods))
	for _, m := range methods {
		if err := t.runMethod(m); err != nil {
			r.Aborted = err.Error()
			t.logger.Error("test method panicked", "examples", r.Examples, "method", m.name, "error", err)
			break
		}
	}
	t.method = ""

	r.Results = t.results
	r.Warnings = t.warnings
	for _, res := range r.Results {
		if !res.Pass {
			r.Failures++
		}
	}
	t.logger.Info("examples finished", "examples", r.Examples, "tests", len(r.Results), "failures", r.Failures)
	return r
}

type testMethod struct {
	name string
	call func()
}

func (t *Tester) runMethod(m testMethod) (err error) {
	t.method = m.name
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s panicked: %v", m.name, p)
			t.record(false, fmt.Sprintf("Threw exception during test %d", len(t.results)+1), false, 0,
				fmt.Sprintf("caused panic: %v\n", p))
		}
	}()
	m.call()
	return nil
}

// discover lists the test methods of examples bound to t.
func (t *Tester) discover(examples any) []testMethod {
	if ex, ok := examples.(Examples); ok {
		return []testMethod{{name: "Tests", call: func() { ex.Tests(t) }}}
	}

	v := reflect.ValueOf(examples)
	if !v.IsValid() {
		return nil
	}
	if v.Kind() != reflect.Pointer {
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		v = p
	}

	// Method(i) is in lexicographic name order.
	var methods []testMethod
	typ := v.Type()
	for i := range typ.NumMethod() {
		m := typ.Method(i)
		mt := m.Type
		if !strings.HasPrefix(m.Name, "Test") || mt.NumIn() != 2 || mt.In(1) != testerType {
			continue
		}
		if mt.NumOut() > 1 || (mt.NumOut() == 1 && mt.Out(0).Kind() != reflect.Bool) {
			continue
		}
		fn := v.Method(i)
		methods = append(methods, testMethod{
			name: m.Name,
			call: func() { fn.Call([]reflect.Value{reflect.ValueOf(t)}) },
		})
	}
	return methods
}

func examplesName(examples any) string {
	t := reflect.TypeOf(examples)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}
