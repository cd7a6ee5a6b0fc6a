package tester

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/prima/internal/inspector"
	"github.com/roach88/prima/internal/reflector"
)

var errorType = reflect.TypeFor[error]()

// CheckMethod invokes the named method of object with args and compares
// its first result with expected. A method whose last result is a non-nil
// error fails the check.
func (t *Tester) CheckMethod(expected, object any, method string, args ...any) bool {
	return t.checkMethod(expected, object, method, inspector.Exact(), args)
}

// CheckInexactMethod is CheckMethod with floating point values compared
// within the relative tolerance.
func (t *Tester) CheckInexactMethod(expected any, tolerance float64, object any, method string, args ...any) bool {
	return t.checkMethod(expected, object, method, inspector.Inexact(tolerance), args)
}

func (t *Tester) checkMethod(expected, object any, method string, mode inspector.Mode, args []any) bool {
	name := "method " + method
	fn, ok := reflector.Method(reflect.ValueOf(object), method)
	if !ok {
		return t.record(false, name, false, 0, fmt.Sprintf("method %s not found in %T\n", method, object))
	}
	got, err := invoke(fn, method, reflect.TypeOf(object), args)
	if err != nil {
		return t.record(false, name, false, 0, invocationDetail(err, method, object, t.printer.Render(object)))
	}
	if !got.IsValid() {
		return t.record(false, name, false, 0, fmt.Sprintf("method %s returns no value\n", method))
	}

	actual := got.Interface()
	v := t.inspector.Compare(actual, expected, mode)
	return t.conclude(v, v.Same, []string{name}, t.sideBySide(t.printer.Render(actual), t.printer.Render(expected)))
}

// CheckError invokes the named method of object with args and succeeds
// when it fails with want. The failure is either a returned error or a
// panic; it matches when errors.Is reports a match or when it has the same
// type and message as want.
func (t *Tester) CheckError(want error, object any, method string, args ...any) bool {
	name := "error from method " + method
	fn, ok := reflector.Method(reflect.ValueOf(object), method)
	if !ok {
		return t.record(false, name, false, 0, fmt.Sprintf("method %s not found in %T\n", method, object))
	}
	_, err := invoke(fn, method, reflect.TypeOf(object), args)
	return t.checkError(name, want, err, method, object)
}

// CheckConstructorError calls constructor with args and succeeds when it
// fails with want, matched as in CheckError.
func (t *Tester) CheckConstructorError(want error, constructor any, args ...any) bool {
	fn := reflect.ValueOf(constructor)
	if fn.Kind() != reflect.Func {
		return t.record(false, "constructor error", false, 0, fmt.Sprintf("%T is not a function\n", constructor))
	}
	_, err := invoke(fn, "constructor", nil, args)
	return t.checkError("constructor error", want, err, "constructor", nil)
}

func (t *Tester) checkError(name string, want, got error, method string, object any) bool {
	cause := got
	var ce *reflector.CallError
	if errors.As(got, &ce) {
		cause = panicError(ce.Value)
	}

	var b strings.Builder
	switch {
	case cause == nil:
		fmt.Fprintf(&b, "invocation did not fail\n  method name: %s\n  expected error: %T: %v\n", method, want, want)
		return t.record(false, name, false, 0, b.String())
	case errors.Is(cause, want):
	case reflect.TypeOf(cause) == reflect.TypeOf(want) && cause.Error() == want.Error():
	case reflect.TypeOf(cause) == reflect.TypeOf(want):
		fmt.Fprintf(&b, "correct error type: %T\n  message produced: %s\n  message expected: %s\n", want, cause.Error(), want.Error())
		return t.record(false, name, false, 0, b.String())
	default:
		fmt.Fprintf(&b, "incorrect error\n  error produced: %T: %v\n  error expected: %T: %v\n", cause, cause, want, want)
		return t.record(false, name, false, 0, b.String())
	}

	fmt.Fprintf(&b, "correct error: %T\n  message: %s\n  after invoking %s", want, want.Error(), method)
	if object != nil {
		fmt.Fprintf(&b, "\n  object value was:\n%s", t.printer.Render(object))
	}
	b.WriteString("\n")
	return t.record(true, name, false, 0, b.String())
}

// panicError turns a recovered panic value into an error.
func panicError(p any) error {
	if err, ok := p.(error); ok {
		return err
	}
	return errors.New(fmt.Sprint(p))
}

// invoke calls fn with args converted to its parameter types. It returns
// the first result that is not a trailing error, and the trailing error or
// a *reflector.CallError when fn panics.
func invoke(fn reflect.Value, name string, recv reflect.Type, args []any) (reflect.Value, error) {
	ft := fn.Type()
	in, err := arguments(ft, args)
	if err != nil {
		return reflect.Value{}, err
	}

	out, err := reflector.Call(fn, name, recv, in...)
	if err != nil {
		return reflect.Value{}, err
	}
	if n := len(out); n > 0 && ft.Out(n-1) == errorType {
		if e := out[n-1]; !e.IsNil() {
			return reflect.Value{}, e.Interface().(error)
		}
		out = out[:n-1]
	}
	if len(out) == 0 {
		return reflect.Value{}, nil
	}
	return out[0], nil
}

func arguments(ft reflect.Type, args []any) ([]reflect.Value, error) {
	n := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < n-1 {
			return nil, fmt.Errorf("want at least %d arguments, got %d", n-1, len(args))
		}
	} else if len(args) != n {
		return nil, fmt.Errorf("want %d arguments, got %d", n, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		pt := ft.In(min(i, n-1))
		if ft.IsVariadic() && i >= n-1 {
			pt = pt.Elem()
		}
		v, err := convert(arg, pt)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = v
	}
	return in, nil
}

func convert(arg any, pt reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use nil as %s", pt)
	}
	v := reflect.ValueOf(arg)
	switch {
	case v.Type().AssignableTo(pt):
		return v, nil
	case isNumber(v.Kind()) && isNumber(pt.Kind()) && v.CanConvert(pt):
		return v.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Type(), pt)
}

func isNumber(k reflect.Kind) bool {
	return reflect.Int <= k && k <= reflect.Complex128
}

func invocationDetail(err error, method string, object any, rendered string) string {
	var b strings.Builder
	var ce *reflector.CallError
	if errors.As(err, &ce) {
		fmt.Fprintf(&b, "invocation panicked: %v\n", ce.Value)
	} else {
		fmt.Fprintf(&b, "invocation failed: %v\n", err)
	}
	fmt.Fprintf(&b, "  method name: %s\n  object type: %T\n  object value was:\n%s\n", method, object, rendered)
	return b.String()
}
