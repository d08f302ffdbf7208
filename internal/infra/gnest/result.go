package gnest

import "reflect"

// Signal tells the controller chain what to do after an action returned.
type Signal int

const (
	// Continue runs the next action; the value is discarded.
	Continue Signal = iota
	// Stop ends the chain and makes Value the response.
	Stop
	// Fail ends the chain with Err.
	Fail
)

func (s Signal) String() string {
	switch s {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	case Fail:
		return "fail"
	}
	return "unknown"
}

// Result is the outcome of one action. Controllers may return it directly;
// plain return values are mapped by resultOf.
type Result struct {
	Signal Signal
	Value  any
	Err    error
}

func Proceed() Result { return Result{Signal: Continue, Value: true} }

func Halt(v any) Result { return Result{Signal: Stop, Value: v} }

func Failed(err error) Result { return Result{Signal: Fail, Err: err} }

var resultType = reflect.TypeOf(Result{})

// resultOf maps a call's return values onto a Result:
//
//	Result, *Result      -> as returned, whatever the static type
//	true                 -> Continue
//	false, nil, no value -> Stop with that value
//	non-nil error        -> Fail
//	anything else        -> Stop with the value
func resultOf(out []reflect.Value) Result {
	if len(out) == 0 {
		return Halt(nil)
	}
	last := out[len(out)-1]
	if last.Type() == errorType {
		if !last.IsNil() {
			return Failed(last.Interface().(error))
		}
		if len(out) == 1 {
			return Halt(nil)
		}
	}

	first := out[0]
	if first.Type() == resultType {
		return first.Interface().(Result)
	}
	v := valueOf(first)
	switch r := v.(type) {
	case Result:
		return r
	case *Result:
		return *r
	}
	if b, ok := v.(bool); ok && b {
		return Proceed()
	}
	return Halt(v)
}

// valueOf unwraps a reflect.Value, turning typed nils into a plain nil.
func valueOf(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	return v.Interface()
}
