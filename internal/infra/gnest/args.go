package gnest

import (
	"reflect"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// bindArgs lays out the arguments of a call to fn. Injectable parameters
// take the injected values in order; every other parameter takes the next
// caller supplied value, converted to the parameter type. Missing values
// become zero values and surplus values are dropped, unless fn is variadic.
func bindArgs(t reflect.Type, injected []reflect.Value, extra []any) ([]reflect.Value, error) {
	n := t.NumIn()
	args := make([]reflect.Value, 0, n+len(extra))
	inj, ext := 0, 0

	for i := 0; i < n; i++ {
		pt := t.In(i)
		if t.IsVariadic() && i == n-1 {
			for ; ext < len(extra); ext++ {
				v, err := coerce(extra[ext], pt.Elem())
				if err != nil {
					return nil, errors.WithMessagef(err, "argument %d", i+ext)
				}
				args = append(args, v)
			}
			break
		}
		if Injectable(pt) && inj < len(injected) {
			args = append(args, injected[inj])
			inj++
			continue
		}
		if ext >= len(extra) {
			args = append(args, reflect.Zero(pt))
			continue
		}
		v, err := coerce(extra[ext], pt)
		if err != nil {
			return nil, errors.WithMessagef(err, "argument %d", i)
		}
		args = append(args, v)
		ext++
	}
	return args, nil
}

// coerce converts v to t. Route parameters arrive as strings, so scalar
// targets go through cast.
func coerce(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	var (
		out any
		err error
	)
	switch t.Kind() {
	case reflect.String:
		out, err = cast.ToStringE(v)
	case reflect.Bool:
		out, err = cast.ToBoolE(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out, err = cast.ToInt64E(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		out, err = cast.ToUint64E(v)
	case reflect.Float32, reflect.Float64:
		out, err = cast.ToFloat64E(v)
	default:
		if rv.Type().ConvertibleTo(t) {
			return rv.Convert(t), nil
		}
		return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "cannot use %T as %v", v, t)
	}
	if err != nil {
		return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "cannot use %T as %v: %v", v, t, err)
	}
	if overflows(reflect.New(t).Elem(), out) {
		return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "%v overflows %v", v, t)
	}
	return reflect.ValueOf(out).Convert(t), nil
}

// overflows reports whether the widened value out does not fit in z's type.
func overflows(z reflect.Value, out any) bool {
	switch n := out.(type) {
	case int64:
		return z.OverflowInt(n)
	case uint64:
		return z.OverflowUint(n)
	case float64:
		return z.OverflowFloat(n)
	}
	return false
}
