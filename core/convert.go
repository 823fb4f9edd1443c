package core

import (
	"fmt"
	"reflect"

	"github.com/heraldbot/herald/core/types"
)

// ConvertFunc is the uniform shape every converter is wrapped into: it
// receives the invocation context and the raw supplied value and produces the
// value handed to the callback, or an error when the input cannot be
// interpreted.
type ConvertFunc func(ctx *Context, raw any) (any, error)

// Converter is the interface form of a converter.
type Converter interface {
	ConvertOption(ctx *Context, raw any) (any, error)
}

// OptionUnmarshaler lets a parameter type act as its own converter: a fresh
// value is constructed per invocation and populated from the raw input.
type OptionUnmarshaler interface {
	UnmarshalOption(ctx *Context, raw any) error
}

var (
	contextType      = reflect.TypeOf((*Context)(nil))
	errorType        = reflect.TypeOf((*error)(nil)).Elem()
	unmarshalerIface = reflect.TypeOf((*OptionUnmarshaler)(nil)).Elem()
	userType         = reflect.TypeOf(types.User{})
)

// WrapConverter normalizes a declared converter into a ConvertFunc.
//
// Accepted shapes: a Converter implementation, or a function taking zero
// arguments, the raw value, or (*Context, raw value), returning the converted
// value with an optional trailing error. Any other shape is a declaration-time
// error wrapping ErrInvalidConverter.
func WrapConverter(v any) (ConvertFunc, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: converter is nil", ErrInvalidConverter)
	}

	if c, ok := v.(Converter); ok {
		return c.ConvertOption, nil
	}

	fv := reflect.ValueOf(v)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s is neither a Converter nor a function", ErrInvalidConverter, ft.String())
	}
	if ft.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic converters are unsupported", ErrInvalidConverter)
	}
	if ft.NumIn() > 2 {
		return nil, fmt.Errorf("%w: %s has more than 2 arguments", ErrInvalidConverter, ft.String())
	}
	if ft.NumIn() == 2 && ft.In(0) != contextType {
		return nil, fmt.Errorf("%w: %s must take *core.Context as its first argument", ErrInvalidConverter, ft.String())
	}

	returnsError := false
	switch ft.NumOut() {
	case 1:
		if ft.Out(0) == errorType {
			return nil, fmt.Errorf("%w: %s produces no value", ErrInvalidConverter, ft.String())
		}
	case 2:
		if ft.Out(1) != errorType {
			return nil, fmt.Errorf("%w: %s must return its error last", ErrInvalidConverter, ft.String())
		}
		returnsError = true
	default:
		return nil, fmt.Errorf("%w: %s must return a value and an optional error", ErrInvalidConverter, ft.String())
	}

	numIn := ft.NumIn()
	return func(ctx *Context, raw any) (any, error) {
		in := make([]reflect.Value, 0, numIn)
		switch numIn {
		case 2:
			in = append(in, reflect.ValueOf(ctx))
			arg, err := coerceToType(raw, ft.In(1))
			if err != nil {
				return nil, err
			}
			in = append(in, arg)
		case 1:
			if ft.In(0) == contextType {
				in = append(in, reflect.ValueOf(ctx))
			} else {
				arg, err := coerceToType(raw, ft.In(0))
				if err != nil {
					return nil, err
				}
				in = append(in, arg)
			}
		}

		out := fv.Call(in)
		if returnsError && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}

		return out[0].Interface(), nil
	}, nil
}

// unmarshalerConverter builds the implicit converter for a parameter type
// implementing OptionUnmarshaler. t is the declared type with any optional
// pointer already stripped.
func unmarshalerConverter(t reflect.Type) ConvertFunc {
	return func(ctx *Context, raw any) (any, error) {
		var target reflect.Value
		if t.Kind() == reflect.Pointer {
			target = reflect.New(t.Elem())
		} else {
			target = reflect.New(t)
		}

		unmarshaler, ok := target.Interface().(OptionUnmarshaler)
		if !ok {
			return nil, fmt.Errorf("%w: %s does not implement OptionUnmarshaler", ErrInvalidConverter, t.String())
		}

		if err := unmarshaler.UnmarshalOption(ctx, raw); err != nil {
			return nil, err
		}

		if t.Kind() == reflect.Pointer {
			return target.Interface(), nil
		}

		return target.Elem().Interface(), nil
	}
}

// implementsUnmarshaler reports whether the declared type (or its pointer
// form) implements OptionUnmarshaler.
func implementsUnmarshaler(t reflect.Type) bool {
	if t.Implements(unmarshalerIface) {
		return true
	}

	return t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(unmarshalerIface)
}

// coerceToType adapts a decoded value to the declared Go type of a parameter:
// dereferencing or taking addresses, narrowing numeric kinds, and resolving
// the member/user entity overlap. It never converts across unrelated kinds.
func coerceToType(raw any, t reflect.Type) (reflect.Value, error) {
	if raw == nil {
		return reflect.Zero(t), nil
	}

	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	// A guild member satisfies a user-typed parameter.
	if member, ok := memberValue(rv); ok && (t == userType || t == reflect.PointerTo(userType)) {
		user := member.DisplayUser()
		if user == nil {
			return reflect.Value{}, fmt.Errorf("member %s carries no user payload", member.GuildID)
		}

		return coerceToType(types.User{User: user}, t)
	}

	if t.Kind() == reflect.Pointer {
		inner, err := coerceToType(raw, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(inner)
		return ptr, nil
	}

	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Zero(t), nil
		}

		return coerceToType(rv.Elem().Interface(), t)
	}

	if convertibleKinds(rv.Type(), t) {
		return rv.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", rv.Type().String(), t.String())
}

func memberValue(rv reflect.Value) (*types.Member, bool) {
	switch v := rv.Interface().(type) {
	case *types.Member:
		if v != nil {
			return v, true
		}
	case types.Member:
		return &v, true
	}

	return nil, false
}

// convertibleKinds allows reflect conversion only within the same kind family:
// numeric to numeric, string to string, bool to bool. This keeps Go's
// surprising cross-kind conversions (int to string, string to byte slice) out
// of argument binding.
func convertibleKinds(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}

	return kindFamily(from.Kind()) != familyOther && kindFamily(from.Kind()) == kindFamily(to.Kind())
}

type family int

const (
	familyOther family = iota
	familyNumeric
	familyString
	familyBool
)

func kindFamily(k reflect.Kind) family {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return familyNumeric
	case reflect.String:
		return familyString
	case reflect.Bool:
		return familyBool
	default:
		return familyOther
	}
}
