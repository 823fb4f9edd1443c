package core

import (
	"fmt"
	"reflect"
)

// Invoke runs the command against one raw argument bag, keyed by option name.
// Binding happens first: every declared parameter is converted or defaulted,
// and any failure surfaces as ErrMissingArgument or BadArgumentError before
// the handler logic sees anything. Handler errors propagate unwrapped. For
// struct commands an OnError hook consumes every failure of the run, binding
// failures included.
func (c *Command) Invoke(ctx *Context, raw map[string]any) error {
	ctx.Command = c
	ctx.kwargs = raw

	if c.structType != nil {
		return c.invokeStruct(ctx, raw)
	}

	bound, extras, err := c.bindArguments(ctx, raw)
	if err != nil {
		return err
	}

	return c.invokeFunc(ctx, bound, extras)
}

// bindArguments converts the raw bag into per-parameter values in declaration
// order. Supplied values pass through the converter chain; absent optional
// values take their default verbatim, bypassing conversion.
func (c *Command) bindArguments(ctx *Context, raw map[string]any) ([]any, Extras, error) {
	bound := make([]any, len(c.signature.params))
	used := make(map[string]struct{}, len(raw))

	for i, desc := range c.signature.params {
		value, supplied := raw[desc.Name]
		if !supplied {
			if !desc.Optional {
				return nil, nil, fmt.Errorf("%w: '%s'", ErrMissingArgument, desc.Name)
			}

			bound[i] = desc.Default
			continue
		}
		used[desc.Name] = struct{}{}

		converted, err := convertArgument(ctx, desc, value)
		if err != nil {
			return nil, nil, err
		}
		bound[i] = converted
	}

	var extras Extras
	if c.signature.hasExtras {
		extras = Extras{}
		for name, value := range raw {
			if _, ok := used[name]; !ok {
				if _, declared := c.signature.byName[name]; !declared {
					extras[name] = value
				}
			}
		}
	}

	return bound, extras, nil
}

// convertArgument runs one parameter's converter chain. Alternatives are tried
// in declaration order and the first success wins; the failure is reported
// only after the whole chain is exhausted.
func convertArgument(ctx *Context, desc *ParameterDescriptor, value any) (any, error) {
	if len(desc.Converters) == 0 {
		return value, nil
	}

	var lastErr error
	for _, convert := range desc.Converters {
		converted, err := convert(ctx, value)
		if err == nil {
			return converted, nil
		}
		lastErr = err
	}

	expected := desc.ConverterNames
	if len(expected) == 0 {
		expected = []string{desc.Kind.String()}
	}

	return nil, NewBadArgumentError(desc.Name, value, expected, lastErr)
}

// invokeFunc calls a function handler with the bound values in parameter
// order, coercing each to the declared parameter type.
func (c *Command) invokeFunc(ctx *Context, bound []any, extras Extras) error {
	ft := c.fn.Type()

	in := make([]reflect.Value, 0, ft.NumIn())
	in = append(in, reflect.ValueOf(ctx))
	for i, value := range bound {
		desc := c.signature.params[i]

		arg, err := coerceToType(value, ft.In(i+1))
		if err != nil {
			expected := []string{desc.Kind.String()}
			return NewBadArgumentError(desc.Name, value, expected, err)
		}
		in = append(in, arg)
	}
	if c.signature.hasExtras {
		in = append(in, reflect.ValueOf(extras))
	}

	return c.finishInvocation(ctx, c.fn.Call(in))
}

// invokeStruct builds a fresh instance of the command struct, binds and
// populates its option fields, and runs the PreRun/Callback/PostRun cycle. An
// OnError hook on the struct consumes errors, argument binding failures
// included; without one they propagate.
func (c *Command) invokeStruct(ctx *Context, raw map[string]any) error {
	instance := reflect.New(c.structType)

	bound, _, err := c.bindArguments(ctx, raw)
	if err == nil {
		err = c.populateStruct(instance.Elem(), bound)
	}
	if err == nil {
		err = c.runStruct(ctx, instance.Interface().(Runner))
	}

	if err != nil {
		if handler, ok := instance.Interface().(ErrorHandler); ok {
			handler.OnError(ctx, err)
			return nil
		}
	}

	return err
}

func (c *Command) populateStruct(v reflect.Value, bound []any) error {
	for i, desc := range c.signature.params {
		field := v.FieldByName(desc.Bind)

		value, err := coerceToType(bound[i], field.Type())
		if err != nil {
			return NewBadArgumentError(desc.Name, bound[i], []string{desc.Kind.String()}, err)
		}
		field.Set(value)
	}

	return nil
}

func (c *Command) runStruct(ctx *Context, runner Runner) error {
	if pre, ok := runner.(PreRunner); ok {
		if err := pre.PreRun(ctx); err != nil {
			return err
		}
	}

	if err := runner.Callback(ctx); err != nil {
		return err
	}

	if post, ok := runner.(PostRunner); ok {
		return post.PostRun(ctx)
	}

	return nil
}

// finishInvocation interprets a function handler's return values. A non-nil
// trailing error propagates; a returned string is sent as the response when
// the handler has not responded itself.
func (c *Command) finishInvocation(ctx *Context, out []reflect.Value) error {
	if len(out) == 0 {
		return nil
	}

	last := out[len(out)-1]
	if last.Type() == errorType {
		if !last.IsNil() {
			return last.Interface().(error)
		}
		out = out[:len(out)-1]
	}

	if len(out) == 1 && !ctx.Responded() {
		if content, ok := out[0].Interface().(string); ok && content != "" {
			return ctx.Respond(content)
		}
	}

	return nil
}
