package core

import (
	"reflect"

	"github.com/bwmarrin/discordgo"
	"github.com/heraldbot/herald/core/options"
)

var extrasType = reflect.TypeOf(Extras(nil))

// compileFunc compiles a function handler against its declared parameter
// metadata. The accepted shape is
//
//	func(ctx *Context, <options...>, [extras Extras]) [value,] [error]
//
// Go reflection does not expose parameter names, so every option parameter
// must be named by a ParamInfo entry; the metadata list is matched to the
// option parameters positionally and must cover them exactly.
func compileFunc(command string, fn any, params []*options.ParamInfo) (*CompiledSignature, reflect.Value, error) {
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return nil, reflect.Value{}, NewSignatureError(command, "", "handler is not a function")
	}

	ft := fv.Type()
	if ft.IsVariadic() {
		return nil, reflect.Value{}, NewSignatureError(command, "", "variadic handlers are unsupported")
	}
	if ft.NumIn() == 0 || ft.In(0) != contextType {
		return nil, reflect.Value{}, NewSignatureError(command, "", "handler must take *core.Context as its first argument")
	}
	if err := checkHandlerOutputs(command, ft); err != nil {
		return nil, reflect.Value{}, err
	}

	optionParams := ft.NumIn() - 1
	hasExtras := false
	if optionParams > 0 && ft.In(ft.NumIn()-1) == extrasType {
		hasExtras = true
		optionParams--
	}

	if len(params) != optionParams {
		return nil, reflect.Value{}, NewSignatureError(command, "",
			"parameter metadata does not cover the handler's options: names cannot be read from a compiled function")
	}

	descs := make([]*ParameterDescriptor, 0, optionParams)
	opts := make([]*discordgo.ApplicationCommandOption, 0, optionParams)
	for i := 0; i < optionParams; i++ {
		info := params[i]
		if info == nil || info.Name == "" {
			return nil, reflect.Value{}, NewSignatureError(command, "", "every function parameter needs a named ParamInfo")
		}

		desc, opt, err := buildDescriptor(command, info.Name, ft.In(i+1), info)
		if err != nil {
			return nil, reflect.Value{}, err
		}

		descs = append(descs, desc)
		opts = append(opts, opt)
	}

	sig, err := assembleSignature(command, descs, opts, hasExtras)
	if err != nil {
		return nil, reflect.Value{}, err
	}

	return sig, fv, nil
}

// checkHandlerOutputs validates a handler's return shape: nothing, an error,
// a response value, or a response value with a trailing error.
func checkHandlerOutputs(command string, ft reflect.Type) error {
	switch ft.NumOut() {
	case 0, 1:
		return nil
	case 2:
		if ft.Out(1) != errorType {
			return NewSignatureError(command, "", "handler must return its error last")
		}
		return nil
	default:
		return NewSignatureError(command, "", "handler returns too many values")
	}
}
