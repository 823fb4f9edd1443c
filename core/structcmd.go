package core

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/heraldbot/herald/core/options"
	"github.com/heraldbot/herald/core/types"
)

// Runner is the handler contract of a struct-based command. A fresh instance
// of the struct is built per invocation, its tagged fields are populated from
// the supplied arguments, and Callback runs against that instance.
type Runner interface {
	Callback(ctx *Context) error
}

// PreRunner runs before Callback; returning an error skips the callback.
type PreRunner interface {
	PreRun(ctx *Context) error
}

// PostRunner runs after a successful Callback.
type PostRunner interface {
	PostRun(ctx *Context) error
}

// ErrorHandler receives any error raised during the command's run, argument
// binding failures included. Without it, errors propagate to the dispatcher.
type ErrorHandler interface {
	OnError(ctx *Context, err error)
}

// ParamDeclarer supplements the struct tags with metadata tags cannot carry,
// such as converters, choices and autocomplete handlers. The map is keyed by
// field name and is merged under the tags: a tag value wins over the declared
// one.
type ParamDeclarer interface {
	DeclareParams() map[string]*options.ParamInfo
}

// Struct tag keys recognized on command fields. The option tag holds the wire
// name and flags; the rest refine the compiled option.
//
//	Level int `option:"level,optional" description:"Power level." default:"3" min:"1" max:"10"`
const (
	tagOption      = "option"
	tagDescription = "description"
	tagDefault     = "default"
	tagMin         = "min"
	tagMax         = "max"
	tagMinLen      = "minlen"
	tagMaxLen      = "maxlen"
	tagChannels    = "channels"
)

// compileStruct compiles a struct-based command prototype. Fields carrying an
// option tag become parameters in field declaration order; untagged fields are
// invocation state and stay untouched by the binder.
func compileStruct(command string, prototype Runner) (*CompiledSignature, reflect.Type, error) {
	if prototype == nil {
		return nil, nil, NewSignatureError(command, "", "command prototype is nil")
	}

	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, nil, NewSignatureError(command, "", "command prototype must be a struct")
	}

	var declared map[string]*options.ParamInfo
	if d, ok := prototype.(ParamDeclarer); ok {
		declared = d.DeclareParams()
	}

	var (
		descs []*ParameterDescriptor
		opts  []*discordgo.ApplicationCommandOption
	)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup(tagOption)
		if !ok {
			continue
		}
		if !field.IsExported() {
			return nil, nil, NewSignatureError(command, field.Name, "option fields must be exported")
		}

		info, err := paramInfoFromField(field, tag, declared[field.Name])
		if err != nil {
			return nil, nil, NewSignatureError(command, field.Name, err.Error())
		}

		desc, opt, err := buildDescriptor(command, info.Name, field.Type, info)
		if err != nil {
			return nil, nil, err
		}
		desc.Bind = field.Name

		descs = append(descs, desc)
		opts = append(opts, opt)
	}

	sig, err := assembleSignature(command, descs, opts, false)
	if err != nil {
		return nil, nil, err
	}

	return sig, t, nil
}

// paramInfoFromField merges a field's tags over its declared metadata.
func paramInfoFromField(field reflect.StructField, tag string, declared *options.ParamInfo) (*options.ParamInfo, error) {
	info := &options.ParamInfo{}
	if declared != nil {
		*info = *declared
	}

	name, flags, _ := strings.Cut(tag, ",")
	if name != "" {
		info.Name = name
	}
	if info.Name == "" {
		info.Name = strings.ToLower(field.Name)
	}

	for _, flag := range strings.Split(flags, ",") {
		switch strings.TrimSpace(flag) {
		case "":
		case "optional":
			info.Required = options.BoolPtr(false)
		case "required":
			info.Required = options.BoolPtr(true)
		default:
			return nil, fmt.Errorf("unknown option flag %q", flag)
		}
	}

	if v, ok := field.Tag.Lookup(tagDescription); ok {
		info.Description = v
	}

	if v, ok := field.Tag.Lookup(tagDefault); ok {
		def, err := parseDefaultTag(field.Type, v)
		if err != nil {
			return nil, err
		}
		info.Default = def
	}

	if err := parseBoundTags(field, info); err != nil {
		return nil, err
	}

	if v, ok := field.Tag.Lookup(tagChannels); ok {
		kinds, err := parseChannelsTag(v)
		if err != nil {
			return nil, err
		}
		info.ChannelKinds = kinds
	}

	return info, nil
}

// parseDefaultTag interprets a default tag literal against the field's
// primitive kind. Entity-typed fields cannot default from a tag; use
// DeclareParams for those.
func parseDefaultTag(t reflect.Type, literal string) (any, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return literal, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(literal)
		if err != nil {
			return nil, fmt.Errorf("default %q is not a boolean", literal)
		}
		return v, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("default %q is not an integer", literal)
		}
		return v, nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return nil, fmt.Errorf("default %q is not a number", literal)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("a default tag cannot target %s; declare the default in DeclareParams", t.String())
	}
}

func parseBoundTags(field reflect.StructField, info *options.ParamInfo) error {
	if v, ok := field.Tag.Lookup(tagMin); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("min %q is not a number", v)
		}
		info.MinValue = options.FloatPtr(f)
	}
	if v, ok := field.Tag.Lookup(tagMax); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("max %q is not a number", v)
		}
		info.MaxValue = options.FloatPtr(f)
	}
	if v, ok := field.Tag.Lookup(tagMinLen); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("minlen %q is not an integer", v)
		}
		info.MinLength = options.IntPtr(n)
	}
	if v, ok := field.Tag.Lookup(tagMaxLen); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("maxlen %q is not an integer", v)
		}
		info.MaxLength = options.IntPtr(n)
	}

	return nil
}

func parseChannelsTag(v string) ([]types.ChannelKind, error) {
	var kinds []types.ChannelKind
	for _, name := range strings.Split(v, ",") {
		kind, ok := types.ParseChannelKind(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown channel kind %q", name)
		}
		kinds = append(kinds, kind)
	}

	return kinds, nil
}
