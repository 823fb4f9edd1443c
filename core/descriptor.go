package core

import (
	"reflect"

	"github.com/bwmarrin/discordgo"
	"github.com/heraldbot/herald/core/options"
)

// ParameterDescriptor is the compiled, read-only record for one parameter.
// Descriptors are built once at declaration time and only ever read afterward,
// so concurrent invocations of the same command share them safely.
type ParameterDescriptor struct {
	// Name is the wire option name the remote caller sees.
	Name string

	// Bind is the struct field the value binds to; empty for function
	// commands, where Index positions the value instead.
	Bind string

	// Index is the parameter's position among the handler's option
	// parameters (excluding the leading context).
	Index int

	// Kind is the resolved option kind.
	Kind options.Kind

	// Type is the declared Go type, optional pointer included.
	Type reflect.Type

	// Optional marks the parameter as omittable by the caller.
	Optional bool

	// Default is substituted when the caller omits the parameter; HasDefault
	// distinguishes an explicit nil default from no default at all.
	Default    any
	HasDefault bool

	// Converters is the ordered chain applied to the raw value. Union marks
	// a chain with genuine alternatives, which changes failure reporting.
	// ConverterNames labels each entry for error messages.
	Converters     []ConvertFunc
	ConverterNames []string
	Union          bool

	// Autocomplete handles suggestion requests for the parameter.
	Autocomplete options.AutocompleteFunc
}

// CompiledSignature is the one-shot product of signature compilation: the
// ordered option list handed to the registration framework plus the
// name-keyed descriptor map the invocation adapter reads. It is never mutated
// after compilation.
type CompiledSignature struct {
	Options []*discordgo.ApplicationCommandOption

	params    []*ParameterDescriptor
	byName    map[string]*ParameterDescriptor
	hasExtras bool
}

// Parameters returns the descriptors in declaration order.
func (s *CompiledSignature) Parameters() []*ParameterDescriptor {
	return s.params
}

// Lookup returns the descriptor for an option name.
func (s *CompiledSignature) Lookup(name string) (*ParameterDescriptor, bool) {
	d, ok := s.byName[name]
	return d, ok
}

// HasExtras reports whether the handler declared a trailing catch-all
// parameter.
func (s *CompiledSignature) HasExtras() bool {
	return s.hasExtras
}

// ApplyDefaults returns a copy of raw with every absent optional parameter
// filled with its default. It gives callers invoking the raw callback
// directly the same defaults the adapter injects.
func (s *CompiledSignature) ApplyDefaults(raw map[string]any) map[string]any {
	filled := make(map[string]any, len(s.params)+len(raw))
	for k, v := range raw {
		filled[k] = v
	}

	for _, desc := range s.params {
		if _, ok := filled[desc.Name]; ok {
			continue
		}
		if desc.HasDefault {
			filled[desc.Name] = desc.Default
		}
	}

	return filled
}

// buildDescriptor compiles one parameter from its declared type and optional
// explicit metadata. Explicit metadata wins wherever both speak: the resolver
// is consulted only when no explicit kind is pinned, and optionality derived
// from a pointer type applies only when the kind was inferred.
func buildDescriptor(command, name string, t reflect.Type, info *options.ParamInfo) (*ParameterDescriptor, *discordgo.ApplicationCommandOption, error) {
	meta := options.ParamInfo{}
	if info != nil {
		meta = *info
	}
	if meta.Name == "" {
		meta.Name = name
	}

	desc := &ParameterDescriptor{
		Name:         meta.Name,
		Type:         t,
		Autocomplete: meta.Autocomplete,
	}

	kind := meta.Type
	typeInferred := kind == 0
	unmarshals := false
	var resolved options.Resolution
	if t != nil {
		unmarshals = implementsUnmarshaler(t)
		var err error
		resolved, err = options.ResolveType(t)
		if err != nil {
			if typeInferred && len(meta.Converters) == 0 && !unmarshals {
				return nil, nil, options.TypeError{Param: meta.Name, Type: t.String()}
			}
			// Self-converting and custom-converted types bind through their
			// converter; the declared type no longer has to resolve on its own.
			if t.Kind() == reflect.Pointer {
				resolved.Optional = true
				resolved.Elem = t.Elem()
			}
		}
	}

	switch {
	case !typeInferred:
		// explicit kind pins the option; the declared type only binds.
	case t != nil && resolved.Kind != 0:
		kind = resolved.Kind
	case len(meta.Converters) > 0 || unmarshals:
		// converted input reads as text unless pinned otherwise.
		kind = options.KindString
	default:
		return nil, nil, options.TypeError{Param: meta.Name, Type: "<none>"}
	}
	desc.Kind = kind

	if kind == options.KindChannel && len(meta.ChannelKinds) == 0 {
		meta.ChannelKinds = resolved.ChannelKinds
	}

	required := true
	switch {
	case meta.Default != nil:
		required = false
		desc.Default = meta.Default
		desc.HasDefault = true
	case meta.Required != nil:
		required = *meta.Required
		if !required && typeInferred && resolved.Optional {
			desc.Default = nil
			desc.HasDefault = true
		}
	case typeInferred && resolved.Optional:
		// a pointer parameter is the optional-union analog: not required,
		// defaulting to the type's none value.
		required = false
		desc.Default = nil
		desc.HasDefault = true
	}
	desc.Optional = !required

	if err := meta.Validate(kind, desc.HasDefault); err != nil {
		return nil, nil, err
	}

	for _, raw := range meta.Converters {
		fn, err := WrapConverter(raw)
		if err != nil {
			return nil, nil, NewSignatureError(command, meta.Name, err.Error())
		}
		desc.Converters = append(desc.Converters, fn)
		desc.ConverterNames = append(desc.ConverterNames, reflect.TypeOf(raw).String())
	}
	desc.Union = len(desc.Converters) > 1

	if len(desc.Converters) == 0 && t != nil {
		elem := t
		if resolved.Elem != nil {
			elem = resolved.Elem
		}
		if implementsUnmarshaler(elem) {
			desc.Converters = []ConvertFunc{unmarshalerConverter(elem)}
			desc.ConverterNames = []string{elem.String()}
		}
	}

	return desc, meta.GenerateOption(kind, required), nil
}

// assembleSignature finalizes a compiled signature: it rejects duplicate
// option names and enforces the protocol's ordering invariant that required
// options precede optional ones. Ordering violations are reported, never
// silently reordered, so the displayed option order always matches binding
// order.
func assembleSignature(command string, descs []*ParameterDescriptor, opts []*discordgo.ApplicationCommandOption, hasExtras bool) (*CompiledSignature, error) {
	byName := make(map[string]*ParameterDescriptor, len(descs))

	seenOptional := false
	for i, desc := range descs {
		if _, ok := byName[desc.Name]; ok {
			return nil, NewSignatureError(command, desc.Name, "duplicate option name")
		}
		byName[desc.Name] = desc

		if desc.Optional {
			seenOptional = true
		} else if seenOptional {
			return nil, NewSignatureError(command, desc.Name, "required option after an optional one")
		}

		desc.Index = i
	}

	return &CompiledSignature{
		Options:   opts,
		params:    descs,
		byName:    byName,
		hasExtras: hasExtras,
	}, nil
}
