package options

import (
	"context"
	"math"

	"github.com/bwmarrin/discordgo"
	"github.com/heraldbot/herald/core/types"
)

// DefaultDescription is used when a parameter or command declares none. The
// wire protocol rejects empty descriptions.
const DefaultDescription = "No description set"

// Choice is one fixed value a parameter may offer to the caller.
type Choice struct {
	Name  string
	Value any
}

// AutocompleteFunc produces choice suggestions for a partially typed value.
// The context passed at invocation time is the command invocation context.
type AutocompleteFunc func(ctx context.Context, focused any) ([]Choice, error)

// ParamInfo is the explicit per-parameter metadata callers supply to override
// or extend what the signature compiler infers from the declared type. A zero
// ParamInfo (plus a name) is valid: kind, optionality and conversion all come
// from the parameter's type.
//
// ParamInfo is read once at declaration time. The compiler never mutates the
// caller's copy; derived values live in the compiled descriptor.
type ParamInfo struct {
	// Name is the wire option name. Required for function-based commands,
	// optional for struct fields (the field name is the fallback).
	Name string

	// Description is the human description shown by the client.
	Description string

	// Type pins the option kind explicitly. When set, the resolver is not
	// consulted for this parameter.
	Type Kind

	// Converters is the ordered list of fallible converters applied to the
	// raw value at invocation time. The first converter that succeeds wins;
	// exhausting the list is a conversion failure. Each entry must be a
	// supported converter shape (see core.WrapConverter).
	Converters []any

	// Default is substituted when the caller omits the option. Setting a
	// default makes the option optional.
	Default any

	// Required pins the required flag explicitly. When nil it is derived
	// from Default and the declared type's optionality.
	Required *bool

	// Autocomplete, when set, marks the option autocompleted and handles
	// suggestion requests.
	Autocomplete AutocompleteFunc

	// Choices restricts the value to a fixed set.
	Choices []Choice

	// ChannelKinds filters acceptable channels. Only legal for KindChannel.
	ChannelKinds []types.ChannelKind

	// MinValue and MaxValue bound numeric options.
	MinValue *float64
	MaxValue *float64

	// MinLength and MaxLength bound string options.
	MinLength *int
	MaxLength *int
}

// Param is a convenience constructor for name-only metadata.
func Param(name string) *ParamInfo {
	return &ParamInfo{Name: name}
}

// Describe is a convenience constructor for name-plus-description metadata.
func Describe(name, description string) *ParamInfo {
	return &ParamInfo{Name: name, Description: description}
}

// FloatPtr returns a pointer to v, for the numeric bound fields.
func FloatPtr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v, for the length bound fields.
func IntPtr(v int) *int { return &v }

// BoolPtr returns a pointer to v, for the Required field.
func BoolPtr(v bool) *bool { return &v }

// Validate cross-checks the metadata against the effective option kind.
// hasDefault covers defaults derived from the declared type, not only the
// Default field. All violations wrap ErrInvalidConstraint.
func (p *ParamInfo) Validate(kind Kind, hasDefault bool) error {
	if p.Type == KindSubCommand || p.Type == KindSubCommandGroup {
		return NewConstraintError(p.Name, "type", "options cannot be subcommands; use the command tree")
	}

	if p.Required != nil && !*p.Required && !hasDefault {
		return NewConstraintError(p.Name, "required", "an optional option needs a default")
	}

	if len(p.ChannelKinds) > 0 && kind != KindChannel {
		return NewConstraintError(p.Name, "channel_kinds", "channel filters need a channel option")
	}

	if err := p.validateNumericBounds(kind); err != nil {
		return err
	}

	return p.validateLengthBounds(kind)
}

func (p *ParamInfo) validateNumericBounds(kind Kind) error {
	if p.MinValue == nil && p.MaxValue == nil {
		return nil
	}

	if !kind.Numeric() {
		return NewConstraintError(p.Name, "min_value", "numeric bounds need an integer or number option")
	}

	if kind == KindInteger {
		if p.MinValue != nil && math.Trunc(*p.MinValue) != *p.MinValue {
			return NewConstraintError(p.Name, "min_value", "integer bounds must be whole numbers")
		}
		if p.MaxValue != nil && math.Trunc(*p.MaxValue) != *p.MaxValue {
			return NewConstraintError(p.Name, "max_value", "integer bounds must be whole numbers")
		}
	}

	if p.MinValue != nil && p.MaxValue != nil && *p.MinValue > *p.MaxValue {
		return NewConstraintError(p.Name, "min_value", "min_value must be <= max_value")
	}

	return nil
}

func (p *ParamInfo) validateLengthBounds(kind Kind) error {
	if p.MinLength == nil && p.MaxLength == nil {
		return nil
	}

	if kind != KindString {
		return NewConstraintError(p.Name, "min_length", "length bounds need a string option")
	}

	if p.MinLength != nil && *p.MinLength < 0 {
		return NewConstraintError(p.Name, "min_length", "min_length cannot be negative")
	}

	if p.MinLength != nil && p.MaxLength != nil && *p.MinLength > *p.MaxLength {
		return NewConstraintError(p.Name, "min_length", "min_length must be <= max_length")
	}

	return nil
}

// GenerateOption emits the framework option descriptor for the parameter.
// The kind and required flag are the compiled values, which may differ from
// the raw metadata when derived from the declared type.
func (p *ParamInfo) GenerateOption(kind Kind, required bool) *discordgo.ApplicationCommandOption {
	description := p.Description
	if description == "" {
		description = DefaultDescription
	}

	opt := &discordgo.ApplicationCommandOption{
		Type:         kind.Discord(),
		Name:         p.Name,
		Description:  description,
		Required:     required,
		Autocomplete: p.Autocomplete != nil,
		MinValue:     p.MinValue,
		MinLength:    p.MinLength,
	}

	if p.MaxValue != nil {
		opt.MaxValue = *p.MaxValue
	}
	if p.MaxLength != nil {
		opt.MaxLength = *p.MaxLength
	}

	for _, choice := range p.Choices {
		opt.Choices = append(opt.Choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  choice.Name,
			Value: choice.Value,
		})
	}

	for _, kind := range p.ChannelKinds {
		opt.ChannelTypes = append(opt.ChannelTypes, kind.Discord())
	}

	return opt
}
