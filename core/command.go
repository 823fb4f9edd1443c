package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/heraldbot/herald/core/options"
)

// Command name constraints imposed by the wire protocol.
var commandNameRe = regexp.MustCompile(`^[\w-]{1,32}$`)

// Command is one compiled, registerable command: a handler, its compiled
// signature, and its placement in the command tree. Top-level commands carry
// only Name; subcommands additionally carry SubName and, when nested one level
// deeper, GroupName.
//
// Commands are immutable once constructed and safe for concurrent invocation.
type Command struct {
	// Name is the top-level command name.
	Name string

	// Description describes the leaf the handler is attached to.
	Description string

	// BaseDescription describes the top-level command when the leaf is a
	// subcommand; for a top-level command it is unused.
	BaseDescription string

	// GroupName and GroupDescription place the leaf inside a subcommand
	// group. Setting a group requires SubName.
	GroupName        string
	GroupDescription string

	// SubName names the subcommand leaf; empty for a top-level command.
	SubName string

	// Scopes lists the guilds the command is registered to. Empty means
	// global registration.
	Scopes []string

	// Permissions, DMPermission and NSFW pass through to registration.
	Permissions  *int64
	DMPermission *bool
	NSFW         bool

	signature  *CompiledSignature
	fn         reflect.Value
	structType reflect.Type
}

// CommandOption configures a command at construction time.
type CommandOption func(*commandConfig)

type commandConfig struct {
	description       string
	baseDescription   string
	group             string
	groupDescription  string
	params            []*options.ParamInfo
	paramDescriptions map[string]string
	scopes            []string
	permissions       *int64
	dmPermission      *bool
	nsfw              bool
}

// WithParams supplies the per-parameter metadata, in parameter order. Function
// handlers require one entry per option parameter; struct handlers normally
// declare metadata via tags instead.
func WithParams(params ...*options.ParamInfo) CommandOption {
	return func(c *commandConfig) { c.params = params }
}

// WithDescription sets the command (or subcommand leaf) description.
func WithDescription(description string) CommandOption {
	return func(c *commandConfig) { c.description = description }
}

// WithBaseDescription sets the top-level description of a subcommand's parent.
func WithBaseDescription(description string) CommandOption {
	return func(c *commandConfig) { c.baseDescription = description }
}

// WithGroup nests a subcommand inside a named group.
func WithGroup(name, description string) CommandOption {
	return func(c *commandConfig) {
		c.group = name
		c.groupDescription = description
	}
}

// WithParamDescriptions attaches option descriptions by option name, separate
// from the parameter declarations. Descriptions given here win over ones
// declared inline.
func WithParamDescriptions(descriptions map[string]string) CommandOption {
	return func(c *commandConfig) { c.paramDescriptions = descriptions }
}

// WithScopes restricts registration to the given guilds.
func WithScopes(guildIDs ...string) CommandOption {
	return func(c *commandConfig) { c.scopes = guildIDs }
}

// WithPermissions sets the default member permissions required to see the
// command.
func WithPermissions(permissions int64) CommandOption {
	return func(c *commandConfig) { c.permissions = &permissions }
}

// WithDMPermission controls whether the command is available in DMs.
func WithDMPermission(allowed bool) CommandOption {
	return func(c *commandConfig) { c.dmPermission = &allowed }
}

// WithNSFW marks the command age-restricted.
func WithNSFW(nsfw bool) CommandOption {
	return func(c *commandConfig) { c.nsfw = nsfw }
}

// NewCommand compiles a top-level function command. The handler shape is
// documented on compileFunc; compilation failures abort construction, there is
// no partially built command.
func NewCommand(name string, handler any, opts ...CommandOption) (*Command, error) {
	return newCommand(name, "", handler, nil, opts)
}

// NewSubcommand compiles a function command mounted as base/name, or
// base/group/name when WithGroup is given.
func NewSubcommand(base, name string, handler any, opts ...CommandOption) (*Command, error) {
	return newCommand(base, name, handler, nil, opts)
}

// NewStructCommand compiles a struct command from its prototype. A fresh
// instance of the prototype's type is built per invocation; the prototype
// itself only donates its type and declared metadata.
func NewStructCommand(name string, prototype Runner, opts ...CommandOption) (*Command, error) {
	return newCommand(name, "", nil, prototype, opts)
}

// NewStructSubcommand compiles a struct command mounted as base/name.
func NewStructSubcommand(base, name string, prototype Runner, opts ...CommandOption) (*Command, error) {
	return newCommand(base, name, nil, prototype, opts)
}

func newCommand(base, sub string, handler any, prototype Runner, opts []CommandOption) (*Command, error) {
	cfg := commandConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	qualified := base
	if sub != "" {
		qualified = base + " " + sub
	}

	for _, name := range []string{base, sub, cfg.group} {
		if name == "" {
			continue
		}
		if !commandNameRe.MatchString(name) || name != strings.ToLower(name) {
			return nil, NewSignatureError(qualified, "", "command names must be lowercase, 1-32 chars of letters, digits, - or _")
		}
	}
	if cfg.group != "" && sub == "" {
		return nil, NewSignatureError(qualified, "", "a subcommand group needs a subcommand")
	}

	cmd := &Command{
		Name:             base,
		SubName:          sub,
		Description:      orDefault(cfg.description),
		BaseDescription:  orDefault(cfg.baseDescription),
		GroupName:        cfg.group,
		GroupDescription: orDefault(cfg.groupDescription),
		Scopes:           cfg.scopes,
		Permissions:      cfg.permissions,
		DMPermission:     cfg.dmPermission,
		NSFW:             cfg.nsfw,
	}

	var err error
	switch {
	case prototype != nil:
		if len(cfg.params) > 0 {
			return nil, NewSignatureError(qualified, "", "struct commands declare metadata via tags and DeclareParams, not WithParams")
		}
		cmd.signature, cmd.structType, err = compileStruct(qualified, prototype)
	default:
		cmd.signature, cmd.fn, err = compileFunc(qualified, handler, cfg.params)
	}
	if err != nil {
		return nil, err
	}

	for name, description := range cfg.paramDescriptions {
		if _, ok := cmd.signature.Lookup(name); !ok {
			return nil, NewSignatureError(qualified, name, "description attached to an unknown option")
		}
		for _, opt := range cmd.signature.Options {
			if opt.Name == name {
				opt.Description = description
			}
		}
	}

	return cmd, nil
}

func orDefault(description string) string {
	if description == "" {
		return options.DefaultDescription
	}

	return description
}

// Signature returns the compiled signature.
func (c *Command) Signature() *CompiledSignature {
	return c.signature
}

// Path returns the tree path of the command: one element for a top-level
// command, two or three for subcommands.
func (c *Command) Path() []string {
	switch {
	case c.SubName == "":
		return []string{c.Name}
	case c.GroupName == "":
		return []string{c.Name, c.SubName}
	default:
		return []string{c.Name, c.GroupName, c.SubName}
	}
}

// QualifiedName returns the space-joined tree path.
func (c *Command) QualifiedName() string {
	return strings.Join(c.Path(), " ")
}
