package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/heraldbot/herald/core/logger"
	"github.com/heraldbot/herald/core/telemetry"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// commandNode is one level of the registered command tree. A node is either a
// leaf carrying a command or an inner node carrying children, never both.
type commandNode struct {
	command  *Command
	children map[string]*commandNode
}

// Dispatcher routes incoming interactions to registered commands. Registration
// happens at startup; routing is read-only afterward and safe for the event
// loop's concurrency.
type Dispatcher struct {
	mu    sync.RWMutex
	roots map[string]*commandNode

	tracing *telemetry.TracingHandler
	log     *logrus.Logger

	// responder overrides the session as the response surface when set.
	responder Responder

	// onError receives errors no command-level hook consumed.
	onError func(ctx *Context, err error)
}

// DispatcherOption configures a dispatcher.
type DispatcherOption func(*Dispatcher)

// WithErrorHook installs a fallback handler for invocation errors that no
// command consumed itself.
func WithErrorHook(fn func(ctx *Context, err error)) DispatcherOption {
	return func(d *Dispatcher) { d.onError = fn }
}

// WithResponder routes responses through r instead of the session.
func WithResponder(r Responder) DispatcherOption {
	return func(d *Dispatcher) { d.responder = r }
}

// NewDispatcher builds an empty dispatcher.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		roots:   make(map[string]*commandNode),
		tracing: telemetry.NewTracingHandler("herald/dispatcher"),
		log:     logger.Logger(),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Register adds commands to the tree. A path collision, leaf or inner, fails
// with ErrCommandAlreadyDefined and leaves no partial registration behind for
// the colliding command.
func (d *Dispatcher) Register(cmds ...*Command) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, cmd := range cmds {
		if err := d.register(cmd); err != nil {
			return err
		}

		d.log.WithField("command", cmd.QualifiedName()).
			WithField("options", len(cmd.Signature().Options)).
			Debug("registered command")
	}

	return nil
}

func (d *Dispatcher) register(cmd *Command) error {
	path := cmd.Path()

	node, ok := d.roots[path[0]]
	if !ok {
		node = &commandNode{}
		d.roots[path[0]] = node
	}

	for _, name := range path[1:] {
		if node.command != nil {
			return fmt.Errorf("%w: '%s'", ErrCommandAlreadyDefined, cmd.QualifiedName())
		}
		if node.children == nil {
			node.children = make(map[string]*commandNode)
		}

		child, ok := node.children[name]
		if !ok {
			child = &commandNode{}
			node.children[name] = child
		}
		node = child
	}

	if node.command != nil || len(node.children) > 0 {
		return fmt.Errorf("%w: '%s'", ErrCommandAlreadyDefined, cmd.QualifiedName())
	}
	node.command = cmd

	return nil
}

// Lookup returns the command at a tree path.
func (d *Dispatcher) Lookup(path ...string) (*Command, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(path) == 0 {
		return nil, false
	}

	node, ok := d.roots[path[0]]
	for _, name := range path[1:] {
		if !ok {
			return nil, false
		}
		node, ok = node.children[name]
	}
	if !ok || node.command == nil {
		return nil, false
	}

	return node.command, true
}

// Commands returns every registered command.
func (d *Dispatcher) Commands() []*Command {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var cmds []*Command
	for _, root := range d.roots {
		collectCommands(root, &cmds)
	}

	return cmds
}

func collectCommands(node *commandNode, out *[]*Command) {
	if node.command != nil {
		*out = append(*out, node.command)
	}
	for _, child := range node.children {
		collectCommands(child, out)
	}
}

// Handler returns the closure to attach to the session's event stream.
func (d *Dispatcher) Handler() func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if err := d.HandleInteraction(context.Background(), s, ic); err != nil {
			d.log.WithError(err).Error("handling interaction")
		}
	}
}

// HandleInteraction routes one interaction event. Command invocations and
// autocomplete requests are handled; other interaction types are ignored.
//
// Conversion failures and missing arguments answer the caller with an
// ephemeral message and are not returned as errors; they are the remote
// caller's mistake, not the process's.
func (d *Dispatcher) HandleInteraction(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) error {
	switch ic.Type {
	case discordgo.InteractionApplicationCommand:
		return d.handleCommand(ctx, s, ic)
	case discordgo.InteractionApplicationCommandAutocomplete:
		return d.handleAutocomplete(ctx, s, ic)
	default:
		return nil
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) error {
	cmd, opts, err := d.route(ic)
	if err != nil {
		return err
	}

	spanCtx, span := d.tracing.StartNewSpan(ctx, cmd.QualifiedName(), trace.WithAttributes(
		telemetry.InteractionType(telemetry.InteractionCommand),
		telemetry.CommandName(cmd.QualifiedName()),
		telemetry.GuildID(ic.GuildID),
	))
	defer span.End()

	cctx := NewContext(spanCtx, s, d.responder, ic)
	raw := decodeOptions(cctx, opts)

	invokeErr := cmd.Invoke(cctx, raw)
	switch {
	case invokeErr == nil:
		return nil
	case errors.Is(invokeErr, ErrBadArgument) || errors.Is(invokeErr, ErrMissingArgument):
		span.SetStatus(codes.Error, invokeErr.Error())
		d.log.WithError(invokeErr).WithField("command", cmd.QualifiedName()).Debug("rejected arguments")
		return cctx.RespondEphemeral(invokeErr.Error())
	default:
		span.SetStatus(codes.Error, invokeErr.Error())
		if d.onError != nil {
			d.onError(cctx, invokeErr)
			return nil
		}
		return fmt.Errorf("command '%s': %w", cmd.QualifiedName(), invokeErr)
	}
}

func (d *Dispatcher) handleAutocomplete(ctx context.Context, s *discordgo.Session, ic *discordgo.InteractionCreate) error {
	cmd, opts, err := d.route(ic)
	if err != nil {
		return err
	}

	spanCtx, span := d.tracing.StartNewSpan(ctx, cmd.QualifiedName(), trace.WithAttributes(
		telemetry.InteractionType(telemetry.InteractionAutocomplete),
		telemetry.CommandName(cmd.QualifiedName()),
	))
	defer span.End()

	var focused *discordgo.ApplicationCommandInteractionDataOption
	for _, opt := range opts {
		if opt.Focused {
			focused = opt
			break
		}
	}
	if focused == nil {
		return nil
	}

	desc, ok := cmd.Signature().Lookup(focused.Name)
	if !ok || desc.Autocomplete == nil {
		return nil
	}

	cctx := NewContext(spanCtx, s, d.responder, ic)
	choices, err := desc.Autocomplete(cctx, focused.Value)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("autocomplete '%s' '%s': %w", cmd.QualifiedName(), desc.Name, err)
	}

	wire := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(choices))
	for _, choice := range choices {
		wire = append(wire, &discordgo.ApplicationCommandOptionChoice{
			Name:  choice.Name,
			Value: choice.Value,
		})
	}

	if cctx.Responder == nil {
		return nil
	}

	return cctx.Responder.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: wire},
	})
}

// route walks the interaction's command path to the registered leaf and
// returns the argument options under it.
func (d *Dispatcher) route(ic *discordgo.InteractionCreate) (*Command, []*discordgo.ApplicationCommandInteractionDataOption, error) {
	data := ic.ApplicationCommandData()

	d.mu.RLock()
	defer d.mu.RUnlock()

	node, ok := d.roots[data.Name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: '%s'", ErrUnknownCommand, data.Name)
	}

	opts := data.Options
	path := data.Name
	for node.command == nil {
		if len(opts) != 1 || !isSubEntry(opts[0]) {
			return nil, nil, fmt.Errorf("%w: '%s'", ErrUnknownCommand, path)
		}

		entry := opts[0]
		node, ok = node.children[entry.Name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: '%s %s'", ErrUnknownCommand, path, entry.Name)
		}

		path += " " + entry.Name
		opts = entry.Options
	}

	return node.command, opts, nil
}

func isSubEntry(opt *discordgo.ApplicationCommandInteractionDataOption) bool {
	return opt.Type == discordgo.ApplicationCommandOptionSubCommand ||
		opt.Type == discordgo.ApplicationCommandOptionSubCommandGroup
}
