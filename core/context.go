package core

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Responder is the narrow response surface the dispatcher needs from the
// session. *discordgo.Session satisfies it; tests substitute a recorder.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Extras is the catch-all parameter type. A trailing handler parameter of this
// type receives every supplied argument that no declared option matched.
type Extras map[string]any

// Context carries one invocation: the interaction event, the session that
// received it, and the raw argument bag. It embeds context.Context so
// converters and autocomplete handlers can treat it as a plain context.
//
// A Context is built per event and never reused; command state shared between
// invocations belongs to the embedding application.
type Context struct {
	context.Context

	Session     *discordgo.Session
	Responder   Responder
	Interaction *discordgo.InteractionCreate
	Command     *Command

	kwargs    map[string]any
	responded bool
}

// NewContext builds an invocation context. The responder may be nil, in which
// case the session is used.
func NewContext(ctx context.Context, session *discordgo.Session, responder Responder, ic *discordgo.InteractionCreate) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if responder == nil && session != nil {
		responder = session
	}

	return &Context{
		Context:     ctx,
		Session:     session,
		Responder:   responder,
		Interaction: ic,
	}
}

// Kwargs returns the raw per-parameter argument bag for the invocation, keyed
// by option name, before conversion.
func (c *Context) Kwargs() map[string]any {
	return c.kwargs
}

// Arg returns one raw argument and whether it was supplied.
func (c *Context) Arg(name string) (any, bool) {
	v, ok := c.kwargs[name]
	return v, ok
}

// GuildID returns the guild the interaction happened in, if any.
func (c *Context) GuildID() string {
	if c.Interaction == nil {
		return ""
	}

	return c.Interaction.GuildID
}

// ChannelID returns the channel the interaction happened in.
func (c *Context) ChannelID() string {
	if c.Interaction == nil {
		return ""
	}

	return c.Interaction.ChannelID
}

// Caller returns the invoking user, resolving through the member payload when
// the interaction happened in a guild.
func (c *Context) Caller() *discordgo.User {
	if c.Interaction == nil {
		return nil
	}
	if c.Interaction.Member != nil {
		return c.Interaction.Member.User
	}

	return c.Interaction.User
}

// Respond sends a plain channel-message response.
func (c *Context) Respond(content string) error {
	return c.respond(content, 0)
}

// RespondEphemeral sends a response only the invoking user can see.
func (c *Context) RespondEphemeral(content string) error {
	return c.respond(content, discordgo.MessageFlagsEphemeral)
}

// Responded reports whether a response has been sent through this context.
func (c *Context) Responded() bool {
	return c.responded
}

func (c *Context) respond(content string, flags discordgo.MessageFlags) error {
	if c.Responder == nil || c.Interaction == nil {
		return nil
	}

	err := c.Responder.InteractionRespond(c.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags,
		},
	})
	if err == nil {
		c.responded = true
	}

	return err
}

// resolved returns the resolved-entity maps attached to the interaction.
func (c *Context) resolved() *discordgo.ApplicationCommandInteractionDataResolved {
	if c.Interaction == nil || c.Interaction.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := c.Interaction.ApplicationCommandData()
	return data.Resolved
}
