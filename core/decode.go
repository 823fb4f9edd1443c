package core

import (
	"github.com/bwmarrin/discordgo"
	"github.com/heraldbot/herald/core/types"
)

// decodeOptions turns the wire options of one invocation into the raw
// argument bag, resolving entity snowflakes through the interaction's
// resolved-data maps. Values stay as close to the wire as possible; the
// converter chain and type coercion happen later, during binding.
func decodeOptions(ctx *Context, opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]any {
	raw := make(map[string]any, len(opts))
	for _, opt := range opts {
		raw[opt.Name] = decodeOption(ctx, opt)
	}

	return raw
}

func decodeOption(ctx *Context, opt *discordgo.ApplicationCommandInteractionDataOption) any {
	switch opt.Type {
	case discordgo.ApplicationCommandOptionInteger:
		// JSON numbers arrive as float64 regardless of the wire kind.
		if f, ok := opt.Value.(float64); ok {
			return int64(f)
		}
		return opt.Value
	case discordgo.ApplicationCommandOptionUser:
		return decodeUser(ctx, snowflake(opt.Value))
	case discordgo.ApplicationCommandOptionRole:
		return decodeRole(ctx, snowflake(opt.Value))
	case discordgo.ApplicationCommandOptionChannel:
		return decodeChannel(ctx, snowflake(opt.Value))
	case discordgo.ApplicationCommandOptionAttachment:
		return decodeAttachment(ctx, snowflake(opt.Value))
	case discordgo.ApplicationCommandOptionMentionable:
		return decodeMentionable(ctx, snowflake(opt.Value))
	default:
		return opt.Value
	}
}

func snowflake(v any) string {
	s, _ := v.(string)
	return s
}

// decodeUser prefers the member payload when the interaction resolved one, so
// guild-scoped commands see guild state; the member/user overlap is bridged at
// coercion time for user-typed parameters.
func decodeUser(ctx *Context, id string) any {
	resolved := ctx.resolved()
	if resolved == nil {
		return nil
	}

	if member, ok := resolved.Members[id]; ok && member != nil {
		if member.User == nil {
			member.User = resolved.Users[id]
		}
		return types.NewMember(member, ctx.GuildID())
	}

	if user, ok := resolved.Users[id]; ok && user != nil {
		return types.NewUser(user)
	}

	return nil
}

func decodeRole(ctx *Context, id string) any {
	resolved := ctx.resolved()
	if resolved == nil {
		return nil
	}

	if role, ok := resolved.Roles[id]; ok && role != nil {
		return types.NewRole(role)
	}

	return nil
}

func decodeChannel(ctx *Context, id string) any {
	resolved := ctx.resolved()
	if resolved == nil {
		return nil
	}

	if channel, ok := resolved.Channels[id]; ok && channel != nil {
		return types.WrapChannel(channel)
	}

	return nil
}

func decodeAttachment(ctx *Context, id string) any {
	resolved := ctx.resolved()
	if resolved == nil {
		return nil
	}

	if attachment, ok := resolved.Attachments[id]; ok && attachment != nil {
		return types.NewAttachment(attachment)
	}

	return nil
}

func decodeMentionable(ctx *Context, id string) any {
	resolved := ctx.resolved()
	if resolved == nil {
		return nil
	}

	m := types.Mentionable{}
	if user, ok := resolved.Users[id]; ok && user != nil {
		m.User = types.NewUser(user)
	}
	if member, ok := resolved.Members[id]; ok && member != nil {
		if member.User == nil {
			member.User = resolved.Users[id]
		}
		m.Member = types.NewMember(member, ctx.GuildID())
	}
	if role, ok := resolved.Roles[id]; ok && role != nil {
		m.Role = types.NewRole(role)
	}

	return m
}
