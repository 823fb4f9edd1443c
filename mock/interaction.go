// Package mock builds interaction events and records responses for tests,
// standing in for a live gateway session.
package mock

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// InteractionBuilder assembles a command interaction event the way the
// gateway would deliver it: snowflake-keyed resolved entities, float64
// numbers, and subcommand nesting in the option tree.
type InteractionBuilder struct {
	command   string
	path      []string
	guildID   string
	channelID string
	caller    *discordgo.User

	options  []*discordgo.ApplicationCommandInteractionDataOption
	resolved *discordgo.ApplicationCommandInteractionDataResolved
	focused  string
}

// NewInteraction starts an interaction for a top-level command name.
func NewInteraction(command string) *InteractionBuilder {
	return &InteractionBuilder{
		command:   command,
		channelID: uuid.NewString(),
		caller: &discordgo.User{
			ID:       uuid.NewString(),
			Username: "tester",
		},
	}
}

// Subcommand routes the interaction through a subcommand path under the base
// command, group name first when there is one.
func (b *InteractionBuilder) Subcommand(names ...string) *InteractionBuilder {
	b.path = names
	return b
}

// InGuild marks the interaction as guild-originated.
func (b *InteractionBuilder) InGuild(guildID string) *InteractionBuilder {
	b.guildID = guildID
	return b
}

// FromUser sets the invoking user.
func (b *InteractionBuilder) FromUser(u *discordgo.User) *InteractionBuilder {
	b.caller = u
	return b
}

// WithString supplies a string option.
func (b *InteractionBuilder) WithString(name, value string) *InteractionBuilder {
	return b.addOption(name, discordgo.ApplicationCommandOptionString, value)
}

// WithInt supplies an integer option. The value is carried as float64, the
// form JSON decoding delivers.
func (b *InteractionBuilder) WithInt(name string, value int64) *InteractionBuilder {
	return b.addOption(name, discordgo.ApplicationCommandOptionInteger, float64(value))
}

// WithBool supplies a boolean option.
func (b *InteractionBuilder) WithBool(name string, value bool) *InteractionBuilder {
	return b.addOption(name, discordgo.ApplicationCommandOptionBoolean, value)
}

// WithNumber supplies a floating-point option.
func (b *InteractionBuilder) WithNumber(name string, value float64) *InteractionBuilder {
	return b.addOption(name, discordgo.ApplicationCommandOptionNumber, value)
}

// WithUser supplies a user option and its resolved payload.
func (b *InteractionBuilder) WithUser(name string, user *discordgo.User) *InteractionBuilder {
	b.ensureResolved().Users[user.ID] = user
	return b.addOption(name, discordgo.ApplicationCommandOptionUser, user.ID)
}

// WithMember supplies a user option resolved to a guild member.
func (b *InteractionBuilder) WithMember(name string, user *discordgo.User, member *discordgo.Member) *InteractionBuilder {
	resolved := b.ensureResolved()
	resolved.Users[user.ID] = user
	resolved.Members[user.ID] = member
	return b.addOption(name, discordgo.ApplicationCommandOptionUser, user.ID)
}

// WithRole supplies a role option and its resolved payload.
func (b *InteractionBuilder) WithRole(name string, role *discordgo.Role) *InteractionBuilder {
	b.ensureResolved().Roles[role.ID] = role
	return b.addOption(name, discordgo.ApplicationCommandOptionRole, role.ID)
}

// WithChannel supplies a channel option and its resolved payload.
func (b *InteractionBuilder) WithChannel(name string, channel *discordgo.Channel) *InteractionBuilder {
	b.ensureResolved().Channels[channel.ID] = channel
	return b.addOption(name, discordgo.ApplicationCommandOptionChannel, channel.ID)
}

// WithAttachment supplies an attachment option and its resolved payload.
func (b *InteractionBuilder) WithAttachment(name string, attachment *discordgo.MessageAttachment) *InteractionBuilder {
	b.ensureResolved().Attachments[attachment.ID] = attachment
	return b.addOption(name, discordgo.ApplicationCommandOptionAttachment, attachment.ID)
}

// WithMentionableUser supplies a mentionable option resolved to a user.
func (b *InteractionBuilder) WithMentionableUser(name string, user *discordgo.User) *InteractionBuilder {
	b.ensureResolved().Users[user.ID] = user
	return b.addOption(name, discordgo.ApplicationCommandOptionMentionable, user.ID)
}

// WithMentionableRole supplies a mentionable option resolved to a role.
func (b *InteractionBuilder) WithMentionableRole(name string, role *discordgo.Role) *InteractionBuilder {
	b.ensureResolved().Roles[role.ID] = role
	return b.addOption(name, discordgo.ApplicationCommandOptionMentionable, role.ID)
}

// Focused marks one string option as the autocomplete focus; Build then emits
// an autocomplete interaction instead of a command invocation.
func (b *InteractionBuilder) Focused(name, partial string) *InteractionBuilder {
	b.addOption(name, discordgo.ApplicationCommandOptionString, partial)
	b.focused = name
	return b
}

// Build assembles the event.
func (b *InteractionBuilder) Build() *discordgo.InteractionCreate {
	opts := b.options
	if b.focused != "" {
		for _, opt := range opts {
			if opt.Name == b.focused {
				opt.Focused = true
			}
		}
	}

	// Nest under the subcommand path, innermost first.
	for i := len(b.path) - 1; i >= 0; i-- {
		kind := discordgo.ApplicationCommandOptionSubCommand
		if i < len(b.path)-1 {
			kind = discordgo.ApplicationCommandOptionSubCommandGroup
		}
		opts = []*discordgo.ApplicationCommandInteractionDataOption{{
			Name:    b.path[i],
			Type:    kind,
			Options: opts,
		}}
	}

	interactionType := discordgo.InteractionApplicationCommand
	if b.focused != "" {
		interactionType = discordgo.InteractionApplicationCommandAutocomplete
	}

	interaction := &discordgo.Interaction{
		ID:        uuid.NewString(),
		AppID:     uuid.NewString(),
		Type:      interactionType,
		GuildID:   b.guildID,
		ChannelID: b.channelID,
		Data: discordgo.ApplicationCommandInteractionData{
			ID:       uuid.NewString(),
			Name:     b.command,
			Options:  opts,
			Resolved: b.resolved,
		},
	}

	if b.guildID != "" {
		interaction.Member = &discordgo.Member{User: b.caller, GuildID: b.guildID}
	} else {
		interaction.User = b.caller
	}

	return &discordgo.InteractionCreate{Interaction: interaction}
}

func (b *InteractionBuilder) addOption(name string, kind discordgo.ApplicationCommandOptionType, value any) *InteractionBuilder {
	b.options = append(b.options, &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  kind,
		Value: value,
	})

	return b
}

func (b *InteractionBuilder) ensureResolved() *discordgo.ApplicationCommandInteractionDataResolved {
	if b.resolved == nil {
		b.resolved = &discordgo.ApplicationCommandInteractionDataResolved{
			Users:       map[string]*discordgo.User{},
			Members:     map[string]*discordgo.Member{},
			Roles:       map[string]*discordgo.Role{},
			Channels:    map[string]*discordgo.Channel{},
			Attachments: map[string]*discordgo.MessageAttachment{},
		}
	}

	return b.resolved
}

// Snowflake returns a deterministic-looking numeric ID for tests that care
// about the shape of snowflakes rather than uniqueness.
func Snowflake(n int) string {
	return strconv.Itoa(100000000000000000 + n)
}
