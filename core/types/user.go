package types

import "github.com/bwmarrin/discordgo"

// User represents a platform user supplied as a command option value.
type User struct {
	*discordgo.User
}

// NewUser wraps a discordgo user.
func NewUser(u *discordgo.User) *User {
	return &User{User: u}
}

// Member represents a guild-scoped user supplied as a command option value.
// The embedded member payload may lack the inner user when the interaction
// happened outside a guild; DisplayUser falls back accordingly.
type Member struct {
	*discordgo.Member

	GuildID string
}

// NewMember wraps a discordgo member.
func NewMember(m *discordgo.Member, guildID string) *Member {
	return &Member{Member: m, GuildID: guildID}
}

// DisplayUser returns the user payload carried by the member, if any.
func (m *Member) DisplayUser() *discordgo.User {
	if m == nil || m.Member == nil {
		return nil
	}

	return m.Member.User
}
