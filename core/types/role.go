package types

import "github.com/bwmarrin/discordgo"

// Role represents a guild role supplied as a command option value.
type Role struct {
	*discordgo.Role
}

// NewRole wraps a discordgo role.
func NewRole(r *discordgo.Role) *Role {
	return &Role{Role: r}
}
