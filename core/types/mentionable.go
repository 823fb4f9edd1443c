package types

// Mentionable represents the user-or-role union option value. Exactly one of
// the entity fields is set after decoding.
type Mentionable struct {
	User   *User
	Member *Member
	Role   *Role
}

// IsUser reports whether the mentionable resolved to a user or member.
func (m Mentionable) IsUser() bool {
	return m.User != nil || m.Member != nil
}

// IsRole reports whether the mentionable resolved to a role.
func (m Mentionable) IsRole() bool {
	return m.Role != nil
}

// ID returns the snowflake of whichever entity the mentionable holds.
func (m Mentionable) ID() string {
	switch {
	case m.User != nil:
		return m.User.User.ID
	case m.Member != nil && m.Member.DisplayUser() != nil:
		return m.Member.DisplayUser().ID
	case m.Role != nil:
		return m.Role.Role.ID
	default:
		return ""
	}
}
