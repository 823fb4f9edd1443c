package options

import "github.com/bwmarrin/discordgo"

// Kind is the closed enumeration of primitive value categories a command
// parameter can declare. Values match the wire protocol's option types, so the
// zero value is reserved to mean "not set".
type Kind int

// Option kinds. SubCommand and SubCommandGroup exist on the wire but are owned
// by the command tree; ParamInfo validation rejects them.
const (
	KindSubCommand Kind = iota + 1
	KindSubCommandGroup
	KindString
	KindInteger
	KindBoolean
	KindUser
	KindChannel
	KindRole
	KindMentionable
	KindNumber
	KindAttachment
)

// Discord returns the wire option type for the kind.
func (k Kind) Discord() discordgo.ApplicationCommandOptionType {
	return discordgo.ApplicationCommandOptionType(k)
}

// Numeric reports whether the kind accepts numeric range constraints.
func (k Kind) Numeric() bool {
	return k == KindInteger || k == KindNumber
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSubCommand:
		return "subcommand"
	case KindSubCommandGroup:
		return "subcommand-group"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindUser:
		return "user"
	case KindChannel:
		return "channel"
	case KindRole:
		return "role"
	case KindMentionable:
		return "mentionable"
	case KindNumber:
		return "number"
	case KindAttachment:
		return "attachment"
	default:
		return "unset"
	}
}
