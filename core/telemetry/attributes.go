package telemetry

import "go.opentelemetry.io/otel/attribute"

// InteractionTypeNum classifies the interaction a span covers.
type InteractionTypeNum int

const (
	InteractionUnknown InteractionTypeNum = iota
	InteractionCommand
	InteractionAutocomplete
)

func (t InteractionTypeNum) String() string {
	switch t {
	case InteractionCommand:
		return "command"
	case InteractionAutocomplete:
		return "autocomplete"
	case InteractionUnknown:
		fallthrough
	default:
		return "unknown"
	}
}

// InteractionType returns the span attribute for the interaction class.
func InteractionType(t InteractionTypeNum) attribute.KeyValue {
	return attribute.String("interaction_type", t.String())
}

// CommandName returns the span attribute naming the invoked command path.
func CommandName(qualified string) attribute.KeyValue {
	return attribute.String("command_name", qualified)
}

// GuildID returns the span attribute for the originating guild.
func GuildID(id string) attribute.KeyValue {
	return attribute.String("guild_id", id)
}
