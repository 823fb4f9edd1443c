package types

import "github.com/bwmarrin/discordgo"

// ChannelKind identifies a concrete channel variety usable in a channel-kind filter.
type ChannelKind int

// Channel varieties supported by the option compiler.
const (
	ChannelKindText ChannelKind = iota
	ChannelKindDM
	ChannelKindVoice
	ChannelKindCategory
	ChannelKindNews
	ChannelKindNewsThread
	ChannelKindPublicThread
	ChannelKindPrivateThread
	ChannelKindStage
	ChannelKindForum
)

var channelKindMapping = map[ChannelKind]discordgo.ChannelType{
	ChannelKindText:          discordgo.ChannelTypeGuildText,
	ChannelKindDM:            discordgo.ChannelTypeDM,
	ChannelKindVoice:         discordgo.ChannelTypeGuildVoice,
	ChannelKindCategory:      discordgo.ChannelTypeGuildCategory,
	ChannelKindNews:          discordgo.ChannelTypeGuildNews,
	ChannelKindNewsThread:    discordgo.ChannelTypeGuildNewsThread,
	ChannelKindPublicThread:  discordgo.ChannelTypeGuildPublicThread,
	ChannelKindPrivateThread: discordgo.ChannelTypeGuildPrivateThread,
	ChannelKindStage:         discordgo.ChannelTypeGuildStageVoice,
	ChannelKindForum:         discordgo.ChannelTypeGuildForum,
}

// reverseChannelMapping mirrors channelKindMapping for decoding incoming payloads.
var reverseChannelMapping = func() map[discordgo.ChannelType]ChannelKind {
	m := make(map[discordgo.ChannelType]ChannelKind, len(channelKindMapping))
	for kind, t := range channelKindMapping {
		m[t] = kind
	}

	return m
}()

// Discord returns the wire channel type for the kind.
func (k ChannelKind) Discord() discordgo.ChannelType {
	return channelKindMapping[k]
}

// String returns a short human-readable name for the kind.
func (k ChannelKind) String() string {
	switch k {
	case ChannelKindText:
		return "text"
	case ChannelKindDM:
		return "dm"
	case ChannelKindVoice:
		return "voice"
	case ChannelKindCategory:
		return "category"
	case ChannelKindNews:
		return "news"
	case ChannelKindNewsThread:
		return "news-thread"
	case ChannelKindPublicThread:
		return "public-thread"
	case ChannelKindPrivateThread:
		return "private-thread"
	case ChannelKindStage:
		return "stage"
	case ChannelKindForum:
		return "forum"
	default:
		return "unknown"
	}
}

// KindOfChannel maps a wire channel type back onto a ChannelKind.
func KindOfChannel(t discordgo.ChannelType) (ChannelKind, bool) {
	kind, ok := reverseChannelMapping[t]
	return kind, ok
}

// ParseChannelKind maps a short kind name (the tag-grammar form) onto a ChannelKind.
func ParseChannelKind(name string) (ChannelKind, bool) {
	for kind := range channelKindMapping {
		if kind.String() == name {
			return kind, true
		}
	}

	return 0, false
}

// Channel is implemented by every concrete channel value type. Declaring a
// parameter with the interface itself accepts any channel; declaring it with a
// concrete type narrows the compiled option with a channel-kind filter.
type Channel interface {
	ChannelData() *discordgo.Channel
	Kind() ChannelKind
}

// TextChannel is a guild text channel.
type TextChannel struct{ *discordgo.Channel }

// DMChannel is a direct-message channel.
type DMChannel struct{ *discordgo.Channel }

// VoiceChannel is a guild voice channel.
type VoiceChannel struct{ *discordgo.Channel }

// CategoryChannel is a guild category.
type CategoryChannel struct{ *discordgo.Channel }

// NewsChannel is a guild announcement channel.
type NewsChannel struct{ *discordgo.Channel }

// ThreadChannel is any thread variety; its kind reflects the parent type.
type ThreadChannel struct{ *discordgo.Channel }

// StageChannel is a guild stage channel.
type StageChannel struct{ *discordgo.Channel }

// ForumChannel is a guild forum channel.
type ForumChannel struct{ *discordgo.Channel }

func (c TextChannel) ChannelData() *discordgo.Channel     { return c.Channel }
func (c DMChannel) ChannelData() *discordgo.Channel       { return c.Channel }
func (c VoiceChannel) ChannelData() *discordgo.Channel    { return c.Channel }
func (c CategoryChannel) ChannelData() *discordgo.Channel { return c.Channel }
func (c NewsChannel) ChannelData() *discordgo.Channel     { return c.Channel }
func (c ThreadChannel) ChannelData() *discordgo.Channel   { return c.Channel }
func (c StageChannel) ChannelData() *discordgo.Channel    { return c.Channel }
func (c ForumChannel) ChannelData() *discordgo.Channel    { return c.Channel }

func (c TextChannel) Kind() ChannelKind     { return ChannelKindText }
func (c DMChannel) Kind() ChannelKind       { return ChannelKindDM }
func (c VoiceChannel) Kind() ChannelKind    { return ChannelKindVoice }
func (c CategoryChannel) Kind() ChannelKind { return ChannelKindCategory }
func (c NewsChannel) Kind() ChannelKind     { return ChannelKindNews }
func (c StageChannel) Kind() ChannelKind    { return ChannelKindStage }
func (c ForumChannel) Kind() ChannelKind    { return ChannelKindForum }

func (c ThreadChannel) Kind() ChannelKind {
	if c.Channel != nil {
		if kind, ok := KindOfChannel(c.Channel.Type); ok {
			return kind
		}
	}

	return ChannelKindPublicThread
}

// WrapChannel wraps a raw channel payload in the concrete value type matching
// its wire channel type.
func WrapChannel(ch *discordgo.Channel) Channel {
	if ch == nil {
		return nil
	}

	switch ch.Type {
	case discordgo.ChannelTypeDM, discordgo.ChannelTypeGroupDM:
		return DMChannel{ch}
	case discordgo.ChannelTypeGuildVoice:
		return VoiceChannel{ch}
	case discordgo.ChannelTypeGuildCategory:
		return CategoryChannel{ch}
	case discordgo.ChannelTypeGuildNews:
		return NewsChannel{ch}
	case discordgo.ChannelTypeGuildNewsThread,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread:
		return ThreadChannel{ch}
	case discordgo.ChannelTypeGuildStageVoice:
		return StageChannel{ch}
	case discordgo.ChannelTypeGuildForum:
		return ForumChannel{ch}
	default:
		return TextChannel{ch}
	}
}
