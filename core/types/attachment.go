package types

import "github.com/bwmarrin/discordgo"

// Attachment represents an uploaded file supplied as a command option value.
type Attachment struct {
	*discordgo.MessageAttachment
}

// NewAttachment wraps a discordgo message attachment.
func NewAttachment(a *discordgo.MessageAttachment) *Attachment {
	return &Attachment{MessageAttachment: a}
}
