package mock

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Responder records every interaction response sent through it.
type Responder struct {
	mu        sync.Mutex
	responses []*discordgo.InteractionResponse
}

// InteractionRespond records the response and reports success.
func (r *Responder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.responses = append(r.responses, resp)
	return nil
}

// Responses returns everything recorded so far.
func (r *Responder) Responses() []*discordgo.InteractionResponse {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*discordgo.InteractionResponse(nil), r.responses...)
}

// Last returns the most recent response, or nil.
func (r *Responder) Last() *discordgo.InteractionResponse {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.responses) == 0 {
		return nil
	}

	return r.responses[len(r.responses)-1]
}

// LastContent returns the content of the most recent response.
func (r *Responder) LastContent() string {
	last := r.Last()
	if last == nil || last.Data == nil {
		return ""
	}

	return last.Data.Content
}

// LastEphemeral reports whether the most recent response was ephemeral.
func (r *Responder) LastEphemeral() bool {
	last := r.Last()
	if last == nil || last.Data == nil {
		return false
	}

	return last.Data.Flags&discordgo.MessageFlagsEphemeral != 0
}

// Syncer records bulk command overwrites, keyed by guild scope.
type Syncer struct {
	mu         sync.Mutex
	Overwrites map[string][]*discordgo.ApplicationCommand
}

// ApplicationCommandBulkOverwrite records the overwrite and echoes the
// commands back.
func (s *Syncer) ApplicationCommandBulkOverwrite(_, guildID string, commands []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Overwrites == nil {
		s.Overwrites = make(map[string][]*discordgo.ApplicationCommand)
	}
	s.Overwrites[guildID] = commands

	return commands, nil
}
