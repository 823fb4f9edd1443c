package core

import (
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
	"github.com/heraldbot/herald/core/options"
)

// Syncer is the registration surface of the session. *discordgo.Session
// satisfies it.
type Syncer interface {
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, opts ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// BuildCommands assembles the registered tree into wire command payloads,
// keyed by scope: the empty key holds globally registered commands, other keys
// hold per-guild sets. Subcommand leaves nest under their base command as
// subcommand and subcommand-group options.
func (d *Dispatcher) BuildCommands() map[string][]*discordgo.ApplicationCommand {
	byScope := make(map[string][]*Command)
	for _, cmd := range d.Commands() {
		if len(cmd.Scopes) == 0 {
			byScope[""] = append(byScope[""], cmd)
			continue
		}
		for _, scope := range cmd.Scopes {
			byScope[scope] = append(byScope[scope], cmd)
		}
	}

	out := make(map[string][]*discordgo.ApplicationCommand, len(byScope))
	for scope, cmds := range byScope {
		out[scope] = buildScope(cmds)
	}

	return out
}

func buildScope(cmds []*Command) []*discordgo.ApplicationCommand {
	byBase := make(map[string][]*Command)
	var order []string
	for _, cmd := range cmds {
		if _, ok := byBase[cmd.Name]; !ok {
			order = append(order, cmd.Name)
		}
		byBase[cmd.Name] = append(byBase[cmd.Name], cmd)
	}
	sort.Strings(order)

	wire := make([]*discordgo.ApplicationCommand, 0, len(order))
	for _, base := range order {
		wire = append(wire, buildBase(base, byBase[base]))
	}

	return wire
}

// buildBase assembles one top-level command from its leaves. Subcommand leaves
// keep declaration order within their group; groups appear in first-seen
// order.
func buildBase(base string, cmds []*Command) *discordgo.ApplicationCommand {
	wire := &discordgo.ApplicationCommand{
		Type: discordgo.ChatApplicationCommand,
		Name: base,
	}

	for _, cmd := range cmds {
		if cmd.Permissions != nil && wire.DefaultMemberPermissions == nil {
			wire.DefaultMemberPermissions = cmd.Permissions
		}
		if cmd.DMPermission != nil && wire.DMPermission == nil {
			wire.DMPermission = cmd.DMPermission
		}
		if cmd.NSFW {
			nsfw := true
			wire.NSFW = &nsfw
		}
	}

	if len(cmds) == 1 && cmds[0].SubName == "" {
		leaf := cmds[0]
		wire.Description = leaf.Description
		wire.Options = leaf.Signature().Options
		return wire
	}

	wire.Description = options.DefaultDescription
	groups := make(map[string]*discordgo.ApplicationCommandOption)
	for _, cmd := range cmds {
		if cmd.BaseDescription != options.DefaultDescription {
			wire.Description = cmd.BaseDescription
		}

		sub := &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        cmd.SubName,
			Description: cmd.Description,
			Options:     cmd.Signature().Options,
		}

		if cmd.GroupName == "" {
			wire.Options = append(wire.Options, sub)
			continue
		}

		group, ok := groups[cmd.GroupName]
		if !ok {
			group = &discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
				Name:        cmd.GroupName,
				Description: cmd.GroupDescription,
			}
			groups[cmd.GroupName] = group
			wire.Options = append(wire.Options, group)
		}
		group.Options = append(group.Options, sub)
	}

	return wire
}

// Sync overwrites the application's registered commands, per scope, with the
// dispatcher's tree.
func (d *Dispatcher) Sync(s Syncer, appID string) error {
	for scope, cmds := range d.BuildCommands() {
		if _, err := s.ApplicationCommandBulkOverwrite(appID, scope, cmds); err != nil {
			target := scope
			if target == "" {
				target = "global"
			}
			return fmt.Errorf("overwriting %s commands: %w", target, err)
		}

		d.log.WithField("scope", scope).WithField("commands", len(cmds)).Info("synced commands")
	}

	return nil
}
