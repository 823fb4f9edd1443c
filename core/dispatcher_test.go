package core_test

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/heraldbot/herald/core"
	"github.com/heraldbot/herald/core/options"
	"github.com/heraldbot/herald/core/types"
	"github.com/heraldbot/herald/mock"
	"github.com/stretchr/testify/require"
)

// mustCommand adapts a constructor's two results for inline registration.
func mustCommand(t *testing.T) func(*core.Command, error) *core.Command {
	return func(cmd *core.Command, err error) *core.Command {
		t.Helper()
		require.NoError(t, err)
		return cmd
	}
}

func TestDispatcherRegister(t *testing.T) {
	d := core.NewDispatcher()
	handler := func(ctx *core.Context) error { return nil }

	require.NoError(t, d.Register(
		mustCommand(t)(core.NewCommand("ping", handler)),
		mustCommand(t)(core.NewSubcommand("admin", "ban", handler)),
		mustCommand(t)(core.NewSubcommand("admin", "kick", handler)),
	))

	_, ok := d.Lookup("ping")
	require.True(t, ok)
	_, ok = d.Lookup("admin", "ban")
	require.True(t, ok)
	_, ok = d.Lookup("admin")
	require.False(t, ok)

	t.Run("duplicate leaf", func(t *testing.T) {
		err := d.Register(mustCommand(t)(core.NewCommand("ping", handler)))
		require.ErrorIs(t, err, core.ErrCommandAlreadyDefined)
	})

	t.Run("leaf collides with subtree", func(t *testing.T) {
		err := d.Register(mustCommand(t)(core.NewCommand("admin", handler)))
		require.ErrorIs(t, err, core.ErrCommandAlreadyDefined)
	})

	t.Run("subtree collides with leaf", func(t *testing.T) {
		err := d.Register(mustCommand(t)(core.NewSubcommand("ping", "sub", handler)))
		require.ErrorIs(t, err, core.ErrCommandAlreadyDefined)
	})
}

func TestDispatcherHandlesCommand(t *testing.T) {
	responder := &mock.Responder{}
	d := core.NewDispatcher(core.WithResponder(responder))

	cmd := mustCommand(t)(core.NewCommand("greet",
		func(ctx *core.Context, name string, age int) (string, error) {
			return "hello " + name + ", " + strings.Repeat("!", age), nil
		},
		core.WithParams(options.Param("name"), options.Param("age")),
	))
	require.NoError(t, d.Register(cmd))

	ic := mock.NewInteraction("greet").
		WithString("name", "mori").
		WithInt("age", 3).
		Build()

	require.NoError(t, d.HandleInteraction(context.Background(), nil, ic))
	require.Equal(t, "hello mori, !!!", responder.LastContent())
	require.False(t, responder.LastEphemeral())
}

func TestDispatcherRoutesSubcommands(t *testing.T) {
	responder := &mock.Responder{}
	d := core.NewDispatcher(core.WithResponder(responder))

	var called string
	handler := func(name string) func(ctx *core.Context) error {
		return func(ctx *core.Context) error {
			called = name
			return nil
		}
	}

	require.NoError(t, d.Register(
		mustCommand(t)(core.NewSubcommand("admin", "ban", handler("ban"))),
		mustCommand(t)(core.NewSubcommand("admin", "add", handler("roles add"), core.WithGroup("roles", "Role management."))),
	))

	ic := mock.NewInteraction("admin").Subcommand("ban").Build()
	require.NoError(t, d.HandleInteraction(context.Background(), nil, ic))
	require.Equal(t, "ban", called)

	ic = mock.NewInteraction("admin").Subcommand("roles", "add").Build()
	require.NoError(t, d.HandleInteraction(context.Background(), nil, ic))
	require.Equal(t, "roles add", called)
}

func TestDispatcherUnknownCommand(t *testing.T) {
	d := core.NewDispatcher()

	ic := mock.NewInteraction("ghost").Build()
	err := d.HandleInteraction(context.Background(), nil, ic)
	require.ErrorIs(t, err, core.ErrUnknownCommand)
}

// A conversion failure answers the caller ephemerally instead of erroring the
// event loop.
func TestDispatcherRejectsBadArguments(t *testing.T) {
	responder := &mock.Responder{}
	d := core.NewDispatcher(core.WithResponder(responder))

	cmd := mustCommand(t)(core.NewCommand("wait",
		func(ctx *core.Context, minutes int) error { return nil },
		core.WithParams(&options.ParamInfo{
			Name: "minutes",
			Type: options.KindString,
			Converters: []any{func(raw string) (int, error) {
				return 0, core.ErrBadArgument
			}},
		}),
	))
	require.NoError(t, d.Register(cmd))

	ic := mock.NewInteraction("wait").WithString("minutes", "soon").Build()
	require.NoError(t, d.HandleInteraction(context.Background(), nil, ic))
	require.True(t, responder.LastEphemeral())
	require.Contains(t, responder.LastContent(), "minutes")
}

func TestDispatcherResolvesEntities(t *testing.T) {
	responder := &mock.Responder{}
	d := core.NewDispatcher(core.WithResponder(responder))

	var gotUser types.User
	var gotChannel types.Channel
	cmd := mustCommand(t)(core.NewCommand("inspect",
		func(ctx *core.Context, who types.User, where types.Channel) error {
			gotUser = who
			gotChannel = where
			return nil
		},
		core.WithParams(options.Param("who"), options.Param("where")),
	))
	require.NoError(t, d.Register(cmd))

	user := &discordgo.User{ID: mock.Snowflake(1), Username: "mori"}
	channel := &discordgo.Channel{ID: mock.Snowflake(2), Type: discordgo.ChannelTypeGuildVoice}

	ic := mock.NewInteraction("inspect").
		InGuild(mock.Snowflake(9)).
		WithUser("who", user).
		WithChannel("where", channel).
		Build()

	require.NoError(t, d.HandleInteraction(context.Background(), nil, ic))
	require.Equal(t, "mori", gotUser.User.Username)
	require.Equal(t, types.ChannelKindVoice, gotChannel.Kind())
}

func TestDispatcherAutocomplete(t *testing.T) {
	responder := &mock.Responder{}
	d := core.NewDispatcher(core.WithResponder(responder))

	cmd := mustCommand(t)(core.NewCommand("play",
		func(ctx *core.Context, song string) error { return nil },
		core.WithParams(&options.ParamInfo{
			Name: "song",
			Autocomplete: func(ctx context.Context, focused any) ([]options.Choice, error) {
				partial, _ := focused.(string)
				return []options.Choice{{Name: partial + " (live)", Value: partial}}, nil
			},
		}),
	))
	require.NoError(t, d.Register(cmd))

	require.True(t, cmd.Signature().Options[0].Autocomplete)

	ic := mock.NewInteraction("play").Focused("song", "intro").Build()
	require.NoError(t, d.HandleInteraction(context.Background(), nil, ic))

	last := responder.Last()
	require.NotNil(t, last)
	require.Equal(t, discordgo.InteractionApplicationCommandAutocompleteResult, last.Type)
	require.Len(t, last.Data.Choices, 1)
	require.Equal(t, "intro (live)", last.Data.Choices[0].Name)
}

func TestDispatcherErrorHook(t *testing.T) {
	var hooked error
	d := core.NewDispatcher(core.WithErrorHook(func(ctx *core.Context, err error) {
		hooked = err
	}))

	cmd := mustCommand(t)(core.NewCommand("fail",
		func(ctx *core.Context) error { return core.ErrUnknownCommand },
	))
	require.NoError(t, d.Register(cmd))

	ic := mock.NewInteraction("fail").Build()
	require.NoError(t, d.HandleInteraction(context.Background(), nil, ic))
	require.ErrorIs(t, hooked, core.ErrUnknownCommand)
}
