package core_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/heraldbot/herald/core"
	"github.com/heraldbot/herald/core/options"
	"github.com/stretchr/testify/require"
)

// banTrace records the hook order of the most recent banCommand invocation;
// each run works on a fresh instance, so the trace must live outside it.
var banTrace []string

type banCommand struct {
	Target string `option:"target" description:"Who to ban."`
	Days   int    `option:"days,optional" description:"Days of messages to purge." default:"0" min:"0" max:"7"`
	Silent bool   `option:"silent,optional" default:"false"`
}

func (c *banCommand) PreRun(ctx *core.Context) error {
	banTrace = append(banTrace, "pre")
	if c.Target == "untouchable" {
		return errors.New("target is protected")
	}
	return nil
}

func (c *banCommand) Callback(ctx *core.Context) error {
	banTrace = append(banTrace, "run")
	return nil
}

func (c *banCommand) PostRun(ctx *core.Context) error {
	banTrace = append(banTrace, "post")
	return nil
}

type declaredCommand struct {
	Flavor string `option:"flavor"`
}

func (c *declaredCommand) Callback(ctx *core.Context) error { return nil }

func (c *declaredCommand) DeclareParams() map[string]*options.ParamInfo {
	return map[string]*options.ParamInfo{
		"Flavor": {
			Description: "Pick one.",
			Choices: []options.Choice{
				{Name: "sweet", Value: "sweet"},
				{Name: "sour", Value: "sour"},
			},
		},
	}
}

type catchingCommand struct {
	caught error
}

func (c *catchingCommand) Callback(ctx *core.Context) error {
	return errors.New("boom")
}

func (c *catchingCommand) OnError(ctx *core.Context, err error) {
	c.caught = err
}

func TestStructCommandSchema(t *testing.T) {
	cmd, err := core.NewStructCommand("ban", &banCommand{}, core.WithDescription("Bans a user."))
	require.NoError(t, err)

	opts := cmd.Signature().Options
	require.Len(t, opts, 3)

	require.Equal(t, "target", opts[0].Name)
	require.Equal(t, discordgo.ApplicationCommandOptionString, opts[0].Type)
	require.True(t, opts[0].Required)

	require.Equal(t, "days", opts[1].Name)
	require.Equal(t, discordgo.ApplicationCommandOptionInteger, opts[1].Type)
	require.False(t, opts[1].Required)
	require.InDelta(t, 0, *opts[1].MinValue, 0)
	require.InDelta(t, 7, opts[1].MaxValue, 0)

	require.Equal(t, "silent", opts[2].Name)
	require.False(t, opts[2].Required)
}

func TestStructCommandLifecycle(t *testing.T) {
	cmd, err := core.NewStructCommand("ban", &banCommand{})
	require.NoError(t, err)

	// Each invocation runs on a fresh instance; the prototype stays pristine.
	banTrace = nil
	err = cmd.Invoke(testContext(), map[string]any{"target": "rude-user", "days": int64(3)})
	require.NoError(t, err)
	require.Equal(t, []string{"pre", "run", "post"}, banTrace)

	t.Run("pre-run failure skips the callback", func(t *testing.T) {
		banTrace = nil
		err := cmd.Invoke(testContext(), map[string]any{"target": "untouchable"})
		require.Error(t, err)
		require.Equal(t, []string{"pre"}, banTrace)
	})
}

// lastHooked captures the populated instance of the most recent hookedBan
// invocation; each run works on a fresh instance, so the prototype cannot
// carry state out.
var lastHooked *hookedBan

type hookedBan struct {
	Target string `option:"target"`
	Days   int    `option:"days,optional" default:"0"`
	Silent bool   `option:"silent,optional" default:"false"`
}

func (c *hookedBan) Callback(ctx *core.Context) error {
	lastHooked = c
	return nil
}

func TestStructCommandDefaults(t *testing.T) {
	prototype := &hookedBan{}
	cmd, err := core.NewStructCommand("ban", prototype)
	require.NoError(t, err)

	lastHooked = nil
	err = cmd.Invoke(testContext(), map[string]any{"target": "x"})
	require.NoError(t, err)
	require.NotNil(t, lastHooked)
	require.NotSame(t, prototype, lastHooked)
	require.Equal(t, "x", lastHooked.Target)
	require.Equal(t, 0, lastHooked.Days)
	require.False(t, lastHooked.Silent)
}

func TestStructCommandDeclaredParams(t *testing.T) {
	cmd, err := core.NewStructCommand("taste", &declaredCommand{})
	require.NoError(t, err)

	opts := cmd.Signature().Options
	require.Len(t, opts, 1)
	require.Equal(t, "Pick one.", opts[0].Description)
	require.Len(t, opts[0].Choices, 2)
}

func TestStructCommandOnError(t *testing.T) {
	cmd, err := core.NewStructCommand("boomy", &catchingCommand{})
	require.NoError(t, err)

	// OnError consumes the failure; nothing propagates.
	require.NoError(t, cmd.Invoke(testContext(), nil))
}

// lastCaught records what the most recent guardedCommand run handed its
// OnError hook.
var lastCaught error

type guardedCommand struct {
	N int `option:"n"`
}

func (c *guardedCommand) Callback(ctx *core.Context) error { return nil }

func (c *guardedCommand) DeclareParams() map[string]*options.ParamInfo {
	return map[string]*options.ParamInfo{
		"N": {
			Type:       options.KindString,
			Converters: []any{func(raw string) (int, error) { return strconv.Atoi(raw) }},
		},
	}
}

func (c *guardedCommand) OnError(ctx *core.Context, err error) {
	lastCaught = err
}

// Argument binding failures reach the OnError hook the same way run failures
// do.
func TestStructCommandOnErrorBinding(t *testing.T) {
	cmd, err := core.NewStructCommand("guard", &guardedCommand{})
	require.NoError(t, err)

	lastCaught = nil
	require.NoError(t, cmd.Invoke(testContext(), map[string]any{"n": "zzz"}))
	require.ErrorIs(t, lastCaught, core.ErrBadArgument)

	lastCaught = nil
	require.NoError(t, cmd.Invoke(testContext(), nil))
	require.ErrorIs(t, lastCaught, core.ErrMissingArgument)
}

type badFlagCommand struct {
	X string `option:"x,sometimes"`
}

func (c *badFlagCommand) Callback(ctx *core.Context) error { return nil }

type badDefaultCommand struct {
	X int `option:"x,optional" default:"many"`
}

func (c *badDefaultCommand) Callback(ctx *core.Context) error { return nil }

type optionalNoDefaultCommand struct {
	X string `option:"x,optional"`
}

func (c *optionalNoDefaultCommand) Callback(ctx *core.Context) error { return nil }

type badChannelsCommand struct {
	X string `option:"x" channels:"text"`
}

func (c *badChannelsCommand) Callback(ctx *core.Context) error { return nil }

func TestStructCommandTagErrors(t *testing.T) {
	testCases := []struct {
		name      string
		prototype core.Runner
		want      error
	}{
		{name: "unknown flag", prototype: &badFlagCommand{}, want: core.ErrInvalidSignature},
		{name: "unparsable default", prototype: &badDefaultCommand{}, want: core.ErrInvalidSignature},
		{name: "optional without default", prototype: &optionalNoDefaultCommand{}, want: options.ErrInvalidConstraint},
		{name: "channel filter on string", prototype: &badChannelsCommand{}, want: options.ErrInvalidConstraint},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := core.NewStructCommand("bad", testCase.prototype)
			require.ErrorIs(t, err, testCase.want)
		})
	}
}
