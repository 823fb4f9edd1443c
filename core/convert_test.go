package core_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/heraldbot/herald/core"
	"github.com/heraldbot/herald/core/options"
	"github.com/stretchr/testify/require"
)

type upperConverter struct{}

func (upperConverter) ConvertOption(_ *core.Context, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("expected a string, got %T", raw)
	}

	return strings.ToUpper(s), nil
}

type colorTag struct {
	Value string
}

func (c *colorTag) UnmarshalOption(_ *core.Context, raw any) error {
	s, ok := raw.(string)
	if !ok || s == "" {
		return errors.New("color tags are non-empty strings")
	}

	c.Value = "#" + s
	return nil
}

func testContext() *core.Context {
	return core.NewContext(context.Background(), nil, nil, nil)
}

func TestWrapConverterShapes(t *testing.T) {
	ctx := testContext()

	t.Run("raw only", func(t *testing.T) {
		fn, err := core.WrapConverter(func(raw string) (string, error) {
			return raw + "!", nil
		})
		require.NoError(t, err)

		got, err := fn(ctx, "hey")
		require.NoError(t, err)
		require.Equal(t, "hey!", got)
	})

	t.Run("context and raw", func(t *testing.T) {
		fn, err := core.WrapConverter(func(c *core.Context, raw string) (int, error) {
			return strconv.Atoi(raw)
		})
		require.NoError(t, err)

		got, err := fn(ctx, "42")
		require.NoError(t, err)
		require.Equal(t, 42, got)
	})

	t.Run("no arguments", func(t *testing.T) {
		fn, err := core.WrapConverter(func() string { return "fixed" })
		require.NoError(t, err)

		got, err := fn(ctx, "ignored")
		require.NoError(t, err)
		require.Equal(t, "fixed", got)
	})

	t.Run("context only", func(t *testing.T) {
		fn, err := core.WrapConverter(func(c *core.Context) (string, error) {
			return c.GuildID(), nil
		})
		require.NoError(t, err)

		got, err := fn(ctx, "ignored")
		require.NoError(t, err)
		require.Equal(t, "", got)
	})

	t.Run("interface implementation", func(t *testing.T) {
		fn, err := core.WrapConverter(upperConverter{})
		require.NoError(t, err)

		got, err := fn(ctx, "soft")
		require.NoError(t, err)
		require.Equal(t, "SOFT", got)
	})
}

func TestWrapConverterRejectsShapes(t *testing.T) {
	testCases := []struct {
		name string
		in   any
	}{
		{name: "nil", in: nil},
		{name: "not a function", in: "nope"},
		{name: "three arguments", in: func(a, b, c string) string { return a }},
		{name: "two arguments without context", in: func(a, b string) string { return a }},
		{name: "error only", in: func(raw string) error { return nil }},
		{name: "no outputs", in: func(raw string) {}},
		{name: "error not last", in: func(raw string) (error, string) { return nil, "" }},
		{name: "three outputs", in: func(raw string) (string, string, error) { return "", "", nil }},
		{name: "variadic", in: func(raw ...string) string { return "" }},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := core.WrapConverter(testCase.in)
			require.ErrorIs(t, err, core.ErrInvalidConverter)
		})
	}
}

func TestWrapConverterPropagatesErrors(t *testing.T) {
	wantErr := errors.New("nope")
	fn, err := core.WrapConverter(func(raw string) (string, error) {
		return "", wantErr
	})
	require.NoError(t, err)

	_, err = fn(testContext(), "anything")
	require.ErrorIs(t, err, wantErr)
}

func TestWrapConverterCoercesRaw(t *testing.T) {
	// Wire integers arrive as int64; a converter may still declare int.
	fn, err := core.WrapConverter(func(raw int) (int, error) {
		return raw * 2, nil
	})
	require.NoError(t, err)

	got, err := fn(testContext(), int64(21))
	require.NoError(t, err)
	require.Equal(t, 42, got)
}

func TestUnmarshalerConverter(t *testing.T) {
	var got colorTag
	cmd, err := core.NewCommand("paint",
		func(ctx *core.Context, tag colorTag) error {
			got = tag
			return nil
		},
		core.WithParams(options.Param("tag")),
	)
	require.NoError(t, err)

	// A self-converting type compiles to string input.
	opts := cmd.Signature().Options
	require.Len(t, opts, 1)
	require.Equal(t, discordgo.ApplicationCommandOptionString, opts[0].Type)

	err = cmd.Invoke(testContext(), map[string]any{"tag": "ff0000"})
	require.NoError(t, err)
	require.Equal(t, "#ff0000", got.Value)

	err = cmd.Invoke(testContext(), map[string]any{"tag": ""})
	require.ErrorIs(t, err, core.ErrBadArgument)
}
