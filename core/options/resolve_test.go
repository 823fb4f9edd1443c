package options_test

import (
	"reflect"
	"testing"

	"github.com/heraldbot/herald/core/options"
	"github.com/heraldbot/herald/core/types"
	"github.com/stretchr/testify/require"
)

type customID string

func (customID) OptionKind() options.Kind { return options.KindString }

type ptrKinded struct{ raw string }

func (*ptrKinded) OptionKind() options.Kind { return options.KindInteger }

func TestResolvePrimitives(t *testing.T) {
	testCases := []struct {
		name string
		typ  reflect.Type
		want options.Kind
	}{
		{name: "string", typ: reflect.TypeOf(""), want: options.KindString},
		{name: "bool", typ: reflect.TypeOf(false), want: options.KindBoolean},
		{name: "int", typ: reflect.TypeOf(0), want: options.KindInteger},
		{name: "int64", typ: reflect.TypeOf(int64(0)), want: options.KindInteger},
		{name: "uint32", typ: reflect.TypeOf(uint32(0)), want: options.KindInteger},
		{name: "float64", typ: reflect.TypeOf(0.0), want: options.KindNumber},
		{name: "float32", typ: reflect.TypeOf(float32(0)), want: options.KindNumber},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			kind, err := options.Resolve(testCase.typ)
			require.NoError(t, err)
			require.Equal(t, testCase.want, kind)
		})
	}
}

// A named bool type must stay a boolean even though bool converts to the
// integer kinds; the match order in the resolver guarantees it.
func TestResolveBoolBeforeInteger(t *testing.T) {
	type truthy bool

	kind, err := options.Resolve(reflect.TypeOf(truthy(false)))
	require.NoError(t, err)
	require.Equal(t, options.KindBoolean, kind)
}

func TestResolveEntities(t *testing.T) {
	testCases := []struct {
		name string
		typ  reflect.Type
		want options.Kind
	}{
		{name: "user", typ: reflect.TypeOf(types.User{}), want: options.KindUser},
		{name: "member", typ: reflect.TypeOf(types.Member{}), want: options.KindUser},
		{name: "role", typ: reflect.TypeOf(types.Role{}), want: options.KindRole},
		{name: "attachment", typ: reflect.TypeOf(types.Attachment{}), want: options.KindAttachment},
		{name: "mentionable", typ: reflect.TypeOf(types.Mentionable{}), want: options.KindMentionable},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			kind, err := options.Resolve(testCase.typ)
			require.NoError(t, err)
			require.Equal(t, testCase.want, kind)
		})
	}
}

func TestResolveChannels(t *testing.T) {
	t.Run("bare interface accepts every kind", func(t *testing.T) {
		res, err := options.ResolveType(reflect.TypeOf((*types.Channel)(nil)).Elem())
		require.NoError(t, err)
		require.Equal(t, options.KindChannel, res.Kind)
		require.Empty(t, res.ChannelKinds)
	})

	t.Run("concrete subtype filters to its kind", func(t *testing.T) {
		res, err := options.ResolveType(reflect.TypeOf(types.VoiceChannel{}))
		require.NoError(t, err)
		require.Equal(t, options.KindChannel, res.Kind)
		require.Equal(t, []types.ChannelKind{types.ChannelKindVoice}, res.ChannelKinds)
	})

	t.Run("thread covers the three thread kinds", func(t *testing.T) {
		res, err := options.ResolveType(reflect.TypeOf(types.ThreadChannel{}))
		require.NoError(t, err)
		require.Equal(t, options.KindChannel, res.Kind)
		require.Len(t, res.ChannelKinds, 3)
	})
}

func TestResolveOptional(t *testing.T) {
	res, err := options.ResolveType(reflect.TypeOf((*string)(nil)))
	require.NoError(t, err)
	require.Equal(t, options.KindString, res.Kind)
	require.True(t, res.Optional)
	require.Equal(t, reflect.TypeOf(""), res.Elem)
}

func TestResolveKinded(t *testing.T) {
	t.Run("value receiver", func(t *testing.T) {
		kind, err := options.Resolve(reflect.TypeOf(customID("")))
		require.NoError(t, err)
		require.Equal(t, options.KindString, kind)
	})

	t.Run("pointer receiver", func(t *testing.T) {
		kind, err := options.Resolve(reflect.TypeOf(ptrKinded{}))
		require.NoError(t, err)
		require.Equal(t, options.KindInteger, kind)
	})

	t.Run("kinded wins over pointer unwrapping", func(t *testing.T) {
		res, err := options.ResolveType(reflect.TypeOf((*customID)(nil)))
		require.NoError(t, err)
		require.Equal(t, options.KindString, res.Kind)
		require.True(t, res.Optional)
	})
}

func TestResolveUnsupported(t *testing.T) {
	testCases := []struct {
		name string
		typ  reflect.Type
	}{
		{name: "slice", typ: reflect.TypeOf([]string{})},
		{name: "map", typ: reflect.TypeOf(map[string]int{})},
		{name: "plain struct", typ: reflect.TypeOf(struct{ X int }{})},
		{name: "chan", typ: reflect.TypeOf(make(chan int))},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := options.Resolve(testCase.typ)
			require.ErrorIs(t, err, options.ErrUnsupportedType)
		})
	}
}
