package options

import (
	"reflect"

	"github.com/heraldbot/herald/core/types"
)

// Kinded is implemented by user types that carry their own option kind. It is
// the explicit counterpart of annotating a parameter with side metadata: the
// resolver trusts the declared kind and the type remains free to implement a
// custom conversion.
type Kinded interface {
	OptionKind() Kind
}

// Resolution is the resolver's full answer for one declared parameter type.
type Resolution struct {
	Kind         Kind
	Optional     bool
	ChannelKinds []types.ChannelKind
	Elem         reflect.Type // the declared type with any optional pointer stripped
}

var (
	userType        = reflect.TypeOf(types.User{})
	memberType      = reflect.TypeOf(types.Member{})
	roleType        = reflect.TypeOf(types.Role{})
	attachmentType  = reflect.TypeOf(types.Attachment{})
	mentionableType = reflect.TypeOf(types.Mentionable{})
	threadType      = reflect.TypeOf(types.ThreadChannel{})
	channelIface    = reflect.TypeOf((*types.Channel)(nil)).Elem()
	kindedIface     = reflect.TypeOf((*Kinded)(nil)).Elem()
)

// Resolve maps a declared parameter type onto its option kind. It fails with
// ErrUnsupportedType when no mapping exists.
func Resolve(t reflect.Type) (Kind, error) {
	res, err := ResolveType(t)
	if err != nil {
		return 0, err
	}

	return res.Kind, nil
}

// ResolveType maps a declared parameter type onto a full Resolution.
//
// Resolution order, first match wins:
//  1. Self-kinded types (Kinded), checked before optional unwrapping so a
//     kinded wrapper keeps its declared kind even behind a pointer.
//  2. Pointer types mark the parameter optional and recurse on the element.
//  3. Entity types from core/types, then the primitive kinds. Booleans are
//     matched before the integer kinds; keep that order, it is load-bearing.
//  4. Everything else fails with ErrUnsupportedType.
func ResolveType(t reflect.Type) (Resolution, error) {
	res := Resolution{Elem: t}

	if kind, ok := kindOfKinded(t); ok {
		res.Kind = kind
		if t.Kind() == reflect.Pointer {
			res.Optional = true
			res.Elem = t.Elem()
		}

		return res, nil
	}

	if t.Kind() == reflect.Pointer {
		inner, err := ResolveType(t.Elem())
		if err != nil {
			return res, err
		}

		inner.Optional = true
		return inner, nil
	}

	switch t {
	case userType, memberType:
		res.Kind = KindUser
		return res, nil
	case roleType:
		res.Kind = KindRole
		return res, nil
	case attachmentType:
		res.Kind = KindAttachment
		return res, nil
	case mentionableType:
		res.Kind = KindMentionable
		return res, nil
	}

	if kinds, ok := channelKindsOf(t); ok {
		res.Kind = KindChannel
		res.ChannelKinds = kinds
		return res, nil
	}

	switch t.Kind() {
	case reflect.String:
		res.Kind = KindString
		return res, nil
	case reflect.Bool:
		// bool must be matched before the integer kinds; see the resolver doc.
		res.Kind = KindBoolean
		return res, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		res.Kind = KindInteger
		return res, nil
	case reflect.Float32, reflect.Float64:
		res.Kind = KindNumber
		return res, nil
	}

	return res, TypeError{Param: "", Type: t.String()}
}

// kindOfKinded reports the self-declared kind of a type implementing Kinded,
// following the pointer form when only the pointer receiver implements it.
func kindOfKinded(t reflect.Type) (Kind, bool) {
	target := t
	if !target.Implements(kindedIface) {
		if target.Kind() == reflect.Pointer || !reflect.PointerTo(target).Implements(kindedIface) {
			return 0, false
		}

		target = reflect.PointerTo(target)
	}

	// Instantiate a non-nil value so pointer receivers are safe to call.
	var instance reflect.Value
	if target.Kind() == reflect.Pointer {
		instance = reflect.New(target.Elem())
	} else {
		instance = reflect.New(target).Elem()
	}

	kinded, ok := instance.Interface().(Kinded)
	if !ok {
		return 0, false
	}

	return kinded.OptionKind(), true
}

// channelKindsOf reports whether the type is channel-like and, for concrete
// subtypes, which channel kinds the compiled option should be filtered to.
// The bare Channel interface accepts every kind and yields no filter.
func channelKindsOf(t reflect.Type) ([]types.ChannelKind, bool) {
	if t.Kind() == reflect.Interface {
		if t == channelIface {
			return nil, true
		}

		return nil, false
	}

	if !t.Implements(channelIface) && !reflect.PointerTo(t).Implements(channelIface) {
		return nil, false
	}

	if t == threadType {
		return []types.ChannelKind{
			types.ChannelKindNewsThread,
			types.ChannelKindPublicThread,
			types.ChannelKindPrivateThread,
		}, true
	}

	instance := reflect.New(t).Elem()
	channel, ok := instance.Interface().(types.Channel)
	if !ok {
		channel, ok = instance.Addr().Interface().(types.Channel)
		if !ok {
			return nil, false
		}
	}

	return []types.ChannelKind{channel.Kind()}, true
}
