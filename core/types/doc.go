// Package types defines the entity value types a command parameter may declare.
//
// Each type wraps the corresponding discordgo payload and carries just enough
// identity for the option resolver to map a declared Go parameter type onto a
// wire option kind. Values are constructed by the dispatcher from the resolved
// data attached to an interaction; user callbacks only ever read them.
package types
