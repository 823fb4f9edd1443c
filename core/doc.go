// Package core compiles Go command handlers into application-command
// schemas and routes incoming interactions back to them.
//
// A command is declared once, as a function with per-parameter metadata or as
// a tagged struct, and compiled at construction time into the option schema
// the platform registers and a descriptor table the invocation adapter binds
// arguments with. Every signature defect is reported at construction; an
// interaction never reaches a half-built command.
package core
