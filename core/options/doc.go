// Package options implements the option model of the command compiler: the
// closed set of option kinds, the resolver mapping declared Go parameter types
// onto kinds, and the explicit per-parameter metadata (ParamInfo) callers use
// to override or extend what the resolver infers.
//
// Everything in this package runs at declaration time. Violations are hard
// errors that abort command registration; nothing here is retried or deferred
// to invocation time.
package options
