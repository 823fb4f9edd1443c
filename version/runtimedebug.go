// Package version exposes the module's embedded build information.
package version

import (
	"errors"
	"runtime/debug"
)

// ErrNoBuildInfo reports a binary built without module support, where the
// toolchain embedded no build information to read.
var ErrNoBuildInfo = errors.New("no build information embedded in this binary")

// BuildInfo returns the build information embedded by the toolchain.
func BuildInfo() (*debug.BuildInfo, error) {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return nil, ErrNoBuildInfo
	}

	return bi, nil
}

// ModuleVersion returns the version recorded for the module itself, or
// "(devel)" when built from a working tree.
func ModuleVersion() string {
	bi, err := BuildInfo()
	if err != nil || bi.Main.Version == "" {
		return "(devel)"
	}

	return bi.Main.Version
}
