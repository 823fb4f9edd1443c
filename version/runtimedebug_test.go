package version_test

import (
	"testing"

	"github.com/heraldbot/herald/version"
	"github.com/stretchr/testify/assert"
)

func TestBuildInfo(t *testing.T) {
	bi, err := version.BuildInfo()
	assert.NoError(t, err)
	assert.NotNil(t, bi)
}

func TestModuleVersion(t *testing.T) {
	assert.NotEmpty(t, version.ModuleVersion())
}
