package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Short(t *testing.T) {
	assert.Equal(t, "Print the version number", versionCmd.Short)
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	SetVersion("test-version-1.0.0")
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "lpdp-faq version test-version-1.0.0")
}

func TestVersionCmd_DisplaysDevByDefault(t *testing.T) {
	originalVersion := version
	version = "dev"
	defer func() { version = originalVersion }()

	SetVersion("")
	out, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "lpdp-faq version dev")
}

func TestVersionCmd_NeedsNoServices(t *testing.T) {
	original := builder
	builder = nil
	defer func() { builder = original }()

	_, err := execute(t, "version")

	assert.NoError(t, err)
}
