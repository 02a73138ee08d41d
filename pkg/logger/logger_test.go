package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitAcceptsKnownLevels(t *testing.T) {
	require.NoError(t, Init("debug", "json"))
	require.NotNil(t, Logger())

	require.NoError(t, Init("warn", "console"))
	require.NotNil(t, Logger())
}

func TestInitFallsBackOnUnknownLevel(t *testing.T) {
	require.NoError(t, Init("not-a-level", "json"))
	require.NotNil(t, Logger())
}

func TestWithModuleReturnsChild(t *testing.T) {
	require.NotNil(t, WithModule("authz"))
}
