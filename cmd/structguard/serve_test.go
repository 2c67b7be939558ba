package main_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	main "github.com/structguard/structguard/cmd/structguard"
)

func TestResolveAddr(t *testing.T) {
	t.Run("explicit addr wins", func(t *testing.T) {
		t.Setenv("PORT", "3000")
		assert.Equal(t, ":9999", main.ResolveAddr(":9999"))
	})

	t.Run("falls back to PORT", func(t *testing.T) {
		t.Setenv("PORT", "3000")
		assert.Equal(t, ":3000", main.ResolveAddr(""))
	})

	t.Run("defaults to 8080", func(t *testing.T) {
		t.Setenv("PORT", "")
		assert.Equal(t, ":8080", main.ResolveAddr(""))
	})
}

func TestServeCmd_Run_BadProfilesFile(t *testing.T) {
	t.Parallel()

	deps, _, stderr := newTestDeps()

	cmd := &main.ServeCmd{ProfilesFile: filepath.Join(t.TempDir(), "nope.yml")}
	err := cmd.Run(deps)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), "error:")
}
