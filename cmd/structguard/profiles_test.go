package main_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	main "github.com/structguard/structguard/cmd/structguard"
)

func TestProfilesCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists builtin profiles", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps()

		cmd := &main.ProfilesCmd{}
		err := cmd.Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "generic: all text segments")
		assert.Contains(t, out, "wordpress: content:encoded, excerpt:encoded, title, wp:meta_value")
	})

	t.Run("includes custom profiles from file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		profilesPath := filepath.Join(dir, "profiles.yml")
		writeFile(t, profilesPath, "profiles:\n  - name: news\n    tags:\n      - headline\n      - summary\n")
		deps, stdout, _ := newTestDeps()

		cmd := &main.ProfilesCmd{ProfilesFile: profilesPath}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "news: headline, summary")
	})

	t.Run("returns error for bad profiles file", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newTestDeps()

		cmd := &main.ProfilesCmd{ProfilesFile: filepath.Join(t.TempDir(), "nope.yml")}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}
