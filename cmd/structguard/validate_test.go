package main_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/structguard/structguard"
	main "github.com/structguard/structguard/cmd/structguard"
)

func TestValidateCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("reports modified segments", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		deps, stdout, _ := newTestDeps()
		flatPath, bundlePath := extractToDir(t, deps, dir, "doc.xml", "<doc><title>Hello</title><body>World</body></doc>")
		editFlatMap(t, flatPath, "node_0", "Bonjour")
		stdout.Reset()

		cmd := &main.ValidateCmd{Bundle: bundlePath, FlatMap: flatPath}
		err := cmd.Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "status: valid")
		assert.Contains(t, out, "segments: 2 total, 1 modified, 1 unchanged")
		assert.Contains(t, out, "~ node_0 (doc/title)")
	})

	t.Run("flags unknown segment ids", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		deps, stdout, stderr := newTestDeps()
		flatPath, bundlePath := extractToDir(t, deps, dir, "doc.xml", "<doc><title>Hello</title></doc>")
		editFlatMap(t, flatPath, "node_9", "ghost")
		stdout.Reset()

		cmd := &main.ValidateCmd{Bundle: bundlePath, FlatMap: flatPath}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.True(t, structguard.IsReconstruction(err))
		assert.Contains(t, stdout.String(), "status: error")
		assert.Contains(t, stdout.String(), "! node_9: unknown_id")
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("prints JSON report when requested", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		deps, stdout, _ := newTestDeps()
		flatPath, bundlePath := extractToDir(t, deps, dir, "data.json", `{"msg": "Hello"}`)
		editFlatMap(t, flatPath, "node_0", "Hola")
		stdout.Reset()

		cmd := &main.ValidateCmd{Bundle: bundlePath, FlatMap: flatPath, JSON: true}
		err := cmd.Run(deps)

		require.NoError(t, err)

		var report structguard.ValidationReport
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
		assert.Equal(t, structguard.ValidationStatusValid, report.Status)
		assert.Equal(t, 1, report.DiffStats.ModifiedNodes)
		require.Len(t, report.Changes, 1)
		assert.Equal(t, "Hola", report.Changes[0].NewText)
	})
}
