package main_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/structguard/structguard"
	main "github.com/structguard/structguard/cmd/structguard"
	"github.com/structguard/structguard/fs"
)

func TestExtractCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes flat map and bundle", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		docPath := filepath.Join(dir, "doc.xml")
		writeFile(t, docPath, "<doc><title>Hello</title><body>World</body></doc>")
		deps, stdout, _ := newTestDeps()

		cmd := &main.ExtractCmd{File: docPath, Profile: "generic", Output: dir}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Extracted 2 segments")

		flatMap, err := fs.ReadFlatMap(fs.FlatMapPath(dir, "doc"))
		require.NoError(t, err)
		assert.Equal(t, []string{"node_0", "node_1"}, flatMap.IDs())

		meta, err := fs.ReadBundle(fs.BundlePath(dir, "doc"))
		require.NoError(t, err)
		assert.Equal(t, structguard.FormatXML, meta.Format)
	})

	t.Run("infers json format from extension", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		docPath := filepath.Join(dir, "data.json")
		writeFile(t, docPath, `{"title": "Hello"}`)
		deps, _, _ := newTestDeps()

		cmd := &main.ExtractCmd{File: docPath, Profile: "generic", Output: dir}
		err := cmd.Run(deps)

		require.NoError(t, err)
		meta, err := fs.ReadBundle(fs.BundlePath(dir, "data"))
		require.NoError(t, err)
		assert.Equal(t, structguard.FormatJSON, meta.Format)
	})

	t.Run("explicit format overrides extension", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		docPath := filepath.Join(dir, "feed.txt")
		writeFile(t, docPath, "<a>hi</a>")
		deps, _, _ := newTestDeps()

		cmd := &main.ExtractCmd{File: docPath, Format: "xml", Profile: "generic", Output: dir}
		err := cmd.Run(deps)

		require.NoError(t, err)
	})

	t.Run("returns error for unknown extension", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		docPath := filepath.Join(dir, "notes.txt")
		writeFile(t, docPath, "plain text")
		deps, _, stderr := newTestDeps()

		cmd := &main.ExtractCmd{File: docPath, Profile: "generic", Output: dir}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, structguard.EUNSUPPORTED, structguard.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("returns error for unknown profile", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		docPath := filepath.Join(dir, "doc.xml")
		writeFile(t, docPath, "<a>hi</a>")
		deps, _, stderr := newTestDeps()

		cmd := &main.ExtractCmd{File: docPath, Profile: "news", Output: dir}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, structguard.ENOTFOUND, structguard.ErrorCode(err))
		assert.Contains(t, stderr.String(), "news")
	})

	t.Run("loads custom profiles from file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		profilesPath := filepath.Join(dir, "profiles.yml")
		writeFile(t, profilesPath, "profiles:\n  - name: news\n    tags:\n      - headline\n")
		docPath := filepath.Join(dir, "doc.xml")
		writeFile(t, docPath, "<doc><headline>Big</headline><aside>Skip</aside></doc>")
		deps, stdout, _ := newTestDeps()

		cmd := &main.ExtractCmd{File: docPath, Profile: "news", ProfilesFile: profilesPath, Output: dir}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Extracted 1 segments")

		flatMap, err := fs.ReadFlatMap(fs.FlatMapPath(dir, "doc"))
		require.NoError(t, err)
		text, ok := flatMap.Get("node_0")
		require.True(t, ok)
		assert.Equal(t, "Big", text)
	})

	t.Run("returns error when file missing", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newTestDeps()

		cmd := &main.ExtractCmd{File: filepath.Join(t.TempDir(), "nope.xml"), Profile: "generic", Output: t.TempDir()}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, stderr.String(), "error:")
	})
}
