package main_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/structguard/structguard"
	main "github.com/structguard/structguard/cmd/structguard"
	"github.com/structguard/structguard/mock"
)

// upperEditor upper-cases every segment, recording the instruction it was
// given.
func upperEditor(gotInstruction *string) *mock.Editor {
	return &mock.Editor{
		EditFn: func(_ context.Context, flatMap *structguard.FlatMap, instruction string) (*structguard.FlatMap, error) {
			if gotInstruction != nil {
				*gotInstruction = instruction
			}
			edited := structguard.NewFlatMap()
			for _, id := range flatMap.IDs() {
				text, _ := flatMap.Get(id)
				edited.Set(id, strings.ToUpper(text))
			}
			return edited, nil
		},
	}
}

func TestTranslateCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("rewrites segments through the editor", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		docPath := filepath.Join(dir, "doc.xml")
		writeFile(t, docPath, "<doc><title>Hello</title><body>World</body></doc>")
		deps, stdout, stderr := newTestDeps()
		deps.Editor = upperEditor(nil)

		cmd := &main.TranslateCmd{File: docPath, Instruction: "shout", Profile: "generic"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "<doc><title>HELLO</title><body>WORLD</body></doc>", stdout.String())
		assert.Contains(t, stderr.String(), "Edited 2 segments")
	})

	t.Run("passes the instruction through", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		docPath := filepath.Join(dir, "data.json")
		writeFile(t, docPath, `{"msg": "Hello"}`)
		deps, _, _ := newTestDeps()
		var got string
		deps.Editor = upperEditor(&got)

		cmd := &main.TranslateCmd{File: docPath, Instruction: "translate to Spanish", Profile: "generic"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "translate to Spanish", got)
	})

	t.Run("writes output file when requested", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		docPath := filepath.Join(dir, "data.json")
		writeFile(t, docPath, `{"msg": "Hello"}`)
		deps, stdout, _ := newTestDeps()
		deps.Editor = upperEditor(nil)

		outPath := filepath.Join(dir, "out.json")
		cmd := &main.TranslateCmd{File: docPath, Instruction: "shout", Profile: "generic", Output: outPath}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Wrote "+outPath)

		rebuilt, err := os.ReadFile(outPath)
		require.NoError(t, err)
		assert.Equal(t, `{"msg": "HELLO"}`, string(rebuilt))
	})

	t.Run("returns error when editor missing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		docPath := filepath.Join(dir, "doc.xml")
		writeFile(t, docPath, "<a>hi</a>")
		deps, _, stderr := newTestDeps()

		cmd := &main.TranslateCmd{File: docPath, Instruction: "shout", Profile: "generic"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, structguard.EINTERNAL, structguard.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no editor configured")
	})

	t.Run("propagates editor failure", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		docPath := filepath.Join(dir, "doc.xml")
		writeFile(t, docPath, "<a>hi</a>")
		deps, _, stderr := newTestDeps()
		deps.Editor = &mock.Editor{
			EditFn: func(context.Context, *structguard.FlatMap, string) (*structguard.FlatMap, error) {
				return nil, structguard.Errorf(structguard.EINTERNAL, "model unavailable")
			},
		}

		cmd := &main.TranslateCmd{File: docPath, Instruction: "shout", Profile: "generic"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "model unavailable")
	})
}
