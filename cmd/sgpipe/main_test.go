package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/structguard/structguard"
	main "github.com/structguard/structguard/cmd/sgpipe"
	"github.com/structguard/structguard/etree"
	"github.com/structguard/structguard/mock"
	"github.com/structguard/structguard/sjson"
)

// newTestDeps builds Dependencies backed by the real adapters, with
// buffers standing in for stdout and stderr.
func newTestDeps() (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	policies := structguard.NewPolicyRegistry()
	adapters := structguard.NewAdapterRegistry()
	adapters.Register(etree.NewAdapter(policies))
	adapters.Register(sjson.NewAdapter(policies))

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:      context.Background(),
		Stdout:   stdout,
		Stderr:   stderr,
		Adapters: adapters,
		Policies: policies,
	}, stdout, stderr
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{}, stdout, stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "run")
	assert.Contains(t, stdout.String(), "check")
}

func TestMain_Run_EndToEnd(t *testing.T) {
	t.Parallel()

	corpus := t.TempDir()
	writeFile(t, filepath.Join(corpus, "a.xml"), "<doc><p>alpha</p></doc>")
	writeFile(t, filepath.Join(corpus, "b.json"), `{"p": "beta"}`)
	outDir := filepath.Join(t.TempDir(), "out")

	m := main.NewMain()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"run", "--glob", filepath.Join(corpus, "*"), "-o", outDir}, stdout, stderr)
	require.NoError(t, err, "stderr: %s", stderr.String())
	assert.Contains(t, stdout.String(), "Processed 2 documents")

	a, err := os.ReadFile(filepath.Join(outDir, "a.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<doc><p>alpha</p></doc>", string(a))
	b, err := os.ReadFile(filepath.Join(outDir, "b.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"p": "beta"}`, string(b))
}

func TestMain_Run_CheckEndToEnd(t *testing.T) {
	t.Parallel()

	corpus := t.TempDir()
	writeFile(t, filepath.Join(corpus, "a.xml"), "<doc>\n  <p>alpha &amp; beta</p>\n</doc>")

	m := main.NewMain()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"check", "--glob", filepath.Join(corpus, "*.xml")}, stdout, stderr)

	require.NoError(t, err, "stderr: %s", stderr.String())
	assert.Contains(t, stdout.String(), "OK: 1 documents round-trip byte-for-byte")
}

func TestMain_Run_InstructionUsesInjectedEditor(t *testing.T) {
	t.Parallel()

	corpus := t.TempDir()
	writeFile(t, filepath.Join(corpus, "a.xml"), "<doc><p>alpha</p></doc>")
	outDir := filepath.Join(t.TempDir(), "out")

	m := main.NewMain()
	m.Editor = &mock.Editor{
		EditFn: func(_ context.Context, flatMap *structguard.FlatMap, _ string) (*structguard.FlatMap, error) {
			edited := structguard.NewFlatMap()
			for _, id := range flatMap.IDs() {
				text, _ := flatMap.Get(id)
				edited.Set(id, strings.ToUpper(text))
			}
			return edited, nil
		},
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"run", "--glob", filepath.Join(corpus, "*.xml"), "-o", outDir, "-i", "shout"}, stdout, stderr)
	require.NoError(t, err, "stderr: %s", stderr.String())

	a, err := os.ReadFile(filepath.Join(outDir, "a.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<doc><p>ALPHA</p></doc>", string(a))
}

func TestMain_Run_InstructionRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	corpus := t.TempDir()
	writeFile(t, filepath.Join(corpus, "a.xml"), "<doc><p>alpha</p></doc>")

	m := main.NewMain()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"run", "--glob", filepath.Join(corpus, "*.xml"), "-o", t.TempDir(), "-i", "shout"}, stdout, stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}
