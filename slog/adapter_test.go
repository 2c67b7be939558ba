package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/structguard/structguard"
	"github.com/structguard/structguard/mock"
	sgslog "github.com/structguard/structguard/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingAdapter_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs format node count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Adapter{
			FormatFn: func() structguard.Format { return structguard.FormatXML },
			ExtractFn: func(ctx context.Context, content string, policy structguard.SelectionPolicy) (*structguard.ExtractionResult, error) {
				flat := structguard.NewFlatMap()
				flat.Set("node_0", "Hello")
				flat.Set("node_1", "World")
				return &structguard.ExtractionResult{FlatMap: flat, Metadata: &structguard.MetadataBundle{}}, nil
			},
		}

		adapter := sgslog.NewLoggingAdapter(inner, logger)
		res, err := adapter.Extract(context.Background(), "<a>Hello</a>", nil)

		require.NoError(t, err)
		assert.Equal(t, 2, res.FlatMap.Len())
		output := buf.String()
		assert.Contains(t, output, "extract")
		assert.Contains(t, output, "format=xml")
		assert.Contains(t, output, "nodes=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Adapter{
			FormatFn: func() structguard.Format { return structguard.FormatXML },
			ExtractFn: func(ctx context.Context, content string, policy structguard.SelectionPolicy) (*structguard.ExtractionResult, error) {
				return nil, errors.New("bad document")
			},
		}

		adapter := sgslog.NewLoggingAdapter(inner, logger)
		_, err := adapter.Extract(context.Background(), "<", nil)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "err=\"bad document\"")
		assert.Contains(t, output, "nodes=0")
	})
}

func TestLoggingAdapter_Inject(t *testing.T) {
	t.Parallel()

	t.Run("logs key count and output size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Adapter{
			FormatFn: func() structguard.Format { return structguard.FormatJSON },
			InjectFn: func(ctx context.Context, flatMap *structguard.FlatMap, meta *structguard.MetadataBundle, opts structguard.InjectOptions) (string, error) {
				return `{"a":"x"}`, nil
			},
		}

		flat := structguard.NewFlatMap()
		flat.Set("node_0", "x")

		adapter := sgslog.NewLoggingAdapter(inner, logger)
		out, err := adapter.Inject(context.Background(), flat, &structguard.MetadataBundle{}, structguard.InjectOptions{})

		require.NoError(t, err)
		assert.Equal(t, `{"a":"x"}`, out)
		output := buf.String()
		assert.Contains(t, output, "inject")
		assert.Contains(t, output, "format=json")
		assert.Contains(t, output, "keys=1")
		assert.Contains(t, output, "bytes=9")
	})
}

func TestLoggingEditor_Edit(t *testing.T) {
	t.Parallel()

	t.Run("logs segment count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Editor{
			EditFn: func(ctx context.Context, flatMap *structguard.FlatMap, instruction string) (*structguard.FlatMap, error) {
				return flatMap, nil
			},
		}

		flat := structguard.NewFlatMap()
		flat.Set("node_0", "Hello")

		editor := sgslog.NewLoggingEditor(inner, logger)
		_, err := editor.Edit(context.Background(), flat, "shorten")

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "edit")
		assert.Contains(t, output, "segments=1")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Editor{
			EditFn: func(ctx context.Context, flatMap *structguard.FlatMap, instruction string) (*structguard.FlatMap, error) {
				return nil, errors.New("model unavailable")
			},
		}

		editor := sgslog.NewLoggingEditor(inner, logger)
		_, err := editor.Edit(context.Background(), structguard.NewFlatMap(), "shorten")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"model unavailable\"")
	})
}
