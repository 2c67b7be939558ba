package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/structguard/structguard"
)

// Ensure LoggingAdapter implements structguard.Adapter.
var _ structguard.Adapter = (*LoggingAdapter)(nil)

// LoggingAdapter wraps an Adapter with operation logging.
type LoggingAdapter struct {
	next   structguard.Adapter
	logger *slog.Logger
}

// NewLoggingAdapter creates a new LoggingAdapter.
func NewLoggingAdapter(next structguard.Adapter, logger *slog.Logger) *LoggingAdapter {
	return &LoggingAdapter{next: next, logger: logger}
}

// Format delegates to the wrapped adapter.
func (a *LoggingAdapter) Format() structguard.Format {
	return a.next.Format()
}

// Extract delegates to the wrapped adapter and logs the operation.
func (a *LoggingAdapter) Extract(ctx context.Context, content string, policy structguard.SelectionPolicy) (res *structguard.ExtractionResult, err error) {
	defer func(begin time.Time) {
		nodes := 0
		if res != nil {
			nodes = res.FlatMap.Len()
		}
		a.logger.Info("extract",
			"format", a.next.Format(),
			"bytes", len(content),
			"nodes", nodes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Extract(ctx, content, policy)
}

// Inject delegates to the wrapped adapter and logs the operation.
func (a *LoggingAdapter) Inject(ctx context.Context, flatMap *structguard.FlatMap, meta *structguard.MetadataBundle, opts structguard.InjectOptions) (out string, err error) {
	defer func(begin time.Time) {
		keys := 0
		if flatMap != nil {
			keys = flatMap.Len()
		}
		a.logger.Info("inject",
			"format", a.next.Format(),
			"keys", keys,
			"bytes", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Inject(ctx, flatMap, meta, opts)
}
