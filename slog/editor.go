package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/structguard/structguard"
)

// Ensure LoggingEditor implements structguard.Editor.
var _ structguard.Editor = (*LoggingEditor)(nil)

// LoggingEditor wraps an Editor with operation logging.
type LoggingEditor struct {
	next   structguard.Editor
	logger *slog.Logger
}

// NewLoggingEditor creates a new LoggingEditor.
func NewLoggingEditor(next structguard.Editor, logger *slog.Logger) *LoggingEditor {
	return &LoggingEditor{next: next, logger: logger}
}

// Edit delegates to the wrapped editor and logs the operation.
func (e *LoggingEditor) Edit(ctx context.Context, flatMap *structguard.FlatMap, instruction string) (edited *structguard.FlatMap, err error) {
	defer func(begin time.Time) {
		segments := 0
		if flatMap != nil {
			segments = flatMap.Len()
		}
		e.logger.Info("edit",
			"segments", segments,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Edit(ctx, flatMap, instruction)
}
