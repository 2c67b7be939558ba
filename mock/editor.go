package mock

import (
	"context"

	"github.com/structguard/structguard"
)

var _ structguard.Editor = (*Editor)(nil)

// Editor is a mock implementation of structguard.Editor.
type Editor struct {
	EditFn func(ctx context.Context, flatMap *structguard.FlatMap, instruction string) (*structguard.FlatMap, error)
}

func (e *Editor) Edit(ctx context.Context, flatMap *structguard.FlatMap, instruction string) (*structguard.FlatMap, error) {
	return e.EditFn(ctx, flatMap, instruction)
}
