package mock

import (
	"context"

	"github.com/structguard/structguard"
)

var _ structguard.Adapter = (*Adapter)(nil)

// Adapter is a mock implementation of structguard.Adapter.
type Adapter struct {
	FormatFn  func() structguard.Format
	ExtractFn func(ctx context.Context, content string, policy structguard.SelectionPolicy) (*structguard.ExtractionResult, error)
	InjectFn  func(ctx context.Context, flatMap *structguard.FlatMap, meta *structguard.MetadataBundle, opts structguard.InjectOptions) (string, error)
}

func (a *Adapter) Format() structguard.Format {
	return a.FormatFn()
}

func (a *Adapter) Extract(ctx context.Context, content string, policy structguard.SelectionPolicy) (*structguard.ExtractionResult, error) {
	return a.ExtractFn(ctx, content, policy)
}

func (a *Adapter) Inject(ctx context.Context, flatMap *structguard.FlatMap, meta *structguard.MetadataBundle, opts structguard.InjectOptions) (string, error) {
	return a.InjectFn(ctx, flatMap, meta, opts)
}
