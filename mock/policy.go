package mock

import "github.com/structguard/structguard"

var _ structguard.SelectionPolicy = (*SelectionPolicy)(nil)

// SelectionPolicy is a mock implementation of structguard.SelectionPolicy.
type SelectionPolicy struct {
	ExtractableFn func(tag, path string, attrs map[string]string) bool
	NameFn        func() string
}

func (p *SelectionPolicy) Extractable(tag, path string, attrs map[string]string) bool {
	return p.ExtractableFn(tag, path, attrs)
}

func (p *SelectionPolicy) Name() string {
	return p.NameFn()
}
