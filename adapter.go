package structguard

import "context"

// Adapter implements extraction and injection for one document format.
// Implementations are stateless: every call is self-contained and safe
// for concurrent use.
type Adapter interface {
	// Format returns the document format the adapter handles.
	Format() Format

	// Extract parses content, walks it in document order and returns every
	// policy-selected text segment as a flat map entry plus the metadata
	// bundle injection needs. A document with no extractable text yields an
	// empty flat map, not an error. Malformed content returns EPARSE.
	Extract(ctx context.Context, content string, policy SelectionPolicy) (*ExtractionResult, error)

	// Inject re-parses the skeleton, re-derives the node set and merges the
	// edited segments back in. Output is byte-identical to the skeleton
	// except where edits apply. Flat map keys that match no derived node
	// fail the whole call with ERECONSTRUCT; omitted keys leave their
	// segments untouched.
	Inject(ctx context.Context, flatMap *FlatMap, meta *MetadataBundle, opts InjectOptions) (string, error)
}

// InjectOptions carries optional inject-time overrides.
type InjectOptions struct {
	// Skeleton replaces the bundle's original content as the document to
	// rebuild. It must derive the same node set or injection refuses.
	Skeleton string

	// Policy re-derives the node set under an explicit policy. When its
	// name disagrees with the bundle's recorded profile and the node sets
	// diverge, injection fails with EPOLICY instead of guessing which side
	// is right.
	Policy SelectionPolicy
}
