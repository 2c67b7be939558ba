package structguard

import "context"

// Editor rewrites extracted text segments according to an instruction.
// It is the structure-blind side of the pipeline: an editor only ever
// sees plain text keyed by node ID, never markup, and must return a flat
// map with exactly the same IDs.
type Editor interface {
	// Edit applies instruction (e.g. "translate to French") to every
	// segment and returns the rewritten flat map. Implementations must
	// preserve the ID set; the engine treats added or dropped IDs as an
	// editor fault, not an edit.
	Edit(ctx context.Context, flatMap *FlatMap, instruction string) (*FlatMap, error)
}
