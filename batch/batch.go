// Package batch provides multi-document processing orchestration.
// It runs extraction, optional editing, and injection over many
// documents concurrently, each document a self-contained round trip.
package batch

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/structguard/structguard"
	"golang.org/x/sync/errgroup"
)

// Runner orchestrates batch processing of documents.
type Runner struct {
	Adapters    *structguard.AdapterRegistry
	Policies    *structguard.PolicyRegistry
	Editor      structguard.Editor
	Instruction string
	Concurrency int
}

// Document is one unit of batch input.
type Document struct {
	Name    string
	Format  structguard.Format
	Content string
	Profile string
}

// Output holds the outcome of processing a single document.
type Output struct {
	Name    string
	Content string
	Nodes   int
	Err     error
}

// Result holds the aggregate outcome of a batch run.
type Result struct {
	Processed int
	Failed    int
	Nodes     int
	Bytes     int
}

// Drift describes a document whose no-edit round trip did not reproduce
// the input.
type Drift struct {
	Name string
	Err  error
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Name      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// runOutput holds the outcome of processing a single document.
type runOutput struct {
	position int
	name     string
	content  string
	nodes    int
	err      error
}

// Run processes all documents and returns per-document outputs in input
// order. A failed document is reported in its Output and in the result's
// Failed count; it never aborts the batch. The progress callback, if
// provided, receives events as processing proceeds.
func (r *Runner) Run(ctx context.Context, docs []Document, progress ProgressFunc) ([]Output, *Result, error) {
	total := len(docs)
	if total == 0 {
		return nil, &Result{}, nil
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	resultCh := make(chan runOutput, total)

	var completed atomic.Int64

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, doc := range docs {
			i, doc := i, doc
			g.Go(func() error {
				content, nodes, err := r.processDocument(gctx, doc)
				resultCh <- runOutput{position: i, name: doc.Name, content: content, nodes: nodes, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	outputs := make([]Output, total)
	result := &Result{}
	for out := range resultCh {
		completed.Add(1)
		outputs[out.position] = Output{Name: out.name, Content: out.content, Nodes: out.nodes, Err: out.err}

		if out.err != nil {
			result.Failed++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: int(completed.Load()),
					Total:     total,
					Name:      out.name,
					Error:     out.err,
				})
			}
			continue
		}

		result.Processed++
		result.Nodes += out.nodes
		result.Bytes += len(out.content)
		if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressCompleted,
				Completed: int(completed.Load()),
				Total:     total,
				Name:      out.name,
			})
		}
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return outputs, result, nil
}

// CheckFidelity runs every document through an extract → inject round
// trip with no edits and reports documents whose output differs from the
// input, compared by digest. A healthy corpus returns no drifts.
func (r *Runner) CheckFidelity(ctx context.Context, docs []Document, progress ProgressFunc) ([]Drift, *Result, error) {
	check := *r
	check.Editor = nil
	check.Instruction = ""

	outputs, result, err := check.Run(ctx, docs, progress)
	if err != nil {
		return nil, nil, err
	}

	var drifts []Drift
	for i, out := range outputs {
		if out.Err != nil {
			drifts = append(drifts, Drift{Name: out.Name, Err: out.Err})
			continue
		}
		if computeHash(out.Content) != computeHash(docs[i].Content) {
			drifts = append(drifts, Drift{Name: out.Name})
		}
	}
	return drifts, result, nil
}

// processDocument runs a single document through the pipeline.
func (r *Runner) processDocument(ctx context.Context, doc Document) (string, int, error) {
	adapter, err := r.Adapters.Get(doc.Format)
	if err != nil {
		return "", 0, err
	}

	policy, err := r.policyFor(doc.Profile)
	if err != nil {
		return "", 0, err
	}

	res, err := adapter.Extract(ctx, doc.Content, policy)
	if err != nil {
		return "", 0, err
	}

	flat := res.FlatMap
	if r.Editor != nil && r.Instruction != "" {
		flat, err = r.Editor.Edit(ctx, flat, r.Instruction)
		if err != nil {
			return "", 0, err
		}
	}

	out, err := adapter.Inject(ctx, flat, res.Metadata, structguard.InjectOptions{})
	if err != nil {
		return "", 0, err
	}
	return out, res.FlatMap.Len(), nil
}

func (r *Runner) policyFor(profile string) (structguard.SelectionPolicy, error) {
	if profile == "" {
		return structguard.GenericPolicy{}, nil
	}
	policies := r.Policies
	if policies == nil {
		policies = structguard.NewPolicyRegistry()
	}
	return policies.Get(profile)
}

// computeHash computes a hash of the content using xxhash.
func computeHash(content string) string {
	h := xxhash.Sum64String(content)
	return fmt.Sprintf("%x", h)
}

// TruncateName shortens a name for display, keeping the end which is
// more informative for file paths.
func TruncateName(name string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return name[:min(len(name), maxLen)]
	}
	if len(name) <= maxLen {
		return name
	}
	return "..." + name[len(name)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
