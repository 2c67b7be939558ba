package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/structguard/structguard"
	"github.com/structguard/structguard/batch"
	"github.com/structguard/structguard/fs"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	if err := loadProfiles(deps, c.ProfilesFile); err != nil {
		return err
	}

	docs, err := collectDocuments(c.Glob, c.Profile)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	if err := os.MkdirAll(c.Output, 0755); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	runner := &batch.Runner{
		Adapters:    deps.Adapters,
		Policies:    deps.Policies,
		Editor:      deps.Editor,
		Instruction: c.Instruction,
		Concurrency: c.Concurrency,
	}

	outputs, result, err := runner.Run(deps.Ctx, docs, progressPrinter(deps))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	for _, out := range outputs {
		if out.Err != nil {
			continue
		}
		path := filepath.Join(c.Output, filepath.Base(out.Name))
		if err := fs.WriteFileAtomic(path, []byte(out.Content)); err != nil {
			fmt.Fprintf(deps.Stderr, "error saving %s: %v\n", path, err)
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "Processed %d documents, %d segments, %s\n",
		result.Processed, result.Nodes, batch.FormatBytes(result.Bytes))

	if result.Failed > 0 {
		err := structguard.Errorf(structguard.EINTERNAL, "%d of %d documents failed", result.Failed, len(docs))
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}
	return nil
}
