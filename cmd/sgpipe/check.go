package main

import (
	"fmt"

	"github.com/structguard/structguard"
	"github.com/structguard/structguard/batch"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	if err := loadProfiles(deps, c.ProfilesFile); err != nil {
		return err
	}

	docs, err := collectDocuments(c.Glob, c.Profile)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	runner := &batch.Runner{
		Adapters:    deps.Adapters,
		Policies:    deps.Policies,
		Concurrency: c.Concurrency,
	}

	drifts, result, err := runner.CheckFidelity(deps.Ctx, docs, progressPrinter(deps))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	if len(drifts) == 0 {
		fmt.Fprintf(deps.Stdout, "OK: %d documents round-trip byte-for-byte\n", result.Processed)
		return nil
	}

	for _, drift := range drifts {
		if drift.Err != nil {
			fmt.Fprintf(deps.Stdout, "drift %s: %s\n", drift.Name, structguard.ErrorMessage(drift.Err))
		} else {
			fmt.Fprintf(deps.Stdout, "drift %s: rebuilt bytes differ\n", drift.Name)
		}
	}
	err = structguard.Errorf(structguard.ERECONSTRUCT, "%d of %d documents do not round-trip", len(drifts), len(docs))
	fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
	return err
}
