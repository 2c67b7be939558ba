package main

import (
	"encoding/json"
	"fmt"

	"github.com/structguard/structguard"
	"github.com/structguard/structguard/fs"
)

// Run executes the validate command. It dry-runs the comparison injection
// would make and reports per-segment changes; segment ids the document
// cannot place turn the exit status non-zero.
func (c *ValidateCmd) Run(deps *Dependencies) error {
	if err := loadProfiles(deps, c.ProfilesFile); err != nil {
		return err
	}

	meta, err := fs.ReadBundle(c.Bundle)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	flatMap, err := fs.ReadFlatMap(c.FlatMap)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	adapter, err := deps.Adapters.Get(meta.Format)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	var policy structguard.SelectionPolicy = structguard.GenericPolicy{}
	if meta.Profile != "" {
		policy, err = deps.Policies.Get(meta.Profile)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
			return err
		}
	}

	fresh, err := adapter.Extract(deps.Ctx, meta.Skeleton(), policy)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	report := structguard.BuildValidationReport(fresh, flatMap)

	if c.JSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(deps.Stdout, "%s\n", data)
	} else {
		stats := report.DiffStats
		fmt.Fprintf(deps.Stdout, "status: %s\n", report.Status)
		fmt.Fprintf(deps.Stdout, "segments: %d total, %d modified, %d unchanged\n",
			stats.TotalNodes, stats.ModifiedNodes, stats.UnchangedNodes)
		for _, change := range report.Changes {
			fmt.Fprintf(deps.Stdout, "  ~ %s (%s)\n", change.ID, change.Path)
		}
		for _, issue := range report.Errors {
			fmt.Fprintf(deps.Stdout, "  ! %s: %s\n", issue.NodeID, issue.Error)
		}
	}

	if report.Status != structguard.ValidationStatusValid {
		err := structguard.Errorf(structguard.ERECONSTRUCT, "flat map has %d segment id(s) the document cannot place", report.DiffStats.UnknownKeys)
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}
	return nil
}
