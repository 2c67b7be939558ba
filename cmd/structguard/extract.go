package main

import (
	"fmt"
	"os"

	"github.com/structguard/structguard"
	"github.com/structguard/structguard/fs"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	if err := loadProfiles(deps, c.ProfilesFile); err != nil {
		return err
	}

	format, err := resolveFormat(c.File, c.Format)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	adapter, err := deps.Adapters.Get(format)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	policy, err := deps.Policies.Get(c.Profile)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	content, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	result, err := adapter.Extract(deps.Ctx, string(content), policy)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	flatPath, bundlePath, err := fs.WriteExtraction(c.Output, fs.DeriveName(c.File), result)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Extracted %d segments from %s\n", result.FlatMap.Len(), c.File)
	fmt.Fprintf(deps.Stdout, "  flat map: %s\n", flatPath)
	fmt.Fprintf(deps.Stdout, "  bundle:   %s\n", bundlePath)
	return nil
}
