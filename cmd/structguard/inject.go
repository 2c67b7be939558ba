package main

import (
	"fmt"
	"os"

	"github.com/structguard/structguard"
	"github.com/structguard/structguard/fs"
)

// Run executes the inject command.
func (c *InjectCmd) Run(deps *Dependencies) error {
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

	var opts structguard.InjectOptions
	if c.Skeleton != "" {
		data, err := os.ReadFile(c.Skeleton)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", err)
			return err
		}
		opts.Skeleton = string(data)
	}
	if c.Profile != "" {
		policy, err := deps.Policies.Get(c.Profile)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
			return err
		}
		opts.Policy = policy
	}

	output, err := adapter.Inject(deps.Ctx, flatMap, meta, opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	return writeOutput(deps, c.Output, output)
}
