package main

import (
	"fmt"
	"os"

	"github.com/structguard/structguard"
)

// Run executes the translate command.
func (c *TranslateCmd) Run(deps *Dependencies) error {
	if deps.Editor == nil {
		err := structguard.Errorf(structguard.EINTERNAL, "no editor configured")
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

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

	edited, err := deps.Editor.Edit(deps.Ctx, result.FlatMap, c.Instruction)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	output, err := adapter.Inject(deps.Ctx, edited, result.Metadata, structguard.InjectOptions{Policy: policy})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}

	// Progress goes to stderr so a piped stdout carries only the document.
	fmt.Fprintf(deps.Stderr, "Edited %d segments in %s\n", result.FlatMap.Len(), c.File)
	return writeOutput(deps, c.Output, output)
}
