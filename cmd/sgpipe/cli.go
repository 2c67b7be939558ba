package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/structguard/structguard"
	"github.com/structguard/structguard/batch"
	"github.com/structguard/structguard/yaml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Adapters *structguard.AdapterRegistry
	Policies *structguard.PolicyRegistry
	Editor   structguard.Editor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Run   RunCmd   `cmd:"" help:"Rebuild every matching document, optionally editing segments on the way"`
	Check CheckCmd `cmd:"" help:"Verify that every matching document survives an unedited round trip"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Glob         string `required:"" help:"Glob pattern of documents to process"`
	Output       string `short:"o" required:"" help:"Directory for rebuilt documents"`
	Instruction  string `short:"i" help:"Edit instruction applied to every document"`
	Profile      string `short:"p" help:"Selection profile"`
	ProfilesFile string `name:"profiles-file" env:"STRUCTGUARD_PROFILES" help:"YAML file with additional selection profiles"`
	Concurrency  int    `short:"c" default:"4" help:"Concurrent document limit"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	Glob         string `required:"" help:"Glob pattern of documents to verify"`
	Profile      string `short:"p" help:"Selection profile"`
	ProfilesFile string `name:"profiles-file" env:"STRUCTGUARD_PROFILES" help:"YAML file with additional selection profiles"`
	Concurrency  int    `short:"c" default:"4" help:"Concurrent document limit"`
}

// loadProfiles merges any --profiles-file tag sets into the shared policy
// registry.
func loadProfiles(deps *Dependencies, path string) error {
	if path == "" {
		return nil
	}
	if err := yaml.RegisterFile(deps.Policies, path); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", structguard.ErrorMessage(err))
		return err
	}
	return nil
}

// collectDocuments reads every file matching pattern into a batch
// document. The format comes from each file's extension, so a pattern
// must only match .xml and .json files.
func collectDocuments(pattern, profile string) ([]batch.Document, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, structguard.Errorf(structguard.EINVALID, "bad glob pattern %q: %v", pattern, err)
	}
	if len(paths) == 0 {
		return nil, structguard.Errorf(structguard.ENOTFOUND, "no files match %q", pattern)
	}

	docs := make([]batch.Document, 0, len(paths))
	for _, path := range paths {
		format, err := structguard.FormatForPath(path)
		if err != nil {
			return nil, err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, batch.Document{
			Name:    path,
			Format:  format,
			Content: string(content),
			Profile: profile,
		})
	}
	return docs, nil
}

// progressPrinter renders batch progress the way an attended terminal
// expects: a live counter line on stdout, failures on stderr.
func progressPrinter(deps *Dependencies) batch.ProgressFunc {
	return func(event batch.ProgressEvent) {
		switch event.Type {
		case batch.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d documents\n", event.Total)
		case batch.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "\r[%d/%d] %s", event.Completed, event.Total, batch.TruncateName(event.Name, 40))
		case batch.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "skip %s: %s\n", event.Name, structguard.ErrorMessage(event.Error))
			fmt.Fprintf(deps.Stdout, "\r[%d/%d] %s", event.Completed, event.Total, batch.TruncateName(event.Name, 40))
		case batch.ProgressFinished:
			// Clear the counter line
			fmt.Fprintf(deps.Stdout, "\r%80s\r", "")
		}
	}
}
