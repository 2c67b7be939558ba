package main

import (
	"fmt"
	"io"

	"github.com/structguard/structguard"
	"github.com/structguard/structguard/batch"
	"github.com/structguard/structguard/fs"
	"github.com/structguard/structguard/yaml"
)

// loadProfiles merges any --profiles-file tag sets into the shared policy
// registry so both the command and injection-time resolution see them.
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

// resolveFormat returns the explicit format when one was given, otherwise
// infers it from the file extension.
func resolveFormat(file, explicit string) (structguard.Format, error) {
	if explicit != "" {
		return structguard.ParseFormat(explicit)
	}
	return structguard.FormatForPath(file)
}

// writeOutput writes a rebuilt document to path, or to stdout when path
// is empty so the result can be piped.
func writeOutput(deps *Dependencies, path, content string) error {
	if path == "" {
		_, err := io.WriteString(deps.Stdout, content)
		return err
	}
	if err := fs.WriteFileAtomic(path, []byte(content)); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %s (%s)\n", path, batch.FormatBytes(len(content)))
	return nil
}
