package main

import (
	"context"
	"io"

	"github.com/structguard/structguard"
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
	Extract   ExtractCmd   `cmd:"" help:"Extract editable text from a document into a flat map and bundle"`
	Inject    InjectCmd    `cmd:"" help:"Rebuild a document from a bundle and an edited flat map"`
	Validate  ValidateCmd  `cmd:"" help:"Check an edited flat map against its bundle without writing anything"`
	Translate TranslateCmd `cmd:"" help:"Extract, edit with Gemini and rebuild in one pass"`
	Profiles  ProfilesCmd  `cmd:"" help:"List available selection profiles"`
	Serve     ServeCmd     `cmd:"" help:"Run the HTTP API server"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	File         string `arg:"" help:"Document to extract from"`
	Format       string `short:"f" help:"Document format, xml or json (default: by file extension)"`
	Profile      string `short:"p" default:"generic" help:"Selection profile"`
	ProfilesFile string `name:"profiles-file" env:"STRUCTGUARD_PROFILES" help:"YAML file with additional selection profiles"`
	Output       string `short:"o" default:"." help:"Directory for the flat map and bundle files"`
}

// InjectCmd is the "inject" subcommand.
type InjectCmd struct {
	Bundle       string `arg:"" help:"Metadata bundle file"`
	FlatMap      string `name:"flat-map" short:"m" required:"" help:"Edited flat map file"`
	Skeleton     string `short:"s" help:"Document file to rebuild against (default: the bundle's stored copy)"`
	Profile      string `short:"p" help:"Selection profile override"`
	ProfilesFile string `name:"profiles-file" env:"STRUCTGUARD_PROFILES" help:"YAML file with additional selection profiles"`
	Output       string `short:"o" help:"Output file (default: stdout)"`
}

// ValidateCmd is the "validate" subcommand.
type ValidateCmd struct {
	Bundle       string `arg:"" help:"Metadata bundle file"`
	FlatMap      string `name:"flat-map" short:"m" required:"" help:"Edited flat map file"`
	JSON         bool   `help:"Print the full report as JSON"`
	ProfilesFile string `name:"profiles-file" env:"STRUCTGUARD_PROFILES" help:"YAML file with additional selection profiles"`
}

// TranslateCmd is the "translate" subcommand.
type TranslateCmd struct {
	File         string `arg:"" help:"Document to transform"`
	Instruction  string `short:"i" required:"" help:"Edit instruction for the model"`
	Format       string `short:"f" help:"Document format, xml or json (default: by file extension)"`
	Profile      string `short:"p" default:"generic" help:"Selection profile"`
	ProfilesFile string `name:"profiles-file" env:"STRUCTGUARD_PROFILES" help:"YAML file with additional selection profiles"`
	Output       string `short:"o" help:"Output file (default: stdout)"`
}

// ProfilesCmd is the "profiles" subcommand.
type ProfilesCmd struct {
	ProfilesFile string `name:"profiles-file" env:"STRUCTGUARD_PROFILES" help:"YAML file with additional selection profiles"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr         string  `help:"Listen address (default: :8080, or :$PORT when PORT is set)"`
	Rate         float64 `env:"STRUCTGUARD_RATE" help:"Sustained requests per second (0 disables limiting)"`
	MaxBytes     int     `name:"max-bytes" help:"Per-document payload limit in bytes"`
	ProfilesFile string  `name:"profiles-file" env:"STRUCTGUARD_PROFILES" help:"YAML file with additional selection profiles"`
}
