package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/structguard/structguard"
	"github.com/structguard/structguard/etree"
	"github.com/structguard/structguard/gemini"
	"github.com/structguard/structguard/sjson"
	sgslog "github.com/structguard/structguard/slog"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Editor used by run --instruction. Left nil, Run wires a Gemini
	// editor from GEMINI_API_KEY. Set for end-to-end testing.
	Editor structguard.Editor
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	_ = godotenv.Load()

	policies := structguard.NewPolicyRegistry()
	adapters := structguard.NewAdapterRegistry()
	adapters.Register(etree.NewAdapter(policies))
	adapters.Register(sjson.NewAdapter(policies))

	deps := &Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Adapters: adapters,
		Policies: policies,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sgpipe"),
		kong.Description("Batch extract-and-rebuild pipeline for document corpora"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sgpipe --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// The model is only needed when run applies an edit instruction.
	if cmd == "run" && cli.Run.Instruction != "" {
		deps.Editor = m.Editor
		if deps.Editor == nil {
			apiKey := os.Getenv("GEMINI_API_KEY")
			if apiKey == "" {
				fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
				return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
			}

			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  apiKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
				return fmt.Errorf("failed to connect to Gemini API: %w", err)
			}

			logger := slog.New(slog.NewTextHandler(stderr, nil))
			deps.Editor = sgslog.NewLoggingEditor(gemini.NewEditor(client), logger)
		}
	}

	return kongCtx.Run(deps)
}
