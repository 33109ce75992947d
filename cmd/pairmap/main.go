// Command pairmap is the CLI entry point driving the Agent Action Loop,
// grounded on the teacher's cmd/relurpify/main.go cobra wiring (persistent
// flags shared across subcommands, envOrDefault fallback idiom) but
// collapsed to pairmap's single-orchestrator CLI surface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagModel        string
	flagConfigPath   string
	flagProjectPath  string
	flagVerbose      bool
	flagPrompt       string
	flagOutputFormat string
	flagMaxTokens    int
	flagNoExecute    bool
	flagResume       bool
	flagContinue     bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pairmap",
		Short: "Interactive AI pair-programming assistant",
		RunE:  runRoot,
	}
	root.PersistentFlags().StringVar(&flagModel, "model", envOrDefault("PAIRMAP_MODEL_NAME", ""), "model id to use")
	root.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to an additional config file")
	root.PersistentFlags().StringVar(&flagProjectPath, "path", ".", "project root directory")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable verbose structured logging")
	root.PersistentFlags().StringVar(&flagPrompt, "prompt", "", "run one prompt non-interactively and exit")
	root.PersistentFlags().StringVar(&flagOutputFormat, "output-format", "text", "text|json|markdown")
	root.PersistentFlags().IntVar(&flagMaxTokens, "max-tokens", 0, "override the configured max_tokens")
	root.PersistentFlags().BoolVar(&flagNoExecute, "no-execute", false, "parse directives but never execute them")
	root.PersistentFlags().BoolVar(&flagResume, "resume", false, "resume the last conversation for this project")
	root.PersistentFlags().BoolVar(&flagContinue, "continue", false, "alias for --resume")

	root.AddCommand(newMapCmd())
	return root
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
