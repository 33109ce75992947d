package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pairmap-ai/pairmap/internal/cache"
	"github.com/pairmap-ai/pairmap/internal/graph"
	"github.com/pairmap-ai/pairmap/internal/lazyctx"
	"github.com/pairmap-ai/pairmap/internal/symbols"
)

func newMapCmd() *cobra.Command {
	var tokenBudget int
	var chatFiles []string
	var mentioned []string

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Print a token-budgeted repository map",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(flagProjectPath)
			if err != nil {
				return err
			}

			registry := symbols.NewRegistry()
			registry.RegisterDefaults()

			c, err := cache.New(cache.DefaultRoot(), "pairmap")
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}

			loader, err := lazyctx.LoadStructure(root, lazyctx.DefaultOptions(), estimateTokens)
			if err != nil {
				return fmt.Errorf("discover repository: %w", err)
			}

			g := graph.New()
			for _, fe := range loader.Entries() {
				content, ok := loader.GetFile(fe.Path)
				if !ok {
					continue
				}
				syms, refs, err := c.GetOrComputeSymbols(fe.Path, content, registry)
				if err != nil {
					continue
				}
				g.AddFile(fe.Path, syms)
				g.AddReferences(refs)
			}

			builder := graph.NewMapBuilder(g, estimateTokens)
			output := builder.GenerateMap(tokenBudget, chatFiles, mentioned)
			fmt.Fprintln(os.Stdout, output)
			return nil
		},
	}
	cmd.Flags().IntVar(&tokenBudget, "budget", 4096, "token budget for the rendered map")
	cmd.Flags().StringSliceVar(&chatFiles, "chat-file", nil, "file currently open in the conversation (repeatable)")
	cmd.Flags().StringSliceVar(&mentioned, "mention", nil, "file mentioned but not open (repeatable)")
	return cmd
}
