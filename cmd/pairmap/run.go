package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pairmap-ai/pairmap/internal/agentloop"
	"github.com/pairmap-ai/pairmap/internal/conversation"
	"github.com/pairmap-ai/pairmap/internal/executor"
	"github.com/pairmap-ai/pairmap/internal/llmclient"
	"github.com/pairmap-ai/pairmap/internal/modegate"
	"github.com/pairmap-ai/pairmap/internal/pairmapcfg"
	"github.com/pairmap-ai/pairmap/internal/session"
	"github.com/spf13/cobra"
)

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := pairmapcfg.Build(flagProjectPath, flagConfigPath, flagModel, flagVerbose)
	if err != nil {
		return err
	}
	defer env.Logger.Sync()

	loop, err := buildLoop(env)
	if err != nil {
		return err
	}

	if flagPrompt != "" {
		return runOneShot(ctx, loop)
	}
	return runInteractive(ctx, loop)
}

func buildLoop(env *pairmapcfg.Env) (*agentloop.Loop, error) {
	store, err := conversation.NewStore(env.ProjectPath)
	if err != nil {
		return nil, fmt.Errorf("conversation store: %w", err)
	}

	var conv *conversation.Conversation
	if flagResume || flagContinue {
		conv, err = store.LoadLast()
		if err != nil {
			return nil, fmt.Errorf("resume conversation: %w", err)
		}
	}
	if conv == nil {
		conv = conversation.New(env.Config.Model.Name, env.ProjectPath)
	}

	gate := modegate.NewGate()
	if env.SessionState.OperationMode != "" {
		gate.SetMode(modegate.Mode(env.SessionState.OperationMode))
	}
	if flagNoExecute {
		gate.SetMode(modegate.ModePlan)
	}

	maxTokens := env.Config.Model.MaxTokens
	if flagMaxTokens > 0 {
		maxTokens = flagMaxTokens
	}

	return &agentloop.Loop{
		Conversation:     conv,
		Store:            store,
		Gate:             gate,
		Executor:         executor.New(env.ProjectPath, env.Logger),
		LLM:              llmclient.NewClient(env.Config.ProxyURL, env.Config.Model.Name).WithToken(env.Config.MasterKey).WithLogger(env.Logger),
		TokenCount:       estimateTokens,
		MaxContextTokens: env.Config.Context.MaxContextTokens,
		ReserveTokens:    maxTokens,
		SystemPrompt:     env.Config.Model.SystemPrompt,
	}, nil
}

// estimateTokens is a cheap, tokenizer-agnostic fallback: roughly 4 bytes
// per token, the same ratio the lazyctx loader falls back to when it is
// given no token counter.
func estimateTokens(s string) int {
	n := len(s) / 4
	if n == 0 && s != "" {
		n = 1
	}
	return n
}

func runOneShot(ctx context.Context, loop *agentloop.Loop) error {
	result, err := loop.RunTurn(ctx, flagPrompt)
	if err != nil {
		return err
	}
	if err := saveSession(loop); err != nil {
		return err
	}
	return renderTurn(os.Stdout, result)
}

func runInteractive(ctx context.Context, loop *agentloop.Loop) error {
	defer saveSession(loop)
	return runTUI(ctx, loop)
}

func saveSession(loop *agentloop.Loop) error {
	return session.Save(session.State{
		LastUsedModel:   loop.Conversation.Model,
		LastProjectPath: loop.Conversation.ProjectPath,
		OperationMode:   string(loop.Gate.Mode()),
	})
}

func renderTurn(w *os.File, result *agentloop.TurnResult) error {
	switch flagOutputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "markdown":
		fmt.Fprintf(w, "**assistant:** %s\n", result.AssistantText)
	default:
		bw := bufio.NewWriter(w)
		defer bw.Flush()
		fmt.Fprintln(bw, result.AssistantText)
		for _, a := range result.Actions {
			if a.Result != nil {
				fmt.Fprintf(bw, "  [%s] %s\n", a.Action.Kind, a.Result.Output)
			}
		}
		for _, p := range result.Pending {
			fmt.Fprintf(bw, "  [pending confirmation] %s %s\n", p.Kind, p.Path)
		}
	}
	return nil
}
