// Package agentloop wires the Conversation Manager, Agent Directive
// Parser, Mode Gate, and Action Executor into the single-turn cycle the
// specification's ordering guarantees describe: user message appended,
// prompt built from the current history snapshot, the model's full reply
// fetched with one non-streaming Chat call (ChatStream is not used here),
// directives parsed in source order, actions executed sequentially. Grounded on the teacher's server.AgentFactory/agent loop
// wiring (framework.Agent driving LLM + tool registry + memory together)
// but reshaped around the specification's directive grammar instead of
// JSON tool calls.
package agentloop

import (
	"context"
	"fmt"

	"github.com/pairmap-ai/pairmap/internal/conversation"
	"github.com/pairmap-ai/pairmap/internal/directive"
	"github.com/pairmap-ai/pairmap/internal/executor"
	"github.com/pairmap-ai/pairmap/internal/llmclient"
	"github.com/pairmap-ai/pairmap/internal/modegate"
)

// ActionOutcome records what happened to one parsed action within a turn.
type ActionOutcome struct {
	Action   directive.Action
	Decision modegate.Decision
	Result   *executor.Result // nil when Decision is Confirm/NeedsConfirm/PlannedOnly
	Planned  string           // Describe() text when Decision is PlannedOnly
}

// TurnResult is everything produced by one user turn.
type TurnResult struct {
	AssistantText string
	Actions       []ActionOutcome
	Pending       []directive.Action // actions awaiting user confirmation
}

// Loop drives one conversation's turns against an LLM backend, a mode
// gate, and an action executor.
type Loop struct {
	Conversation *conversation.Conversation
	Store        *conversation.Store
	Gate         *modegate.Gate
	Executor     *executor.Executor
	LLM          *llmclient.Client
	TokenCount   conversation.TokenCounter

	MaxContextTokens int
	ReserveTokens    int

	SystemPrompt string
}

func actionKindFor(k directive.Kind) modegate.ActionKind {
	switch k {
	case directive.KindReadFile:
		return modegate.ActionRead
	case directive.KindWriteFile:
		return modegate.ActionWriteFile
	case directive.KindDeleteFile:
		return modegate.ActionDeleteFile
	case directive.KindCreateDirectory:
		return modegate.ActionCreateDirectory
	case directive.KindExecuteCommand:
		return modegate.ActionExecuteCommand
	case directive.KindGitStatus:
		return modegate.ActionGitStatus
	case directive.KindGitDiff:
		return modegate.ActionGitDiff
	case directive.KindGitCommit:
		return modegate.ActionGitCommit
	default:
		return modegate.ActionRead
	}
}

func commandTextFor(a directive.Action) string {
	if a.Kind == directive.KindExecuteCommand {
		return a.Command
	}
	return ""
}

// RunTurn appends the user's message, requests a completion over the full
// trimmed history, parses the resulting directives, and executes or defers
// each one per the mode gate's decision. A new turn must not begin while
// one is in flight; callers serialize calls to RunTurn themselves.
func (l *Loop) RunTurn(ctx context.Context, userText string) (*TurnResult, error) {
	l.Conversation.Append(conversation.Message{Role: conversation.RoleUser, Content: userText})

	history := l.Conversation.BuildHistoryForPrompt(l.MaxContextTokens, l.ReserveTokens, l.TokenCount)
	messages := make([]llmclient.ChatMessage, 0, len(history)+1)
	if l.SystemPrompt != "" {
		messages = append(messages, llmclient.ChatMessage{Role: "system", Content: l.SystemPrompt})
	}
	for _, m := range history {
		messages = append(messages, llmclient.ChatMessage{Role: string(m.Role), Content: m.Content})
	}

	resp, err := l.LLM.Chat(ctx, messages, nil)
	if err != nil {
		return nil, fmt.Errorf("llm chat: %w", err)
	}

	l.Conversation.Append(conversation.Message{Role: conversation.RoleAssistant, Content: resp.Text})
	if l.Store != nil {
		if err := l.Store.Save(l.Conversation); err != nil {
			return nil, fmt.Errorf("save conversation: %w", err)
		}
	}

	result := &TurnResult{AssistantText: resp.Text}
	actions := directive.Parse(resp.Text)
	for _, action := range actions {
		kind := actionKindFor(action.Kind)
		decision := l.Gate.Decide(kind, commandTextFor(action))

		outcome := ActionOutcome{Action: action, Decision: decision}
		switch decision {
		case modegate.DecisionExecute:
			r := l.Executor.Execute(ctx, action)
			outcome.Result = &r
		case modegate.DecisionPlannedOnly:
			outcome.Planned = l.Executor.Describe(action)
		case modegate.DecisionConfirm, modegate.DecisionNeedsConfirm:
			result.Pending = append(result.Pending, action)
		}
		result.Actions = append(result.Actions, outcome)
	}
	return result, nil
}

// ConfirmAndExecute runs a single previously-deferred action, bypassing
// the gate (the caller has already obtained user confirmation).
func (l *Loop) ConfirmAndExecute(ctx context.Context, action directive.Action) executor.Result {
	return l.Executor.Execute(ctx, action)
}
