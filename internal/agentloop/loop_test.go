package agentloop

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pairmap-ai/pairmap/internal/conversation"
	"github.com/pairmap-ai/pairmap/internal/directive"
	"github.com/pairmap-ai/pairmap/internal/executor"
	"github.com/pairmap-ai/pairmap/internal/llmclient"
	"github.com/pairmap-ai/pairmap/internal/modegate"
)

func countWords(s string) int { return len(s) / 4 }

func newLoop(t *testing.T, assistantReply string, mode modegate.Mode) (*Loop, string) {
	t.Helper()
	root := t.TempDir()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":` + jsonQuote(assistantReply) + `}}]}`))
	}))
	t.Cleanup(srv.Close)

	gate := modegate.NewGate()
	gate.SetMode(mode)

	store, err := conversation.NewStore(root)
	require.NoError(t, err)

	loop := &Loop{
		Conversation:     conversation.New("test-model", root),
		Store:            store,
		Gate:             gate,
		Executor:         executor.New(root, zap.NewNop()),
		LLM:              llmclient.NewClient(srv.URL, "test-model"),
		TokenCount:       countWords,
		MaxContextTokens: 50000,
		ReserveTokens:    500,
	}
	return loop, root
}

func jsonQuote(s string) string {
	quoted, _ := json.Marshal(s)
	return string(quoted)
}

func directiveWriteAction(path, content string) directive.Action {
	return directive.Action{Kind: directive.KindWriteFile, Path: path, Content: content}
}

func TestRunTurnExecutesReadOnlyActionImmediately(t *testing.T) {
	loop, root := newLoop(t, "Sure.\n[FILE_READ: a.go][/FILE_READ]", modegate.ModeNormal)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a"), 0o644))

	result, err := loop.RunTurn(context.Background(), "read a.go please")
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, modegate.DecisionExecute, result.Actions[0].Decision)
	require.NotNil(t, result.Actions[0].Result)
	assert.True(t, result.Actions[0].Result.Ok)
	assert.Contains(t, result.Actions[0].Result.Output, "package a")
}

func TestRunTurnDefersWriteInNormalMode(t *testing.T) {
	loop, _ := newLoop(t, "[FILE_WRITE: a.go]package a\n[/FILE_WRITE]", modegate.ModeNormal)

	result, err := loop.RunTurn(context.Background(), "write a.go")
	require.NoError(t, err)
	require.Len(t, result.Pending, 1)
	assert.Equal(t, modegate.DecisionConfirm, result.Actions[0].Decision)
}

func TestRunTurnRendersPlannedOnlyInPlanMode(t *testing.T) {
	loop, _ := newLoop(t, "[FILE_WRITE: a.go]package a\n[/FILE_WRITE]", modegate.ModePlan)

	result, err := loop.RunTurn(context.Background(), "write a.go")
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, modegate.DecisionPlannedOnly, result.Actions[0].Decision)
	assert.Contains(t, result.Actions[0].Planned, "[PLANNED]")
	assert.Empty(t, result.Pending)
}

func TestRunTurnPersistsConversationAfterEachTurn(t *testing.T) {
	loop, _ := newLoop(t, "hello back", modegate.ModeNormal)

	_, err := loop.RunTurn(context.Background(), "hi")
	require.NoError(t, err)

	loaded, err := loop.Store.Load(loop.Conversation.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, "hello back", loaded.Messages[1].Content)
}

func TestConfirmAndExecuteRunsDeferredAction(t *testing.T) {
	loop, root := newLoop(t, "", modegate.ModeNormal)
	action := directiveWriteAction("new.go", "package main")

	res := loop.ConfirmAndExecute(context.Background(), action)
	require.True(t, res.Ok)

	data, err := os.ReadFile(filepath.Join(root, "new.go"))
	require.NoError(t, err)
	assert.Equal(t, "package main", string(data))
}
