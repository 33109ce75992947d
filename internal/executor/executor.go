// Package executor runs agent actions against the filesystem, shell, and
// git repository, grounded on the teacher's tools package (ReadFileTool,
// WriteFileTool, RunTestsTool, GitCommandTool) but adapted to the
// specification's tagged Action variant and sandboxed execution path.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pairmap-ai/pairmap/internal/directive"
	"github.com/pairmap-ai/pairmap/internal/modegate"
)

// Result is the tagged Success|Error action result the specification's
// contract calls for. ID is a fresh random UUID assigned to each result
// Execute returns.
type Result struct {
	ID      string
	Ok      bool
	Output  string
	Message string
}

func success(output string) Result { return Result{Ok: true, Output: output} }
func failure(message string) Result { return Result{Ok: false, Message: message} }

// DefaultCommandTimeout bounds shell execution duration.
const DefaultCommandTimeout = 30 * time.Second

// Executor runs actions rooted at ProjectRoot, sandboxing every file path
// and shell command before touching the filesystem.
type Executor struct {
	ProjectRoot    string
	CommandTimeout time.Duration
	Log            *zap.Logger
}

// New returns an Executor rooted at projectRoot with the default command
// timeout.
func New(projectRoot string, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{ProjectRoot: projectRoot, CommandTimeout: DefaultCommandTimeout, Log: log}
}

// Execute runs one action and returns its result. Planned-only rendering
// (PlanMode) is the caller's responsibility via Describe; Execute always
// performs the action.
func (e *Executor) Execute(ctx context.Context, action directive.Action) Result {
	var r Result
	switch action.Kind {
	case directive.KindReadFile:
		r = e.readFile(action.Path)
	case directive.KindWriteFile:
		r = e.writeFile(action.Path, action.Content)
	case directive.KindDeleteFile:
		r = e.deleteFile(action.Path)
	case directive.KindCreateDirectory:
		r = e.createDirectory(action.Path)
	case directive.KindExecuteCommand:
		r = e.executeCommand(ctx, action.Command, action.WorkingDir)
	case directive.KindGitStatus:
		r = e.gitStatus()
	case directive.KindGitDiff:
		r = e.gitDiff(action.Path)
	case directive.KindGitCommit:
		r = e.gitCommit(action.Message, action.Files)
	default:
		r = failure(fmt.Sprintf("unrecognized action kind %q", action.Kind))
	}
	r.ID = uuid.New().String()
	return r
}

// Describe renders the `[PLANNED]`-prefixed textual description the Mode
// Gate's PlanMode uses instead of executing.
func (e *Executor) Describe(action directive.Action) string {
	switch action.Kind {
	case directive.KindReadFile:
		return fmt.Sprintf("[PLANNED] read %s", action.Path)
	case directive.KindWriteFile:
		return fmt.Sprintf("[PLANNED] write %d bytes to %s", len(action.Content), action.Path)
	case directive.KindDeleteFile:
		return fmt.Sprintf("[PLANNED] delete %s", action.Path)
	case directive.KindCreateDirectory:
		return fmt.Sprintf("[PLANNED] create directory %s", action.Path)
	case directive.KindExecuteCommand:
		return fmt.Sprintf("[PLANNED] run %q", action.Command)
	case directive.KindGitStatus:
		return "[PLANNED] git status"
	case directive.KindGitDiff:
		return fmt.Sprintf("[PLANNED] git diff %s", action.Path)
	case directive.KindGitCommit:
		return fmt.Sprintf("[PLANNED] git commit %q", action.Message)
	default:
		return "[PLANNED] unrecognized action"
	}
}

func (e *Executor) resolve(path string) (string, error) {
	canon, err := modegate.ResolvePath(e.ProjectRoot, path)
	if err != nil {
		return "", err
	}
	return canon, nil
}
