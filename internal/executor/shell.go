package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pairmap-ai/pairmap/internal/modegate"
)

// shellInvocation returns the OS default shell and its single "run this
// string" flag.
func shellInvocation() (string, string) {
	if runtime.GOOS == "windows" {
		return "cmd.exe", "/C"
	}
	return "/bin/sh", "-c"
}

// executeCommand runs command through the OS default shell with stdin
// closed, capturing combined output, bounded by CommandTimeout. A nonzero
// exit code is appended to the output as a trailer.
func (e *Executor) executeCommand(ctx context.Context, command, workingDir string) Result {
	if err := modegate.CheckCommand(command); err != nil {
		return failure(err.Error())
	}

	dir := e.ProjectRoot
	if workingDir != "" {
		canon, err := e.resolve(workingDir)
		if err != nil {
			return failure(err.Error())
		}
		dir = canon
	}

	timeout := e.CommandTimeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	shell, flag := shellInvocation()
	cmd := exec.CommandContext(runCtx, shell, flag, command)
	cmd.Dir = dir
	cmd.Stdin = nil

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	combined := out.String()

	if runCtx.Err() == context.DeadlineExceeded {
		return failure(fmt.Sprintf("command timed out after %s: %s", timeout, combined))
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			combined = fmt.Sprintf("%s\nexit status %d", combined, exitErr.ExitCode())
			return success(combined)
		}
		return failure(fmt.Sprintf("command failed: %v", err))
	}
	return success(combined)
}
