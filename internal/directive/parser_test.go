package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrdersActionsWriteReadCommandGit(t *testing.T) {
	text := `
Here is my plan.
[FILE_READ: a.go][/FILE_READ]
[FILE_WRITE: b.go]
package b
[/FILE_WRITE]
[COMMAND: ls][/COMMAND]
`
	actions := Parse(text)
	require.Len(t, actions, 3)
	assert.Equal(t, KindWriteFile, actions[0].Kind)
	assert.Equal(t, "b.go", actions[0].Path)
	assert.Equal(t, KindReadFile, actions[1].Kind)
	assert.Equal(t, "a.go", actions[1].Path)
	assert.Equal(t, KindExecuteCommand, actions[2].Kind)
	assert.Equal(t, "ls", actions[2].Command)
}

func TestParseCommandSplitsWorkingDirectory(t *testing.T) {
	text := `[COMMAND: npm test dir="/tmp/proj"][/COMMAND]`
	actions := Parse(text)
	require.Len(t, actions, 1)
	assert.Equal(t, "npm test", actions[0].Command)
	assert.Equal(t, "/tmp/proj", actions[0].WorkingDir)
}

func TestParseMultipleBlocksSameTypeInSourceOrder(t *testing.T) {
	text := `[FILE_WRITE: first.go]one[/FILE_WRITE][FILE_WRITE: second.go]two[/FILE_WRITE]`
	actions := Parse(text)
	require.Len(t, actions, 2)
	assert.Equal(t, "first.go", actions[0].Path)
	assert.Equal(t, "one", actions[0].Content)
	assert.Equal(t, "second.go", actions[1].Path)
	assert.Equal(t, "two", actions[1].Content)
}

func TestParseUnclosedOpenerTerminatesScanningOfThatType(t *testing.T) {
	text := `[FILE_WRITE: a.go]unterminated body[FILE_WRITE: b.go]two[/FILE_WRITE]`
	actions := Parse(text)
	assert.Empty(t, actions)
}

func TestParseMalformedOpenerIsSkipped(t *testing.T) {
	text := `[FILE_WRITE no colon] junk [COMMAND: echo hi][/COMMAND]`
	actions := Parse(text)
	require.Len(t, actions, 1)
	assert.Equal(t, KindExecuteCommand, actions[0].Kind)
}

func TestParseGitStatusAndGitDiff(t *testing.T) {
	text := `[GIT_STATUS][GIT_DIFF: internal/foo.go]`
	actions := Parse(text)
	require.Len(t, actions, 2)
	assert.Equal(t, KindGitStatus, actions[0].Kind)
	assert.Equal(t, KindGitDiff, actions[1].Kind)
	assert.Equal(t, "internal/foo.go", actions[1].Path)
}

func TestParseGitDiffWithoutArgument(t *testing.T) {
	text := `[GIT_DIFF]`
	actions := Parse(text)
	require.Len(t, actions, 1)
	assert.Equal(t, "", actions[0].Path)
}

func TestParseEmptyTextYieldsNoActions(t *testing.T) {
	assert.Empty(t, Parse("just plain prose, no directives here"))
}
