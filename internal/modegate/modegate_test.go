package modegate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleForwardVisitsAllFourModes(t *testing.T) {
	g := NewGate()
	assert.Equal(t, ModeNormal, g.Mode())
	g.CycleForward()
	assert.Equal(t, ModeAcceptEdits, g.Mode())
	g.CycleForward()
	assert.Equal(t, ModePlan, g.Mode())
	g.CycleForward()
	assert.Equal(t, ModeBypassAll, g.Mode())
	g.CycleForward()
	assert.Equal(t, ModeNormal, g.Mode())
}

func TestReadActionsNeverRequireConfirmation(t *testing.T) {
	for _, m := range []Mode{ModeNormal, ModeAcceptEdits, ModeBypassAll} {
		g := NewGate()
		g.SetMode(m)
		assert.Equal(t, DecisionExecute, g.Decide(ActionRead, ""))
	}
	g := NewGate()
	g.SetMode(ModePlan)
	assert.Equal(t, DecisionPlannedOnly, g.Decide(ActionRead, ""))
}

func TestWriteFileRequiresConfirmInNormalButNotAcceptEdits(t *testing.T) {
	g := NewGate()
	assert.Equal(t, DecisionConfirm, g.Decide(ActionWriteFile, ""))

	g.SetMode(ModeAcceptEdits)
	assert.Equal(t, DecisionExecute, g.Decide(ActionWriteFile, ""))
}

func TestPlanModeNeverExecutes(t *testing.T) {
	g := NewGate()
	g.SetMode(ModePlan)
	assert.Equal(t, DecisionPlannedOnly, g.Decide(ActionWriteFile, ""))
	assert.Equal(t, DecisionPlannedOnly, g.Decide(ActionExecuteCommand, "rm -rf /tmp/x"))
}

func TestBypassAllDestructiveDoubleConfirm(t *testing.T) {
	g := NewGate()
	g.SetMode(ModeBypassAll)

	first := g.Decide(ActionDeleteFile, "")
	assert.Equal(t, DecisionNeedsConfirm, first)

	second := g.Decide(ActionDeleteFile, "")
	assert.Equal(t, DecisionExecute, second)

	// latch reset after successful execution; next destructive call needs
	// reconfirmation again.
	third := g.Decide(ActionDeleteFile, "")
	assert.Equal(t, DecisionNeedsConfirm, third)
}

func TestBypassAllNonDestructiveExecutesImmediately(t *testing.T) {
	g := NewGate()
	g.SetMode(ModeBypassAll)
	assert.Equal(t, DecisionExecute, g.Decide(ActionWriteFile, ""))
}

func TestModeTransitionClearsBypassLatch(t *testing.T) {
	g := NewGate()
	g.SetMode(ModeBypassAll)
	g.Decide(ActionDeleteFile, "") // sets latch to true (needs confirm returned)

	g.CycleForward()
	g.CycleBackward() // back to BypassAll, latch should be cleared

	assert.Equal(t, DecisionNeedsConfirm, g.Decide(ActionDeleteFile, ""))
}

func TestIsDestructiveDetectsCommandSubstrings(t *testing.T) {
	assert.True(t, IsDestructive(ActionDeleteFile, ""))
	assert.True(t, IsDestructive(ActionExecuteCommand, "rm -rf node_modules"))
	assert.True(t, IsDestructive(ActionExecuteCommand, "DROP TABLE users"))
	assert.False(t, IsDestructive(ActionExecuteCommand, "ls -la"))
	assert.False(t, IsDestructive(ActionRead, "rm"))
}

func TestResolvePathRejectsEscape(t *testing.T) {
	root := t.TempDir()
	_, err := ResolvePath(root, "../etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Security")
}

func TestResolvePathAllowsWithinRoot(t *testing.T) {
	root := t.TempDir()
	canon, err := ResolvePath(root, "sub/file.go")
	require.NoError(t, err)
	rootCanon, _ := filepath.EvalSymlinks(root)
	assert.Contains(t, canon, filepath.Base(rootCanon))
}

func TestResolvePathRejectsDenylistedPattern(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".ssh"), 0o755))
	_, err := ResolvePath(root, ".ssh/id_rsa")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Security")
}

func TestCheckCommandRejectsForkBomb(t *testing.T) {
	err := CheckCommand(":(){ :|:& };:")
	require.Error(t, err)
}

func TestCheckCommandRejectsSystemDirRemoval(t *testing.T) {
	err := CheckCommand("rm -rf /etc/passwd")
	require.Error(t, err)
}

func TestCheckCommandAllowsBenignCommand(t *testing.T) {
	assert.NoError(t, CheckCommand("go test ./..."))
}
