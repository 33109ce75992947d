// Package modegate implements the Operation Mode permission state machine
// and the path/command sandbox, grounded on the teacher's agents.Mode and
// framework.PermissionSet idiom but reshaped around the specification's
// four-state decision matrix rather than per-tool capability profiles.
package modegate

import "strings"

// Mode is one of the four operation modes. It is a closed sum type: a new
// mode requires a new constant and a new row in the decision matrix, never
// a default fallthrough.
type Mode string

const (
	ModeNormal      Mode = "normal"
	ModeAcceptEdits Mode = "accept_edits"
	ModePlan        Mode = "plan_mode"
	ModeBypassAll   Mode = "bypass_all"
)

// Decision is the gate's verdict for one proposed action.
type Decision string

const (
	DecisionExecute      Decision = "execute"
	DecisionConfirm      Decision = "confirm"
	DecisionPlannedOnly  Decision = "planned_only"
	DecisionNeedsConfirm Decision = "needs_confirm" // destructive double-confirm, first invocation
)

// ActionKind classifies a proposed action for the decision matrix, without
// depending on the directive package's Action type (keeping modegate usable
// standalone).
type ActionKind string

const (
	ActionRead             ActionKind = "read"
	ActionGitStatus        ActionKind = "git_status"
	ActionGitDiff          ActionKind = "git_diff"
	ActionWriteFile        ActionKind = "write_file"
	ActionDeleteFile       ActionKind = "delete_file"
	ActionCreateDirectory  ActionKind = "create_directory"
	ActionExecuteCommand   ActionKind = "execute_command"
	ActionGitCommit        ActionKind = "git_commit"
)

func isReadOnly(k ActionKind) bool {
	switch k {
	case ActionRead, ActionGitStatus, ActionGitDiff:
		return true
	default:
		return false
	}
}

// Gate is the process-wide Operation Mode singleton. It is mutated by user
// keypress and serialized into session state; all decision logic lives
// behind its exported methods so callers never touch the mode directly.
type Gate struct {
	mode            Mode
	bypassConfirmed bool
}

// NewGate starts the gate in Normal, the initial state.
func NewGate() *Gate {
	return &Gate{mode: ModeNormal}
}

// Mode returns the current operation mode.
func (g *Gate) Mode() Mode { return g.mode }

var forwardCycle = []Mode{ModeNormal, ModeAcceptEdits, ModePlan, ModeBypassAll}

// CycleForward advances Normal -> AcceptEdits -> PlanMode -> BypassAll ->
// Normal, clearing the bypass-confirmed latch on every transition.
func (g *Gate) CycleForward() {
	g.setMode(forwardCycle[(indexOf(forwardCycle, g.mode)+1)%len(forwardCycle)])
}

// CycleBackward reverses CycleForward.
func (g *Gate) CycleBackward() {
	i := indexOf(forwardCycle, g.mode)
	i = (i - 1 + len(forwardCycle)) % len(forwardCycle)
	g.setMode(forwardCycle[i])
}

// SetMode jumps directly to mode via a mode-specific shortcut, also
// clearing the bypass-confirmed latch.
func (g *Gate) SetMode(m Mode) {
	g.setMode(m)
}

func (g *Gate) setMode(m Mode) {
	g.mode = m
	g.bypassConfirmed = false
}

func indexOf(modes []Mode, m Mode) int {
	for i, x := range modes {
		if x == m {
			return i
		}
	}
	return 0
}

// IsDestructive reports whether an action kind/command pair is classified
// destructive: DeleteFile always, or ExecuteCommand whose text contains one
// of a fixed substring set. Preserved verbatim per the specification's
// explicit instruction not to attempt lexical analysis here.
func IsDestructive(kind ActionKind, commandText string) bool {
	if kind == ActionDeleteFile {
		return true
	}
	if kind != ActionExecuteCommand {
		return false
	}
	lower := strings.ToLower(commandText)
	for _, pattern := range []string{"rm", "del", "drop", "truncate"} {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// Decide applies the decision matrix for kind under the gate's current
// mode. commandText is consulted only to classify destructive
// ExecuteCommand actions.
func (g *Gate) Decide(kind ActionKind, commandText string) Decision {
	if isReadOnly(kind) {
		if g.mode == ModePlan {
			return DecisionPlannedOnly
		}
		return DecisionExecute
	}

	if g.mode == ModePlan {
		return DecisionPlannedOnly
	}

	if g.mode == ModeBypassAll {
		if IsDestructive(kind, commandText) && !g.bypassConfirmed {
			g.bypassConfirmed = true
			return DecisionNeedsConfirm
		}
		g.bypassConfirmed = false
		return DecisionExecute
	}

	switch kind {
	case ActionWriteFile, ActionDeleteFile, ActionCreateDirectory:
		if g.mode == ModeAcceptEdits {
			return DecisionExecute
		}
		return DecisionConfirm // Normal
	case ActionExecuteCommand, ActionGitCommit:
		return DecisionConfirm // Normal and AcceptEdits both confirm
	default:
		return DecisionConfirm
	}
}
