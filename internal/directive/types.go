// Package directive extracts structured agent actions from free-form model
// text, grounded on the teacher's agents/pattern.ExtractJSON index-scanning
// idiom but generalized from a single JSON blob to the bracketed action
// grammar the specification defines.
package directive

// Kind tags the closed set of agent action variants. A new action kind
// requires a new Kind value and a new executor branch, never a type switch
// fallback.
type Kind string

const (
	KindReadFile         Kind = "read_file"
	KindWriteFile        Kind = "write_file"
	KindDeleteFile       Kind = "delete_file"
	KindCreateDirectory  Kind = "create_directory"
	KindExecuteCommand   Kind = "execute_command"
	KindGitDiff          Kind = "git_diff"
	KindGitStatus        Kind = "git_status"
	KindGitCommit        Kind = "git_commit"
)

// Action is one agent action, parsed from one model turn. Only the fields
// relevant to Kind are populated; this mirrors the specification's tagged
// AgentAction variant rather than a class hierarchy.
type Action struct {
	Kind Kind

	Path       string   // ReadFile, WriteFile, DeleteFile, CreateDirectory, GitDiff (optional)
	Content    string   // WriteFile
	Command    string   // ExecuteCommand
	WorkingDir string   // ExecuteCommand (optional)
	Message    string   // GitCommit
	Files      []string // GitCommit (optional; empty means "all changes")
}
