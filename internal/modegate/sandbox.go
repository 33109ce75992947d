package modegate

import (
	"fmt"
	"path/filepath"
	"strings"
)

// pathDenylist is the static set of sensitive path fragments no agent
// action may touch, regardless of mode.
var pathDenylist = []string{
	".ssh", ".aws", ".env", "id_rsa", "id_ed25519", ".git/config", ".npmrc", ".pypirc",
}

// SandboxError reports a rejected path or command, its message always
// containing "Security" per the invariant callers are expected to test for.
type SandboxError struct {
	Reason string
}

func (e *SandboxError) Error() string {
	return fmt.Sprintf("Security: %s", e.Reason)
}

// ResolvePath applies the path sandbox to a caller-supplied path relative
// to root (the project current directory): it resolves against root,
// canonicalizes (symlinks and ".." included, falling back to canonicalizing
// the parent for a nonexistent leaf), rejects escapes, and checks the
// static denylist. It returns the canonical absolute path on success.
func ResolvePath(root, requested string) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", &SandboxError{Reason: "could not resolve project root"}
	}
	rootCanon, err := filepath.EvalSymlinks(rootAbs)
	if err != nil {
		rootCanon = rootAbs
	}

	joined := filepath.Join(rootAbs, requested)
	if filepath.IsAbs(requested) {
		joined = filepath.Clean(requested)
	}

	canon, err := canonicalize(joined)
	if err != nil {
		return "", &SandboxError{Reason: "could not canonicalize path"}
	}

	if !withinRoot(rootCanon, canon) {
		return "", &SandboxError{Reason: "path escapes the project directory"}
	}

	for _, pattern := range pathDenylist {
		if strings.Contains(canon, pattern) {
			return "", &SandboxError{Reason: "path matches a denylisted pattern"}
		}
	}

	return canon, nil
}

// canonicalize resolves symlinks in path. For a path whose final component
// does not yet exist (a write target, say), it canonicalizes the parent and
// re-appends the final component.
func canonicalize(path string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved, nil
	}
	parent, err := filepath.EvalSymlinks(filepath.Dir(path))
	if err != nil {
		parent = filepath.Clean(filepath.Dir(path))
	}
	return filepath.Join(parent, filepath.Base(path)), nil
}

func withinRoot(root, candidate string) bool {
	rel, err := filepath.Rel(root, candidate)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

// commandDenylistSubstrings are dangerous-verbatim patterns refused
// regardless of target, preserved as substring checks per the
// specification's explicit instruction not to attempt lexical analysis.
var commandDenylistSubstrings = []string{
	":(){ :|:& };:", // fork bomb
	"rm -rf /",
	"mkfs",
	"dd if=/dev/zero",
	"dd of=/dev/sd",
	"| sh",
	"| bash",
	"curl | sh",
	"wget | sh",
}

var systemDirectories = []string{
	"/etc", "/usr", "/boot", "/proc", "/sys", "/dev",
	`c:\windows`, `c:\program files`,
}

var removeVerbs = []string{"rm", "del", "rmdir", "format"}

// CheckCommand refuses a command before execution if its lowercased text
// matches a known-dangerous pattern, or if it both names a system directory
// and contains a remove verb.
func CheckCommand(command string) error {
	lower := strings.ToLower(command)

	for _, pattern := range commandDenylistSubstrings {
		if strings.Contains(lower, pattern) {
			return &SandboxError{Reason: "command matches a denylisted pattern"}
		}
	}

	namesSystemDir := false
	for _, dir := range systemDirectories {
		if strings.Contains(lower, dir) {
			namesSystemDir = true
			break
		}
	}
	if namesSystemDir {
		for _, verb := range removeVerbs {
			if strings.Contains(lower, verb) {
				return &SandboxError{Reason: "command targets a system directory with a remove verb"}
			}
		}
	}

	return nil
}
