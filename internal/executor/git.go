package executor

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func (e *Executor) openRepo() (*git.Repository, error) {
	return git.PlainOpenWithOptions(e.ProjectRoot, &git.PlainOpenOptions{DetectDotGit: true})
}

// gitStatus enumerates index and working-tree changes with a minimal
// textual classifier (new/modified/deleted/renamed/staged/conflict).
func (e *Executor) gitStatus() Result {
	repo, err := e.openRepo()
	if err != nil {
		return failure(fmt.Sprintf("open repository: %v", err))
	}
	wt, err := repo.Worktree()
	if err != nil {
		return failure(fmt.Sprintf("worktree: %v", err))
	}
	status, err := wt.Status()
	if err != nil {
		return failure(fmt.Sprintf("status: %v", err))
	}
	if status.IsClean() {
		return success("working tree clean")
	}

	var sb strings.Builder
	for file, st := range status {
		sb.WriteString(fmt.Sprintf("%s %s\n", classifyStatus(st), file))
	}
	return success(sb.String())
}

func classifyStatus(st *git.FileStatus) string {
	switch {
	case st.Staging == git.Added, st.Worktree == git.Untracked:
		return "new"
	case st.Staging == git.UpdatedButUnmerged || st.Worktree == git.UpdatedButUnmerged:
		return "conflict"
	case st.Staging == git.Deleted || st.Worktree == git.Deleted:
		return "deleted"
	case st.Staging == git.Renamed || st.Worktree == git.Renamed:
		return "renamed"
	case st.Staging != git.Unmodified && st.Staging != git.Untracked:
		return "staged"
	case st.Worktree == git.Modified:
		return "modified"
	default:
		return "modified"
	}
}

// gitDiff compares HEAD-tree to the working index+tree, optionally scoped
// to a single path. For each changed file it emits "--- a/" and "+++ b/"
// header lines followed by a one-line summary from unifiedSummary; no
// line-level hunks are produced.
func (e *Executor) gitDiff(path string) Result {
	repo, err := e.openRepo()
	if err != nil {
		return failure(fmt.Sprintf("open repository: %v", err))
	}
	headRef, err := repo.Head()
	if err != nil {
		return failure(fmt.Sprintf("resolve HEAD: %v", err))
	}
	headCommit, err := repo.CommitObject(headRef.Hash())
	if err != nil {
		return failure(fmt.Sprintf("load HEAD commit: %v", err))
	}
	headTree, err := headCommit.Tree()
	if err != nil {
		return failure(fmt.Sprintf("load HEAD tree: %v", err))
	}

	wt, err := repo.Worktree()
	if err != nil {
		return failure(fmt.Sprintf("worktree: %v", err))
	}
	status, err := wt.Status()
	if err != nil {
		return failure(fmt.Sprintf("status: %v", err))
	}

	var sb strings.Builder
	for file, st := range status {
		if path != "" && file != path {
			continue
		}
		entry, _ := headTree.FindEntry(file)
		var before string
		if entry != nil {
			if blob, err := headTree.TreeEntryFile(entry); err == nil {
				if reader, err := blob.Reader(); err == nil {
					data := make([]byte, blob.Size)
					_, _ = reader.Read(data)
					reader.Close()
					before = string(data)
				}
			}
		}
		after := ""
		if data, err := wt.Filesystem.Open(file); err == nil {
			buf := make([]byte, 1<<20)
			n, _ := data.Read(buf)
			after = string(buf[:n])
			data.Close()
		}
		sb.WriteString(fmt.Sprintf("--- a/%s\n+++ b/%s\n", file, file))
		sb.WriteString(unifiedSummary(before, after, st))
	}
	if sb.Len() == 0 {
		return success("no changes")
	}
	return success(sb.String())
}

// unifiedSummary is a minimal line-count diff summary (status plus line
// counts before and after), not a full unified diff; its output is not
// compatible with `git diff`.
func unifiedSummary(before, after string, st *git.FileStatus) string {
	beforeLines := strings.Count(before, "\n")
	afterLines := strings.Count(after, "\n")
	return fmt.Sprintf("@@ %s: %d -> %d lines @@\n", classifyStatus(st), beforeLines, afterLines)
}

// gitCommit stages the given files (or all changes if empty), then commits
// with the current signature, falling back to a fixed bot identity.
func (e *Executor) gitCommit(message string, files []string) Result {
	repo, err := e.openRepo()
	if err != nil {
		return failure(fmt.Sprintf("open repository: %v", err))
	}
	wt, err := repo.Worktree()
	if err != nil {
		return failure(fmt.Sprintf("worktree: %v", err))
	}

	if len(files) == 0 {
		if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
			return failure(fmt.Sprintf("stage changes: %v", err))
		}
	} else {
		for _, f := range files {
			if _, err := wt.Add(f); err != nil {
				return failure(fmt.Sprintf("stage %s: %v", f, err))
			}
		}
	}

	sig := e.signature(repo)
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig})
	if err != nil {
		return failure(fmt.Sprintf("commit: %v", err))
	}
	return success(fmt.Sprintf("committed %s", hash.String()))
}

// signature returns the repository's configured identity, falling back to
// a fixed bot identity when none is configured.
func (e *Executor) signature(repo *git.Repository) *object.Signature {
	cfg, err := repo.ConfigScoped(0)
	if err == nil && cfg.User.Name != "" {
		return &object.Signature{Name: cfg.User.Name, Email: cfg.User.Email, When: time.Now()}
	}
	return &object.Signature{Name: "pairmap-agent", Email: "agent@pairmap.local", When: time.Now()}
}
