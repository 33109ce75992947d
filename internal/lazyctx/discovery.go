package lazyctx

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// DetectProjectType checks for marker files in deterministic order; the
// first match wins.
func DetectProjectType(root string) ProjectType {
	for _, m := range projectMarkers {
		if _, err := os.Stat(filepath.Join(root, m.file)); err == nil {
			return m.kind
		}
	}
	return ProjectUnknown
}

// discover walks root respecting the hard-coded skip-list, the repository's
// .gitignore rules, and the configured extension denylist. A per-file size
// cap and a total-file cap both apply; oversized files are skipped
// entirely rather than truncated. Returns priority files first.
func discover(root string, opts Options) ([]FileEntry, error) {
	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		patterns = nil
	}
	matcher := gitignore.NewMatcher(patterns)

	var priority, other []FileEntry
	total := 0

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		parts := strings.Split(rel, string(filepath.Separator))

		if entry.IsDir() {
			if skipDirs[entry.Name()] {
				return filepath.SkipDir
			}
			if matcher.Match(parts, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if total >= opts.MaxFiles {
			return nil
		}
		if matcher.Match(parts, false) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if containsExt(opts.ExcludeExtensions, ext) {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return nil
		}
		if opts.MaxFileSize > 0 && info.Size() > opts.MaxFileSize {
			return nil
		}

		fe := FileEntry{Path: rel, Size: info.Size(), Priority: containsExt(opts.PriorityExtensions, ext)}
		if fe.Priority {
			priority = append(priority, fe)
		} else {
			other = append(other, fe)
		}
		total++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return append(priority, other...), nil
}

func containsExt(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}
