// Package lazyctx discovers a repository's file skeleton instantly and
// fills file contents in the background, grounded on the teacher's
// framework.ContextPack/FileChunk priority model (applied here to file
// discovery rather than prompt assembly) and persistence.CodeIndex's
// filepath.WalkDir ignore-rule walk.
package lazyctx

import "time"

// ProjectType is the detected primary language/ecosystem of a repository.
type ProjectType string

const (
	ProjectRust    ProjectType = "rust"
	ProjectJS      ProjectType = "javascript"
	ProjectPython  ProjectType = "python"
	ProjectGo      ProjectType = "go"
	ProjectUnknown ProjectType = "unknown"
)

// FileEntry is one discovered file, prior to content being loaded.
type FileEntry struct {
	Path     string
	Size     int64
	Priority bool
}

// Options bounds the discovery walk and background fill.
type Options struct {
	MaxFileSize        int64
	MaxFiles           int
	PriorityExtensions []string
	ExcludeExtensions  []string
	ChunkSize          int
	ChunkDelay         time.Duration
	MaxContextTokens   int
}

// DefaultOptions matches the contract's stated defaults: a 1MB per-file
// cap, a 1000-file cap, source-like extensions prioritized, chunks of 10
// files with a small delay between chunks.
func DefaultOptions() Options {
	return Options{
		MaxFileSize: 1 << 20,
		MaxFiles:    1000,
		PriorityExtensions: []string{
			".go", ".py", ".js", ".jsx", ".ts", ".tsx", ".rs", ".java",
			".c", ".h", ".cpp", ".hpp", ".rb", ".php", ".cs", ".kt", ".swift",
		},
		ExcludeExtensions: []string{
			".png", ".jpg", ".jpeg", ".gif", ".ico", ".pdf", ".zip", ".tar",
			".gz", ".bin", ".exe", ".so", ".dll", ".woff", ".woff2", ".mp4",
		},
		ChunkSize:        10,
		ChunkDelay:       50 * time.Millisecond,
		MaxContextTokens: 50000,
	}
}

// skipDirs is the hard-coded skip-list of build/cache directory names,
// checked in addition to VCS ignore rules.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"dist":         true,
	"build":        true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	".cache":       true,
	".idea":        true,
	".vscode":      true,
	".pairmap":     true,
}

// projectMarkers is the deterministic marker-file check order: first
// match wins.
var projectMarkers = []struct {
	file string
	kind ProjectType
}{
	{"Cargo.toml", ProjectRust},
	{"package.json", ProjectJS},
	{"pyproject.toml", ProjectPython},
	{"requirements.txt", ProjectPython},
	{"setup.py", ProjectPython},
	{"go.mod", ProjectGo},
}
