package symbols

import (
	"bufio"
	"regexp"
	"strings"
)

// DocParser extracts a lightweight outline from Markdown documents: headings
// become symbols (so the repo map can cite "README.md:12 # Configuration"
// the same way it cites a Go function), and inline links become references,
// letting the graph connect a doc to the files it points at.
type DocParser struct{}

// NewDocParser returns a ready-to-use Markdown outline parser.
func NewDocParser() *DocParser { return &DocParser{} }

func (d *DocParser) Language() string     { return "markdown" }
func (d *DocParser) Extensions() []string { return []string{".md", ".markdown"} }

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

func (d *DocParser) Parse(path, content string) ([]Symbol, error) {
	var symbols []Symbol
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		m := headingPattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		symbols = append(symbols, Symbol{
			Name:      strings.TrimSpace(m[2]),
			Kind:      KindModule,
			File:      path,
			Line:      line,
			Signature: strings.TrimSpace(scanner.Text()),
		})
	}
	return symbols, scanner.Err()
}

var linkPattern = regexp.MustCompile(`\[[^\]]*\]\(([^)\s]+)\)`)

// FindReferences treats every Markdown link target as a reference, so a
// README's links into the tree surface as graph edges like any code import.
func (d *DocParser) FindReferences(path, content string) ([]Reference, error) {
	var refs []Reference
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		for _, m := range linkPattern.FindAllStringSubmatch(scanner.Text(), -1) {
			target := m[1]
			if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") || strings.HasPrefix(target, "#") {
				continue
			}
			refs = append(refs, Reference{
				Name: target,
				File: path,
				Line: line,
			})
		}
	}
	return refs, scanner.Err()
}
