package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoParserExtractsTopLevelSymbols(t *testing.T) {
	src := `package sample

import "fmt"

// Greeter says hello.
type Greeter struct {
	Name string
}

func (g Greeter) Greet() string {
	return fmt.Sprintf("hello %s", g.Name)
}

func NewGreeter(name string) Greeter {
	return Greeter{Name: name}
}

var defaultName = "world"
`
	p := NewGoParser()
	syms, err := p.Parse("sample.go", src)
	require.NoError(t, err)

	byName := make(map[string]Symbol)
	for _, s := range syms {
		byName[s.Name] = s
	}

	require.Contains(t, byName, "Greeter")
	assert.Equal(t, KindClass, byName["Greeter"].Kind)

	require.Contains(t, byName, "Greet")
	assert.Equal(t, KindMethod, byName["Greet"].Kind)

	require.Contains(t, byName, "NewGreeter")
	assert.Equal(t, KindFunction, byName["NewGreeter"].Kind)

	require.Contains(t, byName, "defaultName")
	assert.Equal(t, KindVariable, byName["defaultName"].Kind)

	require.Contains(t, byName, "fmt")
	assert.Equal(t, KindImport, byName["fmt"].Kind)
}

func TestGoParserFindReferencesSkipsDeclarations(t *testing.T) {
	src := `package sample

func add(a, b int) int {
	total := a + b
	return total
}
`
	p := NewGoParser()
	refs, err := p.FindReferences("sample.go", src)
	require.NoError(t, err)

	var names []string
	for _, r := range refs {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, "a")
	assert.Contains(t, names, "b")
	assert.Contains(t, names, "total")
	assert.NotContains(t, names, "add")
}

func TestGoParserFailsOpenOnSyntaxError(t *testing.T) {
	src := `package sample

func broken( {
`
	p := NewGoParser()
	syms, err := p.Parse("broken.go", src)
	assert.Error(t, err)
	_ = syms
}

func TestDocParserExtractsHeadingsAndLinks(t *testing.T) {
	src := "# Title\n\nSee [the parser](../symbols/parser.go) for details.\n\n## Usage\n"
	p := NewDocParser()

	syms, err := p.Parse("README.md", src)
	require.NoError(t, err)
	require.Len(t, syms, 2)
	assert.Equal(t, "Title", syms[0].Name)
	assert.Equal(t, "Usage", syms[1].Name)

	refs, err := p.FindReferences("README.md", src)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "../symbols/parser.go", refs[0].Name)
}

func TestRegistryDispatchesByExtension(t *testing.T) {
	r := NewRegistry()
	r.RegisterDefaults()

	_, err := r.ParseFile("main.go", "package main\nfunc main() {}\n")
	assert.NoError(t, err)

	_, err = r.ParseFile("notes.md", "# Notes\n")
	assert.NoError(t, err)

	_, err = r.ParseFile("data.unknown", "whatever")
	var unsupported *ErrUnsupported
	assert.ErrorAs(t, err, &unsupported)
}

func TestSymbolIdentity(t *testing.T) {
	s := Symbol{File: "a.go", Line: 12, Name: "Foo"}
	assert.Equal(t, [3]string{"a.go", "12", "Foo"}, s.Identity())
}
