// Package symbols parses source files into the symbol tables and reference
// lists consumed by the reference graph and ranker.
package symbols

import "strconv"

// Kind enumerates the supported symbol categories.
type Kind string

const (
	KindFunction  Kind = "function"
	KindMethod    Kind = "method"
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindType      Kind = "type"
	KindVariable  Kind = "variable"
	KindImport    Kind = "import"
	KindModule    Kind = "module"
)

// Symbol is a named construct extracted from a source file.
type Symbol struct {
	Name      string
	Kind      Kind
	File      string
	Line      int // 1-based
	Signature string
	Doc       string
}

// Identity returns the (file, line, name) triple that identifies a symbol.
func (s Symbol) Identity() [3]string {
	return [3]string{s.File, strconv.Itoa(s.Line), s.Name}
}

// Reference is a textual use of an identifier.
type Reference struct {
	Name       string
	File       string
	Line       int
	TargetFile string // left empty by the parsers; the graph builder resolves targets by name without setting it
}
