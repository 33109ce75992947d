package symbols

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// capture maps one tree-sitter node type to the SymbolKind it produces, and
// names the field holding the symbol's identifier. This is the per-language
// "query enumerates capture patterns" table the specification describes;
// tree-sitter's own grammars stand in for the "pre-loaded grammar."
type capture struct {
	kind      Kind
	nameField string
}

// TreeSitterParser extracts symbols for one non-Go language using a
// tree-sitter grammar, grounded on the teacher corpus's
// internal/world/ast_treesitter.go, python_parser.go, typescript_parser.go,
// and rust_parser.go.
type TreeSitterParser struct {
	lang       string
	exts       []string
	language   *sitter.Language
	captures   map[string]capture
	declParent map[string]bool // node types whose identifier children are declarations, not references
}

func treeSitterLanguages() []*TreeSitterParser {
	return []*TreeSitterParser{
		{
			lang:     "python",
			exts:     []string{".py", ".pyw"},
			language: python.GetLanguage(),
			captures: map[string]capture{
				"function_definition": {KindFunction, "name"},
				"class_definition":    {KindClass, "name"},
			},
			declParent: map[string]bool{
				"function_definition": true,
				"class_definition":    true,
				"parameters":          true,
			},
		},
		{
			lang:     "javascript",
			exts:     []string{".js", ".jsx", ".mjs"},
			language: javascript.GetLanguage(),
			captures: map[string]capture{
				"function_declaration": {KindFunction, "name"},
				"class_declaration":    {KindClass, "name"},
				"method_definition":    {KindMethod, "name"},
			},
			declParent: map[string]bool{
				"function_declaration": true,
				"class_declaration":    true,
				"method_definition":    true,
				"formal_parameters":    true,
			},
		},
		{
			lang:     "typescript",
			exts:     []string{".ts", ".tsx"},
			language: typescript.GetLanguage(),
			captures: map[string]capture{
				"function_declaration":   {KindFunction, "name"},
				"class_declaration":      {KindClass, "name"},
				"interface_declaration":  {KindInterface, "name"},
				"method_definition":      {KindMethod, "name"},
				"type_alias_declaration": {KindType, "name"},
			},
			declParent: map[string]bool{
				"function_declaration":   true,
				"class_declaration":      true,
				"interface_declaration":  true,
				"method_definition":      true,
				"type_alias_declaration": true,
				"formal_parameters":      true,
			},
		},
		{
			lang:     "rust",
			exts:     []string{".rs"},
			language: rust.GetLanguage(),
			captures: map[string]capture{
				"function_item": {KindFunction, "name"},
				"struct_item":   {KindClass, "name"},
				"trait_item":    {KindInterface, "name"},
				"enum_item":     {KindType, "name"},
				"type_item":     {KindType, "name"},
			},
			declParent: map[string]bool{
				"function_item": true,
				"struct_item":   true,
				"trait_item":    true,
				"enum_item":     true,
				"type_item":     true,
				"parameters":    true,
			},
		},
	}
}

func (p *TreeSitterParser) Language() string     { return p.lang }
func (p *TreeSitterParser) Extensions() []string { return p.exts }

func (p *TreeSitterParser) Parse(path, content string) ([]Symbol, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(p.language)
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(content))
	if tree == nil {
		return nil, err
	}
	defer tree.Close()

	src := []byte(content)
	var out []Symbol
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if cap, ok := p.captures[n.Type()]; ok {
			nameNode := n.ChildByFieldName(cap.nameField)
			if nameNode != nil {
				out = append(out, Symbol{
					Name:      nameNode.Content(src),
					Kind:      cap.kind,
					File:      path,
					Line:      int(n.StartPoint().Row) + 1,
					Signature: firstLine(n.Content(src)),
				})
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	return out, err
}

func (p *TreeSitterParser) FindReferences(path, content string) ([]Reference, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(p.language)
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(content))
	if tree == nil {
		return nil, err
	}
	defer tree.Close()

	src := []byte(content)
	var out []Reference
	var walk func(n, parent *sitter.Node)
	walk = func(n, parent *sitter.Node) {
		if n == nil {
			return
		}
		if (n.Type() == "identifier" || n.Type() == "type_identifier") && parent != nil {
			if !p.declParent[parent.Type()] {
				out = append(out, Reference{
					Name: n.Content(src),
					File: path,
					Line: int(n.StartPoint().Row) + 1,
				})
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i), n)
		}
	}
	walk(tree.RootNode(), nil)
	return out, err
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return strings.TrimRight(s, "\r")
}
