package symbols

import (
	goast "go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// GoParser extracts symbols and references from Go source using go/parser,
// the teacher's own idiom in framework/ast/parser_go.go.
type GoParser struct{}

// NewGoParser returns a ready-to-use Go parser.
func NewGoParser() *GoParser { return &GoParser{} }

func (g *GoParser) Language() string     { return "go" }
func (g *GoParser) Extensions() []string { return []string{".go"} }

// Parse returns the best-effort symbol set even when the file fails to
// parse cleanly: go/parser.ParseFile with AllErrors still returns a partial
// *ast.File for most syntax errors, and that partial tree is walked exactly
// as a clean one would be. The parse error is returned alongside it.
func (g *GoParser) Parse(path, content string) ([]Symbol, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, content, parser.ParseComments|parser.AllErrors)
	if file == nil {
		return nil, err
	}
	var symbols []Symbol
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *goast.FuncDecl:
			kind := KindFunction
			if d.Recv != nil && len(d.Recv.List) > 0 {
				kind = KindMethod
			}
			line := fset.Position(d.Pos()).Line
			symbols = append(symbols, Symbol{
				Name:      d.Name.Name,
				Kind:      kind,
				File:      path,
				Line:      line,
				Signature: signatureLine(content, fset.Position(d.Pos()).Offset),
				Doc:       strings.TrimSpace(d.Doc.Text()),
			})
		case *goast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *goast.TypeSpec:
					kind := KindType
					switch s.Type.(type) {
					case *goast.InterfaceType:
						kind = KindInterface
					case *goast.StructType:
						kind = KindClass
					}
					doc := d.Doc
					if s.Doc != nil {
						doc = s.Doc
					}
					symbols = append(symbols, Symbol{
						Name: s.Name.Name,
						Kind: kind,
						File: path,
						Line: fset.Position(s.Pos()).Line,
						Doc:  strings.TrimSpace(doc.Text()),
					})
				case *goast.ValueSpec:
					for _, name := range s.Names {
						if name.Name == "_" {
							continue
						}
						symbols = append(symbols, Symbol{
							Name: name.Name,
							Kind: KindVariable,
							File: path,
							Line: fset.Position(name.Pos()).Line,
							Doc:  strings.TrimSpace(d.Doc.Text()),
						})
					}
				case *goast.ImportSpec:
					name := strings.Trim(s.Path.Value, `"`)
					symbols = append(symbols, Symbol{
						Name: name,
						Kind: KindImport,
						File: path,
						Line: fset.Position(s.Pos()).Line,
					})
				}
			}
		}
	}
	return symbols, err
}

// FindReferences walks every identifier in the file and keeps the ones whose
// immediate declaration context is not itself a definition, matching the
// over-approximating heuristic the specification calls for: precise scope
// analysis is explicitly out of scope.
func (g *GoParser) FindReferences(path, content string) ([]Reference, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, content, parser.AllErrors)
	if file == nil {
		return nil, err
	}
	declaring := declaringIdents(file)
	var refs []Reference
	goast.Inspect(file, func(n goast.Node) bool {
		ident, ok := n.(*goast.Ident)
		if !ok || ident.Name == "_" {
			return true
		}
		if declaring[ident] {
			return true
		}
		refs = append(refs, Reference{
			Name: ident.Name,
			File: path,
			Line: fset.Position(ident.Pos()).Line,
		})
		return true
	})
	return refs, nil
}

// declaringIdents collects every *ast.Ident that names a function, method,
// type, field, parameter, or variable definition so FindReferences can skip
// them (they are not "references" to something defined elsewhere).
func declaringIdents(file *goast.File) map[*goast.Ident]bool {
	out := make(map[*goast.Ident]bool)
	goast.Inspect(file, func(n goast.Node) bool {
		switch d := n.(type) {
		case *goast.FuncDecl:
			out[d.Name] = true
			if d.Recv != nil {
				markFieldNames(d.Recv, out)
			}
			markFieldNames(d.Type.Params, out)
			if d.Type.Results != nil {
				markFieldNames(d.Type.Results, out)
			}
		case *goast.TypeSpec:
			out[d.Name] = true
		case *goast.ValueSpec:
			for _, name := range d.Names {
				out[name] = true
			}
		case *goast.Field:
			for _, name := range d.Names {
				out[name] = true
			}
		case *goast.AssignStmt:
			if d.Tok == token.DEFINE {
				for _, lhs := range d.Lhs {
					if id, ok := lhs.(*goast.Ident); ok {
						out[id] = true
					}
				}
			}
		case *goast.ImportSpec:
			if d.Name != nil {
				out[d.Name] = true
			}
		}
		return true
	})
	return out
}

func markFieldNames(list *goast.FieldList, out map[*goast.Ident]bool) {
	if list == nil {
		return
	}
	for _, field := range list.List {
		for _, name := range field.Names {
			out[name] = true
		}
	}
}

// signatureLine slices from a definition's starting byte offset to the first
// newline, per the specification's signature-line rule.
func signatureLine(content string, offset int) string {
	if offset < 0 || offset > len(content) {
		return ""
	}
	rest := content[offset:]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		return strings.TrimRight(rest[:idx], "\r")
	}
	return rest
}
