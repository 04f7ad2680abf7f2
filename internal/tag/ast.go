package tag

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"
)

// Aggregate is a parsed struct type carrying at least one `bitwire:"..."`
// field tag. Grounded on the teacher's internal/parser/ast.go TypeLayout,
// generalized from the teacher's single Region-oriented Layout per field
// to the full Directive table, and extended to also record the doc
// position for diagnostics.
type Aggregate struct {
	Name   string
	Anno   *TypeAnnotation
	Fields []Field
	Pos    token.Position
}

// Field is a single struct field with its normalized directive.
type Field struct {
	Name      string
	GoType    string
	Directive *Directive
	Pos       token.Position
}

// Enumeration is a parsed `type X <uint-kind>` declaration annotated with
// `// @bitwire`, together with the discriminant constants declared for it
// elsewhere in the same file. The teacher has no analogue — enumerations
// come from bebytes_derive/src/enums.rs's handle_enum, ported to a static
// AST walk instead of a derive macro.
type Enumeration struct {
	Name       string
	Underlying string // e.g. "uint8", "uint16"
	Anno       *TypeAnnotation
	Variants   []Variant
	Pos        token.Position
}

// Variant is one named constant of an Enumeration. Value is nil when the
// source left the discriminant implicit (spec.md §10: auto-assigned as
// the previous explicit-or-implicit value + 1, starting at 0).
type Variant struct {
	Name  string
	Value *uint64
	Pos   token.Position
}

// File is everything ParseFile extracted from one source file.
type File struct {
	PackageName  string
	Aggregates   []*Aggregate
	Enumerations []*Enumeration
}

// ParseFile parses a Go source file and extracts every @bitwire-annotated
// struct and enumeration declaration in it.
func ParseFile(filename string) (*File, error) {
	fset := token.NewFileSet()
	astFile, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	consts := collectConsts(astFile, fset)

	result := &File{PackageName: astFile.Name.Name}
	for _, decl := range astFile.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			anno := extractAnnotation(genDecl.Doc)
			if anno == nil {
				continue
			}
			pos := fset.Position(typeSpec.Pos())

			switch t := typeSpec.Type.(type) {
			case *ast.StructType:
				fields, ferr := extractFields(t, fset)
				if ferr != nil {
					return nil, fmt.Errorf("%s: %w", typeSpec.Name.Name, ferr)
				}
				if len(fields) == 0 {
					continue
				}
				result.Aggregates = append(result.Aggregates, &Aggregate{
					Name:   typeSpec.Name.Name,
					Anno:   anno,
					Fields: fields,
					Pos:    pos,
				})
			case *ast.Ident:
				result.Enumerations = append(result.Enumerations, &Enumeration{
					Name:       typeSpec.Name.Name,
					Underlying: t.Name,
					Anno:       anno,
					Variants:   consts[typeSpec.Name.Name],
					Pos:        pos,
				})
			}
		}
	}
	return result, nil
}

func extractAnnotation(doc *ast.CommentGroup) *TypeAnnotation {
	if doc == nil {
		return nil
	}
	var lines []string
	for _, comment := range doc.List {
		lines = append(lines, CleanComment(comment.Text))
	}
	anno, found := FindAnnotation(lines)
	if !found {
		return nil
	}
	return anno
}

func extractFields(structType *ast.StructType, fset *token.FileSet) ([]Field, error) {
	var fields []Field
	for _, f := range structType.Fields.List {
		if len(f.Names) == 0 || f.Tag == nil {
			continue
		}
		structTag := reflect.StructTag(strings.Trim(f.Tag.Value, "`"))
		tagValue, ok := structTag.Lookup("bitwire")
		if !ok {
			continue
		}
		directive, err := ParseTag(tagValue)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Names[0].Name, err)
		}
		fields = append(fields, Field{
			Name:      f.Names[0].Name,
			GoType:    typeToString(f.Type),
			Directive: directive,
			Pos:       fset.Position(f.Pos()),
		})
	}
	return fields, nil
}

// collectConsts walks every top-level const block in the file and groups
// declared identifiers by their named type, so an Enumeration declared as
// `type Status uint8` can be matched against `const ( StatusOK Status = 0
// ... )` declared anywhere in the same file. Implicit (iota-style or
// omitted) values are recorded as nil and resolved later by
// codegen.ResolveDiscriminants per spec.md §10's auto-assignment rule.
func collectConsts(file *ast.File, fset *token.FileSet) map[string][]Variant {
	out := make(map[string][]Variant)
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.CONST {
			continue
		}
		var lastType string
		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			typeName := lastType
			if ident, ok := valueSpec.Type.(*ast.Ident); ok {
				typeName = ident.Name
			}
			if typeName == "" {
				continue
			}
			lastType = typeName

			for i, name := range valueSpec.Names {
				v := Variant{Name: name.Name, Pos: fset.Position(name.Pos())}
				if i < len(valueSpec.Values) {
					if lit, ok := valueSpec.Values[i].(*ast.BasicLit); ok && lit.Kind == token.INT {
						if n, err := strconv.ParseUint(lit.Value, 0, 64); err == nil {
							v.Value = &n
						}
					}
				}
				out[typeName] = append(out[typeName], v)
			}
		}
	}
	return out
}

// typeToString converts an AST type expression to the subset of Go type
// syntax this pipeline understands: named types, fixed arrays, slices,
// and pointers to any of those.
func typeToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return exprToString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + typeToString(t.Elt)
		}
		return fmt.Sprintf("[%s]%s", exprToString(t.Len), typeToString(t.Elt))
	case *ast.StarExpr:
		return "*" + typeToString(t.X)
	default:
		return "unknown"
	}
}

func exprToString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.BasicLit:
		return e.Value
	case *ast.Ident:
		return e.Name
	default:
		return "?"
	}
}
