package pretty

import (
	"strconv"
	"strings"

	"github.com/yaklabco/structparse/pkg/ast"
)

const (
	treeBranch = "├── "
	treeLast   = "└── "
	treePipe   = "│   "
	treeBlank  = "    "
)

// FormatStructTree renders a struct as a tree, expanding array types:
//
//	struct Grid
//	├── name: str
//	└── cells: [[u8; 4]; 4]
//	    └── [u8; 4] × 4
//	        └── u8 × 4
func (s *Styles) FormatStructTree(st *ast.Struct) string {
	var builder strings.Builder

	builder.WriteString(s.Keyword.Render("struct") + " " + s.Bold.Render(st.Name) + "\n")

	for i, field := range st.Fields {
		last := i == len(st.Fields)-1
		builder.WriteString(s.TreeEdge.Render(edge(last)))
		builder.WriteString(s.FieldName.Render(field.Name) + s.Punct.Render(":") + " " + s.FormatType(field.Type) + "\n")
		s.writeArrayChain(&builder, field.Type, indent(last))
	}

	return builder.String()
}

func (s *Styles) writeArrayChain(builder *strings.Builder, ty ast.Ty, prefix string) {
	arr, ok := ty.(ast.Array)
	if !ok {
		return
	}

	builder.WriteString(s.TreeEdge.Render(prefix + treeLast))
	builder.WriteString(s.FormatType(arr.Elem) + s.Dim.Render(" × ") + s.Number.Render(strconv.FormatUint(arr.Len, 10)) + "\n")
	s.writeArrayChain(builder, arr.Elem, prefix+treeBlank)
}

// FormatType renders a type with syntax highlighting.
func (s *Styles) FormatType(ty ast.Ty) string {
	switch t := ty.(type) {
	case ast.Ident:
		return s.TypeName.Render(t.Name)
	case ast.Array:
		return s.Punct.Render("[") + s.FormatType(t.Elem) + s.Punct.Render(";") + " " +
			s.Number.Render(strconv.FormatUint(t.Len, 10)) + s.Punct.Render("]")
	default:
		return s.Dim.Render("<nil>")
	}
}

// FormatStruct renders a struct in canonical multi-line form with syntax
// highlighting. With colors disabled the output equals st.Format(indentStr).
func (s *Styles) FormatStruct(st *ast.Struct, indentStr string) string {
	if indentStr == "" {
		indentStr = "    "
	}

	var builder strings.Builder
	builder.WriteString(s.Keyword.Render("struct") + " " + s.Bold.Render(st.Name) + " " + s.Punct.Render("{"))

	if len(st.Fields) == 0 {
		builder.WriteString(s.Punct.Render("}") + "\n")
		return builder.String()
	}

	builder.WriteString("\n")
	for _, field := range st.Fields {
		builder.WriteString(indentStr + s.FieldName.Render(field.Name) + s.Punct.Render(":") + " " +
			s.FormatType(field.Type) + s.Punct.Render(",") + "\n")
	}
	builder.WriteString(s.Punct.Render("}") + "\n")

	return builder.String()
}

func edge(last bool) string {
	if last {
		return treeLast
	}
	return treeBranch
}

func indent(last bool) string {
	if last {
		return treeBlank
	}
	return treePipe
}
