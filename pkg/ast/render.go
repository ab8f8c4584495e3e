package ast

import "strings"

// String renders the struct in canonical one-line form:
//
//	struct Name { a: u8, b: [u8; 4] }
//
// A struct without fields renders as "struct Name {}".
func (s *Struct) String() string {
	var builder strings.Builder

	builder.WriteString("struct ")
	builder.WriteString(s.Name)

	if len(s.Fields) == 0 {
		builder.WriteString(" {}")
		return builder.String()
	}

	builder.WriteString(" { ")
	for i, field := range s.Fields {
		if i > 0 {
			builder.WriteString(", ")
		}
		writeField(&builder, field)
	}
	builder.WriteString(" }")

	return builder.String()
}

// Format renders the struct in canonical multi-line form, one field per
// line with a trailing comma. An empty indent defaults to four spaces.
func (s *Struct) Format(indent string) string {
	if indent == "" {
		indent = "    "
	}

	var builder strings.Builder

	builder.WriteString("struct ")
	builder.WriteString(s.Name)
	builder.WriteString(" {")

	if len(s.Fields) == 0 {
		builder.WriteString("}\n")
		return builder.String()
	}

	builder.WriteByte('\n')
	for _, field := range s.Fields {
		builder.WriteString(indent)
		writeField(&builder, field)
		builder.WriteString(",\n")
	}
	builder.WriteString("}\n")

	return builder.String()
}

// FormatAll renders a sequence of structs in multi-line form separated by
// blank lines.
func FormatAll(structs []*Struct, indent string) string {
	parts := make([]string, 0, len(structs))
	for _, s := range structs {
		parts = append(parts, s.Format(indent))
	}
	return strings.Join(parts, "\n")
}

func writeField(builder *strings.Builder, field Field) {
	builder.WriteString(field.Name)
	builder.WriteString(": ")
	if field.Type == nil {
		builder.WriteString("<nil>")
		return
	}
	builder.WriteString(field.Type.String())
}
