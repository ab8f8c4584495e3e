// Package ast provides the data model for struct definitions:
// - Token stream: classified, span-located lexical units
// - Struct, Field, Ty: the abstract syntax tree produced by a parse
// - Source: the original text with a line index for diagnostics
//
// All values are built once by a parse and never mutated afterwards.
package ast

import "strconv"

// Struct is a parsed struct definition.
type Struct struct {
	// Name is the struct identifier.
	Name string

	// Fields holds the fields in declaration order.
	// Nil for a struct without fields.
	Fields []Field
}

// Field is a single struct field.
// Field names are not required to be unique.
type Field struct {
	// Name is the field identifier.
	Name string

	// Type is the declared field type.
	Type Ty
}

// Ty is a field type. The concrete types are Ident and Array.
type Ty interface {
	// String renders the type in canonical surface syntax.
	String() string

	ty()
}

// Ident is a type named by an identifier, e.g. "u32".
type Ident struct {
	Name string
}

// Array is a fixed-size array type, e.g. "[u8; 4]".
// Elem may itself be an Array, which allows arbitrary nesting.
type Array struct {
	// Elem is the element type.
	Elem Ty

	// Len is the number of elements.
	Len uint64
}

func (Ident) ty() {}
func (Array) ty() {}

// String implements Ty.
func (t Ident) String() string {
	return t.Name
}

// String implements Ty.
func (t Array) String() string {
	elem := "<nil>"
	if t.Elem != nil {
		elem = t.Elem.String()
	}
	return "[" + elem + "; " + strconv.FormatUint(t.Len, 10) + "]"
}

// Depth returns the array nesting depth of a type: 0 for an Ident,
// 1 for "[T; N]" with an Ident element, and so on.
func Depth(t Ty) int {
	depth := 0
	for {
		arr, ok := t.(Array)
		if !ok {
			return depth
		}
		depth++
		t = arr.Elem
	}
}

// ElemName returns the innermost identifier of a type, unwrapping arrays.
// Returns "" if the chain does not end in an Ident.
func ElemName(t Ty) string {
	for {
		switch v := t.(type) {
		case Ident:
			return v.Name
		case Array:
			t = v.Elem
		default:
			return ""
		}
	}
}
