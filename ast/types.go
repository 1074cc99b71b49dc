package ast

import (
	"strings"
)

// Type is the closed set of IDL type shapes: *PlainType, *ParameterizedType,
// *UnionType and *AnnotatedType. Consumers switch over the concrete type and
// treat anything else as a bug.
type Type interface {
	isType()

	// IsNullable reports whether the type was marked with a trailing '?'.
	IsNullable() bool

	// String renders the type in IDL syntax.
	String() string
}

// PlainType is a named type such as "DOMString", "unsigned long" or "Node".
type PlainType struct {
	Name     string
	Nullable bool
}

// ParameterizedType is a generic type such as "sequence<T>" or "record<K, V>".
type ParameterizedType struct {
	Name       string
	Nullable   bool
	Parameters []Type
}

// UnionType is a parenthesised "(A or B or ...)" type with at least two members.
type UnionType struct {
	Nullable bool
	Members  []Type
}

// AnnotatedType is a type prefixed with extended attributes, e.g. "[Clamp] long".
type AnnotatedType struct {
	ExtendedAttributes ExtendedAttributes
	Inner              Type
}

func (*PlainType) isType()         {}
func (*ParameterizedType) isType() {}
func (*UnionType) isType()         {}
func (*AnnotatedType) isType()     {}

func (t *PlainType) IsNullable() bool         { return t.Nullable }
func (t *ParameterizedType) IsNullable() bool { return t.Nullable }
func (t *UnionType) IsNullable() bool         { return t.Nullable }
func (t *AnnotatedType) IsNullable() bool     { return t.Inner.IsNullable() }

func (t *PlainType) String() string {
	return t.Name + nullableSuffix(t.Nullable)
}

func (t *ParameterizedType) String() string {
	params := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		params[i] = p.String()
	}
	return t.Name + "<" + strings.Join(params, ", ") + ">" + nullableSuffix(t.Nullable)
}

func (t *UnionType) String() string {
	members := make([]string, len(t.Members))
	for i, m := range t.Members {
		members[i] = m.String()
	}
	return "(" + strings.Join(members, " or ") + ")" + nullableSuffix(t.Nullable)
}

func (t *AnnotatedType) String() string {
	return t.ExtendedAttributes.String() + " " + t.Inner.String()
}

func nullableSuffix(nullable bool) string {
	if nullable {
		return "?"
	}
	return ""
}

// FlattenedMemberTypes returns the non-union leaves of the union, recursing
// into nested unions and looking through annotations.
func (t *UnionType) FlattenedMemberTypes() []Type {
	var out []Type
	for _, m := range t.Members {
		m = Unwrap(m)
		if u, ok := m.(*UnionType); ok {
			out = append(out, u.FlattenedMemberTypes()...)
			continue
		}
		out = append(out, m)
	}
	return out
}

// NumberOfNullableMemberTypes counts nullable members, including those of nested unions.
func (t *UnionType) NumberOfNullableMemberTypes() int {
	n := 0
	for _, m := range t.Members {
		m = Unwrap(m)
		if m.IsNullable() {
			n++
		}
		if u, ok := m.(*UnionType); ok {
			n += u.NumberOfNullableMemberTypes()
		}
	}
	return n
}

// IncludesNullableType reports whether the union itself or exactly one of its
// flattened members is nullable.
func (t *UnionType) IncludesNullableType() bool {
	return t.Nullable || t.NumberOfNullableMemberTypes() == 1
}

// IncludesUndefined reports whether "undefined" appears among the flattened members.
func (t *UnionType) IncludesUndefined() bool {
	for _, m := range t.FlattenedMemberTypes() {
		if p, ok := m.(*PlainType); ok && p.Name == "undefined" {
			return true
		}
	}
	return false
}

// Unwrap strips any extended-attribute annotations.
func Unwrap(t Type) Type {
	for {
		a, ok := t.(*AnnotatedType)
		if !ok {
			return t
		}
		t = a.Inner
	}
}

// NameOf returns the base name of plain and parameterized types, and "" for unions.
func NameOf(t Type) string {
	switch t := Unwrap(t).(type) {
	case *PlainType:
		return t.Name
	case *ParameterizedType:
		return t.Name
	default:
		return ""
	}
}

var stringTypes = map[string]bool{
	"DOMString":   true,
	"USVString":   true,
	"ByteString":  true,
	"CSSOMString": true,
	"string":      true,
}

var integerTypes = map[string]bool{
	"byte":               true,
	"octet":              true,
	"short":              true,
	"unsigned short":     true,
	"long":               true,
	"unsigned long":      true,
	"long long":          true,
	"unsigned long long": true,
}

var floatTypes = map[string]bool{
	"float":               true,
	"unrestricted float":  true,
	"double":              true,
	"unrestricted double": true,
}

func plainName(t Type) (string, bool) {
	p, ok := Unwrap(t).(*PlainType)
	if !ok {
		return "", false
	}
	return p.Name, true
}

// IsString reports the IDL string family.
func IsString(t Type) bool {
	name, ok := plainName(t)
	return ok && stringTypes[name]
}

// IsInteger reports the IDL integer types, signed and unsigned.
func IsInteger(t Type) bool {
	name, ok := plainName(t)
	return ok && integerTypes[name]
}

// IsNumeric reports integers and floating-point types.
func IsNumeric(t Type) bool {
	name, ok := plainName(t)
	return ok && (integerTypes[name] || floatTypes[name])
}

func IsBoolean(t Type) bool {
	name, ok := plainName(t)
	return ok && name == "boolean"
}

// IsUndefined reports "undefined" and its legacy spelling "void".
func IsUndefined(t Type) bool {
	name, ok := plainName(t)
	return ok && (name == "undefined" || name == "void")
}
