package codegen

import (
	"strings"

	"github.com/teranos/idlc/ast"
	"github.com/teranos/idlc/errors"
)

// HostKind classifies how a value crosses the scripting boundary.
type HostKind int

const (
	KindUndefined HostKind = iota
	KindBoolean
	KindInteger
	KindNumber
	KindString
	KindEnum
	KindDictionary
	KindInterface
	KindSequence
	KindRecord
	KindVariant
)

var kindNames = [...]string{
	KindUndefined:  "Undefined",
	KindBoolean:    "Boolean",
	KindInteger:    "Integer",
	KindNumber:     "Number",
	KindString:     "String",
	KindEnum:       "Enum",
	KindDictionary: "Dictionary",
	KindInterface:  "Interface",
	KindSequence:   "Sequence",
	KindRecord:     "Record",
	KindVariant:    "Variant",
}

func (k HostKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// HostType is the mapped representation of an IDL type in generated code.
type HostType struct {
	Kind HostKind
	// Native is the C++ spelling, already wrapped in std::optional when nullable.
	Native string
	// Base is Native without the std::optional wrapper.
	Base     string
	Nullable bool
	// Name is the IDL name for enums, dictionaries and interfaces.
	Name string
}

// Unsigned reports integer types with an unsigned native representation.
func (h HostType) Unsigned() bool {
	return h.Kind == KindInteger && strings.HasPrefix(h.Base, "uint")
}

// Script names the script-engine value class used to check and convert the
// value, as in "Is<Script>()" and "To<Script>()".
func (h HostType) Script() string {
	switch h.Kind {
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		switch h.Base {
		case "int64_t", "uint64_t":
			return "Number"
		}
		if h.Unsigned() {
			return "Uint32"
		}
		return "Int32"
	case KindNumber:
		return "Number"
	case KindString, KindEnum:
		return "String"
	case KindDictionary, KindInterface, KindRecord:
		return "Object"
	case KindSequence:
		return "Array"
	case KindUndefined:
		return "Undefined"
	default:
		return "Value"
	}
}

var integerNatives = map[string]string{
	"byte":               "int8_t",
	"octet":              "uint8_t",
	"short":              "int16_t",
	"unsigned short":     "uint16_t",
	"long":               "int32_t",
	"unsigned long":      "uint32_t",
	"long long":          "int64_t",
	"unsigned long long": "uint64_t",
}

var numberNatives = map[string]string{
	"float":               "float",
	"unrestricted float":  "float",
	"double":              "double",
	"unrestricted double": "double",
}

var sequenceTypes = map[string]bool{
	"sequence":        true,
	"FrozenArray":     true,
	"ObservableArray": true,
}

// MapType maps an IDL type to its host representation. Names not covered by a
// builtin are looked up among the interface's dictionaries and enums, and are
// otherwise taken to name another wrapped interface.
func MapType(t ast.Type, iface *ast.Interface) (HostType, error) {
	switch t := t.(type) {
	case *ast.AnnotatedType:
		return MapType(t.Inner, iface)
	case *ast.PlainType:
		h, err := mapPlain(t.Name, iface)
		if err != nil {
			return HostType{}, err
		}
		return nullable(h, t.Nullable), nil
	case *ast.ParameterizedType:
		h, err := mapParameterized(t, iface)
		if err != nil {
			return HostType{}, err
		}
		return nullable(h, t.Nullable), nil
	case *ast.UnionType:
		h, err := mapUnion(t, iface)
		if err != nil {
			return HostType{}, err
		}
		return nullable(h, t.Nullable), nil
	case nil:
		return HostType{}, errors.AssertionFailedf("nil IDL type")
	default:
		return HostType{}, errors.AssertionFailedf("unexpected IDL type %T", t)
	}
}

func mapPlain(name string, iface *ast.Interface) (HostType, error) {
	if native, ok := integerNatives[name]; ok {
		return HostType{Kind: KindInteger, Native: native}, nil
	}
	if native, ok := numberNatives[name]; ok {
		return HostType{Kind: KindNumber, Native: native}, nil
	}
	plain := &ast.PlainType{Name: name}
	switch {
	case ast.IsString(plain):
		return HostType{Kind: KindString, Native: "std::string"}, nil
	case ast.IsBoolean(plain):
		return HostType{Kind: KindBoolean, Native: "bool"}, nil
	case ast.IsUndefined(plain):
		return HostType{Kind: KindUndefined, Native: "void"}, nil
	}

	switch name {
	case "any", "object", "symbol", "bigint":
		return HostType{}, errors.NewUnsupportedTypeError("type %q has no host mapping", name)
	}
	if iface != nil {
		if _, ok := iface.Enums[name]; ok {
			return HostType{Kind: KindEnum, Native: name, Name: name}, nil
		}
		if _, ok := iface.Dictionaries[name]; ok {
			return HostType{Kind: KindDictionary, Native: name, Name: name}, nil
		}
	}
	return HostType{Kind: KindInterface, Native: name + "*", Name: name}, nil
}

func mapParameterized(t *ast.ParameterizedType, iface *ast.Interface) (HostType, error) {
	switch {
	case sequenceTypes[t.Name]:
		if len(t.Parameters) != 1 {
			return HostType{}, errors.Newf("%s takes exactly one type parameter, got %d", t.Name, len(t.Parameters))
		}
		elem, err := MapType(t.Parameters[0], iface)
		if err != nil {
			return HostType{}, err
		}
		return HostType{Kind: KindSequence, Native: "std::vector<" + elem.Native + ">"}, nil
	case t.Name == "record":
		if len(t.Parameters) != 2 {
			return HostType{}, errors.Newf("record takes exactly two type parameters, got %d", len(t.Parameters))
		}
		key, err := MapType(t.Parameters[0], iface)
		if err != nil {
			return HostType{}, err
		}
		if key.Kind != KindString {
			return HostType{}, errors.Newf("record keys must be a string type, got %s", t.Parameters[0])
		}
		value, err := MapType(t.Parameters[1], iface)
		if err != nil {
			return HostType{}, err
		}
		return HostType{Kind: KindRecord, Native: "std::unordered_map<" + key.Native + ", " + value.Native + ">"}, nil
	default:
		return HostType{}, errors.NewUnsupportedTypeError("type %q has no host mapping", t)
	}
}

// mapUnion renders a union as a Variant of its flattened members. An undefined
// member becomes the Empty alternative, listed last.
func mapUnion(t *ast.UnionType, iface *ast.Interface) (HostType, error) {
	var natives []string
	seen := map[string]bool{}
	for _, member := range t.FlattenedMemberTypes() {
		if ast.IsUndefined(member) {
			continue
		}
		h, err := MapType(member, iface)
		if err != nil {
			return HostType{}, err
		}
		if !seen[h.Native] {
			seen[h.Native] = true
			natives = append(natives, h.Native)
		}
	}
	if t.IncludesUndefined() {
		natives = append(natives, "Empty")
	}
	return HostType{Kind: KindVariant, Native: "Variant<" + strings.Join(natives, ", ") + ">"}, nil
}

func nullable(h HostType, isNullable bool) HostType {
	h.Base = h.Native
	if !isNullable || h.Kind == KindUndefined {
		return h
	}
	h.Nullable = true
	h.Native = "std::optional<" + h.Native + ">"
	return h
}
