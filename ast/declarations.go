package ast

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ExtendedAttributes maps "[Name=Value]" entries to their value.
// Attributes written without "=" map to the empty string.
type ExtendedAttributes map[string]string

func (e ExtendedAttributes) Has(name string) bool {
	_, ok := e[name]
	return ok
}

func (e ExtendedAttributes) Get(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

// Names returns the attribute names in sorted order.
func (e ExtendedAttributes) Names() []string {
	names := make([]string, 0, len(e))
	for k := range e {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String renders the attributes in IDL syntax with names in sorted order.
func (e ExtendedAttributes) String() string {
	parts := make([]string, 0, len(e))
	for _, name := range e.Names() {
		if v := e[name]; v != "" {
			parts = append(parts, name+"="+v)
		} else {
			parts = append(parts, name)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (e ExtendedAttributes) clone() ExtendedAttributes {
	if e == nil {
		return nil
	}
	out := make(ExtendedAttributes, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

type Parameter struct {
	Type               Type
	Name               string
	Optional           bool
	Default            *string
	ExtendedAttributes ExtendedAttributes
	Variadic           bool
}

type Function struct {
	ReturnType         Type
	Name               string
	Parameters         []Parameter
	ExtendedAttributes ExtendedAttributes
	Static             bool
}

// Length is the number of required parameters: those neither optional nor variadic.
func (f *Function) Length() int {
	return requiredParameters(f.Parameters)
}

type Constructor struct {
	Name       string
	Parameters []Parameter
}

func (c *Constructor) Length() int {
	return requiredParameters(c.Parameters)
}

func requiredParameters(params []Parameter) int {
	n := 0
	for _, p := range params {
		if !p.Optional && !p.Variadic {
			n++
		}
	}
	return n
}

type Constant struct {
	Type  Type
	Name  string
	Value string
}

type Attribute struct {
	ReadOnly           bool
	Type               Type
	Name               string
	ExtendedAttributes ExtendedAttributes
	GetterCallbackName string
	SetterCallbackName string
}

// NewAttribute fills in the derived getter and setter callback names.
func NewAttribute(name string, t Type, readOnly bool, attrs ExtendedAttributes) Attribute {
	title := TitleCase(name)
	return Attribute{
		ReadOnly:           readOnly,
		Type:               t,
		Name:               name,
		ExtendedAttributes: attrs,
		GetterCallbackName: "Get" + title,
		SetterCallbackName: "Set" + title,
	}
}

// TitleCase upper-cases the first letter of every space separated word and
// leaves the remaining letters untouched.
func TitleCase(s string) string {
	return cases.Title(language.Und, cases.NoLower).String(s)
}

type DictMember struct {
	Required           bool
	Type               Type
	Name               string
	ExtendedAttributes ExtendedAttributes
	Default            *string
}

type Dict struct {
	Name       string
	ParentName string
	Members    []DictMember

	// IsOriginalDefinition is false for copies merged in from an imported module.
	IsOriginalDefinition bool
}

// SortMembers orders members by name, byte-wise.
func (d *Dict) SortMembers() {
	sort.SliceStable(d.Members, func(i, j int) bool {
		return d.Members[i].Name < d.Members[j].Name
	})
}

// Clone returns a deep copy; types are immutable after parsing and are shared.
func (d *Dict) Clone() *Dict {
	out := &Dict{
		Name:                 d.Name,
		ParentName:           d.ParentName,
		Members:              make([]DictMember, len(d.Members)),
		IsOriginalDefinition: d.IsOriginalDefinition,
	}
	for i, m := range d.Members {
		m.ExtendedAttributes = m.ExtendedAttributes.clone()
		if m.Default != nil {
			v := *m.Default
			m.Default = &v
		}
		out.Members[i] = m
	}
	return out
}

type Enum struct {
	Name string

	// Values in declaration order, without duplicates.
	Values []string

	// TranslatedNames maps each value to a host-language identifier.
	TranslatedNames map[string]string

	FirstMember string

	// IsOriginalDefinition is false for copies merged in from an imported module.
	IsOriginalDefinition bool
}

// Has reports whether value is one of the enum's literals.
func (e *Enum) Has(value string) bool {
	_, ok := e.TranslatedNames[value]
	return ok
}

// Clone returns a deep copy.
func (e *Enum) Clone() *Enum {
	out := &Enum{
		Name:                 e.Name,
		Values:               append([]string(nil), e.Values...),
		TranslatedNames:      make(map[string]string, len(e.TranslatedNames)),
		FirstMember:          e.FirstMember,
		IsOriginalDefinition: e.IsOriginalDefinition,
	}
	for k, v := range e.TranslatedNames {
		out.TranslatedNames[k] = v
	}
	return out
}
