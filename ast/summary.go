package ast

import "strings"

// Summary is a serialisable listing of a resolved module, used by "idlc dump".
type Summary struct {
	Name               string              `json:"name" yaml:"name"`
	Parent             string              `json:"parent,omitempty" yaml:"parent,omitempty"`
	Path               string              `json:"path" yaml:"path"`
	ExtendedAttributes map[string]string   `json:"extended_attributes,omitempty" yaml:"extended_attributes,omitempty"`
	Constructors       []string            `json:"constructors,omitempty" yaml:"constructors,omitempty"`
	Attributes         []string            `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Constants          []string            `json:"constants,omitempty" yaml:"constants,omitempty"`
	Functions          []string            `json:"functions,omitempty" yaml:"functions,omitempty"`
	StaticFunctions    []string            `json:"static_functions,omitempty" yaml:"static_functions,omitempty"`
	Special            []string            `json:"special,omitempty" yaml:"special,omitempty"`
	Iterator           string              `json:"iterator,omitempty" yaml:"iterator,omitempty"`
	Dictionaries       map[string][]string `json:"dictionaries,omitempty" yaml:"dictionaries,omitempty"`
	Enums              map[string][]string `json:"enums,omitempty" yaml:"enums,omitempty"`
	Mixins             []string            `json:"mixins,omitempty" yaml:"mixins,omitempty"`
	Includes           map[string][]string `json:"includes,omitempty" yaml:"includes,omitempty"`
	Imports            []string            `json:"imports,omitempty" yaml:"imports,omitempty"`
}

// Summarize lists the module's declarations in IDL-like notation.
func Summarize(i *Interface) *Summary {
	s := &Summary{
		Name:     i.Name,
		Parent:   i.ParentName,
		Path:     i.ModuleOwnPath,
		Mixins:   i.SortedMixinNames(),
		Includes: i.IncludedMixins,
	}
	if len(i.ExtendedAttributes) > 0 {
		s.ExtendedAttributes = i.ExtendedAttributes
	}

	for _, c := range i.Constructors {
		s.Constructors = append(s.Constructors, "constructor("+formatParameters(c.Parameters)+")")
	}
	for _, a := range i.Attributes {
		prefix := ""
		if a.ReadOnly {
			prefix = "readonly "
		}
		s.Attributes = append(s.Attributes, prefix+"attribute "+a.Type.String()+" "+a.Name)
	}
	for _, c := range i.Constants {
		s.Constants = append(s.Constants, "const "+c.Type.String()+" "+c.Name+" = "+c.Value)
	}
	for _, f := range i.Functions {
		s.Functions = append(s.Functions, formatFunction(&f))
	}
	for _, f := range i.StaticFunctions {
		s.StaticFunctions = append(s.StaticFunctions, "static "+formatFunction(&f))
	}

	special := []struct {
		label string
		fn    *Function
	}{
		{"named getter", i.NamedPropertyGetter},
		{"named setter", i.NamedPropertySetter},
		{"named deleter", i.NamedPropertyDeleter},
		{"indexed getter", i.IndexedPropertyGetter},
		{"indexed setter", i.IndexedPropertySetter},
	}
	for _, sp := range special {
		if sp.fn != nil {
			s.Special = append(s.Special, sp.label+": "+formatFunction(sp.fn))
		}
	}
	if i.HasStringifier {
		if i.StringifierAttribute != nil {
			s.Special = append(s.Special, "stringifier: "+*i.StringifierAttribute)
		} else {
			s.Special = append(s.Special, "stringifier")
		}
	}

	switch {
	case i.ValueIteratorType != nil:
		s.Iterator = "iterable<" + i.ValueIteratorType.String() + ">"
	case i.PairIteratorTypes != nil:
		s.Iterator = "iterable<" + i.PairIteratorTypes[0].String() + ", " + i.PairIteratorTypes[1].String() + ">"
	}

	if len(i.Dictionaries) > 0 {
		s.Dictionaries = map[string][]string{}
		for name, d := range i.Dictionaries {
			members := make([]string, 0, len(d.Members))
			for _, m := range d.Members {
				entry := m.Type.String() + " " + m.Name
				if m.Required {
					entry = "required " + entry
				}
				if m.Default != nil {
					entry += " = " + *m.Default
				}
				members = append(members, entry)
			}
			s.Dictionaries[name] = members
		}
	}
	if len(i.Enums) > 0 {
		s.Enums = map[string][]string{}
		for name, e := range i.Enums {
			values := make([]string, 0, len(e.Values))
			for _, v := range e.Values {
				values = append(values, `"`+v+`" -> `+e.TranslatedNames[v])
			}
			s.Enums[name] = values
		}
	}
	for _, m := range i.ImportedModules() {
		s.Imports = append(s.Imports, m.ModuleOwnPath)
	}
	return s
}

func formatFunction(f *Function) string {
	return f.ReturnType.String() + " " + f.Name + "(" + formatParameters(f.Parameters) + ")"
}

func formatParameters(params []Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		var sb strings.Builder
		if p.Optional {
			sb.WriteString("optional ")
		}
		sb.WriteString(p.Type.String())
		if p.Variadic {
			sb.WriteString("...")
		}
		sb.WriteString(" ")
		sb.WriteString(p.Name)
		if p.Default != nil {
			sb.WriteString(" = ")
			sb.WriteString(*p.Default)
		}
		parts[i] = sb.String()
	}
	return strings.Join(parts, ", ")
}
