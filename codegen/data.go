package codegen

import (
	"path/filepath"
	"strings"

	"github.com/teranos/idlc/ast"
	"github.com/teranos/idlc/errors"
)

// Options control the names and paths baked into generated code.
type Options struct {
	// Namespace qualifies the implementation class, "" for the global namespace.
	Namespace string
	// BindingNamespace encloses the generated wrapper code.
	BindingNamespace string
	// IncludeRoot prefixes includes of the runtime support headers.
	IncludeRoot string
	// HeaderSearchPaths are stripped from module paths when forming includes.
	HeaderSearchPaths []string
	Namer             *Namer
}

// DefaultOptions returns the options used when the caller supplies none.
func DefaultOptions() Options {
	return Options{
		BindingNamespace: "Bindings",
		IncludeRoot:      "bindings",
		Namer:            NewNamer(),
	}
}

// TemplateData is everything a template sees. It is derived once from a
// resolved interface and never refers back to the AST.
type TemplateData struct {
	Name               string
	Parent             string
	HasParent          bool
	SourceFile         string
	WrapperClass       string
	WrapperBaseClass   string
	ConstructorClass   string
	PrototypeClass     string
	PrototypeBaseClass string
	IteratorClass      string
	FullyQualifiedName string
	BindingNamespace   string
	IncludeRoot        string

	Includes     []Include
	Enums        []EnumData
	Dictionaries []DictData

	Constructors  []MethodData
	Attributes    []AttributeData
	Constants     []ConstantData
	Methods       []MethodData
	StaticMethods []MethodData

	HasIndexedGetter  bool
	HasIndexedSetter  bool
	HasNamedGetter    bool
	HasNamedSetter    bool
	HasNamedDeleter   bool
	IndexedGetterType HostType
	IndexedSetterType HostType
	NamedGetterType   HostType
	NamedSetterType   HostType

	HasStringifier       bool
	StringifierAttribute string

	IsValueIterator bool
	IsPairIterator  bool
	IteratorKey     HostType
	IteratorValue   HostType

	LegacyPlatformObject bool
	HasUnscopableMember  bool

	CustomGet         bool
	CustomSet         bool
	CustomHasProperty bool

	ExtendedAttributes map[string]string
}

// Include is one generated header the unit depends on.
type Include struct {
	Path   string
	Module string
}

type EnumData struct {
	Name    string
	First   string
	Entries []EnumEntry
}

type EnumEntry struct {
	Value      string
	Identifier string
}

type DictData struct {
	Name    string
	Parent  string
	Members []DictMemberData
}

type DictMemberData struct {
	Name       string
	Identifier string
	Type       HostType
	Required   bool
	HasDefault bool
	Default    string
}

type ArgumentData struct {
	Index      int
	Name       string
	Identifier string
	Type       HostType
	Optional   bool
	Variadic   bool
	HasDefault bool
	Default    string
}

// MethodData describes an operation or a constructor. Constructors leave
// ReturnType zero.
type MethodData struct {
	Name       string
	Identifier string
	Length     int
	Arguments  []ArgumentData
	ReturnType HostType
	Returns    bool
}

type AttributeData struct {
	Name       string
	Identifier string
	Getter     string
	Setter     string
	ReadOnly   bool
	Virtual    bool
	Type       HostType
}

type ConstantData struct {
	Name       string
	Identifier string
	Value      string
	Type       HostType
}

// Unit selects which generated source unit to produce.
type Unit int

const (
	UnitHeader Unit = iota
	UnitImplementation
)

func (u Unit) String() string {
	switch u {
	case UnitHeader:
		return "header"
	case UnitImplementation:
		return "implementation"
	default:
		return "unknown"
	}
}

// Extension is the file extension of the unit, with the dot.
func (u Unit) Extension() string {
	if u == UnitHeader {
		return ".h"
	}
	return ".cpp"
}

// WrapperFileName is the file name generated for unit of the module at
// modulePath: the module's base name without extension, then "Wrapper".
func WrapperFileName(modulePath string, unit Unit) string {
	name := filepath.Base(modulePath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return name + "Wrapper" + unit.Extension()
}

// BuildData derives template data for one unit of iface.
func BuildData(iface *ast.Interface, unit Unit, opts Options) (*TemplateData, error) {
	if iface == nil || iface.Name == "" {
		return nil, errors.New("no interface declared")
	}
	if opts.Namer == nil {
		opts.Namer = NewNamer()
	}
	b := &builder{iface: iface, namer: opts.Namer}

	d := &TemplateData{
		Name:                 iface.Name,
		Parent:               iface.ParentName,
		HasParent:            iface.ParentName != "",
		SourceFile:           iface.ModuleOwnPath,
		WrapperClass:         iface.WrapperClass(),
		WrapperBaseClass:     iface.WrapperBaseClass(),
		ConstructorClass:     iface.ConstructorClass(),
		PrototypeClass:       iface.PrototypeClass(),
		PrototypeBaseClass:   iface.PrototypeBaseClass(),
		IteratorClass:        iface.Name + "Iterator",
		FullyQualifiedName:   iface.FullyQualifiedName(opts.Namespace),
		BindingNamespace:     opts.BindingNamespace,
		IncludeRoot:          opts.IncludeRoot,
		HasStringifier:       iface.HasStringifier,
		LegacyPlatformObject: iface.IsLegacyPlatformObject(),
		HasUnscopableMember:  iface.HasUnscopableMember,
		CustomGet:            iface.ExtendedAttributes.Has("CustomGet"),
		CustomSet:            iface.ExtendedAttributes.Has("CustomSet"),
		CustomHasProperty:    iface.ExtendedAttributes.Has("CustomHasProperty"),
		ExtendedAttributes:   map[string]string(iface.ExtendedAttributes),
	}
	if d.WrapperBaseClass == "" {
		d.WrapperBaseClass = "Wrapper"
	}
	if iface.StringifierAttribute != nil {
		d.StringifierAttribute = *iface.StringifierAttribute
	}
	d.Includes = includesFor(iface, unit, opts.HeaderSearchPaths)

	for _, name := range iface.SortedEnumNames() {
		enum := iface.Enums[name]
		if !enum.IsOriginalDefinition {
			continue
		}
		e := EnumData{Name: name, First: enum.TranslatedNames[enum.FirstMember]}
		for _, value := range enum.Values {
			e.Entries = append(e.Entries, EnumEntry{Value: value, Identifier: enum.TranslatedNames[value]})
		}
		d.Enums = append(d.Enums, e)
	}

	for _, name := range iface.SortedDictionaryNames() {
		if !iface.Dictionaries[name].IsOriginalDefinition {
			continue
		}
		dict, err := b.dictionary(iface.Dictionaries[name])
		if err != nil {
			return nil, err
		}
		d.Dictionaries = append(d.Dictionaries, dict)
	}

	for _, c := range iface.Constructors {
		m, err := b.method(c.Name, c.Parameters, nil, c.Length())
		if err != nil {
			return nil, errors.Wrapf(err, "constructor of %s", iface.Name)
		}
		d.Constructors = append(d.Constructors, m)
	}

	for _, a := range iface.Attributes {
		t, err := MapType(a.Type, iface)
		if err != nil {
			return nil, errors.Wrapf(err, "attribute %s", a.Name)
		}
		d.Attributes = append(d.Attributes, AttributeData{
			Name:       a.Name,
			Identifier: b.namer.Identifier(a.Name),
			Getter:     a.GetterCallbackName,
			Setter:     a.SetterCallbackName,
			ReadOnly:   a.ReadOnly,
			Virtual:    a.ExtendedAttributes.Has("Virtual") || a.ExtendedAttributes.Has("Custom"),
			Type:       t,
		})
	}

	for _, c := range iface.Constants {
		t, err := MapType(c.Type, iface)
		if err != nil {
			return nil, errors.Wrapf(err, "constant %s", c.Name)
		}
		d.Constants = append(d.Constants, ConstantData{
			Name:       c.Name,
			Identifier: b.namer.Identifier(c.Name),
			Value:      c.Value,
			Type:       t,
		})
	}

	var err error
	if d.Methods, err = b.functions(iface.Functions); err != nil {
		return nil, err
	}
	if d.StaticMethods, err = b.functions(iface.StaticFunctions); err != nil {
		return nil, err
	}

	if err := b.specials(d); err != nil {
		return nil, err
	}
	if err := b.iterator(d); err != nil {
		return nil, err
	}
	return d, nil
}

type builder struct {
	iface *ast.Interface
	namer *Namer
}

func (b *builder) functions(fns []ast.Function) ([]MethodData, error) {
	out := make([]MethodData, 0, len(fns))
	for _, f := range fns {
		m, err := b.method(f.Name, f.Parameters, f.ReturnType, f.Length())
		if err != nil {
			return nil, errors.Wrapf(err, "operation %s", f.Name)
		}
		out = append(out, m)
	}
	return out, nil
}

func (b *builder) method(name string, params []ast.Parameter, ret ast.Type, length int) (MethodData, error) {
	m := MethodData{Name: name, Identifier: b.namer.Identifier(name), Length: length}
	for i, p := range params {
		t, err := MapType(p.Type, b.iface)
		if err != nil {
			return m, errors.Wrapf(err, "parameter %s", p.Name)
		}
		arg := ArgumentData{
			Index:      i,
			Name:       p.Name,
			Identifier: b.namer.Identifier(p.Name),
			Type:       t,
			Optional:   p.Optional,
			Variadic:   p.Variadic,
		}
		if p.Default != nil {
			arg.HasDefault = true
			arg.Default = *p.Default
		}
		m.Arguments = append(m.Arguments, arg)
	}
	if ret != nil {
		t, err := MapType(ret, b.iface)
		if err != nil {
			return m, errors.Wrap(err, "return type")
		}
		m.ReturnType = t
		m.Returns = t.Kind != KindUndefined
	}
	return m, nil
}

func (b *builder) dictionary(dict *ast.Dict) (DictData, error) {
	out := DictData{Name: dict.Name, Parent: dict.ParentName}
	for _, m := range dict.Members {
		t, err := MapType(m.Type, b.iface)
		if err != nil {
			return out, errors.Wrapf(err, "dictionary member %s.%s", dict.Name, m.Name)
		}
		member := DictMemberData{
			Name:       m.Name,
			Identifier: b.namer.Identifier(m.Name),
			Type:       t,
			Required:   m.Required,
		}
		if m.Default != nil {
			member.HasDefault = true
			member.Default = *m.Default
		}
		out.Members = append(out.Members, member)
	}
	return out, nil
}

// specials records the special operations and the value types they traffic in.
func (b *builder) specials(d *TemplateData) error {
	iface := b.iface
	var err error
	if g := iface.IndexedPropertyGetter; g != nil {
		d.HasIndexedGetter = true
		if d.IndexedGetterType, err = MapType(g.ReturnType, iface); err != nil {
			return errors.Wrap(err, "indexed property getter")
		}
	}
	if s := iface.IndexedPropertySetter; s != nil {
		d.HasIndexedSetter = true
		if d.IndexedSetterType, err = MapType(s.Parameters[1].Type, iface); err != nil {
			return errors.Wrap(err, "indexed property setter")
		}
	}
	if g := iface.NamedPropertyGetter; g != nil {
		d.HasNamedGetter = true
		if d.NamedGetterType, err = MapType(g.ReturnType, iface); err != nil {
			return errors.Wrap(err, "named property getter")
		}
	}
	if s := iface.NamedPropertySetter; s != nil {
		d.HasNamedSetter = true
		if d.NamedSetterType, err = MapType(s.Parameters[1].Type, iface); err != nil {
			return errors.Wrap(err, "named property setter")
		}
	}
	d.HasNamedDeleter = iface.NamedPropertyDeleter != nil
	return nil
}

func (b *builder) iterator(d *TemplateData) error {
	iface := b.iface
	var err error
	switch {
	case iface.ValueIteratorType != nil:
		d.IsValueIterator = true
		d.IteratorValue, err = MapType(iface.ValueIteratorType, iface)
	case iface.PairIteratorTypes != nil:
		d.IsPairIterator = true
		if d.IteratorKey, err = MapType(iface.PairIteratorTypes[0], iface); err != nil {
			break
		}
		d.IteratorValue, err = MapType(iface.PairIteratorTypes[1], iface)
	}
	return errors.Wrap(err, "iterable declaration")
}


// includesFor walks the import graph breadth first and returns one include per
// distinct module. The header of a module does not include itself.
func includesFor(iface *ast.Interface, unit Unit, searchPaths []string) []Include {
	visited := map[string]bool{}
	if unit == UnitHeader {
		visited[iface.ModuleOwnPath] = true
	}

	var out []Include
	queue := iface.ImportedModules()
	if unit == UnitImplementation {
		queue = append([]*ast.Interface{iface}, queue...)
	}
	for len(queue) > 0 {
		module := queue[0]
		queue = queue[1:]
		if visited[module.ModuleOwnPath] {
			continue
		}
		visited[module.ModuleOwnPath] = true
		out = append(out, Include{Path: headerPath(module.ModuleOwnPath, searchPaths), Module: module.Name})
		queue = append(queue, module.ImportedModules()...)
	}
	return out
}

// headerPath returns the include path of the wrapper header generated for
// the module at modulePath. The directory is kept relative to the longest
// matching search path; without a match only the file name is used, which
// resolves when headers are generated side by side.
func headerPath(modulePath string, searchPaths []string) string {
	name := WrapperFileName(modulePath, UnitHeader)
	dir := ""
	found := false
	for _, base := range searchPaths {
		rel, err := filepath.Rel(base, filepath.Dir(modulePath))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if !found || len(rel) < len(dir) {
			dir, found = rel, true
		}
	}
	if !found || dir == "." {
		return name
	}
	return filepath.ToSlash(filepath.Join(dir, name))
}
