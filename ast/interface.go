package ast

import (
	"sort"
	"sync"
)

// ModuleID indexes a parsed module in an Arena.
type ModuleID int

// MixinID indexes a mixin interface in an Arena.
type MixinID int

// Arena owns every interface produced while compiling one input, including
// transitively imported modules and the mixins they declare. Interfaces refer
// to each other through IDs into the arena rather than through pointers.
type Arena struct {
	mu      sync.RWMutex
	modules []*Interface
	mixins  []*Interface
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) AddModule(iface *Interface) ModuleID {
	a.mu.Lock()
	defer a.mu.Unlock()
	iface.Arena = a
	a.modules = append(a.modules, iface)
	return ModuleID(len(a.modules) - 1)
}

func (a *Arena) Module(id ModuleID) *Interface {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.modules[id]
}

func (a *Arena) AddMixin(mixin *Interface) MixinID {
	a.mu.Lock()
	defer a.mu.Unlock()
	mixin.Arena = a
	a.mixins = append(a.mixins, mixin)
	return MixinID(len(a.mixins) - 1)
}

func (a *Arena) Mixin(id MixinID) *Interface {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mixins[id]
}

// ModuleCount returns how many modules have been parsed into the arena.
func (a *Arena) ModuleCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.modules)
}

// Interface is the root of one parsed IDL module. A mixin body is also
// represented as an Interface with IsMixin set.
type Interface struct {
	Name               string
	ParentName         string
	IsMixin            bool
	ExtendedAttributes ExtendedAttributes

	Attributes      []Attribute
	Constants       []Constant
	Constructors    []Constructor
	Functions       []Function
	StaticFunctions []Function

	HasStringifier       bool
	StringifierAttribute *string
	HasUnscopableMember  bool

	NamedPropertyGetter   *Function
	NamedPropertySetter   *Function
	NamedPropertyDeleter  *Function
	IndexedPropertyGetter *Function
	IndexedPropertySetter *Function

	// Exactly one of these is set when the interface is iterable.
	ValueIteratorType Type
	PairIteratorTypes *[2]Type

	Dictionaries map[string]*Dict
	Enums        map[string]*Enum
	Mixins       map[string]MixinID

	// IncludedMixins maps an includer name to the mixins it includes, in
	// declaration order and without duplicates.
	IncludedMixins map[string][]string

	// ModuleOwnPath is the canonical path of the file this module was parsed from.
	ModuleOwnPath string

	// ImportedPaths holds the canonical paths of every module imported,
	// directly or transitively.
	ImportedPaths map[string]bool

	// Imports lists the modules imported directly by this one.
	Imports []ModuleID

	Arena *Arena
}

// NewInterface returns an Interface with its maps allocated.
func NewInterface() *Interface {
	return &Interface{
		ExtendedAttributes: ExtendedAttributes{},
		Dictionaries:       map[string]*Dict{},
		Enums:              map[string]*Enum{},
		Mixins:             map[string]MixinID{},
		IncludedMixins:     map[string][]string{},
		ImportedPaths:      map[string]bool{},
	}
}

func (i *Interface) WrapperClass() string { return i.Name + "Wrapper" }

// WrapperBaseClass is empty when the interface has no parent.
func (i *Interface) WrapperBaseClass() string {
	if i.ParentName == "" {
		return ""
	}
	return i.ParentName + "Wrapper"
}

func (i *Interface) ConstructorClass() string { return i.Name + "Constructor" }

func (i *Interface) PrototypeClass() string { return i.Name + "Prototype" }

func (i *Interface) PrototypeBaseClass() string {
	if i.ParentName == "" {
		return "ObjectPrototype"
	}
	return i.ParentName + "Prototype"
}

// FullyQualifiedName prefixes the name with a C++ namespace when one is given.
func (i *Interface) FullyQualifiedName(namespace string) string {
	if namespace == "" {
		return i.Name
	}
	return namespace + "::" + i.Name
}

func (i *Interface) SupportsIndexedProperties() bool { return i.IndexedPropertyGetter != nil }

func (i *Interface) SupportsNamedProperties() bool { return i.NamedPropertyGetter != nil }

// IsLegacyPlatformObject reports interfaces with indexed or named properties
// that are not marked [Global].
func (i *Interface) IsLegacyPlatformObject() bool {
	return !i.ExtendedAttributes.Has("Global") && (i.SupportsIndexedProperties() || i.SupportsNamedProperties())
}

func (i *Interface) SortedDictionaryNames() []string {
	return sortedKeys(i.Dictionaries)
}

func (i *Interface) SortedEnumNames() []string {
	return sortedKeys(i.Enums)
}

func (i *Interface) SortedMixinNames() []string {
	return sortedKeys(i.Mixins)
}

// ImportedModules returns the directly imported modules.
func (i *Interface) ImportedModules() []*Interface {
	if i.Arena == nil {
		return nil
	}
	out := make([]*Interface, 0, len(i.Imports))
	for _, id := range i.Imports {
		out = append(out, i.Arena.Module(id))
	}
	return out
}

// Mixin looks up a mixin known to this module by name.
func (i *Interface) Mixin(name string) (*Interface, bool) {
	id, ok := i.Mixins[name]
	if !ok || i.Arena == nil {
		return nil, false
	}
	return i.Arena.Mixin(id), true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
