package parser

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/idlc/ast"
	"github.com/teranos/idlc/errors"
)

func parseSource(t *testing.T, src string) (*ast.Interface, error) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/idl/Test.idl", []byte(src), 0o644))
	return NewSession(WithFs(fs)).ParseFile("/idl/Test.idl")
}

func mustParse(t *testing.T, src string) *ast.Interface {
	t.Helper()
	iface, err := parseSource(t, src)
	require.NoError(t, err)
	return iface
}

func requireDiagnostic(t *testing.T, src string, contains string) *Diagnostic {
	t.Helper()
	_, err := parseSource(t, src)
	require.Error(t, err)
	diag, ok := AsDiagnostic(err)
	require.True(t, ok, "expected a diagnostic, got %v", err)
	assert.Contains(t, diag.Message, contains)
	return diag
}

func TestMemberCounts(t *testing.T) {
	iface := mustParse(t, `
enum Mode { "fast", "slow", "off" };

interface Engine {
    attribute long speed;
    readonly attribute Mode mode;
    undefined start();
    undefined stop(optional boolean force = false);
};
`)

	assert.Equal(t, "Engine", iface.Name)
	assert.Len(t, iface.Attributes, 2)
	assert.Len(t, iface.Functions, 2)
	require.Contains(t, iface.Enums, "Mode")
	assert.Len(t, iface.Enums["Mode"].Values, 3)
}

func TestEndToEndWidget(t *testing.T) {
	iface := mustParse(t, `
enum Color { "Red", "Green" };
interface Widget {
    constructor();
    readonly attribute Color tint;
    void paint();
};
`)

	require.Len(t, iface.Enums, 1)
	color := iface.Enums["Color"]
	require.NotNil(t, color)
	assert.Equal(t, []string{"Red", "Green"}, color.Values)
	assert.Equal(t, "Red", color.FirstMember)
	assert.True(t, color.IsOriginalDefinition)

	assert.Equal(t, "Widget", iface.Name)
	require.Len(t, iface.Constructors, 1)
	assert.Equal(t, "Widget", iface.Constructors[0].Name)
	assert.Empty(t, iface.Constructors[0].Parameters)

	require.Len(t, iface.Attributes, 1)
	tint := iface.Attributes[0]
	assert.True(t, tint.ReadOnly)
	assert.Equal(t, "Color", ast.NameOf(tint.Type))
	assert.Equal(t, "GetTint", tint.GetterCallbackName)
	assert.Equal(t, "SetTint", tint.SetterCallbackName)

	require.Len(t, iface.Functions, 1)
	paint := iface.Functions[0]
	assert.Equal(t, "paint", paint.Name)
	assert.Equal(t, "void", ast.NameOf(paint.ReturnType))
	assert.Equal(t, 0, paint.Length())
}

func TestEnums(t *testing.T) {
	t.Run("duplicate value", func(t *testing.T) {
		diag := requireDiagnostic(t, `enum E { "a", "a" };`, "Enumeration value 'a' is already defined.")
		assert.Equal(t, KindSemantic, diag.Kind)
		assert.Equal(t, 1, diag.Line)
		assert.Equal(t, 15, diag.Column)
	})

	t.Run("distinct values", func(t *testing.T) {
		iface := mustParse(t, `enum E { "a", "b", };`)
		e := iface.Enums["E"]
		require.NotNil(t, e)
		assert.Equal(t, "A", e.TranslatedNames["a"])
		assert.Equal(t, "B", e.TranslatedNames["b"])
	})

	t.Run("empty enum", func(t *testing.T) {
		requireDiagnostic(t, `enum E { };`, "must have at least one value")
	})
}

func TestEnumNameTranslation(t *testing.T) {
	names := translateEnumValues([]string{
		"no-referrer-when-downgrade",
		"",
		"a b",
		"ab",
		"2d",
		"x.y",
		"snake_case",
	})

	assert.Equal(t, "NoReferrerWhenDowngrade", names["no-referrer-when-downgrade"])
	assert.Equal(t, "Empty", names[""])
	assert.Equal(t, "AB", names["a b"])
	assert.Equal(t, "Ab", names["ab"])
	assert.Equal(t, "_2d", names["2d"])
	assert.Equal(t, "X_Y", names["x.y"])
	assert.Equal(t, "SnakeCase", names["snake_case"])

	collisions := translateEnumValues([]string{"a-b", "a_b", "a b"})
	assert.Equal(t, "AB", collisions["a-b"])
	assert.Equal(t, "AB_", collisions["a_b"])
	assert.Equal(t, "AB__", collisions["a b"])
}

func TestDictionaryMembersSorted(t *testing.T) {
	iface := mustParse(t, `
dictionary Options {
    long b;
    required DOMString a;
    [Clamp] octet c = 3;
    sequence<long> d = [];
};
interface Thing {};
`)

	dict := iface.Dictionaries["Options"]
	require.NotNil(t, dict)
	var names []string
	for _, m := range dict.Members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
	assert.True(t, dict.Members[0].Required)
	require.NotNil(t, dict.Members[2].Default)
	assert.Equal(t, "3", *dict.Members[2].Default)
	assert.True(t, dict.Members[2].ExtendedAttributes.Has("Clamp"))
	assert.Equal(t, "[]", *dict.Members[3].Default)
}

func TestDictionaryRequiredWithDefault(t *testing.T) {
	requireDiagnostic(t, `dictionary D { required long x = 1; };`, "cannot be required and have a default value")
}

func TestSpecialOperations(t *testing.T) {
	t.Run("two parameter getter", func(t *testing.T) {
		requireDiagnostic(t, `interface I { getter long f(DOMString a, DOMString b); };`,
			"Named/indexed property getters must have exactly one parameter, got 2.")
	})

	t.Run("named getter", func(t *testing.T) {
		iface := mustParse(t, `interface I { getter long f(DOMString key); };`)
		require.NotNil(t, iface.NamedPropertyGetter)
		assert.Nil(t, iface.IndexedPropertyGetter)
		assert.Equal(t, "f", iface.NamedPropertyGetter.Name)
		assert.True(t, iface.SupportsNamedProperties())
		require.Len(t, iface.Functions, 1, "an identified special operation is also a regular operation")
	})

	t.Run("indexed getter", func(t *testing.T) {
		iface := mustParse(t, `interface I { getter long f(unsigned long idx); };`)
		require.NotNil(t, iface.IndexedPropertyGetter)
		assert.Nil(t, iface.NamedPropertyGetter)
		assert.True(t, iface.IsLegacyPlatformObject())
	})

	t.Run("anonymous getter", func(t *testing.T) {
		iface := mustParse(t, `interface I { getter any (DOMString name); };`)
		require.NotNil(t, iface.NamedPropertyGetter)
		assert.Empty(t, iface.Functions)
	})

	t.Run("setters", func(t *testing.T) {
		iface := mustParse(t, `interface I {
            setter undefined (unsigned long index, long value);
            setter undefined set(DOMString name, long value);
        };`)
		assert.NotNil(t, iface.IndexedPropertySetter)
		assert.NotNil(t, iface.NamedPropertySetter)
	})

	t.Run("setter arity", func(t *testing.T) {
		requireDiagnostic(t, `interface I { setter undefined (unsigned long index); };`,
			"Named/indexed property setters must have exactly two parameters, got 1.")
	})

	t.Run("nullable key", func(t *testing.T) {
		requireDiagnostic(t, `interface I { getter long (DOMString? key); };`, "must not be nullable")
	})

	t.Run("optional key", func(t *testing.T) {
		requireDiagnostic(t, `interface I { getter long (optional DOMString key); };`, "must not be optional")
	})

	t.Run("wrong key type", func(t *testing.T) {
		requireDiagnostic(t, `interface I { getter long (double key); };`, "got 'double'")
	})

	t.Run("duplicate named getter", func(t *testing.T) {
		requireDiagnostic(t, `interface I { getter long a(DOMString k); getter long b(DOMString k); };`,
			"An interface may only have one named property getter.")
	})

	t.Run("indexed deleter", func(t *testing.T) {
		requireDiagnostic(t, `interface I { deleter undefined (unsigned long i); };`, "only have named property deleters")
	})

	t.Run("named deleter", func(t *testing.T) {
		iface := mustParse(t, `interface I { deleter undefined remove(DOMString name); };`)
		assert.NotNil(t, iface.NamedPropertyDeleter)
	})
}

func TestIterable(t *testing.T) {
	t.Run("pair iterator with indexed getter", func(t *testing.T) {
		requireDiagnostic(t, `interface I { getter long (unsigned long i); iterable<DOMString, long>; };`,
			"Interfaces with a pair iterator must not support indexed properties.")
	})

	t.Run("value iterator without indexed getter", func(t *testing.T) {
		requireDiagnostic(t, `interface I { iterable<long>; };`,
			"Interfaces with a value iterator must support indexed properties.")
	})

	t.Run("indexed getter after pair iterator", func(t *testing.T) {
		requireDiagnostic(t, `interface I { iterable<DOMString, long>; getter long (unsigned long i); };`,
			"Interfaces with a pair iterator must not support indexed properties.")
	})

	t.Run("value iterator", func(t *testing.T) {
		iface := mustParse(t, `interface I { getter Node? item(unsigned long i); iterable<Node>; };`)
		require.NotNil(t, iface.ValueIteratorType)
		assert.Equal(t, "Node", ast.NameOf(iface.ValueIteratorType))
	})

	t.Run("pair iterator", func(t *testing.T) {
		iface := mustParse(t, `interface I { iterable< DOMString , sequence<long> >; };`)
		require.NotNil(t, iface.PairIteratorTypes)
		assert.Equal(t, "sequence<long>", iface.PairIteratorTypes[1].String())
	})
}

func TestTypes(t *testing.T) {
	iface := mustParse(t, `
interface T {
    attribute (A or (B or C)) nested;
    attribute (A or undefined) maybe;
    attribute unsigned long long big;
    attribute unrestricted double real;
    attribute long long wide;
    attribute record<DOMString, sequence<Node?>>? table;
    attribute [EnforceRange] unsigned short port;
    attribute (long or DOMString)? either;
};
`)

	require.Len(t, iface.Attributes, 8)
	attr := func(i int) ast.Type { return iface.Attributes[i].Type }

	nested, ok := attr(0).(*ast.UnionType)
	require.True(t, ok)
	var names []string
	for _, m := range nested.FlattenedMemberTypes() {
		names = append(names, ast.NameOf(m))
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
	assert.False(t, nested.IncludesUndefined())

	maybe, ok := attr(1).(*ast.UnionType)
	require.True(t, ok)
	assert.True(t, maybe.IncludesUndefined())

	assert.Equal(t, "unsigned long long", ast.NameOf(attr(2)))
	assert.Equal(t, "unrestricted double", ast.NameOf(attr(3)))
	assert.Equal(t, "long long", ast.NameOf(attr(4)))

	table, ok := attr(5).(*ast.ParameterizedType)
	require.True(t, ok)
	assert.True(t, table.Nullable)
	assert.Equal(t, "record<DOMString, sequence<Node?>>?", table.String())

	annotated, ok := attr(6).(*ast.AnnotatedType)
	require.True(t, ok)
	assert.True(t, annotated.ExtendedAttributes.Has("EnforceRange"))
	assert.True(t, ast.IsInteger(annotated))

	either, ok := attr(7).(*ast.UnionType)
	require.True(t, ok)
	assert.True(t, either.IncludesNullableType())
}

func TestUnionNeedsTwoMembers(t *testing.T) {
	requireDiagnostic(t, `interface T { attribute (long) x; };`, "at least two member types")
}

func TestExtendedAttributes(t *testing.T) {
	iface := mustParse(t, `
[Exposed=Window, LegacyUnenumerableNamedProperties, Global=(Window, Worker)]
interface Window {
    [Unscopable, Custom] undefined close();
    [Virtual] attribute DOMString name;
};
`)

	assert.Equal(t, "Window", iface.ExtendedAttributes["Exposed"])
	assert.True(t, iface.ExtendedAttributes.Has("LegacyUnenumerableNamedProperties"))
	assert.Equal(t, "(Window, Worker)", iface.ExtendedAttributes["Global"])
	assert.True(t, iface.HasUnscopableMember)
	assert.True(t, iface.Functions[0].ExtendedAttributes.Has("Custom"))
	assert.True(t, iface.Attributes[0].ExtendedAttributes.Has("Virtual"))
}

func TestParameters(t *testing.T) {
	iface := mustParse(t, `
interface P {
    undefined f([Clamp] octet a, optional DOMString b = "x, y", optional Opts c = {}, long... rest);
    static P create(long n);
};
`)

	require.Len(t, iface.Functions, 1)
	f := iface.Functions[0]
	require.Len(t, f.Parameters, 4)
	assert.True(t, f.Parameters[0].ExtendedAttributes.Has("Clamp"))
	assert.True(t, f.Parameters[1].Optional)
	assert.Equal(t, `"x, y"`, *f.Parameters[1].Default)
	assert.Equal(t, "{}", *f.Parameters[2].Default)
	assert.True(t, f.Parameters[3].Variadic)
	assert.Equal(t, 1, f.Length())

	require.Len(t, iface.StaticFunctions, 1)
	assert.True(t, iface.StaticFunctions[0].Static)
	assert.Equal(t, "create", iface.StaticFunctions[0].Name)
}

func TestParameterErrors(t *testing.T) {
	requireDiagnostic(t, `interface P { undefined f(long a = 1); };`, "Only optional parameters can have default values")
	requireDiagnostic(t, `interface P { undefined f(long... a, long b); };`, "variadic parameter must be the last")
	requireDiagnostic(t, `interface P { static attribute long x; };`, "Static attributes are not supported.")
}

func TestConstantsAndStringifier(t *testing.T) {
	iface := mustParse(t, `
interface Node {
    const unsigned short ELEMENT_NODE = 1;
    const double RATIO = 0.5;
    stringifier attribute USVString href;
};
`)

	require.Len(t, iface.Constants, 2)
	assert.Equal(t, "ELEMENT_NODE", iface.Constants[0].Name)
	assert.Equal(t, "1", iface.Constants[0].Value)
	assert.Equal(t, "unsigned short", ast.NameOf(iface.Constants[0].Type))

	assert.True(t, iface.HasStringifier)
	require.NotNil(t, iface.StringifierAttribute)
	assert.Equal(t, "href", *iface.StringifierAttribute)
	require.Len(t, iface.Attributes, 1)

	requireDiagnostic(t, `interface N { stringifier; stringifier; };`, "only have one stringifier")
	requireDiagnostic(t, `interface N { stringifier attribute long x; };`, "must have a string type")
}

func TestDerivedNames(t *testing.T) {
	iface := mustParse(t, `interface HTMLElement : Element {};`)
	assert.Equal(t, "Element", iface.ParentName)
	assert.Equal(t, "HTMLElementWrapper", iface.WrapperClass())
	assert.Equal(t, "ElementWrapper", iface.WrapperBaseClass())
	assert.Equal(t, "HTMLElementPrototype", iface.PrototypeClass())
	assert.Equal(t, "ElementPrototype", iface.PrototypeBaseClass())
	assert.Equal(t, "HTMLElementConstructor", iface.ConstructorClass())
}

func TestCommentsAreSkipped(t *testing.T) {
	iface := mustParse(t, `
// leading comment
/* block
   comment */
interface /* inline */ C { // trailing
    attribute long x; // more
};
`)
	assert.Equal(t, "C", iface.Name)
	assert.Len(t, iface.Attributes, 1)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains string
		line     int
	}{
		{"missing semicolon", "interface A {\n    attribute long x\n};", "Expected ';'", 3},
		{"unterminated body", "interface A {\n    attribute long x;\n", "Unexpected end of input", 3},
		{"bad declaration", "frobnicate;", "Expected a declaration, got 'frobnicate'", 1},
		{"unsupported typedef", "typedef long Foo;", "'typedef' declarations are not supported.", 1},
		{"second interface", "interface A {};\ninterface B {};", "Only one interface may be declared per file", 2},
		{"bad unsigned", "interface A { attribute unsigned double x; };", "Expected 'short' or 'long' after 'unsigned'", 1},
		{"attrs on enum", `[Foo] enum E { "a" };`, "only supported on interfaces", 1},
		{"unterminated ext attrs", "[Foo", "Unterminated extended attribute list", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diag := requireDiagnostic(t, tt.src, tt.contains)
			assert.Equal(t, tt.line, diag.Line)
			assert.True(t, errors.Is(diag, errors.ErrSyntax) || errors.Is(diag, errors.ErrSemantic))
		})
	}
}

func TestUnterminatedComment(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		line   int
		column int
	}{
		{"inside body", "interface I {\n    /* never closed\n    attribute long x;\n", 2, 5},
		{"after declarations", "interface I {};\n/* trailing", 2, 1},
		{"only a comment", "/*", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diag := requireDiagnostic(t, tt.src, "Unterminated comment.")
			assert.Equal(t, KindLexical, diag.Kind)
			assert.Equal(t, tt.line, diag.Line)
			assert.Equal(t, tt.column, diag.Column)
			assert.True(t, errors.Is(diag, errors.ErrSyntax))
		})
	}
}

func TestMixinCannotHaveParent(t *testing.T) {
	diag := requireDiagnostic(t, `interface mixin M : Base {};`, "Mixin interfaces cannot have a parent.")
	assert.True(t, errors.Is(diag, errors.ErrSemantic))
}

func TestMixinRestrictions(t *testing.T) {
	requireDiagnostic(t, `interface mixin M { constructor(); };`, "cannot declare constructors")
	requireDiagnostic(t, `interface mixin M { getter long (DOMString k); };`, "cannot declare special operations")
}

func TestIncludesSplicesMixin(t *testing.T) {
	iface := mustParse(t, `interface mixin M { void foo(); }; interface I {}; I includes M;`)

	require.Len(t, iface.Functions, 1)
	assert.Equal(t, "foo", iface.Functions[0].Name)
	assert.Equal(t, []string{"M"}, iface.IncludedMixins["I"])
}

func TestIncludesOrderAndDedup(t *testing.T) {
	iface := mustParse(t, `
interface mixin A { attribute long a; };
interface mixin B { const long B_CONST = 2; stringifier; };
interface I {};
I includes B;
I includes A;
I includes B;
Other includes A;
`)

	assert.Equal(t, []string{"B", "A"}, iface.IncludedMixins["I"])
	assert.Equal(t, []string{"A"}, iface.IncludedMixins["Other"])
	require.Len(t, iface.Constants, 1)
	require.Len(t, iface.Attributes, 1)
	assert.True(t, iface.HasStringifier)
}

func TestIncludesErrors(t *testing.T) {
	requireDiagnostic(t, `interface I {}; I includes Missing;`, "Mixin 'Missing' was never defined.")
	requireDiagnostic(t, `interface mixin M { stringifier; }; interface I { stringifier; }; I includes M;`,
		"Both interface 'I' and mixin 'M' defined a stringifier.")
	requireDiagnostic(t, `interface mixin M {}; interface mixin M {};`, "Mixin 'M' was already defined in '/idl/Test.idl'.")
}

func TestDiagnosticRender(t *testing.T) {
	diag := requireDiagnostic(t, "interface A {\n\tattribute long x\n};", "Expected ';'")

	assert.Equal(t, "};", diag.SourceLine)
	assert.Equal(t, "/idl/Test.idl:3:1: error: Expected ';', got '}'.", diag.Error())
	assert.Equal(t, "};\n^\n/idl/Test.idl:3: error: Expected ';', got '}'.", diag.Render(false))
	assert.Contains(t, diag.Render(true), "Expected ';'")
}

func TestDiagnosticCaretAlignsWithTabs(t *testing.T) {
	d := newDiagnostic(KindSyntax, "f.idl", "a\n\tbad x;", 7, "oops")
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, 6, d.Column)
	assert.Equal(t, "\tbad x;\n\t    ^\nf.idl:2: error: oops", d.Render(false))
}
