package ooc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/oocbind/internal/codegen"
)

func render(t *testing.T, n codegen.Node) string {
	t.Helper()
	out, err := codegen.Render(n)
	require.NoError(t, err)
	return out
}

func TestFunction_ExternWithArgsAndReturn(t *testing.T) {
	f := &Function{
		Name:      "personNew",
		Modifiers: []string{Extern("person_new")},
		Args:      []Arg{{Name: "name", Type: "String"}, {Name: "age", Type: "UInt"}},
		Return:    "Person*",
	}
	assert.Equal(t, "personNew: extern(person_new) func (name: String, age: UInt) -> Person*\n", render(t, f))
}

func TestFunction_VoidReturnAndVarargs(t *testing.T) {
	f := &Function{Name: "printf", Modifiers: []string{Extern("")}, Args: []Arg{{Name: "fmt", Type: "String"}}, Varargs: true, Return: "Void"}
	assert.Equal(t, "printf: extern func (fmt: String, ...)\n", render(t, f))
}

func TestFunction_BodyAndSuffix(t *testing.T) {
	f := &Function{Name: "init", Suffix: "withMsg", Args: []Arg{{Name: "msg", Type: "String"}}, Body: []string{"super(msg)"}}
	want := "init: func ~withMsg (msg: String) {\n" +
		"    super(msg)\n" +
		"}\n"
	assert.Equal(t, want, render(t, f))
}

func TestFunction_StripExternKeepsStatic(t *testing.T) {
	f := &Function{Modifiers: []string{"static", Extern("x"), "extern"}}
	f.StripExtern()
	assert.Equal(t, []string{"static"}, f.Modifiers)
}

func TestAttribute(t *testing.T) {
	assert.Equal(t, "x: extern Int\n", render(t, &Attribute{Name: "x", Modifiers: []string{"extern"}, Type: "Int"}))
	assert.Equal(t, "n: Int = 3\n", render(t, &Attribute{Name: "n", Type: "Int", Value: "3"}))
}

func TestCover_WithMembers(t *testing.T) {
	c := &Cover{Name: "StructPoint", From: "struct Point"}
	require.NoError(t, c.AddMember(&Attribute{Name: "x", Modifiers: []string{"extern"}, Type: "Int"}))
	require.NoError(t, c.AddMember(&Attribute{Name: "y", Modifiers: []string{"extern"}, Type: "Int"}))
	want := "StructPoint: cover from struct Point {\n" +
		"    x: extern Int\n" +
		"    y: extern Int\n" +
		"}\n" +
		"\n"
	assert.Equal(t, want, render(t, c))
}

func TestCover_EmptyHasNoBraces(t *testing.T) {
	c := &Cover{Name: "Handle", From: "Pointer", Extends: "Base"}
	assert.Equal(t, "Handle: cover from Pointer extends Base\n\n", render(t, c))
}

func TestCover_DuplicateMember(t *testing.T) {
	c := &Cover{Name: "P"}
	require.NoError(t, c.AddMember(&Attribute{Name: "x", Type: "Int"}))
	err := c.AddMember(&Function{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `already has a member named "x"`)
	m, ok := c.Member("x")
	require.True(t, ok)
	assert.IsType(t, &Attribute{}, m)
	assert.Len(t, c.Members(), 1)
}

func TestClass_AlwaysBraced(t *testing.T) {
	c := &Class{Name: "Color", Extends: "EnumColor"}
	assert.Equal(t, "Color: class extends EnumColor {\n}\n\n", render(t, c))
}

func TestEnum(t *testing.T) {
	e := &Enum{Name: "EnumColor"}
	e.Add("red", 0)
	e.Add("green", -1)
	want := "EnumColor: enum {\n" +
		"    red = 0\n" +
		"    green = -1\n" +
		"}\n" +
		"\n"
	assert.Equal(t, want, render(t, e))
}

func TestProperty(t *testing.T) {
	p := &Property{Name: "name", Type: "String", Getter: []string{"this getName()"}, Setter: []string{"this setName(value)"}}
	want := "name: String {\n" +
		"    get {\n" +
		"        this getName()\n" +
		"    }\n" +
		"    set (value) {\n" +
		"        this setName(value)\n" +
		"    }\n" +
		"}\n"
	assert.Equal(t, want, render(t, p))
}
