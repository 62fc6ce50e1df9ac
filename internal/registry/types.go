package registry

import (
	"github.com/cockroachdb/errors"

	"github.com/olehluchkiv/oocbind/internal/ooc"
)

// Class names the kind of an entity as it appears in the input.
type Class string

const (
	ClassStruct    Class = "Struct"
	ClassUnion     Class = "Union"
	ClassEnum      Class = "Enum"
	ClassTypedef   Class = "Typedef"
	ClassFunction  Class = "Function"
	ClassPrimitive Class = "Primitive"
)

// Kind holds the class-specific part of an entity. The set of
// implementations is closed: Struct, Union, Enum, Typedef, Function and
// Primitive.
type Kind interface {
	Class() Class
	isKind()
}

// Member is a struct or union field.
type Member struct {
	Name string
	Type string
	// Bits is the bit-field width, zero for ordinary members.
	Bits int
}

// Constant is an enum value.
type Constant struct {
	Name  string
	Value int64
}

// Argument is a function parameter. Name may be empty.
type Argument struct {
	Name string
	Type string
}

type Struct struct{ Members []Member }

type Union struct{ Members []Member }

type Enum struct{ Constants []Constant }

type Typedef struct{ Target string }

type Function struct {
	Arguments []Argument
	Return    string
	Varargs   bool
}

// Primitive is a native type with a fixed binding-facing name.
type Primitive struct{ Binding string }

func (Struct) Class() Class    { return ClassStruct }
func (Union) Class() Class     { return ClassUnion }
func (Enum) Class() Class      { return ClassEnum }
func (Typedef) Class() Class   { return ClassTypedef }
func (Function) Class() Class  { return ClassFunction }
func (Primitive) Class() Class { return ClassPrimitive }

func (Struct) isKind()    {}
func (Union) isKind()     {}
func (Enum) isKind()      {}
func (Typedef) isKind()   {}
func (Function) isKind()  {}
func (Primitive) isKind() {}

// Entity is one native declaration.
type Entity struct {
	Tag  string
	Name string
	// File is the header the declaration came from, if known.
	File string
	// Opaque marks placeholders for aggregates that were never declared.
	Opaque bool
	Kind   Kind

	binding   string
	native    string
	hasNative bool
	wrapper   ooc.Decl
}

// Class is a shortcut for e.Kind.Class().
func (e *Entity) Class() Class { return e.Kind.Class() }

// BindingName is empty until the naming pass has run.
func (e *Entity) BindingName() string { return e.binding }

// SetBindingName records the binding-facing name. It can be set once.
func (e *Entity) SetBindingName(name string) error {
	if e.binding != "" {
		return errors.AssertionFailedf("%s: binding name already set to %q", e.Tag, e.binding)
	}
	if name == "" {
		return errors.AssertionFailedf("%s: empty binding name", e.Tag)
	}
	e.binding = name
	return nil
}

// NativeName reports the native spelling. ok is false when the entity
// cannot be named natively.
func (e *Entity) NativeName() (name string, ok bool) { return e.native, e.hasNative }

// SetNativeName records the native spelling. It can be set once.
func (e *Entity) SetNativeName(name string) error {
	if e.hasNative {
		return errors.AssertionFailedf("%s: native name already set to %q", e.Tag, e.native)
	}
	e.native, e.hasNative = name, true
	return nil
}

// Wrapped reports whether a wrapper node exists for the entity.
func (e *Entity) Wrapped() bool { return e.wrapper != nil }

// Wrapper returns the node emitted for the entity, or nil.
func (e *Entity) Wrapper() ooc.Decl { return e.wrapper }

// Wrap attaches the emitted node. An entity is wrapped at most once.
func (e *Entity) Wrap(w ooc.Decl) error {
	if w == nil {
		return errors.AssertionFailedf("%s: nil wrapper", e.Tag)
	}
	if e.wrapper != nil {
		return errors.AssertionFailedf("%s: already wrapped by %s", e.Tag, e.wrapper.Ident())
	}
	e.wrapper = w
	return nil
}
