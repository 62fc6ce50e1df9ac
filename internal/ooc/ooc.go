// Package ooc holds the code nodes of the generated binding layer.
package ooc

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/olehluchkiv/oocbind/internal/codegen"
)

// Decl is a node that may appear at the top level of the output.
type Decl interface {
	codegen.Node
	Ident() string
}

// Member is a node that may live inside a Cover or Class.
type Member interface {
	codegen.Node
	Ident() string
}

// Wrapper is a Decl that owns members.
type Wrapper interface {
	Decl
	AddMember(m Member) error
	Member(name string) (Member, bool)
}

// Extern returns the modifier binding a declaration to a native symbol.
// An empty native name yields the bare "extern".
func Extern(native string) string {
	if native == "" {
		return "extern"
	}
	return fmt.Sprintf("extern(%s)", native)
}

// Arg is one function argument.
type Arg struct {
	Name string
	Type string
}

// Function renders `name: modifiers func ~suffix (args) -> ret`.
type Function struct {
	Name      string
	Suffix    string
	Modifiers []string
	Args      []Arg
	Varargs   bool
	Return    string
	Body      []string
}

// Ident returns the function name.
func (f *Function) Ident() string { return f.Name }

// Code renders the signature, followed by the braced body if there is one.
func (f *Function) Code() codegen.Block {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteString(": ")
	if len(f.Modifiers) > 0 {
		b.WriteString(strings.Join(f.Modifiers, " "))
		b.WriteString(" ")
	}
	b.WriteString("func")
	if f.Suffix != "" {
		b.WriteString(" ~")
		b.WriteString(f.Suffix)
	}
	args := make([]string, 0, len(f.Args)+1)
	for _, a := range f.Args {
		args = append(args, a.Name+": "+a.Type)
	}
	if f.Varargs {
		args = append(args, "...")
	}
	if len(args) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(args, ", "))
		b.WriteString(")")
	}
	if f.Return != "" && f.Return != "Void" {
		b.WriteString(" -> ")
		b.WriteString(f.Return)
	}
	if len(f.Body) == 0 {
		return codegen.Block{b.String()}
	}
	b.WriteString(" {")
	return codegen.Block{b.String(), codegen.Indent, f.Body, codegen.Dedent, "}"}
}

// StripExtern removes every extern modifier.
func (f *Function) StripExtern() {
	kept := f.Modifiers[:0]
	for _, m := range f.Modifiers {
		if m == "extern" || strings.HasPrefix(m, "extern(") {
			continue
		}
		kept = append(kept, m)
	}
	f.Modifiers = kept
}

// Attribute renders `name: modifiers Type = value`.
type Attribute struct {
	Name      string
	Modifiers []string
	Type      string
	Value     string
}

// Ident returns the attribute name.
func (a *Attribute) Ident() string { return a.Name }

// Code renders the attribute on one line.
func (a *Attribute) Code() codegen.Block {
	line := a.Name + ": "
	if len(a.Modifiers) > 0 {
		line += strings.Join(a.Modifiers, " ") + " "
	}
	line += a.Type
	if a.Value != "" {
		line += " = " + a.Value
	}
	return codegen.Block{line}
}

// Property is an attribute backed by accessor bodies.
// SetterArg names the setter parameter and defaults to "value".
type Property struct {
	Name      string
	Type      string
	Getter    []string
	Setter    []string
	SetterArg string
}

// Ident returns the property name.
func (p *Property) Ident() string { return p.Name }

// Code renders the property with whichever accessors are set.
func (p *Property) Code() codegen.Block {
	b := codegen.Block{p.Name + ": " + p.Type + " {", codegen.Indent}
	if len(p.Getter) > 0 {
		b = append(b, "get {", codegen.Indent, p.Getter, codegen.Dedent, "}")
	}
	if len(p.Setter) > 0 {
		arg := p.SetterArg
		if arg == "" {
			arg = "value"
		}
		b = append(b, "set ("+arg+") {", codegen.Indent, p.Setter, codegen.Dedent, "}")
	}
	return append(b, codegen.Dedent, "}")
}

type members struct {
	list []Member
}

func (m *members) add(owner string, mem Member) error {
	if _, ok := m.lookup(mem.Ident()); ok {
		return errors.Newf("%s already has a member named %q", owner, mem.Ident())
	}
	m.list = append(m.list, mem)
	return nil
}

func (m *members) lookup(name string) (Member, bool) {
	for _, mem := range m.list {
		if mem.Ident() == name {
			return mem, true
		}
	}
	return nil, false
}

// Cover is a data-layout compatible binding of a native type.
type Cover struct {
	Name    string
	From    string
	Extends string
	members
}

// Ident returns the cover name.
func (c *Cover) Ident() string { return c.Name }

// AddMember appends m. Member names are unique within the cover.
func (c *Cover) AddMember(m Member) error { return c.add(c.Name, m) }

// Member returns the member named n.
func (c *Cover) Member(n string) (Member, bool) { return c.lookup(n) }

// Members returns the members in insertion order.
func (c *Cover) Members() []Member { return c.list }

// Code renders the cover. A cover without members has no braces.
func (c *Cover) Code() codegen.Block {
	line := c.Name + ": cover"
	if c.From != "" {
		line += " from " + c.From
	}
	if c.Extends != "" {
		line += " extends " + c.Extends
	}
	if len(c.list) == 0 {
		return codegen.Block{line, ""}
	}
	return codegen.Block{line + " {", codegen.Indent, codegen.Each(c.list), codegen.Dedent, "}", ""}
}

// Class is an object-style wrapper with inheritance.
type Class struct {
	Name    string
	Extends string
	members
}

// Ident returns the class name.
func (c *Class) Ident() string { return c.Name }

// AddMember appends m. Member names are unique within the class.
func (c *Class) AddMember(m Member) error { return c.add(c.Name, m) }

// Member returns the member named n.
func (c *Class) Member(n string) (Member, bool) { return c.lookup(n) }

// Members returns the members in insertion order.
func (c *Class) Members() []Member { return c.list }

// Code renders the class, always braced.
func (c *Class) Code() codegen.Block {
	line := c.Name + ": class"
	if c.Extends != "" {
		line += " extends " + c.Extends
	}
	return codegen.Block{line + " {", codegen.Indent, codegen.Each(c.list), codegen.Dedent, "}", ""}
}

// EnumValue is one named constant.
type EnumValue struct {
	Name  string
	Value int64
}

// Enum is an ordered set of named integer constants.
type Enum struct {
	Name   string
	Values []EnumValue
}

// Ident returns the enum name.
func (e *Enum) Ident() string { return e.Name }

// Add appends a constant.
func (e *Enum) Add(name string, value int64) {
	e.Values = append(e.Values, EnumValue{Name: name, Value: value})
}

// Code renders one constant per line.
func (e *Enum) Code() codegen.Block {
	b := codegen.Block{e.Name + ": enum {", codegen.Indent}
	for _, v := range e.Values {
		b = append(b, fmt.Sprintf("%s = %d", v.Name, v.Value))
	}
	return append(b, codegen.Dedent, "}", "")
}
