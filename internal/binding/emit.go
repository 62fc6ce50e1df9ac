package binding

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/olehluchkiv/oocbind/internal/names"
	"github.com/olehluchkiv/oocbind/internal/ooc"
	"github.com/olehluchkiv/oocbind/internal/registry"
)

func (c *Client) emitTypes() error {
	for _, e := range c.reg.Entities() {
		var (
			decl ooc.Decl
			err  error
		)
		switch k := e.Kind.(type) {
		case registry.Struct:
			decl, err = c.emitAggregate(e, k.Members)
		case registry.Union:
			decl, err = c.emitAggregate(e, k.Members)
		case registry.Enum:
			decl = c.emitEnum(e, k)
		case registry.Typedef:
			decl, err = c.emitTypedef(e, k)
		case registry.Function, registry.Primitive:
			continue
		default:
			return errors.AssertionFailedf("%s: unhandled kind %T", e.Tag, e.Kind)
		}
		if err != nil {
			return errors.Wrapf(err, "%s", e.Tag)
		}
		if err := c.register(e, decl); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) emitFunctions() error {
	for _, e := range c.reg.Functions() {
		fn, err := c.functionNode(e, e.Kind.(registry.Function))
		if err != nil {
			return errors.Wrapf(err, "%s", e.Tag)
		}
		if err := c.register(e, fn); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) register(e *registry.Entity, decl ooc.Decl) error {
	if err := c.decls.Add(decl); err != nil {
		return errors.Wrapf(err, "%s", e.Tag)
	}
	return e.Wrap(decl)
}

// emitAggregate renders a struct or union as a cover with one extern
// attribute per named member.
func (c *Client) emitAggregate(e *registry.Entity, members []registry.Member) (*ooc.Cover, error) {
	cover := &ooc.Cover{Name: e.BindingName()}
	if native, ok := e.NativeName(); ok {
		cover.From = native
	}
	scope := names.NewScope()
	for _, m := range members {
		if m.Name == "" {
			c.logger.Debug("anonymous member skipped", "tag", e.Tag, "type", m.Type)
			continue
		}
		typ, err := c.resolver.Resolve(m.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "member %s", m.Name)
		}
		name := scope.Unique(names.Name(m.Name))
		attr := &ooc.Attribute{Name: name, Modifiers: []string{externFor(name, m.Name)}, Type: typ}
		if err := cover.AddMember(attr); err != nil {
			return nil, err
		}
	}
	return cover, nil
}

// emitEnum strips the prefix shared by all constants before casing them.
func (c *Client) emitEnum(e *registry.Entity, k registry.Enum) *ooc.Enum {
	raw := make([]string, len(k.Constants))
	for i, cst := range k.Constants {
		raw[i] = cst.Name
	}
	prefix := names.CommonPrefix(raw)
	enum := &ooc.Enum{Name: e.BindingName()}
	scope := names.NewScope()
	for _, cst := range k.Constants {
		enum.Add(scope.Unique(names.Name(cst.Name[len(prefix):])), cst.Value)
	}
	return enum
}

// emitTypedef renders an alias of an enum as a class and anything else as
// a cover.
func (c *Client) emitTypedef(e *registry.Entity, k registry.Typedef) (ooc.Decl, error) {
	target, ok := c.reg.Get(k.Target)
	if ok {
		if _, isEnum := target.Kind.(registry.Enum); isEnum {
			return &ooc.Class{Name: e.BindingName(), Extends: target.BindingName()}, nil
		}
	}

	from, err := c.typedefSource(k.Target, target)
	if err != nil {
		return nil, err
	}
	return &ooc.Cover{Name: e.BindingName(), From: from}, nil
}

func (c *Client) typedefSource(tagName string, target *registry.Entity) (string, error) {
	if target != nil {
		if target.Wrapped() {
			return target.Wrapper().Ident(), nil
		}
		if p, ok := target.Kind.(registry.Primitive); ok {
			return p.Binding, nil
		}
		if native, ok := target.NativeName(); ok {
			return native, nil
		}
	}
	from, err := c.resolver.Resolve(tagName)
	if err != nil {
		return "", errors.Wrapf(err, "typedef target")
	}
	return from, nil
}

// functionNode builds the top-level extern declaration of a function.
func (c *Client) functionNode(e *registry.Entity, k registry.Function) (*ooc.Function, error) {
	scope := names.NewScope()
	args := make([]ooc.Arg, 0, len(k.Arguments))
	for i, a := range k.Arguments {
		typ, err := c.resolver.Resolve(a.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i)
		}
		raw := a.Name
		if raw == "" {
			raw = fmt.Sprintf("arg%d", i)
		}
		args = append(args, ooc.Arg{Name: scope.Unique(names.Name(raw)), Type: typ})
	}
	ret, err := c.resolver.Resolve(k.Return)
	if err != nil {
		return nil, errors.Wrapf(err, "return type")
	}
	native, _ := e.NativeName()
	return &ooc.Function{
		Name:      e.BindingName(),
		Modifiers: []string{externFor(e.BindingName(), native)},
		Args:      args,
		Varargs:   k.Varargs,
		Return:    ret,
	}, nil
}

// externFor annotates the native symbol when it differs from name.
func externFor(name, native string) string {
	if native == name {
		return ooc.Extern("")
	}
	return ooc.Extern(native)
}
