package binding

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/olehluchkiv/oocbind/internal/config"
	"github.com/olehluchkiv/oocbind/internal/ooc"
	"github.com/olehluchkiv/oocbind/internal/registry"
)

// setterArg names the setter parameter in generated properties.
const setterArg = "value"

func (c *Client) addProperty(target ooc.Wrapper, p config.Property) error {
	var getter, setter *registry.Entity
	if p.Getter != "" {
		fn, ok := c.reg.FunctionByName(p.Getter)
		if !ok {
			return malformed("unknown getter %s", p.Getter)
		}
		getter = fn
	}
	if p.Setter != "" {
		fn, ok := c.reg.FunctionByName(p.Setter)
		if !ok {
			return malformed("unknown setter %s", p.Setter)
		}
		setter = fn
	}

	typ, err := c.propertyType(p, getter, setter)
	if err != nil {
		return err
	}
	prop := &ooc.Property{Name: p.Name, Type: typ, SetterArg: setterArg}
	if getter != nil {
		call, err := c.accessorCall(target, getter, false)
		if err != nil {
			return err
		}
		prop.Getter = []string{"return " + call}
	}
	if setter != nil {
		call, err := c.accessorCall(target, setter, true)
		if err != nil {
			return err
		}
		prop.Setter = []string{call}
	}
	if err := target.AddMember(prop); err != nil {
		return errors.Mark(err, ErrReclassifyMismatch)
	}
	c.logger.Debug("property added", "target", target.Ident(), "property", p.Name)
	return nil
}

// propertyType prefers the explicit type, then the getter's return type,
// then the type of the setter's last argument.
func (c *Client) propertyType(p config.Property, getter, setter *registry.Entity) (string, error) {
	if p.Type != "" {
		return p.Type, nil
	}
	if getter != nil {
		return c.resolver.Resolve(getter.Kind.(registry.Function).Return)
	}
	args := setter.Kind.(registry.Function).Arguments
	if len(args) == 0 {
		return "", malformed("setter %s takes no arguments", setter.Name)
	}
	return c.resolver.Resolve(args[len(args)-1].Type)
}

// accessorCall renders the call an accessor body makes: a method call on
// this when fn became an instance method of target, otherwise a call of the
// top-level function with this as its first argument.
func (c *Client) accessorCall(target ooc.Wrapper, fn *registry.Entity, set bool) (string, error) {
	var args []string
	if set {
		args = append(args, setterArg)
	}
	cl, claimed := c.claims[fn.Tag]
	switch {
	case claimed && cl.target == target.Ident() && !cl.static:
		return "this " + cl.method + "(" + strings.Join(args, ", ") + ")", nil
	case claimed:
		return "", malformed("%s is already bound as %s.%s", fn.Name, cl.target, cl.method)
	default:
		args = append([]string{"this"}, args...)
		return fn.Wrapper().Ident() + "(" + strings.Join(args, ", ") + ")", nil
	}
}
