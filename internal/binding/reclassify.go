package binding

import (
	"github.com/cockroachdb/errors"

	"github.com/olehluchkiv/oocbind/internal/config"
	"github.com/olehluchkiv/oocbind/internal/names"
	"github.com/olehluchkiv/oocbind/internal/ooc"
	"github.com/olehluchkiv/oocbind/internal/registry"
)

func (c *Client) applyObjects() error {
	for _, obj := range c.cfg.Objects {
		target, err := c.target(obj)
		if err != nil {
			return errors.Wrapf(err, "object %s", obj.Name)
		}
		if err := c.applyRules(target, obj.StaticMethods, true); err != nil {
			return errors.Wrapf(err, "object %s: static_methods", obj.Name)
		}
		if err := c.applyRules(target, obj.Methods, false); err != nil {
			return errors.Wrapf(err, "object %s: methods", obj.Name)
		}
		for _, p := range obj.Properties {
			if err := c.addProperty(target, p); err != nil {
				return errors.Wrapf(err, "object %s: property %s", obj.Name, p.Name)
			}
		}
	}
	return nil
}

// target finds or declares the wrapper an object's members attach to.
func (c *Client) target(obj config.Object) (ooc.Wrapper, error) {
	if obj.Tag != "" {
		e, ok := c.reg.Get(obj.Tag)
		if !ok {
			return nil, malformed("unknown tag %q", obj.Tag)
		}
		w, ok := e.Wrapper().(ooc.Wrapper)
		if !ok {
			return nil, malformed("%s has no wrapper that can hold members", obj.Tag)
		}
		if w.Ident() != obj.Name {
			return nil, errors.WithHint(
				malformed("%s is bound as %s, not %s", obj.Tag, w.Ident(), obj.Name),
				"rename the type with a names: override")
		}
		if obj.Extends != "" {
			if err := setExtends(w, obj.Extends); err != nil {
				return nil, err
			}
		}
		return w, nil
	}

	if d, ok := c.decls.Get(obj.Name); ok {
		w, ok := d.(ooc.Wrapper)
		if !ok {
			return nil, malformed("%s is not a type", obj.Name)
		}
		if obj.From != "" {
			cover, ok := w.(*ooc.Cover)
			if !ok {
				return nil, malformed("%s is not a cover, from does not apply", obj.Name)
			}
			cover.From = obj.From
		}
		if obj.Extends != "" {
			if err := setExtends(w, obj.Extends); err != nil {
				return nil, err
			}
		}
		c.logger.Debug("reusing wrapper", "object", obj.Name)
		return w, nil
	}

	if obj.From == "" {
		return nil, errors.WithHint(
			malformed("%s does not exist and declares no from type", obj.Name),
			"set tag to reuse a native type, or from to declare an artificial cover")
	}
	cover := &ooc.Cover{Name: obj.Name, From: obj.From, Extends: obj.Extends}
	if err := c.decls.Add(cover); err != nil {
		return nil, errors.Mark(err, config.ErrMalformed)
	}
	c.logger.Debug("artificial cover declared", "object", obj.Name, "from", obj.From)
	return cover, nil
}

func setExtends(w ooc.Wrapper, parent string) error {
	switch w := w.(type) {
	case *ooc.Cover:
		w.Extends = parent
	case *ooc.Class:
		w.Extends = parent
	default:
		return errors.AssertionFailedf("unhandled wrapper %T", w)
	}
	return nil
}

// applyRules tries rules in order on every unclaimed function. The first
// rule that selects a function wins.
func (c *Client) applyRules(target ooc.Wrapper, rules []config.Rule, static bool) error {
	if len(rules) == 0 {
		return nil
	}
	for _, fn := range c.reg.Functions() {
		if _, claimed := c.claims[fn.Tag]; claimed {
			continue
		}
		k := fn.Kind.(registry.Function)
		argTypes := make([]string, len(k.Arguments))
		for i, a := range k.Arguments {
			argTypes[i] = a.Type
		}
		for _, rule := range rules {
			captured, ok, err := rule.Match(fn.Name, argTypes)
			if err != nil {
				return errors.Mark(errors.Wrapf(err, "%s (%s)", fn.Name, rule.Matcher), ErrReclassifyMismatch)
			}
			if !ok {
				continue
			}
			if err := c.reclassify(target, fn, captured, rule, static); err != nil {
				return errors.Wrapf(err, "%s (%s)", fn.Name, rule.Matcher)
			}
			break
		}
	}
	return nil
}

// reclassify moves the top-level declaration of fn into target.
func (c *Client) reclassify(target ooc.Wrapper, fn *registry.Entity, captured string, rule config.Rule, static bool) error {
	method := captured
	if !rule.KeepName {
		method = names.Name(captured)
	}
	if method == "" {
		return mismatch("empty method name")
	}

	node, ok := fn.Wrapper().(*ooc.Function)
	if !ok {
		return errors.AssertionFailedf("%s: wrapper is %T", fn.Tag, fn.Wrapper())
	}
	if !static && (rule.This < 0 || rule.This >= len(node.Args)) {
		return mismatch("receiver index %d out of range for %d arguments", rule.This, len(node.Args))
	}
	if _, taken := target.Member(method); taken {
		return mismatch("%s already has a member named %s", target.Ident(), method)
	}

	if _, ok := c.decls.Remove(node.Ident()); !ok {
		return errors.AssertionFailedf("%s: %s is not a top-level declaration", fn.Tag, node.Ident())
	}
	native, _ := fn.NativeName()
	node.Name = method
	node.Modifiers = []string{ooc.Extern(native)}
	if static {
		node.Modifiers = append([]string{"static"}, node.Modifiers...)
	} else {
		node.Args = append(node.Args[:rule.This:rule.This], node.Args[rule.This+1:]...)
	}
	if err := target.AddMember(node); err != nil {
		return errors.Mark(err, ErrReclassifyMismatch)
	}

	c.claims[fn.Tag] = claim{target: target.Ident(), method: method, static: static, receiver: rule.This}
	c.logger.Debug("function reclassified", "function", fn.Name, "target", target.Ident(), "method", method, "static", static)
	return nil
}
