package binding

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/olehluchkiv/oocbind/internal/config"
	"github.com/olehluchkiv/oocbind/internal/names"
	"github.com/olehluchkiv/oocbind/internal/registry"
)

func (c *Client) assignBindingNames() error {
	overrides := make([]string, 0, len(c.cfg.Names))
	for t := range c.cfg.Names {
		overrides = append(overrides, t)
	}
	sort.Strings(overrides)
	for _, t := range overrides {
		if _, ok := c.reg.Get(t); !ok {
			return errors.WithHint(malformed("names: unknown tag %q", t),
				"name overrides are keyed by registry tag, e.g. STRUCT(_Person)")
		}
	}

	namer, err := names.NewNamer(c.cfg.Names)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "names"), config.ErrMalformed)
	}
	if e := c.cfg.Errors; e != nil {
		namer.Reserve(e.Exception)
		namer.Reserve(e.Function)
	}
	c.namer = namer

	for _, e := range c.reg.Entities() {
		if p, ok := e.Kind.(registry.Primitive); ok {
			if err := e.SetBindingName(p.Binding); err != nil {
				return err
			}
			continue
		}
		derived, err := names.Binding(e)
		if err != nil {
			return err
		}
		if err := e.SetBindingName(namer.Assign(e.Tag, derived)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) assignNativeNames() error {
	for _, e := range c.reg.Entities() {
		native, err := names.Native(e)
		if errors.Is(err, names.ErrNamingImpossible) {
			c.logger.Debug("no native name", "tag", e.Tag)
			continue
		}
		if err != nil {
			return err
		}
		if err := e.SetNativeName(native); err != nil {
			return err
		}
	}
	return nil
}
