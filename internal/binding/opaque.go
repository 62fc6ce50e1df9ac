package binding

import (
	"github.com/cockroachdb/errors"

	"github.com/olehluchkiv/oocbind/internal/config"
	"github.com/olehluchkiv/oocbind/internal/registry"
	"github.com/olehluchkiv/oocbind/internal/tag"
)

// materializeOpaque adds empty placeholder aggregates for STRUCT and UNION
// tags that are referenced but never declared. Typedef targets are always
// walked; member, argument and return tags only in config.OpaqueAll mode.
func (c *Client) materializeOpaque() error {
	added := 0
	for _, e := range c.reg.Entities() {
		for _, t := range c.referencedTags(e) {
			ok, err := c.materialize(t, e.File)
			if err != nil {
				return errors.Wrapf(err, "%s", e.Tag)
			}
			if ok {
				added++
			}
		}
	}
	c.logger.Debug("opaque types materialized", "count", added, "mode", c.cfg.Opaque)
	return nil
}

func (c *Client) referencedTags(e *registry.Entity) []string {
	switch k := e.Kind.(type) {
	case registry.Typedef:
		return []string{k.Target}
	case registry.Struct:
		if c.cfg.Opaque == config.OpaqueAll {
			return memberTags(k.Members)
		}
	case registry.Union:
		if c.cfg.Opaque == config.OpaqueAll {
			return memberTags(k.Members)
		}
	case registry.Function:
		if c.cfg.Opaque == config.OpaqueAll {
			tags := make([]string, 0, len(k.Arguments)+1)
			for _, a := range k.Arguments {
				tags = append(tags, a.Type)
			}
			return append(tags, k.Return)
		}
	case registry.Enum, registry.Primitive:
	}
	return nil
}

func memberTags(members []registry.Member) []string {
	tags := make([]string, 0, len(members))
	for _, m := range members {
		tags = append(tags, m.Type)
	}
	return tags
}

// materialize reports whether a placeholder was added for t.
func (c *Client) materialize(t, file string) (bool, error) {
	expr, err := tag.Parse(t)
	if err != nil {
		return false, err
	}
	agg, ok := tag.FindAggregate(expr)
	if !ok {
		return false, nil
	}
	if _, exists := c.reg.Get(agg.Text()); exists {
		return false, nil
	}
	if agg.Arg() == nil {
		return false, errors.Wrapf(tag.ErrUnknownTag, "%s without name", agg.Ctor)
	}

	e := &registry.Entity{
		Tag:    agg.Text(),
		Name:   agg.Arg().Text(),
		File:   file,
		Opaque: true,
	}
	if agg.Ctor == tag.Union {
		e.Kind = registry.Union{}
	} else {
		e.Kind = registry.Struct{}
	}
	if err := c.reg.Add(e); err != nil {
		return false, err
	}
	c.logger.Debug("opaque type added", "tag", e.Tag)
	return true, nil
}
