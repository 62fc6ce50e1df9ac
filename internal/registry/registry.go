// Package registry stores native declarations in input order.
package registry

import (
	"github.com/cockroachdb/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Registry maps tags to entities, preserving insertion order.
type Registry struct {
	entities   *orderedmap.OrderedMap[string, *Entity]
	primitives map[string]string
}

// New returns a registry seeded with the default primitive table.
func New() *Registry {
	r := &Registry{
		entities:   orderedmap.New[string, *Entity](),
		primitives: make(map[string]string, len(DefaultPrimitives)),
	}
	for k, v := range DefaultPrimitives {
		r.primitives[k] = v
	}
	return r
}

// Add inserts a new entity. The tag must not be present yet.
func (r *Registry) Add(e *Entity) error {
	if e == nil || e.Kind == nil {
		return errors.AssertionFailedf("registry: entity without kind")
	}
	if _, ok := r.entities.Get(e.Tag); ok {
		return errors.Newf("registry: duplicate tag %q", e.Tag)
	}
	r.entities.Set(e.Tag, e)
	return nil
}

// Put inserts e, replacing an entity with the same tag in place.
func (r *Registry) Put(e *Entity) {
	r.entities.Set(e.Tag, e)
}

// Get looks up an entity by tag.
func (r *Registry) Get(tag string) (*Entity, bool) {
	return r.entities.Get(tag)
}

// Len returns the number of entities.
func (r *Registry) Len() int { return r.entities.Len() }

// Entities returns a snapshot of all entities in insertion order.
func (r *Registry) Entities() []*Entity {
	out := make([]*Entity, 0, r.entities.Len())
	for p := r.entities.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value)
	}
	return out
}

// Functions returns every function entity in insertion order.
func (r *Registry) Functions() []*Entity {
	var out []*Entity
	for p := r.entities.Oldest(); p != nil; p = p.Next() {
		if _, ok := p.Value.Kind.(Function); ok {
			out = append(out, p.Value)
		}
	}
	return out
}

// FunctionByName finds a function by its declared name.
func (r *Registry) FunctionByName(name string) (*Entity, bool) {
	for p := r.entities.Oldest(); p != nil; p = p.Next() {
		if _, ok := p.Value.Kind.(Function); ok && p.Value.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// BindingName implements tag.Lookup. Entities not yet named are reported
// as absent.
func (r *Registry) BindingName(tag string) (string, bool) {
	e, ok := r.entities.Get(tag)
	if !ok || e.BindingName() == "" {
		return "", false
	}
	return e.BindingName(), true
}

// Primitive implements tag.Lookup.
func (r *Registry) Primitive(tag string) (string, bool) {
	name, ok := r.primitives[tag]
	return name, ok
}

// SetPrimitive adds or overrides a primitive spelling.
func (r *Registry) SetPrimitive(tag, binding string) {
	r.primitives[tag] = binding
}
