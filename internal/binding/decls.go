package binding

import (
	"github.com/cockroachdb/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/olehluchkiv/oocbind/internal/ooc"
)

// Decls is the ordered set of top-level declarations, keyed by name.
type Decls struct {
	m *orderedmap.OrderedMap[string, ooc.Decl]
}

// NewDecls returns an empty set.
func NewDecls() *Decls {
	return &Decls{m: orderedmap.New[string, ooc.Decl]()}
}

// Add appends d. Names are unique.
func (d *Decls) Add(decl ooc.Decl) error {
	if _, ok := d.m.Get(decl.Ident()); ok {
		return errors.Newf("duplicate top-level declaration %s", decl.Ident())
	}
	d.m.Set(decl.Ident(), decl)
	return nil
}

// Get returns the declaration named name.
func (d *Decls) Get(name string) (ooc.Decl, bool) {
	return d.m.Get(name)
}

// Remove detaches the declaration and hands it to the caller, which then
// owns it.
func (d *Decls) Remove(name string) (ooc.Decl, bool) {
	return d.m.Delete(name)
}

// Len returns the number of declarations.
func (d *Decls) Len() int { return d.m.Len() }

// Values returns the declarations in insertion order.
func (d *Decls) Values() []ooc.Decl {
	out := make([]ooc.Decl, 0, d.m.Len())
	for p := d.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value)
	}
	return out
}
