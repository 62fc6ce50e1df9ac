package names

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// ErrDuplicateOverride reports two name overrides with the same result.
var ErrDuplicateOverride = errors.New("duplicate name override")

// Scope hands out identifiers that are unique within one container.
type Scope struct {
	taken map[string]string
}

// NewScope returns a Scope with nothing taken.
func NewScope() *Scope {
	return &Scope{taken: make(map[string]string)}
}

// Unique returns name, or name suffixed with underscores, such that the
// result is neither a keyword nor already taken.
func (s *Scope) Unique(name string) string {
	return s.claim("", name)
}

func (s *Scope) claim(owner, name string) string {
	for {
		name = Censor(name)
		prev, ok := s.taken[name]
		if !ok || (owner != "" && prev == owner) {
			break
		}
		name += "_"
	}
	s.taken[name] = owner
	return name
}

// Namer assigns binding names that are unique for a whole run. Overrides
// are keyed by tag and always win over derived names.
type Namer struct {
	scope     *Scope
	overrides map[string]string
}

// NewNamer reserves every override up front.
func NewNamer(overrides map[string]string) (*Namer, error) {
	n := &Namer{scope: NewScope(), overrides: make(map[string]string, len(overrides))}
	tags := make([]string, 0, len(overrides))
	for t := range overrides {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	for _, t := range tags {
		name := overrides[t]
		if name == "" {
			return nil, errors.Newf("empty name override for %q", t)
		}
		if prev, ok := n.scope.taken[name]; ok {
			return nil, errors.Wrapf(ErrDuplicateOverride, "%q is requested for both %q and %q", name, prev, t)
		}
		n.scope.taken[name] = t
		n.overrides[t] = name
	}
	return n, nil
}

// Assign returns the binding name for tag: its override when one exists,
// otherwise derived made unique.
func (n *Namer) Assign(tag, derived string) string {
	if name, ok := n.overrides[tag]; ok {
		return name
	}
	return n.scope.claim(tag, derived)
}

// Reserve marks name as taken by a declaration that has no tag.
func (n *Namer) Reserve(name string) {
	if _, ok := n.scope.taken[name]; !ok {
		n.scope.taken[name] = "\x00" + name
	}
}
