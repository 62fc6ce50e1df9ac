package tag

import (
	"github.com/cockroachdb/errors"
)

// Binding-facing spellings the resolver produces on its own.
const (
	OpaquePointer = "Pointer"
	Callable      = "Func"
	Integer       = "Int"
)

// Lookup supplies the names the resolver cannot derive itself.
type Lookup interface {
	// BindingName returns the binding-facing name of a named registry entity.
	BindingName(tag string) (string, bool)
	// Primitive returns the fixed binding-facing name of a primitive spelling.
	Primitive(tag string) (string, bool)
}

// Resolver renders tags as binding-facing type spellings.
type Resolver struct {
	lookup Lookup
}

// NewResolver returns a Resolver reading names from l.
func NewResolver(l Lookup) *Resolver {
	return &Resolver{lookup: l}
}

// Resolve parses and evaluates tag.
func (r *Resolver) Resolve(tag string) (string, error) {
	e, err := Parse(tag)
	if err != nil {
		return "", err
	}
	return r.Eval(e)
}

// Eval evaluates a parsed tag. Flat tags prefer registry entities over
// primitives of the same spelling.
func (r *Resolver) Eval(e Expr) (string, error) {
	switch e := e.(type) {
	case Ident:
		return r.flat(e.Name)
	case Apply:
		// Constructed spellings such as POINTER(char) may be primitives themselves.
		if name, ok := r.lookup.Primitive(e.Text()); ok {
			return name, nil
		}
		return r.apply(e)
	default:
		return "", errors.AssertionFailedf("tag: unexpected expression %T", e)
	}
}

func (r *Resolver) flat(tag string) (string, error) {
	if name, ok := r.lookup.BindingName(tag); ok {
		return name, nil
	}
	if name, ok := r.lookup.Primitive(tag); ok {
		return name, nil
	}
	return "", errors.Wrapf(ErrUnknownTag, "%q", tag)
}

func (r *Resolver) apply(a Apply) (string, error) {
	switch a.Ctor {
	case Pointer, Array:
		return r.pointer(a)
	case Const:
		inner, err := r.operand(a)
		if err != nil {
			return "", err
		}
		return "const " + inner, nil
	case Volatile, Restrict:
		return r.operand(a)
	case FunctionType:
		return Callable, nil
	case Enum:
		return Integer, nil
	case Struct, Union:
		return r.flat(a.Text())
	default:
		return "", errors.Wrapf(ErrUnknownTag, "constructor %s", a.Ctor)
	}
}

func (r *Resolver) operand(a Apply) (string, error) {
	arg := a.Arg()
	if arg == nil {
		return "", errors.Wrapf(ErrUnknownTag, "%s without operand", a.Ctor)
	}
	return r.Eval(arg)
}

// pointer degrades to OpaquePointer when the pointee is unknown.
func (r *Resolver) pointer(a Apply) (string, error) {
	if inner, ok := a.Arg().(Apply); ok && inner.Ctor == FunctionType {
		return Callable, nil
	}
	s, err := r.operand(a)
	if errors.Is(err, ErrUnknownTag) {
		return OpaquePointer, nil
	}
	if err != nil {
		return "", err
	}
	return s + "*", nil
}

// FindAggregate descends through POINTER, CONST, ARRAY, VOLATILE and
// RESTRICT layers and returns the STRUCT or UNION application underneath.
func FindAggregate(e Expr) (Apply, bool) {
	for {
		a, ok := e.(Apply)
		if !ok {
			return Apply{}, false
		}
		switch a.Ctor {
		case Struct, Union:
			return a, true
		case Pointer, Const, Array, Volatile, Restrict:
			if a.Arg() == nil {
				return Apply{}, false
			}
			e = a.Arg()
		default:
			return Apply{}, false
		}
	}
}
