package registry

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/olehluchkiv/oocbind/internal/tag"
)

// Load reads JSON object files in order into a new registry. An entity in
// a later file replaces the entity with the same tag in place.
func Load(paths []string, logger *slog.Logger) (*Registry, error) {
	r := New()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		n, err := r.Decode(data)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding %s", path)
		}
		logger.Info("objects loaded", "file", path, "objects", n)
	}
	logger.Info("registry ready", "entities", r.Len())
	return r, nil
}

type rawEntity struct {
	Class     string              `json:"class"`
	Tag       string              `json:"tag"`
	Name      string              `json:"name"`
	File      string              `json:"file"`
	Members   [][]json.RawMessage `json:"members"`
	Target    string              `json:"target"`
	Arguments [][]json.RawMessage `json:"arguments"`
	Rettype   string              `json:"rettype"`
	Varargs   bool                `json:"varargs"`
	Binding   string              `json:"binding"`
}

// Decode merges a JSON object mapping tags to entities into r and returns
// the number of entities read.
func (r *Registry) Decode(data []byte) (int, error) {
	objs := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, objs); err != nil {
		return 0, errors.Wrap(err, "expected an object of tag to entity")
	}
	n := 0
	for p := objs.Oldest(); p != nil; p = p.Next() {
		e, err := decodeEntity(p.Key, p.Value)
		if err != nil {
			return n, errors.Wrapf(err, "entity %q", p.Key)
		}
		r.Put(e)
		n++
	}
	return n, nil
}

func decodeEntity(key string, data json.RawMessage) (*Entity, error) {
	var raw rawEntity
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Tag != "" && raw.Tag != key {
		return nil, errors.Newf("tag field %q does not match key", raw.Tag)
	}
	e := &Entity{Tag: key, Name: raw.Name, File: raw.File}

	switch Class(raw.Class) {
	case ClassStruct, ClassUnion:
		members := make([]Member, 0, len(raw.Members))
		for i, m := range raw.Members {
			member, err := decodeMember(m)
			if err != nil {
				return nil, errors.Wrapf(err, "member %d", i)
			}
			members = append(members, member)
		}
		if Class(raw.Class) == ClassStruct {
			e.Kind = Struct{Members: members}
		} else {
			e.Kind = Union{Members: members}
		}
	case ClassEnum:
		consts := make([]Constant, 0, len(raw.Members))
		for i, m := range raw.Members {
			c, err := decodeConstant(m)
			if err != nil {
				return nil, errors.Wrapf(err, "constant %d", i)
			}
			consts = append(consts, c)
		}
		e.Kind = Enum{Constants: consts}
	case ClassTypedef:
		if raw.Target == "" {
			return nil, errors.New("typedef without target")
		}
		e.Kind = Typedef{Target: raw.Target}
	case ClassFunction:
		args := make([]Argument, 0, len(raw.Arguments))
		for i, a := range raw.Arguments {
			arg, err := decodeArgument(a)
			if err != nil {
				return nil, errors.Wrapf(err, "argument %d", i)
			}
			args = append(args, arg)
		}
		ret := raw.Rettype
		if ret == "" {
			ret = "void"
		}
		e.Kind = Function{Arguments: args, Return: ret, Varargs: raw.Varargs}
	case ClassPrimitive:
		if raw.Binding == "" {
			return nil, errors.New("primitive without binding name")
		}
		e.Kind = Primitive{Binding: raw.Binding}
	default:
		return nil, errors.Newf("unknown class %q", raw.Class)
	}

	if e.Name == "" {
		e.Name = declaredName(e)
	}
	return e, nil
}

// declaredName falls back to the tag when the input carries no name.
func declaredName(e *Entity) string {
	switch e.Kind.(type) {
	case Struct, Union, Enum:
		if expr, err := tag.Parse(e.Tag); err == nil {
			if app, ok := expr.(tag.Apply); ok && app.Arg() != nil {
				return app.Arg().Text()
			}
		}
	}
	return e.Tag
}

func decodeMember(raw []json.RawMessage) (Member, error) {
	var m Member
	if len(raw) < 2 || len(raw) > 3 {
		return m, errors.Newf("expected [name, type(, bits)], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &m.Name); err != nil {
		return m, errors.Wrap(err, "name")
	}
	if err := json.Unmarshal(raw[1], &m.Type); err != nil {
		return m, errors.Wrap(err, "type")
	}
	if m.Type == "" {
		return m, errors.Newf("member %q has no type", m.Name)
	}
	if len(raw) == 3 {
		var bits *int
		if err := json.Unmarshal(raw[2], &bits); err != nil {
			return m, errors.Wrap(err, "bit width")
		}
		if bits != nil {
			m.Bits = *bits
		}
	}
	return m, nil
}

func decodeConstant(raw []json.RawMessage) (Constant, error) {
	var c Constant
	if len(raw) != 2 {
		return c, errors.Newf("expected [name, value], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &c.Name); err != nil {
		return c, errors.Wrap(err, "name")
	}
	if err := json.Unmarshal(raw[1], &c.Value); err != nil {
		return c, errors.Wrap(err, "value")
	}
	return c, nil
}

func decodeArgument(raw []json.RawMessage) (Argument, error) {
	var a Argument
	if len(raw) != 2 {
		return a, errors.Newf("expected [name, type], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &a.Name); err != nil {
		return a, errors.Wrap(err, "name")
	}
	if err := json.Unmarshal(raw[1], &a.Type); err != nil {
		return a, errors.Wrap(err, "type")
	}
	if a.Type == "" {
		return a, errors.New("argument has no type")
	}
	return a, nil
}
