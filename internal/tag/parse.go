// Package tag parses and resolves the type tags used as registry keys.
//
// A tag is either a flat atom ("int", "unsigned int", "Person") or a
// constructor application such as POINTER(CONST(char)).
package tag

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnknownTag is returned for tags that are neither registry entries,
// primitives nor well-formed constructor applications.
var ErrUnknownTag = errors.New("unknown tag")

// Ctor is a type constructor.
type Ctor string

const (
	Pointer      Ctor = "POINTER"
	Const        Ctor = "CONST"
	Array        Ctor = "ARRAY"
	FunctionType Ctor = "FUNCTIONTYPE"
	Volatile     Ctor = "VOLATILE"
	Restrict     Ctor = "RESTRICT"
	Struct       Ctor = "STRUCT"
	Union        Ctor = "UNION"
	Enum         Ctor = "ENUM"
)

var ctors = map[string]Ctor{
	string(Pointer):      Pointer,
	string(Const):        Const,
	string(Array):        Array,
	string(FunctionType): FunctionType,
	string(Volatile):     Volatile,
	string(Restrict):     Restrict,
	string(Struct):       Struct,
	string(Union):        Union,
	string(Enum):         Enum,
}

// Expr is a parsed tag.
type Expr interface {
	// Text is the exact source text of the expression.
	Text() string
}

// Ident is a flat atom.
type Ident struct {
	Name string
}

func (i Ident) Text() string { return i.Name }

// Apply is a constructor application.
type Apply struct {
	Ctor Ctor
	Args []Expr
	text string
}

func (a Apply) Text() string { return a.text }

// Arg returns the first argument, or nil.
func (a Apply) Arg() Expr {
	if len(a.Args) == 0 {
		return nil
	}
	return a.Args[0]
}

type tokKind int

const (
	tokAtom tokKind = iota
	tokOpen
	tokClose
	tokComma
)

type token struct {
	kind  tokKind
	text  string
	start int
	end   int
}

func tokenize(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		switch s[i] {
		case '(':
			toks = append(toks, token{kind: tokOpen, text: "(", start: i, end: i + 1})
			i++
		case ')':
			toks = append(toks, token{kind: tokClose, text: ")", start: i, end: i + 1})
			i++
		case ',':
			toks = append(toks, token{kind: tokComma, text: ",", start: i, end: i + 1})
			i++
		default:
			j := i
			for j < len(s) && !strings.ContainsRune("(),", rune(s[j])) {
				j++
			}
			raw := s[i:j]
			trimmed := strings.TrimSpace(raw)
			if trimmed != "" {
				lead := strings.Index(raw, trimmed)
				toks = append(toks, token{kind: tokAtom, text: trimmed, start: i + lead, end: i + lead + len(trimmed)})
			}
			i = j
		}
	}
	return toks
}

type parser struct {
	src  string
	toks []token
	pos  int
}

// Parse parses a tag into an expression tree.
func Parse(s string) (Expr, error) {
	p := &parser{src: s, toks: tokenize(s)}
	if len(p.toks) == 0 {
		return nil, errors.Wrap(ErrUnknownTag, "empty tag")
	}
	e, err := p.expr()
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %q", s)
	}
	if p.pos != len(p.toks) {
		return nil, errors.Wrapf(ErrUnknownTag, "parsing %q: trailing %q", s, p.toks[p.pos].text)
	}
	return e, nil
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) expr() (Expr, error) {
	t, ok := p.peek()
	if !ok {
		return nil, errors.Wrap(ErrUnknownTag, "unexpected end of tag")
	}
	if t.kind != tokAtom {
		return nil, errors.Wrapf(ErrUnknownTag, "unexpected %q at offset %d", t.text, t.start)
	}
	p.pos++
	next, ok := p.peek()
	if !ok || next.kind != tokOpen {
		return Ident{Name: t.text}, nil
	}
	ctor, known := ctors[t.text]
	if !known {
		return nil, errors.Wrapf(ErrUnknownTag, "unknown constructor %q", t.text)
	}
	p.pos++
	app := Apply{Ctor: ctor}
	if rp, ok := p.peek(); ok && rp.kind == tokClose {
		p.pos++
		app.text = p.src[t.start:rp.end]
		return app, nil
	}
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		app.Args = append(app.Args, arg)
		sep, ok := p.peek()
		if !ok {
			return nil, errors.Wrapf(ErrUnknownTag, "unclosed %s", ctor)
		}
		p.pos++
		switch sep.kind {
		case tokComma:
			continue
		case tokClose:
			app.text = p.src[t.start:sep.end]
			return app, nil
		default:
			return nil, errors.Wrapf(ErrUnknownTag, "unexpected %q at offset %d", sep.text, sep.start)
		}
	}
}
