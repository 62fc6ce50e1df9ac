package names

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/olehluchkiv/oocbind/internal/registry"
)

// ErrNamingImpossible reports an entity with no native spelling.
var ErrNamingImpossible = errors.New("naming impossible")

// UnnamedMarker prefixes the declared name of anonymous aggregates.
const UnnamedMarker = "!Unnamed"

var (
	leadingUpper = regexp.MustCompile(`^[A-Z]+`)
	segment      = regexp.MustCompile(`_([^_]*)`)
)

// Name converts s to lower camel case: set_this becomes setThis and
// FOO_BAR becomes fooBar. One leading underscore is kept for names that
// start with an underscore or a digit.
func Name(s string) string {
	return Censor(name(s))
}

// Type converts s to upper camel case using the segment rule of Name.
func Type(s string) string {
	if s == "" {
		return "_"
	}
	return Censor(upperFirst(camel(s)))
}

func name(s string) string {
	if s == "" {
		return "_"
	}
	s = leadingUpper.ReplaceAllStringFunc(s, strings.ToLower)
	return camel(s)
}

func camel(s string) string {
	underscored := s[0] == '_' || unicode.IsDigit(rune(s[0]))
	s = segment.ReplaceAllStringFunc(s, func(m string) string {
		seg := m[1:]
		if seg == "" {
			return ""
		}
		return upperFirst(name(seg))
	})
	if underscored {
		s = "_" + s
	}
	return s
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || !unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Censor appends underscores until s is no longer a reserved word.
func Censor(s string) string {
	for IsKeyword(s) {
		s += "_"
	}
	return s
}

// CommonPrefix returns the longest prefix shared by all names. It is empty
// for fewer than two names and never covers a whole name.
func CommonPrefix(names []string) string {
	if len(names) < 2 {
		return ""
	}
	n := len(names[0])
	for _, s := range names[1:] {
		if len(s) < n {
			n = len(s)
		}
		i := 0
		for i < n && s[i] == names[0][i] {
			i++
		}
		n = i
	}
	for _, s := range names {
		if n == len(s) {
			n--
		}
	}
	if n < 0 {
		return ""
	}
	return names[0][:n]
}

// Binding derives the binding-facing name of e without collision checks.
func Binding(e *registry.Entity) (string, error) {
	switch k := e.Kind.(type) {
	case registry.Struct, registry.Union, registry.Enum:
		return string(e.Class()) + Type(strings.TrimPrefix(e.Name, UnnamedMarker)), nil
	case registry.Typedef:
		return Type(e.Tag), nil
	case registry.Function:
		return Name(e.Name), nil
	case registry.Primitive:
		return k.Binding, nil
	default:
		return "", errors.AssertionFailedf("%s: unhandled kind %T", e.Tag, e.Kind)
	}
}

// Native returns the spelling used to reference e in native code.
// Anonymous and opaque aggregates yield ErrNamingImpossible.
func Native(e *registry.Entity) (string, error) {
	switch e.Kind.(type) {
	case registry.Struct, registry.Union, registry.Enum:
		if e.Opaque || e.Name == "" || strings.HasPrefix(e.Name, "!") {
			return "", errors.Wrapf(ErrNamingImpossible, "%s", e.Tag)
		}
		return strings.ToLower(string(e.Class())) + " " + e.Name, nil
	case registry.Typedef, registry.Primitive:
		return e.Tag, nil
	case registry.Function:
		return e.Name, nil
	default:
		return "", errors.AssertionFailedf("%s: unhandled kind %T", e.Tag, e.Kind)
	}
}
