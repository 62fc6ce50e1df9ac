package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ErrNoCapture reports a rename pattern without a capture group.
var ErrNoCapture = errors.New("pattern has no capture group")

// Matcher selects functions. The set of implementations is closed:
// ByName and ByArgType.
type Matcher interface {
	fmt.Stringer
	isMatcher()
}

// ByName matches the native function name; group 1 is the method name.
type ByName struct {
	Pattern *regexp.Regexp
}

// ByArgType matches functions whose argument at Index has type Tag. The
// method name is group 1 of Name applied to the native function name.
type ByArgType struct {
	Index int
	Tag   string
	Name  *regexp.Regexp
}

func (ByName) isMatcher()    {}
func (ByArgType) isMatcher() {}

func (m ByName) String() string { return "by_name " + m.Pattern.String() }

func (m ByArgType) String() string {
	return fmt.Sprintf("by_arg_type %s at %d, name %s", m.Tag, m.Index, m.Name)
}

// Rule is a matcher plus the receiver argument position and naming flag.
type Rule struct {
	Matcher Matcher
	// This is the index of the receiver argument.
	This     int
	KeepName bool
}

// Match applies the rule to a function with the given native name and
// argument type tags. It returns the captured method name and whether the
// function was selected. ErrNoCapture is returned when a pattern that
// applies has no capture group, or when a by_arg_type name pattern does
// not match a function selected by its argument type.
func (r Rule) Match(name string, argTypes []string) (string, bool, error) {
	switch m := r.Matcher.(type) {
	case ByName:
		return capture(m.Pattern, name, false)
	case ByArgType:
		if m.Index >= len(argTypes) || argTypes[m.Index] != m.Tag {
			return "", false, nil
		}
		return capture(m.Name, name, true)
	default:
		return "", false, errors.AssertionFailedf("unhandled matcher %T", r.Matcher)
	}
}

// Selects reports whether the rule picks the function without deriving a
// method name. A by_arg_type rule also needs its name pattern to match.
func (r Rule) Selects(name string, argTypes []string) bool {
	switch m := r.Matcher.(type) {
	case ByName:
		return m.Pattern.MatchString(name)
	case ByArgType:
		return m.Index < len(argTypes) && argTypes[m.Index] == m.Tag && m.Name.MatchString(name)
	default:
		return false
	}
}

func capture(re *regexp.Regexp, name string, required bool) (string, bool, error) {
	groups := re.FindStringSubmatch(name)
	if groups == nil {
		if required {
			return "", false, errors.Newf("name pattern %s does not match %s", re, name)
		}
		return "", false, nil
	}
	if len(groups) < 2 {
		return "", false, errors.Wrapf(ErrNoCapture, "%s on %s", re, name)
	}
	return groups[1], true, nil
}

// anchored compiles pat so that it matches at the start of the name only.
func anchored(pat string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("^(?:" + pat + ")")
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "pattern %q", pat), ErrMalformed)
	}
	return re, nil
}

// rawMatcher is a rule as written: either the scalar "regex" or
// "regex,this", or a map with by_name or by_arg_type.
type rawMatcher struct {
	scalar    string
	isScalar  bool
	ByName    string
	ByArgType string
	Index     *int
	Name      string
	This      *int
	KeepName  bool
}

var matcherKeys = map[string]bool{
	"by_name": true, "by_arg_type": true, "index": true,
	"name": true, "this": true, "keep_name": true,
}

func (m *rawMatcher) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		m.isScalar = true
		return node.Decode(&m.scalar)
	case yaml.MappingNode:
		var fields struct {
			ByName    string `yaml:"by_name"`
			ByArgType string `yaml:"by_arg_type"`
			Index     *int   `yaml:"index"`
			Name      string `yaml:"name"`
			This      *int   `yaml:"this"`
			KeepName  bool   `yaml:"keep_name"`
		}
		for i := 0; i < len(node.Content); i += 2 {
			if key := node.Content[i].Value; !matcherKeys[key] {
				return errors.Newf("line %d: unknown matcher key %q", node.Content[i].Line, key)
			}
		}
		if err := node.Decode(&fields); err != nil {
			return err
		}
		m.ByName, m.ByArgType, m.Index = fields.ByName, fields.ByArgType, fields.Index
		m.Name, m.This, m.KeepName = fields.Name, fields.This, fields.KeepName
		return nil
	default:
		return errors.Newf("line %d: matcher must be a string or a map", node.Line)
	}
}

func (m *rawMatcher) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		m.isScalar, m.scalar = true, v
		return nil
	case map[string]any:
		for key, val := range v {
			if !matcherKeys[key] {
				return errors.Newf("unknown matcher key %q", key)
			}
			var ok bool
			switch key {
			case "by_name":
				m.ByName, ok = val.(string)
			case "by_arg_type":
				m.ByArgType, ok = val.(string)
			case "name":
				m.Name, ok = val.(string)
			case "keep_name":
				m.KeepName, ok = val.(bool)
			case "index", "this":
				var n int64
				if n, ok = val.(int64); ok {
					i := int(n)
					if key == "index" {
						m.Index = &i
					} else {
						m.This = &i
					}
				}
			}
			if !ok {
				return errors.Newf("matcher key %q has type %T", key, val)
			}
		}
		return nil
	default:
		return errors.Newf("matcher must be a string or a table, got %T", data)
	}
}

func (m *rawMatcher) build() (Rule, error) {
	if m.isScalar {
		pat, this := m.scalar, 0
		if i := strings.LastIndex(pat, ","); i >= 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(pat[i+1:])); err == nil {
				pat, this = pat[:i], n
			}
		}
		re, err := anchored(pat)
		if err != nil {
			return Rule{}, err
		}
		return Rule{Matcher: ByName{Pattern: re}, This: this}, nil
	}

	switch {
	case m.ByName != "" && m.ByArgType != "":
		return Rule{}, errors.Wrap(ErrMalformed, "by_name and by_arg_type are exclusive")
	case m.ByName != "":
		if m.Index != nil || m.Name != "" {
			return Rule{}, errors.WithHint(
				errors.Wrap(ErrMalformed, "index and name apply to by_arg_type only"),
				"the method name of a by_name rule is its first capture group")
		}
		re, err := anchored(m.ByName)
		if err != nil {
			return Rule{}, err
		}
		r := Rule{Matcher: ByName{Pattern: re}, KeepName: m.KeepName}
		if m.This != nil {
			r.This = *m.This
		}
		return r, nil
	case m.ByArgType != "":
		if m.Index == nil || m.Name == "" {
			return Rule{}, errors.Wrap(ErrMalformed, "by_arg_type needs index and name")
		}
		if *m.Index < 0 {
			return Rule{}, errors.Wrap(ErrMalformed, "negative argument index")
		}
		re, err := anchored(m.Name)
		if err != nil {
			return Rule{}, err
		}
		r := Rule{
			Matcher:  ByArgType{Index: *m.Index, Tag: m.ByArgType, Name: re},
			This:     *m.Index,
			KeepName: m.KeepName,
		}
		if m.This != nil {
			r.This = *m.This
		}
		return r, nil
	default:
		return Rule{}, errors.Wrap(ErrMalformed, "matcher needs by_name or by_arg_type")
	}
}

func buildRules(raw []rawMatcher) ([]Rule, error) {
	rules := make([]Rule, 0, len(raw))
	for i := range raw {
		r, err := raw[i].build()
		if err != nil {
			return nil, errors.Wrapf(err, "rule %d", i)
		}
		if r.This < 0 {
			return nil, errors.Wrapf(ErrMalformed, "rule %d: negative receiver index", i)
		}
		rules = append(rules, r)
	}
	return rules, nil
}
