package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personYAML = `
files: [api.json]
use: [sdk]
names:
  STRUCT(_Person): PersonData
primitives:
  my_bool: Bool
ignore_files: ["^/opt/sdk/"]
objects:
  - name: Person
    tag: Person
    static_methods: ["person_(new)"]
    methods:
      - "person_(.*),0"
      - {by_arg_type: "POINTER(Person)", index: 1, name: "person_(.*)", keep_name: true}
    properties:
      - {name: name, getter: person_get_name, setter: person_set_name}
  - name: Registry
    from: "void*"
    extends: Object
errors:
  exception: PersonException
  codes:
    - {name: PERSON_EDEAD, message: "person is dead"}
  check: ["person_.*"]
`

const personTOML = `
files = ["api.json"]
use = ["sdk"]
ignore_files = ["^/opt/sdk/"]

[names]
"STRUCT(_Person)" = "PersonData"

[primitives]
my_bool = "Bool"

[[objects]]
name = "Person"
tag = "Person"
static_methods = ["person_(new)"]
methods = [
  "person_(.*),0",
  {by_arg_type = "POINTER(Person)", index = 1, name = "person_(.*)", keep_name = true},
]
properties = [{name = "name", getter = "person_get_name", setter = "person_set_name"}]

[[objects]]
name = "Registry"
from = "void*"
extends = "Object"

[errors]
exception = "PersonException"
codes = [{name = "PERSON_EDEAD", message = "person is dead"}]
check = ["person_.*"]
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func assertPersonConfig(t *testing.T, cfg *Config) {
	t.Helper()
	assert.Equal(t, []string{"api.json"}, cfg.Files)
	assert.Equal(t, []string{"sdk"}, cfg.Use)
	assert.Equal(t, map[string]string{"STRUCT(_Person)": "PersonData"}, cfg.Names)
	assert.Equal(t, map[string]string{"my_bool": "Bool"}, cfg.Primitives)
	require.Len(t, cfg.IgnoreFiles, 1)
	assert.True(t, cfg.IgnoreFiles[0].MatchString("/opt/sdk/x.h"))
	assert.Equal(t, OpaqueTypedefs, cfg.Opaque)

	require.Len(t, cfg.Objects, 2)
	person := cfg.Objects[0]
	assert.Equal(t, "Person", person.Name)
	assert.Equal(t, "Person", person.Tag)
	require.Len(t, person.StaticMethods, 1)
	require.Len(t, person.Methods, 2)

	byName, ok := person.Methods[0].Matcher.(ByName)
	require.True(t, ok)
	assert.Equal(t, "^(?:person_(.*))", byName.Pattern.String())
	assert.Equal(t, 0, person.Methods[0].This)

	byArg, ok := person.Methods[1].Matcher.(ByArgType)
	require.True(t, ok)
	assert.Equal(t, 1, byArg.Index)
	assert.Equal(t, "POINTER(Person)", byArg.Tag)
	assert.Equal(t, 1, person.Methods[1].This, "receiver defaults to the matched argument")
	assert.True(t, person.Methods[1].KeepName)

	assert.Equal(t, []Property{{Name: "name", Getter: "person_get_name", Setter: "person_set_name"}}, person.Properties)

	reg := cfg.Objects[1]
	assert.Equal(t, "void*", reg.From)
	assert.Equal(t, "Object", reg.Extends)

	require.NotNil(t, cfg.Errors)
	assert.Equal(t, "PersonException", cfg.Errors.Exception)
	assert.Equal(t, DefaultCheck, cfg.Errors.Function)
	assert.Equal(t, []string{"0"}, cfg.Errors.Success)
	assert.Equal(t, []Code{{Name: "PERSON_EDEAD", Message: "person is dead"}}, cfg.Errors.Codes)
	require.Len(t, cfg.Errors.Check, 1)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "interface.yaml", personYAML)
	cfg, err := Load(path)
	require.NoError(t, err)
	assertPersonConfig(t, cfg)
	assert.Equal(t, filepath.Dir(path), cfg.Dir)
}

func TestLoad_TOML(t *testing.T) {
	cfg, err := Load(writeFile(t, "interface.toml", personTOML))
	require.NoError(t, err)
	assertPersonConfig(t, cfg)
}

func TestLoad_JSON(t *testing.T) {
	doc := `{"files": ["a.json"], "objects": [{"name": "P", "from": "void*", "methods": ["p_(.*)"]}]}`
	cfg, err := Load(writeFile(t, "interface.json", doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json"}, cfg.Files)
	require.Len(t, cfg.Objects, 1)
	assert.Nil(t, cfg.Errors)
}

func TestLoad_UnknownKeys(t *testing.T) {
	_, err := Load(writeFile(t, "a.yaml", "files: []\nobjcts: []\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))

	_, err = Load(writeFile(t, "a.yaml", "objects:\n  - name: P\n    from: x\n    methods: [{by_name: 'p_(.*)', reciever: 1}]\n"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "a.toml", "files = []\nobjcts = []\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load(writeFile(t, "a.ini", ""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestParse_Validation(t *testing.T) {
	cases := map[string]string{
		"empty":               "",
		"object without name": "objects: [{from: x}]",
		"duplicate object":    "objects: [{name: A, from: x}, {name: A, from: y}]",
		"tag and from":        "objects: [{name: A, tag: t, from: x}]",
		"bad opaque":          "opaque: some",
		"bad ignore regex":    "ignore_files: ['(']",
		"bad pattern":         "objects: [{name: A, from: x, methods: ['(']}]",
		"both matchers":       "objects: [{name: A, from: x, methods: [{by_name: a, by_arg_type: b}]}]",
		"arg type no index":   "objects: [{name: A, from: x, methods: [{by_arg_type: b, name: a}]}]",
		"index on by_name":    "objects: [{name: A, from: x, methods: [{by_name: a, index: 1}]}]",
		"no matcher":          "objects: [{name: A, from: x, methods: [{name: a}]}]",
		"negative receiver":   "objects: [{name: A, from: x, methods: ['a(.*),-1']}]",
		"property no access":  "objects: [{name: A, from: x, properties: [{name: p}]}]",
		"code without name":   "errors: {codes: [{message: m}]}",
		"matcher list type":   "objects: [{name: A, from: x, methods: [[a]]}]",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc), ".")
			require.Error(t, err)
		})
	}
}

func TestParse_ErrorDefaults(t *testing.T) {
	cfg, err := Parse([]byte("errors: {}"), "/tmp")
	require.NoError(t, err)
	require.NotNil(t, cfg.Errors)
	assert.Equal(t, DefaultException, cfg.Errors.Exception)
	assert.Equal(t, DefaultCheck, cfg.Errors.Function)
	assert.Equal(t, []string{"0"}, cfg.Errors.Success)
	assert.Equal(t, "/tmp", cfg.Dir)
}

func TestRule_MatchByName(t *testing.T) {
	cfg, err := Parse([]byte("objects: [{name: P, from: x, methods: ['person_(.*)', 'person_.*', 'get_(.*),2']}]"), ".")
	require.NoError(t, err)
	rules := cfg.Objects[0].Methods

	name, ok, err := rules[0].Match("person_set_name", nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "set_name", name)

	_, ok, err = rules[0].Match("new_person_x", nil)
	require.NoError(t, err)
	assert.False(t, ok, "patterns are anchored at the start")

	_, _, err = rules[1].Match("person_x", nil)
	assert.True(t, errors.Is(err, ErrNoCapture))

	assert.Equal(t, 2, rules[2].This)
}

func TestRule_MatchByArgType(t *testing.T) {
	cfg, err := Parse([]byte(`objects: [{name: P, from: x, methods: [{by_arg_type: "POINTER(Person)", index: 0, name: "person_(.*)"}]}]`), ".")
	require.NoError(t, err)
	rule := cfg.Objects[0].Methods[0]

	name, ok, err := rule.Match("person_age", []string{"POINTER(Person)"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "age", name)

	_, ok, err = rule.Match("person_age", []string{"int"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = rule.Match("noargs", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = rule.Match("other_age", []string{"POINTER(Person)"})
	require.Error(t, err, "a function selected by type must match the name pattern")
}

func TestRule_Selects(t *testing.T) {
	cfg, err := Parse([]byte(`errors:
  check: ["dev_.*", {by_arg_type: Dev, index: 1, name: "dev_(reset)"}]
`), ".")
	require.NoError(t, err)
	byName, byType := cfg.Errors.Check[0], cfg.Errors.Check[1]

	assert.True(t, byName.Selects("dev_open", nil), "no capture group needed")
	assert.False(t, byName.Selects("open_dev", nil))

	assert.True(t, byType.Selects("dev_reset", []string{"int", "Dev"}))
	assert.False(t, byType.Selects("dev_close", []string{"int", "Dev"}), "name pattern misses")
	assert.False(t, byType.Selects("dev_reset", []string{"Dev"}), "index out of range")
	assert.False(t, byType.Selects("dev_reset", []string{"Dev", "int"}))
}
