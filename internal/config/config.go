// Package config loads the interface document that drives binding
// generation: input files, name overrides, wrapper objects and their
// reclassification rules, and error checking.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ErrMalformed marks configuration mistakes: bad syntax, unknown keys and
// references to names that do not exist.
var ErrMalformed = errors.New("malformed configuration")

// OpaqueMode selects which tags the opaque materializer walks.
type OpaqueMode string

const (
	OpaqueTypedefs OpaqueMode = "typedefs"
	OpaqueAll      OpaqueMode = "all"
)

// Default error-check settings.
const (
	DefaultException = "BindingException"
	DefaultCheck     = "checkError"
)

// Config is a validated interface document.
type Config struct {
	// Dir is the directory of the document. Relative file patterns are
	// resolved against it.
	Dir         string
	Files       []string
	Use         []string
	Names       map[string]string
	Primitives  map[string]string
	IgnoreFiles []*regexp.Regexp
	Opaque      OpaqueMode
	Objects     []Object
	Errors      *Errors
}

// Object declares a wrapper type and the functions it absorbs.
type Object struct {
	Name          string
	Tag           string
	From          string
	Extends       string
	StaticMethods []Rule
	Methods       []Rule
	Properties    []Property
}

// Property exposes a getter and/or setter function as an attribute.
type Property struct {
	Name   string
	Getter string
	Setter string
	Type   string
}

// Errors configures status-code checking.
type Errors struct {
	Exception string
	Function  string
	Success   []string
	Codes     []Code
	Check     []Rule
}

// Code is a named status code and the message raised for it.
type Code struct {
	Name    string
	Message string
}

type document struct {
	Files       []string          `yaml:"files" toml:"files"`
	Use         []string          `yaml:"use" toml:"use"`
	Names       map[string]string `yaml:"names" toml:"names"`
	Primitives  map[string]string `yaml:"primitives" toml:"primitives"`
	IgnoreFiles []string          `yaml:"ignore_files" toml:"ignore_files"`
	Opaque      string            `yaml:"opaque" toml:"opaque"`
	Objects     []rawObject       `yaml:"objects" toml:"objects"`
	Errors      *rawErrors        `yaml:"errors" toml:"errors"`
}

type rawObject struct {
	Name          string        `yaml:"name" toml:"name"`
	Tag           string        `yaml:"tag" toml:"tag"`
	From          string        `yaml:"from" toml:"from"`
	Extends       string        `yaml:"extends" toml:"extends"`
	StaticMethods []rawMatcher  `yaml:"static_methods" toml:"static_methods"`
	Methods       []rawMatcher  `yaml:"methods" toml:"methods"`
	Properties    []rawProperty `yaml:"properties" toml:"properties"`
}

type rawProperty struct {
	Name   string `yaml:"name" toml:"name"`
	Getter string `yaml:"getter" toml:"getter"`
	Setter string `yaml:"setter" toml:"setter"`
	Type   string `yaml:"type" toml:"type"`
}

type rawErrors struct {
	Exception string       `yaml:"exception" toml:"exception"`
	Function  string       `yaml:"function" toml:"function"`
	Success   []string     `yaml:"success" toml:"success"`
	Codes     []rawCode    `yaml:"codes" toml:"codes"`
	Check     []rawMatcher `yaml:"check" toml:"check"`
}

type rawCode struct {
	Name    string `yaml:"name" toml:"name"`
	Message string `yaml:"message" toml:"message"`
}

// Load reads the document at path. The format follows the extension:
// .yaml, .yml and .json are read as YAML, .toml as TOML.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}

	var doc document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		if err := decodeYAML(data, &doc); err != nil {
			return nil, errors.Wrapf(err, "%s", path)
		}
	case ".toml":
		meta, err := toml.DecodeFile(abs, &doc)
		if err != nil {
			return nil, errors.Wrapf(errors.Mark(err, ErrMalformed), "%s: failed to parse TOML", path)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Wrapf(ErrMalformed, "%s: unknown key %s", path, undecoded[0])
		}
	default:
		return nil, errors.WithHint(
			errors.Wrapf(ErrMalformed, "%s: unsupported extension %q", path, ext),
			"use .yaml, .yml, .json or .toml")
	}

	cfg, err := doc.build()
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	cfg.Dir = filepath.Dir(abs)
	return cfg, nil
}

// Parse decodes a YAML or JSON document held in memory. Relative file
// patterns are resolved against dir.
func Parse(data []byte, dir string) (*Config, error) {
	var doc document
	if err := decodeYAML(data, &doc); err != nil {
		return nil, err
	}
	cfg, err := doc.build()
	if err != nil {
		return nil, err
	}
	cfg.Dir = dir
	return cfg, nil
}

func decodeYAML(data []byte, doc *document) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.Wrap(ErrMalformed, "empty document")
		}
		return errors.Mark(errors.Wrap(err, "failed to parse YAML"), ErrMalformed)
	}
	return nil
}

func (d *document) build() (*Config, error) {
	cfg := &Config{
		Files:      d.Files,
		Use:        d.Use,
		Names:      d.Names,
		Primitives: d.Primitives,
		Opaque:     OpaqueMode(d.Opaque),
	}
	if cfg.Names == nil {
		cfg.Names = map[string]string{}
	}
	if cfg.Primitives == nil {
		cfg.Primitives = map[string]string{}
	}
	switch cfg.Opaque {
	case "":
		cfg.Opaque = OpaqueTypedefs
	case OpaqueTypedefs, OpaqueAll:
	default:
		return nil, errors.WithHint(
			errors.Wrapf(ErrMalformed, "opaque: unknown mode %q", d.Opaque),
			"use typedefs or all")
	}
	for _, pat := range d.IgnoreFiles {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, errors.Wrapf(errors.Mark(err, ErrMalformed), "ignore_files: %q", pat)
		}
		cfg.IgnoreFiles = append(cfg.IgnoreFiles, re)
	}

	seen := make(map[string]bool, len(d.Objects))
	for i, raw := range d.Objects {
		obj, err := raw.build()
		if err != nil {
			return nil, errors.Wrapf(err, "objects[%d]", i)
		}
		if seen[obj.Name] {
			return nil, errors.Wrapf(ErrMalformed, "objects[%d]: %s is declared twice", i, obj.Name)
		}
		seen[obj.Name] = true
		cfg.Objects = append(cfg.Objects, obj)
	}

	if d.Errors != nil {
		e, err := d.Errors.build()
		if err != nil {
			return nil, errors.Wrap(err, "errors")
		}
		cfg.Errors = e
	}
	return cfg, nil
}

func (r *rawObject) build() (Object, error) {
	if r.Name == "" {
		return Object{}, errors.Wrap(ErrMalformed, "object without name")
	}
	if r.Tag != "" && r.From != "" {
		return Object{}, errors.WithHint(
			errors.Wrapf(ErrMalformed, "%s: tag and from are exclusive", r.Name),
			"tag reuses the wrapper of a native type; from declares a new one")
	}
	obj := Object{Name: r.Name, Tag: r.Tag, From: r.From, Extends: r.Extends}
	var err error
	if obj.StaticMethods, err = buildRules(r.StaticMethods); err != nil {
		return Object{}, errors.Wrapf(err, "%s: static_methods", r.Name)
	}
	if obj.Methods, err = buildRules(r.Methods); err != nil {
		return Object{}, errors.Wrapf(err, "%s: methods", r.Name)
	}
	for i, p := range r.Properties {
		if p.Name == "" {
			return Object{}, errors.Wrapf(ErrMalformed, "%s: properties[%d] without name", r.Name, i)
		}
		if p.Getter == "" && p.Setter == "" {
			return Object{}, errors.Wrapf(ErrMalformed, "%s: property %s needs a getter or a setter", r.Name, p.Name)
		}
		obj.Properties = append(obj.Properties, Property(p))
	}
	return obj, nil
}

func (r *rawErrors) build() (*Errors, error) {
	e := &Errors{
		Exception: r.Exception,
		Function:  r.Function,
		Success:   r.Success,
	}
	if e.Exception == "" {
		e.Exception = DefaultException
	}
	if e.Function == "" {
		e.Function = DefaultCheck
	}
	if len(e.Success) == 0 {
		e.Success = []string{"0"}
	}
	for i, c := range r.Codes {
		if c.Name == "" {
			return nil, errors.Wrapf(ErrMalformed, "codes[%d] without name", i)
		}
		e.Codes = append(e.Codes, Code(c))
	}
	var err error
	if e.Check, err = buildRules(r.Check); err != nil {
		return nil, errors.Wrap(err, "check")
	}
	return e, nil
}
