// Package codegen folds a tree of lines and indentation markers into text.
// It knows nothing about what the lines mean.
package codegen

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Marker changes the indentation level of every following line.
type Marker int

const (
	Indent Marker = iota + 1
	Dedent
)

// String returns the name of the marker.
func (m Marker) String() string {
	switch m {
	case Indent:
		return "<indent>"
	case Dedent:
		return "<dedent>"
	default:
		return "<invalid marker>"
	}
}

// Block is a sequence of elements. Valid elements are string lines,
// Markers, nested Blocks and Nodes.
type Block []any

// Node is anything that can render itself as a Block.
type Node interface {
	Code() Block
}

// Each converts a slice of nodes into a Block.
func Each[T Node](nodes []T) Block {
	b := make(Block, 0, len(nodes))
	for _, n := range nodes {
		b = append(b, n)
	}
	return b
}

// IndentUnit is the indentation emitted per level.
const IndentUnit = "    "

// Generator accumulates rendered text.
type Generator struct {
	buf   strings.Builder
	level int
}

// New returns an empty Generator.
func New() *Generator {
	return &Generator{}
}

// Write appends the rendering of each item.
func (g *Generator) Write(items ...any) error {
	for _, item := range items {
		if err := g.write(item); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) write(item any) error {
	switch v := item.(type) {
	case nil:
		return nil
	case string:
		g.line(v)
	case Marker:
		return g.mark(v)
	case Block:
		for _, el := range v {
			if err := g.write(el); err != nil {
				return err
			}
		}
	case []string:
		for _, l := range v {
			g.line(l)
		}
	case Node:
		return g.write(v.Code())
	default:
		return errors.Newf("codegen: unsupported element %T", item)
	}
	return nil
}

func (g *Generator) line(s string) {
	// Blank lines carry no indentation so the output has no trailing spaces.
	if s == "" {
		g.buf.WriteByte('\n')
		return
	}
	for i := 0; i < g.level; i++ {
		g.buf.WriteString(IndentUnit)
	}
	g.buf.WriteString(s)
	g.buf.WriteByte('\n')
}

func (g *Generator) mark(m Marker) error {
	switch m {
	case Indent:
		g.level++
	case Dedent:
		if g.level == 0 {
			return errors.New("codegen: dedent below level zero")
		}
		g.level--
	default:
		return errors.Newf("codegen: invalid marker %d", int(m))
	}
	return nil
}

// String returns everything written so far.
func (g *Generator) String() string { return g.buf.String() }

// Render is a shortcut that folds items with a fresh Generator.
func Render(items ...any) (string, error) {
	g := New()
	if err := g.Write(items...); err != nil {
		return "", err
	}
	return g.String(), nil
}
