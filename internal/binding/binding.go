// Package binding drives the passes that turn a registry of native
// declarations into binding source text.
package binding

import (
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/olehluchkiv/oocbind/internal/codegen"
	"github.com/olehluchkiv/oocbind/internal/config"
	"github.com/olehluchkiv/oocbind/internal/names"
	"github.com/olehluchkiv/oocbind/internal/registry"
	"github.com/olehluchkiv/oocbind/internal/tag"
)

// ErrReclassifyMismatch reports a rule that selects a function it cannot
// be applied to.
var ErrReclassifyMismatch = errors.New("reclassification mismatch")

// Pass is one stage of the pipeline. Passes run in a fixed order and each
// relies on the state left by the ones before it.
type Pass struct {
	Name  string
	Apply func(c *Client) error
}

// Passes lists the pipeline in execution order.
var Passes = []Pass{
	{Name: "primitives", Apply: (*Client).registerPrimitives},
	{Name: "opaque", Apply: (*Client).materializeOpaque},
	{Name: "binding-names", Apply: (*Client).assignBindingNames},
	{Name: "native-names", Apply: (*Client).assignNativeNames},
	{Name: "types", Apply: (*Client).emitTypes},
	{Name: "functions", Apply: (*Client).emitFunctions},
	{Name: "objects", Apply: (*Client).applyObjects},
	{Name: "errors", Apply: (*Client).injectErrorChecks},
}

// claim records the reclassification of one function.
type claim struct {
	target   string
	method   string
	static   bool
	receiver int
}

// Client owns the state of one generation run.
type Client struct {
	reg      *registry.Registry
	cfg      *config.Config
	resolver *tag.Resolver
	namer    *names.Namer
	decls    *Decls
	claims   map[string]claim
	logger   *slog.Logger
	ran      bool
}

// New returns a Client over reg configured by cfg. A nil cfg behaves like
// an empty document.
func New(reg *registry.Registry, cfg *config.Config, logger *slog.Logger) *Client {
	if cfg == nil {
		cfg = &config.Config{Opaque: config.OpaqueTypedefs}
	}
	return &Client{
		reg:      reg,
		cfg:      cfg,
		resolver: tag.NewResolver(reg),
		decls:    NewDecls(),
		claims:   make(map[string]claim),
		logger:   logger.With("component", "binding"),
	}
}

// Decls exposes the top-level declarations emitted so far.
func (c *Client) Decls() *Decls { return c.decls }

// Run executes every pass. A Client runs at most once.
func (c *Client) Run() error {
	if c.ran {
		return errors.AssertionFailedf("binding: client already ran")
	}
	c.ran = true
	for _, p := range Passes {
		start := time.Now()
		c.logger.Debug("pass started", "pass", p.Name)
		if err := p.Apply(c); err != nil {
			return errors.Wrapf(err, "%s", p.Name)
		}
		c.logger.Debug("pass finished", "pass", p.Name, "decls", c.decls.Len(), "elapsed", time.Since(start))
	}
	c.logger.Info("binding generated", "entities", c.reg.Len(), "decls", c.decls.Len(), "methods", len(c.claims))
	return nil
}

// Render serializes the header directives and every top-level declaration.
func (c *Client) Render() (string, error) {
	g := codegen.New()
	header := c.header()
	if err := g.Write(header); err != nil {
		return "", err
	}
	if len(header) > 0 {
		if err := g.Write(""); err != nil {
			return "", err
		}
	}
	for _, d := range c.decls.Values() {
		if err := g.Write(d); err != nil {
			return "", errors.Wrapf(err, "rendering %s", d.Ident())
		}
	}
	return g.String(), nil
}

// Generate runs the whole pipeline and returns the binding text.
func Generate(reg *registry.Registry, cfg *config.Config, logger *slog.Logger) (string, error) {
	c := New(reg, cfg, logger)
	if err := c.Run(); err != nil {
		return "", err
	}
	return c.Render()
}

func (c *Client) registerPrimitives() error {
	for spelling, binding := range c.cfg.Primitives {
		c.reg.SetPrimitive(spelling, binding)
	}
	for _, e := range c.reg.Entities() {
		if p, ok := e.Kind.(registry.Primitive); ok {
			c.reg.SetPrimitive(e.Tag, p.Binding)
		}
	}
	return nil
}

func malformed(format string, args ...any) error {
	return errors.Wrapf(config.ErrMalformed, format, args...)
}

func mismatch(format string, args ...any) error {
	return errors.Wrapf(ErrReclassifyMismatch, format, args...)
}
