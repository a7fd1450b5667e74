package sphinx

import (
	"context"
	"fmt"

	ast "github.com/honeybbq/sphinxconf/pkg/ast/sphinx"
	"github.com/honeybbq/sphinxconf/pkg/renderer"
	confrenderer "github.com/honeybbq/sphinxconf/pkg/renderer/sphinx"
	"github.com/honeybbq/sphinxconf/pkg/scerrors"
	"github.com/honeybbq/sphinxconf/pkg/sphinxconf"
)

// Config is the editing facade over one configuration document: it owns the
// document, a parser and a renderer, and exposes the get/set API with
// inheritance propagation.
//
// A failed parse leaves no document loaded: the previous document is
// discarded and replaced by an empty one.
type Config struct {
	doc      *ast.Document
	parser   renderer.Parser[*ast.Document]
	renderer renderer.Renderer[*ast.Document]
	preserve bool
	path     string
}

// New 构造使用默认解析器/渲染器的 Config。
func New() *Config {
	return NewWith(confrenderer.NewParser(), confrenderer.NewPlainTextRenderer())
}

// NewWith 允许注入自定义解析器/渲染器（主要用于测试）。
func NewWith(p renderer.Parser[*ast.Document], r renderer.Renderer[*ast.Document]) *Config {
	return &Config{
		doc:      ast.NewDocument(),
		parser:   p,
		renderer: r,
		preserve: true,
	}
}

// Document exposes the underlying document. Mutations through the returned
// pointer participate in the same propagation rules as the facade methods.
func (c *Config) Document() *ast.Document { return c.doc }

// Path returns the file the configuration was last loaded from, or "".
func (c *Config) Path() string { return c.path }

// Parse replaces the current document with the parse of src.
func (c *Config) Parse(ctx context.Context, src *sphinxconf.Source, opts sphinxconf.ParseOptions) error {
	doc, err := c.parser.Parse(ctx, src, opts)
	if err != nil {
		c.doc = ast.NewDocument()
		c.doc.SetPreserveInheritance(c.preserve)
		return err
	}
	doc.SetPreserveInheritance(c.preserve)
	c.doc = doc
	return nil
}

// Load 读取并解析一个配置文件；之后 Save 会写回同一路径。
func (c *Config) Load(ctx context.Context, path string) error {
	src, err := sphinxconf.ReadSource(path)
	if err != nil {
		return err
	}
	if err := c.Parse(ctx, src, sphinxconf.ParseOptions{}); err != nil {
		return err
	}
	c.path = path
	return nil
}

// Save serializes the document back to the file it was loaded from,
// overwriting it.
func (c *Config) Save(ctx context.Context, opts sphinxconf.RenderOptions) error {
	if c.path == "" {
		return scerrors.New(scerrors.KindArgument, fmt.Errorf("no file loaded; use SaveAs"))
	}
	return c.SaveAs(ctx, c.path, opts)
}

// SaveAs serializes the document to path, overwriting it.
func (c *Config) SaveAs(ctx context.Context, path string, opts sphinxconf.RenderOptions) error {
	out, err := c.renderer.Render(ctx, c.doc, opts)
	if err != nil {
		return err
	}
	return sphinxconf.WriteOutput(path, out)
}

// AsString returns the serialized text form of the document.
func (c *Config) AsString(ctx context.Context, opts sphinxconf.RenderOptions) (string, error) {
	out, err := c.renderer.Render(ctx, c.doc, opts)
	if err != nil {
		return "", err
	}
	return string(out.Content), nil
}

// Get returns the value stored under key in the section identified by
// (typ, name). Absence of the section or the key is a defined result, not an
// error, and is distinct from an empty value.
func (c *Config) Get(typ ast.Type, name, key string) (ast.Value, bool) {
	return c.doc.Get(typ, name, key)
}

// Section returns the whole section record.
func (c *Config) Section(typ ast.Type, name string) (*ast.Section, bool) {
	return c.doc.Lookup(typ, name)
}

// Pairs returns a deep copy of a section's whole data mapping.
func (c *Config) Pairs(typ ast.Type, name string) (map[string]ast.Value, bool) {
	s, ok := c.doc.Lookup(typ, name)
	if !ok {
		return nil, false
	}
	return s.Pairs(), true
}

// Set updates one key (nil value deletes it), creating the section when the
// identity does not exist yet, and returns the section's updated mapping.
func (c *Config) Set(typ ast.Type, name, key string, value ast.Value) (map[string]ast.Value, error) {
	s, err := c.doc.Set(typ, name, key, value)
	if err != nil {
		return nil, err
	}
	return s.Pairs(), nil
}

// Replace swaps a section's entire data mapping and returns the result.
func (c *Config) Replace(typ ast.Type, name string, pairs map[string]ast.Value) (map[string]ast.Value, error) {
	s, err := c.doc.Replace(typ, name, pairs)
	if err != nil {
		return nil, err
	}
	return s.Pairs(), nil
}

// DeleteSection removes a whole section from the document and its index.
func (c *Config) DeleteSection(typ ast.Type, name string) bool {
	return c.doc.RemoveSection(typ, name)
}

// PreserveInheritance reports the document-wide mode flag.
func (c *Config) PreserveInheritance() bool { return c.preserve }

// SetPreserveInheritance toggles the mode. The setting sticks across Parse
// and Load calls on this Config.
func (c *Config) SetPreserveInheritance(on bool) {
	c.preserve = on
	c.doc.SetPreserveInheritance(on)
}
