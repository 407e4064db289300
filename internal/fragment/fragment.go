// Package fragment derives fragment documents from edited value trees.
//
// The selection set follows the keys present in the tree rather than the
// full schema, so a cache write touches exactly the fields the operator
// filled in. Output is deterministic for a given tree and schema.
package fragment

import (
	"fmt"
	"strings"

	"github.com/topolanekmartin/apollo-cache-manager/internal/language"
	"github.com/topolanekmartin/apollo-cache-manager/internal/schema"
	"github.com/topolanekmartin/apollo-cache-manager/internal/value"
)

// Document is a generated fragment.
type Document struct {
	Name       string
	TypeName   string
	Text       string
	Definition *language.FragmentDefinition
}

// Builder generates fragment documents against one schema.
//
// Defaults:
// - MaxDepth:   3
// - NameSuffix: "Mock" (fragment name is <TypeName><NameSuffix>)
type Builder struct {
	schema     *schema.Schema
	maxDepth   int
	name       string
	nameSuffix string
}

type Option func(*Builder)

func WithMaxDepth(n int) Option           { return func(b *Builder) { b.maxDepth = n } }
func WithName(name string) Option         { return func(b *Builder) { b.name = name } }
func WithNameSuffix(suffix string) Option { return func(b *Builder) { b.nameSuffix = suffix } }

func NewBuilder(s *schema.Schema, opts ...Option) *Builder {
	b := &Builder{schema: s, maxDepth: 3, nameSuffix: "Mock"}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FragmentName returns the name used for fragments on typeName.
func (b *Builder) FragmentName(typeName string) string {
	if b.name != "" {
		return b.name
	}
	return typeName + b.nameSuffix
}

// Text renders the fragment for tree on typeName without parsing it.
func (b *Builder) Text(typeName string, tree *value.Object) string {
	var sb strings.Builder
	sb.WriteString("fragment ")
	sb.WriteString(b.FragmentName(typeName))
	sb.WriteString(" on ")
	sb.WriteString(typeName)
	sb.WriteString(" {\n")
	writeSelections(&sb, b.selections(typeName, tree), "  ")
	sb.WriteString("}")
	return sb.String()
}

func (b *Builder) selections(typeName string, tree *value.Object) []selection {
	typ := b.schema.Type(typeName)
	if typ == nil || len(typ.Fields) == 0 {
		return typenameOnly
	}
	if typ.Kind != schema.TypeKindObject && typ.Kind != schema.TypeKindInterface {
		return typenameOnly
	}
	c := collector{schema: b.schema, maxDepth: b.maxDepth}
	return c.collect(tree, typ, nil, 0)
}

// Build renders the fragment and parses it back, so the returned document
// is known to be syntactically valid.
func (b *Builder) Build(typeName string, tree *value.Object) (*Document, error) {
	text := b.Text(typeName, tree)
	def, err := language.ParseFragment(text)
	if err != nil {
		return nil, fmt.Errorf("fragment on %q: %w", typeName, err)
	}
	return &Document{
		Name:       def.Name,
		TypeName:   typeName,
		Text:       text,
		Definition: def,
	}, nil
}

// Fields lists the dotted selection paths of the document.
func (d *Document) Fields() []string {
	if d == nil || d.Definition == nil {
		return nil
	}
	return language.SelectionPaths(d.Definition.SelectionSet)
}

// BuildSelectionDocument returns the fragment text for tree on typeName
// using the default builder settings.
func BuildSelectionDocument(typeName string, tree *value.Object, s *schema.Schema) string {
	return NewBuilder(s).Text(typeName, tree)
}
