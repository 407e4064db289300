package fragment

import (
	"strings"

	"github.com/topolanekmartin/apollo-cache-manager/internal/schema"
	"github.com/topolanekmartin/apollo-cache-manager/internal/value"
)

const typenameField = "__typename"

// selection is one line of the generated document: a field, optionally
// with nested selections, or an inline fragment when On is set.
type selection struct {
	Name     string
	On       string
	Children []selection
}

var typenameOnly = []selection{{Name: typenameField}}

// collector walks a value tree against the schema. The tree decides which
// fields are selected; the schema decides how each one expands.
type collector struct {
	schema   *schema.Schema
	maxDepth int
}

func (c collector) collect(data *value.Object, typ *schema.Type, visited schema.Visited, depth int) []selection {
	var out []selection
	data.Range(func(key string, v any) bool {
		if key == typenameField {
			return true
		}
		out = append(out, c.field(key, v, typ, visited, depth))
		return true
	})
	if len(out) == 0 {
		return typenameOnly
	}
	return out
}

func (c collector) field(key string, v any, parent *schema.Type, visited schema.Visited, depth int) selection {
	leaf := selection{Name: key}

	def := parent.Field(key)
	if def == nil {
		return leaf
	}
	base := def.Type.NamedType()
	typ := c.schema.Type(base)
	if typ == nil || typ.IsLeaf() {
		return leaf
	}
	if depth >= c.maxDepth || visited.Has(base) {
		return leaf
	}
	next := visited.With(base)

	switch typ.Kind {
	case schema.TypeKindUnion, schema.TypeKindInterface:
		sample, ok := sampleObject(v, def.Type)
		if !ok {
			return leaf
		}
		concreteName, _ := sample.String(typenameField)
		if concreteName == "" {
			return leaf
		}
		concrete := c.schema.Type(concreteName)
		if concrete == nil || !concrete.HasFields() {
			return leaf
		}
		inline := selection{
			On:       concreteName,
			Children: c.collect(sample, concrete, next.With(concreteName), depth+1),
		}
		return selection{Name: key, Children: []selection{inline}}
	case schema.TypeKindObject, schema.TypeKindInputObject:
		sample, ok := sampleObject(v, def.Type)
		if !ok {
			return leaf
		}
		return selection{Name: key, Children: c.collect(sample, typ, next, depth+1)}
	default:
		return leaf
	}
}

// sampleObject picks the record that stands for the field's value. For a
// list it is the first element; the resulting selection applies to all
// elements.
func sampleObject(v any, ref *schema.TypeRef) (*value.Object, bool) {
	if ref.IsList() {
		items, ok := v.([]any)
		if !ok || len(items) == 0 {
			return nil, false
		}
		return value.AsObject(items[0])
	}
	return value.AsObject(v)
}

func writeSelections(b *strings.Builder, sels []selection, indent string) {
	for _, sel := range sels {
		b.WriteString(indent)
		if sel.On != "" {
			b.WriteString("... on ")
			b.WriteString(sel.On)
		} else {
			b.WriteString(sel.Name)
		}
		if len(sel.Children) == 0 {
			b.WriteString("\n")
			continue
		}
		b.WriteString(" {\n")
		writeSelections(b, sel.Children, indent+"  ")
		b.WriteString(indent)
		b.WriteString("}\n")
	}
}
