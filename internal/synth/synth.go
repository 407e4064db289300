// Package synth produces structurally valid default values for schema
// types. Object defaults carry a __typename naming the type they were
// built for. Recursion through object types is bounded by a depth limit
// and by the set of type names already on the current branch.
package synth

import (
	"time"

	"github.com/topolanekmartin/apollo-cache-manager/internal/schema"
	"github.com/topolanekmartin/apollo-cache-manager/internal/value"
)

const typenameField = "__typename"

// Synthesize returns the default value for ref. Lists are always empty.
// Object and input types at depth >= maxDepth, or already in visited,
// become nil.
func Synthesize(ref *schema.TypeRef, s *schema.Schema, visited schema.Visited, depth, maxDepth int) any {
	w := walker{schema: s, now: time.Now()}
	return w.ref(ref, visited, depth, maxDepth)
}

// walker carries what stays fixed for one traversal.
type walker struct {
	schema *schema.Schema
	now    time.Time
}

func (w walker) ref(ref *schema.TypeRef, visited schema.Visited, depth, maxDepth int) any {
	if ref.IsList() {
		return []any{}
	}
	name := ref.NamedType()
	t := w.schema.Type(name)
	if t == nil {
		return ScalarDefault(name, w.now)
	}
	return w.typ(t, visited, depth, maxDepth)
}

func (w walker) typ(t *schema.Type, visited schema.Visited, depth, maxDepth int) any {
	switch t.Kind {
	case schema.TypeKindScalar:
		return ScalarDefault(t.Name, w.now)
	case schema.TypeKindEnum:
		if len(t.EnumValues) == 0 {
			return ""
		}
		return t.EnumValues[0].Name
	case schema.TypeKindObject, schema.TypeKindInputObject:
		if visited.Has(t.Name) || depth >= maxDepth {
			return nil
		}
		next := visited.With(t.Name)
		obj := value.NewObject().Set(typenameField, t.Name)
		for _, f := range t.Fields {
			if f.Name == typenameField {
				continue
			}
			obj.Set(f.Name, w.ref(f.Type, next, depth+1, maxDepth))
		}
		return obj
	case schema.TypeKindInterface, schema.TypeKindUnion:
		if len(t.PossibleTypes) == 0 {
			return nil
		}
		concrete := w.schema.Type(t.PossibleTypes[0])
		if concrete == nil {
			return nil
		}
		return w.typ(concrete, visited, depth, maxDepth)
	default:
		return nil
	}
}
