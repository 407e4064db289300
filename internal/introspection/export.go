package introspection

import (
	schema "github.com/topolanekmartin/apollo-cache-manager/internal/schema"
)

// FromSchema renders s back into the introspection result shape, types
// sorted by name. Parse(FromSchema(s)) reproduces s.
func FromSchema(s *schema.Schema) *Result {
	data := &SchemaData{Types: []FullType{}}
	if s == nil {
		return &Result{Schema: data}
	}
	data.QueryType = rootRef(s.QueryType)
	data.MutationType = rootRef(s.MutationType)
	data.SubscriptionType = rootRef(s.SubscriptionType)

	for _, name := range s.TypeNames() {
		data.Types = append(data.Types, exportType(s.Types[name]))
	}
	return &Result{Schema: data}
}

func rootRef(name string) *NamedRef {
	if name == "" {
		return nil
	}
	return &NamedRef{Name: name}
}

func exportType(t *schema.Type) FullType {
	ft := FullType{Kind: string(t.Kind), Name: t.Name, Description: ptr(t.Description)}
	switch t.Kind {
	case schema.TypeKindScalar:
	case schema.TypeKindEnum:
		ft.EnumValues = []EnumValue{}
		for _, ev := range t.EnumValues {
			ft.EnumValues = append(ft.EnumValues, EnumValue{
				Name:              ev.Name,
				Description:       ptr(ev.Description),
				IsDeprecated:      ev.IsDeprecated,
				DeprecationReason: ptr(ev.DeprecationReason),
			})
		}
	case schema.TypeKindObject, schema.TypeKindInterface:
		ft.Fields = []Field{}
		for _, f := range t.Fields {
			ft.Fields = append(ft.Fields, Field{
				Name:              f.Name,
				Description:       ptr(f.Description),
				Args:              exportInputValues(f.Args),
				Type:              exportTypeRef(f.Type),
				IsDeprecated:      f.IsDeprecated,
				DeprecationReason: ptr(f.DeprecationReason),
			})
		}
		if t.Kind == schema.TypeKindObject {
			ft.Interfaces = namedRefs(t.Interfaces)
		} else {
			ft.Interfaces = []NamedRef{}
			ft.PossibleTypes = namedRefs(t.PossibleTypes)
		}
	case schema.TypeKindUnion:
		ft.PossibleTypes = namedRefs(t.PossibleTypes)
	case schema.TypeKindInputObject:
		ft.InputFields = exportInputValues(t.Fields)
	}
	return ft
}

func exportInputValues(fields []*schema.Field) []InputValue {
	out := []InputValue{}
	for _, f := range fields {
		out = append(out, InputValue{
			Name:              f.Name,
			Description:       ptr(f.Description),
			Type:              exportTypeRef(f.Type),
			DefaultValue:      f.DefaultValue,
			IsDeprecated:      f.IsDeprecated,
			DeprecationReason: ptr(f.DeprecationReason),
		})
	}
	return out
}

func exportTypeRef(ref *schema.TypeRef) *TypeRef {
	if ref == nil {
		return nil
	}
	return &TypeRef{
		Kind:   string(ref.Kind),
		Name:   ptr(ref.Name),
		OfType: exportTypeRef(ref.OfType),
	}
}

func namedRefs(names []string) []NamedRef {
	out := make([]NamedRef, 0, len(names))
	for _, n := range names {
		out = append(out, NamedRef{Name: n})
	}
	return out
}
