package introspection

import (
	"bytes"
	"encoding/json"

	schema "github.com/topolanekmartin/apollo-cache-manager/internal/schema"
)

type envelope struct {
	Schema json.RawMessage `json:"__schema"`
	Data   *struct {
		Schema json.RawMessage `json:"__schema"`
	} `json:"data"`
}

type rawSchema struct {
	QueryType        json.RawMessage `json:"queryType"`
	MutationType     json.RawMessage `json:"mutationType"`
	SubscriptionType json.RawMessage `json:"subscriptionType"`
	Types            json.RawMessage `json:"types"`
}

// Parse converts an introspection result into a schema. Both the bare
// {"__schema": ...} shape and a full {"data": {"__schema": ...}} response
// are accepted. Type entries that cannot be decoded, or that have an
// unknown kind, are left out.
func Parse(data []byte) (*schema.Schema, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, malformed("invalid JSON", err)
	}
	raw := env.Schema
	if isAbsent(raw) && env.Data != nil {
		raw = env.Data.Schema
	}
	if isAbsent(raw) {
		return nil, malformed("missing __schema", nil)
	}

	var rs rawSchema
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, malformed("__schema is not an object", err)
	}
	if isAbsent(rs.Types) {
		return nil, malformed("missing __schema.types", nil)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(rs.Types, &entries); err != nil {
		return nil, malformed("__schema.types is not an array", err)
	}

	s := schema.NewSchema()
	s.QueryType = rootName(rs.QueryType)
	s.MutationType = rootName(rs.MutationType)
	s.SubscriptionType = rootName(rs.SubscriptionType)
	for _, entry := range entries {
		var ft FullType
		if err := json.Unmarshal(entry, &ft); err != nil {
			continue
		}
		s.AddType(convertType(&ft))
	}
	return s, nil
}

// ParseResult converts an already decoded introspection result.
func ParseResult(r *Result) (*schema.Schema, error) {
	if r == nil || r.Schema == nil {
		return nil, malformed("missing __schema", nil)
	}
	if r.Schema.Types == nil {
		return nil, malformed("missing __schema.types", nil)
	}
	s := schema.NewSchema()
	s.QueryType = namedRef(r.Schema.QueryType)
	s.MutationType = namedRef(r.Schema.MutationType)
	s.SubscriptionType = namedRef(r.Schema.SubscriptionType)
	for i := range r.Schema.Types {
		s.AddType(convertType(&r.Schema.Types[i]))
	}
	return s, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func rootName(raw json.RawMessage) string {
	if isAbsent(raw) {
		return ""
	}
	var ref NamedRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return ""
	}
	return ref.Name
}

func namedRef(ref *NamedRef) string {
	if ref == nil {
		return ""
	}
	return ref.Name
}

// convertType returns nil for entries that must be dropped.
func convertType(ft *FullType) *schema.Type {
	if ft.Name == "" || schema.IsReflectionName(ft.Name) {
		return nil
	}
	kind, ok := schema.ParseTypeKind(ft.Kind)
	if !ok {
		return nil
	}
	t := schema.NewType(ft.Name, kind, deref(ft.Description))

	switch kind {
	case schema.TypeKindScalar:
	case schema.TypeKindEnum:
		for _, ev := range ft.EnumValues {
			v := schema.NewEnumValue(ev.Name, deref(ev.Description))
			if ev.IsDeprecated {
				v.Deprecate(deref(ev.DeprecationReason))
			}
			t.AddEnumValue(v)
		}
	case schema.TypeKindObject:
		convertFields(t, ft.Fields)
		for _, iface := range ft.Interfaces {
			t.AddInterface(iface.Name)
		}
	case schema.TypeKindInterface:
		convertFields(t, ft.Fields)
		for _, pt := range ft.PossibleTypes {
			t.AddPossibleType(pt.Name)
		}
	case schema.TypeKindUnion:
		for _, pt := range ft.PossibleTypes {
			t.AddPossibleType(pt.Name)
		}
	case schema.TypeKindInputObject:
		for i := range ft.InputFields {
			t.AddField(convertInputValue(&ft.InputFields[i]))
		}
	}
	return t.Finalize()
}

func convertFields(t *schema.Type, fields []Field) {
	for _, f := range fields {
		field := schema.NewField(f.Name, deref(f.Description), convertTypeRef(f.Type))
		if f.IsDeprecated {
			field.Deprecate(deref(f.DeprecationReason))
		}
		for i := range f.Args {
			field.AddArgument(convertInputValue(&f.Args[i]))
		}
		t.AddField(field)
	}
}

func convertInputValue(v *InputValue) *schema.Field {
	f := schema.NewField(v.Name, deref(v.Description), convertTypeRef(v.Type))
	if v.DefaultValue != nil {
		f.SetDefault(*v.DefaultValue)
	}
	if v.IsDeprecated {
		f.Deprecate(deref(v.DeprecationReason))
	}
	return f
}

func convertTypeRef(ref *TypeRef) *schema.TypeRef {
	if ref == nil {
		return nil
	}
	return &schema.TypeRef{
		Kind:   schema.TypeRefKind(ref.Kind),
		Name:   deref(ref.Name),
		OfType: convertTypeRef(ref.OfType),
	}
}
