package introspection

// Result is the data of an introspection response.
type Result struct {
	Schema *SchemaData `json:"__schema"`
}

type SchemaData struct {
	QueryType        *NamedRef  `json:"queryType"`
	MutationType     *NamedRef  `json:"mutationType"`
	SubscriptionType *NamedRef  `json:"subscriptionType"`
	Types            []FullType `json:"types"`
	Directives       []any      `json:"directives,omitempty"`
}

// NamedRef is the {name} shape used for root types, interfaces and possible types.
type NamedRef struct {
	Name string `json:"name"`
}

type FullType struct {
	Kind          string       `json:"kind"`
	Name          string       `json:"name"`
	Description   *string      `json:"description"`
	Fields        []Field      `json:"fields"`
	InputFields   []InputValue `json:"inputFields"`
	Interfaces    []NamedRef   `json:"interfaces"`
	EnumValues    []EnumValue  `json:"enumValues"`
	PossibleTypes []NamedRef   `json:"possibleTypes"`
}

type Field struct {
	Name              string       `json:"name"`
	Description       *string      `json:"description"`
	Args              []InputValue `json:"args"`
	Type              *TypeRef     `json:"type"`
	IsDeprecated      bool         `json:"isDeprecated"`
	DeprecationReason *string      `json:"deprecationReason"`
}

type InputValue struct {
	Name              string   `json:"name"`
	Description       *string  `json:"description"`
	Type              *TypeRef `json:"type"`
	DefaultValue      *string  `json:"defaultValue"`
	IsDeprecated      bool     `json:"isDeprecated,omitempty"`
	DeprecationReason *string  `json:"deprecationReason,omitempty"`
}

type EnumValue struct {
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	IsDeprecated      bool    `json:"isDeprecated"`
	DeprecationReason *string `json:"deprecationReason"`
}

// TypeRef is the recursive kind/name/ofType shape.
type TypeRef struct {
	Kind   string   `json:"kind"`
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
