package schema

import (
	"sort"
	"strings"
)

// Schema is the parsed GraphQL type system of a loaded endpoint.
// It is built once by ingestion and treated as read-only afterwards.
type Schema struct {
	QueryType        string
	MutationType     string
	SubscriptionType string
	Types            map[string]*Type // All named types keyed by name
}

// NewSchema returns an empty schema ready for AddType.
func NewSchema() *Schema {
	return &Schema{Types: make(map[string]*Type)}
}

// AddType registers t under its name, replacing any earlier definition.
// Introspection meta-types are ignored.
func (s *Schema) AddType(t *Type) *Schema {
	if t == nil || t.Name == "" || IsReflectionName(t.Name) {
		return s
	}
	s.Types[t.Name] = t
	return s
}

// Type returns the named type or nil.
func (s *Schema) Type(name string) *Type {
	if s == nil {
		return nil
	}
	return s.Types[name]
}

// PossibleTypes returns the concrete types of an interface or union, nil otherwise.
func (s *Schema) PossibleTypes(name string) []string {
	t := s.Type(name)
	if t == nil || !t.IsAbstract() {
		return nil
	}
	return t.PossibleTypes
}

// TypeNames returns all type names sorted lexicographically.
func (s *Schema) TypeNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRootType reports whether name is one of the root operation types.
func (s *Schema) IsRootType(name string) bool {
	if s == nil || name == "" {
		return false
	}
	return name == s.QueryType || name == s.MutationType || name == s.SubscriptionType
}

// RootTypes returns the root operation types present in the schema, in
// query, mutation, subscription order.
func (s *Schema) RootTypes() []*Type {
	var roots []*Type
	for _, name := range []string{s.QueryType, s.MutationType, s.SubscriptionType} {
		if t := s.Type(name); t != nil {
			roots = append(roots, t)
		}
	}
	return roots
}

// Type is a named GraphQL type. Kind selects which of the remaining
// members are meaningful.
type Type struct {
	Name          string
	Kind          TypeKind
	Description   string
	Fields        []*Field     // OBJECT, INTERFACE, INPUT_OBJECT (input fields)
	Interfaces    []string     // OBJECT
	PossibleTypes []string     // INTERFACE, UNION
	EnumValues    []*EnumValue // ENUM

	IsConnection bool // has both edges and pageInfo
	IsEdge       bool // has both node and cursor
	IsNode       bool // implements Node
}

// Field returns the field with the given name or nil.
func (t *Type) Field(name string) *Field {
	if t == nil {
		return nil
	}
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// HasFields reports whether the kind carries field definitions.
func (t *Type) HasFields() bool {
	switch t.Kind {
	case TypeKindObject, TypeKindInterface, TypeKindInputObject:
		return true
	default:
		return false
	}
}

// IsAbstract reports whether t is an interface or union.
func (t *Type) IsAbstract() bool {
	return t.Kind == TypeKindInterface || t.Kind == TypeKindUnion
}

// IsLeaf reports whether t is a scalar or enum.
func (t *Type) IsLeaf() bool {
	return t.Kind == TypeKindScalar || t.Kind == TypeKindEnum
}

// Finalize computes the derived Relay flags from fields and interfaces.
func (t *Type) Finalize() *Type {
	if t.Kind != TypeKindObject {
		return t
	}
	t.IsConnection = t.Field("edges") != nil && t.Field("pageInfo") != nil
	t.IsEdge = t.Field("node") != nil && t.Field("cursor") != nil
	t.IsNode = false
	for _, name := range t.Interfaces {
		if name == "Node" {
			t.IsNode = true
			break
		}
	}
	return t
}

// Field is a field of an object, interface or input object.
type Field struct {
	Name              string
	Description       string
	Type              *TypeRef
	Args              []*Field // arguments, kept for rendering
	DefaultValue      *string  // input fields and arguments only
	IsDeprecated      bool
	DeprecationReason string
}

// TypeKind represents the kind of a named GraphQL type
type TypeKind string

const (
	TypeKindScalar      TypeKind = "SCALAR"
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindInterface   TypeKind = "INTERFACE"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
)

// ParseTypeKind maps an introspection kind to a named TypeKind.
func ParseTypeKind(kind string) (TypeKind, bool) {
	switch k := TypeKind(kind); k {
	case TypeKindScalar, TypeKindObject, TypeKindInterface, TypeKindUnion, TypeKindEnum, TypeKindInputObject:
		return k, true
	}
	return "", false
}

// TypeRef references a type, possibly wrapped in LIST or NON_NULL.
type TypeRef struct {
	Kind   TypeRefKind
	Name   string   // set only on named refs
	OfType *TypeRef // set only on LIST and NON_NULL
}

// TypeRefKind is either a named TypeKind or one of the two wrappers.
type TypeRefKind string

const (
	TypeRefKindList    TypeRefKind = "LIST"
	TypeRefKindNonNull TypeRefKind = "NON_NULL"
)

func Named(kind TypeKind, name string) *TypeRef {
	return &TypeRef{Kind: TypeRefKind(kind), Name: name}
}
func List(t *TypeRef) *TypeRef    { return &TypeRef{Kind: TypeRefKindList, OfType: t} }
func NonNull(t *TypeRef) *TypeRef { return &TypeRef{Kind: TypeRefKindNonNull, OfType: t} }

// IsWrapper reports whether the ref is a LIST or NON_NULL wrapper.
func (t *TypeRef) IsWrapper() bool {
	return t != nil && (t.Kind == TypeRefKindList || t.Kind == TypeRefKindNonNull)
}

func (t *TypeRef) IsNonNull() bool {
	return t != nil && t.Kind == TypeRefKindNonNull
}

// IsList reports whether the ref is a list, directly or under NON_NULL.
func (t *TypeRef) IsList() bool {
	if t == nil {
		return false
	}
	if t.Kind == TypeRefKindList {
		return true
	}
	if t.Kind == TypeRefKindNonNull && t.OfType != nil {
		return t.OfType.IsList()
	}
	return false
}

// Unwrap removes one wrapper layer.
func (t *TypeRef) Unwrap() *TypeRef {
	if t.IsWrapper() {
		return t.OfType
	}
	return t
}

// ListElem returns the element ref of a (possibly non-null) list, or nil.
func (t *TypeRef) ListElem() *TypeRef {
	if t.IsNonNull() {
		return t.OfType.ListElem()
	}
	if t != nil && t.Kind == TypeRefKindList {
		return t.OfType
	}
	return nil
}

// NamedType returns the innermost type name, or "" for a broken chain.
func (t *TypeRef) NamedType() string {
	current := t
	for current != nil {
		if current.Name != "" {
			return current.Name
		}
		current = current.OfType
	}
	return ""
}

// String renders the ref in SDL notation, e.g. [User!]!.
func (t *TypeRef) String() string {
	if t == nil {
		return "Unknown"
	}
	switch t.Kind {
	case TypeRefKindNonNull:
		return t.OfType.String() + "!"
	case TypeRefKindList:
		return "[" + t.OfType.String() + "]"
	default:
		if t.Name == "" {
			return "Unknown"
		}
		return t.Name
	}
}

type EnumValue struct {
	Name              string
	Description       string
	IsDeprecated      bool
	DeprecationReason string
}

// IsReflectionName reports whether name belongs to the introspection system.
func IsReflectionName(name string) bool {
	return strings.HasPrefix(name, "__")
}

// Visited is the set of type names on the current traversal branch.
// It is never mutated; With returns an extended copy.
type Visited map[string]struct{}

// Has reports whether name is on the branch.
func (v Visited) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// With returns a copy of v that also contains names.
func (v Visited) With(names ...string) Visited {
	out := make(Visited, len(v)+len(names))
	for k := range v {
		out[k] = struct{}{}
	}
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}
