package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	s := NewSchema()
	s.QueryType = "Query"
	s.AddBuiltinScalars()
	s.AddType(NewType("Query", TypeKindObject, "").
		AddField(NewField("me", "", Named(TypeKindObject, "User"))))
	s.AddType(NewType("Node", TypeKindInterface, "").
		AddField(NewField("id", "", NonNull(Named(TypeKindScalar, "ID")))).
		AddPossibleType("User"))
	s.AddType(NewType("User", TypeKindObject, "A person.").
		AddInterface("Node").
		AddField(NewField("id", "", NonNull(Named(TypeKindScalar, "ID")))).
		AddField(NewField("name", "", NonNull(Named(TypeKindScalar, "String")))).
		AddField(NewField("friends", "", List(NonNull(Named(TypeKindObject, "User")))).
			AddArgument(NewField("first", "", Named(TypeKindScalar, "Int")).SetDefault("10"))).
		AddField(NewField("nick", "", Named(TypeKindScalar, "String")).Deprecate("use name")).
		Finalize())
	s.AddType(NewType("Role", TypeKindEnum, "").
		AddEnumValue(NewEnumValue("ADMIN", "")).
		AddEnumValue(NewEnumValue("GUEST", "")))
	s.AddType(NewType("SearchResult", TypeKindUnion, "").
		AddPossibleType("User"))
	s.AddType(NewType("UserInput", TypeKindInputObject, "").
		AddField(NewField("name", "", NonNull(Named(TypeKindScalar, "String")))))
	s.AddType(NewType("UserConnection", TypeKindObject, "").
		AddField(NewField("edges", "", List(Named(TypeKindObject, "UserEdge")))).
		AddField(NewField("pageInfo", "", NonNull(Named(TypeKindObject, "PageInfo")))).
		Finalize())
	s.AddType(NewType("UserEdge", TypeKindObject, "").
		AddField(NewField("node", "", Named(TypeKindObject, "User"))).
		AddField(NewField("cursor", "", NonNull(Named(TypeKindScalar, "String")))).
		Finalize())
	return s
}

func TestTypeRefHelpers(t *testing.T) {
	ref := NonNull(List(NonNull(Named(TypeKindObject, "User"))))

	assert.True(t, ref.IsNonNull())
	assert.True(t, ref.IsList())
	assert.Equal(t, "User", ref.NamedType())
	assert.Equal(t, "[User!]!", ref.String())
	assert.Equal(t, "User!", ref.ListElem().String())
	assert.Equal(t, TypeRefKindList, ref.Unwrap().Kind)

	named := Named(TypeKindScalar, "String")
	assert.False(t, named.IsList())
	assert.Same(t, named, named.Unwrap())
	assert.Nil(t, named.ListElem())

	broken := &TypeRef{Kind: TypeRefKindNonNull}
	assert.Equal(t, "", broken.NamedType())
	assert.Equal(t, "Unknown!", broken.String())
}

func TestDerivedFlags(t *testing.T) {
	s := testSchema()

	assert.True(t, s.Type("User").IsNode)
	assert.False(t, s.Type("User").IsConnection)
	assert.True(t, s.Type("UserConnection").IsConnection)
	assert.True(t, s.Type("UserEdge").IsEdge)
	assert.False(t, s.Type("UserEdge").IsNode)
}

func TestAddTypeSkipsReflectionTypes(t *testing.T) {
	s := NewSchema()
	s.AddType(NewType("__Type", TypeKindObject, ""))
	s.AddType(NewType("Thing", TypeKindObject, ""))

	assert.Nil(t, s.Type("__Type"))
	assert.Equal(t, []string{"Thing"}, s.TypeNames())
}

func TestPossibleTypes(t *testing.T) {
	s := testSchema()

	assert.Equal(t, []string{"User"}, s.PossibleTypes("Node"))
	assert.Equal(t, []string{"User"}, s.PossibleTypes("SearchResult"))
	assert.Nil(t, s.PossibleTypes("User"))
	assert.Nil(t, s.PossibleTypes("Missing"))
}

func TestVisitedIsNotMutated(t *testing.T) {
	base := Visited{}.With("A")
	next := base.With("B")

	assert.True(t, next.Has("A"))
	assert.True(t, next.Has("B"))
	assert.False(t, base.Has("B"))

	var empty Visited
	assert.False(t, empty.Has("A"))
	assert.True(t, empty.With("A").Has("A"))
}

func TestRender(t *testing.T) {
	want := `interface Node {
  id: ID!
}

type Query {
  me: User
}

enum Role {
  ADMIN
  GUEST
}

union SearchResult = User

"""
A person.
"""
type User implements Node {
  id: ID!
  name: String!
  friends(first: Int = 10): [User!]
  nick: String @deprecated(reason: "use name")
}

type UserConnection {
  edges: [UserEdge]
  pageInfo: PageInfo!
}

type UserEdge {
  node: User
  cursor: String!
}

input UserInput {
  name: String!
}
`
	if diff := cmp.Diff(want, Render(testSchema())); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCustomRoots(t *testing.T) {
	s := NewSchema()
	s.QueryType = "RootQuery"
	s.AddType(NewType("RootQuery", TypeKindObject, "").
		AddField(NewField("ok", "", Named(TypeKindScalar, "Boolean"))))

	require.Equal(t, "schema {\n  query: RootQuery\n}\n\ntype RootQuery {\n  ok: Boolean\n}\n", Render(s))
}

func TestGroupByKind(t *testing.T) {
	s := testSchema()

	groups := GroupByKind(s, "")
	var labels []string
	for _, g := range groups {
		labels = append(labels, g.Label)
	}
	assert.Equal(t, []string{"Types", "Interfaces", "Unions", "Enums", "Scalars", "Inputs"}, labels)

	var objects []string
	for _, typ := range groups[0].Types {
		objects = append(objects, typ.Name)
	}
	// Query is a root type and stays out of the explorer.
	assert.Equal(t, []string{"User", "UserConnection", "UserEdge"}, objects)

	filtered := GroupByKind(s, "  USERin ")
	require.Len(t, filtered, 1)
	assert.Equal(t, TypeKindInputObject, filtered[0].Kind)
	assert.Equal(t, "UserInput", filtered[0].Types[0].Name)
}
