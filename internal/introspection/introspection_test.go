package introspection

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topolanekmartin/apollo-cache-manager/internal/language"
	schema "github.com/topolanekmartin/apollo-cache-manager/internal/schema"
)

func TestParseFixture(t *testing.T) {
	s, err := Parse(mustReadFile(t, "testdata/petstore.json"))
	require.NoError(t, err, "failed to parse introspection fixture")

	assert.Equal(t, "Query", s.QueryType)
	assert.Equal(t, "", s.MutationType)
	assert.Equal(t, "", s.SubscriptionType)
	// __Type, the DIRECTIVE kind, the undecodable entry and the nameless
	// entry are all dropped.
	assert.Equal(t, []string{"Cat", "Dog", "ID", "Int", "Node", "Pet", "PetFilter", "Query", "Size", "String"}, s.TypeNames())

	cat := s.Type("Cat")
	require.NotNil(t, cat)
	assert.Equal(t, schema.TypeKindObject, cat.Kind)
	assert.Equal(t, []string{"Node"}, cat.Interfaces)
	assert.True(t, cat.IsNode)
	require.Len(t, cat.Fields, 3)
	assert.Equal(t, "Display name", cat.Fields[1].Description)
	assert.True(t, cat.Fields[2].IsDeprecated)
	assert.Equal(t, "cats are immortal", cat.Fields[2].DeprecationReason)

	pets := s.Type("Query").Field("pets")
	require.NotNil(t, pets)
	assert.Equal(t, "[Pet]!", pets.Type.String())
	assert.Equal(t, schema.TypeRefKind(schema.TypeKindUnion), pets.Type.ListElem().Kind)
	require.Len(t, pets.Args, 1)
	assert.Equal(t, "10", *pets.Args[0].DefaultValue)

	assert.Equal(t, []string{"Cat", "Dog"}, s.PossibleTypes("Pet"))
	assert.Equal(t, []string{"Cat", "Dog"}, s.PossibleTypes("Node"))
	assert.Empty(t, s.Type("Pet").Fields)

	size := s.Type("Size")
	require.Len(t, size.EnumValues, 2)
	assert.Equal(t, "SMALL", size.EnumValues[0].Name)

	filter := s.Type("PetFilter")
	require.Len(t, filter.Fields, 1)
	assert.Equal(t, "size", filter.Fields[0].Name)
	assert.Equal(t, "SMALL", *filter.Fields[0].DefaultValue)
}

func TestParseBareSchemaObject(t *testing.T) {
	s, err := Parse([]byte(`{"__schema": {"queryType": {"name": "Q"}, "types": [
		{"kind": "OBJECT", "name": "Q", "fields": [{"name": "ok", "type": {"kind": "SCALAR", "name": "Boolean"}}]}
	]}}`))
	require.NoError(t, err)
	assert.Equal(t, "Q", s.QueryType)
	assert.Equal(t, "Boolean", s.Type("Q").Field("ok").Type.NamedType())
}

func TestParseMalformed(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"invalid json", `{"__schema":`},
		{"not an object", `[1,2,3]`},
		{"missing schema", `{"data": {"something": {}}}`},
		{"null schema", `{"__schema": null}`},
		{"schema not object", `{"__schema": "nope"}`},
		{"missing types", `{"__schema": {"queryType": {"name": "Query"}}}`},
		{"types not array", `{"__schema": {"types": {"kind": "OBJECT"}}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Parse([]byte(tc.input))
			require.Error(t, err)
			assert.Nil(t, s)
			var mse *MalformedSchemaError
			assert.True(t, errors.As(err, &mse), "expected MalformedSchemaError, got %T", err)
		})
	}
}

func TestParseResultRequiresTypes(t *testing.T) {
	_, err := ParseResult(&Result{Schema: &SchemaData{}})
	var mse *MalformedSchemaError
	require.True(t, errors.As(err, &mse))
	assert.Equal(t, "missing __schema.types", mse.Reason)

	_, err = ParseResult(nil)
	require.True(t, errors.As(err, &mse))
}

const petSDL = `
interface Node { id: ID! }

type Cat implements Node {
  id: ID!
  name: String
  lives: Int @deprecated(reason: "cats are immortal")
}

type Dog implements Node {
  id: ID!
  size: Size
  bark: String @deprecated
}

union Pet = Dog | Cat

enum Size { SMALL LARGE }

input PetFilter { size: Size = SMALL }

type Query {
  pets(first: Int = 10): [Pet]!
  node(id: ID!): Node
}
`

func TestFromSDL(t *testing.T) {
	s, err := FromSDL("pets.graphql", petSDL)
	require.NoError(t, err)

	assert.Equal(t, "Query", s.QueryType)
	assert.Equal(t, []string{"Dog", "Cat"}, s.PossibleTypes("Pet"))
	assert.ElementsMatch(t, []string{"Cat", "Dog"}, s.PossibleTypes("Node"))
	assert.Nil(t, s.Type("__Schema"))
	require.NotNil(t, s.Type("String"), "built-in scalars are part of the schema")

	query := s.Type("Query")
	for _, f := range query.Fields {
		assert.False(t, schema.IsReflectionName(f.Name), "unexpected field %s", f.Name)
	}
	pets := query.Field("pets")
	require.NotNil(t, pets)
	assert.Equal(t, "[Pet]!", pets.Type.String())
	assert.Equal(t, schema.TypeRefKind(schema.TypeKindUnion), pets.Type.ListElem().Kind)

	dog := s.Type("Dog")
	assert.True(t, dog.IsNode)
	assert.Equal(t, "No longer supported", dog.Field("bark").DeprecationReason)
	assert.Equal(t, "cats are immortal", s.Type("Cat").Field("lives").DeprecationReason)
	assert.Equal(t, "SMALL", *s.Type("PetFilter").Field("size").DefaultValue)
}

func TestFromSDLInvalid(t *testing.T) {
	_, err := FromSDL("bad.graphql", `type Query { me: Missing }`)
	var mse *MalformedSchemaError
	require.True(t, errors.As(err, &mse))
}

func TestFromSchemaRoundTrip(t *testing.T) {
	original, err := FromSDL("pets.graphql", petSDL)
	require.NoError(t, err)

	data, err := json.Marshal(FromSchema(original))
	require.NoError(t, err)

	reparsed, err := Parse(data)
	require.NoError(t, err)

	if diff := cmp.Diff(original, reparsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryParses(t *testing.T) {
	doc, err := language.ParseQuery(Query)
	require.NoError(t, err)
	require.Len(t, doc.Operations, 1)
	assert.Equal(t, "IntrospectionQuery", doc.Operations[0].Name)
	assert.Len(t, doc.Fragments, 3)
}

func mustReadFile(t *testing.T, path string) []byte {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read file: %s", path)
	return content
}
