package fragment

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topolanekmartin/apollo-cache-manager/internal/introspection"
	"github.com/topolanekmartin/apollo-cache-manager/internal/schema"
	"github.com/topolanekmartin/apollo-cache-manager/internal/synth"
	"github.com/topolanekmartin/apollo-cache-manager/internal/value"
)

const testSDL = `
interface Node { id: ID! }

type User implements Node {
  id: ID!
  name: String!
  friend: User
  profile: Profile
  pets: [Pet!]
  favorite: Pet
  node: Node
}

type Profile { bio: String, avatar: Image }
type Image { url: String }
type Cat { name: String, lives: Int }
type Dog { name: String, good: Boolean }
union Pet = Cat | Dog

input UserInput { name: String }

type Query { me: User }
`

func loadSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := introspection.FromSDL("test.graphql", testSDL)
	require.NoError(t, err)
	return s
}

func tree(t *testing.T, src string) *value.Object {
	t.Helper()
	obj, err := value.DecodeObject([]byte(src))
	require.NoError(t, err)
	return obj
}

func assertText(t *testing.T, want, got string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFromSynthesizedUser(t *testing.T) {
	s := schema.NewSchema().AddBuiltinScalars()
	s.AddType(schema.NewType("User", schema.TypeKindObject, "").
		AddField(schema.NewField("id", "", schema.NonNull(schema.Named(schema.TypeKindScalar, "ID")))).
		AddField(schema.NewField("name", "", schema.NonNull(schema.Named(schema.TypeKindScalar, "String")))).
		AddField(schema.NewField("friend", "", schema.Named(schema.TypeKindObject, "User"))).
		Finalize())

	data, ok := value.AsObject(synth.Synthesize(schema.Named(schema.TypeKindObject, "User"), s, nil, 0, 1))
	require.True(t, ok)

	assertText(t, "fragment UserMock on User {\n  id\n  name\n  friend\n}", BuildSelectionDocument("User", data, s))
}

func TestBuildNestedSelections(t *testing.T) {
	s := loadSchema(t)
	got := BuildSelectionDocument("User", tree(t, `{
		"__typename": "User",
		"id": "1",
		"profile": {"__typename": "Profile", "avatar": {"url": "a.png"}, "bio": "hi"},
		"friend": {"id": "2", "friend": {"id": "3"}}
	}`), s)

	assertText(t, `fragment UserMock on User {
  id
  profile {
    avatar {
      url
    }
    bio
  }
  friend {
    id
    friend
  }
}`, got)
}

func TestBuildUnionListUsesFirstElement(t *testing.T) {
	s := loadSchema(t)
	got := BuildSelectionDocument("User", tree(t, `{
		"pets": [
			{"__typename": "Cat", "name": "Tom"},
			{"__typename": "Dog", "good": true}
		]
	}`), s)

	assertText(t, `fragment UserMock on User {
  pets {
    ... on Cat {
      name
    }
  }
}`, got)
	assert.NotContains(t, got, "Dog")
	assert.NotContains(t, got, "good")
}

func TestBuildPolymorphicFallsBackToBareField(t *testing.T) {
	s := loadSchema(t)
	cases := map[string]string{
		"no discriminator":      `{"favorite": {"name": "Tom"}}`,
		"unknown discriminator": `{"favorite": {"__typename": "Bird"}}`,
		"empty discriminator":   `{"favorite": {"__typename": ""}}`,
		"null value":            `{"favorite": null}`,
		"empty list":            `{"pets": []}`,
		"scalar list element":   `{"pets": ["Tom"]}`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			data := tree(t, src)
			key := data.Keys()[0]
			assertText(t, "fragment UserMock on User {\n  "+key+"\n}", BuildSelectionDocument("User", data, s))
		})
	}
}

func TestBuildInterfaceField(t *testing.T) {
	s := loadSchema(t)
	got := BuildSelectionDocument("User", tree(t, `{
		"node": {"__typename": "User", "id": "9", "friend": {"id": "10"}}
	}`), s)

	// The concrete type joins the branch, so friend stays bare.
	assertText(t, `fragment UserMock on User {
  node {
    ... on User {
      id
      friend
    }
  }
}`, got)
}

func TestBuildRootWithoutSelections(t *testing.T) {
	s := loadSchema(t)
	s.AddType(schema.NewType("Empty", schema.TypeKindObject, ""))
	data := tree(t, `{"id": "1"}`)

	for _, typeName := range []string{"Missing", "Pet", "String", "UserInput", "Empty"} {
		assertText(t, "fragment "+typeName+"Mock on "+typeName+" {\n  __typename\n}",
			BuildSelectionDocument(typeName, data, s))
	}

	// An interface root is accepted.
	assertText(t, "fragment NodeMock on Node {\n  id\n}", BuildSelectionDocument("Node", data, s))

	// Nothing to select besides the discriminator.
	assertText(t, "fragment UserMock on User {\n  __typename\n}",
		BuildSelectionDocument("User", tree(t, `{"__typename": "User"}`), s))
	assertText(t, "fragment UserMock on User {\n  __typename\n}", BuildSelectionDocument("User", nil, s))
	assertText(t, `fragment UserMock on User {
  profile {
    __typename
  }
}`, BuildSelectionDocument("User", tree(t, `{"profile": {}}`), s))
}

func TestBuildUndeclaredAndLeafFields(t *testing.T) {
	s := loadSchema(t)
	got := BuildSelectionDocument("User", tree(t, `{"name": "Ann", "extra": {"a": 1}, "id": "1"}`), s)
	assertText(t, "fragment UserMock on User {\n  name\n  extra\n  id\n}", got)
}

func TestBuildDepthLimit(t *testing.T) {
	s := loadSchema(t)
	data := tree(t, `{"profile": {"avatar": {"url": "x"}}}`)

	got := NewBuilder(s, WithMaxDepth(1)).Text("User", data)
	assertText(t, "fragment UserMock on User {\n  profile {\n    avatar\n  }\n}", got)

	for _, maxDepth := range []int{0, -3} {
		got = NewBuilder(s, WithMaxDepth(maxDepth)).Text("User", data)
		assertText(t, "fragment UserMock on User {\n  profile\n}", got)
	}
}

func TestBuildIsStableOnSynthesizedSample(t *testing.T) {
	s := loadSchema(t)
	sample, ok := value.AsObject(synth.New(s, synth.WithMaxDepth(3)).Default(schema.Named(schema.TypeKindObject, "User")))
	require.True(t, ok)

	b := NewBuilder(s)
	first, err := b.Build("User", sample)
	require.NoError(t, err)

	assertText(t, `fragment UserMock on User {
  id
  name
  friend
  profile {
    bio
    avatar {
      url
    }
  }
  pets
  favorite {
    ... on Cat {
      name
      lives
    }
  }
  node
}`, first.Text)

	assert.Equal(t, []string{
		"id", "name", "friend",
		"profile", "profile.bio", "profile.avatar", "profile.avatar.url",
		"pets",
		"favorite", "favorite.on Cat.name", "favorite.on Cat.lives",
		"node",
	}, first.Fields())

	again, err := b.Build("User", WriteData(sample, "User"))
	require.NoError(t, err)
	assert.Equal(t, first.Text, again.Text)
	assert.Equal(t, first.Fields(), again.Fields())
}

func TestBuildDocumentParses(t *testing.T) {
	s := loadSchema(t)
	doc, err := NewBuilder(s, WithName("EditUser")).Build("User", tree(t, `{"id": "1", "pets": [{"__typename": "Dog", "good": true}]}`))
	require.NoError(t, err)
	assert.Equal(t, "EditUser", doc.Name)
	assert.Equal(t, "User", doc.TypeName)
	assert.Equal(t, "User", doc.Definition.TypeCondition)
	assert.Equal(t, []string{"id", "pets", "pets.on Dog.good"}, doc.Fields())

	b := NewBuilder(s, WithNameSuffix("Patch"))
	assert.Equal(t, "ProfilePatch", b.FragmentName("Profile"))

	_, err = NewBuilder(s).Build("Not A Type", nil)
	assert.Error(t, err)
}

func TestWriteData(t *testing.T) {
	src := tree(t, `{"id": "1", "tags": ["a"], "__typename": "Admin"}`)
	data := WriteData(src, "User")

	assert.Equal(t, []string{"__typename", "id", "tags"}, data.Keys())
	typename, _ := data.String("__typename")
	assert.Equal(t, "Admin", typename)

	tags, _ := data.Get("tags")
	tags.([]any)[0] = "changed"
	orig, _ := src.Get("tags")
	assert.Equal(t, []any{"a"}, orig)

	assert.Equal(t, []string{"__typename"}, WriteData(nil, "User").Keys())
}

func TestNewWritePayload(t *testing.T) {
	s := loadSchema(t)
	b := NewBuilder(s)

	_, err := NewWritePayload("", "User", tree(t, `{"id": "1"}`), b)
	assert.ErrorIs(t, err, ErrMissingID)

	payload, err := NewWritePayload("User:1", "User", tree(t, `{"id": "1"}`), b)
	require.NoError(t, err)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"cacheId": "User:1",
		"typeName": "User",
		"fragmentName": "UserMock",
		"fragmentString": "fragment UserMock on User {\n  id\n}",
		"data": {"__typename": "User", "id": "1"}
	}`, string(out))
}
