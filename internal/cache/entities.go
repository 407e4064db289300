package cache

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	textlang "golang.org/x/text/language"

	"github.com/topolanekmartin/apollo-cache-manager/internal/schema"
	"github.com/topolanekmartin/apollo-cache-manager/internal/value"
)

const typenameKey = "__typename"

// labelFields are tried in order when labeling an entity.
var labelFields = []string{"name", "title", "label", "displayName", "username", "email", "slug", "code"}

// Entity is a top-level cache entry offered as a link target.
type Entity struct {
	ID       string
	Typename string
	Record   *value.Object
	Label    string
}

// Typename returns the entry's own __typename, or the part of id before
// the first ':' when the record has no string __typename.
func Typename(id string, record *value.Object) string {
	if v, ok := record.Get(typenameKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	prefix, _, _ := strings.Cut(id, ":")
	return prefix
}

// ListEntitiesOfType returns the entries whose typename is typeName or one
// of its possible types, sorted by label. Every call builds a new slice.
func ListEntitiesOfType(g *Graph, typeName string, s *schema.Schema) []Entity {
	if g == nil {
		return nil
	}
	accepted := map[string]struct{}{typeName: {}}
	for _, name := range s.PossibleTypes(typeName) {
		accepted[name] = struct{}{}
	}

	var out []Entity
	g.Range(func(id string, entry any) bool {
		if IsReservedKey(id) {
			return true
		}
		record, ok := value.AsObject(entry)
		if !ok {
			return true
		}
		typename := Typename(id, record)
		if typename == "" {
			return true
		}
		if _, ok := accepted[typename]; !ok {
			return true
		}
		out = append(out, Entity{
			ID:       id,
			Typename: typename,
			Record:   record,
			Label:    LabelEntity(id, record),
		})
		return true
	})
	sortEntities(out, func(e Entity) string { return e.Label })
	return out
}

// LabelEntity renders a human-readable label for the entry under id.
//
// The first present scalar among name, title, label, displayName,
// username, email, slug and code wins: "<value> (<id>)". Otherwise up to
// two scalar members, in record order and ignoring __typename, id and
// __ref, are joined: "<a>, <b> (<id>)". Failing both, the label is id.
func LabelEntity(id string, record *value.Object) string {
	for _, field := range labelFields {
		v, _ := record.Get(field)
		if value.IsScalar(v) {
			return value.Text(v) + " (" + id + ")"
		}
	}

	var parts []string
	record.Range(func(k string, v any) bool {
		if k == typenameKey || k == "id" || k == RefKey {
			return true
		}
		if value.IsScalar(v) {
			parts = append(parts, value.Text(v))
		}
		return len(parts) < 2
	})
	if len(parts) > 0 {
		return strings.Join(parts, ", ") + " (" + id + ")"
	}
	return id
}

// sortEntities orders entities by key using locale collation, breaking
// ties with byte order. The sort is stable.
func sortEntities(entities []Entity, key func(Entity) string) {
	c := collate.New(textlang.Und)
	sort.SliceStable(entities, func(i, j int) bool {
		return collatedLess(c, key(entities[i]), key(entities[j]))
	})
}

func collatedLess(c *collate.Collator, a, b string) bool {
	if r := c.CompareString(a, b); r != 0 {
		return r < 0
	}
	return a < b
}
