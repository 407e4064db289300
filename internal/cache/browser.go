package cache

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	textlang "golang.org/x/text/language"

	"github.com/topolanekmartin/apollo-cache-manager/internal/value"
)

const unknownTypename = "Unknown"

// TypeGroup is the set of entries sharing one typename.
type TypeGroup struct {
	Typename string
	Entities []Entity
}

// RootEntries returns ROOT_QUERY and ROOT_MUTATION, in that order, when
// present. Their typename and label are the key itself.
func RootEntries(g *Graph) []Entity {
	var out []Entity
	for _, id := range []string{RootQuery, RootMutation} {
		record, ok := g.Record(id)
		if !ok {
			continue
		}
		out = append(out, Entity{ID: id, Typename: id, Record: record, Label: id})
	}
	return out
}

// GroupByTypename groups every non-reserved record entry by typename.
// Groups are sorted by typename and entries by id. Entries without any
// typename go to "Unknown".
func GroupByTypename(g *Graph) []TypeGroup {
	byName := map[string][]Entity{}
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
			typename = unknownTypename
		}
		byName[typename] = append(byName[typename], Entity{
			ID:       id,
			Typename: typename,
			Record:   record,
			Label:    LabelEntity(id, record),
		})
		return true
	})

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	c := collate.New(textlang.Und)
	sort.Slice(names, func(i, j int) bool { return collatedLess(c, names[i], names[j]) })

	groups := make([]TypeGroup, 0, len(names))
	for _, name := range names {
		entities := byName[name]
		sortEntities(entities, func(e Entity) string { return e.ID })
		groups = append(groups, TypeGroup{Typename: name, Entities: entities})
	}
	return groups
}

// FilterEntities keeps the entities whose id, typename or JSON text
// contains query, ignoring case. A blank query keeps everything.
func FilterEntities(entities []Entity, query string) []Entity {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if query == "" || entityMatches(e, query) {
			out = append(out, e)
		}
	}
	return out
}

func entityMatches(e Entity, query string) bool {
	if strings.Contains(strings.ToLower(e.ID), query) || strings.Contains(strings.ToLower(e.Typename), query) {
		return true
	}
	text, err := value.Marshal(e.Record)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(text)), query)
}
