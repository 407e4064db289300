package schema

import (
	"sort"
	"strings"
)

// KindGroup is one section of the type explorer.
type KindGroup struct {
	Kind  TypeKind
	Label string
	Types []*Type
}

var explorerKinds = []struct {
	kind  TypeKind
	label string
}{
	{TypeKindObject, "Types"},
	{TypeKindInterface, "Interfaces"},
	{TypeKindUnion, "Unions"},
	{TypeKindEnum, "Enums"},
	{TypeKindScalar, "Scalars"},
	{TypeKindInputObject, "Inputs"},
}

// GroupByKind buckets the schema's types by kind for browsing. Root
// operation types are left out, each bucket is sorted by name and empty
// buckets are dropped. A non-blank query keeps only types whose name
// contains it, case-insensitively.
func GroupByKind(s *Schema, query string) []KindGroup {
	if s == nil {
		return nil
	}
	query = strings.ToLower(strings.TrimSpace(query))

	byKind := make(map[TypeKind][]*Type)
	for _, t := range s.Types {
		if s.IsRootType(t.Name) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(t.Name), query) {
			continue
		}
		byKind[t.Kind] = append(byKind[t.Kind], t)
	}

	var groups []KindGroup
	for _, k := range explorerKinds {
		types := byKind[k.kind]
		if len(types) == 0 {
			continue
		}
		sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
		groups = append(groups, KindGroup{Kind: k.kind, Label: k.label, Types: types})
	}
	return groups
}
