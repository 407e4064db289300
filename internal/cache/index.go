package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/topolanekmartin/apollo-cache-manager/internal/schema"
)

type indexKey struct {
	fingerprint uint64
	typeName    string
}

// Index memoizes ListEntitiesOfType per snapshot fingerprint and type name
// for one schema. It is safe for concurrent use.
type Index struct {
	schema *schema.Schema
	lru    *lru.Cache[indexKey, []Entity]
}

// NewIndex creates an index holding at most size listings.
func NewIndex(s *schema.Schema, size int) (*Index, error) {
	cache, err := lru.New[indexKey, []Entity](size)
	if err != nil {
		return nil, err
	}
	return &Index{schema: s, lru: cache}, nil
}

// Entities returns the listing for typeName in g. The returned slice is
// the caller's to modify.
func (ix *Index) Entities(g *Graph, typeName string) []Entity {
	if g == nil {
		return nil
	}
	key := indexKey{fingerprint: g.Fingerprint(), typeName: typeName}
	entities, ok := ix.lru.Get(key)
	if !ok {
		entities = ListEntitiesOfType(g, typeName, ix.schema)
		ix.lru.Add(key, entities)
	}
	return append([]Entity(nil), entities...)
}

func (ix *Index) Len() int { return ix.lru.Len() }

// Purge drops every memoized listing.
func (ix *Index) Purge() { ix.lru.Purge() }
