// Package cache reads normalized client cache snapshots: a flat map from
// cache id to entity record, where links between entities are
// {"__ref": id} records. Nothing in this package mutates a snapshot.
package cache

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/topolanekmartin/apollo-cache-manager/internal/value"
)

// Reserved top-level keys that never hold entities.
const (
	RootQuery    = "ROOT_QUERY"
	RootMutation = "ROOT_MUTATION"
	MetaKey      = "__META"
)

// IsReservedKey reports whether id is one of the root or metadata keys.
func IsReservedKey(id string) bool {
	return id == RootQuery || id == RootMutation || id == MetaKey
}

// Graph is a read-only cache snapshot.
type Graph struct {
	entries     *value.Object
	fingerprint uint64
}

// NewGraph wraps entries. The graph takes ownership: entries must not be
// changed afterwards.
func NewGraph(entries *value.Object) (*Graph, error) {
	if entries == nil {
		entries = value.NewObject()
	}
	canonical, err := value.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("cache: encode snapshot: %w", err)
	}
	digest := xxhash.New()
	_, _ = digest.Write(canonical)
	return &Graph{entries: entries, fingerprint: digest.Sum64()}, nil
}

// DecodeGraph parses a JSON cache dump.
func DecodeGraph(data []byte) (*Graph, error) {
	entries, err := value.DecodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("cache: decode snapshot: %w", err)
	}
	return NewGraph(entries)
}

// Fingerprint identifies the snapshot content. Equal snapshots, including
// key order, have equal fingerprints.
func (g *Graph) Fingerprint() uint64 { return g.fingerprint }

func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return g.entries.Len()
}

// IDs returns every top-level key in snapshot order.
func (g *Graph) IDs() []string {
	if g == nil {
		return nil
	}
	return g.entries.Keys()
}

// Record returns the entry stored under id when it is a record.
func (g *Graph) Record(id string) (*value.Object, bool) {
	if g == nil {
		return nil, false
	}
	v, ok := g.entries.Get(id)
	if !ok {
		return nil, false
	}
	return value.AsObject(v)
}

// Range calls fn for each top-level entry in order.
func (g *Graph) Range(fn func(id string, entry any) bool) {
	if g == nil {
		return
	}
	g.entries.Range(fn)
}

func (g *Graph) MarshalJSON() ([]byte, error) {
	return value.Marshal(g.entries)
}
