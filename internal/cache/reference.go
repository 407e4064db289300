package cache

import (
	"errors"
	"fmt"

	"github.com/topolanekmartin/apollo-cache-manager/internal/value"
)

// RefKey is the single key of a reference record.
const RefKey = "__ref"

var (
	ErrDanglingReference = errors.New("cache: reference target not found")
	ErrReferenceCycle    = errors.New("cache: reference cycle")
	ErrHopLimit          = errors.New("cache: too many chained references")
)

// Reference links to another top-level entry.
type Reference struct {
	ID string
}

// AsReference recognizes {"__ref": "<id>"}. Records with any other member
// are inline objects, not references.
func AsReference(v any) (Reference, bool) {
	obj, ok := value.AsObject(v)
	if !ok || obj.Len() != 1 {
		return Reference{}, false
	}
	id, ok := obj.String(RefKey)
	if !ok {
		return Reference{}, false
	}
	return Reference{ID: id}, true
}

// Value returns the reference in its record form.
func (r Reference) Value() *value.Object {
	return value.NewObject().Set(RefKey, r.ID)
}

func (r Reference) String() string { return r.ID }

// ResolveReference looks up the entry ref points to. It never follows a
// further reference stored at that entry.
func ResolveReference(g *Graph, ref Reference) (*value.Object, bool) {
	if g == nil {
		return nil, false
	}
	return g.Record(ref.ID)
}

// Follow resolves ref and keeps resolving while the target entry is itself
// a reference. maxHops bounds the number of lookups; zero or less means the
// chain is bounded only by the cycle check.
func Follow(g *Graph, ref Reference, maxHops int) (*value.Object, error) {
	seen := map[string]struct{}{}
	current := ref
	for hops := 1; ; hops++ {
		if _, ok := seen[current.ID]; ok {
			return nil, fmt.Errorf("%w at %q", ErrReferenceCycle, current.ID)
		}
		seen[current.ID] = struct{}{}
		if maxHops > 0 && hops > maxHops {
			return nil, fmt.Errorf("%w: %d", ErrHopLimit, maxHops)
		}
		record, ok := ResolveReference(g, current)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrDanglingReference, current.ID)
		}
		next, ok := AsReference(record)
		if !ok {
			return record, nil
		}
		current = next
	}
}
