package synth

import (
	"time"

	"github.com/topolanekmartin/apollo-cache-manager/internal/schema"
	"github.com/topolanekmartin/apollo-cache-manager/internal/value"
)

// Synthesizer binds a schema to the two depth limits used by editors:
// MaxDepth for initializing a whole form and ItemMaxDepth for values
// appended to a list afterwards.
//
// Defaults:
// - MaxDepth:     2
// - ItemMaxDepth: 3
// - Clock:        time.Now
type Synthesizer struct {
	schema       *schema.Schema
	maxDepth     int
	itemMaxDepth int
	clock        func() time.Time
}

type Option func(*Synthesizer)

func WithMaxDepth(n int) Option               { return func(z *Synthesizer) { z.maxDepth = n } }
func WithItemMaxDepth(n int) Option           { return func(z *Synthesizer) { z.itemMaxDepth = n } }
func WithClock(clock func() time.Time) Option { return func(z *Synthesizer) { z.clock = clock } }

func New(s *schema.Schema, opts ...Option) *Synthesizer {
	z := &Synthesizer{
		schema:       s,
		maxDepth:     2,
		itemMaxDepth: 3,
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(z)
	}
	return z
}

func (z *Synthesizer) MaxDepth() int     { return z.maxDepth }
func (z *Synthesizer) ItemMaxDepth() int { return z.itemMaxDepth }

func (z *Synthesizer) walker() walker {
	return walker{schema: z.schema, now: z.clock()}
}

// Default starts a fresh traversal for ref.
func (z *Synthesizer) Default(ref *schema.TypeRef) any {
	return z.walker().ref(ref, nil, 0, z.maxDepth)
}

// ForType synthesizes a named type directly.
func (z *Synthesizer) ForType(t *schema.Type, visited schema.Visited, depth, maxDepth int) any {
	if t == nil {
		return nil
	}
	return z.walker().typ(t, visited, depth, maxDepth)
}

// AppendItem returns a copy of list with one default element for the
// element type of listRef appended. The element is synthesized with
// ItemMaxDepth and the caller's depth. A listRef that is not a list
// leaves the copy unchanged.
func (z *Synthesizer) AppendItem(list []any, listRef *schema.TypeRef, visited schema.Visited, depth int) []any {
	out := make([]any, len(list), len(list)+1)
	copy(out, list)
	elem := listRef.ListElem()
	if elem == nil {
		return out
	}
	return append(out, z.walker().ref(elem, visited, depth, z.itemMaxDepth))
}

// FormData builds the initial editable record for a set of fields. Unlike
// an object default it has no __typename of its own.
func (z *Synthesizer) FormData(fields []*schema.Field) *value.Object {
	w := z.walker()
	data := value.NewObject()
	for _, f := range fields {
		if f.Name == typenameField {
			continue
		}
		data.Set(f.Name, w.ref(f.Type, nil, 0, z.maxDepth))
	}
	return data
}
