// Package workbench ties the loaded schema and cache snapshot to the
// editing operations: synthesizing form data, composing fragment writes
// and browsing cache entities. Every operation gets an operation id and
// is announced on the event bus.
package workbench

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/topolanekmartin/apollo-cache-manager/internal/cache"
	"github.com/topolanekmartin/apollo-cache-manager/internal/eventbus"
	"github.com/topolanekmartin/apollo-cache-manager/internal/events"
	"github.com/topolanekmartin/apollo-cache-manager/internal/fragment"
	"github.com/topolanekmartin/apollo-cache-manager/internal/introspection"
	"github.com/topolanekmartin/apollo-cache-manager/internal/logging"
	"github.com/topolanekmartin/apollo-cache-manager/internal/opid"
	"github.com/topolanekmartin/apollo-cache-manager/internal/schema"
	"github.com/topolanekmartin/apollo-cache-manager/internal/synth"
	"github.com/topolanekmartin/apollo-cache-manager/internal/value"
)

var (
	ErrNoSchema     = errors.New("workbench: no schema loaded")
	ErrNoCache      = errors.New("workbench: no cache snapshot loaded")
	ErrUnknownType  = errors.New("workbench: unknown type")
	ErrUnknownField = errors.New("workbench: unknown field")
	ErrNotList      = errors.New("workbench: field is not a list")
)

// Session is safe for concurrent use. Loads swap the schema or snapshot
// wholesale; operations work on whatever was current when they started.
type Session struct {
	opts *Options
	log  *zap.Logger

	mu     sync.RWMutex
	schema *schema.Schema
	index  *cache.Index
	graph  *cache.Graph
}

func New(opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	def := defaultOptions()
	if o.IndexSize <= 0 {
		o.IndexSize = def.IndexSize
	}
	if o.Clock == nil {
		o.Clock = def.Clock
	}
	return &Session{opts: o, log: logging.OrNop(o.Logger)}
}

// state is a consistent view of the session taken under the read lock.
type state struct {
	schema *schema.Schema
	index  *cache.Index
	graph  *cache.Graph
}

func (s *Session) current() state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return state{schema: s.schema, index: s.index, graph: s.graph}
}

func (s *Session) run(ctx context.Context, op, typeName string, fn func(ctx context.Context, log *zap.Logger) error) error {
	ctx, id := opid.NewContext(ctx)
	log := s.log.With(zap.String("op", op), zap.String("op_id", id))
	if typeName != "" {
		log = log.With(zap.String("type", typeName))
	}
	eventbus.Publish(ctx, s.opts.Bus, events.OperationStart{Operation: op, TypeName: typeName})

	start := time.Now()
	err := fn(ctx, log)
	elapsed := time.Since(start)

	eventbus.Publish(ctx, s.opts.Bus, events.OperationFinish{Operation: op, TypeName: typeName, Err: err, Duration: elapsed})
	if err != nil {
		log.Debug("operation failed", zap.Error(err), zap.Duration("elapsed", elapsed))
	} else {
		log.Debug("operation done", zap.Duration("elapsed", elapsed))
	}
	return err
}

// LoadIntrospection replaces the schema with one parsed from an
// introspection result. On error the current schema is kept.
func (s *Session) LoadIntrospection(ctx context.Context, data []byte) error {
	return s.run(ctx, "load_introspection", "", func(ctx context.Context, log *zap.Logger) error {
		sch, err := introspection.Parse(data)
		if err != nil {
			return err
		}
		return s.setSchema(ctx, log, "introspection", sch)
	})
}

// LoadSDL replaces the schema with one built from SDL source. name is
// used in error positions.
func (s *Session) LoadSDL(ctx context.Context, name, sdl string) error {
	return s.run(ctx, "load_sdl", "", func(ctx context.Context, log *zap.Logger) error {
		sch, err := introspection.FromSDL(name, sdl)
		if err != nil {
			return err
		}
		return s.setSchema(ctx, log, "sdl", sch)
	})
}

func (s *Session) setSchema(ctx context.Context, log *zap.Logger, source string, sch *schema.Schema) error {
	index, err := cache.NewIndex(sch, s.opts.IndexSize)
	if err != nil {
		return fmt.Errorf("workbench: entity index: %w", err)
	}
	s.mu.Lock()
	s.schema, s.index = sch, index
	s.mu.Unlock()

	log.Info("schema loaded", zap.String("source", source), zap.Int("types", len(sch.Types)))
	eventbus.Publish(ctx, s.opts.Bus, events.SchemaLoaded{Source: source, Types: len(sch.Types)})
	return nil
}

// ClearSchema drops the current schema. The cache snapshot is kept.
func (s *Session) ClearSchema(ctx context.Context) {
	_ = s.run(ctx, "clear_schema", "", func(ctx context.Context, log *zap.Logger) error {
		s.mu.Lock()
		s.schema, s.index = nil, nil
		s.mu.Unlock()

		log.Info("schema cleared")
		eventbus.Publish(ctx, s.opts.Bus, events.SchemaCleared{})
		return nil
	})
}

// Schema returns the current schema or nil.
func (s *Session) Schema() *schema.Schema { return s.current().schema }

// LoadCache replaces the cache snapshot with a JSON dump.
func (s *Session) LoadCache(ctx context.Context, data []byte) error {
	return s.run(ctx, "load_cache", "", func(ctx context.Context, log *zap.Logger) error {
		g, err := cache.DecodeGraph(data)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.graph = g
		s.mu.Unlock()

		log.Info("cache loaded", zap.Int("entries", g.Len()), zap.Uint64("fingerprint", g.Fingerprint()))
		eventbus.Publish(ctx, s.opts.Bus, events.CacheLoaded{Entries: g.Len(), Fingerprint: g.Fingerprint()})
		return nil
	})
}

// Graph returns the current cache snapshot or nil.
func (s *Session) Graph() *cache.Graph { return s.current().graph }

func (s *Session) synthesizer(sch *schema.Schema) *synth.Synthesizer {
	return synth.New(sch,
		synth.WithMaxDepth(s.opts.SynthMaxDepth),
		synth.WithItemMaxDepth(s.opts.SynthItemMaxDepth),
		synth.WithClock(s.opts.Clock))
}

func (s *Session) builder(sch *schema.Schema) *fragment.Builder {
	return fragment.NewBuilder(sch,
		fragment.WithMaxDepth(s.opts.DocumentMaxDepth),
		fragment.WithNameSuffix(s.opts.NameSuffix))
}

func lookupType(sch *schema.Schema, typeName string) (*schema.Type, error) {
	if sch == nil {
		return nil, ErrNoSchema
	}
	t := sch.Type(typeName)
	if t == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
	return t, nil
}

// NewForm returns the initial editable record for typeName: one default
// per field, without __typename. Types without fields give an empty
// record.
func (s *Session) NewForm(ctx context.Context, typeName string) (*value.Object, error) {
	var form *value.Object
	err := s.run(ctx, "new_form", typeName, func(ctx context.Context, log *zap.Logger) error {
		sch := s.current().schema
		t, err := lookupType(sch, typeName)
		if err != nil {
			return err
		}
		if !t.HasFields() {
			form = value.NewObject()
			return nil
		}
		form = s.synthesizer(sch).FormData(t.Fields)
		return nil
	})
	return form, err
}

// Mock returns the default value of typeName as a standalone value.
func (s *Session) Mock(ctx context.Context, typeName string) (any, error) {
	var mock any
	err := s.run(ctx, "mock", typeName, func(ctx context.Context, log *zap.Logger) error {
		sch := s.current().schema
		t, err := lookupType(sch, typeName)
		if err != nil {
			return err
		}
		z := s.synthesizer(sch)
		mock = z.ForType(t, nil, 0, z.MaxDepth())
		return nil
	})
	return mock, err
}

// AppendItem returns a copy of list, the current value of the list field
// fieldName on typeName, with one default element appended. The element
// is synthesized from the form's root with the item depth limit.
func (s *Session) AppendItem(ctx context.Context, typeName, fieldName string, list []any) ([]any, error) {
	var out []any
	err := s.run(ctx, "append_item", typeName, func(ctx context.Context, log *zap.Logger) error {
		sch := s.current().schema
		t, err := lookupType(sch, typeName)
		if err != nil {
			return err
		}
		f := t.Field(fieldName)
		if f == nil {
			return fmt.Errorf("%w: %s.%s", ErrUnknownField, typeName, fieldName)
		}
		if !f.Type.IsList() {
			return fmt.Errorf("%w: %s.%s is %s", ErrNotList, typeName, fieldName, f.Type)
		}
		out = s.synthesizer(sch).AppendItem(list, f.Type, schema.Visited{typeName: {}}, 0)
		return nil
	})
	return out, err
}

// Document builds the fragment selecting the members of tree on typeName.
func (s *Session) Document(ctx context.Context, typeName string, tree *value.Object) (*fragment.Document, error) {
	var doc *fragment.Document
	err := s.run(ctx, "document", typeName, func(ctx context.Context, log *zap.Logger) error {
		sch := s.current().schema
		if _, err := lookupType(sch, typeName); err != nil {
			return err
		}
		d, err := s.builder(sch).Build(typeName, tree)
		if err != nil {
			return err
		}
		doc = d
		return nil
	})
	return doc, err
}

// Compose builds the fragment write for an edited record of typeName
// stored under id. id is trimmed and must not be empty.
func (s *Session) Compose(ctx context.Context, typeName, id string, tree *value.Object) (*fragment.WritePayload, error) {
	var payload *fragment.WritePayload
	err := s.run(ctx, "compose", typeName, func(ctx context.Context, log *zap.Logger) error {
		sch := s.current().schema
		if _, err := lookupType(sch, typeName); err != nil {
			return err
		}
		p, err := fragment.NewWritePayload(strings.TrimSpace(id), typeName, tree, s.builder(sch))
		if err != nil {
			return err
		}
		log.Info("fragment composed", zap.String("cache_id", p.ID), zap.String("fragment", p.FragmentName))
		payload = p
		return nil
	})
	return payload, err
}

// Entities lists the cache entries usable as a typeName link target,
// narrowed by query.
func (s *Session) Entities(ctx context.Context, typeName, query string) ([]cache.Entity, error) {
	var out []cache.Entity
	err := s.run(ctx, "entities", typeName, func(ctx context.Context, log *zap.Logger) error {
		st := s.current()
		if st.schema == nil {
			return ErrNoSchema
		}
		if st.graph == nil {
			return ErrNoCache
		}
		out = cache.FilterEntities(st.index.Entities(st.graph, typeName), query)
		return nil
	})
	return out, err
}

// Browse is the cache viewer listing: root entries first, then every
// other entry grouped by typename. Both are narrowed by query.
type Browse struct {
	Roots  []cache.Entity
	Groups []cache.TypeGroup
}

// Browse lists the whole snapshot. It needs no schema.
func (s *Session) Browse(ctx context.Context, query string) (*Browse, error) {
	var out *Browse
	err := s.run(ctx, "browse", "", func(ctx context.Context, log *zap.Logger) error {
		g := s.current().graph
		if g == nil {
			return ErrNoCache
		}
		out = &Browse{Roots: cache.FilterEntities(cache.RootEntries(g), query)}
		for _, group := range cache.GroupByTypename(g) {
			entities := cache.FilterEntities(group.Entities, query)
			if len(entities) == 0 {
				continue
			}
			out.Groups = append(out.Groups, cache.TypeGroup{Typename: group.Typename, Entities: entities})
		}
		return nil
	})
	return out, err
}

// Resolve returns the record stored under id. With follow set, records
// that are themselves references are chased until a plain record.
func (s *Session) Resolve(ctx context.Context, id string, follow bool) (*value.Object, error) {
	var record *value.Object
	err := s.run(ctx, "resolve", "", func(ctx context.Context, log *zap.Logger) error {
		g := s.current().graph
		if g == nil {
			return ErrNoCache
		}
		ref := cache.Reference{ID: id}
		if follow {
			r, err := cache.Follow(g, ref, 0)
			if err != nil {
				return err
			}
			record = r
			return nil
		}
		r, ok := cache.ResolveReference(g, ref)
		if !ok {
			return fmt.Errorf("%w: %q", cache.ErrDanglingReference, id)
		}
		record = r
		return nil
	})
	return record, err
}
