package workbench

import (
	"time"

	"go.uber.org/zap"

	"github.com/topolanekmartin/apollo-cache-manager/internal/eventbus"
)

// Options configures a Session.
//
// Defaults:
// - SynthMaxDepth:     2 (new forms and mocks)
// - SynthItemMaxDepth: 3 (items appended to lists)
// - DocumentMaxDepth:  3
// - NameSuffix:        "Mock"
// - IndexSize:         128 entity listings
// - Logger:            no-op
// - Bus:               none; events are dropped
// - Clock:             time.Now
//
// A non-positive IndexSize, a nil Logger and a nil Clock fall back to
// their defaults.
type Options struct {
	SynthMaxDepth     int
	SynthItemMaxDepth int
	DocumentMaxDepth  int
	NameSuffix        string
	IndexSize         int

	Logger *zap.Logger
	Bus    *eventbus.Bus
	Clock  func() time.Time
}

// Option mutates Options
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		SynthMaxDepth:     2,
		SynthItemMaxDepth: 3,
		DocumentMaxDepth:  3,
		NameSuffix:        "Mock",
		IndexSize:         128,
		Logger:            zap.NewNop(),
		Clock:             time.Now,
	}
}

func WithSynthDepths(maxDepth, itemMaxDepth int) Option {
	return func(o *Options) { o.SynthMaxDepth, o.SynthItemMaxDepth = maxDepth, itemMaxDepth }
}
func WithDocumentMaxDepth(n int) Option       { return func(o *Options) { o.DocumentMaxDepth = n } }
func WithNameSuffix(suffix string) Option     { return func(o *Options) { o.NameSuffix = suffix } }
func WithIndexSize(n int) Option              { return func(o *Options) { o.IndexSize = n } }
func WithLogger(l *zap.Logger) Option         { return func(o *Options) { o.Logger = l } }
func WithBus(b *eventbus.Bus) Option          { return func(o *Options) { o.Bus = b } }
func WithClock(clock func() time.Time) Option { return func(o *Options) { o.Clock = clock } }
