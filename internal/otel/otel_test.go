package otel

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/topolanekmartin/apollo-cache-manager/internal/eventbus"
	"github.com/topolanekmartin/apollo-cache-manager/internal/events"
	"github.com/topolanekmartin/apollo-cache-manager/internal/opid"
)

func newRecorder(t *testing.T, bus *eventbus.Bus) (*tracetest.SpanRecorder, func()) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return rec, Attach(bus, tp.Tracer("test"))
}

func TestOperationSpans(t *testing.T) {
	bus := eventbus.New()
	rec, detach := newRecorder(t, bus)
	defer detach()

	ctx, _ := opid.NewContext(context.Background())
	eventbus.Publish(ctx, bus, events.OperationStart{Operation: "mock", TypeName: "User"})
	eventbus.Publish(ctx, bus, events.SchemaLoaded{Source: "sdl", Types: 4})
	eventbus.Publish(ctx, bus, events.OperationFinish{Operation: "mock", TypeName: "User"})

	failing, _ := opid.NewContext(context.Background())
	eventbus.Publish(failing, bus, events.OperationStart{Operation: "compose"})
	eventbus.Publish(failing, bus, events.OperationFinish{Operation: "compose", Err: errors.New("boom")})

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "workbench.mock", spans[0].Name())
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "schema.loaded", spans[0].Events()[0].Name)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, "workbench.compose", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestCacheFingerprintAttribute(t *testing.T) {
	bus := eventbus.New()
	rec, detach := newRecorder(t, bus)
	defer detach()

	const fp = uint64(1<<63 + 5)
	ctx, _ := opid.NewContext(context.Background())
	eventbus.Publish(ctx, bus, events.OperationStart{Operation: "load-cache"})
	eventbus.Publish(ctx, bus, events.CacheLoaded{Entries: 3, Fingerprint: fp})
	eventbus.Publish(ctx, bus, events.OperationFinish{Operation: "load-cache"})

	spans := rec.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events(), 1)
	ev := spans[0].Events()[0]
	assert.Equal(t, "cache.loaded", ev.Name)
	assert.Contains(t, ev.Attributes, attribute.String("cache.fingerprint", strconv.FormatUint(fp, 16)))
	assert.Contains(t, ev.Attributes, attribute.Int("cache.entries", 3))
}

func TestEventsWithoutOperationIDAreIgnored(t *testing.T) {
	bus := eventbus.New()
	rec, detach := newRecorder(t, bus)

	eventbus.Publish(context.Background(), bus, events.OperationStart{Operation: "mock"})
	eventbus.Publish(context.Background(), bus, events.OperationFinish{Operation: "mock"})
	assert.Empty(t, rec.Started())

	detach()
	ctx, _ := opid.NewContext(context.Background())
	eventbus.Publish(ctx, bus, events.OperationStart{Operation: "mock"})
	assert.Empty(t, rec.Started())
	assert.Equal(t, 0, eventbus.Len[events.OperationStart](bus))
}

func TestSetupWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), eventbus.New(), "", "svc")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
