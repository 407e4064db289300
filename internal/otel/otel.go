package otel

import (
	"context"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/topolanekmartin/apollo-cache-manager/internal/eventbus"
	"github.com/topolanekmartin/apollo-cache-manager/internal/events"
	"github.com/topolanekmartin/apollo-cache-manager/internal/opid"
)

const tracerName = "apollo-cache-manager"

// Setup exports spans over OTLP/gRPC to endpoint and attaches the span
// subscriber to bus. If endpoint is empty, no telemetry is configured.
func Setup(ctx context.Context, bus *eventbus.Bus, endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	unsubscribe := Attach(bus, tp.Tracer(tracerName))
	return func(ctx context.Context) error {
		unsubscribe()
		return tp.Shutdown(ctx)
	}, nil
}

// Attach opens a span per workbench operation on tracer. Spans are keyed
// by the operation id in the event context; events without one are
// ignored. The returned func detaches the subscriber.
func Attach(bus *eventbus.Bus, tracer trace.Tracer) (detach func()) {
	s := &subscriber{tracer: tracer}
	unsubs := []func(){
		eventbus.Subscribe(bus, s.operationStart),
		eventbus.Subscribe(bus, s.operationFinish),
		eventbus.Subscribe(bus, s.schemaLoaded),
		eventbus.Subscribe(bus, s.cacheLoaded),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

type subscriber struct {
	tracer trace.Tracer
	spans  sync.Map // operation id -> trace.Span
}

func (s *subscriber) operationStart(ctx context.Context, e events.OperationStart) {
	id, ok := opid.FromContext(ctx)
	if !ok {
		return
	}
	_, span := s.tracer.Start(ctx, "workbench."+e.Operation)
	span.SetAttributes(attribute.String("workbench.operation.id", id))
	if e.TypeName != "" {
		span.SetAttributes(attribute.String("graphql.type", e.TypeName))
	}
	s.spans.Store(id, span)
}

func (s *subscriber) operationFinish(ctx context.Context, e events.OperationFinish) {
	id, _ := opid.FromContext(ctx)
	v, ok := s.spans.LoadAndDelete(id)
	if !ok {
		return
	}
	span := v.(trace.Span)
	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	}
	span.End()
}

func (s *subscriber) schemaLoaded(ctx context.Context, e events.SchemaLoaded) {
	s.annotate(ctx, "schema.loaded",
		attribute.String("schema.source", e.Source),
		attribute.Int("schema.types", e.Types))
}

func (s *subscriber) cacheLoaded(ctx context.Context, e events.CacheLoaded) {
	s.annotate(ctx, "cache.loaded",
		attribute.Int("cache.entries", e.Entries),
		attribute.String("cache.fingerprint", strconv.FormatUint(e.Fingerprint, 16)))
}

// annotate records an event on the span of the running operation.
func (s *subscriber) annotate(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	id, _ := opid.FromContext(ctx)
	v, ok := s.spans.Load(id)
	if !ok {
		return
	}
	v.(trace.Span).AddEvent(name, trace.WithAttributes(attrs...))
}
