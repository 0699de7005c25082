package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/gradgallery/server/observability"

// Tracer returns the tracer for this service
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan starts a new span with the given name
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// StartStoreSpan starts a span for a persistence operation
func StartStoreSpan(ctx context.Context, operation string, backend string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "store."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("store.operation", operation),
			attribute.String("store.backend", backend),
		),
	)
}

// RecordError records an error on the span and marks it as failed
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetSuccess marks the span as successful
func SetSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// AddEvent adds an event to the span in context
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// GalleryMetrics holds domain counters for the photo gallery
type GalleryMetrics struct {
	PhotoUploads   metric.Int64Counter
	UploadFailures metric.Int64Counter
	PhotoDeletes   metric.Int64Counter
	GalleryViews   metric.Int64Counter
	ResolveTotal   metric.Int64Counter
}

// NewGalleryMetrics creates the domain counters
func NewGalleryMetrics() (*GalleryMetrics, error) {
	meter := otel.Meter(instrumentationName)

	uploads, err := meter.Int64Counter(
		"gallery_photo_uploads_total",
		metric.WithDescription("Total photos uploaded through the admin pipeline"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"gallery_upload_failures_total",
		metric.WithDescription("Total failed photo uploads"),
	)
	if err != nil {
		return nil, err
	}

	deletes, err := meter.Int64Counter(
		"gallery_photo_deletes_total",
		metric.WithDescription("Total photos deleted"),
	)
	if err != nil {
		return nil, err
	}

	views, err := meter.Int64Counter(
		"gallery_views_total",
		metric.WithDescription("Total gallery page views"),
	)
	if err != nil {
		return nil, err
	}

	resolves, err := meter.Int64Counter(
		"gallery_resolves_total",
		metric.WithDescription("Total photo source resolutions by winning tier"),
	)
	if err != nil {
		return nil, err
	}

	return &GalleryMetrics{
		PhotoUploads:   uploads,
		UploadFailures: failures,
		PhotoDeletes:   deletes,
		GalleryViews:   views,
		ResolveTotal:   resolves,
	}, nil
}

// RecordUpload increments the upload counter
func (m *GalleryMetrics) RecordUpload(ctx context.Context, category string) {
	m.PhotoUploads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category),
	))
}

// RecordUploadFailure increments the failure counter
func (m *GalleryMetrics) RecordUploadFailure(ctx context.Context) {
	m.UploadFailures.Add(ctx, 1)
}

// RecordDelete increments the delete counter
func (m *GalleryMetrics) RecordDelete(ctx context.Context) {
	m.PhotoDeletes.Add(ctx, 1)
}

// RecordView increments the gallery view counter
func (m *GalleryMetrics) RecordView(ctx context.Context) {
	m.GalleryViews.Add(ctx, 1)
}

// RecordResolve increments the resolve counter tagged with the winning source
func (m *GalleryMetrics) RecordResolve(ctx context.Context, source string) {
	m.ResolveTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
	))
}
