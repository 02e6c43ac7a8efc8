// Package otel provides OpenTelemetry integration for idreg registry metrics.
//
// This package implements the idreg.MetricsCollector interface using
// OpenTelemetry, enabling percentile calculation (p50, p95, p99) over
// register/lookup/dec_ref latencies and multi-backend export (Prometheus,
// Jaeger, DataDog, Grafana).
//
// # Usage
//
//	import (
//	    "github.com/agilira/idreg"
//	    idregotel "github.com/agilira/idreg/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, _ := idregotel.NewOTelMetricsCollector(provider)
//
//	reg := idreg.NewRegistry(idreg.Config{MetricsCollector: collector})
//
// # Metrics exposed
//
//   - idreg_register_latency_ns: histogram of Register() latencies
//   - idreg_lookup_latency_ns: histogram of Lookup() latencies
//   - idreg_dec_ref_latency_ns: histogram of DecRef() latencies
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"github.com/agilira/idreg"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements idreg.MetricsCollector using
// OpenTelemetry histograms.
//
// Thread-safety: safe for concurrent use; the underlying OTEL instruments
// are themselves lock-free.
type OTelMetricsCollector struct {
	registerLatency metric.Int64Histogram
	lookupLatency   metric.Int64Histogram
	decRefLatency   metric.Int64Histogram
}

// Options configures an OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/idreg"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name, useful for distinguishing metrics
// from multiple Registry instances.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a new OpenTelemetry metrics collector.
// provider must not be nil.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{MeterName: "github.com/agilira/idreg"}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{}

	var err error
	collector.registerLatency, err = meter.Int64Histogram(
		"idreg_register_latency_ns",
		metric.WithDescription("Latency of Register operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.lookupLatency, err = meter.Int64Histogram(
		"idreg_lookup_latency_ns",
		metric.WithDescription("Latency of Lookup operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.decRefLatency, err = meter.Int64Histogram(
		"idreg_dec_ref_latency_ns",
		metric.WithDescription("Latency of DecRef operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordRegister records a Register() latency sample.
func (c *OTelMetricsCollector) RecordRegister(latencyNanos int64) {
	c.registerLatency.Record(context.Background(), latencyNanos)
}

// RecordLookup records a Lookup() latency sample.
func (c *OTelMetricsCollector) RecordLookup(latencyNanos int64) {
	c.lookupLatency.Record(context.Background(), latencyNanos)
}

// RecordDecRef records a DecRef() latency sample.
func (c *OTelMetricsCollector) RecordDecRef(latencyNanos int64) {
	c.decRefLatency.Record(context.Background(), latencyNanos)
}

// Compile-time interface check.
var _ idreg.MetricsCollector = (*OTelMetricsCollector)(nil)
