// Package otel provides OpenTelemetry integration for idreg registry metrics.
//
// # Overview
//
// This package implements the idreg.MetricsCollector interface using
// OpenTelemetry, letting a Registry's register/lookup/dec_ref latencies flow
// into any OTEL-compatible backend (Prometheus, Jaeger, DataDog, Grafana).
//
// It is a separate module so the idreg core stays free of OTEL dependencies;
// applications that don't configure a MetricsCollector pay nothing for it
// (idreg.NoOpMetricsCollector is the default).
//
// # Quick start
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
//	defer provider.Shutdown(context.Background())
//
//	collector, err := idregotel.NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reg := idreg.NewRegistry(idreg.Config{
//	    MetricsCollector: collector,
//	})
//
// # Metrics exposed
//
//   - idreg_register_latency_ns
//   - idreg_lookup_latency_ns
//   - idreg_dec_ref_latency_ns
//
// Each is an OTEL histogram; the SDK aggregates percentiles (p50/p95/p99) at
// export time.
//
// # Configuration
//
// A custom meter name distinguishes metrics from multiple Registry
// instances in the same process:
//
//	collector, err := idregotel.NewOTelMetricsCollector(
//	    provider,
//	    idregotel.WithMeterName("myapp_handle_registry"),
//	)
//
// # Thread safety
//
// All recording methods are safe for concurrent use; the underlying OTEL
// instruments are themselves lock-free.
package otel
