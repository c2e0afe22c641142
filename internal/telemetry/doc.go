// Package telemetry wires OpenTelemetry for snapchef.
//
// Traces, logs and metrics are exported over OTLP/HTTP to a single endpoint.
// The endpoint may carry a base path (Grafana Cloud, Better Stack), in which
// case the per-signal paths are derived from it.
package telemetry
