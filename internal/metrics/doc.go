// Package metrics records build and preview-server metrics.
//
// Components take a Recorder. NoopRecorder is the default and does nothing;
// PrometheusRecorder registers collectors on a registry that the preview
// server exposes on /metrics.
package metrics
