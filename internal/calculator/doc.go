// Package calculator holds the in-page calculator logic shared by the
// WebAssembly widget and the preview server's /api/calculate endpoint.
//
// It deliberately imports nothing beyond the standard library so the widget
// binary stays small.
package calculator
