// Package handlers contains HTTP handlers for the preview server API.
//
// This package provides handlers for:
//   - the health endpoint (monitoring)
//   - tool search and calculator evaluation
//   - build history
//   - shared response helper functions
//
// Errors are reported through the foundation/errors HTTP adapter so every
// endpoint answers with the same JSON error shape.
package handlers
