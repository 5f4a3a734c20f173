// Package errors provides the classified error primitives used across the
// UnitsTool site generator.
//
// Key features:
//   - ErrorCategory: broad classification (config, content, template, filesystem, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLI and HTTP adapters for exit codes and JSON error payloads
//
// Example usage:
//
//	err := errors.ContentError("tool list is malformed").
//		WithContext("path", path).
//		WithCause(jsonErr).
//		Build()
package errors
