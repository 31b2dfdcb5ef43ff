// Package errors provides structured error types for the anybox library.
//
// Errors are categorized by Phase (which operation failed) and Kind (error
// category). The Error type carries the stored and requested type names of a
// failed cast, a field or method path, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCast, errors.KindTypeMismatch).
//		Stored("main.Point").
//		Requested("main.Rect").
//		Detail("aggregates only match by identity").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.CastFailed("main.Point", "main.Rect")
//	err := errors.EmptyAccess("Type")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
