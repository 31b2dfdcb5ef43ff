// Package anybox provides a type-erased value container for Go.
//
// A Box holds one payload of any Go type behind a fixed-size handle, with
// explicit copy, assignment and destruction, and type-checked extraction.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	anybox/          Root package with the overflow block Tracker interface
//	├── box/         The Box handle, storage, per-type dispatchers, casts
//	├── meta/        Field and method access with Box-transported values
//	├── track/       Tracker implementations (table, prometheus, zap)
//	├── errors/      Structured error types
//	└── cmd/         The boxinspect tool
//
// # Quick Start
//
//	var b box.Box
//	box.Set(&b, int32(123))
//
//	f, err := box.Get[float64](&b) // 123.0, scalar widening
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_, err = box.Get[string](&b) // [cast] type_mismatch: stored int32, requested string
//
//	b.Clear()
//
// # Payload Categories
//
//   - Null: box.SetNull, reads as the zero value of any nilable type
//   - Object: interface values, match any interface the dynamic value implements
//   - Aggregate and Enum: structs and named types, exact identity only
//   - Scalar: the predeclared numeric and bool types, convert between each other
//   - Array: slices, arrays and strings, match box.RawSlice
//   - Pointer: pointers and unsafe.Pointer, match unsafe.Pointer
//   - Callable and Reference: funcs, maps and channels, exact identity only
//
// # Storage
//
// Small payloads whose pointer words form a short prefix live inline in the
// Box. Everything else goes to an overflow block allocated per payload and
// owned by exactly one Box. Tracker observes overflow blocks; see box.SetTracker.
//
// # Thread Safety
//
// Dispatcher records are safe for concurrent use. A Box is NOT thread-safe
// and must not be mutated from several goroutines without synchronization.
//
// # Copying
//
// A Box must not be copied with plain assignment: that would alias its
// overflow block. Use Assign or Clone; go vet reports accidental copies.
package anybox
