// Package box implements Box, a type-erased value container.
//
// # Storage
//
// A Box embeds a fixed region of StorageSize bytes plus two pointer slots:
//
//	┌────────┬────────┬──────────────────────────┐
//	│ ref 0  │ ref 1  │ StorageSize scalar bytes │
//	└────────┴────────┴──────────────────────────┘
//
// A payload is inline when it is at most StorageSize bytes and its pointer
// words are a leading run of at most two words; it is placed so that run ends
// on ref 1. Any other payload is an overflow payload: a heap block of exactly
// its type, referenced from ref 0 and owned by this Box alone.
//
//	Payload            Size  Regime
//	──────────────────────────────────
//	int64/float64      8     inline
//	complex128         16    inline
//	[4]float32         16    inline
//	string             16    inline (ptr in ref 1)
//	[]T                24    inline (ptr in ref 1)
//	any/error          16    inline (ref 0, ref 1)
//	*T/func/map/chan   8     inline (ref 1)
//	[24]byte           24    inline
//	[25]byte           25    overflow
//	struct{n int; p *T} 16   overflow (interior pointer)
//
// (sizes for 64-bit platforms)
//
// # Dispatchers
//
// Every payload type gets one dispatcher: a record of write, read, type,
// pointer, clear, destruct and copy operations compiled on first use and
// shared by all boxes holding that type. The Box stores only the record and
// the raw storage.
//
// # Extraction
//
//	Stored             Get[T] succeeds for
//	──────────────────────────────────────────────────────────
//	any T              T itself
//	interface          any, interfaces it implements, its dynamic type
//	scalar kind        every other scalar kind (language conversion)
//	slice/array/string RawSlice, then SliceAs[E]
//	pointer            unsafe.Pointer
//	Null               the zero value of any nilable type
//
// The scalar kinds are bool, the sized and unsized integers, uintptr and the
// two floats. complex64 and complex128 are Aggregate and match by identity.
// Structs, named types, funcs, maps and channels match by identity only.
// Numeric conversions truncate and wrap silently, exactly as Go's own
// conversions do.
//
// # Errors
//
// Get returns a cast-failure *errors.Error naming the stored and requested
// types. Type, Pointer and Get panic with an empty_access error on an empty
// box: that is a programming error, not a condition to handle.
//
// # Copying
//
// Plain assignment of a Box value would share its overflow block. Box holds
// a noCopy marker so go vet reports it; use Assign or Clone.
package box
