package anybox

import (
	"reflect"
	"unsafe"
)

// Block describes one overflow allocation owned by a box.
type Block struct {
	Type reflect.Type
	Addr unsafe.Pointer
	Size uintptr
	// Scan reports whether the block holds references the collector must follow.
	Scan bool
}

// Tracker observes overflow blocks. Track runs after a block is allocated and
// filled, Untrack before the block is released. Every Track is matched by
// exactly one Untrack for the same address.
type Tracker interface {
	Track(b Block)
	Untrack(b Block)
}

// NopTracker ignores all blocks.
type NopTracker struct{}

func (NopTracker) Track(Block)   {}
func (NopTracker) Untrack(Block) {}
