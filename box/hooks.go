package box

import (
	"reflect"
	"sync/atomic"
	"unsafe"

	"github.com/wippyai/anybox"
)

// Copier is implemented by payload types that need more than a bitwise copy.
// PostCopy runs on every fresh copy of the payload inside a box, including
// the first write and a self-assignment. The receiver is the payload's final
// address, the one Pointer reports.
type Copier interface {
	PostCopy()
}

// Destructor is implemented by payload types with teardown. Destruct runs
// exactly once per live payload, when it is replaced or cleared. An inline
// payload replaced by one with a PostCopy hook is destructed from a saved
// copy of its bytes, after the new payload settled.
type Destructor interface {
	Destruct()
}

var (
	copierType     = reflect.TypeFor[Copier]()
	destructorType = reflect.TypeFor[Destructor]()
)

var tracker atomic.Pointer[anybox.Tracker]

// SetTracker installs the process-wide overflow block tracker. Passing nil
// disables tracking. A block is always untracked by the tracker that tracked
// it, so swapping trackers never unbalances either one.
func SetTracker(t anybox.Tracker) {
	if t == nil {
		tracker.Store(nil)
		return
	}
	tracker.Store(&t)
}

func runPostCopy(t reflect.Type, p unsafe.Pointer) {
	reflect.NewAt(t, p).Interface().(Copier).PostCopy()
}

func runDestruct(t reflect.Type, p unsafe.Pointer) {
	reflect.NewAt(t, p).Interface().(Destructor).Destruct()
}

func typedCopy(t reflect.Type, dst, src unsafe.Pointer) {
	reflect.NewAt(t, dst).Elem().Set(reflect.NewAt(t, src).Elem())
}

func typedZero(t reflect.Type, p unsafe.Pointer) {
	reflect.NewAt(t, p).Elem().SetZero()
}
