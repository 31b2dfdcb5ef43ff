package track

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unsafe"

	"github.com/wippyai/anybox"
	"github.com/wippyai/anybox/errors"
)

// Table records every live overflow block.
type Table struct {
	entries   map[unsafe.Pointer]entry
	seq       uint64
	bytes     uintptr
	strays    int
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
}

type entry struct {
	block anybox.Block
	seq   uint64
}

var _ anybox.Tracker = (*Table)(nil)

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries: make(map[unsafe.Pointer]entry, 64),
	}
}

// Track records b as live.
func (t *Table) Track(b anybox.Block) {
	t.mu.Lock()
	t.seq++
	t.entries[b.Addr] = entry{block: b, seq: t.seq}
	t.bytes += b.Size
	live := len(t.entries)
	t.mu.Unlock()

	t.notify(Event{Type: EventTracked, Block: b, Live: live})
}

// Untrack releases b. Releasing a block the table never saw is counted as a
// stray and reported by Check.
func (t *Table) Untrack(b anybox.Block) {
	t.mu.Lock()
	e, ok := t.entries[b.Addr]
	if !ok {
		t.strays++
		t.mu.Unlock()
		return
	}
	delete(t.entries, b.Addr)
	t.bytes -= e.block.Size
	live := len(t.entries)
	t.mu.Unlock()

	t.notify(Event{Type: EventUntracked, Block: b, Live: live})
}

// Len returns the number of live blocks.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Bytes returns the total size of live blocks.
func (t *Table) Bytes() uintptr {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bytes
}

// Contains reports whether addr is a live block.
func (t *Table) Contains(addr unsafe.Pointer) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.entries[addr]
	return ok
}

// Live returns the live blocks in allocation order.
func (t *Table) Live() []anybox.Block {
	t.mu.RLock()
	entries := make([]entry, 0, len(t.entries))
	for _, e := range t.entries {
		entries = append(entries, e)
	}
	t.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]anybox.Block, len(entries))
	for i, e := range entries {
		out[i] = e.block
	}
	return out
}

// Check returns an error when blocks are still live or were released without
// being tracked.
func (t *Table) Check() error {
	live := t.Live()

	t.mu.RLock()
	strays := t.strays
	t.mu.RUnlock()

	if len(live) == 0 && strays == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, b := range live {
		counts[b.Type.String()]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s x%d", name, counts[name])
	}

	return errors.New(errors.PhaseCopy, errors.KindAllocation).
		Detail("%d live blocks [%s], %d stray releases", len(live), strings.Join(parts, ", "), strays).
		Build()
}

// Reset forgets every block and stray count.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[unsafe.Pointer]entry, 64)
	t.bytes = 0
	t.strays = 0
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer. o must be comparable; an ObserverFunc
// cannot be unsubscribed.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnBlockEvent(e)
	}
}
