package box

import (
	"reflect"
	"sync"
	"testing"
	"unsafe"

	"github.com/wippyai/anybox"
)

type handle struct {
	closed *int
}

func (h *handle) Destruct() { *h.closed++ }

type counted struct {
	copies *int
	pad    [40]byte
}

func (c *counted) PostCopy() { *c.copies++ }

// selfRef records its own address on every copy.
type selfRef struct {
	self *selfRef
	n    int
}

func (s *selfRef) PostCopy() { s.self = s }

type selfRefLarge struct {
	self *selfRefLarge
	pad  [48]byte
}

func (s *selfRefLarge) PostCopy() { s.self = s }

type exploding struct {
	n int
}

func (e *exploding) PostCopy() { panic("post-copy failed") }

type interior struct {
	n int
	p *int
}

type recordingTracker struct {
	live    map[unsafe.Pointer]anybox.Block
	tracked int
}

func newRecordingTracker() *recordingTracker {
	return &recordingTracker{live: make(map[unsafe.Pointer]anybox.Block)}
}

func (r *recordingTracker) Track(b anybox.Block) {
	r.tracked++
	r.live[b.Addr] = b
}

func (r *recordingTracker) Untrack(b anybox.Block) {
	delete(r.live, b.Addr)
}

func TestDispatcherRegimes(t *testing.T) {
	tests := []struct {
		name   string
		typ    reflect.Type
		regime regime
		offset uintptr
	}{
		{"int64", reflect.TypeFor[int64](), regimeInline, 2 * wordSize},
		{"complex128", reflect.TypeFor[complex128](), regimeInline, 2 * wordSize},
		{"pointer", reflect.TypeFor[*int](), regimeInline, wordSize},
		{"string", reflect.TypeFor[string](), regimeInline, wordSize},
		{"slice", reflect.TypeFor[[]byte](), regimeInline, wordSize},
		{"interface", reflect.TypeFor[any](), regimeInline, 0},
		{"func", reflect.TypeFor[func()](), regimeInline, wordSize},
		{"map", reflect.TypeFor[map[int]int](), regimeInline, wordSize},
		{"empty struct", reflect.TypeFor[struct{}](), regimeInline, 2 * wordSize},
		{"inline struct", reflect.TypeFor[rect](), regimeInline, 2 * wordSize},
		{"interior pointer", reflect.TypeFor[interior](), regimeOverflow, 0},
		{"large", reflect.TypeFor[big](), regimeOverflow, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dispatcherFor(tt.typ)
			if d.regime != tt.regime {
				t.Errorf("regime = %v, want %v", d.regime, tt.regime)
			}
			if d.regime == regimeInline && d.offset != tt.offset {
				t.Errorf("offset = %d, want %d", d.offset, tt.offset)
			}
			if d.regime == regimeInline && d.offset+tt.typ.Size() > unsafe.Sizeof(storage{}) {
				t.Errorf("payload at %d does not fit", d.offset)
			}
		})
	}
}

func TestDispatcherCache(t *testing.T) {
	typ := reflect.TypeFor[rect]()
	first := dispatcherFor(typ)

	var wg sync.WaitGroup
	got := make([]*dispatcher, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = dispatcherFor(typ)
		}(i)
	}
	wg.Wait()

	for i, d := range got {
		if d != first {
			t.Errorf("goroutine %d got a different record", i)
		}
	}

	var a, b Box
	Set(&a, rect{})
	Set(&b, rect{Min: point{1, 1}})
	if a.ops != b.ops {
		t.Error("boxes of one type must share the dispatcher")
	}
}

func TestConcurrentBoxes(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var b Box
			for j := 0; j < 100; j++ {
				switch j % 4 {
				case 0:
					Set(&b, i*j)
				case 1:
					Set(&b, big{Name: "g"})
				case 2:
					Set(&b, []int{i, j})
				default:
					b.Clear()
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestTailBytesZero(t *testing.T) {
	var b Box

	var ones [StorageSize]byte
	for i := range ones {
		ones[i] = 0xff
	}
	Set(&b, ones)
	Set(&b, int8(1))

	raw := b.Raw()
	off := int(2 * wordSize)
	for i, c := range raw {
		want := byte(0)
		if i == off {
			want = 1
		}
		if c != want {
			t.Fatalf("byte %d = %#x, want %#x (raw %x)", i, c, want, raw)
		}
	}

	b.Clear()
	for i, c := range b.Raw() {
		if c != 0 {
			t.Fatalf("byte %d = %#x after Clear", i, c)
		}
	}
}

func TestDestructor(t *testing.T) {
	closed := 0
	var b Box
	Set(&b, handle{closed: &closed})
	if !b.Inline() {
		t.Fatal("handle should be inline")
	}

	Set(&b, 5)
	if closed != 1 {
		t.Fatalf("replacing the payload: closed = %d, want 1", closed)
	}
	b.Clear()
	if closed != 1 {
		t.Fatalf("destructor ran for a payload it did not own: closed = %d", closed)
	}

	Set(&b, handle{closed: &closed})
	c := b.Clone()
	b.Clear()
	c.Clear()
	b.Clear()
	if closed != 3 {
		t.Errorf("closed = %d, want 3 (one per live copy)", closed)
	}
}

func TestCopier(t *testing.T) {
	copies := 0
	var b Box
	Set(&b, counted{copies: &copies})
	if b.Inline() {
		t.Fatal("counted should overflow")
	}
	if copies != 1 {
		t.Fatalf("write: copies = %d, want 1", copies)
	}

	c := b.Clone()
	if copies != 2 {
		t.Fatalf("clone: copies = %d, want 2", copies)
	}

	b.Assign(&b)
	if copies != 3 {
		t.Fatalf("self-assign: copies = %d, want 3", copies)
	}
	if c.Pointer() == b.Pointer() {
		t.Error("clone shares the block")
	}
}

func TestAssignAllOrNothing(t *testing.T) {
	var b Box
	Set(&b, 7)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected post-copy panic")
			}
		}()
		Set(&b, exploding{n: 1})
	}()

	if got := MustGet[int](&b); got != 7 {
		t.Errorf("payload after failed assignment = %d, want 7", got)
	}
}

func TestTrackerBalance(t *testing.T) {
	rt := newRecordingTracker()
	SetTracker(rt)
	defer SetTracker(nil)

	var a Box
	Set(&a, 1)
	Set(&a, [4]float32{})
	if rt.tracked != 0 {
		t.Fatalf("inline payloads tracked: %d", rt.tracked)
	}

	Set(&a, big{Name: "tracked"})
	if len(rt.live) != 1 {
		t.Fatalf("live = %d, want 1", len(rt.live))
	}
	for addr, blk := range rt.live {
		if addr != a.Pointer() || blk.Type != reflect.TypeFor[big]() || !blk.Scan {
			t.Errorf("block = %+v", blk)
		}
	}

	b := a.Clone()
	Set(&a, interior{n: 1})
	if len(rt.live) != 2 {
		t.Fatalf("live = %d, want 2", len(rt.live))
	}

	a.Clear()
	b.Clear()
	if len(rt.live) != 0 {
		t.Errorf("leaked blocks: %d", len(rt.live))
	}
	if rt.tracked != 3 {
		t.Errorf("tracked = %d, want 3", rt.tracked)
	}
}

func TestTrackerSwap(t *testing.T) {
	first := newRecordingTracker()
	second := newRecordingTracker()

	SetTracker(first)
	defer SetTracker(nil)

	var b Box
	Set(&b, big{})

	SetTracker(second)
	b.Clear()

	if len(first.live) != 0 {
		t.Error("block must be untracked by the tracker that tracked it")
	}
	if second.tracked != 0 || len(second.live) != 0 {
		t.Error("second tracker saw a block it never tracked")
	}
}

func TestOverflowClearZeroesBlock(t *testing.T) {
	var b Box
	Set(&b, big{Data: [64]byte{1, 2, 3}, Name: "zeroed"})
	p := (*big)(b.Pointer())

	b.Clear()
	if p.Name != "" || p.Data[0] != 0 {
		t.Errorf("released block still holds %+v", *p)
	}
}

func TestCopierAddress(t *testing.T) {
	settledAt := func(b *Box) bool {
		p := (*selfRef)(b.Pointer())
		return p.self == p
	}

	var b Box
	Set(&b, selfRef{n: 7})
	if !b.Inline() {
		t.Fatal("selfRef should be inline")
	}
	if !settledAt(&b) {
		t.Error("first write: PostCopy did not run at the payload's address")
	}

	var c Box
	Set(&c, 1)
	c.Assign(&b)
	if !settledAt(&c) {
		t.Error("Assign: PostCopy did not run at the payload's address")
	}
	if MustGet[selfRef](&c).n != 7 {
		t.Error("Assign lost the payload")
	}

	d := b.Clone()
	if !settledAt(d) {
		t.Error("Clone: PostCopy did not run at the payload's address")
	}

	b.Assign(&b)
	if !settledAt(&b) {
		t.Error("self-assign: PostCopy did not run at the payload's address")
	}

	var e Box
	Set(&e, d)
	if !settledAt(&e) {
		t.Error("Set(*Box): PostCopy did not run at the payload's address")
	}
}

func TestCopierAddress_Overflow(t *testing.T) {
	var b Box
	Set(&b, selfRefLarge{})
	if b.Inline() {
		t.Fatal("selfRefLarge should overflow")
	}
	p := (*selfRefLarge)(b.Pointer())
	if p.self != p {
		t.Error("first write: PostCopy did not run on the block")
	}

	c := b.Clone()
	q := (*selfRefLarge)(c.Pointer())
	if q.self != q || q == p {
		t.Error("clone: PostCopy did not run on the new block")
	}
}

func TestAssignAllOrNothing_KeepsPrevious(t *testing.T) {
	closed := 0
	var b Box
	Set(&b, handle{closed: &closed})
	before := b.Raw()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected post-copy panic")
			}
		}()
		Set(&b, exploding{n: 1})
	}()

	if closed != 0 {
		t.Errorf("previous payload destructed by a failed assignment: closed = %d", closed)
	}
	if b.StaticType() != reflect.TypeFor[handle]() {
		t.Fatalf("payload type = %v, want handle", b.StaticType())
	}
	if string(before) != string(b.Raw()) {
		t.Error("previous payload bytes changed")
	}

	Set(&b, selfRef{n: 1})
	if closed != 1 {
		t.Errorf("replacing handle: closed = %d, want 1", closed)
	}
}
