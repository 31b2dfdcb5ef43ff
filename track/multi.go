package track

import "github.com/wippyai/anybox"

type multi []anybox.Tracker

// Multi returns a tracker forwarding to each of ts in order. Untrack runs in
// reverse order. Nil entries are skipped; with none left Multi
// returns anybox.NopTracker.
func Multi(ts ...anybox.Tracker) anybox.Tracker {
	out := make(multi, 0, len(ts))
	for _, t := range ts {
		if t != nil {
			out = append(out, t)
		}
	}
	switch len(out) {
	case 0:
		return anybox.NopTracker{}
	case 1:
		return out[0]
	}
	return out
}

func (m multi) Track(b anybox.Block) {
	for _, t := range m {
		t.Track(b)
	}
}

func (m multi) Untrack(b anybox.Block) {
	for i := len(m) - 1; i >= 0; i-- {
		m[i].Untrack(b)
	}
}
