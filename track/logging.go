package track

import (
	"go.uber.org/zap"

	"github.com/wippyai/anybox"
)

// Logging writes a debug entry per block transition.
type Logging struct {
	log *zap.Logger
}

var _ anybox.Tracker = (*Logging)(nil)

// NewLogging returns a tracker writing to l. A nil l discards everything.
func NewLogging(l *zap.Logger) *Logging {
	if l == nil {
		l = zap.NewNop()
	}
	return &Logging{log: l.Named("track")}
}

func (l *Logging) Track(b anybox.Block) {
	l.log.Debug("block tracked", fields(b)...)
}

func (l *Logging) Untrack(b anybox.Block) {
	l.log.Debug("block untracked", fields(b)...)
}

func fields(b anybox.Block) []zap.Field {
	return []zap.Field{
		zap.Stringer("type", b.Type),
		zap.Uintptr("addr", uintptr(b.Addr)),
		zap.Uintptr("size", b.Size),
		zap.Bool("scan", b.Scan),
	}
}
