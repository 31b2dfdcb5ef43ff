package track

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wippyai/anybox"
)

// Prometheus exports overflow block activity as metrics. Series are labeled
// by scan: "true" for blocks holding references.
type Prometheus struct {
	tracked    *prometheus.CounterVec
	untracked  *prometheus.CounterVec
	live       *prometheus.GaugeVec
	liveBytes  prometheus.Gauge
	blockBytes prometheus.Histogram
}

var _ anybox.Tracker = (*Prometheus)(nil)

// NewPrometheus registers the tracker's collectors on reg under namespace.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Prometheus{
		tracked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "box_blocks_tracked_total",
			Help:      "Total number of overflow blocks allocated by boxes",
		}, []string{"scan"}),
		untracked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "box_blocks_untracked_total",
			Help:      "Total number of overflow blocks released by boxes",
		}, []string{"scan"}),
		live: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "box_blocks_live",
			Help:      "Number of overflow blocks currently owned by boxes",
		}, []string{"scan"}),
		liveBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "box_blocks_live_bytes",
			Help:      "Total size of overflow blocks currently owned by boxes",
		}),
		blockBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "box_block_size_bytes",
			Help:      "Size distribution of overflow blocks",
			Buckets:   prometheus.ExponentialBuckets(32, 2, 10),
		}),
	}
}

func (p *Prometheus) Track(b anybox.Block) {
	scan := strconv.FormatBool(b.Scan)
	p.tracked.WithLabelValues(scan).Inc()
	p.live.WithLabelValues(scan).Inc()
	p.liveBytes.Add(float64(b.Size))
	p.blockBytes.Observe(float64(b.Size))
}

func (p *Prometheus) Untrack(b anybox.Block) {
	scan := strconv.FormatBool(b.Scan)
	p.untracked.WithLabelValues(scan).Inc()
	p.live.WithLabelValues(scan).Dec()
	p.liveBytes.Sub(float64(b.Size))
}
