// Package track provides anybox.Tracker implementations for overflow
// blocks allocated by boxes.
//
//	Table       live-block table with observers and leak checks
//	Prometheus  counters and gauges on a prometheus.Registerer
//	Logging     zap debug logs per block
//	Multi       fan-out to several trackers
//
// Install one with box.SetTracker:
//
//	tbl := track.NewTable()
//	box.SetTracker(track.Multi(tbl, track.NewLogging(logger)))
//	...
//	if err := tbl.Check(); err != nil {
//	    // overflow blocks were never released
//	}
//
// Every tracker here is safe for concurrent use.
package track
