package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wake_parsing_seconds",
		Help:    "Time spent parsing and walking a single source file.",
		Buckets: prometheus.DefBuckets,
	})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wake_scan_seconds",
		Help:    "Time spent on a complete scan run.",
		Buckets: prometheus.DefBuckets,
	})

	FilesScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wake_files_scanned_total",
		Help: "Total number of source files walked by the symbol collector.",
	})

	FilesExcludedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wake_files_excluded_total",
		Help: "Total number of candidate files dropped by exclusion patterns.",
	})

	SyntaxErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wake_syntax_errors_total",
		Help: "Total number of files skipped because they failed to parse.",
	})

	ImportsDiscoveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wake_imports_discovered_total",
		Help: "Total number of files added to a scan through import expansion.",
	})

	UnusedSymbols = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wake_unused_symbols",
		Help: "Number of unused symbols reported by the latest scan, per kind.",
	}, []string{"kind"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wake_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
