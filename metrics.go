package graphcore

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GraphMetrics is an optional Prometheus collector bundle recording
// search/insert activity: search and insert counts, BFS steps per search,
// and split/merge counts. Collectors register against a caller-supplied
// prometheus.Registerer — construction never panics on a nil registerer,
// it simply skips registration, so a Graph built without WithMetrics
// pays nothing beyond a nil check per call.
type GraphMetrics struct {
	searches     prometheus.Counter
	searchSteps  prometheus.Histogram
	inserts      *prometheus.CounterVec
	splitMerges  prometheus.Counter
	noMatches    prometheus.Counter
}

// NewGraphMetrics builds a GraphMetrics bundle and registers its
// collectors against reg. reg may be nil, in which case the collectors
// are created but never exposed to any scrape endpoint — useful for
// tests that want the counters observable in-process without standing
// up an HTTP handler.
func NewGraphMetrics(reg prometheus.Registerer) *GraphMetrics {
	m := &GraphMetrics{
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphcore",
			Name:      "searches_total",
			Help:      "Number of FindAncestor/FindParent calls.",
		}),
		searchSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "graphcore",
			Name:      "search_bfs_steps",
			Help:      "Number of BFS frontier nodes visited per search.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		inserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphcore",
			Name:      "inserts_total",
			Help:      "Number of Insert calls, partitioned by whether a new vertex was created.",
		}, []string{"is_new"}),
		splitMerges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphcore",
			Name:      "split_merges_total",
			Help:      "Number of token-splitting/materialise operations performed by the join engine.",
		}),
		noMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphcore",
			Name:      "no_match_total",
			Help:      "Number of searches that found no shared prefix with any ancestor.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.searches, m.searchSteps, m.inserts, m.splitMerges, m.noMatches)
	}
	return m
}

func (m *GraphMetrics) observeSearch(steps int) {
	if m == nil {
		return
	}
	m.searches.Inc()
	m.searchSteps.Observe(float64(steps))
}

func (m *GraphMetrics) observeNoMatch() {
	if m == nil {
		return
	}
	m.noMatches.Inc()
}

func (m *GraphMetrics) observeInsert(isNew bool) {
	if m == nil {
		return
	}
	label := "false"
	if isNew {
		label = "true"
	}
	m.inserts.WithLabelValues(label).Inc()
}

func (m *GraphMetrics) observeSplitMerge() {
	if m == nil {
		return
	}
	m.splitMerges.Inc()
}
