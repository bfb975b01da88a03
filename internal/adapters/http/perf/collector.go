// Package perf keeps recent request and query timings in memory for the
// admin perf endpoint.
package perf

import (
	"math"
	"sort"
	"sync"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing record.
type Entry struct {
	Kind       EntryKind
	Path       string // route template such as "GET /api/admin/plans/{id}", or the DB operation
	StatusCode int    // HTTP status (0 for queries)
	DurationMs float64
	Timestamp  time.Time
}

// Collector holds the most recent entries; older ones are overwritten.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	total   int64
}

// NewCollector creates a collector keeping the last size entries.
// PRE: size > 0, otherwise DefaultRingSize is used
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.next] = e
	c.next = (c.next + 1) % len(c.entries)
	c.total++
	c.mu.Unlock()
}

// TotalRecorded returns how many entries were ever recorded.
func (c *Collector) TotalRecorded() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Snapshot is what GET /api/admin/perf reports for a window.
type Snapshot struct {
	TotalRequests  int64 // entries ever recorded, requests and queries
	WindowRequests int
	WindowQueries  int
	ServerErrors   int // 5xx answers inside the window
	RequestP50Ms   float64
	RequestP95Ms   float64
	RequestP99Ms   float64
	SlowestPaths   []PathStat
	SlowestQueries []PathStat
}

// PathStat is the timing of one route or DB operation.
type PathStat struct {
	Path  string
	Count int
	AvgMs float64
	MaxMs float64
}

// Snapshot aggregates entries recorded at or after since, keeping the topN
// slowest routes and queries by average. It sorts, so keep it off hot paths.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := append([]Entry(nil), c.entries...)
	total := c.total
	c.mu.Unlock()

	snap := Snapshot{TotalRequests: total}
	var durations []float64
	routes, queries := groups{}, groups{}
	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		if e.Kind == KindQuery {
			snap.WindowQueries++
			queries.add(e)
			continue
		}
		durations = append(durations, e.DurationMs)
		if e.StatusCode >= 500 {
			snap.ServerErrors++
		}
		routes.add(e)
	}

	snap.WindowRequests = len(durations)
	sort.Float64s(durations)
	snap.RequestP50Ms = nearestRank(durations, 50)
	snap.RequestP95Ms = nearestRank(durations, 95)
	snap.RequestP99Ms = nearestRank(durations, 99)
	snap.SlowestPaths = routes.slowest(topN)
	snap.SlowestQueries = queries.slowest(topN)
	return snap
}

type group struct {
	count   int
	totalMs float64
	maxMs   float64
}

type groups map[string]*group

func (g groups) add(e Entry) {
	s, ok := g[e.Path]
	if !ok {
		s = &group{}
		g[e.Path] = s
	}
	s.count++
	s.totalMs += e.DurationMs
	s.maxMs = math.Max(s.maxMs, e.DurationMs)
}

func (g groups) slowest(n int) []PathStat {
	list := make([]PathStat, 0, len(g))
	for path, s := range g {
		list = append(list, PathStat{Path: path, Count: s.count, AvgMs: s.totalMs / float64(s.count), MaxMs: s.maxMs})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs != list[j].AvgMs {
			return list[i].AvgMs > list[j].AvgMs
		}
		return list[i].Path < list[j].Path
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}

// nearestRank returns the p-th percentile of sorted, or 0 when empty.
func nearestRank(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}
