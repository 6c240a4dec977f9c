package cache

import "sync/atomic"

// Stats is a snapshot of read-path bookkeeping. It is informational only.
type Stats struct {
	Hits    int64
	Misses  int64
	Expired int64
	Corrupt int64
	Writes  int64
}

type counters struct {
	hits    atomic.Int64
	misses  atomic.Int64
	expired atomic.Int64
	corrupt atomic.Int64
	writes  atomic.Int64
}

func (m *Manager) Stats() Stats {
	return Stats{
		Hits:    m.stats.hits.Load(),
		Misses:  m.stats.misses.Load(),
		Expired: m.stats.expired.Load(),
		Corrupt: m.stats.corrupt.Load(),
		Writes:  m.stats.writes.Load(),
	}
}
