package compaction

import (
	"sync"
	"time"
)

// Stats accumulates process-wide compaction metrics. All methods are safe
// for concurrent use.
type Stats struct {
	mu sync.Mutex

	totalCompactions  int64
	failedSummaries   int64
	earlyExits        int64
	messagesCompacted int64
	totalDuration     time.Duration
	avgRatio          float64
}

// StatsSnapshot is a point-in-time copy of compaction metrics.
type StatsSnapshot struct {
	TotalCompactions  int64
	FailedSummaries   int64
	EarlyExits        int64
	MessagesCompacted int64
	TotalDuration     time.Duration
	AverageRatio      float64
}

// Record folds one compaction result into the running totals. The average
// compression ratio is maintained incrementally.
func (s *Stats) Record(res *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalCompactions++
	if res.Degraded {
		s.failedSummaries++
	}
	if res.EarlyExit {
		s.earlyExits++
	}
	if n := res.OriginalMessageCount - res.CompressedMessageCount; n > 0 {
		s.messagesCompacted += int64(n)
	}
	s.totalDuration += res.Duration

	n := float64(s.totalCompactions)
	s.avgRatio += (res.CompressionRatio - s.avgRatio) / n
}

// Snapshot returns a copy of the current metrics.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		TotalCompactions:  s.totalCompactions,
		FailedSummaries:   s.failedSummaries,
		EarlyExits:        s.earlyExits,
		MessagesCompacted: s.messagesCompacted,
		TotalDuration:     s.totalDuration,
		AverageRatio:      s.avgRatio,
	}
}
