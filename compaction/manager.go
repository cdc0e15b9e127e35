package compaction

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/ctxkit/ctxkit"
)

// Manager decides when compaction runs and coalesces concurrent runs for
// the same conversation: callers racing on one conversation share a single
// compaction instead of summarizing the same history twice.
type Manager struct {
	compactor *Compactor
	cfg       Config
	logger    ctxkit.Logger
	group     singleflight.Group
}

// NewManager creates a Manager around a compactor with a default
// configuration.
func NewManager(compactor *Compactor, cfg Config, logger ctxkit.Logger) (*Manager, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = ctxkit.NopLogger{}
	}
	return &Manager{
		compactor: compactor,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// ShouldCompact reports whether the conversation's token count has crossed
// the compaction threshold.
func (m *Manager) ShouldCompact(tokenCount int) bool {
	return m.cfg.Enabled && tokenCount >= m.cfg.TriggerThreshold()
}

// Compact runs compaction for the request. Concurrent calls with the same
// ConversationID are coalesced; each caller receives the shared result.
func (m *Manager) Compact(ctx context.Context, req Request) (*Result, error) {
	if req.ConversationID == "" {
		return m.compactor.Compact(ctx, req, m.cfg)
	}

	v, err, shared := m.group.Do(req.ConversationID, func() (any, error) {
		return m.compactor.Compact(ctx, req, m.cfg)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		m.logger.Debug("coalesced concurrent compaction",
			"conversation_id", req.ConversationID,
		)
	}
	return v.(*Result), nil
}

// Config returns the manager's configuration.
func (m *Manager) Config() Config { return m.cfg }

// Stats returns a snapshot of the underlying compactor's metrics.
func (m *Manager) Stats() StatsSnapshot {
	return m.compactor.Stats().Snapshot()
}
