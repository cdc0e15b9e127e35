package compaction

import (
	"context"
	"time"

	"github.com/ctxkit/ctxkit"
)

// Request describes one compaction run.
type Request struct {
	// ConversationID identifies the conversation for logging and
	// coalescing. Optional.
	ConversationID string

	// Messages is the full normalized conversation, system message first
	// when present.
	Messages []ctxkit.ModelMessage

	// LastTokenCount is the token count reported for the conversation at
	// the last turn. When positive it enables the structural early exit.
	LastTokenCount int
}

// Section is one titled portion of a parsed summary.
type Section struct {
	Title   string
	Content string
}

// Result is the outcome of a compaction run. Compaction degrades rather
// than fails: when summarization is unavailable the preserved messages
// still carry the full structurally-reduced history.
type Result struct {
	// Summary is the generated summary text. Empty when summarization was
	// skipped or degraded.
	Summary string

	// Sections is the summary parsed into titled sections.
	Sections []Section

	// PreservedMessages is the compacted conversation, excluding the
	// summary itself. Pass it with Summary to BuildMessages.
	PreservedMessages []ctxkit.ModelMessage

	// OriginalMessageCount counts the input messages.
	OriginalMessageCount int

	// CompressedMessageCount counts the messages the conversation shrinks
	// to, including the summary message when one was produced.
	CompressedMessageCount int

	// CompressionRatio is compressed over original size. 1.0 means no
	// reduction.
	CompressionRatio float64

	// EarlyExit reports that structural reduction alone was sufficient
	// and the summarizer was skipped.
	EarlyExit bool

	// Degraded reports that summarization failed or timed out and the
	// result fell back to structural reduction only.
	Degraded bool

	// Duration is the total wall time of the run.
	Duration time.Duration
}

// Compactor compresses conversation histories. It is safe for concurrent
// use.
type Compactor struct {
	summarizer Summarizer
	estimator  TokenEstimator
	stats      *Stats
	logger     ctxkit.Logger
}

// New creates a Compactor. A nil summarizer disables summarization
// (structural reduction still applies), a nil estimator falls back to
// character approximation, and a nil logger disables diagnostics.
func New(summarizer Summarizer, estimator TokenEstimator, logger ctxkit.Logger) *Compactor {
	if estimator == nil {
		estimator = StaticEstimator{}
	}
	if logger == nil {
		logger = ctxkit.NopLogger{}
	}
	return &Compactor{
		summarizer: summarizer,
		estimator:  estimator,
		stats:      &Stats{},
		logger:     logger,
	}
}

// Stats returns the compactor's accumulated metrics.
func (c *Compactor) Stats() *Stats { return c.stats }

// Compact compresses the conversation in req according to cfg.
//
// It returns an error only for an invalid configuration or a failed token
// estimate; summarizer failures, timeouts, and cancellations degrade to a
// structural-only result instead, so conversation history is never lost.
func (c *Compactor) Compact(ctx context.Context, req Request, cfg Config) (*Result, error) {
	start := time.Now()

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, NewCompactionError("compact", err).WithConversation(req.ConversationID)
	}

	original := len(req.Messages)
	if !cfg.Enabled || original == 0 {
		return c.finish(req, &Result{
			PreservedMessages:      req.Messages,
			OriginalMessageCount:   original,
			CompressedMessageCount: original,
			CompressionRatio:       1.0,
		}, start), nil
	}

	sel := selectMessages(req.Messages, cfg.PreserveRecentMessages)
	if len(sel.region) == 0 {
		// Conversation fits inside the preserved tail.
		return c.finish(req, &Result{
			PreservedMessages:      req.Messages,
			OriginalMessageCount:   original,
			CompressedMessageCount: original,
			CompressionRatio:       1.0,
		}, start), nil
	}

	plan := newRegionPlan()
	planCritical(sel.region, cfg.CriticalTools, plan)
	planRedundancy(sel.region, &cfg, plan)

	critical, toCompress := plan.apply(sel.region)
	structural := assemble(sel.system, plan.structural(sel.region), sel.tail)

	transcript := formatTranscript(toCompress)
	if transcript == "" {
		// Filtering removed everything compressible.
		return c.finish(req, structuralResult(structural, original, false), start), nil
	}

	if req.LastTokenCount > 0 {
		estimated, err := c.estimator.EstimateMessages(ctx, structural)
		if err != nil {
			return nil, NewCompactionError("estimate", err).
				WithConversation(req.ConversationID).
				WithContext("messages", len(structural))
		}
		reduction := 1 - float64(estimated)/float64(req.LastTokenCount)
		if reduction >= cfg.StructuralCutoff {
			c.logger.Info("structural reduction sufficient, skipping summarization",
				"conversation_id", req.ConversationID,
				"estimated_tokens", estimated,
				"last_token_count", req.LastTokenCount,
			)
			res := structuralResult(structural, original, false)
			res.EarlyExit = true
			res.CompressionRatio = float64(estimated) / float64(req.LastTokenCount)
			return c.finish(req, res, start), nil
		}
	}

	if c.summarizer == nil {
		return c.finish(req, structuralResult(structural, original, false), start), nil
	}

	summary, err := c.summarize(ctx, cfg, transcript)
	if err != nil {
		c.logger.Warn("summarization failed, keeping structural reduction only",
			"conversation_id", req.ConversationID,
			"error", err,
		)
		return c.finish(req, structuralResult(structural, original, true), start), nil
	}

	preserved := assemble(sel.system, critical, sel.tail)
	res := &Result{
		Summary:                summary,
		Sections:               ParseSections(summary),
		PreservedMessages:      preserved,
		OriginalMessageCount:   original,
		CompressedMessageCount: len(preserved) + 1,
		CompressionRatio:       ratio(len(preserved)+1, original),
	}
	return c.finish(req, res, start), nil
}

// summarize runs one summarizer call under the configured timeout.
func (c *Compactor) summarize(ctx context.Context, cfg Config, transcript string) (string, error) {
	if cfg.SummarizeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.SummarizeTimeout.Std())
		defer cancel()
	}
	return c.summarizer.Summarize(ctx, transcript)
}

func (c *Compactor) finish(req Request, res *Result, start time.Time) *Result {
	res.Duration = time.Since(start)
	c.stats.Record(res)
	c.logger.Info("compaction finished",
		"conversation_id", req.ConversationID,
		"original_messages", res.OriginalMessageCount,
		"compressed_messages", res.CompressedMessageCount,
		"ratio", res.CompressionRatio,
		"early_exit", res.EarlyExit,
		"degraded", res.Degraded,
		"duration", res.Duration,
	)
	return res
}

func structuralResult(structural []ctxkit.ModelMessage, original int, degraded bool) *Result {
	return &Result{
		PreservedMessages:      structural,
		OriginalMessageCount:   original,
		CompressedMessageCount: len(structural),
		CompressionRatio:       ratio(len(structural), original),
		Degraded:               degraded,
	}
}

func ratio(compressed, original int) float64 {
	if original == 0 {
		return 1.0
	}
	return float64(compressed) / float64(original)
}

func assemble(system *ctxkit.ModelMessage, groups ...[]ctxkit.ModelMessage) []ctxkit.ModelMessage {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	if system != nil {
		n++
	}
	out := make([]ctxkit.ModelMessage, 0, n)
	if system != nil {
		out = append(out, *system)
	}
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
