package compaction

import (
	"context"

	"github.com/ctxkit/ctxkit"
)

// TokenEstimator reports token counts for message sequences. Estimates
// feed the early-exit check and Manager.ShouldCompact; they never need to
// be exact.
type TokenEstimator interface {
	EstimateMessages(ctx context.Context, messages []ctxkit.ModelMessage) (int, error)
}

// StaticEstimator is a TokenEstimator using character-based approximation
// only. It never performs I/O.
type StaticEstimator struct{}

// EstimateMessages estimates tokens for the given messages.
func (StaticEstimator) EstimateMessages(_ context.Context, messages []ctxkit.ModelMessage) (int, error) {
	return EstimateMessages(messages), nil
}

// EstimateMessages sums per-message approximations for a sequence.
func EstimateMessages(messages []ctxkit.ModelMessage) int {
	total := 0
	for i := range messages {
		total += estimateMessageTokens(&messages[i])
	}
	return total
}

// estimateMessageTokens estimates tokens for a single message using
// character approximation.
func estimateMessageTokens(msg *ctxkit.ModelMessage) int {
	// Overhead for message structure (~4 tokens for role, etc.)
	total := 4

	if msg.IsScalar() {
		return total + ApproximateTokens(msg.Content)
	}

	for _, part := range msg.Parts {
		switch part.Type {
		case ctxkit.ContentTypeText:
			total += ApproximateTokens(part.Text)
		case ctxkit.ContentTypeToolCall:
			// Tool name + id overhead
			total += ApproximateTokens(part.ToolName) + 10
			if len(part.ToolInput) > 0 {
				total += ApproximateTokens(string(part.ToolInput))
			}
		case ctxkit.ContentTypeToolResult:
			total += 10
			total += ApproximateTokens(part.ToolContent)
			if len(part.ToolOutput) > 0 {
				total += ApproximateTokens(string(part.ToolOutput))
			}
		case ctxkit.ContentTypeImage:
			// Rough estimate; small images ~85 tokens, large ones much more.
			total += 200
		default:
			if part.Text != "" {
				total += ApproximateTokens(part.Text)
			}
		}
	}
	return total
}

// ApproximateTokens estimates token count from character count, using
// ~4 characters per token for English text.
func ApproximateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := (len(text) + 3) / 4
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
