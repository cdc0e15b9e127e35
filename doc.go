// Package ctxkit provides conversation context management for AI coding
// assistants built on large language models.
//
// Long-running agent conversations accumulate a loosely structured message
// history: interrupted tool calls, attachments, stale system prompts, and
// runs of assistant turns that model APIs reject. ctxkit turns that history
// into a strictly valid, model-ready sequence and keeps it inside the
// model's context window.
//
// The module has two components, consumed in sequence by an agent loop:
//
//   - normalize: transforms a raw []Message history into a strict
//     []ModelMessage sequence (single leading system message, no
//     consecutive assistant turns, every tool call paired with exactly one
//     tool result). Runs every turn.
//
//   - compaction: when the running token count approaches the context
//     window, reduces the history by dropping redundant tool traffic,
//     preserving a recent tail and the latest state of critical tools, and
//     summarizing the rest with a cheap model. Runs only when needed.
//
// Both components operate on the shared message model defined in this
// package. The Compactor's output is rebuilt into the same ModelMessage
// shape the normalizer produces, so the agent loop never needs to know
// which component produced the sequence it submits.
//
// # Quick Start
//
//	seq, err := normalize.Normalize(history, normalize.Options{
//	    SystemPrompt: "You are a helpful coding assistant",
//	})
//	if err != nil {
//	    return err // malformed history must not reach the model
//	}
//
//	c := compaction.New(summarizer, estimator, logger)
//	mgr, _ := compaction.NewManager(c, compaction.DefaultConfig(), logger)
//	if mgr.ShouldCompact(lastTokenCount) {
//	    res, err := mgr.Compact(ctx, compaction.Request{
//	        ConversationID: conversationID,
//	        Messages:       seq,
//	        LastTokenCount: lastTokenCount,
//	    })
//	    if err == nil {
//	        seq = compaction.BuildMessages(res.Summary, res.PreservedMessages)
//	    }
//	}
//
// Normalization failures are fatal to the turn. Compaction failures are
// not: a failed or canceled summarization degrades to a structural-only
// reduction and never loses conversation history.
package ctxkit
