// Package compaction compresses long conversation histories so they keep
// fitting in the model's context window without losing the information
// later turns depend on.
//
// # Pipeline
//
// A compaction run moves through five phases:
//
//  1. Selection: the leading system message is set aside and the last
//     PreserveRecentMessages messages become the verbatim tail. The tail
//     boundary widens backward whenever it would split a tool call from
//     its result.
//  2. Critical extraction: the most recent call/result pair of each
//     critical tool (plans, todo lists) is preserved verbatim; earlier
//     pairs of the same tool are discarded as stale.
//  3. Redundancy filtering: duplicate reads of the same file keep only the
//     latest occurrence, and exploratory tool pairs (searches, listings)
//     are dropped once they fall outside the protection window.
//  4. Early exit: when structural filtering alone removed enough tokens
//     (StructuralCutoff, 75% by default), the summarizer is skipped.
//  5. Summarization: the remaining compress candidates are rendered as a
//     transcript and summarized by a cheaper model under a timeout.
//
// # Degradation
//
// Compaction degrades rather than fails. A summarizer error, timeout, or
// cancellation produces a Result whose PreservedMessages carry the full
// structurally-reduced history with Degraded set; conversation history is
// never lost to a flaky summarizer. Compact returns an error only for an
// invalid configuration or a failed token estimate.
//
// # Reassembly
//
// BuildMessages turns a Result back into a conversation: the summary
// travels as a marked user message followed by a synthetic assistant
// acknowledgment, and summary blocks from earlier compactions are
// stripped so repeated runs never stack.
//
// Manager wraps a Compactor with threshold checks and per-conversation
// coalescing of concurrent runs.
package compaction
