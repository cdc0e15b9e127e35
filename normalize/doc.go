// Package normalize transforms a raw conversation history into the strict
// message sequence a model API will accept.
//
// Application message histories are loosely structured: they mix system
// messages with the configured system prompt, record tool invocations that
// were interrupted before producing a result, attach files and images to
// chat messages, and accumulate runs of consecutive assistant turns. Model
// protocols reject all of that.
//
// Normalize applies the following pipeline:
//
//  1. Pre-scan tool messages to find which tool calls have results.
//  2. Emit the option-supplied system prompt first (cache-hinted); drop
//     any system messages found in the history.
//  3. Re-emit recorded tool calls as assistant turns and tool results as
//     tool turns, skipping orphaned calls that never produced a result.
//  4. Expand attachments into text and image parts, inlining file content
//     up to MaxInlineLines lines.
//  5. Drop assistant messages with blank content.
//  6. Merge runs of consecutive assistant messages into one.
//  7. Validate the result against the structural invariants.
//
// A validation failure returns an error wrapping
// ctxkit.ErrInvalidMessageFormat and is fatal to the current turn.
package normalize
