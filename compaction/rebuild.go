package compaction

import (
	"strings"

	"github.com/ctxkit/ctxkit"
)

// SummaryMarker opens the user message carrying an injected summary. It
// identifies stale summary blocks from earlier compactions so repeated
// runs never stack summaries.
const SummaryMarker = "[Previous conversation summary]"

// summaryAck is the synthetic assistant reply following an injected
// summary, keeping the user/assistant alternation intact.
const summaryAck = "Understood. I have the conversation summary and will continue from where we left off."

// BuildMessages reassembles a conversation from a compaction result: the
// system message stays first, the summary travels as a marked user message
// with a synthetic acknowledgment, and the preserved messages follow.
// Summary blocks injected by earlier compactions are stripped.
//
// An empty summary yields the preserved messages alone, so degraded and
// early-exit results pass through unchanged.
func BuildMessages(summary string, preserved []ctxkit.ModelMessage) []ctxkit.ModelMessage {
	rest := preserved
	var system *ctxkit.ModelMessage
	if len(rest) > 0 && rest[0].Role == ctxkit.RoleSystem {
		system = &rest[0]
		rest = rest[1:]
	}
	rest = stripSummaryBlocks(rest)

	out := make([]ctxkit.ModelMessage, 0, len(rest)+3)
	if system != nil {
		out = append(out, *system)
	}
	if summary != "" {
		out = append(out,
			ctxkit.UserModelMessage(SummaryMarker+"\n\n"+summary),
			ctxkit.AssistantModelMessage(summaryAck),
		)
	}
	return append(out, rest...)
}

// stripSummaryBlocks drops summary user messages from earlier compactions
// along with their synthetic acknowledgments.
func stripSummaryBlocks(messages []ctxkit.ModelMessage) []ctxkit.ModelMessage {
	out := make([]ctxkit.ModelMessage, 0, len(messages))
	for i := 0; i < len(messages); i++ {
		msg := messages[i]
		if msg.Role == ctxkit.RoleUser && strings.HasPrefix(strings.TrimSpace(msg.TextContent()), SummaryMarker) {
			if i+1 < len(messages) && isSummaryAck(messages[i+1]) {
				i++
			}
			continue
		}
		out = append(out, msg)
	}
	return out
}

func isSummaryAck(msg ctxkit.ModelMessage) bool {
	return msg.Role == ctxkit.RoleAssistant && strings.TrimSpace(msg.TextContent()) == summaryAck
}
