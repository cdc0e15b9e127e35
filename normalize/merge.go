package normalize

import (
	"strings"

	"github.com/ctxkit/ctxkit"
)

// mergeAssistantRuns collapses each run of consecutive assistant messages
// into a single message, concatenating their contents as parts. Model
// protocols forbid consecutive assistant turns.
func (n *Normalizer) mergeAssistantRuns(messages []ctxkit.ModelMessage) []ctxkit.ModelMessage {
	out := make([]ctxkit.ModelMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == ctxkit.RoleAssistant && len(out) > 0 && out[len(out)-1].Role == ctxkit.RoleAssistant {
			merged := mergeAssistantPair(out[len(out)-1], msg)
			out[len(out)-1] = merged
			n.logger.Debug("merged consecutive assistant messages", "parts", len(merged.Parts))
			continue
		}
		out = append(out, msg)
	}
	return out
}

// mergeAssistantPair joins two assistant messages into one parts-based
// message, coercing scalar content into text parts and dropping any
// resulting empty text parts.
func mergeAssistantPair(a, b ctxkit.ModelMessage) ctxkit.ModelMessage {
	parts := append(coerceParts(a), coerceParts(b)...)
	kept := make([]ctxkit.ContentBlock, 0, len(parts))
	for _, p := range parts {
		if p.Type == ctxkit.ContentTypeText && strings.TrimSpace(p.Text) == "" {
			continue
		}
		kept = append(kept, p)
	}
	return ctxkit.ModelMessage{Role: ctxkit.RoleAssistant, Parts: kept}
}

func coerceParts(m ctxkit.ModelMessage) []ctxkit.ContentBlock {
	if m.Parts != nil {
		return m.Parts
	}
	if strings.TrimSpace(m.Content) == "" {
		return nil
	}
	return []ctxkit.ContentBlock{ctxkit.NewTextBlock(m.Content)}
}
