package normalize

import (
	"fmt"

	"github.com/ctxkit/ctxkit"
)

// Validate checks a normalized sequence against the structural invariants:
//
//   - at most one system message, and it is first
//   - no two consecutive assistant messages
//   - tool_call ids and tool_result ids form a bijection
//
// It returns a *ctxkit.FormatError describing the first violation found.
func Validate(messages []ctxkit.ModelMessage) error {
	type idCount struct {
		calls   int
		results int
		index   int
	}
	ids := make(map[string]*idCount)
	var order []string

	for i, msg := range messages {
		if msg.Role == ctxkit.RoleSystem && i != 0 {
			return ctxkit.NewFormatError(i, "system message must be first")
		}
		if i > 0 && msg.Role == ctxkit.RoleAssistant && messages[i-1].Role == ctxkit.RoleAssistant {
			return ctxkit.NewFormatError(i, "consecutive assistant messages")
		}

		for _, p := range msg.Parts {
			switch p.Type {
			case ctxkit.ContentTypeToolCall, ctxkit.ContentTypeToolResult:
				c, ok := ids[p.ToolCallID]
				if !ok {
					c = &idCount{index: i}
					ids[p.ToolCallID] = c
					order = append(order, p.ToolCallID)
				}
				if p.Type == ctxkit.ContentTypeToolCall {
					c.calls++
				} else {
					c.results++
				}
			}
		}
	}

	for _, id := range order {
		c := ids[id]
		switch {
		case c.calls == 0:
			return ctxkit.NewFormatError(c.index, fmt.Sprintf("tool result %q has no matching tool call", id))
		case c.results == 0:
			return ctxkit.NewFormatError(c.index, fmt.Sprintf("tool call %q has no matching tool result", id))
		case c.calls > 1 || c.results > 1:
			return ctxkit.NewFormatError(c.index, fmt.Sprintf("tool call id %q appears more than once", id))
		}
	}
	return nil
}
