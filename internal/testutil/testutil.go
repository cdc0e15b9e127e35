// Package testutil provides message fixtures shared by tests.
package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/ctxkit/ctxkit"
)

// Conversation returns n alternating user/assistant messages with
// distinct text content, starting with a user message.
func Conversation(n int) []ctxkit.ModelMessage {
	msgs := make([]ctxkit.ModelMessage, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			msgs = append(msgs, UserMsg(fmt.Sprintf("user message %d", i)))
		} else {
			msgs = append(msgs, AssistantMsg(fmt.Sprintf("assistant message %d", i)))
		}
	}
	return msgs
}

// UserMsg returns a scalar user message.
func UserMsg(text string) ctxkit.ModelMessage {
	return ctxkit.UserModelMessage(text)
}

// AssistantMsg returns a scalar assistant message.
func AssistantMsg(text string) ctxkit.ModelMessage {
	return ctxkit.AssistantModelMessage(text)
}

// ToolCallMsg returns an assistant message carrying a single tool call.
// The input is raw JSON; an empty string becomes an empty object.
func ToolCallMsg(id, name, input string) ctxkit.ModelMessage {
	if input == "" {
		input = "{}"
	}
	return ctxkit.AssistantPartsMessage(ctxkit.ContentBlock{
		Type:       ctxkit.ContentTypeToolCall,
		ToolCallID: id,
		ToolName:   name,
		ToolInput:  json.RawMessage(input),
	})
}

// ToolResultMsg returns a tool message answering the given call.
func ToolResultMsg(id, name, content string) ctxkit.ModelMessage {
	return ctxkit.ToolResultModelMessage(id, name, content)
}
