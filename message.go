package ctxkit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NewMessage creates a raw message with a fresh id and timestamp.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a raw user message with text content.
func NewUserMessage(text string) Message {
	return NewMessage(RoleUser, text)
}

// NewAssistantMessage creates a raw assistant message with text content.
func NewAssistantMessage(text string) Message {
	return NewMessage(RoleAssistant, text)
}

// NewToolCallMessage creates a raw tool message recording an invocation.
func NewToolCallMessage(toolCallID, toolName string, input map[string]any) Message {
	msg := NewMessage(RoleTool, "")
	msg.ToolCallID = toolCallID
	msg.ToolName = toolName
	msg.Parts = []ContentBlock{NewToolCallBlock(toolCallID, toolName, input)}
	return msg
}

// NewToolResultMessage creates a raw tool message recording a result.
// Output may be nil, a string, or any JSON-serializable value.
func NewToolResultMessage(toolCallID, toolName string, output any) Message {
	msg := NewMessage(RoleTool, "")
	msg.ToolCallID = toolCallID
	msg.ToolName = toolName
	msg.Parts = []ContentBlock{NewToolResultBlock(toolCallID, toolName, output)}
	return msg
}

// NewTextBlock creates a text content block.
func NewTextBlock(text string) ContentBlock {
	return ContentBlock{Type: ContentTypeText, Text: text}
}

// NewImageBlock creates an inline image content block.
func NewImageBlock(mediaType, data string) ContentBlock {
	return ContentBlock{Type: ContentTypeImage, MediaType: mediaType, ImageData: data}
}

// NewToolCallBlock creates a tool_call content block.
func NewToolCallBlock(toolCallID, toolName string, input map[string]any) ContentBlock {
	inputRaw, _ := json.Marshal(input)
	return ContentBlock{
		Type:       ContentTypeToolCall,
		ToolCallID: toolCallID,
		ToolName:   toolName,
		ToolInput:  inputRaw,
	}
}

// NewToolResultBlock creates a tool_result content block with the raw
// output payload. Normalization converts the payload to text.
func NewToolResultBlock(toolCallID, toolName string, output any) ContentBlock {
	block := ContentBlock{
		Type:       ContentTypeToolResult,
		ToolCallID: toolCallID,
		ToolName:   toolName,
	}
	if output != nil {
		if raw, err := json.Marshal(output); err == nil {
			block.ToolOutput = raw
		}
	}
	return block
}
