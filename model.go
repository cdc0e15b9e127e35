package ctxkit

import "strings"

// ModelMessage is the strict, model-ready message shape produced by
// normalization and consumed by the agent loop and the compactor.
//
// The allowed content per role:
//
//   - system: scalar Content only
//   - user: scalar Content, or Parts of text/image
//   - assistant: scalar Content, or Parts of text/tool_call
//   - tool: Parts of tool_result only
type ModelMessage struct {
	Role    Role           `json:"role"`
	Content string         `json:"content,omitempty"`
	Parts   []ContentBlock `json:"parts,omitempty"`

	// CacheHint marks content that is stable across turns and may be
	// cached by the provider (e.g. the system prompt).
	CacheHint bool `json:"cache_hint,omitempty"`
}

// IsScalar reports whether the message carries scalar string content.
func (m ModelMessage) IsScalar() bool {
	return m.Parts == nil
}

// IsEmpty reports whether the message has no content at all.
func (m ModelMessage) IsEmpty() bool {
	if m.Parts == nil {
		return strings.TrimSpace(m.Content) == ""
	}
	return len(m.Parts) == 0
}

// ToolCallIDs returns the ids of all tool_call parts, in order.
func (m ModelMessage) ToolCallIDs() []string {
	var ids []string
	for _, p := range m.Parts {
		if p.Type == ContentTypeToolCall {
			ids = append(ids, p.ToolCallID)
		}
	}
	return ids
}

// ToolResultIDs returns the ids answered by tool_result parts, in order.
func (m ModelMessage) ToolResultIDs() []string {
	var ids []string
	for _, p := range m.Parts {
		if p.Type == ContentTypeToolResult {
			ids = append(ids, p.ToolCallID)
		}
	}
	return ids
}

// FirstToolResultID returns the id of the first tool_result part, or ""
// when the message carries none.
func (m ModelMessage) FirstToolResultID() string {
	for _, p := range m.Parts {
		if p.Type == ContentTypeToolResult {
			return p.ToolCallID
		}
	}
	return ""
}

// HasToolCall reports whether the message carries a tool_call part with
// the given id.
func (m ModelMessage) HasToolCall(id string) bool {
	for _, p := range m.Parts {
		if p.Type == ContentTypeToolCall && p.ToolCallID == id {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text content of the message,
// ignoring non-text parts.
func (m ModelMessage) TextContent() string {
	if m.Parts == nil {
		return m.Content
	}
	var b strings.Builder
	for _, p := range m.Parts {
		if p.Type != ContentTypeText || p.Text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// SystemModelMessage creates a system message carrying the given prompt,
// annotated as cacheable.
func SystemModelMessage(text string) ModelMessage {
	return ModelMessage{Role: RoleSystem, Content: text, CacheHint: true}
}

// UserModelMessage creates a user message with scalar text content.
func UserModelMessage(text string) ModelMessage {
	return ModelMessage{Role: RoleUser, Content: text}
}

// AssistantModelMessage creates an assistant message with scalar text content.
func AssistantModelMessage(text string) ModelMessage {
	return ModelMessage{Role: RoleAssistant, Content: text}
}

// AssistantPartsMessage creates an assistant message with structured content.
func AssistantPartsMessage(parts ...ContentBlock) ModelMessage {
	return ModelMessage{Role: RoleAssistant, Parts: parts}
}

// ToolResultModelMessage creates a tool message wrapping a single
// normalized tool_result part.
func ToolResultModelMessage(toolCallID, toolName, content string) ModelMessage {
	return ModelMessage{Role: RoleTool, Parts: []ContentBlock{{
		Type:        ContentTypeToolResult,
		ToolCallID:  toolCallID,
		ToolName:    toolName,
		ToolContent: content,
	}}}
}
