package ctxkit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ContentType discriminates the variants of a ContentBlock.
type ContentType string

const (
	ContentTypeText       ContentType = "text"
	ContentTypeImage      ContentType = "image"
	ContentTypeToolCall   ContentType = "tool_call"
	ContentTypeToolResult ContentType = "tool_result"
)

// AttachmentType identifies the kind of an Attachment.
type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentFile  AttachmentType = "file"
	AttachmentCode  AttachmentType = "code"
)

// Attachment is a file, code snippet, or image attached to a raw message
// before normalization.
type Attachment struct {
	Type AttachmentType `json:"type"`

	// Name is the display name of the attachment.
	Name string `json:"name,omitempty"`

	// Path is the filesystem path for file and code attachments.
	Path string `json:"path,omitempty"`

	// Language is the source language hint for code attachments.
	Language string `json:"language,omitempty"`

	// Content is the inline text for file and code attachments.
	Content string `json:"content,omitempty"`

	// MediaType and Data carry inline image payloads (base64).
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data,omitempty"`
}

// ContentBlock represents a single content part within a message.
// Different fields are populated based on the Type.
type ContentBlock struct {
	Type ContentType `json:"type"`

	// Text content (ContentTypeText)
	Text string `json:"text,omitempty"`

	// Image content (ContentTypeImage)
	MediaType string `json:"media_type,omitempty"`
	ImageData string `json:"image_data,omitempty"`

	// Tool identification (ContentTypeToolCall, ContentTypeToolResult).
	// For a tool result, ToolCallID is the id of the call it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"`

	// ToolInput is the raw invocation input (ContentTypeToolCall).
	ToolInput json.RawMessage `json:"tool_input,omitempty"`

	// ToolOutput is the raw, possibly non-string result payload as recorded
	// (ContentTypeToolResult). Normalization converts it to ToolContent.
	ToolOutput json.RawMessage `json:"tool_output,omitempty"`

	// ToolContent is the normalized result text (ContentTypeToolResult).
	ToolContent string `json:"tool_content,omitempty"`
}

// Message is a raw conversation message as recorded by the application,
// before normalization. Content carries scalar text; Parts, when non-nil,
// takes precedence and carries structured content.
type Message struct {
	ID          uuid.UUID      `json:"id"`
	Role        Role           `json:"role"`
	Content     string         `json:"content,omitempty"`
	Parts       []ContentBlock `json:"parts,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	Attachments []Attachment   `json:"attachments,omitempty"`

	// Convenience fields for tool messages recorded without structured
	// parts metadata. Used to backfill blank part fields.
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"`
}
