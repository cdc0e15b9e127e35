package normalize

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ctxkit/ctxkit"
)

// Options configures a normalization pass.
type Options struct {
	// SystemPrompt, when non-empty, is emitted as the single leading
	// system message. System messages in the input history are dropped;
	// the option-supplied prompt is authoritative.
	SystemPrompt string
}

// Normalizer converts raw message histories into strict model-ready
// sequences.
type Normalizer struct {
	logger ctxkit.Logger
}

// New creates a Normalizer. A nil logger disables diagnostics.
func New(logger ctxkit.Logger) *Normalizer {
	if logger == nil {
		logger = ctxkit.NopLogger{}
	}
	return &Normalizer{logger: logger}
}

// Normalize converts messages using a Normalizer without diagnostics.
func Normalize(messages []ctxkit.Message, opts Options) ([]ctxkit.ModelMessage, error) {
	return New(nil).Normalize(messages, opts)
}

// Normalize converts a raw history into a strict ModelMessage sequence.
// It returns an error wrapping ctxkit.ErrInvalidMessageFormat if the final
// sequence violates a structural invariant.
func (n *Normalizer) Normalize(messages []ctxkit.Message, opts Options) ([]ctxkit.ModelMessage, error) {
	resolved := collectResolvedCalls(messages)

	out := make([]ctxkit.ModelMessage, 0, len(messages)+1)
	if opts.SystemPrompt != "" {
		out = append(out, ctxkit.SystemModelMessage(opts.SystemPrompt))
	}

	for _, msg := range messages {
		switch msg.Role {
		case ctxkit.RoleSystem:
			// The option-supplied prompt is authoritative.
			continue
		case ctxkit.RoleTool:
			out = append(out, n.normalizeToolMessage(msg, resolved)...)
		case ctxkit.RoleUser, ctxkit.RoleAssistant:
			if m, ok := n.normalizeChatMessage(msg, resolved); ok {
				out = append(out, m)
			}
		default:
			n.logger.Warn("dropping message with unknown role",
				"role", msg.Role,
				"message_id", msg.ID,
			)
		}
	}

	out = n.mergeAssistantRuns(out)

	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// collectResolvedCalls builds the set of tool call ids that have an
// associated tool_result part anywhere in the history. Calls outside this
// set are orphans from interrupted executions.
func collectResolvedCalls(messages []ctxkit.Message) map[string]bool {
	resolved := make(map[string]bool)
	for _, msg := range messages {
		if msg.Role != ctxkit.RoleTool {
			continue
		}
		for _, part := range msg.Parts {
			if part.Type != ctxkit.ContentTypeToolResult {
				continue
			}
			if id := firstNonEmpty(part.ToolCallID, msg.ToolCallID); id != "" {
				resolved[id] = true
			}
		}
	}
	return resolved
}

// normalizeToolMessage re-emits a recorded tool message as the model-ready
// turn(s) it represents: a tool_call becomes an assistant turn, a
// tool_result becomes a tool turn. Orphaned calls are skipped.
func (n *Normalizer) normalizeToolMessage(msg ctxkit.Message, resolved map[string]bool) []ctxkit.ModelMessage {
	if len(msg.Parts) == 0 {
		n.logger.Debug("skipping tool message with empty content", "message_id", msg.ID)
		return nil
	}

	var out []ctxkit.ModelMessage
	for _, part := range msg.Parts {
		id := firstNonEmpty(part.ToolCallID, msg.ToolCallID)
		name := firstNonEmpty(part.ToolName, msg.ToolName)

		switch part.Type {
		case ctxkit.ContentTypeToolCall:
			if !resolved[id] {
				n.logger.Warn("skipping orphaned tool call",
					"tool_call_id", id,
					"tool_name", name,
				)
				continue
			}
			part.ToolCallID = id
			part.ToolName = name
			out = append(out, ctxkit.AssistantPartsMessage(part))

		case ctxkit.ContentTypeToolResult:
			out = append(out, ctxkit.ToolResultModelMessage(id, name, normalizeToolOutput(part)))

		default:
			n.logger.Warn("dropping unexpected part in tool message",
				"part_type", part.Type,
				"message_id", msg.ID,
			)
		}
	}
	return out
}

// normalizeToolOutput converts a recorded tool result payload to text:
// missing or null payloads become the empty string, JSON strings pass
// through unquoted, and structured payloads are serialized as compact JSON.
func normalizeToolOutput(part ctxkit.ContentBlock) string {
	if part.ToolContent != "" {
		return part.ToolContent
	}
	raw := bytes.TrimSpace(part.ToolOutput)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err == nil {
		return buf.String()
	}
	return string(raw)
}

// normalizeChatMessage converts a user or assistant input message. The
// second return value is false when the message should be dropped.
func (n *Normalizer) normalizeChatMessage(msg ctxkit.Message, resolved map[string]bool) (ctxkit.ModelMessage, bool) {
	if len(msg.Attachments) > 0 {
		return ctxkit.ModelMessage{Role: msg.Role, Parts: n.buildAttachmentParts(msg)}, true
	}

	if msg.Parts != nil {
		parts := n.filterChatParts(msg, resolved)
		if len(parts) == 0 && msg.Role == ctxkit.RoleAssistant {
			n.logger.Debug("dropping assistant message with no remaining content", "message_id", msg.ID)
			return ctxkit.ModelMessage{}, false
		}
		return ctxkit.ModelMessage{Role: msg.Role, Parts: parts}, true
	}

	if msg.Role == ctxkit.RoleAssistant && strings.TrimSpace(msg.Content) == "" {
		n.logger.Debug("dropping empty assistant message", "message_id", msg.ID)
		return ctxkit.ModelMessage{}, false
	}
	return ctxkit.ModelMessage{Role: msg.Role, Content: msg.Content}, true
}

// filterChatParts keeps the parts a user or assistant turn may carry,
// dropping empty text parts and orphaned tool calls.
func (n *Normalizer) filterChatParts(msg ctxkit.Message, resolved map[string]bool) []ctxkit.ContentBlock {
	parts := make([]ctxkit.ContentBlock, 0, len(msg.Parts))
	for _, part := range msg.Parts {
		switch part.Type {
		case ctxkit.ContentTypeText:
			if strings.TrimSpace(part.Text) != "" {
				parts = append(parts, part)
			}
		case ctxkit.ContentTypeImage:
			if msg.Role == ctxkit.RoleUser {
				parts = append(parts, part)
			}
		case ctxkit.ContentTypeToolCall:
			if msg.Role != ctxkit.RoleAssistant {
				continue
			}
			if !resolved[part.ToolCallID] {
				n.logger.Warn("skipping orphaned tool call",
					"tool_call_id", part.ToolCallID,
					"tool_name", part.ToolName,
				)
				continue
			}
			parts = append(parts, part)
		}
	}
	return parts
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
