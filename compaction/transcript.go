package compaction

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ctxkit/ctxkit"
)

// maxTranscriptToolResult caps how much of a tool result makes it into the
// summarization transcript. Full results are preserved verbatim messages;
// the transcript only needs enough for the summarizer to follow the story.
const maxTranscriptToolResult = 500

var transcriptSanitizer = bluemonday.StrictPolicy()

// formatTranscript renders messages as a plain-text conversation for the
// summarizer. Messages with no renderable content are omitted.
func formatTranscript(messages []ctxkit.ModelMessage) string {
	var b strings.Builder
	for _, msg := range messages {
		content := transcriptContent(msg)
		if content == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n\n", roleLabel(msg.Role), content)
	}
	return strings.TrimSpace(b.String())
}

func roleLabel(role ctxkit.Role) string {
	switch role {
	case ctxkit.RoleUser:
		return "User"
	case ctxkit.RoleAssistant:
		return "Assistant"
	case ctxkit.RoleTool:
		return "Tool"
	case ctxkit.RoleSystem:
		return "System"
	}
	return string(role)
}

// transcriptContent extracts readable text from a message.
func transcriptContent(msg ctxkit.ModelMessage) string {
	if msg.IsScalar() {
		return strings.TrimSpace(msg.Content)
	}

	var parts []string
	for _, part := range msg.Parts {
		switch part.Type {
		case ctxkit.ContentTypeText:
			if s := strings.TrimSpace(part.Text); s != "" {
				parts = append(parts, s)
			}
		case ctxkit.ContentTypeToolCall:
			parts = append(parts, fmt.Sprintf("[Tool: %s, Input: %s]", part.ToolName, string(part.ToolInput)))
		case ctxkit.ContentTypeToolResult:
			result := sanitizeToolResult(part.ToolContent)
			if len(result) > maxTranscriptToolResult {
				result = result[:maxTranscriptToolResult-3] + "..."
			}
			parts = append(parts, fmt.Sprintf("[Tool Result for %s: %s]", part.ToolName, result))
		case ctxkit.ContentTypeImage:
			parts = append(parts, "[Image]")
		}
	}
	return strings.Join(parts, "\n")
}

// sanitizeToolResult strips markup from tool output that fetched web or
// HTML content, so the transcript stays plain text.
func sanitizeToolResult(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	return strings.TrimSpace(transcriptSanitizer.Sanitize(s))
}
