package normalize

import (
	"fmt"
	"strings"

	"github.com/ctxkit/ctxkit"
)

// MaxInlineLines is the line-count ceiling above which file and code
// attachments are not inlined. Larger files get a notice instructing the
// model to use the search and read tools instead.
const MaxInlineLines = 2000

// buildAttachmentParts expands a message with attachments into a parts
// array: the message's own text first (when non-blank), then one part per
// attachment.
func (n *Normalizer) buildAttachmentParts(msg ctxkit.Message) []ctxkit.ContentBlock {
	parts := make([]ctxkit.ContentBlock, 0, len(msg.Attachments)+1)
	if strings.TrimSpace(msg.Content) != "" {
		parts = append(parts, ctxkit.NewTextBlock(msg.Content))
	}

	for _, att := range msg.Attachments {
		switch att.Type {
		case ctxkit.AttachmentImage:
			parts = append(parts, ctxkit.NewImageBlock(att.MediaType, att.Data))
		case ctxkit.AttachmentFile, ctxkit.AttachmentCode:
			parts = append(parts, ctxkit.NewTextBlock(renderFileAttachment(att)))
		default:
			n.logger.Warn("dropping attachment with unknown type",
				"attachment_type", att.Type,
				"message_id", msg.ID,
			)
		}
	}
	return parts
}

// renderFileAttachment produces the text part for a file or code
// attachment, inlining the content only below the line-count ceiling.
func renderFileAttachment(att ctxkit.Attachment) string {
	name := att.Path
	if name == "" {
		name = att.Name
	}

	if countLines(att.Content) > MaxInlineLines {
		return fmt.Sprintf(
			"Attached file %s exceeds %d lines and was not inlined. Use the search and read tools to inspect the relevant sections instead.",
			name, MaxInlineLines,
		)
	}

	if att.Type == ctxkit.AttachmentCode {
		lang := att.Language
		return fmt.Sprintf("Attached file %s:\n\n```%s\n%s\n```", name, lang, att.Content)
	}
	return fmt.Sprintf("Attached file %s:\n\n%s", name, att.Content)
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
