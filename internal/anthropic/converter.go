// Package anthropic converts normalized message sequences into Anthropic
// API request parameters.
package anthropic

import (
	"encoding/json"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/ctxkit/ctxkit"
)

// ToMessageParams converts a normalized sequence into system prompt blocks
// and message parameters for the Anthropic API. System messages become
// cacheable text blocks; tool turns become user-role messages carrying a
// tool_result block, per the API's wire format.
func ToMessageParams(messages []ctxkit.ModelMessage) ([]sdk.TextBlockParam, []sdk.MessageParam, error) {
	var system []sdk.TextBlockParam
	params := make([]sdk.MessageParam, 0, len(messages))

	for i, msg := range messages {
		switch msg.Role {
		case ctxkit.RoleSystem:
			block := sdk.TextBlockParam{Text: msg.TextContent()}
			if msg.CacheHint {
				block.CacheControl = sdk.NewCacheControlEphemeralParam()
			}
			system = append(system, block)

		case ctxkit.RoleUser:
			content, err := convertParts(msg)
			if err != nil {
				return nil, nil, fmt.Errorf("message %d: %w", i, err)
			}
			params = append(params, sdk.MessageParam{
				Role:    sdk.MessageParamRoleUser,
				Content: content,
			})

		case ctxkit.RoleAssistant:
			content, err := convertParts(msg)
			if err != nil {
				return nil, nil, fmt.Errorf("message %d: %w", i, err)
			}
			params = append(params, sdk.MessageParam{
				Role:    sdk.MessageParamRoleAssistant,
				Content: content,
			})

		case ctxkit.RoleTool:
			// The API has no tool role; results travel as user messages.
			content := make([]sdk.ContentBlockParamUnion, 0, len(msg.Parts))
			for _, part := range msg.Parts {
				if part.Type != ctxkit.ContentTypeToolResult {
					continue
				}
				content = append(content, sdk.NewToolResultBlock(part.ToolCallID, part.ToolContent, false))
			}
			if len(content) == 0 {
				return nil, nil, fmt.Errorf("message %d: tool message without tool_result part", i)
			}
			params = append(params, sdk.MessageParam{
				Role:    sdk.MessageParamRoleUser,
				Content: content,
			})

		default:
			return nil, nil, fmt.Errorf("message %d: unsupported role %q", i, msg.Role)
		}
	}

	return system, params, nil
}

func convertParts(msg ctxkit.ModelMessage) ([]sdk.ContentBlockParamUnion, error) {
	if msg.IsScalar() {
		return []sdk.ContentBlockParamUnion{sdk.NewTextBlock(msg.Content)}, nil
	}

	content := make([]sdk.ContentBlockParamUnion, 0, len(msg.Parts))
	for _, part := range msg.Parts {
		switch part.Type {
		case ctxkit.ContentTypeText:
			content = append(content, sdk.NewTextBlock(part.Text))

		case ctxkit.ContentTypeImage:
			content = append(content, sdk.NewImageBlockBase64(part.MediaType, part.ImageData))

		case ctxkit.ContentTypeToolCall:
			var input any
			if len(part.ToolInput) > 0 {
				if err := json.Unmarshal(part.ToolInput, &input); err != nil {
					input = map[string]any{}
				}
			}
			// The API requires a dictionary, not null.
			if input == nil {
				input = map[string]any{}
			}
			content = append(content, sdk.NewToolUseBlock(part.ToolCallID, input, part.ToolName))

		case ctxkit.ContentTypeToolResult:
			content = append(content, sdk.NewToolResultBlock(part.ToolCallID, part.ToolContent, false))

		default:
			return nil, fmt.Errorf("unsupported content type %q", part.Type)
		}
	}
	return content, nil
}
