package anthropic

import (
	"testing"

	"github.com/ctxkit/ctxkit"
)

func TestToMessageParams(t *testing.T) {
	messages := []ctxkit.ModelMessage{
		ctxkit.SystemModelMessage("you are helpful"),
		ctxkit.UserModelMessage("run the tests"),
		ctxkit.AssistantPartsMessage(
			ctxkit.NewTextBlock("running"),
			ctxkit.NewToolCallBlock("c1", "bash", map[string]any{"command": "go test"}),
		),
		ctxkit.ToolResultModelMessage("c1", "bash", "ok"),
		ctxkit.AssistantModelMessage("all green"),
	}

	system, params, err := ToMessageParams(messages)
	if err != nil {
		t.Fatalf("ToMessageParams() error = %v", err)
	}

	if len(system) != 1 {
		t.Fatalf("system blocks = %d, want 1", len(system))
	}
	if system[0].Text != "you are helpful" {
		t.Errorf("system text = %q", system[0].Text)
	}

	if len(params) != 4 {
		t.Fatalf("params = %d, want 4", len(params))
	}

	wantRoles := []string{"user", "assistant", "user", "assistant"}
	for i, want := range wantRoles {
		if string(params[i].Role) != want {
			t.Errorf("params[%d].Role = %q, want %q", i, params[i].Role, want)
		}
	}

	if params[1].Content[1].OfToolUse == nil {
		t.Error("assistant tool call was not converted to a tool_use block")
	}
	// Tool results travel as user messages.
	if params[2].Content[0].OfToolResult == nil {
		t.Error("tool turn was not converted to a tool_result block")
	}
}

func TestToMessageParamsToolWithoutResult(t *testing.T) {
	messages := []ctxkit.ModelMessage{
		{Role: ctxkit.RoleTool, Parts: []ctxkit.ContentBlock{ctxkit.NewTextBlock("stray")}},
	}
	if _, _, err := ToMessageParams(messages); err == nil {
		t.Error("expected error for tool message without a tool_result part")
	}
}

func TestToMessageParamsUnknownRole(t *testing.T) {
	messages := []ctxkit.ModelMessage{{Role: "narrator", Content: "meanwhile"}}
	if _, _, err := ToMessageParams(messages); err == nil {
		t.Error("expected error for unsupported role")
	}
}
