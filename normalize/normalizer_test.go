package normalize

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ctxkit/ctxkit"
)

func TestNormalizeSystemPrompt(t *testing.T) {
	out, err := Normalize(nil, Options{SystemPrompt: "You are a coding assistant."})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 message, got %d", len(out))
	}
	if out[0].Role != ctxkit.RoleSystem {
		t.Errorf("role = %q, want system", out[0].Role)
	}
	if !out[0].CacheHint {
		t.Error("system message should carry the cache hint")
	}
	if out[0].Content != "You are a coding assistant." {
		t.Errorf("content = %q", out[0].Content)
	}
}

func TestNormalizeDropsInputSystemMessages(t *testing.T) {
	messages := []ctxkit.Message{
		ctxkit.NewMessage(ctxkit.RoleSystem, "stale system prompt"),
		ctxkit.NewUserMessage("hello"),
	}
	out, err := Normalize(messages, Options{SystemPrompt: "fresh prompt"})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(out))
	}
	if out[0].Content != "fresh prompt" {
		t.Errorf("system content = %q, want option-supplied prompt", out[0].Content)
	}
	if out[1].Role != ctxkit.RoleUser {
		t.Errorf("second message role = %q, want user", out[1].Role)
	}
}

func TestNormalizeGolden(t *testing.T) {
	callBlock := ctxkit.NewToolCallBlock("call_1", "read", map[string]any{"file_path": "main.go"})

	callMsg := ctxkit.NewMessage(ctxkit.RoleTool, "")
	callMsg.Parts = []ctxkit.ContentBlock{callBlock}

	messages := []ctxkit.Message{
		ctxkit.NewUserMessage("read main.go"),
		callMsg,
		ctxkit.NewToolResultMessage("call_1", "read", "package main"),
		ctxkit.NewAssistantMessage("done"),
	}

	got, err := Normalize(messages, Options{SystemPrompt: "prompt"})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	want := []ctxkit.ModelMessage{
		ctxkit.SystemModelMessage("prompt"),
		ctxkit.UserModelMessage("read main.go"),
		ctxkit.AssistantPartsMessage(callBlock),
		ctxkit.ToolResultModelMessage("call_1", "read", "package main"),
		ctxkit.AssistantModelMessage("done"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("normalized messages mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeSkipsOrphanedToolCalls(t *testing.T) {
	messages := []ctxkit.Message{
		ctxkit.NewUserMessage("do something"),
		ctxkit.NewToolCallMessage("call_orphan", "bash", map[string]any{"command": "ls"}),
	}
	out, err := Normalize(messages, Options{})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 message, got %d", len(out))
	}
	if out[0].Role != ctxkit.RoleUser {
		t.Errorf("remaining message role = %q, want user", out[0].Role)
	}
}

func TestNormalizeToolOutput(t *testing.T) {
	tests := []struct {
		name   string
		output any
		want   string
	}{
		{"nil output", nil, ""},
		{"string passes through unquoted", "hello world", "hello world"},
		{"object serialized compact", map[string]any{"ok": true}, `{"ok":true}`},
		{"number serialized", 42, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := []ctxkit.Message{
				ctxkit.NewUserMessage("run it"),
				ctxkit.NewToolCallMessage("call_1", "bash", nil),
				ctxkit.NewToolResultMessage("call_1", "bash", tt.output),
			}
			out, err := Normalize(messages, Options{})
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			last := out[len(out)-1]
			if last.Role != ctxkit.RoleTool {
				t.Fatalf("last message role = %q, want tool", last.Role)
			}
			if got := last.Parts[0].ToolContent; got != tt.want {
				t.Errorf("tool content = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeMergesConsecutiveAssistants(t *testing.T) {
	messages := []ctxkit.Message{
		ctxkit.NewUserMessage("hi"),
		ctxkit.NewAssistantMessage("First part"),
		ctxkit.NewAssistantMessage("Second part"),
	}
	out, err := Normalize(messages, Options{})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(out))
	}
	merged := out[1]
	if merged.Role != ctxkit.RoleAssistant {
		t.Fatalf("merged role = %q, want assistant", merged.Role)
	}
	if len(merged.Parts) != 2 {
		t.Fatalf("merged parts = %d, want 2", len(merged.Parts))
	}
	if merged.Parts[0].Text != "First part" || merged.Parts[1].Text != "Second part" {
		t.Errorf("merged parts = %q, %q", merged.Parts[0].Text, merged.Parts[1].Text)
	}
}

func TestNormalizeDropsEmptyAssistants(t *testing.T) {
	messages := []ctxkit.Message{
		ctxkit.NewUserMessage("hi"),
		ctxkit.NewAssistantMessage("   "),
		ctxkit.NewUserMessage("still there?"),
	}
	out, err := Normalize(messages, Options{})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(out))
	}
	for _, msg := range out {
		if msg.Role == ctxkit.RoleAssistant {
			t.Errorf("blank assistant message survived normalization")
		}
	}
}

func TestNormalizeInvalidSequence(t *testing.T) {
	// A duplicated tool result breaks the call/result bijection.
	messages := []ctxkit.Message{
		ctxkit.NewUserMessage("run it"),
		ctxkit.NewToolCallMessage("call_1", "bash", nil),
		ctxkit.NewToolResultMessage("call_1", "bash", "first"),
		ctxkit.NewToolResultMessage("call_1", "bash", "second"),
	}
	_, err := Normalize(messages, Options{})
	if err == nil {
		t.Fatal("expected error for duplicated tool result")
	}
	if !errors.Is(err, ctxkit.ErrInvalidMessageFormat) {
		t.Errorf("error = %v, want ErrInvalidMessageFormat", err)
	}
	var fe *ctxkit.FormatError
	if !errors.As(err, &fe) {
		t.Errorf("error should be a *FormatError, got %T", err)
	}
}

func TestNormalizeAttachments(t *testing.T) {
	t.Run("small file inlined", func(t *testing.T) {
		msg := ctxkit.NewUserMessage("look at this")
		msg.Attachments = []ctxkit.Attachment{{
			Type:    ctxkit.AttachmentFile,
			Path:    "notes.txt",
			Content: "line one\nline two",
		}}
		out, err := Normalize([]ctxkit.Message{msg}, Options{})
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		parts := out[0].Parts
		if len(parts) != 2 {
			t.Fatalf("expected 2 parts, got %d", len(parts))
		}
		if parts[0].Text != "look at this" {
			t.Errorf("leading text = %q", parts[0].Text)
		}
		if !strings.Contains(parts[1].Text, "notes.txt") || !strings.Contains(parts[1].Text, "line one") {
			t.Errorf("attachment part = %q", parts[1].Text)
		}
	})

	t.Run("code attachment fenced", func(t *testing.T) {
		msg := ctxkit.NewUserMessage("")
		msg.Attachments = []ctxkit.Attachment{{
			Type:     ctxkit.AttachmentCode,
			Path:     "main.go",
			Language: "go",
			Content:  "package main",
		}}
		out, err := Normalize([]ctxkit.Message{msg}, Options{})
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if got := out[0].Parts[0].Text; !strings.Contains(got, "```go\npackage main\n```") {
			t.Errorf("code attachment part = %q", got)
		}
	})

	t.Run("oversized file replaced with notice", func(t *testing.T) {
		msg := ctxkit.NewUserMessage("")
		msg.Attachments = []ctxkit.Attachment{{
			Type:    ctxkit.AttachmentFile,
			Path:    "big.log",
			Content: strings.Repeat("x\n", MaxInlineLines+1),
		}}
		out, err := Normalize([]ctxkit.Message{msg}, Options{})
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		got := out[0].Parts[0].Text
		if strings.Contains(got, "x\nx") {
			t.Error("oversized attachment content was inlined")
		}
		if !strings.Contains(got, "big.log") || !strings.Contains(got, "exceeds") {
			t.Errorf("notice = %q", got)
		}
	})

	t.Run("image attachment", func(t *testing.T) {
		msg := ctxkit.NewUserMessage("what is this")
		msg.Attachments = []ctxkit.Attachment{{
			Type:      ctxkit.AttachmentImage,
			MediaType: "image/png",
			Data:      "aGVsbG8=",
		}}
		out, err := Normalize([]ctxkit.Message{msg}, Options{})
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		parts := out[0].Parts
		if len(parts) != 2 {
			t.Fatalf("expected 2 parts, got %d", len(parts))
		}
		if parts[1].Type != ctxkit.ContentTypeImage || parts[1].MediaType != "image/png" {
			t.Errorf("image part = %+v", parts[1])
		}
	})
}
