package compaction

import (
	"strings"
	"testing"

	"github.com/ctxkit/ctxkit"
	"github.com/ctxkit/ctxkit/internal/testutil"
)

func TestBuildMessages(t *testing.T) {
	preserved := []ctxkit.ModelMessage{
		ctxkit.SystemModelMessage("prompt"),
		testutil.UserMsg("recent question"),
		testutil.AssistantMsg("recent answer"),
	}

	out := BuildMessages("the summary", preserved)
	if len(out) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(out))
	}

	if out[0].Role != ctxkit.RoleSystem {
		t.Errorf("first message role = %q, want system", out[0].Role)
	}
	if out[1].Role != ctxkit.RoleUser || !strings.HasPrefix(out[1].Content, SummaryMarker) {
		t.Errorf("summary message = %+v", out[1])
	}
	if !strings.Contains(out[1].Content, "the summary") {
		t.Errorf("summary message does not carry the summary: %q", out[1].Content)
	}
	if out[2].Role != ctxkit.RoleAssistant {
		t.Errorf("acknowledgment role = %q, want assistant", out[2].Role)
	}
	if out[3].Content != "recent question" || out[4].Content != "recent answer" {
		t.Errorf("preserved tail out of place: %+v", out[3:])
	}
}

func TestBuildMessagesEmptySummary(t *testing.T) {
	preserved := []ctxkit.ModelMessage{
		ctxkit.SystemModelMessage("prompt"),
		testutil.UserMsg("question"),
	}
	out := BuildMessages("", preserved)
	if len(out) != 2 {
		t.Fatalf("expected pass-through, got %d messages", len(out))
	}
	for _, msg := range out {
		if strings.Contains(msg.Content, SummaryMarker) {
			t.Errorf("unexpected summary marker in %+v", msg)
		}
	}
}

func TestBuildMessagesStripsStaleSummaries(t *testing.T) {
	stale := BuildMessages("old summary", []ctxkit.ModelMessage{
		ctxkit.SystemModelMessage("prompt"),
		testutil.UserMsg("older question"),
	})

	out := BuildMessages("new summary", stale)

	markers := 0
	for _, msg := range out {
		if strings.HasPrefix(strings.TrimSpace(msg.TextContent()), SummaryMarker) {
			markers++
			if !strings.Contains(msg.Content, "new summary") {
				t.Errorf("surviving summary is not the new one: %q", msg.Content)
			}
		}
		if strings.Contains(msg.Content, "old summary") {
			t.Errorf("stale summary survived: %q", msg.Content)
		}
	}
	if markers != 1 {
		t.Errorf("expected exactly 1 summary marker, got %d", markers)
	}

	// system + summary + ack + the one original user message
	if len(out) != 4 {
		t.Fatalf("expected 4 messages, got %d: %+v", len(out), out)
	}
	if out[len(out)-1].Content != "older question" {
		t.Errorf("preserved message lost: %+v", out)
	}
}
