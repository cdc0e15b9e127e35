package compaction

import (
	"encoding/json"
	"testing"

	"github.com/ctxkit/ctxkit"
	"github.com/ctxkit/ctxkit/internal/testutil"
)

func TestPlanFileReadsKeepsLatest(t *testing.T) {
	region := []ctxkit.ModelMessage{
		testutil.ToolCallMsg("r1", "read", `{"file_path":"a.go"}`),
		testutil.ToolResultMsg("r1", "read", "old contents"),
		testutil.UserMsg("edit it"),
		testutil.ToolCallMsg("r2", "read", `{"file_path":"a.go"}`),
		testutil.ToolResultMsg("r2", "read", "new contents"),
		testutil.ToolCallMsg("r3", "read", `{"file_path":"b.go"}`),
		testutil.ToolResultMsg("r3", "read", "other contents"),
	}

	cfg := DefaultConfig()
	plan := newRegionPlan()
	planFileReads(region, &cfg, plan)

	if !plan.dropped[0] || !plan.dropped[1] {
		t.Errorf("stale read pair not dropped: %+v", plan.dropped)
	}
	for _, i := range []int{3, 4, 5, 6} {
		if plan.dropped[i] {
			t.Errorf("message %d dropped, want kept", i)
		}
	}
}

func TestPlanExploratoryOutsideWindow(t *testing.T) {
	region := []ctxkit.ModelMessage{
		testutil.ToolCallMsg("s1", "search", `{"query":"foo"}`),
		testutil.ToolResultMsg("s1", "search", "ten matches"),
		testutil.UserMsg("narrow it down"),
		testutil.AssistantMsg("narrowing"),
		testutil.ToolCallMsg("s2", "search", `{"query":"foo bar"}`),
		testutil.ToolResultMsg("s2", "search", "two matches"),
	}

	cfg := DefaultConfig()
	cfg.ExploratoryWindow = 3
	plan := newRegionPlan()
	planExploratory(region, &cfg, plan)

	if !plan.dropped[0] || !plan.dropped[1] {
		t.Errorf("old exploratory pair not dropped: %+v", plan.dropped)
	}
	if plan.dropped[4] || plan.dropped[5] {
		t.Error("exploratory pair inside the protection window was dropped")
	}
}

func TestPlanExploratoryKeepsNonExploratory(t *testing.T) {
	region := []ctxkit.ModelMessage{
		testutil.ToolCallMsg("b1", "bash", `{"command":"go test"}`),
		testutil.ToolResultMsg("b1", "bash", "ok"),
		testutil.UserMsg("good"),
	}
	cfg := DefaultConfig()
	cfg.ExploratoryWindow = 1
	plan := newRegionPlan()
	planExploratory(region, &cfg, plan)

	if len(plan.dropped) != 0 {
		t.Errorf("non-exploratory messages dropped: %+v", plan.dropped)
	}
}

func TestResourceIdentity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"file_path", `{"file_path":"main.go"}`, "main.go"},
		{"path", `{"path":"lib/util.go"}`, "lib/util.go"},
		{"filename", `{"filename":"notes.txt"}`, "notes.txt"},
		{"file_path wins over path", `{"path":"b","file_path":"a"}`, "a"},
		{"no resource key", `{"query":"foo"}`, ""},
		{"empty input", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resourceIdentity(json.RawMessage(tt.input)); got != tt.want {
				t.Errorf("resourceIdentity(%s) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
