package compaction

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/ctxkit/ctxkit"
)

// resourceKeys are the tool input fields, in precedence order, that
// identify the resource a file-read call targets.
var resourceKeys = []string{"file_path", "path", "filename"}

// planRedundancy removes compress candidates whose information is
// superseded or stale: duplicate reads of the same resource keep only the
// latest occurrence, and exploratory tool pairs are dropped once they fall
// outside the protection window at the end of the region.
func planRedundancy(region []ctxkit.ModelMessage, cfg *Config, plan *regionPlan) {
	planFileReads(region, cfg, plan)
	planExploratory(region, cfg, plan)
}

func planFileReads(region []ctxkit.ModelMessage, cfg *Config, plan *regionPlan) {
	fileRead := toSet(cfg.FileReadTools)
	if len(fileRead) == 0 {
		return
	}

	type callRef struct {
		index int
		id    string
	}
	latest := make(map[string]callRef)
	var stale []callRef

	for i := range region {
		if plan.dropped[i] {
			continue
		}
		msg := plan.view(region, i)
		if msg.Role != ctxkit.RoleAssistant {
			continue
		}
		for _, part := range msg.Parts {
			if part.Type != ctxkit.ContentTypeToolCall || !fileRead[part.ToolName] {
				continue
			}
			res := resourceIdentity(part.ToolInput)
			if res == "" {
				continue
			}
			if prev, ok := latest[res]; ok {
				stale = append(stale, prev)
			}
			latest[res] = callRef{index: i, id: part.ToolCallID}
		}
	}

	for _, ref := range stale {
		if plan.critical[ref.index] {
			continue
		}
		plan.dropCallPair(region, ref.index, ref.id)
	}
}

func planExploratory(region []ctxkit.ModelMessage, cfg *Config, plan *regionPlan) {
	exploratory := toSet(cfg.ExploratoryTools)
	if len(exploratory) == 0 {
		return
	}
	protectFrom := len(region) - cfg.ExploratoryWindow
	if protectFrom <= 0 {
		return
	}

	for i := 0; i < protectFrom; i++ {
		if plan.dropped[i] || plan.critical[i] {
			continue
		}
		msg := plan.view(region, i)
		if msg.Role != ctxkit.RoleAssistant {
			continue
		}
		var ids []string
		for _, part := range msg.Parts {
			if part.Type == ctxkit.ContentTypeToolCall && exploratory[part.ToolName] {
				ids = append(ids, part.ToolCallID)
			}
		}
		for _, id := range ids {
			plan.dropCallPair(region, i, id)
		}
	}
}

// resourceIdentity extracts the resource a tool call targets from its
// input JSON. An empty string means the call has no recognizable resource
// and is never treated as a duplicate.
func resourceIdentity(input json.RawMessage) string {
	if len(input) == 0 {
		return ""
	}
	for _, key := range resourceKeys {
		if v := gjson.GetBytes(input, key); v.Exists() {
			return v.String()
		}
	}
	return ""
}
