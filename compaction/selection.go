package compaction

import (
	"github.com/ctxkit/ctxkit"
)

// selection splits a conversation into the leading system message, the
// compress-candidate region, and the verbatim-preserved tail.
type selection struct {
	system *ctxkit.ModelMessage
	region []ctxkit.ModelMessage
	tail   []ctxkit.ModelMessage
}

// selectMessages partitions messages for compaction. The tail holds the
// last preserveRecent messages, widened backward so it never opens on a
// tool result whose call would land in the region.
func selectMessages(messages []ctxkit.ModelMessage, preserveRecent int) selection {
	var sel selection
	rest := messages
	if len(rest) > 0 && rest[0].Role == ctxkit.RoleSystem {
		sel.system = &rest[0]
		rest = rest[1:]
	}
	if len(rest) <= preserveRecent {
		sel.tail = rest
		return sel
	}

	cut := adjustBoundary(rest, len(rest)-preserveRecent)
	sel.region = rest[:cut]
	sel.tail = rest[cut:]
	return sel
}

// adjustBoundary moves the region/tail cut backward while the tail opens
// on a tool result whose call is not inside the tail.
func adjustBoundary(rest []ctxkit.ModelMessage, cut int) int {
	for cut > 0 && cut < len(rest) {
		id := rest[cut].FirstToolResultID()
		if id == "" || windowHasToolCall(rest[cut:], id) {
			break
		}
		cut--
	}
	return cut
}

func windowHasToolCall(window []ctxkit.ModelMessage, id string) bool {
	for _, msg := range window {
		if msg.HasToolCall(id) {
			return true
		}
	}
	return false
}

// regionPlan records, per region index, how each message leaves the
// compress-candidate region: preserved verbatim as critical, dropped, or
// rewritten with some tool_call parts stripped. Applying the plan keeps
// original message order in every derived set.
type regionPlan struct {
	critical map[int]bool
	dropped  map[int]bool
	replace  map[int]ctxkit.ModelMessage
}

func newRegionPlan() *regionPlan {
	return &regionPlan{
		critical: make(map[int]bool),
		dropped:  make(map[int]bool),
		replace:  make(map[int]ctxkit.ModelMessage),
	}
}

// view returns the current shape of region[i], honoring replacements.
func (p *regionPlan) view(region []ctxkit.ModelMessage, i int) ctxkit.ModelMessage {
	if m, ok := p.replace[i]; ok {
		return m
	}
	return region[i]
}

// dropCallPair removes one tool call and its result from the region. The
// carrying message is dropped outright when the call was its only content.
func (p *regionPlan) dropCallPair(region []ctxkit.ModelMessage, i int, id string) {
	stripped := stripToolCalls(p.view(region, i), map[string]bool{id: true})
	if stripped.IsEmpty() && !p.critical[i] {
		p.dropped[i] = true
	} else {
		p.replace[i] = stripped
	}
	if j := indexOfToolResult(region, id); j >= 0 && !p.critical[j] {
		p.dropped[j] = true
	}
}

// apply splits the region into critical messages (kept verbatim alongside
// the tail) and the remaining compress candidates.
func (p *regionPlan) apply(region []ctxkit.ModelMessage) (critical, toCompress []ctxkit.ModelMessage) {
	for i := range region {
		if p.dropped[i] {
			continue
		}
		msg := p.view(region, i)
		if p.critical[i] {
			critical = append(critical, msg)
		} else {
			toCompress = append(toCompress, msg)
		}
	}
	return critical, toCompress
}

// structural returns the region after drops and replacements, with
// critical messages and compress candidates interleaved in original order.
func (p *regionPlan) structural(region []ctxkit.ModelMessage) []ctxkit.ModelMessage {
	out := make([]ctxkit.ModelMessage, 0, len(region))
	for i := range region {
		if p.dropped[i] {
			continue
		}
		out = append(out, p.view(region, i))
	}
	return out
}

// planCritical marks the most recent call/result pair of each critical
// tool for verbatim preservation and discards that tool's earlier pairs.
// When a preserved turn carries several tool calls, all of their results
// come along so no pair is split.
func planCritical(region []ctxkit.ModelMessage, criticalTools []string, plan *regionPlan) {
	criticalSet := toSet(criticalTools)
	if len(criticalSet) == 0 {
		return
	}

	latest := make(map[string]int)
	for i, msg := range region {
		if msg.Role != ctxkit.RoleAssistant {
			continue
		}
		for _, part := range msg.Parts {
			if part.Type == ctxkit.ContentTypeToolCall && criticalSet[part.ToolName] {
				latest[part.ToolName] = i
			}
		}
	}
	if len(latest) == 0 {
		return
	}

	for i, msg := range region {
		if msg.Role != ctxkit.RoleAssistant {
			continue
		}

		keep := false
		var stale []string
		for _, part := range msg.Parts {
			if part.Type != ctxkit.ContentTypeToolCall || !criticalSet[part.ToolName] {
				continue
			}
			if latest[part.ToolName] == i {
				keep = true
			} else {
				stale = append(stale, part.ToolCallID)
			}
		}

		if keep {
			plan.critical[i] = true
		}
		for _, id := range stale {
			plan.dropCallPair(region, i, id)
		}
		if keep {
			for _, id := range plan.view(region, i).ToolCallIDs() {
				if j := indexOfToolResult(region, id); j >= 0 {
					plan.critical[j] = true
				}
			}
		}
	}
}

// stripToolCalls returns the message without the tool_call parts whose ids
// are in drop.
func stripToolCalls(msg ctxkit.ModelMessage, drop map[string]bool) ctxkit.ModelMessage {
	parts := make([]ctxkit.ContentBlock, 0, len(msg.Parts))
	for _, p := range msg.Parts {
		if p.Type == ctxkit.ContentTypeToolCall && drop[p.ToolCallID] {
			continue
		}
		parts = append(parts, p)
	}
	out := msg
	out.Parts = parts
	return out
}

// indexOfToolResult returns the region index of the tool message answering
// the given call id, or -1.
func indexOfToolResult(region []ctxkit.ModelMessage, id string) int {
	for i, msg := range region {
		if msg.Role != ctxkit.RoleTool {
			continue
		}
		for _, rid := range msg.ToolResultIDs() {
			if rid == id {
				return i
			}
		}
	}
	return -1
}

func toSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
