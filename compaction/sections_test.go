package compaction

import (
	"testing"
)

func TestParseSectionsNumbered(t *testing.T) {
	summary := `1. **Primary Request and Intent**
Build a context compactor.

2. **Key Technical Concepts**
Summarization, token estimation.

3) Pending Tasks
None.

4 - Next Step
Write tests.`

	sections := ParseSections(summary)
	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d: %+v", len(sections), sections)
	}

	wantTitles := []string{
		"Primary Request and Intent",
		"Key Technical Concepts",
		"Pending Tasks",
		"Next Step",
	}
	for i, want := range wantTitles {
		if sections[i].Title != want {
			t.Errorf("section %d title = %q, want %q", i, sections[i].Title, want)
		}
	}
	if sections[0].Content != "Build a context compactor." {
		t.Errorf("section 0 content = %q", sections[0].Content)
	}
	if sections[3].Content != "Write tests." {
		t.Errorf("section 3 content = %q", sections[3].Content)
	}
}

func TestParseSectionsMarkdownHeadings(t *testing.T) {
	summary := `## Request
Build the feature.

## Progress
Halfway done.
Still needs tests.`

	sections := ParseSections(summary)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(sections), sections)
	}
	if sections[0].Title != "Request" || sections[0].Content != "Build the feature." {
		t.Errorf("section 0 = %+v", sections[0])
	}
	if sections[1].Title != "Progress" {
		t.Errorf("section 1 title = %q", sections[1].Title)
	}
	if sections[1].Content != "Halfway done.\nStill needs tests." {
		t.Errorf("section 1 content = %q", sections[1].Content)
	}
}

func TestParseSectionsAnalysisBlock(t *testing.T) {
	summary := `<analysis>
1. Request
Do the work.

2. Next Step
Finish up.
</analysis>`

	sections := ParseSections(summary)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(sections), sections)
	}
	if sections[0].Title != "Request" {
		t.Errorf("section 0 title = %q", sections[0].Title)
	}
	if sections[1].Content != "Finish up." {
		t.Errorf("section 1 content = %q", sections[1].Content)
	}
}

func TestParseSectionsFallback(t *testing.T) {
	summary := "The conversation covered setting up the project."

	sections := ParseSections(summary)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Title != "Summary" {
		t.Errorf("title = %q, want Summary", sections[0].Title)
	}
	if sections[0].Content != summary {
		t.Errorf("content = %q", sections[0].Content)
	}
}

func TestParseSectionsEmpty(t *testing.T) {
	if got := ParseSections("   \n  "); got != nil {
		t.Errorf("expected nil for blank summary, got %+v", got)
	}
}
