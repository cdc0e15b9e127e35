package compaction

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var (
	mdParser parser.Parser = goldmark.New().Parser()

	analysisRe = regexp.MustCompile(`(?s)<analysis>\s*(.*?)\s*</analysis>`)

	// Matches "1. Title", "2) Title", and "3 - Title" heading lines.
	numberedRe = regexp.MustCompile(`^\s*\d+\s*(?:[.)]|-)\s+(.+?)\s*$`)
)

// ParseSections splits a summary into titled sections. It understands, in
// order of preference: markdown headings, numbered section markers, and an
// <analysis> wrapper around either. Summaries with no recognizable
// structure come back as a single "Summary" section.
func ParseSections(summary string) []Section {
	s := strings.TrimSpace(summary)
	if s == "" {
		return nil
	}

	if m := analysisRe.FindStringSubmatchIndex(s); m != nil {
		inner := strings.TrimSpace(s[m[2]:m[3]])
		rest := strings.TrimSpace(s[:m[0]] + s[m[1]:])
		sections := parseBody(inner)
		sections = append(sections, parseBody(rest)...)
		if len(sections) > 0 {
			return sections
		}
	}
	return parseBody(s)
}

func parseBody(s string) []Section {
	if s == "" {
		return nil
	}
	if secs := markdownSections([]byte(s)); len(secs) >= 2 {
		return secs
	}
	if secs := numberedSections(s); len(secs) >= 2 {
		return secs
	}
	return []Section{{Title: "Summary", Content: s}}
}

// markdownSections splits the text at its markdown headings.
func markdownSections(src []byte) []Section {
	doc := mdParser.Parse(text.NewReader(src))

	type headingPos struct {
		title string
		start int // byte offset of the heading line
		end   int // byte offset just past the heading text
	}
	var heads []headingPos
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			continue
		}
		first := lines.At(0)
		last := lines.At(lines.Len() - 1)
		heads = append(heads, headingPos{
			title: cleanTitle(string(src[first.Start:last.Stop])),
			start: lineStart(src, first.Start),
			end:   last.Stop,
		})
	}
	if len(heads) == 0 {
		return nil
	}

	var sections []Section
	if pre := strings.TrimSpace(string(src[:heads[0].start])); pre != "" {
		sections = append(sections, Section{Title: "Summary", Content: pre})
	}
	for i, h := range heads {
		end := len(src)
		if i+1 < len(heads) {
			end = heads[i+1].start
		}
		sections = append(sections, Section{
			Title:   h.title,
			Content: strings.TrimSpace(string(src[h.end:end])),
		})
	}
	return sections
}

// numberedSections splits the text at numbered marker lines.
func numberedSections(s string) []Section {
	lines := strings.Split(s, "\n")

	var sections []Section
	var current *Section
	var pre []string

	flush := func() {
		if current != nil {
			current.Content = strings.TrimSpace(current.Content)
			sections = append(sections, *current)
			current = nil
		}
	}

	for _, line := range lines {
		if m := numberedRe.FindStringSubmatch(line); m != nil {
			flush()
			current = &Section{Title: cleanTitle(m[1])}
			continue
		}
		if current == nil {
			pre = append(pre, line)
			continue
		}
		if current.Content != "" {
			current.Content += "\n"
		}
		current.Content += line
	}
	flush()

	if len(sections) == 0 {
		return nil
	}
	if preText := strings.TrimSpace(strings.Join(pre, "\n")); preText != "" {
		sections = append([]Section{{Title: "Summary", Content: preText}}, sections...)
	}
	return sections
}

// cleanTitle strips heading markers, bold asterisks, and a trailing colon.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "# ")
	s = strings.Trim(s, "*")
	s = strings.TrimSuffix(s, ":")
	return strings.TrimSpace(s)
}

func lineStart(src []byte, pos int) int {
	for pos > 0 && src[pos-1] != '\n' {
		pos--
	}
	return pos
}
