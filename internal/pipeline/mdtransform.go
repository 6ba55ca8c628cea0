package pipeline

import (
	"regexp"
	"strings"
)

// ==text== highlights become Private Use Area markers before goldmark runs
// and <mark> tags after, so the marker text never meets the HTML renderer.
const (
	markStart = "\uE000"
	markEnd   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(\S(?:.*?\S)?)==`)
)

// preprocessMarkdown normalizes line endings, collapses runs of blank lines
// and marks ==highlights==. Fenced code blocks are left untouched.
func preprocessMarkdown(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")

	lines := strings.Split(content, "\n")
	fence := ""
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		switch {
		case fence == "" && (strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")):
			fence = trimmed[:3]
		case fence != "" && strings.HasPrefix(trimmed, fence):
			fence = ""
		case fence == "":
			lines[i] = highlightPattern.ReplaceAllString(line, markStart+"$1"+markEnd)
		}
	}
	content = strings.Join(lines, "\n")

	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// finalizeMarks turns highlight markers into <mark> elements.
func finalizeMarks(htmlContent string) string {
	return strings.NewReplacer(markStart, "<mark>", markEnd, "</mark>").Replace(htmlContent)
}
