// Package render converts the advisor's lightweight markdown subset into
// HTML and plays replies back with a typing animation.
//
// Render is deterministic and total: unrecognized syntax passes through
// literally rather than failing.
package render

import (
	"regexp"
	"strings"
)

var (
	boldRe        = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe      = regexp.MustCompile(`\*(.*?)\*`)
	orderedItemRe = regexp.MustCompile(`(?m)^\d+\.\s+(.+)$`)
	bulletItemRe  = regexp.MustCompile(`(?m)^[-•]\s+(.+)$`)

	// Greedy: one span from the first <li> to the last.
	listRunRe = regexp.MustCompile(`(?s)(<li>.*</li>)`)

	blockStartRe = regexp.MustCompile(`^<(ul|ol|li)`)
)

// Render converts markdown-subset text to HTML. The transforms are applied
// in a fixed order since each depends on the text shape left by the
// previous one: bold, italic, ordered lists, bullet lists, paragraphs.
func Render(text string) string {
	text = boldRe.ReplaceAllString(text, "<strong>$1</strong>")
	text = italicRe.ReplaceAllString(text, "<em>$1</em>")

	// Numbered lines become items; the run from first to last item is
	// claimed as an ordered list.
	text = orderedItemRe.ReplaceAllString(text, "<li>$1</li>")
	text = listRunRe.ReplaceAllString(text, "<ol>$1</ol>")

	// Bullets get the same treatment unless the run was already claimed as
	// an ordered list.
	text = bulletItemRe.ReplaceAllString(text, "<li>$1</li>")
	if !strings.Contains(text, "<ol>") {
		text = listRunRe.ReplaceAllString(text, "<ul>$1</ul>")
	}

	// Blank-line boundaries split paragraphs; anything that is not already
	// list markup is wrapped, with single newlines as line breaks.
	paragraphs := strings.Split(text, "\n\n")
	var b strings.Builder
	for _, p := range paragraphs {
		if blockStartRe.MatchString(p) {
			b.WriteString(p)
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(p, "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}
