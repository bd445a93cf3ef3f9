package render

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	olBlockRe = regexp.MustCompile(`(?s)<ol>(.*?)</ol>`)
	ulBlockRe = regexp.MustCompile(`(?s)<ul>(.*?)</ul>`)
	liRe      = regexp.MustCompile(`(?s)<li>(.*?)</li>`)
	strongRe  = regexp.MustCompile(`(?s)<strong>(.*?)</strong>`)
	emRe      = regexp.MustCompile(`(?s)<em>(.*?)</em>`)
)

// ExtractText projects rendered HTML back onto the markdown subset it came
// from. The typing animation types this text and re-renders each prefix, so
// for inputs free of literal angle brackets Render(ExtractText(Render(x)))
// reproduces Render(x).
func ExtractText(html string) string {
	text := olBlockRe.ReplaceAllStringFunc(html, func(block string) string {
		inner := olBlockRe.FindStringSubmatch(block)[1]
		var b strings.Builder
		n := 0
		for _, item := range liRe.FindAllStringSubmatch(inner, -1) {
			n++
			b.WriteString(strconv.Itoa(n))
			b.WriteString(". ")
			b.WriteString(item[1])
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
		return b.String()
	})

	text = ulBlockRe.ReplaceAllStringFunc(text, func(block string) string {
		inner := ulBlockRe.FindStringSubmatch(block)[1]
		var b strings.Builder
		for _, item := range liRe.FindAllStringSubmatch(inner, -1) {
			b.WriteString("- ")
			b.WriteString(item[1])
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
		return b.String()
	})

	text = strings.ReplaceAll(text, "<br>", "\n")
	text = strings.ReplaceAll(text, "</p>", "\n\n")
	text = strings.ReplaceAll(text, "<p>", "")

	text = strongRe.ReplaceAllString(text, "**$1**")
	text = emRe.ReplaceAllString(text, "*$1*")

	return strings.TrimSpace(text)
}
