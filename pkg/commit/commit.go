package commit

import "strings"

// WrapText reflows text to at most width columns. Paragraphs (separated by a
// blank line) are wrapped independently; within a paragraph a break after a
// sentence end is preferred over a plain word break.
func WrapText(text string, width int) string {
	if width <= 0 {
		return strings.TrimSpace(text)
	}
	paragraphs := strings.Split(text, "\n\n")
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, wrapParagraph(p, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapParagraph(p string, width int) []string {
	var (
		out  []string
		line strings.Builder
	)
	for _, word := range strings.Fields(p) {
		// A carried-over remainder may still leave no room for word, so
		// keep breaking until it fits or the line is empty.
		for line.Len() > 0 && line.Len()+1+len(word) > width {
			lineStr := line.String()
			breakAt := breakPoint(lineStr, width)
			out = append(out, strings.TrimSpace(lineStr[:breakAt]))
			line.Reset()
			line.WriteString(strings.TrimLeft(lineStr[breakAt:], " "))
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		out = append(out, line.String())
	}
	return out
}

// breakPoint picks where to cut a full line: right after the last sentence
// end, else at the end of the line.
func breakPoint(lineStr string, width int) int {
	for i := len(lineStr) - 1; i > 0 && i >= len(lineStr)-width; i-- {
		c := lineStr[i]
		if (c != '.' && c != '?' && c != '!') || lineStr[i-1] == '.' {
			continue
		}
		if i+1 < len(lineStr) && lineStr[i+1] == ' ' {
			return i + 2
		}
		if i+1 >= len(lineStr) {
			return i + 1
		}
	}
	return len(lineStr)
}
