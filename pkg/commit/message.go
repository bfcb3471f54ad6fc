// Package commit assembles the final commit message from the edited fields.
package commit

import "strings"

const (
	IssueToken    = "Issue: "
	BreakingToken = "BREAKING CHANGE: "
)

// Title is the first line: the non-editable type label plus the text typed
// after it.
type Title struct {
	Prefix  string
	Content string
}

type Message struct {
	Title    Title
	Body     string
	Issue    string
	Breaking string
}

// Build joins the non-empty sections with a blank line between them. The
// title is kept as typed, the body is wrapped to wrapWidth and footers are
// kept on one line.
func (m Message) Build(wrapWidth int) string {
	sections := []string{m.Title.Prefix + m.Title.Content}
	if body := strings.TrimSpace(m.Body); body != "" {
		sections = append(sections, WrapText(body, wrapWidth))
	}
	if issue := strings.TrimSpace(m.Issue); issue != "" {
		sections = append(sections, IssueToken+issue)
	}
	if breaking := strings.TrimSpace(m.Breaking); breaking != "" {
		sections = append(sections, BreakingToken+breaking)
	}
	return strings.Join(sections, "\n\n")
}
