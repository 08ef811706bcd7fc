package card

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/steamsearcher/steamsearcher-web/internal/domain"
)

// Section is the overlay block for one platform.
type Section struct {
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
}

// Entry is one requirement tier, e.g. "Minimum", flattened to plain text lines.
type Entry struct {
	Label string   `json:"label"`
	Lines []string `json:"lines"`
}

func newSection(title string, reqs domain.Requirements) Section {
	s := Section{Title: title, Entries: make([]Entry, 0, len(reqs))}
	for _, key := range reqs.Keys() {
		s.Entries = append(s.Entries, Entry{
			Label: RequirementLabel(key),
			Lines: FlattenHTML(reqs[key]),
		})
	}
	return s
}

// RequirementLabel replaces the first underscore with a space and title-cases the result.
func RequirementLabel(key string) string {
	return cases.Title(language.English).String(strings.Replace(key, "_", " ", 1))
}

// FlattenHTML reduces a requirement fragment to its text, one line per
// line break, list item or block element. Plain text passes through.
func FlattenHTML(fragment string) []string {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return textLines(fragment)
	}

	var (
		lines []string
		cur   strings.Builder
	)
	flush := func() {
		if line := strings.Join(strings.Fields(cur.String()), " "); line != "" {
			lines = append(lines, line)
		}
		cur.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			cur.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.Br:
				flush()
				return
			}
		}

		block := isBlock(n)
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}

	for _, n := range nodes {
		walk(n)
	}
	flush()

	if lines == nil {
		return []string{}
	}
	return lines
}

func isBlock(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.P, atom.Div, atom.Li, atom.Ul, atom.Ol, atom.H1, atom.H2, atom.H3, atom.H4, atom.Tr:
		return true
	}
	return false
}

func textLines(s string) []string {
	lines := []string{}
	for l := range strings.Lines(s) {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
