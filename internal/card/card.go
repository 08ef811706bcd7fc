// Package card turns game records into the view model rendered by a game card
// and its details overlay.
package card

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/steamsearcher/steamsearcher-web/internal/domain"
)

// FallbackImage replaces a card image that is missing or fails to load.
const FallbackImage = "https://images.pexels.com/photos/735911/pexels-photo-735911.jpeg?auto=compress&cs=tinysrgb&w=400&h=225"

// Number of labels shown on the card face before collapsing into "+N more".
const (
	GenreSummaryLimit    = 4
	CategorySummaryLimit = 3
)

// View is everything a card template needs.
type View struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price" doc:"Formatted price, Free when zero"`
	Image       string   `json:"image"`
	Link        string   `json:"link"`
	Platforms   []string `json:"platforms" doc:"Platforms with requirements: PC, Mac, Linux"`

	Genres     []string `json:"genres" doc:"All cleaned genre labels"`
	Categories []string `json:"categories" doc:"All cleaned category labels"`

	GenreSummary    Summary `json:"genre_summary"`
	CategorySummary Summary `json:"category_summary"`

	Requirements []Section `json:"requirements" doc:"Overlay sections, one per platform with requirements"`

	Open bool `json:"open" doc:"Whether the details overlay starts open"`
}

// Summary is the truncated label list shown on the card face.
type Summary struct {
	Labels []string `json:"labels"`
	More   int      `json:"more" doc:"Labels hidden behind +N more"`
}

// platform names one requirement mapping on a game record.
type platform struct {
	short string
	title string
	reqs  func(*domain.GameRecord) domain.Requirements
}

var platforms = []platform{
	{short: "PC", title: "PC (Windows)", reqs: func(g *domain.GameRecord) domain.Requirements { return g.PCRequirements }},
	{short: "Mac", title: "Mac (macOS)", reqs: func(g *domain.GameRecord) domain.Requirements { return g.MacRequirements }},
	{short: "Linux", title: "Linux", reqs: func(g *domain.GameRecord) domain.Requirements { return g.LinuxRequirements }},
}

// New builds the card view for a record.
func New(g *domain.GameRecord, state State) View {
	v := View{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Price:       FormatPrice(g.Price),
		Image:       g.Image,
		Link:        g.Link,
		Platforms:   []string{},
		Genres:      CleanLabels(g.Genres),
		Categories:  CleanLabels(g.Categories),
		Open:        state.Open,
	}
	if v.Image == "" {
		v.Image = FallbackImage
	}

	v.GenreSummary = Summarize(v.Genres, GenreSummaryLimit)
	v.CategorySummary = Summarize(v.Categories, CategorySummaryLimit)

	for _, p := range platforms {
		reqs := p.reqs(g)
		if !HasRequirements(reqs) {
			continue
		}
		v.Platforms = append(v.Platforms, p.short)
		v.Requirements = append(v.Requirements, newSection(p.title, reqs))
	}
	if v.Requirements == nil {
		v.Requirements = []Section{}
	}

	return v
}

// FormatPrice renders 0 as "Free" and anything else as dollars with two decimals.
func FormatPrice(p float64) string {
	if p == 0 {
		return "Free"
	}
	return fmt.Sprintf("$%.2f", p)
}

// HasRequirements reports whether the mapping has at least one entry.
func HasRequirements(r domain.Requirements) bool {
	return len(r) > 0
}

// Unicode space separators (NBSP and friends) count as whitespace, as they do in browsers.
var leadingDigits = regexp.MustCompile(`^\d+[\s\p{Z}]*`)

// CleanLabel strips a leading run of digits and the whitespace after it,
// removes double quotes and normalises to NFC.
func CleanLabel(s string) string {
	s = leadingDigits.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, `"`, "")
	return norm.NFC.String(s)
}

// CleanLabels cleans every label, dropping those left empty.
func CleanLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if c := CleanLabel(l); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Summarize keeps the first limit labels and counts the rest.
func Summarize(labels []string, limit int) Summary {
	if len(labels) <= limit {
		return Summary{Labels: labels}
	}
	return Summary{Labels: labels[:limit], More: len(labels) - limit}
}

// State is the open/closed state of a card's details overlay.
type State struct {
	Open bool
}

// Toggle flips the overlay. It only opens when game data is present.
func (s *State) Toggle(hasGame bool) {
	if s.Open {
		s.Open = false
		return
	}
	s.Open = hasGame
}
