package card

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steamsearcher/steamsearcher-web/internal/domain"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "Free"},
		{19.99, "$19.99"},
		{5, "$5.00"},
		{0.5, "$0.50"},
		{59.999, "$60.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.in))
		})
	}
}

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "leading id and space", in: `23 Indie`, want: "Indie"},
		{name: "digits without space", in: `1Action`, want: "Action"},
		{name: "quotes removed", in: `"Co-op"`, want: "Co-op"},
		{name: "both", in: `37 "Free to Play"`, want: "Free to Play"},
		{name: "inner digits kept", in: `Top 10 Hits`, want: "Top 10 Hits"},
		{name: "nfc", in: "Cafe\u0301", want: "Caf\u00e9"},
		{name: "digits only", in: `42`, want: ""},
		{name: "no-break space after id", in: "12\u00a0Strategy", want: "Strategy"},
		{name: "ideographic space after id", in: "7\u3000RPG", want: "RPG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanLabel(tt.in))
		})
	}
}

func TestSummarize(t *testing.T) {
	labels := []string{"Action", "Adventure", "RPG", "Indie", "Strategy", "Casual"}

	genres := Summarize(labels, GenreSummaryLimit)
	assert.Equal(t, []string{"Action", "Adventure", "RPG", "Indie"}, genres.Labels)
	assert.Equal(t, 2, genres.More)

	categories := Summarize(labels[:3], CategorySummaryLimit)
	assert.Len(t, categories.Labels, 3)
	assert.Zero(t, categories.More)
}

func TestState(t *testing.T) {
	var s State

	s.Toggle(false)
	assert.False(t, s.Open, "no game data keeps the overlay closed")

	s.Toggle(true)
	assert.True(t, s.Open)

	s.Toggle(true)
	assert.False(t, s.Open)

	s.Toggle(false)
	assert.False(t, s.Open)
}

func TestNew_PCOnly(t *testing.T) {
	g := &domain.GameRecord{
		ID:             400,
		Name:           "Portal",
		Price:          0,
		Image:          "https://cdn.example.com/portal.jpg",
		Link:           "https://store.steampowered.com/app/400",
		PCRequirements: domain.Requirements{"minimum": "<strong>Minimum:</strong><br>OS: Windows 7"},
		Genres:         []string{"1 Action", "2 Puzzle"},
		Categories:     []string{`"Single-player"`},
	}

	v := New(g, State{})

	assert.Equal(t, "Free", v.Price)
	assert.Equal(t, []string{"PC"}, v.Platforms)
	require.Len(t, v.Requirements, 1)
	assert.Equal(t, "PC (Windows)", v.Requirements[0].Title)
	assert.Equal(t, []Entry{{Label: "Minimum", Lines: []string{"Minimum:", "OS: Windows 7"}}}, v.Requirements[0].Entries)
	assert.Equal(t, []string{"Action", "Puzzle"}, v.Genres)
	assert.Equal(t, []string{"Single-player"}, v.CategorySummary.Labels)
	assert.False(t, v.Open)
}

func TestNew_AllPlatformsAndFallbackImage(t *testing.T) {
	g := &domain.GameRecord{
		ID:                2,
		Price:             9.99,
		PCRequirements:    domain.Requirements{"recommended": "b", "minimum": "a"},
		MacRequirements:   domain.Requirements{"minimum": "c"},
		LinuxRequirements: domain.Requirements{"minimum": "d"},
	}

	v := New(g, State{Open: true})

	assert.Equal(t, "$9.99", v.Price)
	assert.Equal(t, FallbackImage, v.Image)
	assert.Equal(t, []string{"PC", "Mac", "Linux"}, v.Platforms)
	assert.Equal(t, "Minimum", v.Requirements[0].Entries[0].Label)
	assert.Equal(t, "Recommended", v.Requirements[0].Entries[1].Label)
	assert.True(t, v.Open)
}

func TestNew_NoRequirementsEncodesEmptyLists(t *testing.T) {
	v := New(&domain.GameRecord{ID: 3}, State{})

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{}, decoded["platforms"])
	assert.Equal(t, []any{}, decoded["requirements"])
	assert.Equal(t, []any{}, decoded["genres"])
}

func TestRequirementLabel(t *testing.T) {
	assert.Equal(t, "Minimum", RequirementLabel("minimum"))
	assert.Equal(t, "Min Specs", RequirementLabel("min_specs"))
	assert.Equal(t, "Recommended", RequirementLabel("RECOMMENDED"))
}

func TestFlattenHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "steam list",
			in:   `<strong>Minimum:</strong><br><ul class="bb_ul"><li><strong>OS:</strong> Windows 10<br></li><li><strong>Memory:</strong> 8 GB RAM</li></ul>`,
			want: []string{"Minimum:", "OS: Windows 10", "Memory: 8 GB RAM"},
		},
		{
			name: "plain text",
			in:   "  2 GB RAM  ",
			want: []string{"2 GB RAM"},
		},
		{
			name: "entities decoded",
			in:   "DirectX&reg; 11 &amp; up",
			want: []string{"DirectX® 11 & up"},
		},
		{
			name: "script dropped",
			in:   `<script>alert(1)</script>OK`,
			want: []string{"OK"},
		},
		{
			name: "empty",
			in:   "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlattenHTML(tt.in))
		})
	}
}

func TestNew_PlainTextRequirements(t *testing.T) {
	g := &domain.GameRecord{
		ID:             1,
		Name:           "Doom",
		Price:          19.99,
		PCRequirements: domain.Requirements{domain.SingleTier: "OS: Windows 10 Processor: Intel Core i5"},
	}

	v := New(g, State{})

	assert.Equal(t, []string{"PC"}, v.Platforms)
	require.Len(t, v.Requirements, 1)
	require.Len(t, v.Requirements[0].Entries, 1)
	assert.Equal(t, "Minimum", v.Requirements[0].Entries[0].Label)
	assert.Equal(t, []string{"OS: Windows 10 Processor: Intel Core i5"}, v.Requirements[0].Entries[0].Lines)
}
