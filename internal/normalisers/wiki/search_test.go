package wiki

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

func TestParseStars(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"209.9k", 209900},
		{"1.3M", 1300000},
		{"52", 52},
		{"", 0},
		{"garbage", 0},
		{"1,234", 1234},
		{" 12K ", 12000},
		{"0.5k", 500},
		{"k", 0},
		{"...", 0},
		{"-5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStars(tt.in))
		})
	}
}

func TestParseStars_IdempotentOnFormattedOutput(t *testing.T) {
	for _, in := range []string{"209.9k", "1.3M", "52", "999", "1.0k", "12.5M", "0"} {
		t.Run(in, func(t *testing.T) {
			n := ParseStars(in)
			assert.Equal(t, n, ParseStars(domain.FormatStars(n)))
		})
	}
}

func TestParseSearchResults(t *testing.T) {
	page := `<html><body><div class="results">
<a href="https://codewiki.google/github.com/vuejs/vue"><div>vuejs</div><div>vue</div><p>This is the repo for Vue 2</p><span>209.9k</span></a>
<a href="/github.com/vuejs/core"><div>vuejs</div><div>core</div><span>53k</span></a>
<a href="/github.com/vuejs/vue#again">duplicate 1k</a>
<a href="/github.com/someone/vue-utils">someone vue-utils no stars here</a>
<a href="/about">About</a>
</div></body></html>`

	results := ParseSearchResults(page, "https://codewiki.google/")

	require.Len(t, results, 3)

	assert.Equal(t, "vuejs/vue", results[0].FullName())
	assert.Equal(t, 209900, results[0].Stars)
	assert.Equal(t, "https://codewiki.google/github.com/vuejs/vue", results[0].PageURL)
	assert.Equal(t, "vuejs vue This is the repo for Vue 2 209.9k", results[0].Description)

	assert.Equal(t, "vuejs/core", results[1].FullName())
	assert.Equal(t, 53000, results[1].Stars)
	assert.Equal(t, "https://codewiki.google/github.com/vuejs/core", results[1].PageURL)

	assert.Equal(t, "someone/vue-utils", results[2].FullName())
	assert.Equal(t, 0, results[2].Stars)
}

func TestParseSearchResults_DescriptionCapped(t *testing.T) {
	page := `<a href="/github.com/a/b">` + strings.Repeat("é", 500) + `</a>`

	results := ParseSearchResults(page, "https://codewiki.google")

	require.Len(t, results, 1)
	assert.Equal(t, 200, len([]rune(results[0].Description)))
}

func TestParseSearchResults_Empty(t *testing.T) {
	assert.Empty(t, ParseSearchResults(`<html><body>No results</body></html>`, "https://codewiki.google"))
}
