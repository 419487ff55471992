package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchResult_FullName(t *testing.T) {
	r := SearchResult{Owner: "vuejs", Repo: "vue", Stars: 209900}
	assert.Equal(t, "vuejs/vue", r.FullName())
}

func TestFormatStars(t *testing.T) {
	tests := []struct {
		stars int
		want  string
	}{
		{0, "0"},
		{52, "52"},
		{999, "999"},
		{1000, "1.0k"},
		{209900, "209.9k"},
		{1300000, "1.3M"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatStars(tt.stars))
		})
	}
}

func TestRepoRef(t *testing.T) {
	r := RepoRef{Host: "github.com", Owner: "microsoft", Name: "vscode"}

	assert.Equal(t, "github.com/microsoft/vscode", r.ID())
	assert.Equal(t, "microsoft/vscode", r.FullName())
	assert.Equal(t, "https://github.com/microsoft/vscode", r.URL())
	assert.Equal(t, "https://codewiki.google/github.com/microsoft/vscode", r.WikiURL("https://codewiki.google/"))
	assert.Equal(t, "microsoft/vscode", r.SearchQuery())
	assert.False(t, r.IsZero())
	assert.True(t, RepoRef{}.IsZero())

	gl := RepoRef{Host: "gitlab.com", Owner: "gitlab-org", Name: "gitlab"}
	assert.Equal(t, "gitlab.com/gitlab-org/gitlab", gl.SearchQuery())
}

func TestSearchPageURL(t *testing.T) {
	assert.Equal(t, "https://codewiki.google/search?q=microsoft%2Fvscode",
		SearchPageURL("https://codewiki.google/", "microsoft/vscode"))
}

func TestResolution_Note(t *testing.T) {
	r := Resolution{
		Keyword:  "vue",
		Selected: "vuejs/vue",
		Source:   SourceWiki,
		Candidates: []SearchResult{
			{Owner: "vuejs", Repo: "vue"},
			{Owner: "vuejs", Repo: "core"},
			{Owner: "someone", Repo: "vue-utils"},
		},
	}

	assert.Equal(t,
		"> Resolved \"vue\" to **vuejs/vue** (via codewiki search). Other matches: vuejs/core, someone/vue-utils.\n\n",
		r.Note())
}

func TestResolution_NoteSingleCandidate(t *testing.T) {
	r := Resolution{
		Keyword:    "openclaw",
		Selected:   "openclaw/openclaw",
		Candidates: []SearchResult{{Owner: "openclaw", Repo: "openclaw"}},
	}

	assert.Equal(t, "> Resolved \"openclaw\" to **openclaw/openclaw**.\n\n", r.Note())
}
