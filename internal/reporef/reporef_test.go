package reporef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

func TestIsBareKeyword(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"vue", true},
		{"  openclaw  ", true},
		{"next.js", true},
		{"vscode-copilot-chat", true},
		{"", false},
		{"   ", false},
		{"vuejs/vue", false},
		{"https://github.com/vuejs/vue", false},
		{"httpie", true},
		{"-leading", false},
		{"has space", false},
		{"bang!", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBareKeyword(tt.in))
		})
	}
}

func TestParse_ShorthandAndURLAgree(t *testing.T) {
	inputs := []string{
		"microsoft/vscode",
		"https://github.com/microsoft/vscode",
		"http://github.com/microsoft/vscode",
		"https://www.github.com/microsoft/vscode",
		"https://github.com/microsoft/vscode/tree/main/src",
		"https://github.com/microsoft/vscode.git",
		"git@github.com:microsoft/vscode.git",
		"  microsoft/vscode  ",
	}

	want := domain.RepoRef{Host: "github.com", Owner: "microsoft", Name: "vscode"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, err := Parse(in)
			require.NoError(t, err)
			assert.Equal(t, KindRepo, got.Kind)
			assert.Equal(t, want, got.Ref)
			assert.Equal(t, "github.com/microsoft/vscode", got.Ref.ID())
		})
	}
}

func TestParse_OtherHosts(t *testing.T) {
	got, err := Parse("https://gitlab.com/gitlab-org/gitlab")
	require.NoError(t, err)
	assert.Equal(t, "gitlab.com/gitlab-org/gitlab", got.Ref.ID())

	got, err = Parse("https://bitbucket.org/atlassian/python-bitbucket")
	require.NoError(t, err)
	assert.Equal(t, "bitbucket.org", got.Ref.Host)
}

func TestParse_Keyword(t *testing.T) {
	got, err := Parse("vue")
	require.NoError(t, err)
	assert.Equal(t, KindKeyword, got.Kind)
	assert.Equal(t, "vue", got.Keyword)
	assert.True(t, got.Ref.IsZero())
}

func TestParse_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"not a repo",
		"https://example.com/owner/repo",
		"https://github.com/onlyowner",
		"ftp://github.com/a/b",
		"a/b/c",
		"owner/re po",
		"bang!",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
		})
	}
}

func TestMustRef(t *testing.T) {
	ref, err := MustRef("vuejs/vue")
	require.NoError(t, err)
	assert.Equal(t, "vuejs/vue", ref.FullName())

	_, err = MustRef("vue")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFromFullName(t *testing.T) {
	ref, err := FromFullName("openclaw/openclaw")
	require.NoError(t, err)
	assert.Equal(t, "github.com/openclaw/openclaw", ref.ID())

	_, err = FromFullName("nope")
	assert.Error(t, err)
}
