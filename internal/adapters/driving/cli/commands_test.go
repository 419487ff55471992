package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

func TestCommands_RequireArgs(t *testing.T) {
	setupTestApp(t, nil, nil)

	for _, args := range [][]string{
		{"topics"},
		{"structure"},
		{"contents"},
		{"ask", "a/b"},
		{"request-index"},
		{"resolve"},
	} {
		t.Run(args[0], func(t *testing.T) {
			_, _, err := run(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestCommands_NeedApp(t *testing.T) {
	for _, cmd := range []string{"serve", "topics", "structure", "contents", "ask", "request-index", "resolve"} {
		c, _, err := rootCmd.Find([]string{cmd})
		require.NoError(t, err)
		assert.Equal(t, "true", c.Annotations[needsApp], cmd)
	}
}

func TestTopicsCmd(t *testing.T) {
	setupTestApp(t, &mockWiki{text: domain.Text{Body: "## Topics"}}, nil)

	out, errOut, err := run(t, "topics", "microsoft/vscode")

	require.NoError(t, err)
	assert.Equal(t, "## Topics\n", out)
	assert.Empty(t, errOut)
}

func TestTopicsCmd_KeywordNoteOnStderr(t *testing.T) {
	setupTestApp(t, &mockWiki{text: domain.Text{Body: "## Topics", Truncated: true}}, nil)

	out, errOut, err := run(t, "topics", "vue")

	require.NoError(t, err)
	assert.Equal(t, "## Topics\n", out)
	assert.Contains(t, errOut, `Resolved "vue" to **vuejs/vue**`)
	assert.Contains(t, errOut, "(output truncated)")
}

func TestTopicsCmd_ErrorCarriesCode(t *testing.T) {
	setupTestApp(t, &mockWiki{err: &domain.NotIndexedError{
		Repo:       domain.RepoRef{Host: "github.com", Owner: "a", Name: "b"},
		RequestURL: "https://codewiki.google/search?q=a%2Fb",
	}}, nil)

	_, _, err := run(t, "topics", "a/b")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotIndexed)
	assert.Contains(t, err.Error(), "NO_CONTENT: No content found for https://github.com/a/b")
}

func TestTopicsCmd_InvalidRepo(t *testing.T) {
	setupTestApp(t, nil, nil)

	_, _, err := run(t, "topics", "https://example.com/a/b")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "VALIDATION: ")
}

func TestStructureCmd(t *testing.T) {
	setupTestApp(t, nil, nil)

	out, _, err := run(t, "structure", "a/b")

	require.NoError(t, err)
	var st domain.Structure
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, "a/b", st.Repo)
}

func TestContentsCmd_Flags(t *testing.T) {
	wiki := &mockWiki{contents: domain.Contents{Text: domain.Text{Body: "# B"}}}
	setupTestApp(t, wiki, nil)

	out, _, err := run(t, "contents", "a/b", "--offset", "2", "-n", "3")

	require.NoError(t, err)
	assert.Equal(t, "# B\n", out)
	assert.Equal(t, domain.ContentsRequest{Offset: 2, Limit: 3}, wiki.req)
}

func TestContentsCmd_Section(t *testing.T) {
	wiki := &mockWiki{contents: domain.Contents{Text: domain.Text{Body: "## Overview"}}}
	setupTestApp(t, wiki, nil)

	_, _, err := run(t, "contents", "a/b", "--section", "overview")

	require.NoError(t, err)
	assert.Equal(t, "overview", wiki.req.Section)
}

func TestAskCmd(t *testing.T) {
	chat := &mockChat{answer: domain.Answer{Text: domain.Text{Body: "An editor."}, Attempt: 2, MaxAttempts: 2}}
	setupTestApp(t, nil, chat)

	out, errOut, err := run(t, "ask", "a/b", "what", "is", "it?")

	require.NoError(t, err)
	assert.Equal(t, "what is it?", chat.query)
	assert.Equal(t, "An editor.\n", out)
	assert.Contains(t, errOut, "attempt 2 of 2")
}

func TestRequestIndexCmd(t *testing.T) {
	setupTestApp(t, nil, nil)

	out, _, err := run(t, "request-index", "https://github.com/a/b")

	require.NoError(t, err)
	assert.Equal(t, "Indexing requested for https://github.com/a/b\n", out)
}

func TestResolveCmd(t *testing.T) {
	setupTestApp(t, nil, nil)

	out, _, err := run(t, "resolve", "vue")

	require.NoError(t, err)
	assert.Contains(t, out, "vuejs/vue\n")
	assert.Contains(t, out, "rule: canonical, source: codewiki")
	assert.Contains(t, out, "* vuejs/vue")
	assert.Contains(t, out, "209.9k★")
	assert.Contains(t, out, "  vuejs/core")
}

func TestResolveCmd_NoMatch(t *testing.T) {
	setupTestApp(t, nil, nil)

	_, _, err := run(t, "resolve", "nosuchthing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoMatch)
	assert.Contains(t, err.Error(), "VALIDATION: ")
}

func TestRequireApp(t *testing.T) {
	application = nil

	_, err := requireApp()

	assert.ErrorContains(t, err, "services not configured")
}

func TestServeCmd_HasPortFlag(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}
