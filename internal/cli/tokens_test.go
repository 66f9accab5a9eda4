package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdscan/internal/cli"
)

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runTokensCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test", Commit: "test", Date: "test"})
	cmd.SetArgs(append([]string{"tokens"}, args...))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.Execute()
	return out.String(), err
}

func TestTokensCommand_TextOutput(t *testing.T) {
	path := writeDoc(t, "doc.md", "# Title\n")

	out, err := runTokensCommand(t, "", path)
	require.NoError(t, err)

	assert.Contains(t, out, "@0-1")
	assert.Contains(t, out, "Hash")
	assert.Contains(t, out, `"Title"`)
	assert.Contains(t, out, "Newline")
	assert.Contains(t, out, "EndOfFile")
}

func TestTokensCommand_Stdin(t *testing.T) {
	out, err := runTokensCommand(t, "plain words")
	require.NoError(t, err)

	assert.Contains(t, out, "StringLiteral")
	assert.Contains(t, out, `"plain words"`)
	assert.Contains(t, out, "EndOfFile")
}

func TestTokensCommand_JSONOutput(t *testing.T) {
	path := writeDoc(t, "doc.md", "*hi*\n")

	out, err := runTokensCommand(t, "", path, "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Path   string `json:"path"`
		Tokens []struct {
			Kind  string `json:"kind"`
			Start int    `json:"start"`
			End   int    `json:"end"`
			Text  string `json:"text"`
			Flags string `json:"flags"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, path, doc.Path)
	require.NotEmpty(t, doc.Tokens)
	assert.Equal(t, "Asterisk", doc.Tokens[0].Kind)
	assert.Equal(t, "EndOfFile", doc.Tokens[len(doc.Tokens)-1].Kind)
}

func TestTokensCommand_TableOutput(t *testing.T) {
	path := writeDoc(t, "doc.md", "text\n")

	out, err := runTokensCommand(t, "", path, "--format", "table")
	require.NoError(t, err)

	assert.Contains(t, out, "OFFSET")
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "StringLiteral")
}

func TestTokensCommand_Summary(t *testing.T) {
	path := writeDoc(t, "doc.md", "one two\n")

	out, err := runTokensCommand(t, "", path, "--summary")
	require.NoError(t, err)

	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Tokens:")
}

func TestTokensCommand_DebugState(t *testing.T) {
	path := writeDoc(t, "doc.md", "done\n")

	out, err := runTokensCommand(t, "", path, "--debug-state")
	require.NoError(t, err)

	assert.Contains(t, out, "modes:")
	assert.Contains(t, out, "Normal")
}

func TestTokensCommand_MultipleFilesGetHeaders(t *testing.T) {
	first := writeDoc(t, "a.md", "alpha\n")
	second := writeDoc(t, "b.md", "beta\n")

	out, err := runTokensCommand(t, "", first, second)
	require.NoError(t, err)

	assert.Contains(t, out, first)
	assert.Contains(t, out, second)
	assert.Contains(t, out, "tokens in 2 files")
}

func TestTokensCommand_MissingFile(t *testing.T) {
	_, err := runTokensCommand(t, "", filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, err)

	assert.Equal(t, cli.ExitIOError, cli.ExitCodeForError(err))
}

func TestTokensCommand_InvalidTabWidth(t *testing.T) {
	path := writeDoc(t, "doc.md", "x\n")

	_, err := runTokensCommand(t, "", path, "--tab-width", "3")
	require.Error(t, err)

	assert.Equal(t, cli.ExitConfigError, cli.ExitCodeForError(err))
}
