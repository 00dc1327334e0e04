package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args against a temp config dir and
// returns the combined output.
func execute(t *testing.T, cfgDir string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--config-dir", cfgDir}, args...))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "masterdocs version test-version-1.0.0")
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"build", "search", "stats", "watch", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestSearchCmd_Flags(t *testing.T) {
	assert.NotNil(t, searchCmd.Flags().Lookup("limit"))
	assert.NotNil(t, searchCmd.Flags().Lookup("type"))
	assert.NotNil(t, searchCmd.Flags().Lookup("phrase"))
	assert.NotNil(t, searchCmd.Flags().Lookup("by-extension"))
	assert.Equal(t, "10", searchCmd.Flags().Lookup("limit").DefValue)
}

func TestBuildCmd_Flags(t *testing.T) {
	assert.NotNil(t, buildCmd.Flags().Lookup("recursive"))
	assert.NotNil(t, buildCmd.Flags().Lookup("force"))
	assert.NotNil(t, buildCmd.Flags().Lookup("ext"))
	assert.Equal(t, "true", buildCmd.Flags().Lookup("recursive").DefValue)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config-dir"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("index"))
}

func TestSearchCmd_PhraseAndExtensionExclusive(t *testing.T) {
	_, err := execute(t, t.TempDir(), "search", "query", "--phrase", "--by-extension")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")

	searchPhrase = false
	searchExtension = false
}

func TestSearchCmd_MissingIndex(t *testing.T) {
	_, err := execute(t, t.TempDir(), "search", "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening index")
}

func TestBuildAndSearch_EndToEnd(t *testing.T) {
	cfgDir := t.TempDir()
	docs := t.TempDir()
	path := filepath.Join(docs, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("the migration finished without downtime"), 0600))

	out, err := execute(t, cfgDir, "build", docs)
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 1 document(s).")

	out, err = execute(t, cfgDir, "search", "migration")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = execute(t, cfgDir, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Documents: 1")
}

func TestBuildCmd_UnchangedSecondRun(t *testing.T) {
	cfgDir := t.TempDir()
	docs := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(docs, "a.txt"), []byte("stable content"), 0600))

	_, err := execute(t, cfgDir, "build", docs)
	require.NoError(t, err)

	out, err := execute(t, cfgDir, "build", docs)
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 0 document(s).")
}
