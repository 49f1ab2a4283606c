package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		envToken    string
		expected    Config
		expectError bool
	}{
		{
			name: "file values override defaults",
			content: `
github_user: octo
access_token: from-file
template: plain
exclude_paths: ["vendor/**"]
limits:
  keywords: 10
  starred: 3
`,
			expected: func() Config {
				cfg := Default()
				cfg.GitHubUser = "octo"
				cfg.AccessToken = "from-file"
				cfg.Template = "plain"
				cfg.ExcludePaths = []string{"vendor/**"}
				cfg.Limits.Keywords = 10
				cfg.Limits.Starred = 3
				return cfg
			}(),
		},
		{
			name:     "GITHUB_TOKEN overrides the file token",
			content:  "github_user: octo\naccess_token: from-file\n",
			envToken: "from-env",
			expected: func() Config {
				cfg := Default()
				cfg.GitHubUser = "octo"
				cfg.AccessToken = "from-env"
				return cfg
			}(),
		},
		{
			name:    "zero values fall back to defaults",
			content: "github_user: octo\ntemplate: \"\"\nmax_blob_size: 0\nlimits:\n  languages: 0\n",
			expected: func() Config {
				cfg := Default()
				cfg.GitHubUser = "octo"
				return cfg
			}(),
		},
		{
			name:        "invalid YAML",
			content:     "github_user: [octo",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("GITHUB_TOKEN", tc.envToken)
			path := writeFile(t, "config.yml", tc.content)

			cfg, err := Load(path)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg)
		})
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingUser)
}

func TestConfig_Validate(t *testing.T) {
	assert.ErrorIs(t, Config{AccessToken: "x"}.Validate(), ErrMissingUser)
	assert.ErrorIs(t, Config{GitHubUser: "octo"}.Validate(), ErrMissingToken)
	assert.NoError(t, Config{GitHubUser: "octo", AccessToken: "x"}.Validate())
}

func TestParseStopWords(t *testing.T) {
	words, err := ParseStopWords(strings.NewReader("# comment\nThe\n\n  repo  \n#skip\nAPI\n"))

	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"the": {}, "repo": {}, "api": {}}, words)
}

func TestConfig_StopWords(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	t.Run("built-in list", func(t *testing.T) {
		words, err := Config{}.StopWords(logger)
		require.NoError(t, err)
		assert.Contains(t, words, "repo")
		assert.Contains(t, words, "github")
		assert.NotContains(t, words, "kubernetes")
	})

	t.Run("custom file replaces the built-in list", func(t *testing.T) {
		path := writeFile(t, "stopwords.txt", "kubernetes\n")
		words, err := Config{StopWordsFile: path}.StopWords(logger)
		require.NoError(t, err)
		assert.Equal(t, map[string]struct{}{"kubernetes": {}}, words)
	})

	t.Run("missing file falls back to the built-in list", func(t *testing.T) {
		words, err := Config{StopWordsFile: filepath.Join(t.TempDir(), "nope.txt")}.StopWords(logger)
		require.NoError(t, err)
		assert.Contains(t, words, "repo")
	})
}
