// Package config loads the report configuration from a YAML file,
// the environment and an optional .env file.
package config

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when no path is given.
const DefaultPath = "config.yml"

var (
	ErrMissingUser  = errors.New("config: github_user is required")
	ErrMissingToken = errors.New("config: access token is required (set GITHUB_TOKEN or access_token)")
)

//go:embed stopwords.txt
var defaultStopWords string

// Limits holds the top-N cutoffs of the report.
type Limits struct {
	Keywords  int `yaml:"keywords"`
	Topics    int `yaml:"topics"`
	Starred   int `yaml:"starred"`
	Recent    int `yaml:"recent"`
	Languages int `yaml:"languages"`
}

// Config holds every runtime option of a report run.
type Config struct {
	GitHubUser    string   `yaml:"github_user"`
	AccessToken   string   `yaml:"access_token"`
	StopWordsFile string   `yaml:"stop_words_file"`
	Template      string   `yaml:"template"`
	OutputDir     string   `yaml:"output_dir"`
	MaxBlobSize   int      `yaml:"max_blob_size"`
	ExcludePaths  []string `yaml:"exclude_paths"`
	Limits        Limits   `yaml:"limits"`
}

// Default returns the configuration used for unset values.
func Default() Config {
	return Config{
		Template:    "modern",
		OutputDir:   "output",
		MaxBlobSize: 1_000_000,
		Limits: Limits{
			Keywords:  20,
			Topics:    15,
			Starred:   5,
			Recent:    5,
			Languages: 6,
		},
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
// GITHUB_TOKEN, from the environment or a .env file, overrides access_token.
func Load(path string) (Config, error) {
	// godotenv.Load() is a no-op if .env doesn't exist.
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.AccessToken = token
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults restores defaults for values a file set to zero.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Template == "" {
		c.Template = def.Template
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.MaxBlobSize <= 0 {
		c.MaxBlobSize = def.MaxBlobSize
	}
	if c.Limits.Languages <= 0 {
		c.Limits.Languages = def.Limits.Languages
	}
}

// Validate reports missing credentials.
func (c Config) Validate() error {
	if c.GitHubUser == "" {
		return ErrMissingUser
	}
	if c.AccessToken == "" {
		return ErrMissingToken
	}
	return nil
}

// StopWords returns the configured stop-word set. When no file is configured,
// or the file does not exist, the built-in list is used.
func (c Config) StopWords(logger *log.Logger) (map[string]struct{}, error) {
	if c.StopWordsFile == "" {
		return ParseStopWords(strings.NewReader(defaultStopWords))
	}
	f, err := os.Open(c.StopWordsFile)
	if errors.Is(err, os.ErrNotExist) {
		logger.Printf("[WARN] Stop-word file %s not found, using built-in list.\n", c.StopWordsFile)
		return ParseStopWords(strings.NewReader(defaultStopWords))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open stop-word file: %w", err)
	}
	defer f.Close()
	return ParseStopWords(f)
}

// ParseStopWords reads one word per line, lowercased. Blank lines and lines
// starting with '#' are ignored.
func ParseStopWords(r io.Reader) (map[string]struct{}, error) {
	words := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stop words: %w", err)
	}
	return words, nil
}
