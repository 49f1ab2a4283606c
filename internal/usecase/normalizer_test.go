package usecase

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizer_Tokens(t *testing.T) {
	testCases := []struct {
		name      string
		stopWords map[string]struct{}
		text      string
		expected  []string
	}{
		{
			name:     "lowercases and splits on any non alphanumeric character",
			text:     "Hello, World! 42abc_Go-Lang",
			expected: []string{"hello", "world", "42abc", "lang"},
		},
		{
			name:      "drops stop words and short tokens",
			stopWords: map[string]struct{}{"the": {}, "tool": {}},
			text:      "The tool is a great CLI",
			expected:  []string{"great", "cli"},
		},
		{
			name:     "non ascii letters act as separators",
			text:     "café über naïve",
			expected: []string{"caf", "ber"},
		},
		{
			name:     "keeps repeated tokens",
			text:     "k8s k8s operator",
			expected: []string{"k8s", "k8s", "operator"},
		},
		{
			name:     "empty text yields nothing",
			text:     "",
			expected: nil,
		},
		{
			name:     "separators only yield nothing",
			text:     " -- !! __ ",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			normalizer := NewNormalizer(tc.stopWords)
			assert.Equal(t, tc.expected, slices.Collect(normalizer.Tokens(tc.text)))
		})
	}
}

func TestNormalizer_TokensIsRestartable(t *testing.T) {
	normalizer := NewNormalizer(map[string]struct{}{"with": {}})
	seq := normalizer.Tokens("Terraform modules with Go tests")

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	assert.Equal(t, []string{"terraform", "modules", "tests"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, first, slices.Collect(normalizer.Tokens("Terraform modules with Go tests")))
}

func TestNormalizer_TokensStopsEarly(t *testing.T) {
	normalizer := NewNormalizer(nil)
	var seen []string
	for token := range normalizer.Tokens("one two three four") {
		seen = append(seen, token)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"one", "two"}, seen)
}
