package usecase

import (
	"iter"
	"strings"
)

// MinTokenLength is the shortest token a Normalizer keeps.
const MinTokenLength = 3

// Normalizer splits free text into lowercase ASCII alphanumeric tokens.
// Any other character separates tokens. Tokens shorter than MinTokenLength
// or present in the stop-word set are dropped.
type Normalizer struct {
	stopWords map[string]struct{}
}

// NewNormalizer creates a Normalizer filtering the given lowercase stop words.
// A nil set filters nothing.
func NewNormalizer(stopWords map[string]struct{}) *Normalizer {
	return &Normalizer{stopWords: stopWords}
}

// Tokens returns the keywords of text as a lazy sequence.
// The sequence has no side effects and can be ranged over any number of times.
func (n *Normalizer) Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if text == "" {
			return
		}
		lower := strings.ToLower(text)
		start := -1
		for i := 0; i <= len(lower); i++ {
			if i < len(lower) && isTokenByte(lower[i]) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start < 0 {
				continue
			}
			token := lower[start:i]
			start = -1
			if !n.keep(token) {
				continue
			}
			if !yield(token) {
				return
			}
		}
	}
}

func (n *Normalizer) keep(token string) bool {
	if len(token) < MinTokenLength {
		return false
	}
	_, stop := n.stopWords[token]
	return !stop
}

func isTokenByte(b byte) bool {
	return ('a' <= b && b <= 'z') || ('0' <= b && b <= '9')
}
