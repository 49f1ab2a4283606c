package usecase

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/naka-gawa/github-profile/internal/domain"
)

// KeywordAccumulator counts normalized tokens across every text of a run.
type KeywordAccumulator struct {
	normalizer *Normalizer
	counts     map[string]int
}

// NewKeywordAccumulator creates an empty KeywordAccumulator.
func NewKeywordAccumulator(normalizer *Normalizer) *KeywordAccumulator {
	return &KeywordAccumulator{
		normalizer: normalizer,
		counts:     make(map[string]int),
	}
}

var nameSeparators = strings.NewReplacer("-", " ", "_", " ")

// Record increments the count of every token in text.
func (k *KeywordAccumulator) Record(text string) {
	for token := range k.normalizer.Tokens(text) {
		k.counts[token]++
	}
}

// RecordName records a repository name, treating '-' and '_' as word breaks.
func (k *KeywordAccumulator) RecordName(name string) {
	k.Record(nameSeparators.Replace(name))
}

// Top returns the n most frequent keywords.
func (k *KeywordAccumulator) Top(n int) []domain.RankedEntry {
	return TopN(k.counts, n)
}

// Counts returns a copy of the keyword table.
func (k *KeywordAccumulator) Counts() map[string]int {
	return maps.Clone(k.counts)
}

// LanguageAccumulator sums language byte counts across repositories.
type LanguageAccumulator struct {
	bytes map[string]int
}

// NewLanguageAccumulator creates an empty LanguageAccumulator.
func NewLanguageAccumulator() *LanguageAccumulator {
	return &LanguageAccumulator{bytes: make(map[string]int)}
}

// Record adds every language byte count of a repository.
// Negative counts are skipped and reported in the returned count.
func (l *LanguageAccumulator) Record(languages map[string]int) (skipped int) {
	for language, n := range languages {
		if n < 0 {
			skipped++
			continue
		}
		l.bytes[language] += n
	}
	return skipped
}

// Stats returns a copy of the full language mapping.
func (l *LanguageAccumulator) Stats() map[string]int {
	return maps.Clone(l.bytes)
}

// WeekKey returns the commit bucket of t: the ISO-8601 year and week of t in UTC,
// formatted as "2024-W10". Keys sort chronologically as strings.
func WeekKey(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// CommitAccumulator sums weekly commit samples into ISO week buckets.
type CommitAccumulator struct {
	weeks map[string]int
	total int
}

// NewCommitAccumulator creates an empty CommitAccumulator.
func NewCommitAccumulator() *CommitAccumulator {
	return &CommitAccumulator{weeks: make(map[string]int)}
}

// Record adds each sample into its week bucket. Samples without a week
// timestamp or with a negative total are skipped and reported in the returned count.
func (c *CommitAccumulator) Record(samples []domain.WeeklySample) (skipped int) {
	for _, sample := range samples {
		if sample.WeekStart.IsZero() || sample.Total < 0 {
			skipped++
			continue
		}
		c.weeks[WeekKey(sample.WeekStart)] += sample.Total
		c.total += sample.Total
	}
	return skipped
}

// Total returns the sum of all recorded commits.
func (c *CommitAccumulator) Total() int {
	return c.total
}

// Weeks returns a copy of the sparse week mapping.
func (c *CommitAccumulator) Weeks() map[string]int {
	return maps.Clone(c.weeks)
}

// Series returns the buckets sorted by week key.
func (c *CommitAccumulator) Series() []domain.WeekCount {
	series := make([]domain.WeekCount, 0, len(c.weeks))
	for _, week := range slices.Sorted(maps.Keys(c.weeks)) {
		series = append(series, domain.WeekCount{Week: week, Commits: c.weeks[week]})
	}
	return series
}

// TopicAccumulator counts how many repositories carry each topic.
type TopicAccumulator struct {
	counts map[string]int
}

// NewTopicAccumulator creates an empty TopicAccumulator.
func NewTopicAccumulator() *TopicAccumulator {
	return &TopicAccumulator{counts: make(map[string]int)}
}

// Record counts each distinct topic of one repository once.
// Topics are opaque; no case folding is applied.
func (t *TopicAccumulator) Record(topics []string) {
	seen := make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		if topic == "" {
			continue
		}
		if _, dup := seen[topic]; dup {
			continue
		}
		seen[topic] = struct{}{}
		t.counts[topic]++
	}
}

// Top returns the n most common topics.
func (t *TopicAccumulator) Top(n int) []domain.RankedEntry {
	return TopN(t.counts, n)
}

// Counts returns a copy of the topic table.
func (t *TopicAccumulator) Counts() map[string]int {
	return maps.Clone(t.counts)
}

// RepositoryCollector keeps one RepositorySummary per recorded repository.
type RepositoryCollector struct {
	repos []domain.RepositorySummary
}

// NewRepositoryCollector creates an empty RepositoryCollector.
func NewRepositoryCollector() *RepositoryCollector {
	return &RepositoryCollector{}
}

// Record keeps the ranking-relevant fields of meta.
func (r *RepositoryCollector) Record(meta domain.RepositoryMeta) {
	r.repos = append(r.repos, domain.RepositorySummary{
		Name:        meta.Name,
		FullName:    meta.FullName,
		URL:         meta.URL,
		Description: meta.Description,
		PushedAt:    meta.PushedAt,
		Stars:       meta.Stars,
		Forks:       meta.Forks,
		Language:    meta.Language,
		License:     meta.License,
	})
}

// Len returns the number of recorded repositories.
func (r *RepositoryCollector) Len() int {
	return len(r.repos)
}

// MostStarred returns the n repositories with the most stars.
func (r *RepositoryCollector) MostStarred(n int) []domain.RepositorySummary {
	return TopRepositories(r.repos, n, ByStars)
}

// MostRecent returns the n most recently pushed repositories.
func (r *RepositoryCollector) MostRecent(n int) []domain.RepositorySummary {
	return TopRepositories(r.repos, n, ByPushedAt)
}
