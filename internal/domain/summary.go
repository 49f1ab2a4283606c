package domain

import "time"

// RankedEntry is one (key, count) pair of a top-N list.
type RankedEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// WeekCount is the commit total of one week bucket.
type WeekCount struct {
	Week    string `json:"week"`
	Commits int    `json:"commits"`
}

// RepositorySummary is the bounded record kept per repository for ranking.
type RepositorySummary struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	PushedAt    time.Time `json:"pushed_at"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Language    string    `json:"language"`
	License     string    `json:"license"`
}

// CommitStats describes the distribution of commits over active weeks.
type CommitStats struct {
	ActiveWeeks int     `json:"active_weeks"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	P90         float64 `json:"p90"`
	Max         float64 `json:"max"`
}

// Diagnostics counts input that was dropped or degraded during a run.
type Diagnostics struct {
	SkippedSamples       int `json:"skipped_samples"`
	SkippedLanguageBytes int `json:"skipped_language_bytes"`
	DegradedRepositories int `json:"degraded_repositories"`
}

// AggregateSummary is the immutable input handed to a rendering sink.
// Every collection is non-nil, even when empty.
type AggregateSummary struct {
	RunID       string       `json:"run_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Profile     ProfileFacts `json:"profile"`

	RepoCount     int       `json:"repo_count"`
	TotalCommits  int       `json:"total_commits"`
	TotalLOC      int       `json:"total_loc"`
	TotalDocLines int       `json:"total_doc_lines"`
	FirstActivity time.Time `json:"first_activity"`
	LastActivity  time.Time `json:"last_activity"`

	LanguageStats map[string]int      `json:"language_stats"`
	TopKeywords   []RankedEntry       `json:"top_keywords"`
	TopTopics     []RankedEntry       `json:"top_topics"`
	WeeklyCommits []WeekCount         `json:"weekly_commits"`
	CommitStats   CommitStats         `json:"commit_stats"`
	RecentRepos   []RepositorySummary `json:"recent_repos"`
	StarredRepos  []RepositorySummary `json:"starred_repos"`
	Diagnostics   Diagnostics         `json:"diagnostics"`
}
