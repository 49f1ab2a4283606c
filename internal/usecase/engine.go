package usecase

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/github-profile/internal/domain"
)

// DefaultMaxBlobSize is the exclusive upper bound of file sizes counted as code.
const DefaultMaxBlobSize = 1_000_000

// ErrSealed is returned when an Engine is used after Assemble.
var ErrSealed = errors.New("aggregation engine is sealed")

// Limits holds the top-N cutoffs of each ranking.
type Limits struct {
	Keywords int
	Topics   int
	Starred  int
	Recent   int
}

// DefaultLimits returns the cutoffs used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{Keywords: 20, Topics: 15, Starred: 5, Recent: 5}
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	StopWords   map[string]struct{}
	Limits      Limits
	MaxBlobSize int

	// Now and NewRunID default to time.Now and uuid.NewString.
	Now      func() time.Time
	NewRunID func() string
}

// State is the lifecycle phase of an Engine.
type State int

const (
	StateCollecting State = iota
	StateSealed
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateSealed:
		return "sealed"
	default:
		return "unknown"
	}
}

// Engine folds RepositoryFacts into run-scoped accumulators and assembles
// them into a single AggregateSummary.
//
// An Engine is not safe for concurrent use. Callers that fetch facts
// concurrently must funnel them through a single goroutine calling Record.
type Engine struct {
	options EngineOptions
	state   State

	keywords  *KeywordAccumulator
	languages *LanguageAccumulator
	commits   *CommitAccumulator
	topics    *TopicAccumulator
	repos     *RepositoryCollector

	totalLOC      int
	totalDocLines int
	firstActivity time.Time
	lastActivity  time.Time
	diagnostics   domain.Diagnostics
}

// NewEngine creates an Engine in the collecting state.
func NewEngine(options EngineOptions) *Engine {
	if options.MaxBlobSize <= 0 {
		options.MaxBlobSize = DefaultMaxBlobSize
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.NewRunID == nil {
		options.NewRunID = uuid.NewString
	}
	return &Engine{
		options:   options,
		state:     StateCollecting,
		keywords:  NewKeywordAccumulator(NewNormalizer(options.StopWords)),
		languages: NewLanguageAccumulator(),
		commits:   NewCommitAccumulator(),
		topics:    NewTopicAccumulator(),
		repos:     NewRepositoryCollector(),
	}
}

// State returns the current lifecycle phase.
func (e *Engine) State() State {
	return e.state
}

// Record folds one repository into every accumulator.
// Missing parts of facts contribute nothing; malformed samples are skipped
// and counted in the summary diagnostics.
func (e *Engine) Record(facts *domain.RepositoryFacts) error {
	if e.state == StateSealed {
		return ErrSealed
	}
	if facts == nil {
		return nil
	}

	if facts.Partial {
		e.diagnostics.DegradedRepositories++
	}
	e.repos.Record(facts.RepositoryMeta)
	e.trackActivity(facts.CreatedAt, facts.PushedAt)

	e.keywords.RecordName(facts.Name)
	if facts.Readme != "" {
		e.keywords.Record(facts.Readme)
		e.totalDocLines += CountLines(facts.Readme)
	}

	e.diagnostics.SkippedLanguageBytes += e.languages.Record(facts.Languages)
	e.diagnostics.SkippedSamples += e.commits.Record(facts.WeeklyCommits)
	e.topics.Record(facts.Topics)

	for _, file := range facts.Files {
		if file.Text == nil || file.Size <= 0 || file.Size >= e.options.MaxBlobSize {
			continue
		}
		e.totalLOC += CountLines(*file.Text)
	}
	return nil
}

func (e *Engine) trackActivity(created, pushed time.Time) {
	if !created.IsZero() && (e.firstActivity.IsZero() || created.Before(e.firstActivity)) {
		e.firstActivity = created
	}
	if !pushed.IsZero() && pushed.After(e.lastActivity) {
		e.lastActivity = pushed
	}
}

// Assemble seals the engine and returns the run summary.
// The summary shares no memory with the accumulators.
func (e *Engine) Assemble(profile domain.ProfileFacts) (*domain.AggregateSummary, error) {
	if e.state == StateSealed {
		return nil, ErrSealed
	}
	e.state = StateSealed

	limits := e.options.Limits
	series := e.commits.Series()
	return &domain.AggregateSummary{
		RunID:         e.options.NewRunID(),
		GeneratedAt:   e.options.Now(),
		Profile:       profile,
		RepoCount:     e.repos.Len(),
		TotalCommits:  e.commits.Total(),
		TotalLOC:      e.totalLOC,
		TotalDocLines: e.totalDocLines,
		FirstActivity: e.firstActivity,
		LastActivity:  e.lastActivity,
		LanguageStats: e.languages.Stats(),
		TopKeywords:   e.keywords.Top(limits.Keywords),
		TopTopics:     e.topics.Top(limits.Topics),
		WeeklyCommits: series,
		CommitStats:   commitStats(series),
		RecentRepos:   e.repos.MostRecent(limits.Recent),
		StarredRepos:  e.repos.MostStarred(limits.Starred),
		Diagnostics:   e.diagnostics,
	}, nil
}

// commitStats describes weeks with at least one commit.
func commitStats(series []domain.WeekCount) domain.CommitStats {
	active := make([]int, 0, len(series))
	for _, week := range series {
		if week.Commits > 0 {
			active = append(active, week.Commits)
		}
	}
	if len(active) == 0 {
		return domain.CommitStats{}
	}
	data := stats.LoadRawData(active)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	p90, _ := stats.Percentile(data, 90)
	peak, _ := stats.Max(data)
	return domain.CommitStats{
		ActiveWeeks: len(active),
		Mean:        finite(mean),
		Median:      finite(median),
		P90:         finite(p90),
		Max:         finite(peak),
	}
}

// finite maps the NaN returned alongside stats errors to zero so the
// summary stays JSON encodable.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// CountLines counts lines the way a text editor does: "\n", "\r\n" and "\r"
// end a line, and a trailing line break does not start a new one.
func CountLines(text string) int {
	if text == "" {
		return 0
	}
	lines := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines++
		case '\r':
			lines++
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		}
	}
	last := text[len(text)-1]
	if last != '\n' && last != '\r' {
		lines++
	}
	return lines
}
