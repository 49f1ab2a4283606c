// Package render writes an AggregateSummary to disk as JSON or HTML.
package render

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/naka-gawa/github-profile/internal/domain"
	"github.com/naka-gawa/github-profile/internal/usecase"
)

// TemplateJSON selects the JSON writer instead of an HTML template.
const TemplateJSON = "json"

// ErrUnknownTemplate is returned for a template identifier with no template.
var ErrUnknownTemplate = errors.New("render: unknown template")

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Sink consumes the summary of a run.
type Sink interface {
	Render(summary *domain.AggregateSummary, templateID string) (string, error)
}

// FileSink writes GitHub_Report_<login>.<ext> files into Dir.
type FileSink struct {
	Dir            string
	LanguageGroups int
}

// NewFileSink creates a FileSink. languageGroups is the number of languages
// shown before the remainder is folded into "Other".
func NewFileSink(dir string, languageGroups int) *FileSink {
	return &FileSink{Dir: dir, LanguageGroups: languageGroups}
}

// Render writes summary using the template identified by templateID and
// returns the path of the written file.
func (s *FileSink) Render(summary *domain.AggregateSummary, templateID string) (string, error) {
	if templateID == "" {
		templateID = "modern"
	}
	var (
		ext     string
		content []byte
		err     error
	)
	if templateID == TemplateJSON {
		ext = "json"
		content, err = json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal summary to JSON: %w", err)
		}
	} else {
		ext = "html"
		content, err = s.renderHTML(summary, templateID)
		if err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(s.Dir, fmt.Sprintf("GitHub_Report_%s.%s", summary.Profile.Login, ext))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// view is the data a HTML template is executed with.
type view struct {
	*domain.AggregateSummary
	Languages []LanguageSlice
	MaxWeek   int
}

var funcs = template.FuncMap{
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
	"date":  formatDate,
	"describe": func(description string) string {
		if strings.TrimSpace(description) == "" {
			return "No description provided."
		}
		return description
	},
	"percentOf": func(n, peak int) float64 {
		if peak <= 0 {
			return 0
		}
		return float64(n) / float64(peak) * 100
	},
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("02. January 2006")
}

func (s *FileSink) renderHTML(summary *domain.AggregateSummary, templateID string) ([]byte, error) {
	name := templateID + ".html.tmpl"
	tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, templateID)
	}

	v := view{
		AggregateSummary: summary,
		Languages:        GroupLanguages(summary.LanguageStats, s.LanguageGroups),
	}
	for _, week := range summary.WeeklyCommits {
		v.MaxWeek = max(v.MaxWeek, week.Commits)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, v); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", templateID, err)
	}
	return []byte(b.String()), nil
}

// OtherLanguages labels the slice holding every language past the cutoff.
const OtherLanguages = "Other"

// LanguageSlice is one segment of the language chart.
type LanguageSlice struct {
	Name    string
	Bytes   int
	Percent float64
}

// GroupLanguages keeps the n largest languages, ties broken by name, and
// folds the rest into a single OtherLanguages slice.
func GroupLanguages(stats map[string]int, n int) []LanguageSlice {
	ranked := usecase.TopN(stats, len(stats))
	total := 0
	for _, entry := range ranked {
		total += entry.Count
	}
	percent := func(bytes int) float64 {
		if total == 0 {
			return 0
		}
		return float64(bytes) / float64(total) * 100
	}

	n = max(n, 0)
	groups := make([]LanguageSlice, 0, min(len(ranked), n+1))
	other := 0
	for i, entry := range ranked {
		if i >= n {
			other += entry.Count
			continue
		}
		groups = append(groups, LanguageSlice{Name: entry.Key, Bytes: entry.Count, Percent: percent(entry.Count)})
	}
	if len(ranked) > n {
		groups = append(groups, LanguageSlice{Name: OtherLanguages, Bytes: other, Percent: percent(other)})
	}
	return groups
}
