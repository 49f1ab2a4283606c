// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// RepositoryMeta is the listing-level information about a repository.
// It is available before any per-repository API call is made.
type RepositoryMeta struct {
	Owner         string
	Name          string
	FullName      string
	URL           string
	Description   string // empty when the repository has none
	DefaultBranch string
	CreatedAt     time.Time
	PushedAt      time.Time
	Stars         int
	Forks         int
	Language      string
	License       string // empty when no license is detected
	Topics        []string
}

// SourceFile is one blob of the default branch tree.
// Text is nil when the content was not downloaded or could not be decoded.
type SourceFile struct {
	Path string
	Size int
	Text *string
}

// WeeklySample is one entry of a repository's weekly commit activity.
type WeeklySample struct {
	WeekStart time.Time
	Total     int
}

// RepositoryFacts is everything the data source knows about a single repository.
// It is produced once per repository and never modified afterwards.
type RepositoryFacts struct {
	RepositoryMeta
	Languages     map[string]int
	Readme        string
	Files         []SourceFile
	WeeklyCommits []WeeklySample

	// Partial is set when the source could only provide listing metadata.
	Partial bool
}

// ProfileFacts describes the account the report is generated for.
type ProfileFacts struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	AvatarURL string `json:"avatar_url"`
}

// DisplayName returns the profile name, falling back to the login.
func (p ProfileFacts) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Login
}
