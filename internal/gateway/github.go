// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/go-github/v62/github"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/naka-gawa/github-profile/internal/domain"
)

// ErrNotFound is returned when the requested account does not exist.
var ErrNotFound = errors.New("github: not found")

const (
	defaultMaxBlobSize   = 1_000_000
	defaultBlobCacheSize = 1024
)

// Fetcher defines the behavior of a data source producing repository facts.
type Fetcher interface {
	FetchProfile(ctx context.Context, login string) (*domain.ProfileFacts, error)
	ListRepositories(ctx context.Context, login string) ([]domain.RepositoryMeta, error)
	// FetchRepository returns the facts of one listed repository. Optional parts
	// (README, file tree, blobs, commit activity) that cannot be fetched are left empty.
	FetchRepository(ctx context.Context, meta domain.RepositoryMeta) (*domain.RepositoryFacts, error)
}

// Options tunes which blobs are downloaded for line counting.
type Options struct {
	MaxBlobSize   int
	ExcludePaths  []string
	BlobCacheSize int
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger

	maxBlobSize int
	exclude     []glob.Glob
	blobs       *lru.Cache[string, string]
}

// profileQuery fetches the account facts shown in the report header.
type profileQuery struct {
	User struct {
		Login     string
		Name      string
		URL       string `graphql:"url"`
		AvatarURL string `graphql:"avatarUrl"`
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, options Options, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return newGitHubGateway(github.NewClient(httpClient), githubv4.NewClient(httpClient), options, logger)
}

func newGitHubGateway(restClient *github.Client, graphqlClient *githubv4.Client, options Options, logger *log.Logger) (*GitHubGateway, error) {
	if options.MaxBlobSize <= 0 {
		options.MaxBlobSize = defaultMaxBlobSize
	}
	if options.BlobCacheSize <= 0 {
		options.BlobCacheSize = defaultBlobCacheSize
	}
	exclude, err := compileGlobs(options.ExcludePaths)
	if err != nil {
		return nil, err
	}
	blobs, err := lru.New[string, string](options.BlobCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob cache: %w", err)
	}
	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
		maxBlobSize:   options.MaxBlobSize,
		exclude:       exclude,
		blobs:         blobs,
	}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		matcher, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		matchers = append(matchers, matcher)
	}
	return matchers, nil
}

// FetchProfile fetches the public profile of login using the GraphQL API.
func (g *GitHubGateway) FetchProfile(ctx context.Context, login string) (*domain.ProfileFacts, error) {
	var q profileQuery
	variables := map[string]interface{}{"login": githubv4.String(login)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for profile: %w", err)
	}
	if q.User.Login == "" {
		return nil, fmt.Errorf("user %s: %w", login, ErrNotFound)
	}
	return &domain.ProfileFacts{
		Login:     q.User.Login,
		Name:      q.User.Name,
		URL:       q.User.URL,
		AvatarURL: q.User.AvatarURL,
	}, nil
}

// ListRepositories lists all public repositories owned by login.
func (g *GitHubGateway) ListRepositories(ctx context.Context, login string) ([]domain.RepositoryMeta, error) {
	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var metas []domain.RepositoryMeta
	for {
		repos, resp, err := g.restClient.Repositories.ListByUser(ctx, login, opts)
		if err != nil {
			if isNotFound(err) {
				return nil, fmt.Errorf("user %s: %w", login, ErrNotFound)
			}
			return nil, fmt.Errorf("failed to list repositories with REST API: %w", err)
		}
		for _, repo := range repos {
			metas = append(metas, metaFromRepository(repo))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of repositories...")
	}
	return metas, nil
}

func metaFromRepository(repo *github.Repository) domain.RepositoryMeta {
	return domain.RepositoryMeta{
		Owner:         repo.GetOwner().GetLogin(),
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		URL:           repo.GetHTMLURL(),
		Description:   repo.GetDescription(),
		DefaultBranch: repo.GetDefaultBranch(),
		CreatedAt:     repo.GetCreatedAt().Time,
		PushedAt:      repo.GetPushedAt().Time,
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		Language:      repo.GetLanguage(),
		License:       repo.GetLicense().GetName(),
		Topics:        slices.Clone(repo.Topics),
	}
}

// FetchRepository collects the facts of a single repository.
// Only a failure to list languages is returned as an error; the remaining
// parts degrade to empty values and are logged.
func (g *GitHubGateway) FetchRepository(ctx context.Context, meta domain.RepositoryMeta) (*domain.RepositoryFacts, error) {
	owner, name := meta.Owner, meta.Name
	languages, _, err := g.restClient.Repositories.ListLanguages(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages of %s: %w", meta.FullName, err)
	}

	facts := &domain.RepositoryFacts{
		RepositoryMeta: meta,
		Languages:      languages,
		Readme:         g.fetchReadme(ctx, owner, name),
		Files:          g.fetchFiles(ctx, owner, name, meta.DefaultBranch),
		WeeklyCommits:  g.fetchCommitActivity(ctx, owner, name),
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return facts, nil
}

func (g *GitHubGateway) fetchReadme(ctx context.Context, owner, name string) string {
	readme, _, err := g.restClient.Repositories.GetReadme(ctx, owner, name, nil)
	if err != nil {
		if !isNotFound(err) {
			g.logger.Printf("[WARN] Could not fetch README of %s/%s: %v\n", owner, name, err)
		}
		return ""
	}
	content, err := readme.GetContent()
	if err != nil {
		g.logger.Printf("[WARN] Could not decode README of %s/%s: %v\n", owner, name, err)
		return ""
	}
	return strings.ToValidUTF8(content, "")
}

func (g *GitHubGateway) fetchFiles(ctx context.Context, owner, name, branch string) []domain.SourceFile {
	if branch == "" {
		return nil
	}
	tree, _, err := g.restClient.Git.GetTree(ctx, owner, name, branch, true)
	if err != nil {
		g.logger.Printf("[WARN] Could not fetch file tree of %s/%s: %v\n", owner, name, err)
		return nil
	}
	var files []domain.SourceFile
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		file := domain.SourceFile{Path: entry.GetPath(), Size: entry.GetSize()}
		if g.shouldDownload(file) {
			text, err := g.blobText(ctx, owner, name, entry.GetSHA())
			if err != nil {
				g.logger.Printf("[WARN] Could not fetch blob %s of %s/%s: %v\n", file.Path, owner, name, err)
			} else {
				file.Text = &text
			}
		}
		files = append(files, file)
	}
	return files
}

func (g *GitHubGateway) shouldDownload(file domain.SourceFile) bool {
	if file.Size <= 0 || file.Size >= g.maxBlobSize {
		return false
	}
	for _, matcher := range g.exclude {
		if matcher.Match(file.Path) {
			return false
		}
	}
	return true
}

// blobText returns the UTF-8 text of a blob. Identical blobs are shared
// across repositories and forks, so texts are cached by SHA.
func (g *GitHubGateway) blobText(ctx context.Context, owner, name, sha string) (string, error) {
	if text, ok := g.blobs.Get(sha); ok {
		return text, nil
	}
	raw, _, err := g.restClient.Git.GetBlobRaw(ctx, owner, name, sha)
	if err != nil {
		return "", err
	}
	text := strings.ToValidUTF8(string(raw), "")
	g.blobs.Add(sha, text)
	return text, nil
}

func (g *GitHubGateway) fetchCommitActivity(ctx context.Context, owner, name string) []domain.WeeklySample {
	activity, _, err := g.restClient.Repositories.ListCommitActivity(ctx, owner, name)
	if err != nil {
		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			g.logger.Printf("  Commit statistics of %s/%s are still being computed, skipping.\n", owner, name)
		} else {
			g.logger.Printf("[WARN] Could not fetch commit activity of %s/%s: %v\n", owner, name, err)
		}
		return nil
	}
	samples := make([]domain.WeeklySample, 0, len(activity))
	for _, week := range activity {
		samples = append(samples, domain.WeeklySample{
			WeekStart: week.GetWeek().Time,
			Total:     week.GetTotal(),
		})
	}
	return samples
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}
