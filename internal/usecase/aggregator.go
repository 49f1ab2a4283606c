// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/naka-gawa/github-profile/internal/domain"
	"github.com/naka-gawa/github-profile/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// Aggregator is the use case for building a profile report.
// It orchestrates fetching repository facts and folding them into an Engine.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
	options EngineOptions
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger, options EngineOptions) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
		options: options,
	}
}

// Aggregate performs the main business logic.
// Repositories are fetched one at a time by a producer goroutine while a single
// consumer folds them into the engine. A repository that cannot be fetched
// contributes its listing metadata only. If the context is cancelled the run
// is abandoned and no summary is assembled.
func (a *Aggregator) Aggregate(ctx context.Context, login string) (*domain.AggregateSummary, error) {
	a.logger.Println("[1/3] Fetching profile...")
	profile, err := a.fetcher.FetchProfile(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile of %s: %w", login, err)
	}

	a.logger.Println("[2/3] Listing public repositories...")
	repos, err := a.fetcher.ListRepositories(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories of %s: %w", login, err)
	}

	a.logger.Printf("[3/3] Analyzing %d repositories...\n", len(repos))
	engine := NewEngine(a.options)
	factsCh := make(chan *domain.RepositoryFacts)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(factsCh)
		for i, meta := range repos {
			if err := egCtx.Err(); err != nil {
				return err
			}
			a.logger.Printf("  (%d/%d) %s\n", i+1, len(repos), meta.FullName)
			facts, err := a.fetcher.FetchRepository(egCtx, meta)
			if err != nil {
				if ctxErr := egCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				a.logger.Printf("[WARN] Could not fully analyze repository %s: %v\n", meta.FullName, err)
				facts = &domain.RepositoryFacts{RepositoryMeta: meta, Partial: true}
			}
			select {
			case factsCh <- facts:
			case <-egCtx.Done():
				return egCtx.Err()
			}
		}
		return nil
	})

	eg.Go(func() error {
		for facts := range factsCh {
			if err := engine.Record(facts); err != nil {
				return err
			}
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	summary, err := engine.Assemble(*profile)
	if err != nil {
		return nil, err
	}
	a.logger.Println("Usecase: Aggregation complete.")
	return summary, nil
}
