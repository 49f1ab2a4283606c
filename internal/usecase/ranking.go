package usecase

import (
	"cmp"
	"slices"
	"strings"

	"github.com/naka-gawa/github-profile/internal/domain"
)

// TopN returns the n entries of table with the highest counts, ordered by
// descending count and then by ascending key. n <= 0 yields an empty slice.
func TopN(table map[string]int, n int) []domain.RankedEntry {
	if n <= 0 {
		return []domain.RankedEntry{}
	}
	entries := make([]domain.RankedEntry, 0, len(table))
	for key, count := range table {
		entries = append(entries, domain.RankedEntry{Key: key, Count: count})
	}
	slices.SortFunc(entries, func(a, b domain.RankedEntry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	if len(entries) > n {
		entries = entries[:n:n]
	}
	return entries
}

// RepositoryOrder compares two repositories for ranking.
type RepositoryOrder func(a, b domain.RepositorySummary) int

// ByStars orders repositories by descending star count.
func ByStars(a, b domain.RepositorySummary) int {
	return cmp.Compare(b.Stars, a.Stars)
}

// ByPushedAt orders repositories by descending push timestamp.
func ByPushedAt(a, b domain.RepositorySummary) int {
	return b.PushedAt.Compare(a.PushedAt)
}

// TopRepositories returns the first n repositories under order.
// Ties are broken by name and then by full name, both ascending.
// The input slice is not modified.
func TopRepositories(repos []domain.RepositorySummary, n int, order RepositoryOrder) []domain.RepositorySummary {
	if n <= 0 {
		return []domain.RepositorySummary{}
	}
	sorted := slices.Clone(repos)
	slices.SortStableFunc(sorted, func(a, b domain.RepositorySummary) int {
		if c := order(a, b); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.FullName, b.FullName)
	})
	if len(sorted) > n {
		sorted = sorted[:n:n]
	}
	if sorted == nil {
		return []domain.RepositorySummary{}
	}
	return sorted
}
