package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/naka-gawa/github-profile/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopN(t *testing.T) {
	table := map[string]int{"beta": 2, "alpha": 2, "gamma": 3, "delta": 1}

	testCases := []struct {
		name     string
		n        int
		expected []domain.RankedEntry
	}{
		{
			name:     "ties are broken by ascending key",
			n:        3,
			expected: []domain.RankedEntry{{Key: "gamma", Count: 3}, {Key: "alpha", Count: 2}, {Key: "beta", Count: 2}},
		},
		{
			name: "n larger than the table yields the whole table",
			n:    10,
			expected: []domain.RankedEntry{
				{Key: "gamma", Count: 3}, {Key: "alpha", Count: 2}, {Key: "beta", Count: 2}, {Key: "delta", Count: 1},
			},
		},
		{name: "zero yields an empty list", n: 0, expected: []domain.RankedEntry{}},
		{name: "negative yields an empty list", n: -3, expected: []domain.RankedEntry{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, TopN(table, tc.n))
		})
	}
}

func TestTopN_LengthBound(t *testing.T) {
	tables := []map[string]int{
		nil,
		{},
		{"solo": 1},
		{"a": 1, "b": 1, "c": 1, "d": 1, "e": 1},
	}
	for i, table := range tables {
		for n := 0; n <= len(table)+2; n++ {
			t.Run(fmt.Sprintf("table%d/n=%d", i, n), func(t *testing.T) {
				got := TopN(table, n)
				require.NotNil(t, got)
				assert.Len(t, got, min(n, len(table)))
			})
		}
	}
}

func TestTopN_DeterministicAcrossRuns(t *testing.T) {
	table := make(map[string]int)
	for i := range 50 {
		table[fmt.Sprintf("key%02d", i)] = i % 3
	}
	first := TopN(table, 20)
	for range 20 {
		assert.Equal(t, first, TopN(table, 20))
	}
	for i := 1; i < len(first); i++ {
		if first[i-1].Count == first[i].Count {
			assert.Less(t, first[i-1].Key, first[i].Key)
		}
	}
}

func TestTopRepositories(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	repos := []domain.RepositorySummary{
		{Name: "C", Stars: 5, PushedAt: base},
		{Name: "B", Stars: 10, PushedAt: base.Add(time.Hour)},
		{Name: "A", Stars: 10, PushedAt: base.Add(time.Hour)},
	}

	testCases := []struct {
		name     string
		n        int
		order    RepositoryOrder
		expected []string
	}{
		{name: "by stars with name tie-break", n: 2, order: ByStars, expected: []string{"A", "B"}},
		{name: "by push time with name tie-break", n: 3, order: ByPushedAt, expected: []string{"A", "B", "C"}},
		{name: "n larger than input", n: 10, order: ByStars, expected: []string{"A", "B", "C"}},
		{name: "zero", n: 0, order: ByStars, expected: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, names(TopRepositories(repos, tc.n, tc.order)))
		})
	}

	assert.Equal(t, "C", repos[0].Name, "input must not be reordered")
	assert.Equal(t, []domain.RepositorySummary{}, TopRepositories(nil, 5, ByStars))
}

func TestTopRepositories_StarsScenario(t *testing.T) {
	repos := []domain.RepositorySummary{{Name: "A", Stars: 10}, {Name: "B", Stars: 10}, {Name: "C", Stars: 5}}
	got := TopRepositories(repos, 2, ByStars)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, 10, got[0].Stars)
	assert.Equal(t, "B", got[1].Name)
	assert.Equal(t, 10, got[1].Stars)
}
