package aggregate

import (
	"context"
	"fmt"
	"sort"

	"github.com/hal/ghfolio/internal/log"
	"github.com/hal/ghfolio/internal/model"
)

const (
	// maxParticipationProbes bounds how many recently pushed repos get a
	// commit-participation lookup before falling back to push buckets.
	maxParticipationProbes = 3

	// monthlyBucketCount is the span of the push-date fallback series.
	monthlyBucketCount = 12
)

// Activity builds a commit series for a user. It probes the most recently
// pushed non-fork repositories for owner commit participation and returns
// the first repository with any activity. When no probe yields commits it
// falls back to bucketing repository push dates by month. An empty series
// is a valid result, not an error.
func (a *Aggregator) Activity(ctx context.Context, username string) (model.ActivitySeries, []Outcome, error) {
	if username == "" {
		return model.ActivitySeries{}, nil, fmt.Errorf("username is required")
	}

	repos, err := a.api.ListRepos(ctx, username)
	if err != nil {
		return model.ActivitySeries{}, nil, fmt.Errorf("unable to list repositories for %s: %w", username, err)
	}

	var outcomes []Outcome

	candidates := recentNonForks(repos, maxParticipationProbes)
	for _, repo := range candidates {
		weeks, err := a.api.OwnerParticipation(ctx, repo.Owner.Login, repo.Name)
		if err != nil {
			log.Debug("participation fetch failed", "repo", repo.FullName, "error", err)
			outcomes = append(outcomes, Outcome{Task: "participation:" + repo.FullName, Err: err})
			continue
		}
		outcomes = append(outcomes, Outcome{Task: "participation:" + repo.FullName})
		series := WeeklySeries(repo.FullName, weeks)
		if !series.Empty() {
			return series, outcomes, nil
		}
	}

	log.Debug("no owner participation found, using push-date buckets", "user", username)
	return MonthlyPushBuckets(repos), outcomes, nil
}

// recentNonForks returns up to n non-fork repositories ordered by most
// recent push.
func recentNonForks(repos []model.Repository, n int) []model.Repository {
	sources := make([]model.Repository, 0, len(repos))
	for _, repo := range repos {
		if repo.Fork {
			continue
		}
		sources = append(sources, repo)
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].PushedAt.After(sources[j].PushedAt)
	})
	if len(sources) > n {
		sources = sources[:n]
	}
	return sources
}

// WeeklySeries converts a weekly commit-count vector into an activity
// series, dropping empty weeks. An all-zero vector produces an empty
// series so callers can distinguish "fetched but idle" from real data.
func WeeklySeries(repo string, weeks []int) model.ActivitySeries {
	series := model.ActivitySeries{
		Unit: model.UnitWeeklyCommits,
		Repo: repo,
	}
	for i, count := range weeks {
		if count == 0 {
			continue
		}
		series.Points = append(series.Points, model.ActivityPoint{
			Label: fmt.Sprintf("Week %d", i+1),
			Count: count,
		})
	}
	return series
}

// MonthlyPushBuckets buckets repository last-push dates by calendar
// month, labeled MM/YY in chronological order, keeping the most recent
// twelve buckets. Months with no pushes are omitted. There is no age
// cutoff: a long-idle account keeps its history instead of an empty
// chart.
func MonthlyPushBuckets(repos []model.Repository) model.ActivitySeries {
	type bucket struct {
		key   string // sortable YYYY-MM
		label string
		count int
	}
	buckets := map[string]*bucket{}
	for _, repo := range repos {
		if repo.PushedAt.IsZero() {
			continue
		}
		key := repo.PushedAt.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{key: key, label: repo.PushedAt.Format("01/06")}
			buckets[key] = b
		}
		b.count++
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].key < ordered[j].key
	})
	if len(ordered) > monthlyBucketCount {
		ordered = ordered[len(ordered)-monthlyBucketCount:]
	}

	series := model.ActivitySeries{Unit: model.UnitMonthlyPushes}
	for _, b := range ordered {
		series.Points = append(series.Points, model.ActivityPoint{
			Label: b.label,
			Count: b.count,
		})
	}
	return series
}
