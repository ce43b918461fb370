package aggregate

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hal/ghfolio/internal/log"
	"github.com/hal/ghfolio/internal/model"
	"golang.org/x/sync/errgroup"
)

const maxSkills = 6

// Profile assembles the profile-page view for a username.
//
// The identity fetch is the only hard failure: without it no profile view
// is meaningful. The repository list and the pinned query settle
// independently; a failed or empty pinned query falls back to the top
// non-fork repositories by stars.
func (a *Aggregator) Profile(ctx context.Context, username string) (model.Profile, []Outcome, error) {
	if username == "" {
		return model.Profile{}, nil, fmt.Errorf("username must not be empty")
	}

	user, err := a.api.User(ctx, username)
	if err != nil {
		return model.Profile{}, nil, err
	}

	var (
		mu       sync.Mutex
		repos    []model.Repository
		pinned   []model.RepoCard
		outcomes []Outcome
	)

	record := func(task string, err error) {
		mu.Lock()
		outcomes = append(outcomes, Outcome{Task: task, Err: err})
		mu.Unlock()
	}

	// The repo list and pinned query are independent; only the fallback
	// path below needs the repo list.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := a.api.ListRepos(gctx, username)
		if err != nil {
			log.Debug("repository list failed", "user", username, "error", err)
			record("repos", err)
			return nil
		}
		mu.Lock()
		repos = list
		mu.Unlock()
		record("repos", nil)
		return nil
	})

	g.Go(func() error {
		cards, err := a.api.PinnedRepos(gctx, username)
		if err != nil {
			log.Debug("pinned query failed, will fall back", "user", username, "error", err)
			record("pinned", err)
			return nil
		}
		mu.Lock()
		pinned = cards
		mu.Unlock()
		record("pinned", nil)
		return nil
	})

	_ = g.Wait() // sub-fetches never return errors; they record outcomes

	if len(pinned) == 0 {
		pinned = FeaturedFallback(repos, a.featuredCount)
		if len(pinned) > 0 {
			log.Info("using starred fallback for featured projects", "user", username, "count", len(pinned))
		}
	}
	if len(pinned) > a.featuredCount {
		pinned = pinned[:a.featuredCount]
	}

	return model.Profile{
		User:     user,
		Repos:    repos,
		Featured: pinned,
		Skills:   Skills(repos, maxSkills),
	}, outcomes, nil
}

// FeaturedFallback derives featured cards from a plain repository list:
// non-fork repositories sorted by stars descending, truncated to n.
// The sort is stable so equal-star repositories keep list order,
// making the fallback deterministic.
func FeaturedFallback(repos []model.Repository, n int) []model.RepoCard {
	var nonForks []model.Repository
	for _, r := range repos {
		if !r.Fork {
			nonForks = append(nonForks, r)
		}
	}

	sort.SliceStable(nonForks, func(i, j int) bool {
		return nonForks[i].Stars > nonForks[j].Stars
	})

	if len(nonForks) > n {
		nonForks = nonForks[:n]
	}

	cards := make([]model.RepoCard, 0, len(nonForks))
	for _, r := range nonForks {
		cards = append(cards, model.CardFromRepository(r))
	}
	return cards
}

// Skills collects the distinct non-empty languages across repositories in
// first-encounter order, truncated to n.
func Skills(repos []model.Repository, n int) []string {
	seen := make(map[string]bool)
	var skills []string
	for _, r := range repos {
		if r.Language == "" || seen[r.Language] {
			continue
		}
		seen[r.Language] = true
		skills = append(skills, r.Language)
		if len(skills) == n {
			break
		}
	}
	return skills
}
