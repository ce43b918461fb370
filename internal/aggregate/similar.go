package aggregate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hal/ghfolio/internal/log"
	"github.com/hal/ghfolio/internal/model"
	"golang.org/x/sync/errgroup"
)

const (
	// maxSimilarUsers caps the final candidate list.
	maxSimilarUsers = 6

	// maxTopicTerms bounds how many topics feed the topic search query.
	maxTopicTerms = 3

	// maxLanguageRepos bounds how many search hits feed contributor
	// pulls during language discovery.
	maxLanguageRepos = 3

	// maxContributorsPerRepo bounds contributor pulls during language
	// discovery.
	maxContributorsPerRepo = 5

	// maxFollowerProbes bounds the follower fan-out of the social method.
	maxFollowerProbes = 5
)

// SimilarUsers discovers up to six accounts related to the target user by
// three methods run in order: shared primary language, shared repository
// topics, and mutual follower structure. The first method to surface a
// login fixes its reason; later methods never overwrite it. Each method
// degrades independently and records an Outcome.
func (a *Aggregator) SimilarUsers(ctx context.Context, username string) ([]model.SimilarUser, []Outcome, error) {
	if username == "" {
		return nil, nil, fmt.Errorf("username is required")
	}

	repos, err := a.api.ListRepos(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to list repositories for %s: %w", username, err)
	}

	set := newCandidateSet(username, maxSimilarUsers)
	var outcomes []Outcome

	language := PrimaryLanguage(repos)
	topics := TopTopics(repos, maxTopicTerms)

	// Nothing to pivot on means nothing to discover; skip the follower
	// graph too rather than surfacing socially adjacent strangers.
	if language == "" && len(topics) == 0 {
		return nil, nil, nil
	}

	if language != "" {
		outcomes = append(outcomes, Outcome{
			Task: "language-search",
			Err:  a.collectByLanguage(ctx, set, language),
		})
	}
	if !set.full() && len(topics) > 0 {
		outcomes = append(outcomes, Outcome{
			Task: "topic-search",
			Err:  a.collectByTopics(ctx, set, topics),
		})
	}
	if !set.full() {
		outcomes = append(outcomes, Outcome{
			Task: "follower-graph",
			Err:  a.collectByFollowers(ctx, set, username),
		})
	}

	users := set.users()
	a.enrichNames(ctx, users)
	return users, outcomes, nil
}

// collectByLanguage pulls top contributors from the highest starred
// repositories in the user's primary language.
func (a *Aggregator) collectByLanguage(ctx context.Context, set *candidateSet, language string) error {
	repos, err := a.api.SearchReposByLanguage(ctx, language)
	if err != nil {
		log.Debug("language search failed", "language", language, "error", err)
		return err
	}
	if len(repos) > maxLanguageRepos {
		repos = repos[:maxLanguageRepos]
	}
	reason := fmt.Sprintf("Also works with %s", language)
	for _, repo := range repos {
		if set.full() {
			return nil
		}
		contributors, err := a.api.Contributors(ctx, repo.Owner.Login, repo.Name)
		if err != nil {
			log.Debug("contributor pull failed", "repo", repo.FullName, "error", err)
			continue
		}
		if len(contributors) > maxContributorsPerRepo {
			contributors = contributors[:maxContributorsPerRepo]
		}
		for _, c := range contributors {
			set.add(model.SimilarUser{
				Login:     c.Login,
				AvatarURL: c.AvatarURL,
				HTMLURL:   c.HTMLURL,
				Reason:    reason,
			})
		}
	}
	return nil
}

// collectByTopics adds the owners of repositories matching the user's
// most common topics.
func (a *Aggregator) collectByTopics(ctx context.Context, set *candidateSet, topics []string) error {
	repos, err := a.api.SearchReposByTopics(ctx, topics)
	if err != nil {
		log.Debug("topic search failed", "topics", strings.Join(topics, ","), "error", err)
		return err
	}
	for _, repo := range repos {
		if set.full() {
			return nil
		}
		set.add(model.SimilarUser{
			Login:     repo.Owner.Login,
			AvatarURL: repo.Owner.AvatarURL,
			HTMLURL:   repo.Owner.HTMLURL,
			Reason:    "Works on similar topics",
		})
	}
	return nil
}

// collectByFollowers walks one hop of the follower graph: accounts that
// the user's followers also follow.
func (a *Aggregator) collectByFollowers(ctx context.Context, set *candidateSet, username string) error {
	followers, err := a.api.Followers(ctx, username, maxFollowerProbes)
	if err != nil {
		log.Debug("follower fetch failed", "user", username, "error", err)
		return err
	}
	for _, follower := range followers {
		if set.full() {
			return nil
		}
		following, err := a.api.Following(ctx, follower.Login, maxFollowerProbes)
		if err != nil {
			log.Debug("following fetch failed", "user", follower.Login, "error", err)
			continue
		}
		for _, peer := range following {
			set.add(model.SimilarUser{
				Login:     peer.Login,
				AvatarURL: peer.AvatarURL,
				HTMLURL:   peer.HTMLURL,
				Reason:    "Followed by people who follow you",
			})
		}
	}
	return nil
}

// enrichNames resolves display names for the final candidates in
// parallel. Lookup failures leave the name empty.
func (a *Aggregator) enrichNames(ctx context.Context, users []model.SimilarUser) {
	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	for i := range users {
		i := i
		g.Go(func() error {
			user, err := a.api.User(gctx, users[i].Login)
			if err != nil {
				log.Trace("name enrichment failed", "user", users[i].Login, "error", err)
				return nil
			}
			mu.Lock()
			users[i].Name = user.Name
			if users[i].AvatarURL == "" {
				users[i].AvatarURL = user.AvatarURL
			}
			if users[i].HTMLURL == "" {
				users[i].HTMLURL = user.HTMLURL
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
}

// candidateSet is an ordered login set with first-writer-wins semantics.
// The target user is never admitted.
type candidateSet struct {
	exclude string
	limit   int
	seen    map[string]struct{}
	ordered []model.SimilarUser
}

func newCandidateSet(exclude string, limit int) *candidateSet {
	return &candidateSet{
		exclude: strings.ToLower(exclude),
		limit:   limit,
		seen:    map[string]struct{}{},
	}
}

func (s *candidateSet) add(user model.SimilarUser) {
	if s.full() || user.Login == "" {
		return
	}
	key := strings.ToLower(user.Login)
	if key == s.exclude {
		return
	}
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.ordered = append(s.ordered, user)
}

func (s *candidateSet) full() bool {
	return len(s.ordered) >= s.limit
}

func (s *candidateSet) users() []model.SimilarUser {
	return s.ordered
}

// PrimaryLanguage picks the most frequent repository language, breaking
// ties by first encounter.
func PrimaryLanguage(repos []model.Repository) string {
	counts := map[string]int{}
	var order []string
	for _, repo := range repos {
		if repo.Language == "" {
			continue
		}
		if _, ok := counts[repo.Language]; !ok {
			order = append(order, repo.Language)
		}
		counts[repo.Language]++
	}
	best := ""
	for _, lang := range order {
		if best == "" || counts[lang] > counts[best] {
			best = lang
		}
	}
	return best
}

// TopTopics returns up to n distinct topics in first-encounter order
// across the repository list.
func TopTopics(repos []model.Repository, n int) []string {
	seen := map[string]struct{}{}
	var topics []string
	for _, repo := range repos {
		for _, topic := range repo.Topics {
			if topic == "" {
				continue
			}
			if _, ok := seen[topic]; ok {
				continue
			}
			seen[topic] = struct{}{}
			topics = append(topics, topic)
			if len(topics) >= n {
				return topics
			}
		}
	}
	return topics
}
