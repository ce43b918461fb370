package ghclient

import (
	"context"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v57/github"
	"github.com/hal/ghfolio/internal/model"
)

const searchPageSize = 5

// SearchReposByLanguage searches public repositories written in the given
// language with more than 10 stars, most starred first.
func (c *Client) SearchReposByLanguage(ctx context.Context, language string) ([]model.Repository, error) {
	query := fmt.Sprintf("language:%s stars:>10", language)
	return c.searchRepos(ctx, query)
}

// SearchReposByTopics searches public repositories tagged with all of the
// given topics and more than 5 stars, most starred first.
func (c *Client) SearchReposByTopics(ctx context.Context, topics []string) ([]model.Repository, error) {
	var sb strings.Builder
	for _, t := range topics {
		fmt.Fprintf(&sb, "topic:%s ", t)
	}
	sb.WriteString("stars:>5")
	return c.searchRepos(ctx, sb.String())
}

func (c *Client) searchRepos(ctx context.Context, query string) ([]model.Repository, error) {
	opts := &gh.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: gh.ListOptions{
			PerPage: searchPageSize,
		},
	}

	result, _, err := c.client.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("repository search %q failed: %w", query, err)
	}

	repos := make([]model.Repository, 0, len(result.Repositories))
	for _, r := range result.Repositories {
		repos = append(repos, repositoryFromGitHub(r))
	}
	return repos, nil
}
