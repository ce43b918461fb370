// Package ghclient wraps the GitHub REST and GraphQL APIs behind the
// operations the aggregators need.
package ghclient

import (
	"context"

	"github.com/hal/ghfolio/internal/model"
)

// API defines the GitHub operations consumed by the aggregators.
// This interface enables mocking the GitHub client in unit tests.
type API interface {
	// Users
	User(ctx context.Context, login string) (model.User, error)
	ListRepos(ctx context.Context, login string) ([]model.Repository, error)
	Followers(ctx context.Context, login string, n int) ([]model.Owner, error)
	Following(ctx context.Context, login string, n int) ([]model.Owner, error)

	// Repositories
	Repo(ctx context.Context, owner, repo string) (model.RepoDetail, error)
	Contributors(ctx context.Context, owner, repo string) ([]model.Contributor, error)
	Languages(ctx context.Context, owner, repo string) (map[string]int, error)
	OwnerParticipation(ctx context.Context, owner, repo string) ([]int, error)

	// Documents
	Readme(ctx context.Context, owner, repo string) (*model.Document, error)
	FileContent(ctx context.Context, owner, repo, path string) (*model.Document, error)

	// Pinned repositories (GraphQL)
	PinnedRepos(ctx context.Context, login string) ([]model.RepoCard, error)

	// Search
	SearchReposByLanguage(ctx context.Context, language string) ([]model.Repository, error)
	SearchReposByTopics(ctx context.Context, topics []string) ([]model.Repository, error)
}

// Ensure Client implements the API interface.
var _ API = (*Client)(nil)
