package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v57/github"
	"github.com/hal/ghfolio/internal/model"
)

// Per-fetch caps matching the public portfolio surface.
const (
	maxRepos        = 100
	maxFollowerScan = 5
)

// User fetches a user profile by login. A 404 wraps ErrNotFound so callers
// can distinguish a missing identity from transport failures.
func (c *Client) User(ctx context.Context, login string) (model.User, error) {
	u, resp, err := c.client.Users.Get(ctx, login)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return model.User{}, fmt.Errorf("user %q: %w", login, ErrNotFound)
		}
		return model.User{}, fmt.Errorf("failed to fetch user %q: %w", login, err)
	}
	return userFromGitHub(u), nil
}

// ListRepos fetches up to 100 of a user's repositories, most recently
// pushed first.
func (c *Client) ListRepos(ctx context.Context, login string) ([]model.Repository, error) {
	opts := &gh.RepositoryListByUserOptions{
		Sort: "pushed",
		ListOptions: gh.ListOptions{
			PerPage: maxRepos,
		},
	}

	repos, _, err := c.client.Repositories.ListByUser(ctx, login, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories for %q: %w", login, err)
	}

	result := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		result = append(result, repositoryFromGitHub(r))
	}
	return result, nil
}

// Followers fetches up to n followers of the given user.
func (c *Client) Followers(ctx context.Context, login string, n int) ([]model.Owner, error) {
	users, _, err := c.client.Users.ListFollowers(ctx, login, &gh.ListOptions{PerPage: n})
	if err != nil {
		return nil, fmt.Errorf("failed to list followers of %q: %w", login, err)
	}
	return ownersFromGitHub(users, n), nil
}

// Following fetches up to n accounts the given user follows.
func (c *Client) Following(ctx context.Context, login string, n int) ([]model.Owner, error) {
	users, _, err := c.client.Users.ListFollowing(ctx, login, &gh.ListOptions{PerPage: n})
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts %q follows: %w", login, err)
	}
	return ownersFromGitHub(users, n), nil
}

// IsNotFound reports whether err represents a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func ownersFromGitHub(users []*gh.User, n int) []model.Owner {
	if len(users) > n {
		users = users[:n]
	}
	result := make([]model.Owner, 0, len(users))
	for _, u := range users {
		result = append(result, model.Owner{
			Login:     u.GetLogin(),
			AvatarURL: u.GetAvatarURL(),
			HTMLURL:   u.GetHTMLURL(),
		})
	}
	return result
}

func userFromGitHub(u *gh.User) model.User {
	return model.User{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		AvatarURL:   u.GetAvatarURL(),
		HTMLURL:     u.GetHTMLURL(),
		Bio:         u.GetBio(),
		Company:     u.GetCompany(),
		Location:    u.GetLocation(),
		Blog:        u.GetBlog(),
		Twitter:     u.GetTwitterUsername(),
		PublicRepos: u.GetPublicRepos(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
		CreatedAt:   u.GetCreatedAt().Time,
	}
}

func repositoryFromGitHub(r *gh.Repository) model.Repository {
	return model.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		HTMLURL:     r.GetHTMLURL(),
		Description: r.GetDescription(),
		Fork:        r.GetFork(),
		Language:    r.GetLanguage(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Watchers:    r.GetWatchersCount(),
		Topics:      r.Topics,
		CreatedAt:   r.GetCreatedAt().Time,
		UpdatedAt:   r.GetUpdatedAt().Time,
		PushedAt:    r.GetPushedAt().Time,
		Owner: model.Owner{
			Login:     r.GetOwner().GetLogin(),
			AvatarURL: r.GetOwner().GetAvatarURL(),
			HTMLURL:   r.GetOwner().GetHTMLURL(),
		},
	}
}
