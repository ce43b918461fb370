package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v57/github"
	"github.com/hal/ghfolio/internal/log"
	"github.com/hal/ghfolio/internal/model"
)

const maxContributors = 10

// Repo fetches full metadata for a single repository. A 404 wraps
// ErrNotFound.
func (c *Client) Repo(ctx context.Context, owner, repo string) (model.RepoDetail, error) {
	r, resp, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return model.RepoDetail{}, fmt.Errorf("repository %s/%s: %w", owner, repo, ErrNotFound)
		}
		return model.RepoDetail{}, fmt.Errorf("failed to fetch repository %s/%s: %w", owner, repo, err)
	}

	detail := model.RepoDetail{
		Repository:    repositoryFromGitHub(r),
		Size:          r.GetSize(),
		OpenIssues:    r.GetOpenIssuesCount(),
		Subscribers:   r.GetSubscribersCount(),
		NetworkCount:  r.GetNetworkCount(),
		Homepage:      r.GetHomepage(),
		Visibility:    r.GetVisibility(),
		DefaultBranch: r.GetDefaultBranch(),
	}
	if lic := r.GetLicense(); lic != nil {
		detail.License = &model.License{
			Key:  lic.GetKey(),
			Name: lic.GetName(),
		}
	}
	if detail.DefaultBranch == "" {
		detail.DefaultBranch = "main"
	}
	return detail, nil
}

// Contributors fetches up to 10 contributors, ordered by contribution
// count descending as GitHub returns them.
func (c *Client) Contributors(ctx context.Context, owner, repo string) ([]model.Contributor, error) {
	opts := &gh.ListContributorsOptions{
		ListOptions: gh.ListOptions{PerPage: maxContributors},
	}

	contributors, _, err := c.client.Repositories.ListContributors(ctx, owner, repo, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributors for %s/%s: %w", owner, repo, err)
	}

	result := make([]model.Contributor, 0, len(contributors))
	for _, cb := range contributors {
		result = append(result, model.Contributor{
			Login:         cb.GetLogin(),
			AvatarURL:     cb.GetAvatarURL(),
			HTMLURL:       cb.GetHTMLURL(),
			Contributions: cb.GetContributions(),
		})
		if len(result) == maxContributors {
			break
		}
	}
	return result, nil
}

// Languages fetches the byte-count-per-language breakdown.
func (c *Client) Languages(ctx context.Context, owner, repo string) (map[string]int, error) {
	langs, _, err := c.client.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages for %s/%s: %w", owner, repo, err)
	}
	return langs, nil
}

// OwnerParticipation fetches the repository owner's weekly commit-count
// series. GitHub responds 202 while stats are being computed; that case is
// reported as no data rather than an error.
func (c *Client) OwnerParticipation(ctx context.Context, owner, repo string) ([]int, error) {
	participation, _, err := c.client.Repositories.ListParticipation(ctx, owner, repo)
	if err != nil {
		var accepted *gh.AcceptedError
		if errors.As(err, &accepted) {
			log.Debug("participation stats still computing", "repo", owner+"/"+repo)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch participation for %s/%s: %w", owner, repo, err)
	}
	if participation == nil {
		return nil, nil
	}
	return participation.Owner, nil
}
