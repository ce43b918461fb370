package ghclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hal/ghfolio/internal/log"
	"github.com/hal/ghfolio/internal/model"
)

const (
	graphqlEndpoint = "https://api.github.com/graphql"
	// Pinned items cap; GitHub itself allows at most six pins.
	pinnedItemCount = 6
	pinnedTopicCap  = 5
)

// graphqlHTTPClient is a configured HTTP client for GraphQL requests with
// connection pooling and keep-alive for reduced latency.
var graphqlHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     30 * time.Second,
	},
	Timeout: 30 * time.Second,
}

// graphqlRequest represents a GraphQL request payload.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlResponse represents a generic GraphQL response.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

const pinnedItemsQuery = `
query($login: String!) {
  user(login: $login) {
    pinnedItems(first: 6, types: REPOSITORY) {
      nodes {
        ... on Repository {
          name
          description
          url
          stargazerCount
          forkCount
          primaryLanguage {
            name
          }
          repositoryTopics(first: 5) {
            nodes {
              topic {
                name
              }
            }
          }
          owner {
            login
            avatarUrl
            url
          }
        }
      }
    }
  }
}`

// pinnedItemsData mirrors the nested response shape of the pinned query.
type pinnedItemsData struct {
	User struct {
		PinnedItems struct {
			Nodes []struct {
				Name            string `json:"name"`
				Description     string `json:"description"`
				URL             string `json:"url"`
				StargazerCount  int    `json:"stargazerCount"`
				ForkCount       int    `json:"forkCount"`
				PrimaryLanguage *struct {
					Name string `json:"name"`
				} `json:"primaryLanguage"`
				RepositoryTopics struct {
					Nodes []struct {
						Topic struct {
							Name string `json:"name"`
						} `json:"topic"`
					} `json:"nodes"`
				} `json:"repositoryTopics"`
				Owner struct {
					Login     string `json:"login"`
					AvatarURL string `json:"avatarUrl"`
					URL       string `json:"url"`
				} `json:"owner"`
			} `json:"nodes"`
		} `json:"pinnedItems"`
	} `json:"user"`
}

// PinnedRepos fetches a user's pinned repositories via the GraphQL API.
// The v4 API rejects unauthenticated requests, so anonymous clients fail
// here and callers fall back to the starred-repository heuristic.
func (c *Client) PinnedRepos(ctx context.Context, login string) ([]model.RepoCard, error) {
	if c.cred.Anonymous() {
		return nil, fmt.Errorf("pinned repositories require an authenticated client")
	}

	payload, err := json.Marshal(graphqlRequest{
		Query:     pinnedItemsQuery,
		Variables: map[string]any{"login": login},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pinned query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, graphqlEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create pinned query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.cred.AuthorizationHeader())

	resp, err := graphqlHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pinned query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("pinned query returned %d: %s", resp.StatusCode, string(body))
	}

	var gqlResp graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, fmt.Errorf("failed to decode pinned query response: %w", err)
	}
	if len(gqlResp.Errors) > 0 {
		return nil, fmt.Errorf("pinned query error: %s", gqlResp.Errors[0].Message)
	}

	var data pinnedItemsData
	if err := json.Unmarshal(gqlResp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pinned items: %w", err)
	}

	nodes := data.User.PinnedItems.Nodes
	log.Debug("fetched pinned repositories", "login", login, "count", len(nodes))

	cards := make([]model.RepoCard, 0, len(nodes))
	for _, n := range nodes {
		card := model.RepoCard{
			Name:        n.Name,
			FullName:    n.Owner.Login + "/" + n.Name,
			HTMLURL:     n.URL,
			Description: n.Description,
			Stars:       n.StargazerCount,
			Forks:       n.ForkCount,
			Owner: model.Owner{
				Login:     n.Owner.Login,
				AvatarURL: n.Owner.AvatarURL,
				HTMLURL:   n.Owner.URL,
			},
			Source: model.SourcePinned,
		}
		if n.PrimaryLanguage != nil {
			card.Language = n.PrimaryLanguage.Name
		}
		for _, t := range n.RepositoryTopics.Nodes {
			card.Topics = append(card.Topics, t.Topic.Name)
		}
		cards = append(cards, card)
	}

	return cards, nil
}
