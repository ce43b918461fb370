package ghclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v57/github"
	"github.com/hal/ghfolio/internal/model"
)

// ProjectDocPaths is the prioritized probe list for the portfolio-oriented
// document: case variants and common documentation subdirectories. The
// first path that resolves wins.
var ProjectDocPaths = []string{
	"GitHubFolio.md",
	"GITHUBFOLIO.md",
	"githubfolio.md",
	"docs/GitHubFolio.md",
	"docs/githubfolio.md",
	".github/GitHubFolio.md",
	".github/githubfolio.md",
	"PROJECT.md",
	"project.md",
	"docs/PROJECT.md",
	"docs/project.md",
}

// Readme fetches and decodes the repository's standard readme. A missing
// readme returns nil, nil.
func (c *Client) Readme(ctx context.Context, owner, repo string) (*model.Document, error) {
	rc, resp, err := c.client.Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch readme for %s/%s: %w", owner, repo, err)
	}

	content, err := decodeRepositoryContent(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode readme for %s/%s: %w", owner, repo, err)
	}

	return &model.Document{
		Kind:    model.DocTechnical,
		Path:    rc.GetPath(),
		Content: content,
	}, nil
}

// FileContent fetches and decodes a single file by path. A missing file
// returns nil, nil.
func (c *Client) FileContent(ctx context.Context, owner, repo, path string) (*model.Document, error) {
	rc, _, resp, err := c.client.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch %s from %s/%s: %w", path, owner, repo, err)
	}
	if rc == nil {
		// Path resolved to a directory.
		return nil, nil
	}

	content, err := decodeRepositoryContent(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s from %s/%s: %w", path, owner, repo, err)
	}

	return &model.Document{
		Kind:    model.DocProject,
		Path:    rc.GetPath(),
		Content: content,
	}, nil
}

// decodeRepositoryContent extracts the text of a contents-API response.
func decodeRepositoryContent(rc *gh.RepositoryContent) (string, error) {
	if rc.Content == nil {
		return "", nil
	}
	if rc.GetEncoding() == "base64" {
		return DecodeBase64Content(*rc.Content)
	}
	return *rc.Content, nil
}

// DecodeBase64Content decodes a base64 content blob into UTF-8 text.
// GitHub wraps the payload across lines, so whitespace is stripped first.
// Decoding whole bytes (rather than per-character mapping) keeps
// multi-byte UTF-8 sequences intact.
func DecodeBase64Content(encoded string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, encoded)

	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return "", fmt.Errorf("decode content: %w", err)
	}
	return string(decoded), nil
}

// RawContentBase returns the raw-content URL prefix used to rewrite
// root-relative links and images in repository documents.
func RawContentBase(owner, repo, branch string) string {
	if branch == "" {
		branch = "main"
	}
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s", owner, repo, branch)
}
