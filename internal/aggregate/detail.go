package aggregate

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/hal/ghfolio/internal/ghclient"
	"github.com/hal/ghfolio/internal/log"
	"github.com/hal/ghfolio/internal/model"
	"golang.org/x/sync/errgroup"
)

// ProjectDetail assembles the project-page view for one repository.
//
// The metadata fetch is the hard dependency; the readme, the project
// document probe, contributors and languages then settle concurrently and
// independently, each degrading to an empty value on failure.
func (a *Aggregator) ProjectDetail(ctx context.Context, owner, repo string) (model.ProjectDetail, []Outcome, error) {
	detail, err := a.api.Repo(ctx, owner, repo)
	if err != nil {
		return model.ProjectDetail{}, nil, err
	}

	result := model.ProjectDetail{Repo: detail}
	rawBase := ghclient.RawContentBase(owner, repo, detail.DefaultBranch)

	var (
		mu       sync.Mutex
		outcomes []Outcome
	)
	record := func(task string, err error) {
		mu.Lock()
		outcomes = append(outcomes, Outcome{Task: task, Err: err})
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		doc, err := a.api.Readme(gctx, owner, repo)
		if err != nil {
			log.Debug("readme fetch failed", "repo", detail.FullName, "error", err)
			record("readme", err)
			return nil
		}
		if doc != nil {
			doc.Content = RewriteRelativeLinks(doc.Content, rawBase)
			mu.Lock()
			result.Readme = doc
			mu.Unlock()
		}
		record("readme", nil)
		return nil
	})

	g.Go(func() error {
		doc, err := a.probeProjectDoc(gctx, owner, repo)
		if err != nil {
			record("project-doc", err)
			return nil
		}
		if doc != nil {
			doc.Content = RewriteRelativeLinks(doc.Content, rawBase)
			mu.Lock()
			result.ProjectDoc = doc
			mu.Unlock()
		}
		record("project-doc", nil)
		return nil
	})

	g.Go(func() error {
		contributors, err := a.api.Contributors(gctx, owner, repo)
		if err != nil {
			log.Debug("contributor fetch failed", "repo", detail.FullName, "error", err)
			record("contributors", err)
			return nil
		}
		mu.Lock()
		result.Contributors = contributors
		mu.Unlock()
		record("contributors", nil)
		return nil
	})

	g.Go(func() error {
		langs, err := a.api.Languages(gctx, owner, repo)
		if err != nil {
			log.Debug("language fetch failed", "repo", detail.FullName, "error", err)
			record("languages", err)
			return nil
		}
		mu.Lock()
		result.Languages = LanguagePercentages(langs)
		mu.Unlock()
		record("languages", nil)
		return nil
	})

	_ = g.Wait()

	return result, outcomes, nil
}

// probeProjectDoc tries each candidate path in order and stops at the
// first document that resolves. Exhausting the list without a hit is not
// an error.
func (a *Aggregator) probeProjectDoc(ctx context.Context, owner, repo string) (*model.Document, error) {
	for _, path := range ghclient.ProjectDocPaths {
		doc, err := a.api.FileContent(ctx, owner, repo, path)
		if err != nil {
			log.Debug("project doc probe failed", "repo", owner+"/"+repo, "path", path, "error", err)
			continue
		}
		if doc != nil {
			log.Info("found project document", "repo", owner+"/"+repo, "path", path)
			return doc, nil
		}
	}
	return nil, nil
}

// LanguagePercentages converts a byte-count breakdown into per-language
// percentages, largest share first. A zero byte total yields an empty
// list rather than dividing by zero.
func LanguagePercentages(languages map[string]int) []model.LanguageStat {
	total := 0
	for _, bytes := range languages {
		total += bytes
	}
	if total == 0 {
		return nil
	}

	stats := make([]model.LanguageStat, 0, len(languages))
	for lang, bytes := range languages {
		stats = append(stats, model.LanguageStat{
			Language:   lang,
			Bytes:      bytes,
			Percentage: int(math.Round(float64(bytes) / float64(total) * 100)),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Bytes != stats[j].Bytes {
			return stats[i].Bytes > stats[j].Bytes
		}
		return stats[i].Language < stats[j].Language
	})

	return stats
}

// markdownLink matches inline markdown links and images so relative
// targets can be rewritten. Group 2 is the target.
var markdownLink = regexp.MustCompile(`(!?\[[^\]]*\]\()([^)\s]+)([^)]*\))`)

// RewriteRelativeLinks rewrites root-relative link and image targets in
// markdown content against the repository's raw-content base so they
// resolve outside github.com.
func RewriteRelativeLinks(content, rawBase string) string {
	if rawBase == "" {
		return content
	}
	return markdownLink.ReplaceAllStringFunc(content, func(match string) string {
		parts := markdownLink.FindStringSubmatch(match)
		target := parts[2]
		if !isRelativeTarget(target) {
			return match
		}
		return parts[1] + rawBase + "/" + strings.TrimPrefix(target, "/") + parts[3]
	})
}

func isRelativeTarget(target string) bool {
	switch {
	case target == "":
		return false
	case strings.HasPrefix(target, "#"):
		return false
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
		return false
	case strings.HasPrefix(target, "mailto:"):
		return false
	case strings.HasPrefix(target, "data:"):
		return false
	default:
		return true
	}
}
