package output

import (
	"io"

	"github.com/hal/ghfolio/internal/insight"
	"github.com/hal/ghfolio/internal/model"
	"github.com/hal/ghfolio/internal/quota"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Valid reports whether the format name is one we can render.
func (f Format) Valid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatMarkdown:
		return true
	}
	return false
}

// Formatter renders each portfolio view to a writer.
type Formatter interface {
	FormatProfile(profile model.Profile, w io.Writer) error
	FormatProjectDetail(detail model.ProjectDetail, w io.Writer) error
	FormatRepos(repos []model.Repository, w io.Writer) error
	FormatSimilarUsers(users []model.SimilarUser, w io.Writer) error
	FormatActivity(series model.ActivitySeries, w io.Writer) error
	FormatInsights(insights []insight.Insight, w io.Writer) error
	FormatQuota(status quota.Status, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}
