package output

import (
	"encoding/json"
	"io"

	"github.com/hal/ghfolio/internal/insight"
	"github.com/hal/ghfolio/internal/model"
	"github.com/hal/ghfolio/internal/quota"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

func (f *JSONFormatter) encode(v any, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

func (f *JSONFormatter) FormatProfile(profile model.Profile, w io.Writer) error {
	return f.encode(profile, w)
}

func (f *JSONFormatter) FormatProjectDetail(detail model.ProjectDetail, w io.Writer) error {
	return f.encode(detail, w)
}

func (f *JSONFormatter) FormatRepos(repos []model.Repository, w io.Writer) error {
	if repos == nil {
		repos = []model.Repository{}
	}
	return f.encode(repos, w)
}

func (f *JSONFormatter) FormatSimilarUsers(users []model.SimilarUser, w io.Writer) error {
	if users == nil {
		users = []model.SimilarUser{}
	}
	return f.encode(users, w)
}

func (f *JSONFormatter) FormatActivity(series model.ActivitySeries, w io.Writer) error {
	return f.encode(series, w)
}

func (f *JSONFormatter) FormatInsights(insights []insight.Insight, w io.Writer) error {
	if insights == nil {
		insights = []insight.Insight{}
	}
	return f.encode(insights, w)
}

func (f *JSONFormatter) FormatQuota(status quota.Status, w io.Writer) error {
	return f.encode(status, w)
}
