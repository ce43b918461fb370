package insight

import (
	"strings"
	"testing"
	"time"

	"github.com/hal/ghfolio/internal/model"
)

var refTime = time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

func pushRepo(lang string, stars int, fork bool, pushedAt time.Time) model.Repository {
	return model.Repository{
		Language: lang,
		Stars:    stars,
		Fork:     fork,
		PushedAt: pushedAt,
	}
}

func find(t *testing.T, insights []Insight, title string) Insight {
	t.Helper()
	for _, in := range insights {
		if in.Title == title {
			return in
		}
	}
	t.Fatalf("insight %q not generated in %+v", title, insights)
	return Insight{}
}

func titles(insights []Insight) []string {
	var out []string
	for _, in := range insights {
		out = append(out, in.Title)
	}
	return out
}

func TestGenerateActiveEstablishedDeveloper(t *testing.T) {
	user := model.User{
		Login:     "octo",
		Name:      "Octo Cat",
		Followers: 42,
		CreatedAt: refTime.AddDate(-7, 0, 0),
	}
	repos := []model.Repository{
		pushRepo("Go", 120, false, refTime.AddDate(0, 0, -2)),
		pushRepo("Go", 5, false, refTime.AddDate(0, -1, 0)),
		pushRepo("Rust", 3, false, refTime.AddDate(0, -2, 0)),
		pushRepo("Python", 0, true, refTime.AddDate(0, -2, -1)),
	}

	insights := Generate(user, repos, refTime)

	lang := find(t, insights, "Language Expertise")
	if !strings.Contains(lang.Body, "Go appears to be Octo Cat's primary programming language") {
		t.Errorf("language body = %q", lang.Body)
	}
	if !strings.Contains(lang.Body, "Rust") {
		t.Errorf("expected secondary languages mentioned, got %q", lang.Body)
	}

	if got := find(t, insights, "Activity Level").Body; !strings.Contains(got, "Very active") {
		t.Errorf("activity body = %q", got)
	}
	if got := find(t, insights, "Project Impact").Body; !strings.Contains(got, "notable projects") {
		t.Errorf("impact body = %q", got)
	}
	find(t, insights, "Community Engagement")
	find(t, insights, "Collaboration Style")

	maturity := find(t, insights, "Account Maturity")
	if !strings.Contains(maturity.Body, "over 7 years") {
		t.Errorf("maturity body = %q", maturity.Body)
	}

	summary := find(t, insights, "Summary")
	if !strings.Contains(summary.Body, "128+ stars") {
		t.Errorf("summary body = %q", summary.Body)
	}
	if !strings.Contains(summary.Body, "Currently active") {
		t.Errorf("expected currently-active sentence, got %q", summary.Body)
	}
	if !strings.Contains(summary.Body, "strongest skills in Go") {
		t.Errorf("expected strongest-skills sentence, got %q", summary.Body)
	}
}

func TestGenerateQuietNewcomer(t *testing.T) {
	user := model.User{
		Login:     "newbie",
		Followers: 2,
		CreatedAt: refTime.AddDate(0, -6, 0),
	}
	repos := []model.Repository{
		pushRepo("", 0, false, refTime.AddDate(0, -5, 0)),
	}

	insights := Generate(user, repos, refTime)

	got := titles(insights)
	for _, absent := range []string{"Language Expertise", "Community Engagement", "Collaboration Style", "Activity Trend"} {
		for _, title := range got {
			if title == absent {
				t.Errorf("insight %q should not be generated for this profile", absent)
			}
		}
	}

	if body := find(t, insights, "Activity Level").Body; !strings.Contains(body, "Less active") {
		t.Errorf("activity body = %q", body)
	}
	if body := find(t, insights, "Project Status").Body; !strings.Contains(body, "Focused on fewer") {
		t.Errorf("status body = %q", body)
	}
	if body := find(t, insights, "Account Maturity").Body; !strings.Contains(body, "less than a year") {
		t.Errorf("maturity body = %q", body)
	}
	if body := find(t, insights, "Summary").Body; !strings.Contains(body, "personal or specialized") {
		t.Errorf("summary body = %q", body)
	}
}

func TestGenerateNoRepos(t *testing.T) {
	user := model.User{Login: "empty", CreatedAt: refTime.AddDate(-2, 0, 0)}
	insights := Generate(user, nil, refTime)

	for _, title := range titles(insights) {
		if title == "Activity Level" {
			t.Error("no push dates should mean no activity-level insight")
		}
	}
	find(t, insights, "Summary")
}

func TestActivityTrend(t *testing.T) {
	tests := []struct {
		name   string
		counts []int // pushes in months -2, -1, 0
		want   string
	}{
		{"increasing", []int{1, 2, 3}, "Increasing"},
		{"decreasing", []int{3, 2, 1}, "Decreasing"},
		{"flat", []int{2, 1, 2}, "Consistent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var repos []model.Repository
			for offset, n := range tt.counts {
				for i := 0; i < n; i++ {
					repos = append(repos, pushRepo("Go", 0, false, refTime.AddDate(0, offset-2, 0)))
				}
			}
			got, ok := activityTrend(repos)
			if !ok {
				t.Fatal("expected a trend from three buckets")
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("trend = %q, want %q", got, tt.want)
			}
		})
	}

	if _, ok := activityTrend([]model.Repository{pushRepo("Go", 0, false, refTime)}); ok {
		t.Error("a single bucket must not produce a trend")
	}
}

func TestLanguageRanking(t *testing.T) {
	repos := []model.Repository{
		pushRepo("Rust", 0, false, refTime),
		pushRepo("Go", 0, false, refTime),
		pushRepo("Go", 0, false, refTime),
	}
	got := rankLanguages(repos)
	if len(got) != 2 || got[0] != "Go" || got[1] != "Rust" {
		t.Errorf("rankLanguages = %v, want [Go Rust]", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown([]Insight{{Title: "Summary", Body: "A developer."}})
	if out != "**Summary**: A developer.\n\n" {
		t.Errorf("RenderMarkdown = %q", out)
	}
}
