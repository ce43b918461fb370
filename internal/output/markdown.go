package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hal/ghfolio/internal/format"
	"github.com/hal/ghfolio/internal/insight"
	"github.com/hal/ghfolio/internal/model"
	"github.com/hal/ghfolio/internal/quota"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) FormatProfile(profile model.Profile, w io.Writer) error {
	u := profile.User

	fmt.Fprintf(w, "# %s\n\n", u.DisplayName())
	if u.Bio != "" {
		fmt.Fprintf(w, "> %s\n\n", u.Bio)
	}

	fmt.Fprintf(w, "- **Login:** [%s](%s)\n", u.Login, u.HTMLURL)
	if u.Company != "" {
		fmt.Fprintf(w, "- **Company:** %s\n", u.Company)
	}
	if u.Location != "" {
		fmt.Fprintf(w, "- **Location:** %s\n", u.Location)
	}
	fmt.Fprintf(w, "- **Public repos:** %d\n", u.PublicRepos)
	fmt.Fprintf(w, "- **Followers:** %d\n", u.Followers)
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(w, "- **Joined:** %s\n", u.CreatedAt.Format("January 2006"))
	}
	fmt.Fprintln(w)

	if len(profile.Skills) > 0 {
		fmt.Fprintf(w, "**Skills:** %s\n\n", strings.Join(profile.Skills, " · "))
	}

	if len(profile.Featured) > 0 {
		title := "## Featured Projects"
		if profile.Featured[0].Source == model.SourceStarFallback {
			title = "## Top Projects"
		}
		fmt.Fprintf(w, "%s\n\n", title)
		fmt.Fprintln(w, "| Project | Language | Stars | Description |")
		fmt.Fprintln(w, "|---|---|---|---|")
		for _, card := range profile.Featured {
			fmt.Fprintf(w, "| [%s](%s) | %s | %d | %s |\n",
				card.Name, card.HTMLURL, card.Language, card.Stars,
				escapeCell(format.FirstLine(card.Description)))
		}
		fmt.Fprintln(w)
	}

	return nil
}

func (f *MarkdownFormatter) FormatRepos(repos []model.Repository, w io.Writer) error {
	if len(repos) == 0 {
		fmt.Fprintln(w, "No repositories found.")
		return nil
	}

	fmt.Fprintln(w, "| Repository | Language | Stars | Forks | Pushed | Description |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|")
	for _, repo := range repos {
		pushed := ""
		if !repo.PushedAt.IsZero() {
			pushed = repo.PushedAt.Format("2006-01-02")
		}
		fmt.Fprintf(w, "| [%s](%s) | %s | %d | %d | %s | %s |\n",
			repo.Name, repo.HTMLURL, repo.Language, repo.Stars, repo.Forks, pushed,
			escapeCell(format.FirstLine(repo.Description)))
	}

	return nil
}

func (f *MarkdownFormatter) FormatProjectDetail(detail model.ProjectDetail, w io.Writer) error {
	r := detail.Repo

	fmt.Fprintf(w, "# %s\n\n", r.FullName)
	if r.Description != "" {
		fmt.Fprintf(w, "> %s\n\n", r.Description)
	}

	fmt.Fprintf(w, "- **Stars:** %d · **Forks:** %d · **Open issues:** %d\n", r.Stars, r.Forks, r.OpenIssues)
	if r.License != nil {
		fmt.Fprintf(w, "- **License:** %s\n", r.License.Name)
	}
	if r.Homepage != "" {
		fmt.Fprintf(w, "- **Homepage:** <%s>\n", r.Homepage)
	}
	if len(r.Topics) > 0 {
		fmt.Fprintf(w, "- **Topics:** %s\n", strings.Join(r.Topics, ", "))
	}
	fmt.Fprintln(w)

	if len(detail.Languages) > 0 {
		fmt.Fprintln(w, "## Languages")
		fmt.Fprintln(w)
		for _, stat := range detail.Languages {
			fmt.Fprintf(w, "- %s: %d%%\n", stat.Language, stat.Percentage)
		}
		fmt.Fprintln(w)
	}

	if len(detail.Contributors) > 0 {
		fmt.Fprintln(w, "## Contributors")
		fmt.Fprintln(w)
		for _, c := range detail.Contributors {
			fmt.Fprintf(w, "- [%s](%s) (%d commits)\n", c.Login, c.HTMLURL, c.Contributions)
		}
		fmt.Fprintln(w)
	}

	if doc := detail.Document(); doc != nil {
		fmt.Fprintln(w, "---")
		fmt.Fprintln(w)
		fmt.Fprintln(w, doc.Content)
	}

	return nil
}

func (f *MarkdownFormatter) FormatSimilarUsers(users []model.SimilarUser, w io.Writer) error {
	if len(users) == 0 {
		fmt.Fprintln(w, "No similar developers found.")
		return nil
	}

	fmt.Fprintln(w, "## Similar Developers")
	fmt.Fprintln(w)
	for _, u := range users {
		name := u.Login
		if u.Name != "" {
			name = fmt.Sprintf("%s (%s)", u.Name, u.Login)
		}
		fmt.Fprintf(w, "- [%s](%s): %s\n", name, u.HTMLURL, u.Reason)
	}
	fmt.Fprintln(w)

	return nil
}

func (f *MarkdownFormatter) FormatActivity(series model.ActivitySeries, w io.Writer) error {
	if series.Empty() {
		fmt.Fprintln(w, "No activity data.")
		return nil
	}

	switch series.Unit {
	case model.UnitWeeklyCommits:
		fmt.Fprintf(w, "## Weekly Commits to %s\n\n", series.Repo)
		fmt.Fprintln(w, "| Week | Commits |")
	default:
		fmt.Fprintln(w, "## Repositories Pushed per Month")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Month | Pushes |")
	}
	fmt.Fprintln(w, "|---|---|")
	for _, p := range series.Points {
		fmt.Fprintf(w, "| %s | %d |\n", p.Label, p.Count)
	}
	fmt.Fprintln(w)

	return nil
}

func (f *MarkdownFormatter) FormatInsights(insights []insight.Insight, w io.Writer) error {
	if len(insights) == 0 {
		fmt.Fprintln(w, "No insights available.")
		return nil
	}
	fmt.Fprintln(w, "## Developer Insights")
	fmt.Fprintln(w)
	fmt.Fprint(w, insight.RenderMarkdown(insights))
	return nil
}

func (f *MarkdownFormatter) FormatQuota(status quota.Status, w io.Writer) error {
	if !status.Known {
		fmt.Fprintln(w, "Rate limit status unknown.")
		return nil
	}

	fmt.Fprintf(w, "## API Quota (%s token)\n\n", status.Source)
	fmt.Fprintln(w, "| Resource | Remaining | Limit | Used | Resets |")
	fmt.Fprintln(w, "|---|---|---|---|---|")

	rows := []struct {
		name string
		res  quota.Resource
	}{
		{"core", status.Core},
		{"search", status.Search},
		{"graphql", status.GraphQL},
	}
	for _, row := range rows {
		resets := ""
		if !row.res.Reset.IsZero() {
			resets = row.res.Reset.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "| %s | %d | %d | %d | %s |\n",
			row.name, row.res.Remaining, row.res.Limit, row.res.Used, resets)
	}
	fmt.Fprintln(w)

	return nil
}

// escapeCell guards table cells against pipe characters in user content.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
