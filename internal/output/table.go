package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/hal/ghfolio/internal/format"
	"github.com/hal/ghfolio/internal/insight"
	"github.com/hal/ghfolio/internal/model"
	"github.com/hal/ghfolio/internal/quota"
	"golang.org/x/term"
)

// TableFormatter formats output as a terminal table
type TableFormatter struct{}

// hyperlink creates a clickable terminal hyperlink using OSC 8
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func hyperlink(text, url string) string {
	// Only use hyperlinks if stdout is a terminal
	if url == "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

func (f *TableFormatter) FormatProfile(profile model.Profile, w io.Writer) error {
	u := profile.User

	fmt.Fprintf(w, "%s", color.New(color.Bold).Sprint(u.DisplayName()))
	if u.Name != "" {
		fmt.Fprintf(w, "  (%s)", u.Login)
	}
	fmt.Fprintln(w)

	if u.Bio != "" {
		fmt.Fprintln(w, u.Bio)
	}

	var facts []string
	if u.Company != "" {
		facts = append(facts, u.Company)
	}
	if u.Location != "" {
		facts = append(facts, u.Location)
	}
	if !u.CreatedAt.IsZero() {
		facts = append(facts, fmt.Sprintf("joined %s ago", format.FormatAge(time.Since(u.CreatedAt))))
	}
	facts = append(facts,
		fmt.Sprintf("%d repos", u.PublicRepos),
		fmt.Sprintf("%d followers", u.Followers))
	fmt.Fprintln(w, strings.Join(facts, " · "))

	if len(profile.Skills) > 0 {
		fmt.Fprintf(w, "Skills: %s\n", color.CyanString(strings.Join(profile.Skills, ", ")))
	}

	if len(profile.Featured) > 0 {
		fmt.Fprintln(w)
		header := "Featured projects"
		if profile.Featured[0].Source == model.SourceStarFallback {
			header = "Top projects"
		}
		fmt.Fprintln(w, color.New(color.Bold).Sprint(header))
		f.featuredTable(profile.Featured, w)
	} else {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No pinned projects.")
	}

	return nil
}

func (f *TableFormatter) featuredTable(cards []model.RepoCard, w io.Writer) {
	const (
		colName = 28
		colLang = 12
		colDesc = 44
	)

	fmt.Fprintf(w, "%-*s  %-*s  %6s  %s\n",
		colName, "Name", colLang, "Language", "Stars", "Description")
	fmt.Fprintln(w, strings.Repeat("-", colName+colLang+colDesc+16))

	for _, card := range cards {
		name, nameWidth := format.TruncateToWidth(card.Name, colName)
		desc, _ := format.TruncateToWidth(format.FirstLine(card.Description), colDesc)

		fmt.Fprintf(w, "%s  %-*s  %6s  %s\n",
			format.PadRight(hyperlink(name, card.HTMLURL), nameWidth, colName),
			colLang, card.Language,
			format.CompactCount(card.Stars),
			desc)
	}
}

func (f *TableFormatter) FormatRepos(repos []model.Repository, w io.Writer) error {
	if len(repos) == 0 {
		fmt.Fprintln(w, "No repositories found.")
		return nil
	}

	const (
		colName = 30
		colLang = 12
		colPush = 6
	)

	fmt.Fprintf(w, "%-*s  %-*s  %6s  %6s  %-*s  %s\n",
		colName, "Name", colLang, "Language", "Stars", "Forks", colPush, "Pushed", "Description")
	fmt.Fprintln(w, strings.Repeat("-", colName+colLang+colPush+66))

	for _, repo := range repos {
		name := repo.Name
		if repo.Fork {
			name += " ⑂"
		}
		name, nameWidth := format.TruncateToWidth(name, colName)
		desc, _ := format.TruncateToWidth(format.FirstLine(repo.Description), 40)

		pushed := ""
		if !repo.PushedAt.IsZero() {
			pushed = format.FormatAge(time.Since(repo.PushedAt))
		}

		fmt.Fprintf(w, "%s  %-*s  %6s  %6s  %-*s  %s\n",
			format.PadRight(hyperlink(name, repo.HTMLURL), nameWidth, colName),
			colLang, repo.Language,
			format.CompactCount(repo.Stars),
			format.CompactCount(repo.Forks),
			colPush, pushed,
			desc)
	}

	return nil
}

func (f *TableFormatter) FormatProjectDetail(detail model.ProjectDetail, w io.Writer) error {
	r := detail.Repo

	fmt.Fprintln(w, color.New(color.Bold).Sprint(r.FullName))
	if r.Description != "" {
		fmt.Fprintln(w, r.Description)
	}

	facts := []string{
		fmt.Sprintf("★ %s", format.CompactCount(r.Stars)),
		fmt.Sprintf("⑂ %s", format.CompactCount(r.Forks)),
		fmt.Sprintf("%d open issues", r.OpenIssues),
	}
	if r.License != nil {
		facts = append(facts, r.License.Name)
	}
	if !r.PushedAt.IsZero() {
		facts = append(facts, fmt.Sprintf("pushed %s ago", format.FormatAge(time.Since(r.PushedAt))))
	}
	fmt.Fprintln(w, strings.Join(facts, " · "))

	if len(r.Topics) > 0 {
		fmt.Fprintf(w, "Topics: %s\n", color.CyanString(strings.Join(r.Topics, ", ")))
	}

	if len(detail.Languages) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, color.New(color.Bold).Sprint("Languages"))
		for _, stat := range detail.Languages {
			fmt.Fprintf(w, "  %-14s %3d%%  %s\n",
				stat.Language, stat.Percentage, bar(stat.Percentage, 24))
		}
	}

	if len(detail.Contributors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, color.New(color.Bold).Sprint("Contributors"))
		for _, c := range detail.Contributors {
			fmt.Fprintf(w, "  %-22s %5d commits\n", c.Login, c.Contributions)
		}
	}

	if doc := detail.Document(); doc != nil {
		fmt.Fprintln(w)
		title := "Readme"
		if doc.Kind == model.DocProject {
			title = "Project document (" + doc.Path + ")"
		}
		fmt.Fprintln(w, color.New(color.Bold).Sprint(title))
		fmt.Fprintln(w, doc.Content)
	}

	return nil
}

func (f *TableFormatter) FormatSimilarUsers(users []model.SimilarUser, w io.Writer) error {
	if len(users) == 0 {
		fmt.Fprintln(w, "No similar developers found.")
		return nil
	}

	const (
		colLogin = 20
		colName  = 24
	)

	fmt.Fprintf(w, "%-*s  %-*s  %s\n", colLogin, "Login", colName, "Name", "Why")
	fmt.Fprintln(w, strings.Repeat("-", colLogin+colName+38))

	for _, u := range users {
		login, loginWidth := format.TruncateToWidth(u.Login, colLogin)
		name, _ := format.TruncateToWidth(u.Name, colName)

		fmt.Fprintf(w, "%s  %-*s  %s\n",
			format.PadRight(hyperlink(login, u.HTMLURL), loginWidth, colLogin),
			colName, name,
			u.Reason)
	}

	return nil
}

func (f *TableFormatter) FormatActivity(series model.ActivitySeries, w io.Writer) error {
	if series.Empty() {
		fmt.Fprintln(w, "No activity data.")
		return nil
	}

	switch series.Unit {
	case model.UnitWeeklyCommits:
		fmt.Fprintf(w, "Commits to %s by week\n", color.New(color.Bold).Sprint(series.Repo))
	default:
		fmt.Fprintln(w, color.New(color.Bold).Sprint("Repositories pushed per month"))
	}

	max := 0
	for _, p := range series.Points {
		if p.Count > max {
			max = p.Count
		}
	}

	for _, p := range series.Points {
		width := 0
		if max > 0 {
			width = p.Count * 30 / max
			if width == 0 {
				width = 1
			}
		}
		fmt.Fprintf(w, "  %-8s %4d  %s\n", p.Label, p.Count,
			color.GreenString(strings.Repeat("█", width)))
	}

	return nil
}

func (f *TableFormatter) FormatInsights(insights []insight.Insight, w io.Writer) error {
	if len(insights) == 0 {
		fmt.Fprintln(w, "No insights available.")
		return nil
	}
	for _, in := range insights {
		fmt.Fprintf(w, "%s  %s\n", color.New(color.Bold).Sprintf("%-22s", in.Title), in.Body)
	}
	return nil
}

func (f *TableFormatter) FormatQuota(status quota.Status, w io.Writer) error {
	if !status.Known {
		fmt.Fprintln(w, "Rate limit status unknown.")
		return nil
	}

	fmt.Fprintf(w, "Token source: %s\n\n", status.Source)

	fmt.Fprintf(w, "%-10s  %9s  %9s  %6s  %s\n", "Resource", "Remaining", "Limit", "Used", "Resets")
	fmt.Fprintln(w, strings.Repeat("-", 52))

	rows := []struct {
		name string
		res  quota.Resource
	}{
		{"core", status.Core},
		{"search", status.Search},
		{"graphql", status.GraphQL},
	}
	for _, row := range rows {
		quotaColor := color.GreenString
		if row.res.Limit > 0 && row.res.Remaining*10 < row.res.Limit {
			quotaColor = color.YellowString
		}
		if row.res.Remaining == 0 {
			quotaColor = color.RedString
		}
		resets := ""
		if !row.res.Reset.IsZero() {
			resets = fmt.Sprintf("in %s", format.FormatAge(time.Until(row.res.Reset)))
		}
		fmt.Fprintf(w, "%-10s  %s  %9d  %6d  %s\n",
			row.name,
			format.PadRight(quotaColor("%d", row.res.Remaining), len(fmt.Sprint(row.res.Remaining)), 9),
			row.res.Limit,
			row.res.Used,
			resets)
	}

	return nil
}

// bar renders a proportional block bar for a percentage.
func bar(percent, width int) string {
	filled := percent * width / 100
	if filled > width {
		filled = width
	}
	return color.CyanString(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}
