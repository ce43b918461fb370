// Package insight derives narrative observations about a developer from
// their profile and repository list. Generation is a pure function over
// already-fetched data; no network calls happen here.
package insight

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hal/ghfolio/internal/model"
)

// Insight is one titled observation.
type Insight struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Generate produces the insight list for a user. The output is
// deterministic given identical inputs and the reference time.
func Generate(user model.User, repos []model.Repository, now time.Time) []Insight {
	var insights []Insight

	languages := rankLanguages(repos)
	totalStars := 0
	for _, r := range repos {
		totalStars += r.Stars
	}

	if len(languages) > 0 {
		body := fmt.Sprintf("%s appears to be %s's primary programming language", languages[0], user.DisplayName())
		if len(languages) > 1 {
			secondary := languages[1:]
			if len(secondary) > 2 {
				secondary = secondary[:2]
			}
			body += fmt.Sprintf(", with proficiency in %s", strings.Join(secondary, ", "))
			if len(languages) > 3 {
				body += " and other languages"
			}
		}
		insights = append(insights, Insight{Title: "Language Expertise", Body: body + "."})
	}

	idle, hasPush := daysSinceLastPush(repos, now)
	if hasPush {
		insights = append(insights, Insight{Title: "Activity Level", Body: activityLevel(idle)})
	}

	insights = append(insights, projectFocus(repos))

	if user.Followers > 10 {
		insights = append(insights, Insight{
			Title: "Community Engagement",
			Body:  "Has a following in the developer community.",
		})
	}

	if hasForks(repos) {
		insights = append(insights, Insight{
			Title: "Collaboration Style",
			Body:  "Actively contributes to or builds upon other projects.",
		})
	}

	if trend, ok := activityTrend(repos); ok {
		insights = append(insights, Insight{Title: "Activity Trend", Body: trend})
	}

	if !user.CreatedAt.IsZero() {
		insights = append(insights, Insight{Title: "Account Maturity", Body: accountMaturity(user.CreatedAt, now)})
	}

	insights = append(insights, Insight{
		Title: "Summary",
		Body:  summary(languages, totalStars, idle, hasPush),
	})

	return insights
}

func rankLanguages(repos []model.Repository) []string {
	counts := map[string]int{}
	var order []string
	for _, r := range repos {
		if r.Language == "" {
			continue
		}
		if _, ok := counts[r.Language]; !ok {
			order = append(order, r.Language)
		}
		counts[r.Language]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}

func daysSinceLastPush(repos []model.Repository, now time.Time) (int, bool) {
	var last time.Time
	for _, r := range repos {
		if r.PushedAt.After(last) {
			last = r.PushedAt
		}
	}
	if last.IsZero() {
		return 0, false
	}
	return int(now.Sub(last).Hours() / 24), true
}

func activityLevel(idleDays int) string {
	switch {
	case idleDays <= 7:
		return "Very active developer with recent contributions."
	case idleDays <= 30:
		return "Moderately active developer with contributions this month."
	case idleDays <= 90:
		return "Occasionally active developer with contributions in the past quarter."
	default:
		return "Less active recently, with the last contribution some time ago."
	}
}

func projectFocus(repos []model.Repository) Insight {
	for _, r := range repos {
		if r.Stars > 10 {
			return Insight{
				Title: "Project Impact",
				Body:  "Has created notable projects with community interest.",
			}
		}
	}
	if len(repos) > 10 {
		return Insight{
			Title: "Project Diversity",
			Body:  "Demonstrates diverse coding interests across multiple repositories.",
		}
	}
	return Insight{
		Title: "Project Status",
		Body:  "Focused on fewer, specific projects or newer to GitHub.",
	}
}

func hasForks(repos []model.Repository) bool {
	for _, r := range repos {
		if r.Fork {
			return true
		}
	}
	return false
}

// activityTrend compares the first and last of the three most recent
// monthly push-count buckets. Fewer than three buckets gives no trend.
func activityTrend(repos []model.Repository) (string, bool) {
	buckets := map[string]int{}
	for _, r := range repos {
		if r.PushedAt.IsZero() {
			continue
		}
		buckets[r.PushedAt.Format("2006-01")]++
	}
	if len(buckets) < 3 {
		return "", false
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	recent := keys[len(keys)-3:]

	first, last := buckets[recent[0]], buckets[recent[2]]
	switch {
	case last > first:
		return "Increasing GitHub activity over recent months.", true
	case last < first:
		return "Decreasing GitHub activity in recent months.", true
	default:
		return "Consistent GitHub activity level in recent months.", true
	}
}

func accountMaturity(createdAt, now time.Time) string {
	years := int(now.Sub(createdAt).Hours() / 24 / 365)
	switch {
	case years >= 5:
		return fmt.Sprintf("Experienced GitHub user with an account over %d years old.", years)
	case years >= 1:
		unit := "years"
		if years == 1 {
			unit = "year"
		}
		return fmt.Sprintf("Established GitHub user with an account %d %s old.", years, unit)
	default:
		return "Newer GitHub user with an account less than a year old."
	}
}

func summary(languages []string, totalStars, idleDays int, hasPush bool) string {
	var b strings.Builder
	switch {
	case totalStars > 50:
		fmt.Fprintf(&b, "An impactful developer with %d+ stars across their projects.", totalStars)
	case totalStars > 10:
		fmt.Fprintf(&b, "A developer with growing recognition (%d stars).", totalStars)
	default:
		b.WriteString("A developer focused on personal or specialized projects.")
	}
	if hasPush && idleDays <= 30 {
		b.WriteString(" Currently active on GitHub.")
	}
	if len(languages) > 0 {
		fmt.Fprintf(&b, " Shows strongest skills in %s.", languages[0])
	}
	return b.String()
}

// RenderMarkdown joins insights into the markdown shape used by the
// text surfaces.
func RenderMarkdown(insights []Insight) string {
	var b strings.Builder
	for _, in := range insights {
		fmt.Fprintf(&b, "**%s**: %s\n\n", in.Title, in.Body)
	}
	return b.String()
}
