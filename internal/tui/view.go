package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/hal/ghfolio/internal/format"
	"github.com/hal/ghfolio/internal/model"
)

// View renders the active screen.
func (m Model) View() string {
	var b strings.Builder

	switch m.view {
	case viewInput:
		b.WriteString(titleStyle.Render("ghfolio"))
		b.WriteString("\n\nWhose portfolio?\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter to load · esc to cancel · ctrl+c to quit"))

	case viewDetail:
		m.renderDetail(&b)

	case viewRepos:
		m.renderRepos(&b)

	default:
		m.renderProfile(&b)
	}

	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) renderProfile(b *strings.Builder) {
	if m.loading && !m.hasProfile {
		fmt.Fprintf(b, "%s Loading %s...\n", m.spinner.View(), m.username)
		return
	}
	if m.err != nil && !m.hasProfile {
		b.WriteString(errorStyle.Render("Profile not found") + "\n")
		b.WriteString(dimStyle.Render(m.err.Error()) + "\n")
		b.WriteString(dimStyle.Render("press u to try another username") + "\n")
		return
	}
	if !m.hasProfile {
		return
	}

	u := m.profile.User
	b.WriteString(titleStyle.Render(u.DisplayName()))
	if u.Name != "" {
		b.WriteString(dimStyle.Render("  " + u.Login))
	}
	b.WriteString("\n")
	if u.Bio != "" {
		b.WriteString(labelStyle.Render(u.Bio) + "\n")
	}
	fmt.Fprintf(b, "%s\n", dimStyle.Render(fmt.Sprintf("%d repos · %d followers", u.PublicRepos, u.Followers)))

	if len(m.profile.Skills) > 0 {
		b.WriteString(skillStyle.Render(strings.Join(m.profile.Skills, " · ")) + "\n")
	}
	b.WriteString("\n")

	if len(m.profile.Featured) == 0 {
		b.WriteString(dimStyle.Render("No pinned projects.") + "\n")
		return
	}

	header := "Featured"
	if m.profile.Featured[0].Source == model.SourceStarFallback {
		header = "Top projects"
	}
	b.WriteString(labelStyle.Render(header) + "\n")
	for i, card := range m.profile.Featured {
		line := fmt.Sprintf("%-28s %-10s ★ %s", truncate(card.Name, 28), card.Language, format.CompactCount(card.Stars))
		b.WriteString(m.listLine(i, line))
	}
}

func (m Model) renderRepos(b *strings.Builder) {
	if !m.hasProfile {
		fmt.Fprintf(b, "%s Loading %s...\n", m.spinner.View(), m.username)
		return
	}

	fmt.Fprintf(b, "%s\n\n", titleStyle.Render(m.profile.User.DisplayName()+" / repositories"))

	if len(m.profile.Repos) == 0 {
		b.WriteString(dimStyle.Render("No repositories.") + "\n")
		return
	}

	visible := m.windowHeight - 8
	if visible < 5 {
		visible = 5
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	for i := start; i < len(m.profile.Repos) && i < start+visible; i++ {
		repo := m.profile.Repos[i]
		age := ""
		if !repo.PushedAt.IsZero() {
			age = format.FormatAge(time.Since(repo.PushedAt))
		}
		line := fmt.Sprintf("%-32s %-10s ★ %-5s %s",
			truncate(repo.Name, 32), repo.Language, format.CompactCount(repo.Stars), age)
		b.WriteString(m.listLine(i, line))
	}
}

func (m Model) renderDetail(b *strings.Builder) {
	if m.loading && !m.hasDetail {
		fmt.Fprintf(b, "%s Loading %s...\n", m.spinner.View(), m.detailKey)
		return
	}
	if !m.hasDetail {
		return
	}

	r := m.detail.Repo
	b.WriteString(titleStyle.Render(r.FullName) + "\n")
	if r.Description != "" {
		b.WriteString(labelStyle.Render(r.Description) + "\n")
	}
	fmt.Fprintf(b, "%s\n", dimStyle.Render(fmt.Sprintf("★ %s · ⑂ %s · %d open issues",
		format.CompactCount(r.Stars), format.CompactCount(r.Forks), r.OpenIssues)))

	if len(m.detail.Languages) > 0 {
		b.WriteString("\n")
		for _, stat := range m.detail.Languages {
			filled := stat.Percentage * 20 / 100
			bar := barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", 20-filled))
			fmt.Fprintf(b, "%-14s %3d%% %s\n", stat.Language, stat.Percentage, bar)
		}
	}

	if doc := m.detail.Document(); doc != nil {
		b.WriteString("\n")
		lines := strings.Split(doc.Content, "\n")
		visible := m.windowHeight - 14
		if visible < 5 {
			visible = 5
		}
		start := m.scroll
		if start > len(lines)-1 {
			start = len(lines) - 1
		}
		for i := start; i < len(lines) && i < start+visible; i++ {
			b.WriteString(truncate(lines[i], m.windowWidth-2) + "\n")
		}
	}
}

func (m Model) listLine(i int, line string) string {
	if i == m.cursor {
		return selectedStyle.Render("> "+line) + "\n"
	}
	return "  " + labelStyle.Render(line) + "\n"
}

func (m Model) footer() string {
	var parts []string

	switch m.view {
	case viewDetail:
		parts = append(parts, "esc back", "j/k scroll")
	case viewInput:
		// input help rendered inline
	default:
		parts = append(parts, "tab switch", "enter open", "u user", "r refresh")
	}
	if m.view != viewInput {
		parts = append(parts, "q quit")
	}

	help := strings.Join(parts, " · ")

	quotaPart := ""
	if m.quotaStatus.Known {
		style := quotaOKStyle
		if m.quotaStatus.Core.Limit > 0 && m.quotaStatus.Core.Remaining*10 < m.quotaStatus.Core.Limit {
			style = quotaLowStyle
		}
		quotaPart = style.Render(fmt.Sprintf("  api %d/%d", m.quotaStatus.Core.Remaining, m.quotaStatus.Core.Limit))
	}

	return footerStyle.Render(help) + quotaPart
}

func truncate(s string, width int) string {
	out, _ := format.TruncateToWidth(s, width)
	return out
}
