package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hal/ghfolio/internal/aggregate"
	"github.com/hal/ghfolio/internal/model"
	"github.com/hal/ghfolio/internal/quota"
)

type stubTUIBackend struct{}

func (stubTUIBackend) Profile(_ context.Context, username string) (model.Profile, []aggregate.Outcome, error) {
	return model.Profile{User: model.User{Login: username}}, nil, nil
}

func (stubTUIBackend) ProjectDetail(_ context.Context, owner, repo string) (model.ProjectDetail, []aggregate.Outcome, error) {
	return model.ProjectDetail{
		Repo: model.RepoDetail{Repository: model.Repository{FullName: owner + "/" + repo}},
	}, nil, nil
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{}
}

func loadedProfile(username string) model.Profile {
	return model.Profile{
		User: model.User{Login: username, Name: strings.ToUpper(username)},
		Featured: []model.RepoCard{
			{Name: "one", FullName: username + "/one", Source: model.SourcePinned},
			{Name: "two", FullName: username + "/two", Source: model.SourcePinned},
		},
		Repos: []model.Repository{
			{Name: "one", FullName: username + "/one"},
		},
	}
}

func TestStaleProfileArrivalDiscarded(t *testing.T) {
	m := NewModel(stubTUIBackend{}, "alice", nil, 0)

	// Retarget to bob while alice's aggregation is still in flight.
	m.username = "bob"
	m.loading = true

	updated, _ := m.Update(profileLoadedMsg{username: "alice", profile: loadedProfile("alice")})
	got := updated.(Model)

	if got.hasProfile {
		t.Error("stale arrival must not populate the profile")
	}
	if !got.loading {
		t.Error("stale arrival must not clear the loading state for the current target")
	}

	updated, _ = got.Update(profileLoadedMsg{username: "bob", profile: loadedProfile("bob")})
	got = updated.(Model)
	if !got.hasProfile || got.profile.User.Login != "bob" {
		t.Errorf("current-target arrival should apply, got %+v", got.profile.User)
	}
}

func TestStaleDetailArrivalDiscarded(t *testing.T) {
	m := NewModel(stubTUIBackend{}, "alice", nil, 0)
	m.detailKey = "alice/two"

	updated, _ := m.Update(detailLoadedMsg{
		key:    "alice/one",
		detail: model.ProjectDetail{Repo: model.RepoDetail{Repository: model.Repository{FullName: "alice/one"}}},
	})
	got := updated.(Model)
	if got.hasDetail {
		t.Error("detail for a different key must be discarded")
	}
}

func TestProfileErrorKeepsErrorState(t *testing.T) {
	m := NewModel(stubTUIBackend{}, "ghost", nil, 0)

	updated, _ := m.Update(profileLoadedMsg{username: "ghost", err: errors.New("user not found")})
	got := updated.(Model)

	if got.err == nil || got.hasProfile {
		t.Errorf("expected error state, got %+v", got)
	}
	if !strings.Contains(got.View(), "Profile not found") {
		t.Errorf("error view missing message:\n%s", got.View())
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	m := NewModel(stubTUIBackend{}, "alice", nil, 0)
	updated, _ := m.Update(profileLoadedMsg{username: "alice", profile: loadedProfile("alice")})
	m = updated.(Model)

	for i := 0; i < 5; i++ {
		updated, _ = m.Update(keyMsg("down"))
		m = updated.(Model)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want clamped to 1", m.cursor)
	}

	for i := 0; i < 5; i++ {
		updated, _ = m.Update(keyMsg("up"))
		m = updated.(Model)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}
}

func TestEnterRequestsDetail(t *testing.T) {
	m := NewModel(stubTUIBackend{}, "alice", nil, 0)
	updated, _ := m.Update(profileLoadedMsg{username: "alice", profile: loadedProfile("alice")})
	m = updated.(Model)

	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(Model)

	if m.detailKey != "alice/one" {
		t.Errorf("detailKey = %q, want alice/one", m.detailKey)
	}
	if !m.loading || cmd == nil {
		t.Error("selecting a card should start a detail load")
	}

	// Deliver the result and land on the detail view.
	msg := cmd()
	updated, _ = m.Update(msg)
	m = updated.(Model)
	if m.view != viewDetail || !m.hasDetail {
		t.Errorf("expected detail view, got view=%d hasDetail=%v", m.view, m.hasDetail)
	}

	// esc returns to where the selection happened.
	updated, _ = m.Update(keyMsg("esc"))
	m = updated.(Model)
	if m.view != viewProfile {
		t.Errorf("esc should return to profile view, got %d", m.view)
	}
}

func TestTabTogglesRepoList(t *testing.T) {
	m := NewModel(stubTUIBackend{}, "alice", nil, 0)
	updated, _ := m.Update(profileLoadedMsg{username: "alice", profile: loadedProfile("alice")})
	m = updated.(Model)

	updated, _ = m.Update(keyMsg("tab"))
	m = updated.(Model)
	if m.view != viewRepos {
		t.Errorf("tab should switch to the repo list, got %d", m.view)
	}

	updated, _ = m.Update(keyMsg("tab"))
	m = updated.(Model)
	if m.view != viewProfile {
		t.Errorf("tab should switch back to the profile, got %d", m.view)
	}
}

func TestRetargetViaInput(t *testing.T) {
	m := NewModel(stubTUIBackend{}, "alice", nil, 0)
	updated, _ := m.Update(profileLoadedMsg{username: "alice", profile: loadedProfile("alice")})
	m = updated.(Model)

	updated, _ = m.Update(keyMsg("u"))
	m = updated.(Model)
	if m.view != viewInput {
		t.Fatalf("u should open the username prompt, got view %d", m.view)
	}

	m.input.SetValue("bob")
	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(Model)

	if m.username != "bob" {
		t.Errorf("username = %q, want bob", m.username)
	}
	if m.hasProfile {
		t.Error("retargeting must clear the previous profile")
	}
	if cmd == nil {
		t.Error("retargeting should start a profile load")
	}
}

func TestQuotaFooter(t *testing.T) {
	m := NewModel(stubTUIBackend{}, "alice", nil, 0)
	updated, _ := m.Update(quotaMsg{status: quota.Status{
		Known: true,
		Core:  quota.Resource{Limit: 5000, Remaining: 4000},
	}})
	m = updated.(Model)

	if !strings.Contains(m.View(), "api 4000/5000") {
		t.Errorf("footer missing quota:\n%s", m.View())
	}
}
