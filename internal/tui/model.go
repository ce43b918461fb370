// Package tui implements the interactive portfolio browser.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hal/ghfolio/internal/aggregate"
	"github.com/hal/ghfolio/internal/model"
	"github.com/hal/ghfolio/internal/quota"
)

// view identifies the active screen.
type view int

const (
	viewProfile view = iota
	viewRepos
	viewDetail
	viewInput
)

// Backend is the data surface the browser pulls from.
type Backend interface {
	Profile(ctx context.Context, username string) (model.Profile, []aggregate.Outcome, error)
	ProjectDetail(ctx context.Context, owner, repo string) (model.ProjectDetail, []aggregate.Outcome, error)
}

// QuotaFetcher refreshes the rate-limit footer.
type QuotaFetcher func(ctx context.Context) (quota.Status, error)

// profileLoadedMsg carries a finished profile aggregation. Username is
// the key the request was issued for; arrivals for a key that no longer
// matches the current target are discarded.
type profileLoadedMsg struct {
	username string
	profile  model.Profile
	err      error
}

// detailLoadedMsg carries a finished detail aggregation, keyed by the
// repository full name it was requested for.
type detailLoadedMsg struct {
	key    string
	detail model.ProjectDetail
	err    error
}

type quotaMsg struct {
	status quota.Status
}

type quotaTickMsg struct{}

// Model is the Bubble Tea model for the portfolio browser.
type Model struct {
	backend       Backend
	fetchQuota    QuotaFetcher
	quotaInterval time.Duration

	username string
	view     view
	back     view

	loading bool
	err     error

	profile    model.Profile
	hasProfile bool
	cursor     int

	detailKey string
	detail    model.ProjectDetail
	hasDetail bool
	scroll    int

	quotaStatus quota.Status

	spinner spinner.Model
	input   textinput.Model

	windowWidth  int
	windowHeight int
}

// NewModel creates the browser model for a starting username.
func NewModel(backend Backend, username string, fetchQuota QuotaFetcher, quotaInterval time.Duration) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	in := textinput.New()
	in.Placeholder = "github username"
	in.CharLimit = 39

	if quotaInterval <= 0 {
		quotaInterval = quota.DefaultPollInterval
	}

	m := Model{
		backend:       backend,
		fetchQuota:    fetchQuota,
		quotaInterval: quotaInterval,
		username:      username,
		view:          viewProfile,
		loading:       username != "",
		spinner:       s,
		input:         in,
		windowWidth:   80,
		windowHeight:  24,
	}
	if username == "" {
		m.view = viewInput
		m.input.Focus()
	}
	return m
}

// Init kicks off the first aggregation and the quota ticker.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.username != "" {
		cmds = append(cmds, loadProfile(m.backend, m.username))
	}
	if m.fetchQuota != nil {
		cmds = append(cmds, fetchQuotaCmd(m.fetchQuota), quotaTick(m.quotaInterval))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case profileLoadedMsg:
		if msg.username != m.username {
			// Stale arrival for a user we are no longer looking at.
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.profile = msg.profile
		m.hasProfile = true
		m.cursor = 0
		if m.view != viewRepos {
			m.view = viewProfile
		}
		return m, nil

	case detailLoadedMsg:
		if msg.key != m.detailKey {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.view = m.back
			return m, nil
		}
		m.err = nil
		m.detail = msg.detail
		m.hasDetail = true
		m.scroll = 0
		m.view = viewDetail
		return m, nil

	case quotaMsg:
		m.quotaStatus = msg.status
		return m, nil

	case quotaTickMsg:
		var cmds []tea.Cmd
		if m.fetchQuota != nil {
			cmds = append(cmds, fetchQuotaCmd(m.fetchQuota), quotaTick(m.quotaInterval))
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view == viewInput {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "u":
		m.back = m.view
		m.view = viewInput
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "tab":
		if m.view == viewProfile {
			m.view = viewRepos
		} else {
			m.view = viewProfile
		}
		m.cursor = 0
		return m, nil

	case "esc":
		if m.view == viewDetail {
			m.view = m.back
		}
		return m, nil

	case "r":
		if m.username != "" {
			m.loading = true
			m.err = nil
			return m, loadProfile(m.backend, m.username)
		}
		return m, nil

	case "up", "k":
		return m.moveCursor(-1), nil

	case "down", "j":
		return m.moveCursor(1), nil

	case "enter":
		return m.openSelection()
	}

	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.hasProfile {
			m.view = m.back
		}
		return m, nil

	case "enter":
		username := strings.TrimSpace(m.input.Value())
		if username == "" {
			return m, nil
		}
		// Retargeting invalidates any aggregation still in flight.
		m.username = username
		m.detailKey = ""
		m.hasProfile = false
		m.hasDetail = false
		m.loading = true
		m.err = nil
		m.view = viewProfile
		return m, loadProfile(m.backend, username)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) moveCursor(delta int) Model {
	limit := 0
	switch m.view {
	case viewProfile:
		limit = len(m.profile.Featured)
	case viewRepos:
		limit = len(m.profile.Repos)
	case viewDetail:
		m.scroll += delta
		if m.scroll < 0 {
			m.scroll = 0
		}
		return m
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if limit > 0 && m.cursor >= limit {
		m.cursor = limit - 1
	}
	return m
}

func (m Model) openSelection() (tea.Model, tea.Cmd) {
	var fullName string
	switch m.view {
	case viewProfile:
		if m.cursor < len(m.profile.Featured) {
			fullName = m.profile.Featured[m.cursor].FullName
		}
	case viewRepos:
		if m.cursor < len(m.profile.Repos) {
			fullName = m.profile.Repos[m.cursor].FullName
		}
	}
	if fullName == "" {
		return m, nil
	}

	owner, repo, ok := strings.Cut(fullName, "/")
	if !ok {
		return m, nil
	}

	m.back = m.view
	m.detailKey = fullName
	m.hasDetail = false
	m.loading = true
	return m, loadDetail(m.backend, fullName, owner, repo)
}

func loadProfile(backend Backend, username string) tea.Cmd {
	return func() tea.Msg {
		profile, _, err := backend.Profile(context.Background(), username)
		return profileLoadedMsg{username: username, profile: profile, err: err}
	}
}

func loadDetail(backend Backend, key, owner, repo string) tea.Cmd {
	return func() tea.Msg {
		detail, _, err := backend.ProjectDetail(context.Background(), owner, repo)
		return detailLoadedMsg{key: key, detail: detail, err: err}
	}
}

func fetchQuotaCmd(fetch QuotaFetcher) tea.Cmd {
	return func() tea.Msg {
		status, err := fetch(context.Background())
		if err != nil {
			return quotaMsg{status: quota.Status{}}
		}
		return quotaMsg{status: status}
	}
}

func quotaTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return quotaTickMsg{}
	})
}
