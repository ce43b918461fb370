package aggregate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hal/ghfolio/internal/model"
)

// fakeAPI is a canned-response ghclient.API for aggregator tests.
type fakeAPI struct {
	user          model.User
	userErr       error
	repos         []model.Repository
	reposErr      error
	pinned        []model.RepoCard
	pinnedErr     error
	detail        model.RepoDetail
	detailErr     error
	contributors  map[string][]model.Contributor
	languages     map[string]int
	languagesErr  error
	readme        *model.Document
	readmeErr     error
	files         map[string]*model.Document
	participation map[string][]int
	partErr       error
	followers     []model.Owner
	followersErr  error
	following     map[string][]model.Owner
	langSearch    []model.Repository
	langSearchErr error
	topicSearch   []model.Repository
	topicSearchErr error
	users         map[string]model.User

	probedPaths    []string
	discoveryCalls int
}

func (f *fakeAPI) User(_ context.Context, login string) (model.User, error) {
	if f.userErr != nil {
		return model.User{}, f.userErr
	}
	if u, ok := f.users[login]; ok {
		return u, nil
	}
	return f.user, nil
}

func (f *fakeAPI) ListRepos(_ context.Context, _ string) ([]model.Repository, error) {
	return f.repos, f.reposErr
}

func (f *fakeAPI) Followers(_ context.Context, _ string, _ int) ([]model.Owner, error) {
	f.discoveryCalls++
	return f.followers, f.followersErr
}

func (f *fakeAPI) Following(_ context.Context, login string, _ int) ([]model.Owner, error) {
	return f.following[login], nil
}

func (f *fakeAPI) Repo(_ context.Context, _, _ string) (model.RepoDetail, error) {
	return f.detail, f.detailErr
}

func (f *fakeAPI) Contributors(_ context.Context, owner, repo string) ([]model.Contributor, error) {
	return f.contributors[owner+"/"+repo], nil
}

func (f *fakeAPI) Languages(_ context.Context, _, _ string) (map[string]int, error) {
	return f.languages, f.languagesErr
}

func (f *fakeAPI) OwnerParticipation(_ context.Context, owner, repo string) ([]int, error) {
	if f.partErr != nil {
		return nil, f.partErr
	}
	return f.participation[owner+"/"+repo], nil
}

func (f *fakeAPI) Readme(_ context.Context, _, _ string) (*model.Document, error) {
	return f.readme, f.readmeErr
}

func (f *fakeAPI) FileContent(_ context.Context, _, _, path string) (*model.Document, error) {
	f.probedPaths = append(f.probedPaths, path)
	return f.files[path], nil
}

func (f *fakeAPI) PinnedRepos(_ context.Context, _ string) ([]model.RepoCard, error) {
	return f.pinned, f.pinnedErr
}

func (f *fakeAPI) SearchReposByLanguage(_ context.Context, _ string) ([]model.Repository, error) {
	f.discoveryCalls++
	return f.langSearch, f.langSearchErr
}

func (f *fakeAPI) SearchReposByTopics(_ context.Context, _ []string) ([]model.Repository, error) {
	f.discoveryCalls++
	return f.topicSearch, f.topicSearchErr
}

func repo(name string, stars int, fork bool, language string) model.Repository {
	return model.Repository{
		Name:     name,
		FullName: "octo/" + name,
		Fork:     fork,
		Stars:    stars,
		Language: language,
		Owner:    model.Owner{Login: "octo"},
	}
}

func TestProfilePinnedPreferred(t *testing.T) {
	api := &fakeAPI{
		user: model.User{Login: "octo"},
		repos: []model.Repository{
			repo("popular", 500, false, "Go"),
		},
		pinned: []model.RepoCard{
			{Name: "pinned-one", FullName: "octo/pinned-one", Source: model.SourcePinned},
		},
	}

	profile, outcomes, err := New(api).Profile(context.Background(), "octo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profile.Featured) != 1 || profile.Featured[0].Source != model.SourcePinned {
		t.Errorf("expected pinned card to win, got %+v", profile.Featured)
	}
	if failed := Failures(outcomes); len(failed) != 0 {
		t.Errorf("expected no failures, got %+v", failed)
	}
}

func TestProfileStarFallback(t *testing.T) {
	api := &fakeAPI{
		user: model.User{Login: "octo"},
		repos: []model.Repository{
			repo("small", 1, false, "Go"),
			repo("forked", 999, true, "Rust"),
			repo("big", 100, false, "Go"),
			repo("mid-a", 50, false, "Python"),
			repo("mid-b", 50, false, "Ruby"),
		},
		pinnedErr: errors.New("graphql requires authentication"),
	}

	profile, outcomes, err := New(api, WithFeaturedCount(3)).Profile(context.Background(), "octo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, card := range profile.Featured {
		got = append(got, card.Name)
		if card.Source != model.SourceStarFallback {
			t.Errorf("card %s: expected fallback source, got %q", card.Name, card.Source)
		}
	}
	// Stars descending, forks excluded, stable order among equal stars.
	want := []string{"big", "mid-a", "mid-b"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("featured order = %v, want %v", got, want)
	}

	if failed := Failures(outcomes); len(failed) != 1 || failed[0].Task != "pinned" {
		t.Errorf("expected exactly the pinned outcome to fail, got %+v", failed)
	}
}

func TestProfileHardFailureOnUser(t *testing.T) {
	api := &fakeAPI{userErr: errors.New("boom")}
	_, _, err := New(api).Profile(context.Background(), "octo")
	if err == nil {
		t.Fatal("expected error when the identity fetch fails")
	}
}

func TestProfileEmptyUsername(t *testing.T) {
	if _, _, err := New(&fakeAPI{}).Profile(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty username")
	}
}

func TestSkills(t *testing.T) {
	repos := []model.Repository{
		repo("a", 0, false, "Go"),
		repo("b", 0, false, ""),
		repo("c", 0, false, "Go"),
		repo("d", 0, false, "Rust"),
		repo("e", 0, false, "Python"),
	}
	got := Skills(repos, 2)
	if len(got) != 2 || got[0] != "Go" || got[1] != "Rust" {
		t.Errorf("Skills = %v, want [Go Rust]", got)
	}
}

func TestProjectDetailProbeOrder(t *testing.T) {
	api := &fakeAPI{
		detail: model.RepoDetail{
			Repository:    repo("proj", 10, false, "Go"),
			DefaultBranch: "main",
		},
		files: map[string]*model.Document{
			"docs/GitHubFolio.md": {Kind: model.DocProject, Path: "docs/GitHubFolio.md", Content: "# Project"},
			"PROJECT.md":          {Kind: model.DocProject, Path: "PROJECT.md", Content: "# Later"},
		},
		readme:    &model.Document{Kind: model.DocTechnical, Content: "# Readme"},
		languages: map[string]int{"Go": 900, "Shell": 100},
	}

	detail, outcomes, err := New(api).ProjectDetail(context.Background(), "octo", "proj")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.ProjectDoc == nil || detail.ProjectDoc.Path != "docs/GitHubFolio.md" {
		t.Errorf("expected first matching probe path to win, got %+v", detail.ProjectDoc)
	}
	// The probe must stop at the first hit.
	for _, probed := range api.probedPaths {
		if probed == "PROJECT.md" {
			t.Error("probe continued past the first matching path")
		}
	}
	if failed := Failures(outcomes); len(failed) != 0 {
		t.Errorf("expected no failures, got %+v", failed)
	}
	if len(detail.Languages) != 2 || detail.Languages[0].Language != "Go" {
		t.Errorf("unexpected language stats: %+v", detail.Languages)
	}
}

func TestProjectDetailDegradesPerFetch(t *testing.T) {
	api := &fakeAPI{
		detail: model.RepoDetail{
			Repository:    repo("proj", 10, false, "Go"),
			DefaultBranch: "main",
		},
		readmeErr:    errors.New("readme unavailable"),
		languagesErr: errors.New("languages unavailable"),
	}

	detail, outcomes, err := New(api).ProjectDetail(context.Background(), "octo", "proj")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Readme != nil || len(detail.Languages) != 0 {
		t.Errorf("expected degraded empty values, got %+v", detail)
	}
	if failed := Failures(outcomes); len(failed) != 2 {
		t.Errorf("expected two failed outcomes, got %+v", failed)
	}
}

func TestLanguagePercentages(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]int
		want  []model.LanguageStat
	}{
		{
			name:  "empty",
			input: nil,
			want:  nil,
		},
		{
			name:  "all zero bytes",
			input: map[string]int{"Go": 0},
			want:  nil,
		},
		{
			name:  "rounded shares sorted by bytes",
			input: map[string]int{"Go": 667, "Shell": 333},
			want: []model.LanguageStat{
				{Language: "Go", Bytes: 667, Percentage: 67},
				{Language: "Shell", Bytes: 333, Percentage: 33},
			},
		},
		{
			name:  "ties break alphabetically",
			input: map[string]int{"Ruby": 50, "Go": 50},
			want: []model.LanguageStat{
				{Language: "Go", Bytes: 50, Percentage: 50},
				{Language: "Ruby", Bytes: 50, Percentage: 50},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LanguagePercentages(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("stat[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRewriteRelativeLinks(t *testing.T) {
	base := "https://raw.githubusercontent.com/octo/proj/main"
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "relative image",
			content: "![logo](assets/logo.png)",
			want:    "![logo](" + base + "/assets/logo.png)",
		},
		{
			name:    "root relative link",
			content: "[docs](/docs/guide.md)",
			want:    "[docs](" + base + "/docs/guide.md)",
		},
		{
			name:    "absolute untouched",
			content: "[site](https://example.com/x)",
			want:    "[site](https://example.com/x)",
		},
		{
			name:    "anchor untouched",
			content: "[usage](#usage)",
			want:    "[usage](#usage)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RewriteRelativeLinks(tt.content, base); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActivityWeeklyFirstActiveRepoWins(t *testing.T) {
	recent := repo("recent", 1, false, "Go")
	recent.PushedAt = time.Now()
	older := repo("older", 1, false, "Go")
	older.PushedAt = time.Now().Add(-24 * time.Hour)
	forked := repo("forked", 1, true, "Go")
	forked.PushedAt = time.Now().Add(-time.Hour)

	api := &fakeAPI{
		repos: []model.Repository{older, forked, recent},
		participation: map[string][]int{
			"octo/recent": {0, 0, 0}, // fetched but idle
			"octo/older":  {0, 3, 0, 5},
		},
	}

	series, _, err := New(api).Activity(context.Background(), "octo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Unit != model.UnitWeeklyCommits {
		t.Fatalf("expected weekly series, got %q", series.Unit)
	}
	if series.Repo != "octo/older" {
		t.Errorf("expected first repo with non-zero commits, got %q", series.Repo)
	}
	want := []model.ActivityPoint{{Label: "Week 2", Count: 3}, {Label: "Week 4", Count: 5}}
	if len(series.Points) != len(want) {
		t.Fatalf("points = %+v, want %+v", series.Points, want)
	}
	for i := range want {
		if series.Points[i] != want[i] {
			t.Errorf("point[%d] = %+v, want %+v", i, series.Points[i], want[i])
		}
	}
}

func TestActivityMonthlyFallback(t *testing.T) {
	base := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
	var repos []model.Repository
	for i := 0; i < 4; i++ {
		r := repo(fmt.Sprintf("r%d", i), 0, false, "Go")
		r.PushedAt = base.AddDate(0, -i, 0)
		repos = append(repos, r)
	}
	// A long-idle repo still gets a bucket; there is no age cutoff.
	idle := repo("idle", 0, false, "Go")
	idle.PushedAt = base.AddDate(-2, 0, 0)
	repos = append(repos, idle)

	series := MonthlyPushBuckets(repos)
	if series.Unit != model.UnitMonthlyPushes {
		t.Fatalf("expected monthly series, got %q", series.Unit)
	}
	if series.Repo != "" {
		t.Errorf("monthly series must not name a repo, got %q", series.Repo)
	}
	want := []string{"08/24", "05/26", "06/26", "07/26", "08/26"}
	if len(series.Points) != len(want) {
		t.Fatalf("points = %+v, want labels %v", series.Points, want)
	}
	for i, label := range want {
		if series.Points[i].Label != label || series.Points[i].Count != 1 {
			t.Errorf("point[%d] = %+v, want {%s 1}", i, series.Points[i], label)
		}
	}
}

func TestActivityMonthlyKeepsLastTwelveBuckets(t *testing.T) {
	base := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
	var repos []model.Repository
	for i := 0; i < 15; i++ {
		r := repo(fmt.Sprintf("r%d", i), 0, false, "Go")
		r.PushedAt = base.AddDate(0, -i, 0)
		repos = append(repos, r)
	}

	series := MonthlyPushBuckets(repos)
	if len(series.Points) != 12 {
		t.Fatalf("expected 12 buckets, got %d: %+v", len(series.Points), series.Points)
	}
	if got := series.Points[0].Label; got != "09/25" {
		t.Errorf("oldest kept bucket = %q, want 09/25", got)
	}
	if got := series.Points[11].Label; got != "08/26" {
		t.Errorf("newest bucket = %q, want 08/26", got)
	}
}

func TestActivityParticipationFailureFallsBack(t *testing.T) {
	r := repo("only", 0, false, "Go")
	r.PushedAt = time.Now()
	api := &fakeAPI{
		repos:   []model.Repository{r},
		partErr: errors.New("stats not ready"),
	}

	series, outcomes, err := New(api).Activity(context.Background(), "octo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Unit != model.UnitMonthlyPushes {
		t.Errorf("expected monthly fallback, got %q", series.Unit)
	}
	if failed := Failures(outcomes); len(failed) != 1 {
		t.Errorf("expected one failed probe outcome, got %+v", failed)
	}
}

func TestSimilarUsersDedupFirstReasonWins(t *testing.T) {
	goRepo := repo("lib", 0, false, "Go")
	goRepo.Topics = []string{"cli"}

	searchHit := model.Repository{
		Name:     "famous",
		FullName: "alice/famous",
		Owner:    model.Owner{Login: "alice"},
	}

	api := &fakeAPI{
		repos:      []model.Repository{goRepo},
		langSearch: []model.Repository{searchHit},
		contributors: map[string][]model.Contributor{
			"alice/famous": {{Login: "bob"}, {Login: "carol"}},
		},
		// bob shows up again via the topic search; his reason must not change.
		topicSearch: []model.Repository{
			{Name: "x", FullName: "bob/x", Owner: model.Owner{Login: "bob"}},
			{Name: "y", FullName: "dave/y", Owner: model.Owner{Login: "dave"}},
		},
		users: map[string]model.User{
			"bob": {Login: "bob", Name: "Bob B."},
		},
	}

	users, _, err := New(api).SimilarUsers(context.Background(), "octo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byLogin := map[string]model.SimilarUser{}
	for _, u := range users {
		byLogin[u.Login] = u
	}
	if _, ok := byLogin["octo"]; ok {
		t.Error("target user must be excluded from candidates")
	}
	if got := byLogin["bob"].Reason; got != "Also works with Go" {
		t.Errorf("bob's reason = %q, want the language reason kept", got)
	}
	if got := byLogin["dave"].Reason; got != "Works on similar topics" {
		t.Errorf("dave's reason = %q", got)
	}
	if byLogin["bob"].Name != "Bob B." {
		t.Errorf("expected name enrichment for bob, got %+v", byLogin["bob"])
	}
}

func TestSimilarUsersTruncatedAtSix(t *testing.T) {
	var hits []model.Repository
	for i := 0; i < 10; i++ {
		login := fmt.Sprintf("owner%d", i)
		hits = append(hits, model.Repository{
			Name:     "r",
			FullName: login + "/r",
			Owner:    model.Owner{Login: login},
		})
	}
	api := &fakeAPI{
		repos:       []model.Repository{func() model.Repository { r := repo("x", 0, false, ""); r.Topics = []string{"go"}; return r }()},
		topicSearch: hits,
	}

	users, _, err := New(api).SimilarUsers(context.Background(), "octo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 6 {
		t.Errorf("expected candidate list capped at 6, got %d", len(users))
	}
}

func TestSimilarUsersFollowerGraph(t *testing.T) {
	api := &fakeAPI{
		// A language signal exists but the search turns up nothing, so
		// discovery falls through to the follower graph.
		repos:     []model.Repository{repo("lib", 0, false, "Go")},
		followers: []model.Owner{{Login: "fan"}},
		following: map[string][]model.Owner{
			"fan": {{Login: "peer"}, {Login: "octo"}},
		},
	}

	users, _, err := New(api).SimilarUsers(context.Background(), "octo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 || users[0].Login != "peer" {
		t.Fatalf("expected only the peer candidate, got %+v", users)
	}
	if users[0].Reason != "Followed by people who follow you" {
		t.Errorf("reason = %q", users[0].Reason)
	}
}

func TestSimilarUsersNoSignalsReturnsEmpty(t *testing.T) {
	api := &fakeAPI{
		repos:     nil, // no languages, no topics
		followers: []model.Owner{{Login: "fan"}},
		following: map[string][]model.Owner{
			"fan": {{Login: "peer"}},
		},
	}

	users, outcomes, err := New(api).SimilarUsers(context.Background(), "octo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected no candidates without source signals, got %+v", users)
	}
	if len(outcomes) != 0 {
		t.Errorf("expected no discovery outcomes, got %+v", outcomes)
	}
	if api.discoveryCalls != 0 {
		t.Errorf("expected no discovery calls, got %d", api.discoveryCalls)
	}
}

func TestSimilarUsersLanguageTopThreeRepos(t *testing.T) {
	var hits []model.Repository
	contributors := map[string][]model.Contributor{}
	for i := 0; i < 5; i++ {
		owner := fmt.Sprintf("owner%d", i)
		hits = append(hits, model.Repository{
			Name:     "r",
			FullName: owner + "/r",
			Owner:    model.Owner{Login: owner},
		})
		contributors[owner+"/r"] = []model.Contributor{{Login: fmt.Sprintf("dev%d", i)}}
	}
	api := &fakeAPI{
		repos:        []model.Repository{repo("lib", 0, false, "Go")},
		langSearch:   hits,
		contributors: contributors,
	}

	users, _, err := New(api).SimilarUsers(context.Background(), "octo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := map[string]bool{}
	for _, u := range users {
		got[u.Login] = true
	}
	for _, want := range []string{"dev0", "dev1", "dev2"} {
		if !got[want] {
			t.Errorf("expected contributor %s from a top search hit, got %+v", want, users)
		}
	}
	if got["dev3"] || got["dev4"] {
		t.Errorf("contributors must come from the top three search hits only, got %+v", users)
	}
}

func TestPrimaryLanguage(t *testing.T) {
	repos := []model.Repository{
		repo("a", 0, false, "Rust"),
		repo("b", 0, false, "Go"),
		repo("c", 0, false, "Go"),
		repo("d", 0, false, "Rust"),
	}
	// Tie between Rust and Go breaks toward first encountered.
	if got := PrimaryLanguage(repos); got != "Rust" {
		t.Errorf("PrimaryLanguage = %q, want Rust", got)
	}
	if got := PrimaryLanguage(nil); got != "" {
		t.Errorf("PrimaryLanguage(nil) = %q, want empty", got)
	}
}

func TestTopTopics(t *testing.T) {
	a := repo("a", 0, false, "")
	a.Topics = []string{"cli", "tui", "cli"}
	b := repo("b", 0, false, "")
	b.Topics = []string{"web", "api"}
	got := TopTopics([]model.Repository{a, b}, 3)
	want := []string{"cli", "tui", "web"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("TopTopics = %v, want %v", got, want)
	}
}
