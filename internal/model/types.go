// Package model defines the portfolio view types assembled from GitHub data.
package model

import "time"

// User is a GitHub account profile. Login is the only field guaranteed to
// be present; everything else may be empty and renders as a placeholder.
type User struct {
	Login       string    `json:"login"`
	Name        string    `json:"name,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	HTMLURL     string    `json:"htmlUrl,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Company     string    `json:"company,omitempty"`
	Location    string    `json:"location,omitempty"`
	Blog        string    `json:"blog,omitempty"`
	Twitter     string    `json:"twitter,omitempty"`
	PublicRepos int       `json:"publicRepos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DisplayName returns the profile name, falling back to the login.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// Owner is the subset of User attached to a repository.
type Owner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	HTMLURL   string `json:"htmlUrl,omitempty"`
}

// Repository is a repository as returned by the listing endpoint.
// FullName is always "owner/name" and keys every per-repo sub-fetch.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"fullName"`
	HTMLURL     string    `json:"htmlUrl"`
	Description string    `json:"description,omitempty"`
	Fork        bool      `json:"fork"`
	Language    string    `json:"language,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Watchers    int       `json:"watchers"`
	Topics      []string  `json:"topics,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	PushedAt    time.Time `json:"pushedAt"`
	Owner       Owner     `json:"owner"`
}

// CardSource says which API surface produced a RepoCard.
type CardSource string

const (
	// SourcePinned marks cards from the pinned-items GraphQL query.
	SourcePinned CardSource = "pinned"
	// SourceStarFallback marks cards synthesized from the repository list
	// when the pinned query fails or returns nothing.
	SourceStarFallback CardSource = "stars"
)

// RepoCard is a featured-repository card. Pinned cards come from GraphQL
// and carry no numeric id, so the two provenances are tagged rather than
// silently coerced into one shape.
type RepoCard struct {
	ID          int64      `json:"id,omitempty"`
	Name        string     `json:"name"`
	FullName    string     `json:"fullName"`
	HTMLURL     string     `json:"htmlUrl"`
	Description string     `json:"description,omitempty"`
	Language    string     `json:"language,omitempty"`
	Stars       int        `json:"stars"`
	Forks       int        `json:"forks"`
	Topics      []string   `json:"topics,omitempty"`
	Owner       Owner      `json:"owner"`
	Source      CardSource `json:"source"`
}

// Key returns a stable identifier for the card. Pinned cards have no
// numeric id; the full name substitutes.
func (c RepoCard) Key() string {
	return c.FullName
}

// CardFromRepository converts a listed repository into a fallback card.
func CardFromRepository(r Repository) RepoCard {
	return RepoCard{
		ID:          r.ID,
		Name:        r.Name,
		FullName:    r.FullName,
		HTMLURL:     r.HTMLURL,
		Description: r.Description,
		Language:    r.Language,
		Stars:       r.Stars,
		Forks:       r.Forks,
		Topics:      r.Topics,
		Owner:       r.Owner,
		Source:      SourceStarFallback,
	}
}

// License identifies a repository license.
type License struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// RepoDetail is the superset of Repository returned by the single-repo
// endpoint.
type RepoDetail struct {
	Repository
	Size          int      `json:"size"`
	OpenIssues    int      `json:"openIssues"`
	Subscribers   int      `json:"subscribers"`
	NetworkCount  int      `json:"networkCount"`
	Homepage      string   `json:"homepage,omitempty"`
	License       *License `json:"license,omitempty"`
	Visibility    string   `json:"visibility,omitempty"`
	DefaultBranch string   `json:"defaultBranch"`
}

// Contributor is a repository contributor, ordered by contribution count
// descending as returned by the source.
type Contributor struct {
	Login         string `json:"login"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
	HTMLURL       string `json:"htmlUrl,omitempty"`
	Contributions int    `json:"contributions"`
}

// DocumentKind distinguishes the two repository documents.
type DocumentKind string

const (
	// DocTechnical is the standard repository readme.
	DocTechnical DocumentKind = "technical"
	// DocProject is the portfolio-oriented alternate document found by the
	// candidate-path probe.
	DocProject DocumentKind = "project"
)

// Document is decoded UTF-8 markdown from a base64 content blob.
type Document struct {
	Kind    DocumentKind `json:"kind"`
	Path    string       `json:"path,omitempty"`
	Content string       `json:"content"`
}

// LanguageStat is one language's share of a repository.
type LanguageStat struct {
	Language   string `json:"language"`
	Bytes      int    `json:"bytes"`
	Percentage int    `json:"percentage"`
}

// SeriesUnit labels the axis of an ActivitySeries. Weekly commit counts
// and monthly push counts are alternative fallback shapes, never merged.
type SeriesUnit string

const (
	UnitWeeklyCommits SeriesUnit = "weekly-commits"
	UnitMonthlyPushes SeriesUnit = "monthly-pushes"
)

// ActivityPoint is one labeled sample of an activity series.
type ActivityPoint struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ActivitySeries is an ordered activity time series. Repo names the
// repository that produced a weekly series; empty for the monthly shape.
type ActivitySeries struct {
	Unit   SeriesUnit      `json:"unit"`
	Repo   string          `json:"repo,omitempty"`
	Points []ActivityPoint `json:"points"`
}

// Empty reports whether the series carries no usable data.
func (s ActivitySeries) Empty() bool {
	return len(s.Points) == 0
}

// SimilarUser is a heuristically discovered related account. Name is
// resolved lazily and may stay empty; Reason is fixed by whichever
// discovery method surfaced the login first.
type SimilarUser struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	HTMLURL   string `json:"htmlUrl,omitempty"`
	Name      string `json:"name,omitempty"`
	Reason    string `json:"reason"`
}

// Profile is the assembled profile-page view.
type Profile struct {
	User     User         `json:"user"`
	Repos    []Repository `json:"repos"`
	Featured []RepoCard   `json:"featured"`
	Skills   []string     `json:"skills"`
}

// ProjectDetail is the assembled project-page view.
type ProjectDetail struct {
	Repo         RepoDetail     `json:"repo"`
	Readme       *Document      `json:"readme,omitempty"`
	ProjectDoc   *Document      `json:"projectDoc,omitempty"`
	Contributors []Contributor  `json:"contributors"`
	Languages    []LanguageStat `json:"languages"`
}

// Document returns the preferred display document: the portfolio
// document when present, otherwise the readme, otherwise nil.
func (d ProjectDetail) Document() *Document {
	if d.ProjectDoc != nil {
		return d.ProjectDoc
	}
	return d.Readme
}
