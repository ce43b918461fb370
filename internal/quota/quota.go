// Package quota normalizes GitHub rate-limit data and polls it on a
// timer for long-lived surfaces.
package quota

import (
	"context"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/hal/ghfolio/internal/credential"
)

// Resource is one normalized rate-limit bucket.
type Resource struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Used      int       `json:"used"`
	Reset     time.Time `json:"reset"`
}

// Status is a point-in-time view of the token's API quota across the
// resource buckets the aggregators consume. Source names which
// credential produced the numbers.
type Status struct {
	Core    Resource          `json:"core"`
	Search  Resource          `json:"search"`
	GraphQL Resource          `json:"graphql"`
	Source  credential.Source `json:"source"`
	Known   bool              `json:"known"`
	Fetched time.Time         `json:"fetched"`
}

// Authenticated reports whether the numbers came from a token rather
// than the anonymous per-IP budget.
func (s Status) Authenticated() bool {
	return s.Source != credential.SourceNone
}

// Fetcher is the slice of the GitHub client the monitor needs.
type Fetcher interface {
	RateLimits(ctx context.Context) (*gh.RateLimits, error)
	CredentialSource() credential.Source
}

// Fetch retrieves and normalizes the current quota once.
func Fetch(ctx context.Context, f Fetcher) (Status, error) {
	limits, err := f.RateLimits(ctx)
	if err != nil {
		return Status{Source: f.CredentialSource()}, err
	}
	return FromRateLimits(limits, f.CredentialSource(), time.Now()), nil
}

// FromRateLimits normalizes the go-github rate-limit shape.
func FromRateLimits(limits *gh.RateLimits, source credential.Source, fetched time.Time) Status {
	status := Status{Source: source, Known: true, Fetched: fetched}
	status.Core = fromRate(limits.Core)
	status.Search = fromRate(limits.Search)
	status.GraphQL = fromRate(limits.GraphQL)
	return status
}

func fromRate(rate *gh.Rate) Resource {
	if rate == nil {
		return Resource{}
	}
	return Resource{
		Limit:     rate.Limit,
		Remaining: rate.Remaining,
		Used:      rate.Limit - rate.Remaining,
		Reset:     rate.Reset.Time,
	}
}
