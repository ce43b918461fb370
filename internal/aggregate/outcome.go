// Package aggregate assembles portfolio views from multiple dependent
// GitHub fetches, tolerating partial failure per sub-fetch.
package aggregate

import "github.com/hal/ghfolio/internal/ghclient"

// Outcome records the result of one sub-fetch inside an aggregation.
// Aggregations settle every sub-fetch independently; a failed secondary
// fetch degrades to an empty value and is reported here instead of
// aborting the batch.
type Outcome struct {
	Task string
	Err  error
}

// OK reports whether the sub-fetch succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Failures filters outcomes down to those that failed.
func Failures(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Aggregator runs portfolio aggregations against a GitHub API client.
type Aggregator struct {
	api           ghclient.API
	featuredCount int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithFeaturedCount overrides the featured-card cap (default 6).
func WithFeaturedCount(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.featuredCount = n
		}
	}
}

// New creates an Aggregator over the given API client.
func New(api ghclient.API, opts ...Option) *Aggregator {
	a := &Aggregator{
		api:           api,
		featuredCount: 6,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
