// Package credential resolves which GitHub token outbound calls use.
//
// One policy applies everywhere: a server-held token (from the
// environment) takes priority over a client-supplied one, so a shared
// higher-quota credential is never displaced by an ad hoc token. With no
// token present, requests proceed unauthenticated at the public rate
// limit. The resolved token value is never logged.
package credential

// Source identifies where the effective token came from.
type Source string

const (
	SourceNone   Source = "none"
	SourceClient Source = "client"
	SourceServer Source = "server"
)

// Resolved is the outcome of a resolution: the token to attach (possibly
// empty) and which source supplied it.
type Resolved struct {
	// token is intentionally unexported. NEVER add String(), MarshalJSON(),
	// or any method that could expose this value in logs or serialized
	// output.
	token  string
	source Source
}

// Token returns the resolved token value, empty for unauthenticated.
func (r Resolved) Token() string {
	return r.token
}

// Source returns which credential source was effective.
func (r Resolved) Source() Source {
	return r.source
}

// Anonymous reports whether no credential resolved.
func (r Resolved) Anonymous() bool {
	return r.source == SourceNone
}

// Resolve applies the precedence policy to an optional client token and an
// optional server/environment token.
func Resolve(clientToken, serverToken string) Resolved {
	switch {
	case serverToken != "":
		return Resolved{token: serverToken, source: SourceServer}
	case clientToken != "":
		return Resolved{token: clientToken, source: SourceClient}
	default:
		return Resolved{source: SourceNone}
	}
}

// AuthorizationHeader returns the header value for the resolved token, or
// empty when unauthenticated.
func (r Resolved) AuthorizationHeader() string {
	if r.token == "" {
		return ""
	}
	return "Bearer " + r.token
}
