package cmd

// Options holds the shared command-line options for the ghfolio CLI.
// Flags bind to it directly on the root command; leaf commands read the
// resolved values through setup.
type Options struct {
	// Format selects the output rendering (table, json, markdown).
	Format string

	// Token is a GitHub token used when GITHUB_TOKEN is not set. For the
	// serve command it is the server-side token.
	Token string

	// Verbosity counts -v occurrences (info, debug, trace).
	Verbosity int
}
