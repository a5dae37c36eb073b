package cli

// Exit codes for the changelog CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution.
	ExitSuccess = 0

	// ExitFailure indicates changelog generation failed.
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments.
	ExitInvalidArguments = 3

	// ExitNotARepository indicates no git repository was found.
	ExitNotARepository = 4
)
