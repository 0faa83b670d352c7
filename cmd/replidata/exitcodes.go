package main

// Exit codes
const (
	ExitSuccess     = 0   // Success
	ExitError       = 1   // General error (runtime failure)
	ExitConfigError = 2   // Configuration error (unreadable or invalid config)
	ExitInterrupted = 130 // Interrupted by SIGINT or SIGTERM
)

// exitError carries a specific exit code with an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}
