// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad arguments, an unknown id or a draft that
	// failed validation.
	UserError = 1

	// ConfigError indicates the config file could not be read or written.
	ConfigError = 2

	// BackendError indicates a failed request to the task service.
	BackendError = 3
)
