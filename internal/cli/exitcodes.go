package cli

// Exit codes for the fetchx CLI
const (
	// ExitSuccess indicates a 2xx response
	ExitSuccess = 0

	// ExitBadResponse indicates a non-2xx response
	ExitBadResponse = 1

	// ExitConfigError indicates an unreadable or invalid configuration
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitCanceled indicates a timeout or cancellation
	ExitCanceled = 5

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
