package main

// Exit codes used across all commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad config key, invalid paths)
	ExitDataError   = 3 // Data error (unreadable or malformed input files)
)
