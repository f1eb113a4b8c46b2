package main

// Exit codes
const (
	exitFailure = 1 // generation or transmission failed
	exitUsage   = 2 // bad flags or configuration
)

// Position report defaults
const (
	positionFields = 2 // lat,lon
)

// Output file permissions
const (
	outputFileMode = 0o644
)
