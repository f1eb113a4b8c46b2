package pipeline

import "math"

const (
	twoPi = 2 * math.Pi
)

// Streaming defaults
const (
	// DefaultChunkSize is the number of audio samples modulated per iteration.
	DefaultChunkSize = 4096

	// DefaultBufferSize is the ring capacity between the FM stage and the
	// interpolator: two chunks.
	DefaultBufferSize = 2 * DefaultChunkSize
)
