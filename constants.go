package baseband

// APRS addressing defaults
const (
	DefaultCallsign = "NOCALL"
	DefaultPath     = "WIDE1-1,WIDE2-1"
)

// Speech defaults
const (
	DefaultTTSSampleRate = 16000 // Hz, engine output before FM resampling
	DefaultVolume        = 1.0
)
