package aprs

import (
	"fmt"
	"math"
)

// Symbol table identifiers.
const (
	PrimaryTable   = '/'
	AlternateTable = '\\'
	SymbolCar      = '>'
)

// FormatPosition builds an uncompressed position report without timestamp,
// e.g. "!4903.50N/07201.75W>".
func FormatPosition(lat, lon float64, table, symbol byte) (string, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.Abs(lat) > 90 || math.Abs(lon) > 180 {
		return "", fmt.Errorf("%w: position %f,%f out of range", ErrInvalidConfig, lat, lon)
	}

	ns, ew := byte('N'), byte('E')
	if lat < 0 {
		ns = 'S'
	}
	if lon < 0 {
		ew = 'W'
	}

	latDeg, latMin := degMin(math.Abs(lat))
	lonDeg, lonMin := degMin(math.Abs(lon))
	return fmt.Sprintf("!%02d%05.2f%c%c%03d%05.2f%c%c",
		latDeg, latMin, ns, table, lonDeg, lonMin, ew, symbol), nil
}

func degMin(v float64) (int, float64) {
	deg := math.Floor(v)
	return int(deg), (v - deg) * 60
}
