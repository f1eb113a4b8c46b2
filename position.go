package baseband

import "github.com/tphakala/go-baseband/internal/aprs"

// FormatPosition returns an uncompressed APRS position report for lat, lon
// in decimal degrees with the primary-table car symbol, e.g.
// "!4903.50N/07201.75W>". Append a comment and use it as APRS Data.
func FormatPosition(lat, lon float64) (string, error) {
	s, err := aprs.FormatPosition(lat, lon, aprs.PrimaryTable, aprs.SymbolCar)
	return s, classify(err)
}
