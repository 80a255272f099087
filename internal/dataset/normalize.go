package dataset

import (
	"strings"

	"github.com/pariz/gountries"
)

// countryKey folds the spellings of a country onto its ISO alpha-2 code, so
// "usa", "US" and "United States" land in the same group. Values that are not
// a known code or name are kept upper-cased.
func countryKey(value string) string {
	if value == "" {
		return NotSet
	}

	query := gountries.New()
	code := strings.ToUpper(value)
	if len(code) == 2 || len(code) == 3 {
		if country, err := query.FindCountryByAlpha(code); err == nil {
			return country.Alpha2
		}
		return code
	}
	if country, err := query.FindCountryByName(value); err == nil {
		return country.Alpha2
	}
	return code
}

// deviceKey lower-cases device categories ("DESKTOP" and "Desktop" are one group).
func deviceKey(value string) string {
	if value == "" {
		return NotSet
	}
	return strings.ToLower(value)
}
