package presentation

import (
	"strings"

	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"datapulse/internal/dataset"
)

const unknownLabel = "Unknown"

// countryLabeler resolves ISO alpha-2 and alpha-3 codes to common country names.
type countryLabeler struct {
	query *gountries.Query
	upper cases.Caser
}

func newCountryLabeler() *countryLabeler {
	return &countryLabeler{
		query: gountries.New(),
		upper: cases.Upper(language.AmericanEnglish),
	}
}

// Label returns the display name for a country value. Values that are not
// country codes are shown upper-cased.
func (l *countryLabeler) Label(value string) string {
	if value == "" || value == dataset.NotSet {
		return unknownLabel
	}

	code := l.upper.String(strings.TrimSpace(value))
	if len(code) == 2 || len(code) == 3 {
		if country, err := l.query.FindCountryByAlpha(code); err == nil {
			return country.Name.Common
		}
	}
	return code
}

// deviceLabel title-cases device categories ("MOBILE" -> "Mobile").
func deviceLabel(value string) string {
	if value == "" || value == dataset.NotSet {
		return unknownLabel
	}
	return cases.Title(language.AmericanEnglish).String(value)
}
