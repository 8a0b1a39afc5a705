package parse

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/JFdC77/job-search-assistant/internal/config"
)

// LocationNormalizer maps free-form location strings to a canonical city name.
type LocationNormalizer struct {
	cities []config.City
}

func NewLocationNormalizer(cities []config.City) *LocationNormalizer {
	cs := make([]config.City, 0, len(cities))
	for _, c := range cities {
		city := config.City{Name: fold(c.Name)}
		for _, v := range c.Variants {
			if v = fold(v); v != "" {
				city.Variants = append(city.Variants, v)
			}
		}
		cs = append(cs, city)
	}
	return &LocationNormalizer{cities: cs}
}

// Normalize lowercases raw and returns the title-cased name of the first city
// whose variant list has a substring match. Unmatched input is returned lowercased.
func (n *LocationNormalizer) Normalize(raw string) string {
	loc := fold(raw)
	for _, c := range n.cities {
		for _, v := range c.Variants {
			if strings.Contains(loc, v) {
				return cases.Title(language.German).String(c.Name)
			}
		}
	}
	return loc
}

func fold(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}
