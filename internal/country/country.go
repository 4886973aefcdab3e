// Package country resolves ISO 3166-1 alpha-3 codes to English country names.
package country

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Lookup resolves names from the CLDR region table shipped with x/text.
// Overrides take precedence and cover codes CLDR does not know (e.g. XKX)
// or names the publisher spells differently.
type Lookup struct {
	overrides map[string]string
	namer     display.Namer
}

func NewLookup(overrides map[string]string) *Lookup {
	o := make(map[string]string, len(overrides))
	for k, v := range overrides {
		o[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return &Lookup{overrides: o, namer: display.English.Regions()}
}

// NameForISO3 returns the country name for code, false when unknown.
func (l *Lookup) NameForISO3(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", false
	}
	if name, ok := l.overrides[code]; ok {
		return name, name != ""
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() {
		return "", false
	}
	name := l.namer.Name(region)
	if name == "" {
		return "", false
	}
	return name, true
}
