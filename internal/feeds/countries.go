package feeds

import "strings"

// CountryHandler builds the ISO3 -> provider id lookup table from the countries feed.
type CountryHandler struct {
	ids map[string]string
}

func NewCountryHandler() *CountryHandler {
	return &CountryHandler{ids: map[string]string{}}
}

func (h *CountryHandler) Handle(rec map[string]any) {
	iso3 := strings.ToUpper(strings.TrimSpace(stringValue(rec["iso3"])))
	id := stringValue(rec["id"])
	if iso3 == "" || id == "" {
		return
	}
	h.ids[iso3] = id
}

// IDs returns the lookup table. It must be treated as read-only once the feed is walked.
func (h *CountryHandler) IDs() map[string]string { return h.ids }
