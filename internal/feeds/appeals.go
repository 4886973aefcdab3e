package feeds

import (
	"log/slog"

	"ifrc-sync/internal/domain"
	"ifrc-sync/internal/flatten"
)

// ArchivedStatus is the appeal status code of archived appeals, which are never published.
const ArchivedStatus = 3

// AppealHandler turns raw appeal records into rows.
type AppealHandler struct {
	agg      *domain.Aggregate
	resolver StatusResolver
	names    CountryNames
	unknown  map[string]bool
}

func NewAppealHandler(names CountryNames) *AppealHandler {
	r := NewLowestCodeResolver()
	agg := domain.NewAggregate()
	agg.Status = r.Status()
	return &AppealHandler{agg: agg, resolver: r, names: names, unknown: map[string]bool{}}
}

func (h *AppealHandler) Aggregate() *domain.Aggregate { return h.agg }

func (h *AppealHandler) Handle(rec map[string]any) {
	code, hasCode := intValue(rec["status"])
	if hasCode && code == ArchivedStatus {
		return
	}

	raw := make(map[string]any, len(rec))
	for k, v := range rec {
		raw[k] = v
	}
	if v, ok := raw["num_beneficiaries"]; ok {
		raw["initial_num_beneficiaries"] = v
		delete(raw, "num_beneficiaries")
	}

	row := domain.Row(flatten.Flatten(raw))
	iso3 := row.ISO3()
	if iso3 == "" {
		slog.Warn("appeal without country, skipping", "aid", stringValue(row["aid"]))
		return
	}
	row[domain.KeyCountryName] = countryName(h.names, iso3, h.unknown)

	h.agg.Add(row)
	if hasCode {
		h.resolver.Consider(iso3, code, row.String(domain.KeyStatusDisplay))
	}
}

// countryName returns the name for iso3 or nil, logging unknown codes once.
func countryName(names CountryNames, iso3 string, unknown map[string]bool) any {
	if name, ok := names.NameForISO3(iso3); ok {
		return name
	}
	if !unknown[iso3] {
		unknown[iso3] = true
		slog.Error("unknown ISO 3 code", "iso3", iso3)
	}
	return nil
}
