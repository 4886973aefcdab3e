package feeds

import (
	"log/slog"

	"ifrc-sync/internal/domain"
)

// ProjectColumns is the fixed column set of who-what-where rows, in output order.
var ProjectColumns = []string{
	domain.KeyCountryISO3,
	domain.KeyCountryName,
	"district.names",
	domain.KeySocietyName,
	"primary_sector",
	"secondary_sectors",
	"programme_type",
	"operation_type",
	domain.KeyStatusDisplay,
	domain.KeyStartDate,
	domain.KeyEndDate,
	"budget_amount",
	"actual_expenditure",
	"target_male",
	"target_female",
	"target_other",
	"target_total",
	"reached_male",
	"reached_female",
	"reached_other",
	"reached_total",
	"name",
}

// copied verbatim from the raw record
var projectScalars = []string{
	"primary_sector_display",
	"programme_type_display",
	"operation_type_display",
	domain.KeyStatusDisplay,
	domain.KeyStartDate,
	domain.KeyEndDate,
	"budget_amount",
	"actual_expenditure",
	"target_male",
	"target_female",
	"target_other",
	"target_total",
	"reached_male",
	"reached_female",
	"reached_other",
	"reached_total",
	"name",
}

// ProjectHandler projects raw who-what-where records onto ProjectColumns.
type ProjectHandler struct {
	agg      *domain.Aggregate
	resolver StatusResolver
	names    CountryNames
	unknown  map[string]bool
}

func NewProjectHandler(names CountryNames) *ProjectHandler {
	r := NewOngoingResolver()
	agg := domain.NewAggregate()
	agg.Status = r.Status()
	return &ProjectHandler{agg: agg, resolver: r, names: names, unknown: map[string]bool{}}
}

func (h *ProjectHandler) Aggregate() *domain.Aggregate { return h.agg }

func (h *ProjectHandler) Handle(rec map[string]any) {
	iso3 := stringValue(nested(rec, "project_country_detail")["iso3"])
	if iso3 == "" {
		slog.Warn("project without country, skipping", "name", stringValue(rec["name"]))
		return
	}

	row := make(domain.Row, len(ProjectColumns))
	for _, k := range projectScalars {
		row[k] = rec[k]
	}
	row["primary_sector"] = row["primary_sector_display"]
	row["programme_type"] = row["programme_type_display"]
	row["operation_type"] = row["operation_type_display"]
	delete(row, "primary_sector_display")
	delete(row, "programme_type_display")
	delete(row, "operation_type_display")

	row[domain.KeyCountryISO3] = iso3
	row[domain.KeyCountryName] = countryName(h.names, iso3, h.unknown)
	row["district.names"] = joinField(rec["project_districts_detail"], "name")
	row[domain.KeySocietyName] = nested(rec, "reporting_ns_detail")["society_name"]
	row["secondary_sectors"] = joinStrings(rec["secondary_sectors_display"])

	h.agg.Add(row, ProjectColumns...)
	h.resolver.Consider(iso3, 0, row.String(domain.KeyStatusDisplay))
}
