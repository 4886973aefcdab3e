package domain

// Row is one published record after nested-field hoisting.
// Keys are unique and values are scalars (or values left untouched by Flatten).
type Row map[string]any

// ISO3 returns the grouping key of the row, "" when missing.
func (r Row) ISO3() string {
	s, _ := r[KeyCountryISO3].(string)
	return s
}

// String returns the value stored under key as a string, "" when absent or not a string.
func (r Row) String(key string) string {
	s, _ := r[key].(string)
	return s
}

const (
	KeyCountryISO3   = "country.iso3"
	KeyCountryName   = "country.name"
	KeySocietyName   = "country.society_name"
	KeyStatusDisplay = "status_display"
	KeyStartDate     = "start_date"
	KeyEndDate       = "end_date"
)
