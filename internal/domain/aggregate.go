package domain

// Aggregate holds everything collected for one feed during a run.
// Rows keeps page/API order; ByCountry keeps the same order per key.
type Aggregate struct {
	Rows      []Row
	ByCountry map[string][]Row
	Status    map[string]string // ISO3 -> QC status label
	Columns   []string          // column order of the rows, first seen wins
}

func NewAggregate() *Aggregate {
	return &Aggregate{
		ByCountry: map[string][]Row{},
		Status:    map[string]string{},
	}
}

// Add appends row to the flat collection and to its country bucket.
func (a *Aggregate) Add(row Row, columns ...string) {
	if a.Columns == nil && len(columns) > 0 {
		a.Columns = append([]string(nil), columns...)
	}
	a.Rows = append(a.Rows, row)
	iso3 := row.ISO3()
	a.ByCountry[iso3] = append(a.ByCountry[iso3], row)
}

// Countries returns the ISO3 codes that have at least one row.
func (a *Aggregate) Countries() []string {
	out := make([]string, 0, len(a.ByCountry))
	for k := range a.ByCountry {
		out = append(out, k)
	}
	return out
}

// Empty reports whether no row was collected.
func (a *Aggregate) Empty() bool {
	return a == nil || len(a.Rows) == 0
}
