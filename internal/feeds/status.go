package feeds

// StatusResolver picks one representative status label per country.
// Consider reports whether the country's entry changed.
type StatusResolver interface {
	Consider(iso3 string, code int, label string) bool
	Status() map[string]string
}

// LowestCodeResolver keeps the label of the lowest status code seen per country.
// Ties keep the first label.
type LowestCodeResolver struct {
	status map[string]string
	best   map[string]int
}

func NewLowestCodeResolver() *LowestCodeResolver {
	return &LowestCodeResolver{status: map[string]string{}, best: map[string]int{}}
}

func (r *LowestCodeResolver) Consider(iso3 string, code int, label string) bool {
	if best, seen := r.best[iso3]; seen && code >= best {
		return false
	}
	r.best[iso3] = code
	r.status[iso3] = label
	return true
}

func (r *LowestCodeResolver) Status() map[string]string { return r.status }

// OngoingLabel always wins in OngoingResolver.
const OngoingLabel = "Ongoing"

// OngoingResolver keeps the first label seen per country unless an "Ongoing" row arrives,
// which always overrides. The code is ignored.
type OngoingResolver struct {
	status map[string]string
}

func NewOngoingResolver() *OngoingResolver {
	return &OngoingResolver{status: map[string]string{}}
}

func (r *OngoingResolver) Consider(iso3 string, _ int, label string) bool {
	current, seen := r.status[iso3]
	if seen && (label != OngoingLabel || current == OngoingLabel) {
		return false
	}
	r.status[iso3] = label
	return true
}

func (r *OngoingResolver) Status() map[string]string { return r.status }
