// Package dates decides which record date ranges are usable for publication.
package dates

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"ifrc-sync/internal/domain"
)

// MinYear is the last year treated as an "unset" sentinel.
const MinYear = 1900

// Parser turns a provider date string into a calendar date.
type Parser interface {
	Parse(s string) (time.Time, error)
}

// StrictParser uses dateparse.ParseStrict and truncates to the calendar date in UTC.
type StrictParser struct{}

func (StrictParser) Parse(s string) (time.Time, error) {
	t, err := dateparse.ParseStrict(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Range is the validated part of a row's date range; either bound may be absent.
type Range struct {
	Start *time.Time `yaml:"startdate,omitempty"`
	End   *time.Time `yaml:"enddate,omitempty"`
}

// Empty reports whether neither bound is set.
func (r Range) Empty() bool { return r.Start == nil && r.End == nil }

// Merge widens r so that it also covers o.
func (r Range) Merge(o Range) Range {
	if o.Start != nil && (r.Start == nil || o.Start.Before(*r.Start)) {
		s := *o.Start
		r.Start = &s
	}
	if o.End != nil && (r.End == nil || o.End.After(*r.End)) {
		e := *o.End
		r.End = &e
	}
	return r
}

type Validator struct {
	Parser Parser
}

func NewValidator() *Validator {
	return &Validator{Parser: StrictParser{}}
}

// Validate checks start_date/end_date of row.
// ok is false when the end precedes the start; the row must then not contribute dates.
// Bounds with a year <= MinYear are left out of the returned Range. Parse errors are returned.
func (v *Validator) Validate(row domain.Row) (rng Range, ok bool, err error) {
	start, err := v.Parser.Parse(row.String(domain.KeyStartDate))
	if err != nil {
		return Range{}, false, err
	}
	end, err := v.Parser.Parse(row.String(domain.KeyEndDate))
	if err != nil {
		return Range{}, false, err
	}

	who := describe(row)
	if end.Before(start) {
		slog.Warn("end date < start date", "row", who)
		return Range{}, false, nil
	}
	if start.Year() > MinYear {
		rng.Start = &start
	} else {
		slog.Warn("start date year < 1900", "row", who)
	}
	if end.Year() > MinYear {
		rng.End = &end
	} else {
		slog.Warn("end date year < 1900", "row", who)
	}
	return rng, true, nil
}

func describe(row domain.Row) string {
	society := row.String(domain.KeySocietyName)
	if aid := fmt.Sprint(row["aid"]); row["aid"] != nil && aid != "" {
		return fmt.Sprintf("%s aid = %s", society, aid)
	}
	return fmt.Sprintf("%s country = %v", society, row[domain.KeyCountryName])
}
