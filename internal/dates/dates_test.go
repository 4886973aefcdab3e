package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ifrc-sync/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func row(start, end string) domain.Row {
	return domain.Row{domain.KeyStartDate: start, domain.KeyEndDate: end, domain.KeySocietyName: "Kenya RC"}
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	testCases := []struct {
		name      string
		start     string
		end       string
		wantOK    bool
		wantStart *time.Time
		wantEnd   *time.Time
	}{
		{
			name:      "both valid",
			start:     "2020-01-01",
			end:       "2020-06-30",
			wantOK:    true,
			wantStart: ptr(day(2020, 1, 1)),
			wantEnd:   ptr(day(2020, 6, 30)),
		},
		{
			name:    "unset start year",
			start:   "1899-12-31",
			end:     "2020-01-01",
			wantOK:  true,
			wantEnd: ptr(day(2020, 1, 1)),
		},
		{
			name:    "year 1900 counts as unset",
			start:   "1900-06-01",
			end:     "2020-01-01",
			wantOK:  true,
			wantEnd: ptr(day(2020, 1, 1)),
		},
		{
			name:   "both unset",
			start:  "1800-01-01",
			end:    "1900-01-01",
			wantOK: true,
		},
		{
			name:   "end before start",
			start:  "2020-01-01",
			end:    "2019-01-01",
			wantOK: false,
		},
		{
			name:      "timestamps are truncated to the day",
			start:     "2021-03-04T10:11:12Z",
			end:       "2021-03-04T00:00:00Z",
			wantOK:    true,
			wantStart: ptr(day(2021, 3, 4)),
			wantEnd:   ptr(day(2021, 3, 4)),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rng, ok, err := v.Validate(row(tc.start, tc.end))
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantStart, rng.Start)
			assert.Equal(t, tc.wantEnd, rng.End)
			if !ok {
				assert.True(t, rng.Empty())
			}
		})
	}
}

func TestValidateParseErrorPropagates(t *testing.T) {
	v := NewValidator()

	_, _, err := v.Validate(row("not a date", "2020-01-01"))
	require.Error(t, err)

	_, _, err = v.Validate(row("2020-01-01", ""))
	require.Error(t, err)
}

func TestRangeMerge(t *testing.T) {
	var r Range
	require.True(t, r.Empty())

	r = r.Merge(Range{End: ptr(day(2020, 1, 1))})
	r = r.Merge(Range{Start: ptr(day(2019, 5, 1)), End: ptr(day(2019, 6, 1))})
	r = r.Merge(Range{Start: ptr(day(2018, 1, 1))})

	assert.Equal(t, day(2018, 1, 1), *r.Start)
	assert.Equal(t, day(2020, 1, 1), *r.End)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "RC aid = MDR1", describe(domain.Row{domain.KeySocietyName: "RC", "aid": "MDR1"}))
	assert.Equal(t, "RC country = Kenya", describe(domain.Row{domain.KeySocietyName: "RC", domain.KeyCountryName: "Kenya"}))
}

func ptr(t time.Time) *time.Time { return &t }
