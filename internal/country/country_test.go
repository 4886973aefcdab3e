package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameForISO3(t *testing.T) {
	l := NewLookup(map[string]string{"xkx": "Kosovo", "COD": "Democratic Republic of the Congo"})

	testCases := []struct {
		code     string
		expected string
		ok       bool
	}{
		{"KEN", "Kenya", true},
		{"som", "Somalia", true},
		{" FRA ", "France", true},
		{"XKX", "Kosovo", true},
		{"COD", "Democratic Republic of the Congo", true},
		{"ABC", "", false},
		{"KE", "", false},
		{"", "", false},
	}

	for _, tc := range testCases {
		name, ok := l.NameForISO3(tc.code)
		assert.Equal(t, tc.ok, ok, "NameForISO3(%q)", tc.code)
		assert.Equal(t, tc.expected, name, "NameForISO3(%q)", tc.code)
	}
}
