package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLuhnValid(t *testing.T) {
	cases := []struct {
		name   string
		number string
		want   bool
	}{
		{"visa test number", "4532015112830366", true},
		{"with dashes", "4532-0151-1283-0366", true},
		{"with spaces", "4532 0151 1283 0366", true},
		{"checksum off by one", "4532015112830367", false},
		{"amex test number", "378282246310005", true},
		{"letters", "4532a15112830366", false},
		{"empty", "", false},
		{"separators only", "- -", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LuhnValid(tc.number))
		})
	}
}
