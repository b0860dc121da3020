package httpserver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUserID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in    string
		valid bool
		code  string
	}{
		{"alice", true, ""},
		{"user_42@example.com", true, ""},
		{"", false, "REQUIRED"},
		{strings.Repeat("a", 101), false, "TOO_LONG"},
		{"a b", false, "INVALID_FORMAT"},
		{"a/b", false, "INVALID_FORMAT"},
	}
	for _, tc := range tests {
		res := ValidateUserID(tc.in)
		assert.Equal(t, tc.valid, res.Valid, tc.in)
		if !tc.valid {
			assert.Equal(t, tc.code, res.Errors[0].Code, tc.in)
		}
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()
	assert.True(t, ValidatePagination("", "").Valid)
	assert.True(t, ValidatePagination("3", "100").Valid)
	res := ValidatePagination("0", "500")
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 2)

	lim, off, page := parsePagination("", "")
	assert.Equal(t, []int{DefaultPageLimit, 0, 1}, []int{lim, off, page})
	lim, off, page = parsePagination("3", "25")
	assert.Equal(t, []int{25, 50, 3}, []int{lim, off, page})
}

func TestValidateRecommendationType(t *testing.T) {
	t.Parallel()
	assert.True(t, ValidateRecommendationType("").Valid)
	assert.True(t, ValidateRecommendationType("career_path").Valid)
	assert.False(t, ValidateRecommendationType("hobby").Valid)
}
