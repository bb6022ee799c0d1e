package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBudget(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"120 000", 120000, false},
		{"120000", 120000, false},
		{" 1 500 000 ", 1500000, false},
		{"0", 0, false},
		{"", 0, true},
		{"   ", 0, true},
		{"12k", 0, true},
		{"-500", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseBudget(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestIsAllowedImageType(t *testing.T) {
	assert.True(t, IsAllowedImageType("image/jpeg"))
	assert.True(t, IsAllowedImageType("image/png"))
	assert.False(t, IsAllowedImageType("image/gif"))
	assert.False(t, IsAllowedImageType("image/webp"))
	assert.False(t, IsAllowedImageType("application/pdf"))
	assert.False(t, IsAllowedImageType(""))
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2025-07-01")
	require.NoError(t, err)
	assert.Equal(t, 2025, date.Year())

	_, err = ParseDate("01.07.2025")
	assert.Error(t, err)
}

func TestCoordinateRanges(t *testing.T) {
	assert.True(t, IsValidLatitude(51.76))
	assert.False(t, IsValidLatitude(-90.5))
	assert.True(t, IsValidLongitude(-180))
	assert.False(t, IsValidLongitude(180.1))
}
