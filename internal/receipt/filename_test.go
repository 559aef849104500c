package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileName(t *testing.T) {
	when := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		codigo   string
		nombre   string
		expected string
	}{
		{
			name:     "Unsafe characters in the name become hyphens",
			codigo:   "A12",
			nombre:   "Juan Pérez/S.L.",
			expected: "Env. 05_03_24 14:07 socio A12 Juan Pérez-S.L..pdf",
		},
		{
			name:     "Clean name passes through",
			codigo:   "B07",
			nombre:   "María García",
			expected: "Env. 05_03_24 14:07 socio B07 María García.pdf",
		},
		{
			name:     "Unsafe characters in the code too",
			codigo:   "A:12",
			nombre:   "N",
			expected: "Env. 05_03_24 14:07 socio A-12 N.pdf",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FileName(when, tc.codigo, tc.nombre))
		})
	}
}

func TestFileNameKeepsTimestampColon(t *testing.T) {
	// The HH:MM separator is part of the fixed layout and must survive
	// sanitization of the variable fields.
	when := time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC)
	got := FileName(when, "Z1", "X")
	assert.Equal(t, "Env. 31_12_25 23:59 socio Z1 X.pdf", got)
}
