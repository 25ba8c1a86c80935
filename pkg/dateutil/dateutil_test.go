package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestAgeCalculation tests the age calculation function with various scenarios
func TestAgeCalculation(t *testing.T) {
	tests := []struct {
		name        string
		birthDate   time.Time
		atDate      time.Time
		expectedAge int
	}{
		{
			name:        "Same month and day",
			birthDate:   time.Date(1965, 2, 25, 0, 0, 0, 0, time.UTC),
			atDate:      time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC),
			expectedAge: 60,
		},
		{
			name:        "Day before birthday",
			birthDate:   time.Date(1965, 2, 25, 0, 0, 0, 0, time.UTC),
			atDate:      time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC),
			expectedAge: 59,
		},
		{
			name:        "Leap day birthday in non-leap year",
			birthDate:   time.Date(1964, 2, 29, 0, 0, 0, 0, time.UTC),
			atDate:      time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
			expectedAge: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedAge, Age(tt.birthDate, tt.atDate))
		})
	}
}

func TestFinancialYear(t *testing.T) {
	tests := []struct {
		name      string
		date      time.Time
		wantStart int
		wantLabel string
	}{
		{"April opens the year", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 2025, "FY 2025-26"},
		{"March closes the previous year", time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), 2025, "FY 2025-26"},
		{"January belongs to previous start", time.Date(2000, 1, 15, 0, 0, 0, 0, time.UTC), 1999, "FY 1999-00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStart, FinancialYearStart(tt.date))
			assert.Equal(t, tt.wantLabel, FinancialYearLabel(tt.date))
		})
	}

	end := FinancialYearEnd(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestAgeAtFinancialYearEnd(t *testing.T) {
	// Turns 60 in February 2026, so is a senior for FY 2025-26.
	birth := time.Date(1966, 2, 10, 0, 0, 0, 0, time.UTC)
	assessed := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 59, Age(birth, assessed))
	assert.Equal(t, 60, AgeAtFinancialYearEnd(birth, assessed))
}

func TestMaturityAfterFinancialYears(t *testing.T) {
	opened := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2040, 4, 1, 0, 0, 0, 0, time.UTC), MaturityAfterFinancialYears(opened, 15))
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), MaturityAfterFinancialYears(opened, 1))
	assert.Equal(t, time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC), AddYears(opened, 5))
}
