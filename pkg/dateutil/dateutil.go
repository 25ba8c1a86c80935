package dateutil

import (
	"fmt"
	"time"
)

// financialYearStartMonth is the first month of the Indian financial year.
const financialYearStartMonth = time.April

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// FinancialYearStart returns the calendar year in which the financial year
// containing date began (1 April 2025 .. 31 March 2026 -> 2025).
func FinancialYearStart(date time.Time) int {
	if date.Month() < financialYearStartMonth {
		return date.Year() - 1
	}
	return date.Year()
}

// FinancialYearEnd returns the last day of the financial year containing date.
func FinancialYearEnd(date time.Time) time.Time {
	return time.Date(FinancialYearStart(date)+1, time.March, 31, 0, 0, 0, 0, date.Location())
}

// FinancialYearLabel renders the financial year containing date, e.g. "FY 2025-26".
func FinancialYearLabel(date time.Time) string {
	start := FinancialYearStart(date)
	return fmt.Sprintf("FY %d-%02d", start, (start+1)%100)
}

// AgeAtFinancialYearEnd returns the age reached by the close of the financial
// year containing atDate. Senior-citizen slabs apply on this age.
func AgeAtFinancialYearEnd(birthDate, atDate time.Time) int {
	return Age(birthDate, FinancialYearEnd(atDate))
}

// AddYears adds a specified number of years to a date
func AddYears(date time.Time, years int) time.Time {
	return date.AddDate(years, 0, 0)
}

// MaturityAfterFinancialYears returns the first day after n whole financial
// years counted from the financial year containing start.
func MaturityAfterFinancialYears(start time.Time, years int) time.Time {
	return time.Date(FinancialYearStart(start)+years, financialYearStartMonth, 1, 0, 0, 0, 0, start.Location())
}
