package dateutil

import "time"

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// Now reads the shared clock.
func Now() time.Time { return nowFunc() }

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }
