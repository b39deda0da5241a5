package canned

import (
	"time"

	"github.com/shipq/typegen/generator"
	"github.com/shipq/typegen/rng"
)

var epoch = time.Date(2013, time.January, 1, 0, 0, 0, 0, time.UTC)

const twentyYears = 365 * 20

// Dates yields UTC midnights within twenty years of 2013-01-01.
func Dates(src *rng.Source) generator.Generator {
	return rng.Draws(src, func(r *rng.Rand) any {
		return epoch.AddDate(0, 0, r.IntRange(0, twentyYears))
	})
}

// Times yields UTC instants with millisecond precision within twenty years
// of 2013-01-01 01:00.
func Times(src *rng.Source) generator.Generator {
	start := epoch.Add(time.Hour)
	return rng.Draws(src, func(r *rng.Rand) any {
		return start.AddDate(0, 0, r.IntRange(0, twentyYears)).
			Add(time.Duration(r.IntRange(0, 24*60*60)) * time.Second).
			Add(time.Duration(r.IntRange(0, 1000)) * time.Millisecond)
	})
}

// Durations yields non-negative durations under a day, in whole seconds.
func Durations(src *rng.Source) generator.Generator {
	return rng.Draws(src, func(r *rng.Rand) any {
		return time.Duration(r.IntRange(0, 59))*time.Second +
			time.Duration(r.IntRange(0, 23))*time.Hour
	})
}
