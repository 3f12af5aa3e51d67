// Package timefmt renders durations for display.
package timefmt

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// phraseMagnitudes buckets a total duration into a coarse phrase.
// Each entry applies to durations strictly below D.
var phraseMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "less than a minute", DivBy: 1},
	{D: time.Hour, Format: "less than an hour", DivBy: 1},
	{D: 2 * time.Hour, Format: "about an hour", DivBy: 1},
	{D: humanize.Day, Format: "about %d hours", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "about a day", DivBy: 1},
	{D: humanize.Week, Format: "about %d days", DivBy: humanize.Day},
	{D: 2 * humanize.Week, Format: "about a week", DivBy: 1},
	{D: humanize.Month, Format: "about %d weeks", DivBy: humanize.Week},
	{D: 2 * humanize.Month, Format: "about a month", DivBy: 1},
	{D: humanize.Year, Format: "about %d months", DivBy: humanize.Month},
	{D: 2 * humanize.Year, Format: "about a year", DivBy: 1},
	{D: math.MaxInt64, Format: "about %d years", DivBy: humanize.Year},
}

// maxSeconds keeps second counts within time.Duration range.
const maxSeconds = int64(math.MaxInt64 / int64(time.Second))

// Clock renders seconds as H:MM:SS, or M:SS when there is no hour part.
// The minute is left unpadded in the short form (303 -> "5:03").
func Clock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// ClockFloat floors a fractional second count and renders it with Clock.
func ClockFloat(seconds float64) string {
	return Clock(int64(math.Floor(seconds)))
}

// AtSpeed returns the whole seconds needed to play total at the given
// playback speed. Non-positive speeds leave total unchanged.
func AtSpeed(total int64, speed float64) int64 {
	if speed <= 0 {
		return total
	}
	return int64(math.Floor(float64(total) / speed))
}

// BingeDays returns how many days it takes to get through total when
// watching hoursPerDay hours a day. A partial day counts as a full one.
func BingeDays(total int64, hoursPerDay float64) int64 {
	if total <= 0 || hoursPerDay <= 0 {
		return 0
	}
	return int64(math.Ceil(float64(total) / (hoursPerDay * 3600)))
}

// Phrase describes total in coarse human terms, e.g. "about 3 weeks".
func Phrase(total int64) string {
	if total < 0 {
		total = 0
	}
	if total > maxSeconds {
		total = maxSeconds
	}
	start := time.Unix(0, 0)
	return humanize.CustomRelTime(start, start.Add(time.Duration(total)*time.Second), "", "", phraseMagnitudes)
}

// SpeedLabel renders a playback speed such as 1.5 as "1.5x".
func SpeedLabel(speed float64) string {
	return humanize.Ftoa(speed) + "x"
}
