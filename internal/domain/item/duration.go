package item

import (
	"regexp"
	"strconv"
)

// durationPattern matches the catalog's ISO-8601 duration encoding,
// e.g. PT1H2M3S or P1DT4M for entries longer than a day.
var durationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseDuration converts an encoded duration to whole seconds.
// Absent components count as zero. Empty or malformed input yields 0.
func ParseDuration(s string) int64 {
	matches := durationPattern.FindStringSubmatch(s)
	if matches == nil {
		return 0
	}

	days := parseComponent(matches[1])
	hours := parseComponent(matches[2])
	minutes := parseComponent(matches[3])
	seconds := parseComponent(matches[4])

	return days*24*60*60 + hours*60*60 + minutes*60 + seconds
}

// parseComponent returns the int64 value of a matched component.
func parseComponent(value string) int64 {
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}
