package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	segmentPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	unitMap        = map[string]time.Duration{
		"m":       time.Minute,
		"min":     time.Minute,
		"mins":    time.Minute,
		"minute":  time.Minute,
		"minutes": time.Minute,
		"h":       time.Hour,
		"hr":      time.Hour,
		"hrs":     time.Hour,
		"hour":    time.Hour,
		"hours":   time.Hour,
	}
)

// ParseDuration parses worklog durations such as "2H30M", "45m" or
// "1h 15min". Units are case-insensitive. Durations are free text in the
// store, so callers use this for totals only and never to reject input.
func ParseDuration(input string) (time.Duration, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		return 0, fmt.Errorf("empty duration")
	}

	total := time.Duration(0)
	for len(strings.TrimSpace(remaining)) > 0 {
		matches := segmentPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return 0, fmt.Errorf("invalid duration segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration value %q: %w", matches[1], err)
		}
		base, ok := unitMap[matches[2]]
		if !ok {
			return 0, fmt.Errorf("unsupported duration unit %q", matches[2])
		}
		total += time.Duration(value) * base
		remaining = remaining[len(matches[0]):]
	}
	return total, nil
}

// FormatDuration renders d in the worklog style, e.g. "12H30M".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0M"
	}
	d = d.Round(time.Minute)
	hours := d / time.Hour
	minutes := (d - hours*time.Hour) / time.Minute
	switch {
	case hours == 0:
		return fmt.Sprintf("%dM", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dH", hours)
	default:
		return fmt.Sprintf("%dH%dM", hours, minutes)
	}
}

// Sum adds every parseable duration and counts the ones that were skipped.
func Sum(durations []string) (time.Duration, int) {
	var (
		total   time.Duration
		skipped int
	)
	for _, raw := range durations {
		d, err := ParseDuration(raw)
		if err != nil {
			skipped++
			continue
		}
		total += d
	}
	return total, skipped
}
