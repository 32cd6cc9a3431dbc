package appointment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Named day periods mapped to their canonical clock time.
var periodTimes = map[string]string{
	"morning":   "9 AM",
	"noon":      "12 PM",
	"afternoon": "2 PM",
	"evening":   "6 PM",
	"night":     "8 PM",
}

var (
	clockPattern       = regexp.MustCompile(`(?i)\b\d{1,2}(:\d{2})?\s*(am|pm|a\.m\.|p\.m\.)\b`)
	periodPattern      = regexp.MustCompile(`(?i)\b(morning|afternoon|evening|noon|night)\b`)
	timeCleanupPattern = regexp.MustCompile(`[^0-9:apm]`)
	hourMinutePattern  = regexp.MustCompile(`(\d+)(?::(\d+))?`)
	dateCleanupPattern = regexp.MustCompile(`[^0-9\-/.]`)
)

var dateLayouts = []string{
	"2006-01-02", "2006/01/02",
	"02-01-2006", "02/01/2006",
	"01-02-2006", "01/02/2006",
	"2006.01.02", "02.01.2006", "01.02.2006",
}

// IsTimeExpression reports whether the utterance looks like a clock time or
// a named day period. Used for the out-of-order time capture heuristic; it
// can misfire on numeric text that is not a time, which is an accepted
// limitation of the heuristic.
func IsTimeExpression(s string) bool {
	return clockPattern.MatchString(s) || periodPattern.MatchString(s)
}

// NormalizeDate canonicalizes assorted human date inputs to YYYY-MM-DD.
// Empty or unparseable input defaults to today.
func NormalizeDate(raw string, now time.Time) string {
	cleaned := dateCleanupPattern.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return now.Format("2006-01-02")
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, cleaned); err == nil {
			return d.Format("2006-01-02")
		}
	}
	return now.Format("2006-01-02")
}

// NormalizeTime canonicalizes assorted human time inputs to "H AM/PM" or
// "H:MM AM/PM". Named periods resolve via periodTimes; 24-hour input is
// converted; empty or unparseable input defaults to "2 PM".
func NormalizeTime(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	if t == "" {
		return "2 PM"
	}

	if canonical, ok := periodTimes[t]; ok {
		return canonical
	}
	if m := periodPattern.FindString(t); m != "" {
		return periodTimes[strings.ToLower(m)]
	}

	cleaned := timeCleanupPattern.ReplaceAllString(t, "")
	match := hourMinutePattern.FindStringSubmatch(cleaned)
	if match == nil {
		return "2 PM"
	}

	hour, _ := strconv.Atoi(match[1])
	minute := 0
	if match[2] != "" {
		minute, _ = strconv.Atoi(match[2])
	}
	if hour > 23 || minute > 59 {
		return "2 PM"
	}

	meridiem := "AM"
	if strings.Contains(cleaned, "p") || hour >= 12 {
		meridiem = "PM"
		if hour > 12 {
			hour -= 12
		}
	}
	if hour == 0 {
		hour = 12
		meridiem = "AM"
	}

	if minute == 0 {
		return fmt.Sprintf("%d %s", hour, meridiem)
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, meridiem)
}
