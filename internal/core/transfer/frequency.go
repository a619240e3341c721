package transfer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/colonyops/weekplan/internal/core/planner"
)

var dayCountRe = regexp.MustCompile(`(\d+)\s*days?`)

// defaultCustomDays is used when text says "custom" without a day count.
const defaultCustomDays = 7

// ParseFrequency maps free-form frequency text to a Frequency. Keywords
// match case-insensitively as substrings; "N days" maps 1, 7, 14 and 30 to
// the named frequencies and anything else to custom. Unrecognised text
// defaults to weekly.
func ParseFrequency(text string) planner.Frequency {
	f, _ := parseFrequency(text)
	return f
}

// parseFrequency also returns the day count for custom frequencies.
func parseFrequency(text string) (planner.Frequency, int) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return planner.FrequencyWeekly, 0
	}

	m := dayCountRe.FindStringSubmatch(s)
	days := 0
	if m != nil {
		days, _ = strconv.Atoi(m[1])
	}

	switch {
	case strings.Contains(s, "daily"):
		return planner.FrequencyDaily, 0
	case strings.Contains(s, "biweekly"), strings.Contains(s, "bi-weekly"):
		return planner.FrequencyBiweekly, 0
	case strings.Contains(s, "weekly"):
		return planner.FrequencyWeekly, 0
	case strings.Contains(s, "monthly"):
		return planner.FrequencyMonthly, 0
	case strings.Contains(s, "custom"):
		return planner.FrequencyCustom, customDays(days)
	case m == nil:
		return planner.FrequencyWeekly, 0
	}

	switch days {
	case 1:
		return planner.FrequencyDaily, 0
	case 7:
		return planner.FrequencyWeekly, 0
	case 14:
		return planner.FrequencyBiweekly, 0
	case 30:
		return planner.FrequencyMonthly, 0
	default:
		return planner.FrequencyCustom, customDays(days)
	}
}

func customDays(days int) int {
	if days <= 0 {
		return defaultCustomDays
	}
	return days
}
