// Package recurrence parses recurrence rules and computes the next
// occurrence of a completed recurring task.
//
// The grammar is a closed subset of RRULE: a frequency (DAILY, WEEKLY,
// MONTHLY, YEARLY), an optional positive INTERVAL, and for weekly rules an
// optional BYDAY weekday set. Anything else — BYMONTHDAY, UNTIL, COUNT and
// the rest of the RRULE zoo — is rejected at parse time rather than given
// guessed semantics. Rules are validated when a task is created, turning
// would-be expansion failures into creation-time errors.
package recurrence

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/trove/pkg/types"
)

// Frequency is the base unit a rule repeats on.
type Frequency string

// Recognized frequencies.
const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
)

// Rule is a parsed recurrence rule.
type Rule struct {
	Freq     Frequency
	Interval int            // repeat every Interval units; always >= 1
	ByDay    []time.Weekday // weekly only; sorted Monday-first, no duplicates
}

// weekday codes in RRULE order of appearance.
var weekdayCodes = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

// mondayIndex maps a weekday onto 0..6 with Monday first, the week shape
// used for BYDAY wrapping.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Parse parses a rule string such as "RRULE:FREQ=WEEKLY;INTERVAL=2;
// BYDAY=MO,WE,FR". The leading "RRULE:" prefix is optional. Unknown keys,
// repeated keys, malformed values, and BYDAY on a non-weekly rule all
// return types.ErrInvalidRecurrenceRule.
func Parse(rule string) (Rule, error) {
	s := strings.TrimSpace(rule)
	s = strings.TrimPrefix(s, "RRULE:")
	if s == "" {
		return Rule{}, fmt.Errorf("empty rule: %w", types.ErrInvalidRecurrenceRule)
	}

	r := Rule{Interval: 1}
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok || value == "" {
			return Rule{}, fmt.Errorf("malformed part %q: %w", part, types.ErrInvalidRecurrenceRule)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		if seen[key] {
			return Rule{}, fmt.Errorf("repeated key %s: %w", key, types.ErrInvalidRecurrenceRule)
		}
		seen[key] = true

		switch key {
		case "FREQ":
			switch Frequency(strings.ToUpper(value)) {
			case Daily, Weekly, Monthly, Yearly:
				r.Freq = Frequency(strings.ToUpper(value))
			default:
				return Rule{}, fmt.Errorf("frequency %q: %w", value, types.ErrInvalidRecurrenceRule)
			}
		case "INTERVAL":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return Rule{}, fmt.Errorf("interval %q: %w", value, types.ErrInvalidRecurrenceRule)
			}
			r.Interval = n
		case "BYDAY":
			days, err := parseByDay(value)
			if err != nil {
				return Rule{}, err
			}
			r.ByDay = days
		default:
			return Rule{}, fmt.Errorf("unsupported key %s: %w", key, types.ErrInvalidRecurrenceRule)
		}
	}

	if r.Freq == "" {
		return Rule{}, fmt.Errorf("missing FREQ: %w", types.ErrInvalidRecurrenceRule)
	}
	if len(r.ByDay) > 0 && r.Freq != Weekly {
		return Rule{}, fmt.Errorf("BYDAY with FREQ=%s: %w", r.Freq, types.ErrInvalidRecurrenceRule)
	}
	return r, nil
}

// parseByDay parses a comma-separated weekday code list into a sorted,
// deduplicated weekday set.
func parseByDay(value string) ([]time.Weekday, error) {
	parts := strings.Split(value, ",")
	set := make(map[time.Weekday]bool, len(parts))
	for _, p := range parts {
		day, ok := weekdayCodes[strings.ToUpper(strings.TrimSpace(p))]
		if !ok {
			return nil, fmt.Errorf("weekday %q: %w", p, types.ErrInvalidRecurrenceRule)
		}
		set[day] = true
	}
	days := make([]time.Weekday, 0, len(set))
	for day := range set {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return mondayIndex(days[i]) < mondayIndex(days[j])
	})
	return days, nil
}

// String renders the rule in canonical RRULE form.
func (r Rule) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "RRULE:FREQ=%s", r.Freq)
	if r.Interval > 1 {
		fmt.Fprintf(&b, ";INTERVAL=%d", r.Interval)
	}
	if len(r.ByDay) > 0 {
		codes := make([]string, 0, len(r.ByDay))
		for _, d := range r.ByDay {
			for code, day := range weekdayCodes {
				if day == d {
					codes = append(codes, code)
					break
				}
			}
		}
		fmt.Fprintf(&b, ";BYDAY=%s", strings.Join(codes, ","))
	}
	return b.String()
}

// NextAfter returns the first occurrence strictly after anchor.
//
// Daily, monthly, and yearly rules step the anchor by Interval units via
// time.AddDate; month-end anchors therefore normalize the way AddDate does
// (Jan 31 + 1 month lands in early March). Weekly rules without BYDAY step
// by Interval weeks. Weekly rules with BYDAY pick the next listed weekday
// strictly after the anchor within the anchor's Monday-first week; when
// none remain, the occurrence wraps to the first listed weekday of the
// week Interval weeks ahead.
func (r Rule) NextAfter(anchor time.Time) time.Time {
	switch r.Freq {
	case Daily:
		return anchor.AddDate(0, 0, r.Interval)
	case Monthly:
		return anchor.AddDate(0, r.Interval, 0)
	case Yearly:
		return anchor.AddDate(r.Interval, 0, 0)
	case Weekly:
		if len(r.ByDay) == 0 {
			return anchor.AddDate(0, 0, 7*r.Interval)
		}
		anchorIdx := mondayIndex(anchor.Weekday())
		for _, day := range r.ByDay {
			if idx := mondayIndex(day); idx > anchorIdx {
				return anchor.AddDate(0, 0, idx-anchorIdx)
			}
		}
		// Nothing left this week: jump to the first listed weekday,
		// Interval weeks from the anchor's week start.
		weekStart := anchor.AddDate(0, 0, -anchorIdx)
		return weekStart.AddDate(0, 0, 7*r.Interval+mondayIndex(r.ByDay[0]))
	}
	// Unreachable for parsed rules; Parse rejects unknown frequencies.
	return anchor
}
