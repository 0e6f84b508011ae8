// Package report holds the filtered aggregation core: filter normalization,
// predicate construction, and the service that assembles the report views.
package report

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the wire format for filter dates.
const dateLayout = "2006-01-02"

// defaultWindowDays is the trailing window applied when no date bound is given.
const defaultWindowDays = 30

// Filter is the canonical, validated filter state for one request.
// A nil bound means the corresponding side of the date range is open.
// Product is matched exactly (case-sensitive); empty means not filtered.
type Filter struct {
	Start   *time.Time
	End     *time.Time
	Product string
}

// ParseFilter normalizes raw filter inputs into a Filter.
// Date inputs must be YYYY-MM-DD; anything else present is rejected with
// ErrInvalidFilter. When both bounds are absent the window defaults to the
// trailing 30 days inclusive. When exactly one bound is supplied the other
// stays open-ended; the default is never backfilled onto one side.
func ParseFilter(start, end, product string) (Filter, error) {
	return ParseFilterAt(start, end, product, time.Now().UTC())
}

// ParseFilterAt is ParseFilter with an explicit reference time for the
// default window.
func ParseFilterAt(start, end, product string, now time.Time) (Filter, error) {
	startDate, err := parseDate("start", start)
	if err != nil {
		return Filter{}, err
	}

	endDate, err := parseDate("end", end)
	if err != nil {
		return Filter{}, err
	}

	if startDate == nil && endDate == nil {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		windowStart := today.AddDate(0, 0, -defaultWindowDays)
		startDate = &windowStart
		endDate = &today
	}

	return Filter{
		Start:   startDate,
		End:     endDate,
		Product: strings.TrimSpace(product),
	}, nil
}

// parseDate parses a trimmed YYYY-MM-DD value. Empty input yields nil.
func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	d, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not a valid date", ErrInvalidFilter, field, value)
	}
	return &d, nil
}

// StartString returns the start bound as YYYY-MM-DD, or "" when open.
func (f Filter) StartString() string {
	if f.Start == nil {
		return ""
	}
	return f.Start.Format(dateLayout)
}

// EndString returns the end bound as YYYY-MM-DD, or "" when open.
func (f Filter) EndString() string {
	if f.End == nil {
		return ""
	}
	return f.End.Format(dateLayout)
}
