package hours

import (
	"fmt"
	"regexp"
	"sort"
)

// Weekday numbers days the way the backend does: 1 is Monday, 7 is Sunday.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const (
	defaultOpen  = "00:00"
	defaultClose = "23:59"
)

var timeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// DaySelection mirrors one row of the operating-hours form: whether the day
// is open and its HH:MM open/close times. Empty times fall back to the whole
// day when the row is selected.
type DaySelection struct {
	Selected bool
	Open     string
	Close    string
}

// Schedule is the form state for a week. Weekdays is the bulk
// Monday-to-Friday shortcut row; it is a separate field rather than a magic
// eighth day so it can never leak onto the wire.
type Schedule struct {
	Days     map[Weekday]DaySelection
	Weekdays DaySelection
}

// Record is the wire form of one open day.
type Record struct {
	DayOfWeek   int    `json:"day_of_week"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
}

// NewSchedule returns an empty schedule with every day present and unselected.
func NewSchedule() Schedule {
	days := make(map[Weekday]DaySelection, 7)
	for d := Monday; d <= Sunday; d++ {
		days[d] = DaySelection{}
	}
	return Schedule{Days: days}
}

// Encode flattens the schedule into the sparse ordered record list the
// backend expects. The bulk row provisionally fills Monday through Friday;
// an individually selected day always overrides it. Days that end up
// unselected produce no record, and the output is ordered by day number.
func (s Schedule) Encode() []Record {
	type resolved struct {
		selected    bool
		open, close string
	}

	week := make(map[Weekday]resolved, 7)

	if s.Weekdays.Selected {
		open, close := normalizeTimes(s.Weekdays)
		for d := Monday; d <= Friday; d++ {
			week[d] = resolved{selected: true, open: open, close: close}
		}
	}

	for d := Monday; d <= Sunday; d++ {
		sel, ok := s.Days[d]
		if !ok || !sel.Selected {
			continue
		}
		open, close := normalizeTimes(sel)
		week[d] = resolved{selected: true, open: open, close: close}
	}

	days := make([]Weekday, 0, len(week))
	for d, r := range week {
		if r.selected {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	records := make([]Record, 0, len(days))
	for _, d := range days {
		r := week[d]
		records = append(records, Record{
			DayOfWeek:   int(d),
			OpeningTime: r.open + ":00",
			ClosingTime: r.close + ":00",
		})
	}

	return records
}

// Validate rejects malformed HH:MM values on any selected row.
func (s Schedule) Validate() error {
	if s.Weekdays.Selected {
		if err := validateTimes(s.Weekdays); err != nil {
			return fmt.Errorf("weekdays: %w", err)
		}
	}
	for d := Monday; d <= Sunday; d++ {
		sel, ok := s.Days[d]
		if !ok || !sel.Selected {
			continue
		}
		if err := validateTimes(sel); err != nil {
			return fmt.Errorf("day %d: %w", d, err)
		}
	}
	return nil
}

func validateTimes(sel DaySelection) error {
	if sel.Open != "" && !timeRe.MatchString(sel.Open) {
		return fmt.Errorf("invalid opening time %q", sel.Open)
	}
	if sel.Close != "" && !timeRe.MatchString(sel.Close) {
		return fmt.Errorf("invalid closing time %q", sel.Close)
	}
	return nil
}

func normalizeTimes(sel DaySelection) (string, string) {
	open := sel.Open
	if open == "" {
		open = defaultOpen
	}
	close := sel.Close
	if close == "" {
		close = defaultClose
	}
	return open, close
}

// String names the day in the form's language-neutral short form.
func (d Weekday) String() string {
	switch d {
	case Monday:
		return "Mon"
	case Tuesday:
		return "Tue"
	case Wednesday:
		return "Wed"
	case Thursday:
		return "Thu"
	case Friday:
		return "Fri"
	case Saturday:
		return "Sat"
	case Sunday:
		return "Sun"
	}
	return fmt.Sprintf("Weekday(%d)", int(d))
}
