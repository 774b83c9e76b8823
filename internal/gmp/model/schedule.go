package model

import (
	"strconv"
	"strings"
	"time"

	"gsa/internal/gmp/parser"
)

// Recurrence is the subset of an iCalendar RRULE the scheduler uses.
type Recurrence struct {
	Freq     string    `json:"freq"`
	Interval int       `json:"interval"`
	Count    int       `json:"count,omitempty"`
	Until    time.Time `json:"until,omitempty"`
	ByDay    []string  `json:"by_day,omitempty"`
}

// ScheduleEvent is the first VEVENT of a schedule's iCalendar data.
type ScheduleEvent struct {
	Start      time.Time   `json:"start"`
	Duration   string      `json:"duration,omitempty"`
	Recurrence *Recurrence `json:"recurrence,omitempty"`
}

// Schedule runs tasks at given times.
type Schedule struct {
	Model
	ICalendar string         `json:"icalendar,omitempty"`
	Timezone  string         `json:"timezone,omitempty"`
	Event     *ScheduleEvent `json:"event,omitempty"`
	Tasks     []Reference    `json:"tasks,omitempty"`
}

// NewScheduleFromElement parses a <schedule> element.
func NewScheduleFromElement(el *parser.Element) Schedule {
	s := Schedule{
		Model:     ParseModel(el, "schedule"),
		ICalendar: el.ChildText("icalendar"),
		Timezone:  el.ChildText("timezone"),
		Tasks:     ParseReferences(el.Child("tasks"), "task"),
	}
	if s.ICalendar != "" {
		s.Event = ParseICalendarEvent(s.ICalendar, s.Timezone)
	}
	return s
}

// NextDate returns the first occurrence after now, or the zero time if the
// schedule has no further runs.
func (s Schedule) NextDate(now time.Time) time.Time {
	if s.Event == nil || s.Event.Start.IsZero() {
		return time.Time{}
	}
	start := s.Event.Start
	if start.After(now) {
		return start
	}
	rec := s.Event.Recurrence
	if rec == nil {
		return time.Time{}
	}

	interval := rec.Interval
	if interval < 1 {
		interval = 1
	}
	next := start
	for n := 1; ; n++ {
		switch rec.Freq {
		case "HOURLY":
			next = start.Add(time.Duration(n*interval) * time.Hour)
		case "DAILY":
			next = start.AddDate(0, 0, n*interval)
		case "WEEKLY":
			next = start.AddDate(0, 0, 7*n*interval)
		case "MONTHLY":
			next = start.AddDate(0, n*interval, 0)
		case "YEARLY":
			next = start.AddDate(n*interval, 0, 0)
		default:
			return time.Time{}
		}
		// COUNT includes the first occurrence
		if rec.Count > 0 && n+1 > rec.Count {
			return time.Time{}
		}
		if !rec.Until.IsZero() && next.After(rec.Until) {
			return time.Time{}
		}
		if next.After(now) {
			return next
		}
	}
}

// ParseICalendarEvent extracts DTSTART, DURATION and RRULE of the first VEVENT.
func ParseICalendarEvent(ical, timezone string) *ScheduleEvent {
	loc := time.UTC
	if timezone != "" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		}
	}

	var (
		ev      ScheduleEvent
		inEvent bool
		found   bool
	)
	for _, line := range unfoldICalendar(ical) {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		prop, params, _ := strings.Cut(name, ";")
		switch strings.ToUpper(prop) {
		case "BEGIN":
			if strings.EqualFold(value, "VEVENT") {
				inEvent = true
			}
		case "END":
			if strings.EqualFold(value, "VEVENT") && inEvent {
				return &ev
			}
		case "DTSTART":
			if inEvent {
				ev.Start = parseICalTime(value, params, loc)
				found = true
			}
		case "DURATION":
			if inEvent {
				ev.Duration = value
			}
		case "RRULE":
			if inEvent {
				ev.Recurrence = parseRRule(value, loc)
			}
		}
	}
	if !found {
		return nil
	}
	return &ev
}

// unfoldICalendar joins continuation lines (RFC 5545 section 3.1).
func unfoldICalendar(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if (strings.HasPrefix(l, " ") || strings.HasPrefix(l, "\t")) && len(lines) > 0 {
			lines[len(lines)-1] += l[1:]
			continue
		}
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func parseICalTime(value, params string, loc *time.Location) time.Time {
	for _, p := range strings.Split(params, ";") {
		if k, v, ok := strings.Cut(p, "="); ok && strings.EqualFold(k, "TZID") {
			if l, err := time.LoadLocation(v); err == nil {
				loc = l
			}
		}
	}
	if strings.HasSuffix(value, "Z") {
		if t, err := time.Parse("20060102T150405Z", value); err == nil {
			return t
		}
	}
	for _, layout := range []string{"20060102T150405", "20060102"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseRRule(value string, loc *time.Location) *Recurrence {
	r := &Recurrence{Interval: 1}
	for _, part := range strings.Split(value, ";") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToUpper(k) {
		case "FREQ":
			r.Freq = strings.ToUpper(v)
		case "INTERVAL":
			if i, err := strconv.Atoi(v); err == nil && i > 0 {
				r.Interval = i
			}
		case "COUNT":
			if i, err := strconv.Atoi(v); err == nil {
				r.Count = i
			}
		case "UNTIL":
			r.Until = parseICalTime(v, "", loc)
		case "BYDAY":
			r.ByDay = strings.Split(v, ",")
		}
	}
	if r.Freq == "" {
		return nil
	}
	return r
}
