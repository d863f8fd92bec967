package calendar

import "time"

// startOfDay returns local midnight of t's day.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Sunday starting t's week.
func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// Range returns the visible range [from, to) of view anchored at date.
// Month covers the whole weeks that contain the month, as a month grid does.
// PRE: date carries the viewer's location
// POST: from < to
func Range(view View, date time.Time) (time.Time, time.Time) {
	switch view {
	case ViewWeek:
		from := startOfWeek(date)
		return from, from.AddDate(0, 0, 7)
	case ViewDay:
		from := startOfDay(date)
		return from, from.AddDate(0, 0, 1)
	case ViewAgenda:
		from := startOfDay(date)
		return from, from.AddDate(0, 0, AgendaLength)
	}
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	from := startOfWeek(first)
	last := first.AddDate(0, 1, -1)
	to := startOfWeek(last).AddDate(0, 0, 7)
	return from, to
}

// Step moves the anchor date one view unit; dir is -1 for Back and +1 for Next.
func Step(view View, date time.Time, dir int) time.Time {
	d := startOfDay(date)
	switch view {
	case ViewWeek:
		return d.AddDate(0, 0, 7*dir)
	case ViewDay:
		return d.AddDate(0, 0, dir)
	case ViewAgenda:
		return d.AddDate(0, 0, AgendaLength*dir)
	}
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
	return first.AddDate(0, dir, 0)
}

// Title returns the toolbar label for the visible range.
func Title(view View, date time.Time) string {
	from, to := Range(view, date)
	switch view {
	case ViewWeek:
		last := to.AddDate(0, 0, -1)
		if from.Month() == last.Month() {
			return from.Format("January 02") + " - " + last.Format("02")
		}
		return from.Format("January 02") + " - " + last.Format("January 02")
	case ViewDay:
		return date.Format("Monday Jan 02")
	case ViewAgenda:
		return from.Format("01/02/2006") + " - " + to.AddDate(0, 0, -1).Format("01/02/2006")
	}
	return date.Format("January 2006")
}

// Day is one cell of a month grid or one column of a week/day view.
type Day struct {
	Date    time.Time
	InMonth bool
	IsToday bool
	Events  []Event
}

// Grid groups events by day over the visible range of view.
// Agenda views use Agenda instead; Grid returns one Day per visible date for the others.
// PRE: events are already filtered for the joined-only toggle
// POST: every event overlapping a day appears in that day, sorted by start
func Grid(view View, date, now time.Time, events []Event) [][]Day {
	from, to := Range(view, date)
	today := startOfDay(now.In(date.Location()))
	var weeks [][]Day
	var week []Day
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		week = append(week, Day{
			Date:    d,
			InMonth: view != ViewMonth || d.Month() == date.Month(),
			IsToday: d.Equal(today),
			Events:  InRange(events, d, d.AddDate(0, 0, 1)),
		})
		if len(week) == 7 || view == ViewDay {
			weeks = append(weeks, week)
			week = nil
		}
	}
	if len(week) > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// Agenda lists the events of the agenda range in start order.
func Agenda(date time.Time, events []Event) []Event {
	from, to := Range(ViewAgenda, date)
	return InRange(events, from, to)
}
