package tui

import (
	"testing"
	"time"
)

func fixedNow(y int, m time.Month, d int) func() time.Time {
	return func() time.Time {
		return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	}
}

func TestCalendarGridIsRectangular(t *testing.T) {
	for year := 2023; year <= 2026; year++ {
		for month := time.January; month <= time.December; month++ {
			c := dateValue{now: fixedNow(2024, time.June, 15), viewYear: year, viewMonth: month}
			g := c.grid()
			if len(g)%7 != 0 {
				t.Fatalf("%d-%02d: grid length %d not divisible by 7", year, month, len(g))
			}

			inMonth := 0
			for _, cell := range g {
				if cell.InMonth {
					inMonth++
				}
			}
			if want := daysInMonth(year, month); inMonth != want {
				t.Fatalf("%d-%02d: %d in-month cells, want %d", year, month, inMonth, want)
			}
		}
	}
}

func TestCalendarGridLeadingCellsMatchWeekdayOfDayOne(t *testing.T) {
	// March 2024 starts on a Friday (weekday 5).
	c := dateValue{now: fixedNow(2024, time.June, 15), viewYear: 2024, viewMonth: time.March}
	g := c.grid()

	for i := 0; i < 5; i++ {
		if g[i].InMonth {
			t.Fatalf("cell %d should be out-of-month", i)
		}
	}
	if !g[5].InMonth || g[5].Day != 1 {
		t.Fatalf("cell 5 should be day 1, got %+v", g[5])
	}
	// February 2024 had 29 days; the last leading cell is the 29th.
	if g[4].Day != 29 {
		t.Fatalf("last leading cell should be 29, got %d", g[4].Day)
	}
}

func TestCalendarGridMarksTodayAndSelected(t *testing.T) {
	c := dateValue{now: fixedNow(2024, time.June, 15), viewYear: 2024, viewMonth: time.June}
	if err := c.SetValue("2024-06-20"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	var today, selected int
	for _, cell := range c.grid() {
		if cell.Today {
			today = cell.Day
		}
		if cell.Selected {
			selected = cell.Day
		}
	}
	if today != 15 {
		t.Fatalf("today marker on day %d, want 15", today)
	}
	if selected != 20 {
		t.Fatalf("selected marker on day %d, want 20", selected)
	}
}

func TestNavigateMonthIsReversible(t *testing.T) {
	starts := []struct {
		y int
		m time.Month
	}{
		{2024, time.June},
		{2024, time.December},
		{2024, time.January},
	}
	for _, s := range starts {
		c := dateValue{now: fixedNow(2024, time.June, 15), viewYear: s.y, viewMonth: s.m}
		c.NavigateMonth(1)
		c.NavigateMonth(-1)
		if c.viewYear != s.y || c.viewMonth != s.m {
			t.Fatalf("start %d-%02d: got %d-%02d after +1/-1", s.y, s.m, c.viewYear, c.viewMonth)
		}
	}
}

func TestNavigateMonthRollsYear(t *testing.T) {
	c := dateValue{now: fixedNow(2024, time.June, 15), viewYear: 2024, viewMonth: time.December}
	c.NavigateMonth(1)
	if c.viewYear != 2025 || c.viewMonth != time.January {
		t.Fatalf("got %d-%02d, want 2025-01", c.viewYear, c.viewMonth)
	}
	c.NavigateMonth(-1)
	if c.viewYear != 2024 || c.viewMonth != time.December {
		t.Fatalf("got %d-%02d, want 2024-12", c.viewYear, c.viewMonth)
	}
}

func TestSetValueGetValueRoundTrip(t *testing.T) {
	c, err := newDateValue("", nil)
	if err != nil {
		t.Fatalf("newDateValue: %v", err)
	}
	if err := c.SetValue("2024-03-15"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := c.Value(); got != "2024-03-15" {
		t.Fatalf("Value() = %q, want 2024-03-15", got)
	}
	if c.viewYear != 2024 || c.viewMonth != time.March {
		t.Fatalf("view month should follow SetValue, got %d-%02d", c.viewYear, c.viewMonth)
	}
}

func TestClearEmptiesBoundValue(t *testing.T) {
	c, err := newDateValue("2024-03-15", nil)
	if err != nil {
		t.Fatalf("newDateValue: %v", err)
	}
	c.Clear()
	if got := c.Value(); got != "" {
		t.Fatalf("Value() after Clear = %q, want empty", got)
	}

	now := time.Now()
	if c.viewYear != now.Year() || c.viewMonth != now.Month() {
		t.Fatalf("view should reset to current month, got %d-%02d", c.viewYear, c.viewMonth)
	}
}

func TestSetValueRejectsGarbage(t *testing.T) {
	c, err := newDateValue("", nil)
	if err != nil {
		t.Fatalf("newDateValue: %v", err)
	}
	for _, bad := range []string{"not-a-date", "2024-13-01", "15/03/2024", "2024-02-30"} {
		if err := c.SetValue(bad); err == nil {
			t.Fatalf("SetValue(%q) should fail", bad)
		}
	}
	if c.hasDate {
		t.Fatal("rejected SetValue must not set a date")
	}
}

func TestSelectDayNotifiesAndCloses(t *testing.T) {
	var got string
	notified := 0
	c, err := newDateValue("", func(v string) {
		got = v
		notified++
	})
	if err != nil {
		t.Fatalf("newDateValue: %v", err)
	}
	c.now = fixedNow(2024, time.June, 15)
	c.viewYear, c.viewMonth = 2024, time.June
	c.Open(80, 0)
	if !c.IsOpen() {
		t.Fatal("widget should be open")
	}

	c.SelectDay(3)
	if got != "2024-06-03" {
		t.Fatalf("onChange got %q, want 2024-06-03", got)
	}
	if notified != 1 {
		t.Fatalf("onChange fired %d times, want 1", notified)
	}
	if c.IsOpen() {
		t.Fatal("widget should close after selection")
	}

	c.Clear()
	if got != "" || notified != 2 {
		t.Fatalf("Clear should notify with empty value, got %q (%d)", got, notified)
	}
}

func TestOpenFlipsWhenRightSpaceInsufficient(t *testing.T) {
	c, err := newDateValue("", nil)
	if err != nil {
		t.Fatalf("newDateValue: %v", err)
	}

	c.Open(80, 0)
	if c.alignLeft {
		t.Fatal("should not flip with plenty of right-hand space")
	}
	c.Open(30, 20)
	if !c.alignLeft {
		t.Fatal("should flip left when the panel would overflow")
	}
}

func TestCursorWalksIntoAdjacentMonth(t *testing.T) {
	c := dateValue{now: fixedNow(2024, time.June, 15), viewYear: 2024, viewMonth: time.June}
	c.Open(80, 0)
	c.cursor = 0
	c.moveCursor(-1)
	if c.viewMonth != time.May {
		t.Fatalf("cursor should walk into May, got %s", c.viewMonth)
	}
	if c.cursor != len(c.grid())-1 {
		t.Fatalf("cursor should land on the last cell, got %d", c.cursor)
	}
}
