package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"taskpad/internal/store"
)

// dateValue is the due-date picker: a single optional calendar date plus the
// month grid used to choose it. The bound value is the yyyy-mm-dd string the
// task form reads; no date means the empty string.

const (
	dateLayout = "2006-01-02"
	// Rendered panel width: 7 columns of "dd " plus padding.
	calendarPanelWidth = 24
)

type calendarCell struct {
	Day      int
	InMonth  bool
	Today    bool
	Selected bool
}

type dateValue struct {
	selected time.Time
	hasDate  bool

	// The displayed month, independent of the selection.
	viewYear  int
	viewMonth time.Month

	open      bool
	alignLeft bool
	cursor    int

	now      func() time.Time
	onChange func(value string)
}

func newDateValue(initial string, onChange func(string)) (dateValue, error) {
	c := dateValue{now: time.Now, onChange: onChange}
	today := c.today()
	c.viewYear, c.viewMonth = today.Year(), today.Month()
	if strings.TrimSpace(initial) != "" {
		if err := c.SetValue(initial); err != nil {
			return dateValue{}, err
		}
	}
	return c, nil
}

func (c *dateValue) today() time.Time {
	n := c.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// Open shows the month grid. The panel is anchored at anchorX inside a panel
// of panelWidth cells and flips to the left when the right-hand space can't
// fit it.
func (c *dateValue) Open(panelWidth, anchorX int) {
	c.alignLeft = anchorX+calendarPanelWidth > panelWidth
	c.open = true
	c.cursor = c.cursorForSelection()
}

func (c *dateValue) Close() { c.open = false }

func (c *dateValue) IsOpen() bool { return c.open }

// NavigateMonth moves the displayed month by direction (-1 or +1), rolling
// the year across January/December. Selection and open state are untouched.
func (c *dateValue) NavigateMonth(direction int) {
	m := int(c.viewMonth) + direction
	switch {
	case m < 1:
		m = 12
		c.viewYear--
	case m > 12:
		m = 1
		c.viewYear++
	}
	c.viewMonth = time.Month(m)
	c.clampCursor()
}

// SelectDay picks a day of the displayed month, updates the bound value,
// notifies, and closes the panel.
func (c *dateValue) SelectDay(day int) {
	c.selected = time.Date(c.viewYear, c.viewMonth, day, 0, 0, 0, 0, time.UTC)
	c.hasDate = true
	c.notify()
	c.Close()
}

// Clear drops the selection. The displayed month resets to the current one
// so reopening shows a sane grid.
func (c *dateValue) Clear() {
	c.hasDate = false
	today := c.today()
	c.selected = today
	c.viewYear, c.viewMonth = today.Year(), today.Month()
	c.notify()
	c.Close()
}

// Value returns the bound value: yyyy-mm-dd, or "" when no date is chosen.
func (c *dateValue) Value() string {
	if !c.hasDate {
		return ""
	}
	return c.selected.Format(dateLayout)
}

// SetValue programmatically sets the bound value. Unlike SelectDay it does
// not notify or close. An unparseable string is rejected at this boundary.
func (c *dateValue) SetValue(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		c.Clear()
		return nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return store.NewValidationError("invalid date %q (want yyyy-mm-dd)", s)
	}
	c.selected = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	c.hasDate = true
	c.viewYear, c.viewMonth = d.Year(), d.Month()
	return nil
}

func (c *dateValue) notify() {
	if c.onChange != nil {
		c.onChange(c.Value())
	}
}

func daysInMonth(y int, m time.Month) int {
	// Day 0 of next month is last day of this month.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func prevMonthOf(y int, m time.Month) (int, time.Month) {
	if m == time.January {
		return y - 1, time.December
	}
	return y, m - 1
}

// grid lays out the displayed month as full weeks starting on Sunday:
// trailing days of the previous month (one per weekday before day 1), day
// 1..N of the month, then leading days of the next month padding the cell
// count to a multiple of 7.
func (c *dateValue) grid() []calendarCell {
	first := time.Date(c.viewYear, c.viewMonth, 1, 0, 0, 0, 0, time.UTC)
	lead := int(first.Weekday())
	days := daysInMonth(c.viewYear, c.viewMonth)
	prevY, prevM := prevMonthOf(c.viewYear, c.viewMonth)
	prevDays := daysInMonth(prevY, prevM)
	total := ((lead + days + 6) / 7) * 7

	today := c.today()
	sameMonthToday := today.Year() == c.viewYear && today.Month() == c.viewMonth
	sameMonthSel := c.hasDate && c.selected.Year() == c.viewYear && c.selected.Month() == c.viewMonth

	cells := make([]calendarCell, 0, total)
	for i := 0; i < total; i++ {
		switch {
		case i < lead:
			cells = append(cells, calendarCell{Day: prevDays - lead + 1 + i})
		case i < lead+days:
			d := i - lead + 1
			cells = append(cells, calendarCell{
				Day:      d,
				InMonth:  true,
				Today:    sameMonthToday && today.Day() == d,
				Selected: sameMonthSel && c.selected.Day() == d,
			})
		default:
			cells = append(cells, calendarCell{Day: i - (lead + days) + 1})
		}
	}
	return cells
}

func (c *dateValue) cursorForSelection() int {
	g := c.grid()
	for i, cell := range g {
		if cell.Selected {
			return i
		}
	}
	for i, cell := range g {
		if cell.Today {
			return i
		}
	}
	// First in-month cell.
	first := time.Date(c.viewYear, c.viewMonth, 1, 0, 0, 0, 0, time.UTC)
	return int(first.Weekday())
}

func (c *dateValue) clampCursor() {
	if n := len(c.grid()); c.cursor >= n {
		c.cursor = n - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
}

// moveCursor shifts the keyboard cursor by delta cells, walking into the
// adjacent month when it runs off the grid.
func (c *dateValue) moveCursor(delta int) {
	n := len(c.grid())
	next := c.cursor + delta
	switch {
	case next < 0:
		c.NavigateMonth(-1)
		c.cursor = len(c.grid()) - 1
	case next >= n:
		c.NavigateMonth(1)
		c.cursor = 0
	default:
		c.cursor = next
	}
}

// handleKey processes a key while the panel is open. Returns false for keys
// the widget doesn't own.
func (c *dateValue) handleKey(key string) bool {
	switch key {
	case "left":
		c.moveCursor(-1)
	case "right":
		c.moveCursor(1)
	case "up":
		c.moveCursor(-7)
	case "down":
		c.moveCursor(7)
	case "pgup", "[":
		c.NavigateMonth(-1)
	case "pgdown", "]":
		c.NavigateMonth(1)
	case "t":
		today := c.today()
		c.viewYear, c.viewMonth = today.Year(), today.Month()
		c.SelectDay(today.Day())
	case "c", "backspace", "delete":
		c.Clear()
	case "enter", " ":
		cell := c.grid()[c.cursor]
		if !cell.InMonth {
			// Out-of-month cell: hop to that month first.
			if c.cursor < 7 {
				c.NavigateMonth(-1)
			} else {
				c.NavigateMonth(1)
			}
			c.SelectDay(cell.Day)
			return true
		}
		c.SelectDay(cell.Day)
	case "esc":
		c.Close()
	default:
		return false
	}
	return true
}

// View renders the open panel: month header with navigation arrows, weekday
// row, and the grid with today/selected/cursor highlights.
func (c *dateValue) View() string {
	header := fmt.Sprintf("%s %s %d %s",
		glyphArrowLeft(),
		c.viewMonth.String()[:3],
		c.viewYear,
		glyphArrowRight(),
	)
	headerLine := lipgloss.NewStyle().
		Width(calendarPanelWidth - 2).
		Align(lipgloss.Center).
		Bold(true).
		Render(header)

	weekdays := styleMuted().Render("Su Mo Tu We Th Fr Sa")

	cellBase := lipgloss.NewStyle()
	cellOut := styleMuted()
	cellToday := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	cellSelected := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	cellCursor := lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorAccent)

	var rows []string
	var row strings.Builder
	for i, cell := range c.grid() {
		st := cellBase
		switch {
		case i == c.cursor:
			st = cellCursor
		case cell.Selected:
			st = cellSelected
		case cell.Today:
			st = cellToday
		case !cell.InMonth:
			st = cellOut
		}
		row.WriteString(st.Render(fmt.Sprintf("%2d", cell.Day)))
		if (i+1)%7 == 0 {
			rows = append(rows, row.String())
			row.Reset()
		} else {
			row.WriteString(" ")
		}
	}

	help := styleMuted().Render("t: today  c: clear")

	body := strings.Join(append([]string{headerLine, weekdays}, append(rows, help)...), "\n")
	return lipgloss.NewStyle().
		Padding(0, 1).
		Background(colorControlBg).
		Foreground(colorSurfaceFg).
		Render(body)
}
