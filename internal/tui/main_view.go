package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskpad/internal/model"
	"taskpad/internal/store"
)

const sidebarWidth = 24

func (m *appModel) visibleTasks() []model.Task {
	return m.filter.VisibleTasks(m.items.Tasks())
}

func (m *appModel) visibleNotes() []model.Note {
	return m.filter.VisibleNotes(m.items.Notes())
}

func (m *appModel) selectedTask() (model.Task, bool) {
	ts := m.visibleTasks()
	if m.listIdx < 0 || m.listIdx >= len(ts) {
		return model.Task{}, false
	}
	return ts[m.listIdx], true
}

func (m *appModel) selectedNote() (model.Note, bool) {
	ns := m.visibleNotes()
	if m.listIdx < 0 || m.listIdx >= len(ns) {
		return model.Note{}, false
	}
	return ns[m.listIdx], true
}

// sidebarCount is the number of sidebar rows: "All Items" plus one per
// category.
func (m *appModel) sidebarCount() int { return 1 + len(m.cats.Categories()) }

// applySidebarSelection updates the view filter from the sidebar cursor and
// resets the list cursor.
func (m *appModel) applySidebarSelection() {
	if m.sidebarIdx == 0 {
		m.filter.CategoryID = ""
	} else {
		cats := m.cats.Categories()
		if m.sidebarIdx-1 < len(cats) {
			m.filter.CategoryID = cats[m.sidebarIdx-1].ID
		}
	}
	m.listIdx = 0
}

func (m *appModel) cycleStatusFilter() {
	switch m.filter.Status {
	case store.StatusAll:
		m.filter.Status = store.StatusActive
	case store.StatusActive:
		m.filter.Status = store.StatusCompleted
	default:
		m.filter.Status = store.StatusAll
	}
	m.clampListIdx()
}

func (m appModel) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "tab":
		if m.tab == tabTasks {
			m.tab = tabNotes
		} else {
			m.tab = tabTasks
		}
		m.listIdx = 0
		return m, nil

	case "left", "h":
		m.focus = focusSidebar
		return m, nil
	case "right", "l":
		m.focus = focusList
		return m, nil

	case "up", "k":
		if m.focus == focusSidebar {
			if m.sidebarIdx > 0 {
				m.sidebarIdx--
			}
		} else if m.listIdx > 0 {
			m.listIdx--
		}
		return m, nil
	case "down", "j":
		if m.focus == focusSidebar {
			if m.sidebarIdx < m.sidebarCount()-1 {
				m.sidebarIdx++
			}
		} else if m.listIdx < m.visibleCount()-1 {
			m.listIdx++
		}
		return m, nil

	case "enter":
		if m.focus == focusSidebar {
			m.applySidebarSelection()
			return m, nil
		}
		return m.openEditorForSelection()

	case "a":
		if m.tab == tabTasks {
			m.openTaskEditor(model.Task{CategoryID: m.filter.CategoryID})
		} else {
			m.openNoteEditor(model.Note{CategoryID: m.filter.CategoryID})
		}
		return m, nil

	case "e":
		return m.openEditorForSelection()

	case "d":
		return m.openDeleteConfirm()

	case " ", "x":
		if m.tab != tabTasks {
			return m, nil
		}
		if t, ok := m.selectedTask(); ok {
			if err := m.items.ToggleTask(m.ctx, t.ID, !t.Completed); err != nil {
				m.fail(err)
			}
			m.afterMutation()
		}
		return m, nil

	case "f":
		if m.tab == tabTasks {
			m.cycleStatusFilter()
		}
		return m, nil

	case "r":
		if err := m.items.LoadTasks(m.ctx); err != nil {
			m.fail(err)
		}
		if err := m.items.LoadNotes(m.ctx); err != nil {
			m.fail(err)
		}
		m.afterMutation()
		return m, nil

	case "c":
		m.openCategoryManager()
		return m, nil

	case "ctrl+l":
		if err := m.deps.Auth.Logout(); err != nil {
			m.fail(err)
			return m, nil
		}
		m.leaveMain()
		return m, nil
	}

	return m, nil
}

func (m appModel) openEditorForSelection() (tea.Model, tea.Cmd) {
	if m.tab == tabTasks {
		if t, ok := m.selectedTask(); ok {
			m.openTaskEditor(t)
		}
	} else {
		if n, ok := m.selectedNote(); ok {
			m.openNoteEditor(n)
		}
	}
	return m, nil
}

func (m appModel) openDeleteConfirm() (tea.Model, tea.Cmd) {
	if m.tab == tabTasks {
		if t, ok := m.selectedTask(); ok {
			m.confirm = confirmState{kind: confirmTask, id: t.ID, label: t.Title}
			m.modal = modalConfirmDelete
		}
	} else {
		if n, ok := m.selectedNote(); ok {
			m.confirm = confirmState{kind: confirmNote, id: n.ID, label: n.Title}
			m.modal = modalConfirmDelete
		}
	}
	return m, nil
}

func (m appModel) viewMain() string {
	header := m.viewHeader()
	footer := m.viewFooter()
	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 3 {
		bodyH = 3
	}

	sidebar := m.viewSidebar(bodyH)
	list := m.viewList(m.width-sidebarWidth-1, bodyH)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", list)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m appModel) viewHeader() string {
	tabTasksLabel := "Tasks"
	tabNotesLabel := "Notes"
	active := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	if m.tab == tabTasks {
		tabTasksLabel = active.Render(tabTasksLabel)
		tabNotesLabel = styleMuted().Render(tabNotesLabel)
	} else {
		tabTasksLabel = styleMuted().Render(tabTasksLabel)
		tabNotesLabel = active.Render(tabNotesLabel)
	}

	left := " Taskpad  " + tabTasksLabel + "  " + tabNotesLabel
	right := ""
	if m.tab == tabTasks {
		right += "filter: " + string(m.filter.Status) + "  "
	}
	right += m.profile.Email + " "

	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return lipgloss.NewStyle().
		Width(m.width).
		Background(colorControlBg).
		Foreground(colorSurfaceFg).
		Render(left + strings.Repeat(" ", pad) + right)
}

func (m appModel) viewFooter() string {
	help := "a: add  e: edit  d: delete  space: toggle  f: filter  c: categories  tab: tasks/notes  r: reload  ctrl+l: logout  q: quit"
	if m.tab == tabNotes {
		help = "a: add  e: edit  d: delete  c: categories  tab: tasks/notes  r: reload  ctrl+l: logout  q: quit"
	}
	lines := styleMuted().Width(m.width).Render(help)
	if m.status != "" {
		errLine := lipgloss.NewStyle().Foreground(colorDanger).Width(m.width).Render(m.status)
		return lipgloss.JoinVertical(lipgloss.Left, errLine, lines)
	}
	return lines
}

func (m appModel) viewSidebar(height int) string {
	tasks := m.items.Tasks()
	notes := m.items.Notes()

	rowStyle := lipgloss.NewStyle().Width(sidebarWidth)
	selStyle := rowStyle.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	activeMark := func(catID string) string {
		if m.filter.CategoryID == catID {
			return glyphBullet() + " "
		}
		return "  "
	}

	var rows []string
	label := fmt.Sprintf("%sAll Items (%d)", activeMark(""), m.cats.CountAll(tasks, notes))
	if m.focus == focusSidebar && m.sidebarIdx == 0 {
		rows = append(rows, selStyle.Render(label))
	} else {
		rows = append(rows, rowStyle.Render(label))
	}

	for i, c := range m.cats.Categories() {
		label := fmt.Sprintf("%s%s %s (%d)",
			activeMark(c.ID), glyphCategory(c.Icon), c.Name,
			m.cats.CountFor(c.ID, tasks, notes))
		if m.focus == focusSidebar && m.sidebarIdx == i+1 {
			rows = append(rows, selStyle.Render(label))
		} else {
			rows = append(rows, rowStyle.Render(label))
		}
	}

	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(height).
		Render(strings.Join(rows, "\n"))
}

func (m appModel) viewList(width, height int) string {
	if width < 20 {
		width = 20
	}
	if m.tab == tabTasks {
		return m.viewTaskList(width, height)
	}
	return m.viewNoteList(width, height)
}

func (m appModel) viewTaskList(width, height int) string {
	if !m.items.TasksLoaded() {
		return styleMuted().Render("Could not load tasks. Press r to retry.")
	}
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		return styleMuted().Render("No tasks. Press a to add one.")
	}

	today := time.Now().Format(dateLayout)
	rowStyle := lipgloss.NewStyle().Width(width)
	selStyle := rowStyle.Foreground(colorSelectedFg).Background(colorSelectedBg)
	doneStyle := lipgloss.NewStyle().Foreground(colorDone).Strikethrough(true)
	dueStyle := styleMuted()
	overdueStyle := lipgloss.NewStyle().Foreground(colorDanger)

	var rows []string
	for i, t := range tasks {
		check := glyphCheckboxOpen()
		title := t.Title
		if t.Completed {
			check = glyphCheckboxDone()
			title = doneStyle.Render(title)
		}
		line := fmt.Sprintf(" %s %s", check, title)
		if t.DueDate != "" {
			due := dueStyle.Render("  " + t.DueDate)
			if !t.Completed && t.DueDate < today {
				due = overdueStyle.Render("  " + t.DueDate + " (overdue)")
			}
			line += due
		}
		if c, ok := m.cats.ByID(t.CategoryID); ok {
			line += styleMuted().Render("  " + glyphCategory(c.Icon) + " " + c.Name)
		}

		if m.focus == focusList && i == m.listIdx {
			rows = append(rows, selStyle.Render(line))
		} else {
			rows = append(rows, rowStyle.Render(line))
		}
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(rows, "\n"))
}

func (m appModel) viewNoteList(width, height int) string {
	if !m.items.NotesLoaded() {
		return styleMuted().Render("Could not load notes. Press r to retry.")
	}
	notes := m.visibleNotes()
	if len(notes) == 0 {
		return styleMuted().Render("No notes. Press a to add one.")
	}

	rowStyle := lipgloss.NewStyle().Width(width)
	selStyle := rowStyle.Foreground(colorSelectedFg).Background(colorSelectedBg)

	listH := height / 2
	if listH < 3 {
		listH = 3
	}

	var rows []string
	for i, n := range notes {
		line := " " + glyphBullet() + " " + n.Title
		if c, ok := m.cats.ByID(n.CategoryID); ok {
			line += styleMuted().Render("  " + glyphCategory(c.Icon) + " " + c.Name)
		}
		if m.focus == focusList && i == m.listIdx {
			rows = append(rows, selStyle.Render(line))
		} else {
			rows = append(rows, rowStyle.Render(line))
		}
		if len(rows) >= listH {
			break
		}
	}
	list := strings.Join(rows, "\n")

	// Preview pane for the selected note.
	preview := ""
	if n, ok := m.selectedNote(); ok {
		preview = renderMarkdown(n.Content, width-2)
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(
		lipgloss.JoinVertical(lipgloss.Left, list, "", preview))
}
