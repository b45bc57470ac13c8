package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskpad/internal/model"
	"taskpad/internal/store"
)

// Task editor focus order.
const (
	taskFocusTitle = iota
	taskFocusDesc
	taskFocusDue
	taskFocusCategory
	taskFocusCount
)

type taskEditState struct {
	id     string
	title  textinput.Model
	desc   textarea.Model
	due    dateValue
	catIdx int // 0 = uncategorized, i>0 = categories[i-1]
	focus  int
}

const (
	noteFocusTitle = iota
	noteFocusContent
	noteFocusCategory
	noteFocusCount
)

type noteEditState struct {
	id      string
	title   textinput.Model
	content textarea.Model
	catIdx  int
	focus   int
}

type catManagerMode int

const (
	catManagerBrowse catManagerMode = iota
	catManagerAdd
)

type catEditState struct {
	mode    catManagerMode
	cursor  int
	name    textinput.Model
	iconIdx int
	// In add mode, whether the icon row (vs the name input) has focus.
	iconFocus bool
}

type confirmKind int

const (
	confirmTask confirmKind = iota
	confirmNote
	confirmCategory
)

type confirmState struct {
	kind     confirmKind
	id       string
	label    string
	focus    confirmModalFocus
	returnTo modalKind
}

func newEditorInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 200
	return in
}

func (m *appModel) catIndexFor(categoryID string) int {
	for i, c := range m.cats.Categories() {
		if c.ID == categoryID {
			return i + 1
		}
	}
	return 0
}

func (m *appModel) catIDForIndex(idx int) string {
	if idx <= 0 {
		return ""
	}
	cats := m.cats.Categories()
	if idx-1 >= len(cats) {
		return ""
	}
	return cats[idx-1].ID
}

func (m *appModel) openTaskEditor(t model.Task) {
	st := taskEditState{id: t.ID}
	st.title = newEditorInput("task title")
	st.title.SetValue(t.Title)
	st.title.Focus()

	st.desc = textarea.New()
	st.desc.Placeholder = "description"
	st.desc.SetValue(t.Description)

	due, err := newDateValue(t.DueDate, nil)
	if err != nil {
		// Stored dates are widget-produced; an unparseable one is dropped.
		due, _ = newDateValue("", nil)
	}
	st.due = due

	st.catIdx = m.catIndexFor(t.CategoryID)

	m.taskEdit = st
	m.modal = modalTaskEdit
	m.resizeEditors()
}

func (m *appModel) openNoteEditor(n model.Note) {
	st := noteEditState{id: n.ID}
	st.title = newEditorInput("note title")
	st.title.SetValue(n.Title)
	st.title.Focus()

	st.content = textarea.New()
	st.content.Placeholder = "content (markdown)"
	st.content.SetValue(n.Content)

	st.catIdx = m.catIndexFor(n.CategoryID)

	m.noteEdit = st
	m.modal = modalNoteEdit
	m.resizeEditors()
}

func (m *appModel) openCategoryManager() {
	st := catEditState{}
	st.name = newEditorInput("category name")
	m.catEdit = st
	m.modal = modalCategories
}

func (m *appModel) resizeEditors() {
	w := modalBodyWidth(m.width)
	m.taskEdit.title.Width = w - 4
	m.taskEdit.desc.SetWidth(w)
	m.taskEdit.desc.SetHeight(4)
	m.noteEdit.title.Width = w - 4
	m.noteEdit.content.SetWidth(w)
	m.noteEdit.content.SetHeight(8)
	m.catEdit.name.Width = w - 4
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalTaskEdit:
		return m.updateTaskEdit(msg)
	case modalNoteEdit:
		return m.updateNoteEdit(msg)
	case modalCategories:
		return m.updateCatManager(msg)
	case modalConfirmDelete:
		return m.updateConfirm(msg)
	}
	m.modal = modalNone
	return m, nil
}

func (m appModel) viewModal() string {
	switch m.modal {
	case modalTaskEdit:
		return m.viewTaskEdit()
	case modalNoteEdit:
		return m.viewNoteEdit()
	case modalCategories:
		return m.viewCatManager()
	case modalConfirmDelete:
		return m.viewConfirm()
	}
	return ""
}

func (m *appModel) setTaskEditFocus(i int) {
	st := &m.taskEdit
	st.focus = ((i % taskFocusCount) + taskFocusCount) % taskFocusCount
	st.title.Blur()
	st.desc.Blur()
	switch st.focus {
	case taskFocusTitle:
		st.title.Focus()
	case taskFocusDesc:
		st.desc.Focus()
	}
}

func (m appModel) updateTaskEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := &m.taskEdit

	// An open calendar owns the keyboard.
	if st.due.IsOpen() {
		if st.due.handleKey(msg.String()) {
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.modal = modalNone
		return m, nil
	case "tab":
		m.setTaskEditFocus(st.focus + 1)
		return m, nil
	case "shift+tab":
		m.setTaskEditFocus(st.focus - 1)
		return m, nil
	case "ctrl+s":
		return m.saveTaskEdit()
	}

	switch st.focus {
	case taskFocusTitle:
		if msg.String() == "enter" {
			m.setTaskEditFocus(st.focus + 1)
			return m, nil
		}
		var cmd tea.Cmd
		st.title, cmd = st.title.Update(msg)
		return m, cmd
	case taskFocusDesc:
		var cmd tea.Cmd
		st.desc, cmd = st.desc.Update(msg)
		return m, cmd
	case taskFocusDue:
		switch msg.String() {
		case "enter", " ":
			st.due.Open(modalBodyWidth(m.width), taskDueAnchorX)
		case "c", "backspace", "delete":
			st.due.Clear()
		}
		return m, nil
	case taskFocusCategory:
		switch msg.String() {
		case "left", "h":
			if st.catIdx > 0 {
				st.catIdx--
			}
		case "right", "l":
			if st.catIdx < len(m.cats.Categories()) {
				st.catIdx++
			}
		case "enter":
			return m.saveTaskEdit()
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) saveTaskEdit() (tea.Model, tea.Cmd) {
	st := &m.taskEdit
	title := st.title.Value()
	desc := st.desc.Value()
	due := st.due.Value()
	catID := m.catIDForIndex(st.catIdx)

	var err error
	if st.id == "" {
		_, err = m.items.AddTask(m.ctx, title, desc, due, catID)
	} else {
		err = m.items.UpdateTask(m.ctx, st.id, store.TaskFields{
			Title:       &title,
			Description: &desc,
			DueDate:     &due,
			CategoryID:  &catID,
		})
	}
	if err != nil {
		m.fail(err)
		if store.IsValidation(err) {
			// Keep the modal open so the user can fix the input.
			return m, nil
		}
		m.modal = modalNone
		return m, nil
	}
	m.afterMutation()
	m.modal = modalNone
	return m, nil
}

// taskDueAnchorX is the column of the due field inside the modal body.
const taskDueAnchorX = 6

func (m appModel) viewTaskEdit() string {
	st := m.taskEdit
	bodyW := modalBodyWidth(m.width)

	focusLabel := func(label string, focused bool) string {
		if focused && !st.due.IsOpen() {
			return lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(label)
		}
		return styleMuted().Render(label)
	}

	dueLabel := st.due.Value()
	if dueLabel == "" {
		dueLabel = "none"
	}

	catLabel := "none"
	if c, ok := m.cats.ByID(m.catIDForIndex(st.catIdx)); ok {
		catLabel = glyphCategory(c.Icon) + " " + c.Name
	}

	lines := []string{
		focusLabel("Title", st.focus == taskFocusTitle),
		renderInputLine(bodyW, st.title.View()),
		focusLabel("Description", st.focus == taskFocusDesc),
		st.desc.View(),
		focusLabel("Due", st.focus == taskFocusDue) + "  " + dueLabel,
	}

	if st.due.IsOpen() {
		panel := st.due.View()
		indent := taskDueAnchorX
		if st.due.alignLeft {
			indent = 0
		}
		lines = append(lines, lipgloss.NewStyle().MarginLeft(indent).Render(panel))
	}

	lines = append(lines,
		focusLabel("Category", st.focus == taskFocusCategory)+"  "+glyphArrowLeft()+" "+catLabel+" "+glyphArrowRight(),
		"",
		styleMuted().Width(bodyW).Render("tab: next field   ctrl+s: save   esc: cancel"),
	)
	if m.status != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorDanger).Render(m.status))
	}

	title := "New task"
	if st.id != "" {
		title = "Edit task"
	}
	return renderModalBox(m.width, title, strings.Join(lines, "\n"))
}

func (m *appModel) setNoteEditFocus(i int) {
	st := &m.noteEdit
	st.focus = ((i % noteFocusCount) + noteFocusCount) % noteFocusCount
	st.title.Blur()
	st.content.Blur()
	switch st.focus {
	case noteFocusTitle:
		st.title.Focus()
	case noteFocusContent:
		st.content.Focus()
	}
}

func (m appModel) updateNoteEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := &m.noteEdit

	switch msg.String() {
	case "esc":
		m.modal = modalNone
		return m, nil
	case "tab":
		m.setNoteEditFocus(st.focus + 1)
		return m, nil
	case "shift+tab":
		m.setNoteEditFocus(st.focus - 1)
		return m, nil
	case "ctrl+s":
		return m.saveNoteEdit()
	}

	switch st.focus {
	case noteFocusTitle:
		if msg.String() == "enter" {
			m.setNoteEditFocus(st.focus + 1)
			return m, nil
		}
		var cmd tea.Cmd
		st.title, cmd = st.title.Update(msg)
		return m, cmd
	case noteFocusContent:
		var cmd tea.Cmd
		st.content, cmd = st.content.Update(msg)
		return m, cmd
	case noteFocusCategory:
		switch msg.String() {
		case "left", "h":
			if st.catIdx > 0 {
				st.catIdx--
			}
		case "right", "l":
			if st.catIdx < len(m.cats.Categories()) {
				st.catIdx++
			}
		case "enter":
			return m.saveNoteEdit()
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) saveNoteEdit() (tea.Model, tea.Cmd) {
	st := &m.noteEdit
	title := st.title.Value()
	content := st.content.Value()
	catID := m.catIDForIndex(st.catIdx)

	var err error
	if st.id == "" {
		_, err = m.items.AddNote(m.ctx, title, content, catID)
	} else {
		err = m.items.UpdateNote(m.ctx, st.id, store.NoteFields{
			Title:      &title,
			Content:    &content,
			CategoryID: &catID,
		})
	}
	if err != nil {
		m.fail(err)
		if store.IsValidation(err) {
			return m, nil
		}
		m.modal = modalNone
		return m, nil
	}
	m.afterMutation()
	m.modal = modalNone
	return m, nil
}

func (m appModel) viewNoteEdit() string {
	st := m.noteEdit
	bodyW := modalBodyWidth(m.width)

	focusLabel := func(label string, focused bool) string {
		if focused {
			return lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(label)
		}
		return styleMuted().Render(label)
	}

	catLabel := "none"
	if c, ok := m.cats.ByID(m.catIDForIndex(st.catIdx)); ok {
		catLabel = glyphCategory(c.Icon) + " " + c.Name
	}

	lines := []string{
		focusLabel("Title", st.focus == noteFocusTitle),
		renderInputLine(bodyW, st.title.View()),
		focusLabel("Content", st.focus == noteFocusContent),
		st.content.View(),
		focusLabel("Category", st.focus == noteFocusCategory) + "  " + glyphArrowLeft() + " " + catLabel + " " + glyphArrowRight(),
		"",
		styleMuted().Width(bodyW).Render("tab: next field   ctrl+s: save   esc: cancel"),
	}
	if m.status != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorDanger).Render(m.status))
	}

	title := "New note"
	if st.id != "" {
		title = "Edit note"
	}
	return renderModalBox(m.width, title, strings.Join(lines, "\n"))
}

func (m appModel) updateCatManager(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := &m.catEdit
	cats := m.cats.Categories()

	if st.mode == catManagerAdd {
		switch msg.String() {
		case "esc":
			st.mode = catManagerBrowse
			m.status = ""
			return m, nil
		case "tab", "shift+tab":
			st.iconFocus = !st.iconFocus
			if st.iconFocus {
				st.name.Blur()
			} else {
				st.name.Focus()
			}
			return m, nil
		case "enter":
			if _, err := m.cats.Add(st.name.Value(), model.CategoryIcons[st.iconIdx]); err != nil {
				m.fail(err)
				return m, nil
			}
			m.status = ""
			st.mode = catManagerBrowse
			st.name.SetValue("")
			st.iconIdx = 0
			return m, nil
		}
		if st.iconFocus {
			switch msg.String() {
			case "left", "h":
				if st.iconIdx > 0 {
					st.iconIdx--
				}
			case "right", "l":
				if st.iconIdx < len(model.CategoryIcons)-1 {
					st.iconIdx++
				}
			}
			return m, nil
		}
		var cmd tea.Cmd
		st.name, cmd = st.name.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc", "q":
		m.modal = modalNone
		m.status = ""
		// The sidebar may now point past the end.
		if m.sidebarIdx >= m.sidebarCount() {
			m.sidebarIdx = m.sidebarCount() - 1
		}
		return m, nil
	case "up", "k":
		if st.cursor > 0 {
			st.cursor--
		}
		return m, nil
	case "down", "j":
		if st.cursor < len(cats)-1 {
			st.cursor++
		}
		return m, nil
	case "a":
		st.mode = catManagerAdd
		st.iconFocus = false
		st.name.Focus()
		return m, nil
	case "left", "h", "right", "l":
		if st.cursor < len(cats) {
			c := cats[st.cursor]
			idx := iconIndex(c.Icon)
			if msg.String() == "left" || msg.String() == "h" {
				idx--
			} else {
				idx++
			}
			n := len(model.CategoryIcons)
			idx = ((idx % n) + n) % n
			if err := m.cats.UpdateIcon(c.ID, model.CategoryIcons[idx]); err != nil {
				m.fail(err)
			}
		}
		return m, nil
	case "d":
		if st.cursor < len(cats) {
			c := cats[st.cursor]
			m.confirm = confirmState{
				kind:     confirmCategory,
				id:       c.ID,
				label:    c.Name,
				returnTo: modalCategories,
			}
			m.modal = modalConfirmDelete
		}
		return m, nil
	}
	return m, nil
}

func iconIndex(icon string) int {
	for i, name := range model.CategoryIcons {
		if name == icon {
			return i
		}
	}
	return 0
}

func (m appModel) viewCatManager() string {
	st := m.catEdit
	bodyW := modalBodyWidth(m.width)
	cats := m.cats.Categories()

	var lines []string
	if st.mode == catManagerAdd {
		nameLabel := "Name"
		iconLabel := "Icon"
		active := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
		if st.iconFocus {
			iconLabel = active.Render(iconLabel)
			nameLabel = styleMuted().Render(nameLabel)
		} else {
			nameLabel = active.Render(nameLabel)
			iconLabel = styleMuted().Render(iconLabel)
		}
		lines = append(lines,
			nameLabel,
			renderInputLine(bodyW, st.name.View()),
			iconLabel+"  "+glyphArrowLeft()+" "+glyphCategory(model.CategoryIcons[st.iconIdx])+" "+model.CategoryIcons[st.iconIdx]+" "+glyphArrowRight(),
			"",
			styleMuted().Width(bodyW).Render("tab: name/icon   enter: add   esc: back"),
		)
	} else {
		if len(cats) == 0 {
			lines = append(lines, styleMuted().Render("No categories yet."))
		}
		tasks := m.items.Tasks()
		notes := m.items.Notes()
		rowStyle := lipgloss.NewStyle().Width(bodyW)
		selStyle := rowStyle.Foreground(colorSelectedFg).Background(colorSelectedBg)
		for i, c := range cats {
			row := " " + glyphCategory(c.Icon) + " " + c.Name +
				styleMuted().Render("  "+c.Icon) +
				styleMuted().Render("  ("+strconv.Itoa(m.cats.CountFor(c.ID, tasks, notes))+")")
			if i == st.cursor {
				lines = append(lines, selStyle.Render(row))
			} else {
				lines = append(lines, rowStyle.Render(row))
			}
		}
		lines = append(lines, "",
			styleMuted().Width(bodyW).Render("a: add   left/right: icon   d: delete   esc: close"))
	}
	if m.status != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorDanger).Render(m.status))
	}

	return renderModalBox(m.width, "Categories", strings.Join(lines, "\n"))
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := &m.confirm

	switch msg.String() {
	case "tab", "left", "right":
		if st.focus == confirmFocusConfirm {
			st.focus = confirmFocusCancel
		} else {
			st.focus = confirmFocusConfirm
		}
		return m, nil
	case "esc", "n":
		m.modal = st.returnTo
		return m, nil
	case "y":
		return m.performDelete()
	case "enter":
		if st.focus == confirmFocusConfirm {
			return m.performDelete()
		}
		m.modal = st.returnTo
		return m, nil
	}
	return m, nil
}

func (m appModel) performDelete() (tea.Model, tea.Cmd) {
	st := m.confirm
	var err error
	switch st.kind {
	case confirmTask:
		err = m.items.RemoveTask(m.ctx, st.id)
	case confirmNote:
		err = m.items.RemoveNote(m.ctx, st.id)
	case confirmCategory:
		err = m.cats.Remove(st.id)
		if m.filter.CategoryID == st.id {
			m.filter.CategoryID = ""
			m.sidebarIdx = 0
		}
		if m.catEdit.cursor >= len(m.cats.Categories()) && m.catEdit.cursor > 0 {
			m.catEdit.cursor--
		}
	}
	if err != nil && !store.IsNotFound(err) {
		m.fail(err)
	}
	m.afterMutation()
	m.modal = st.returnTo
	return m, nil
}

func (m appModel) viewConfirm() string {
	st := m.confirm
	noun := "task"
	switch st.kind {
	case confirmNote:
		noun = "note"
	case confirmCategory:
		noun = "category"
	}
	body := "Delete " + noun + " \"" + st.label + "\"?"
	if st.kind == confirmCategory {
		body += "\nItems keep their reference and show as uncategorized."
	}
	return renderConfirmModal(m.width, "Confirm delete", body, "Delete", "Cancel", st.focus)
}

