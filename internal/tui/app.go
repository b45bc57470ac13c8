package tui

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"taskpad/internal/auth"
	"taskpad/internal/model"
	"taskpad/internal/store"
)

// Deps is everything the interactive TUI needs from the caller.
type Deps struct {
	ConfigDir string
	Settings  store.Settings
	DB        *store.SQLite
	Auth      *auth.Service
}

type view int

const (
	viewLogin view = iota
	viewMain
)

type tab int

const (
	tabTasks tab = iota
	tabNotes
)

type paneFocus int

const (
	focusSidebar paneFocus = iota
	focusList
)

type modalKind int

const (
	modalNone modalKind = iota
	modalTaskEdit
	modalNoteEdit
	modalCategories
	modalConfirmDelete
)

// reloadSignal is flipped by the item store's change notification and
// consumed after mutations to re-clamp list cursors.
type reloadSignal struct{ dirty atomic.Bool }

func (r *reloadSignal) mark() { r.dirty.Store(true) }

func (r *reloadSignal) consume() bool { return r.dirty.Swap(false) }

type appModel struct {
	ctx  context.Context
	deps Deps

	width  int
	height int

	view view

	login loginModel

	profile  model.Profile
	items    *store.ItemStore
	cats     *store.CategoryIndex
	filter   store.ViewFilter
	reloaded *reloadSignal

	tab        tab
	focus      paneFocus
	sidebarIdx int
	listIdx    int

	modal    modalKind
	taskEdit taskEditState
	noteEdit noteEditState
	catEdit  catEditState
	confirm  confirmState

	// Transient one-line feedback (errors, mostly).
	status string
}

// Run starts the interactive TUI. It blocks until the user quits.
func Run(ctx context.Context, deps Deps) error {
	applyColorProfilePreference()
	applyThemePreference(deps.Settings.Theme)
	applyGlyphPreference(deps.Settings.Glyphs)

	m, err := newAppModel(ctx, deps)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func newAppModel(ctx context.Context, deps Deps) (appModel, error) {
	m := appModel{
		ctx:   ctx,
		deps:  deps,
		view:  viewLogin,
		login: newLoginModel(),
	}

	p, ok, err := deps.Auth.CurrentUser(ctx)
	if err != nil {
		return appModel{}, err
	}
	if ok {
		if err := m.enterMain(p); err != nil {
			return appModel{}, err
		}
	}
	return m, nil
}

// enterMain loads the signed-in user's collections and switches to the main
// view.
func (m *appModel) enterMain(p model.Profile) error {
	items := store.NewItemStore(m.deps.DB, p.UID)
	sig := &reloadSignal{}
	items.Subscribe(sig.mark)
	if err := items.LoadTasks(m.ctx); err != nil {
		return err
	}
	if err := items.LoadNotes(m.ctx); err != nil {
		return err
	}
	cats, err := store.LoadCategories(m.deps.ConfigDir)
	if err != nil {
		return err
	}

	status, err := store.ParseStatusFilter(m.deps.Settings.DefaultFilter)
	if err != nil {
		status = store.StatusAll
	}

	m.profile = p
	m.items = items
	m.cats = cats
	m.reloaded = sig
	m.filter = store.ViewFilter{Status: status}
	m.view = viewMain
	m.focus = focusList
	m.sidebarIdx = 0
	m.listIdx = 0
	m.status = ""
	return nil
}

func (m *appModel) leaveMain() {
	m.view = viewLogin
	m.login = newLoginModel()
	m.items = nil
	m.cats = nil
	m.profile = model.Profile{}
	m.modal = modalNone
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeEditors()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.view == viewLogin {
			return m.updateLogin(msg)
		}
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m appModel) View() string {
	if m.width == 0 {
		return ""
	}
	if m.view == viewLogin {
		return m.viewLogin()
	}
	base := m.viewMain()
	if m.modal != modalNone {
		return overlayCenter(m.width, m.height, m.viewModal())
	}
	return base
}

// afterMutation consumes the reload notification and keeps the list cursor
// inside the (possibly shrunk) visible subset.
func (m *appModel) afterMutation() {
	if m.reloaded != nil {
		m.reloaded.consume()
	}
	m.clampListIdx()
}

func (m *appModel) clampListIdx() {
	n := m.visibleCount()
	if m.listIdx >= n {
		m.listIdx = n - 1
	}
	if m.listIdx < 0 {
		m.listIdx = 0
	}
}

func (m *appModel) visibleCount() int {
	if m.tab == tabTasks {
		return len(m.filter.VisibleTasks(m.items.Tasks()))
	}
	return len(m.filter.VisibleNotes(m.items.Notes()))
}

// fail records a user-visible error line. Validation and remote errors are
// both shown inline; state is left as the store layer left it.
func (m *appModel) fail(err error) {
	if err == nil {
		m.status = ""
		return
	}
	m.status = err.Error()
}
