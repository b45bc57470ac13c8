package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskpad/internal/store"
)

type loginMode int

const (
	loginModeSignIn loginMode = iota
	loginModeRegister
)

const (
	loginFieldEmail = iota
	loginFieldPassword
	loginFieldConfirm
	loginFieldName
)

type loginModel struct {
	mode   loginMode
	inputs []textinput.Model
	focus  int
	errMsg string
}

func newLoginModel() loginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.EchoMode = textinput.EchoPassword
	confirm.CharLimit = 128

	name := textinput.New()
	name.Placeholder = "display name (optional)"
	name.CharLimit = 64

	return loginModel{
		inputs: []textinput.Model{email, password, confirm, name},
	}
}

func (l *loginModel) fieldCount() int {
	if l.mode == loginModeRegister {
		return 4
	}
	return 2
}

func (l *loginModel) setFocus(i int) {
	n := l.fieldCount()
	l.focus = ((i % n) + n) % n
	for j := range l.inputs {
		if j == l.focus {
			l.inputs[j].Focus()
		} else {
			l.inputs[j].Blur()
		}
	}
}

func (l *loginModel) toggleMode() {
	if l.mode == loginModeSignIn {
		l.mode = loginModeRegister
	} else {
		l.mode = loginModeSignIn
	}
	l.errMsg = ""
	l.setFocus(0)
}

func (m appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &m.login

	switch msg.String() {
	case "tab", "down", "enter":
		if msg.String() == "enter" && l.focus == l.fieldCount()-1 {
			return m.submitLogin()
		}
		l.setFocus(l.focus + 1)
		return m, nil
	case "shift+tab", "up":
		l.setFocus(l.focus - 1)
		return m, nil
	case "ctrl+t":
		l.toggleMode()
		return m, nil
	case "ctrl+d":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	l.inputs[l.focus], cmd = l.inputs[l.focus].Update(msg)
	return m, cmd
}

func (m appModel) submitLogin() (tea.Model, tea.Cmd) {
	l := &m.login
	email := strings.TrimSpace(l.inputs[loginFieldEmail].Value())
	password := l.inputs[loginFieldPassword].Value()

	if l.mode == loginModeRegister {
		if password != l.inputs[loginFieldConfirm].Value() {
			l.errMsg = "passwords do not match"
			return m, nil
		}
		p, err := m.deps.Auth.Register(m.ctx, email, password, l.inputs[loginFieldName].Value())
		if err != nil {
			l.errMsg = err.Error()
			return m, nil
		}
		if err := m.enterMain(p); err != nil {
			l.errMsg = err.Error()
		}
		return m, nil
	}

	p, err := m.deps.Auth.Login(m.ctx, email, password)
	if err != nil {
		if store.IsValidation(err) || store.IsNotFound(err) {
			l.errMsg = err.Error()
		} else {
			l.errMsg = "sign-in failed: " + err.Error()
		}
		return m, nil
	}
	if err := m.enterMain(p); err != nil {
		l.errMsg = err.Error()
	}
	return m, nil
}

func (m appModel) viewLogin() string {
	l := m.login

	title := "Sign in to Taskpad"
	action := "ctrl+t: create an account"
	if l.mode == loginModeRegister {
		title = "Create a Taskpad account"
		action = "ctrl+t: back to sign-in"
	}

	bodyW := modalBodyWidth(m.width)
	var lines []string
	labels := []string{"Email", "Password", "Confirm", "Name"}
	for i := 0; i < l.fieldCount(); i++ {
		lines = append(lines, styleMuted().Render(labels[i]))
		lines = append(lines, renderInputLine(bodyW, l.inputs[i].View()))
	}
	if l.errMsg != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(colorDanger).Render(l.errMsg))
	}
	lines = append(lines, "", styleMuted().Width(bodyW).Render("tab: next   enter: submit   "+action))

	box := renderModalBox(m.width, title, strings.Join(lines, "\n"))
	return overlayCenter(m.width, m.height, box)
}
