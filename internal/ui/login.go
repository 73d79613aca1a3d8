package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loginState holds the sign-in form.
type loginState struct {
	active   bool
	inputs   [2]textinput.Model // username, password
	focusIdx int
	busy     bool
	errMsg   string
}

func newLoginState() loginState {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginState{inputs: [2]textinput.Model{username, password}}
}

func (l *loginState) open() {
	l.active = true
	l.busy = false
	l.errMsg = ""
	l.focusIdx = 0
	for i := range l.inputs {
		l.inputs[i].SetValue("")
		l.inputs[i].Blur()
	}
	l.inputs[0].Focus()
}

func (l *loginState) close() {
	l.active = false
	for i := range l.inputs {
		l.inputs[i].Blur()
	}
}

func (l *loginState) focusNext() {
	l.inputs[l.focusIdx].Blur()
	l.focusIdx = (l.focusIdx + 1) % len(l.inputs)
	l.inputs[l.focusIdx].Focus()
}

// handleLoginKey processes keyboard input while the sign-in form is open.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.busy {
		// A login request is in flight; only allow bailing out.
		if msg.String() == "esc" || msg.String() == "ctrl+c" {
			m.login.close()
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.login.close()
		return m, nil

	case "ctrl+c":
		return m, tea.Quit

	case "tab", "shift+tab", "up", "down":
		m.login.focusNext()
		return m, nil

	case "enter":
		if m.login.focusIdx == 0 {
			m.login.focusNext()
			return m, nil
		}
		username := strings.TrimSpace(m.login.inputs[0].Value())
		password := m.login.inputs[1].Value()
		if username == "" || password == "" {
			m.login.errMsg = "Username and password are required"
			return m, nil
		}
		m.login.busy = true
		m.login.errMsg = ""
		return m, m.loginCmd(username, password)
	}

	var cmd tea.Cmd
	m.login.inputs[m.login.focusIdx], cmd = m.login.inputs[m.login.focusIdx].Update(msg)
	return m, cmd
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		resp, err := client.Login(ctx, username, password)
		return loginResultMsg{resp: resp, err: err}
	}
}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.login.busy = false
	if msg.err != nil {
		m.login.errMsg = "Sign in failed; check your credentials"
		return m, nil
	}

	resp := msg.resp
	if err := m.session.Establish(resp.Access, resp.Refresh, resp.CSRF,
		resp.User.ID, resp.User.Username, resp.User.Email); err != nil {
		m.login.errMsg = "Could not save session"
		return m, nil
	}

	m.login.close()
	m.notices.Success("Signed in as " + resp.User.Username)
	m.currentView = ViewProducts

	// Pull the account's server-side cart now that we have a session.
	return m, tea.Batch(m.reloadCartCmd(), m.refreshCmd())
}

// renderLogin renders the sign-in modal.
func (m Model) renderLogin() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString(m.login.inputs[0].View())
	b.WriteString("\n")
	b.WriteString(m.login.inputs[1].View())
	b.WriteString("\n\n")

	switch {
	case m.login.busy:
		b.WriteString(styles.InfoText.Render("Signing in..."))
	case m.login.errMsg != "":
		b.WriteString(styles.DangerText.Render(m.login.errMsg))
	default:
		b.WriteString(styles.FaintText.Render("enter to submit, esc to cancel"))
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(44)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
