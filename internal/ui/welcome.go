package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/shadowkick/internal/models"
)

func newLoginForm() form {
	return newForm(
		field{label: "Username", placeholder: "username"},
		field{label: "Password", placeholder: "password", secret: true},
	)
}

func newSignupForm() form {
	return newForm(
		field{label: "Username", placeholder: "username"},
		field{label: "Password", placeholder: "password", secret: true},
		field{label: "Email", placeholder: "you@example.com"},
		field{label: "Birthday", placeholder: "YYYY-MM-DD (optional)"},
	)
}

func (m *Model) activeForm() *form {
	if m.registering {
		return &m.signup
	}
	return &m.login
}

func (m *Model) handleWelcomeKey(msg tea.KeyMsg) tea.Cmd {
	f := m.activeForm()
	switch {
	case key.Matches(msg, m.keys.mode):
		m.registering = !m.registering
		return m.activeForm().setFocus(0)
	case key.Matches(msg, m.keys.enter):
		if f.focus < len(f.inputs)-1 {
			return f.cycle(1, len(f.inputs))
		}
		if m.registering {
			return m.submitSignup()
		}
		return m.submitLogin()
	case key.Matches(msg, m.keys.next):
		return f.cycle(1, len(f.inputs))
	case key.Matches(msg, m.keys.prev):
		return f.cycle(-1, len(f.inputs))
	}
	return f.update(msg)
}

func (m *Model) submitLogin() tea.Cmd {
	creds := models.Credentials{Username: m.login.value(0), Password: m.login.raw(1)}
	ctx, api, logger, notices := m.ctx, m.api, m.logger, m.notices
	return func() tea.Msg {
		_, err := api.Login(ctx, creds)
		if err != nil {
			logger.Error("login failed", "err", err)
			notify(notices, errorNotice(err))
		}
		return loggedInMsg(err)
	}
}

func (m *Model) submitSignup() tea.Cmd {
	reg := models.Registration{
		Username: m.signup.value(0),
		Password: m.signup.raw(1),
		Email:    m.signup.value(2),
		Birthday: m.signup.value(3),
	}
	ctx, api, logger, notices := m.ctx, m.api, m.logger, m.notices
	return func() tea.Msg {
		_, err := api.Register(ctx, reg)
		if err != nil {
			logger.Error("registration failed", "err", err)
			notify(notices, errorNotice(err))
			return registeredMsg(err)
		}
		notify(notices, successNotice("Registration successful! Please log in."))
		return registeredMsg(nil)
	}
}

func (m *Model) welcomeView() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("ShadowKick"))
	b.WriteString("\n")
	if m.registering {
		b.WriteString(styles.selected.Render("Sign up"))
		b.WriteString("\n\n")
		b.WriteString(m.signup.view())
	} else {
		b.WriteString(styles.selected.Render("Log in"))
		b.WriteString("\n\n")
		b.WriteString(m.login.view())
	}
	return b.String()
}
