package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field struct {
	label       string
	placeholder string
	secret      bool
}

// form is a vertical stack of text inputs with one focused at a time.
type form struct {
	fields []field
	inputs []textinput.Model
	focus  int
}

func newForm(fields ...field) form {
	f := form{fields: fields, inputs: make([]textinput.Model, len(fields))}
	for i, fd := range fields {
		ti := textinput.New()
		ti.Placeholder = fd.placeholder
		ti.CharLimit = 128
		ti.Width = 32
		if fd.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.inputs[i] = ti
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// raw returns the input without trimming.
func (f form) raw(i int) string {
	return f.inputs[i].Value()
}

func (f *form) set(i int, v string) {
	f.inputs[i].SetValue(v)
}

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.setFocus(0)
}

// setFocus moves focus to i. Indexes past the last input blur every input.
func (f *form) setFocus(i int) tea.Cmd {
	f.focus = i
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == i {
			cmd = f.inputs[j].Focus()
			continue
		}
		f.inputs[j].Blur()
	}
	return cmd
}

// cycle moves focus by delta, wrapping over stops positions.
func (f *form) cycle(delta, stops int) tea.Cmd {
	if stops <= 0 {
		return nil
	}
	return f.setFocus(((f.focus+delta)%stops + stops) % stops)
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	if f.focus < 0 || f.focus >= len(f.inputs) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f form) view() string {
	var b strings.Builder
	for i, fd := range f.fields {
		label := fmt.Sprintf("%-10s", fd.label)
		if i == f.focus {
			label = styles.selected.Render(label)
		} else {
			label = styles.dim.Render(label)
		}
		fmt.Fprintf(&b, "%s %s\n", label, f.inputs[i].View())
	}
	return b.String()
}
