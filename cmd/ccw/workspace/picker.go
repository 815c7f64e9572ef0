// Copyright 2026 The CCW Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ccw-tools/ccw/lib/template"
)

// pickerKeyMap defines the key bindings for the template picker.
// Vim-style navigation (j/k) alongside standard arrow keys.
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

var defaultPickerKeys = pickerKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "cancel"),
	),
}

var (
	pickerTitleStyle    = lipgloss.NewStyle().Bold(true)
	pickerSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	pickerDimStyle      = lipgloss.NewStyle().Faint(true)
)

// pickerModel is the bubbletea model behind the template picker that
// "ccw init" shows when --template is omitted on a terminal. The list
// is short (built-ins plus overlays), so there is no paging; the
// cursor wraps at both ends.
type pickerModel struct {
	templates []template.Template
	keys      pickerKeyMap
	cursor    int
	choice    string
	cancelled bool
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.cursor--
		if m.cursor < 0 {
			m.cursor = len(m.templates) - 1
		}
	case key.Matches(keyMsg, m.keys.Down):
		m.cursor++
		if m.cursor >= len(m.templates) {
			m.cursor = 0
		}
	case key.Matches(keyMsg, m.keys.Select):
		m.choice = m.templates[m.cursor].Name
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Quit):
		m.cancelled = true
		return m, tea.Quit
	}

	return m, nil
}

func (m pickerModel) View() string {
	nameWidth := 0
	for _, tmpl := range m.templates {
		if len(tmpl.Name) > nameWidth {
			nameWidth = len(tmpl.Name)
		}
	}

	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("Select a workspace template") + "\n\n")
	for index, tmpl := range m.templates {
		name := fmt.Sprintf("%-*s", nameWidth, tmpl.Name)
		if index == m.cursor {
			b.WriteString(pickerSelectedStyle.Render("> " + name))
		} else {
			b.WriteString("  " + name)
		}
		if tmpl.Description != "" {
			b.WriteString("  " + pickerDimStyle.Render(tmpl.Description))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + pickerDimStyle.Render("j/k move · enter select · q cancel") + "\n")
	return b.String()
}

// pickTemplate runs the interactive picker and returns the chosen
// template name. Cancelling the picker aborts the init.
func pickTemplate(templates []template.Template) (string, error) {
	if len(templates) == 0 {
		return "", fmt.Errorf("no templates available")
	}

	model := pickerModel{templates: templates, keys: defaultPickerKeys}
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", fmt.Errorf("template picker: %w", err)
	}

	result := final.(pickerModel)
	if result.cancelled || result.choice == "" {
		return "", fmt.Errorf("init cancelled")
	}
	return result.choice, nil
}
