package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/examdesk/examdesk/internal/ui/theme"
)

// Confirm is a yes/no modal. It answers with ConfirmMsg carrying Tag so a
// screen can run several kinds of confirmation through one component.
type Confirm struct {
	Tag    string
	Title  string
	Lines  []string
	Yes    string
	No     string
	active int // 0 yes, 1 no
	open   bool
}

// ConfirmMsg is the user's answer.
type ConfirmMsg struct {
	Tag string
	Yes bool
}

// NewConfirm returns an open modal with "No" preselected.
func NewConfirm(tag, title string, lines ...string) Confirm {
	return Confirm{Tag: tag, Title: title, Lines: lines, Yes: "Yes", No: "No", active: 1, open: true}
}

// Open reports whether the modal is showing.
func (c Confirm) Open() bool { return c.open }

// Update handles y/n, left/right and enter. Esc answers no.
func (c Confirm) Update(msg tea.Msg) (Confirm, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !c.open {
		return c, nil
	}
	switch kmsg.String() {
	case "y", "Y":
		return c.answer(true)
	case "n", "N", "esc":
		return c.answer(false)
	case "left", "h", "right", "l", "tab":
		c.active = 1 - c.active
	case "enter":
		return c.answer(c.active == 0)
	}
	return c, nil
}

func (c Confirm) answer(yes bool) (Confirm, tea.Cmd) {
	c.open = false
	tag := c.Tag
	return c, func() tea.Msg { return ConfirmMsg{Tag: tag, Yes: yes} }
}

// View renders the modal box.
func (c Confirm) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(c.Title))
	b.WriteString("\n\n")
	for _, l := range c.Lines {
		b.WriteString(theme.Body.Render(l))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(ButtonRow([]string{c.Yes + " (y)", c.No + " (n)"}, c.active))
	return theme.Modal.Render(b.String())
}
