package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/ui/theme"
)

// OptionList renders a question's options with a cursor and the saved
// answer. It reports choices through OptionChosenMsg instead of storing
// them, since the session owns the answer.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  int // -1 when unanswered
}

// OptionChosenMsg is emitted when the user picks an option.
type OptionChosenMsg struct{ Index int }

func NewOptionList(options []string, chosen int) OptionList {
	cursor := 0
	if chosen >= 0 && chosen < len(options) {
		cursor = chosen
	}
	return OptionList{Options: options, Cursor: cursor, Chosen: chosen}
}

// Update moves the cursor and maps 1-9, a-i and enter to a choice.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
		return o, nil
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
		return o, nil
	case "enter", "space":
		return o.choose(o.Cursor)
	}

	if idx, ok := OptionKey(key, len(o.Options)); ok {
		return o.choose(idx)
	}
	return o, nil
}

func (o OptionList) choose(i int) (OptionList, tea.Cmd) {
	if i < 0 || i >= len(o.Options) {
		return o, nil
	}
	o.Cursor = i
	o.Chosen = i
	return o, func() tea.Msg { return OptionChosenMsg{Index: i} }
}

// OptionKey maps "1".."9" and "a".."i" to an option index below n.
func OptionKey(key string, n int) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	var idx int
	switch {
	case c >= '1' && c <= '9':
		idx = int(c - '1')
	case c >= 'a' && c <= 'i':
		idx = int(c - 'a')
	default:
		return 0, false
	}
	if idx >= n {
		return 0, false
	}
	return idx, true
}

// View renders the options, wrapping long text to width.
func (o OptionList) View(width int) string {
	var b strings.Builder
	textWidth := width - 8
	if textWidth < 10 {
		textWidth = 10
	}
	for i, opt := range o.Options {
		marker := "( )"
		if i == o.Chosen {
			marker = "(•)"
		}
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}

		style := theme.Unselected
		switch {
		case i == o.Chosen:
			style = theme.Correct.Foreground(theme.Secondary)
		case i == o.Cursor:
			style = theme.Selected
		}

		label := fmt.Sprintf("%s%s %s) ", prefix, marker, exam.OptionLabel(i))
		text := lipgloss.NewStyle().Width(textWidth - lipgloss.Width(label)).Render(opt)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, style.Render(label), style.Render(text)))
		b.WriteString("\n")
	}
	return b.String()
}
