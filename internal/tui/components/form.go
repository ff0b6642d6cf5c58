package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/newsdesk/internal/tui/styles"
)

// FormField describes one input of a form
type FormField struct {
	Label       string
	Placeholder string
	Password    bool
	CharLimit   int
}

// Form is a vertical stack of text inputs with a submit button.
// The error line stays until the next submission.
type Form struct {
	title  string
	submit string
	labels []string
	inputs []textinput.Model
	focus  int // len(inputs) = submit button

	err        string
	submitting bool
}

// NewForm creates a form with the given fields
func NewForm(title, submit string, fields ...FormField) *Form {
	f := &Form{title: title, submit: submit}
	for _, field := range fields {
		ti := textinput.New()
		ti.Placeholder = field.Placeholder
		ti.Prompt = ""
		ti.Width = 32
		ti.CharLimit = 100
		if field.CharLimit > 0 {
			ti.CharLimit = field.CharLimit
		}
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
		ti.PlaceholderStyle = styles.DimStyle
		if field.Password {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.labels = append(f.labels, field.Label)
		f.inputs = append(f.inputs, ti)
	}
	return f
}

// Focus focuses the first field
func (f *Form) Focus() tea.Cmd {
	f.focus = 0
	return f.refocus()
}

// Reset clears every field and the error line
func (f *Form) Reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.err = ""
	f.submitting = false
	f.focus = 0
	f.refocus()
}

// Value returns the contents of field i
func (f *Form) Value(i int) string {
	return f.inputs[i].Value()
}

// SetValue sets the contents of field i
func (f *Form) SetValue(i int, v string) {
	f.inputs[i].SetValue(v)
}

// SetError shows an inline error and ends the submission
func (f *Form) SetError(msg string) {
	f.err = msg
	f.submitting = false
}

// Error returns the inline error
func (f *Form) Error() string {
	return f.err
}

// SetSubmitting marks the form as waiting for the server
func (f *Form) SetSubmitting(v bool) {
	f.submitting = v
}

// IsSubmitting reports whether the form is waiting for the server
func (f *Form) IsSubmitting() bool {
	return f.submitting
}

func (f *Form) refocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

// Update handles input events. It reports true when the form is submitted:
// enter on the last field or on the button. Input is ignored while a
// submission is in flight.
func (f *Form) Update(msg tea.Msg) (tea.Cmd, bool) {
	if f.submitting {
		return nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, FormKeys.Next):
			f.focus = (f.focus + 1) % (len(f.inputs) + 1)
			return f.refocus(), false
		case key.Matches(keyMsg, FormKeys.Prev):
			f.focus = (f.focus + len(f.inputs)) % (len(f.inputs) + 1)
			return f.refocus(), false
		case key.Matches(keyMsg, FormKeys.Submit):
			if f.focus >= len(f.inputs)-1 {
				f.err = ""
				f.submitting = true
				return nil, true
			}
			f.focus++
			return f.refocus(), false
		}
	}

	if f.focus >= len(f.inputs) {
		return nil, false
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd, false
}

// View renders the form. spinner is shown on the button while submitting.
func (f *Form) View(spinner string) string {
	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render(f.title))
	b.WriteString("\n")

	for i, input := range f.inputs {
		label := styles.LabelStyle
		if i == f.focus {
			label = styles.FocusedLabelStyle
		}
		b.WriteString(label.Render(f.labels[i]))
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	button := styles.ButtonStyle
	if f.focus == len(f.inputs) {
		button = styles.FocusedButtonStyle
	}
	b.WriteString(button.Render(f.submit))
	if f.submitting {
		b.WriteString(" " + spinner)
	}

	if f.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.ErrorStyle.Render(f.err))
	}
	return styles.ModalStyle.Render(b.String())
}
