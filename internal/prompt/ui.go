// Package prompt adapts interactive input (huh forms or plain line reading) to
// the menu and configure flows.
package prompt

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/conn-castle/toolbelt/internal/messages"
	"github.com/conn-castle/toolbelt/internal/terminal"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New(messages.PromptCancelled)

// UI is the set of interactions the CLI needs.
type UI interface {
	Select(title string, options []string, current *string) error
	Input(title string, value *string) error
	SecretInput(title string, value *string) error
}

// New returns a huh-backed UI when stdin and stdout are terminals and a
// line-reading UI over in and out otherwise.
func New(in io.Reader, out io.Writer) UI {
	if in == os.Stdin && terminal.IsInteractive() {
		return NewHuhUI()
	}
	return NewLineUI(in, out)
}

// HuhUI implements UI using charmbracelet/huh.
type HuhUI struct{}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhUI returns a HuhUI.
func NewHuhUI() *HuhUI {
	return &HuhUI{}
}

func keyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "cancel"))
	km.Select.Filter.SetEnabled(false)
	km.Select.SetFilter.SetEnabled(false)
	km.Select.ClearFilter.SetEnabled(false)
	return km
}

// interruptFilter turns an InterruptMsg into QuitMsg so the form output is cleared on exit.
func interruptFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.InterruptMsg); ok {
		return tea.QuitMsg{}
	}
	return msg
}

func (ui *HuhUI) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field))
	form.WithKeyMap(keyMap())
	form.WithProgramOptions(
		tea.WithOutput(os.Stderr),
		tea.WithFilter(interruptFilter),
	)
	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}

// Select renders a single-choice prompt.
func (ui *HuhUI) Select(title string, options []string, current *string) error {
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, o)
	}
	return ui.run(huh.NewSelect[string]().Title(title).Options(opts...).Value(current))
}

// Input renders a plain text prompt.
func (ui *HuhUI) Input(title string, value *string) error {
	return ui.run(huh.NewInput().Title(title).Value(value))
}

// SecretInput renders a masked prompt.
func (ui *HuhUI) SecretInput(title string, value *string) error {
	return ui.run(huh.NewInput().Title(title).Value(value).EchoMode(huh.EchoModePassword))
}
