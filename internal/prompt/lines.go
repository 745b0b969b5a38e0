package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/conn-castle/toolbelt/internal/errs"
	"github.com/conn-castle/toolbelt/internal/messages"
)

// LineUI reads answers one line at a time. Select renders a numbered menu
// where empty input picks the current option.
type LineUI struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineUI returns a LineUI over in and out.
func NewLineUI(in io.Reader, out io.Writer) *LineUI {
	return &LineUI{in: bufio.NewReader(in), out: out}
}

func (ui *LineUI) readLine() (string, error) {
	line, err := ui.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Select prints the numbered options and stores the chosen one in current.
func (ui *LineUI) Select(title string, options []string, current *string) error {
	if len(options) == 0 {
		return fmt.Errorf(messages.PromptNoOptionsFmt, errs.ErrInvalidInput, title)
	}
	def := 0
	for i, o := range options {
		if current != nil && o == *current {
			def = i
		}
	}
	_, _ = fmt.Fprintln(ui.out, title)
	for i, o := range options {
		suffix := ""
		if i == def {
			suffix = messages.PromptDefaultSuffix
		}
		_, _ = fmt.Fprintf(ui.out, messages.PromptOptionFmt, i+1, o, suffix)
	}
	_, _ = fmt.Fprintf(ui.out, messages.PromptSelectFmt, def+1)

	answer, err := ui.readLine()
	if err != nil {
		return err
	}
	choice := def
	if answer != "" {
		n, convErr := strconv.Atoi(answer)
		if convErr != nil || n < 1 || n > len(options) {
			return fmt.Errorf(messages.PromptInvalidSelectionFmt, errs.ErrInvalidInput, answer, len(options))
		}
		choice = n - 1
	}
	*current = options[choice]
	return nil
}

// Input prints title and reads one line into value; an empty answer keeps value.
func (ui *LineUI) Input(title string, value *string) error {
	if *value != "" {
		_, _ = fmt.Fprintf(ui.out, messages.PromptInputDefaultFmt, title, *value)
	} else {
		_, _ = fmt.Fprintf(ui.out, messages.PromptInputFmt, title)
	}
	answer, err := ui.readLine()
	if err != nil {
		return err
	}
	if answer != "" {
		*value = answer
	}
	return nil
}

// SecretInput reads like Input but never echoes the existing value.
func (ui *LineUI) SecretInput(title string, value *string) error {
	_, _ = fmt.Fprintf(ui.out, messages.PromptInputFmt, title)
	answer, err := ui.readLine()
	if err != nil {
		return err
	}
	if answer != "" {
		*value = answer
	}
	return nil
}
