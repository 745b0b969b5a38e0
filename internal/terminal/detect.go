// Package terminal detects whether the process can run interactive prompts.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether os.Stdin and os.Stdout are both terminals.
func IsInteractive() bool {
	return Interactive(os.Stdin, os.Stdout)
}

// Interactive reports whether in and out are both terminals.
func Interactive(in *os.File, out *os.File) bool {
	if in == nil || out == nil {
		return false
	}
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}
