package core

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// spinner reports how many commits have been folded so far.
// A nil spinner is valid and does nothing.
type spinner struct {
	bar *progressbar.ProgressBar
}

// newSpinner returns a spinner on stderr, or nil when stderr is not a terminal.
func newSpinner(label string) *spinner {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	return newSpinnerTo(os.Stderr, label)
}

func newSpinnerTo(w io.Writer, label string) *spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &spinner{bar: bar}
}

// Tick advances the spinner by one commit.
func (s *spinner) Tick() {
	if s == nil {
		return
	}
	_ = s.bar.Add(1)
}

// Describe replaces the label shown next to the spinner.
func (s *spinner) Describe(format string, args ...any) {
	if s == nil {
		return
	}
	s.bar.Describe(fmt.Sprintf(format, args...))
}

// Finish clears the spinner from the terminal.
func (s *spinner) Finish() {
	if s == nil {
		return
	}
	_ = s.bar.Finish()
}
