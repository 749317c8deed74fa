package outwriter

import (
	"os"

	"github.com/huangsam/repostat/internal/contract"
	"golang.org/x/term"
)

// getMaxNameWidth calculates the maximum width for contributor names and paths in
// table output based on terminal width.
func getMaxNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Commits + Lines + dates with borders and padding
	const baseWidth = 70

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 48 {
		return 48
	}
	return available
}
