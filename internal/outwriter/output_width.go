package outwriter

import (
	"os"

	"github.com/huangsam/chartmap/internal/contract"
	"golang.org/x/term"
)

// GetMaxCauseWidth calculates the maximum width for failure causes in table output
// based on terminal width and the fixed report columns.
func GetMaxCauseWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Row + Status with borders/padding
	baseWidth := 25

	// Table borders, separators, and padding
	baseWidth += 10

	available := termWidth - baseWidth
	if available < 20 {
		return 20
	}
	if available > 100 {
		return 100
	}
	return available
}
