package contract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/chartmap/schema"
)

// Color variables for console output.
var (
	FailedColor    = color.New(color.FgRed, color.Bold) // FailedColor marks rows that errored.
	CanceledColor  = color.New(color.FgMagenta)         // CanceledColor marks rows never dispatched.
	NoDataColor    = color.New(color.FgYellow)          // NoDataColor marks rows without a cache.
	SucceededColor = color.New(color.FgGreen)           // SucceededColor marks rows with resolved pixels.
	EmptyColor     = color.New(color.FgCyan)            // EmptyColor marks caches without resolved pixels.
)

// GetStatusLabel returns a colored row status for console output (table).
func GetStatusLabel(status schema.RowStatus) string {
	text := string(status)

	switch status {
	case schema.RowFailed:
		return FailedColor.Sprint(text)
	case schema.RowCanceled:
		return CanceledColor.Sprint(text)
	case schema.RowNoData:
		return NoDataColor.Sprint(text)
	case schema.RowSucceeded:
		return SucceededColor.Sprint(text)
	default:
		return EmptyColor.Sprint(text)
	}
}

// CheckOutputPath fails with ErrOutputExists when path exists and overwrite is not set.
func CheckOutputPath(path string, overwrite bool) error {
	_, err := os.Stat(path)
	switch {
	case err == nil && !overwrite:
		return fmt.Errorf("%w: %s", ErrOutputExists, path)
	case err == nil, errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("failed to check output %q: %w", path, err)
	}
}

// CheckInputPath fails with ErrInputUnreadable when path cannot be stat'ed.
func CheckInputPath(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %v", ErrInputUnreadable, err)
	}
	return nil
}

// GetRunDBFilePath returns the path to the SQLite DB file for run tracking.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".chartmap_runs.db"
	}
	return filepath.Join(homeDir, ".chartmap_runs.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(ExitCode(err))
}
