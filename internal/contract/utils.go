package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/repostat/schema"
	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. It writes human-readable lines to stderr.
var Logger = newLogger()

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logger
}

// SetVerbose switches the logger between info and debug levels.
func SetVerbose(verbose bool) {
	if verbose {
		Logger.SetLevel(logrus.DebugLevel)
		return
	}
	Logger.SetLevel(logrus.InfoLevel)
}

// Color variables for console output.
var (
	HeaderColor  = color.New(color.FgCyan, color.Bold) // section titles
	AddedColor   = color.New(color.FgGreen)            // lines added
	RemovedColor = color.New(color.FgRed)              // lines removed
)

// ColorAdded formats a lines-added count, colored when enabled.
func ColorAdded(n int, enabled bool) string {
	s := fmt.Sprintf("+%d", n)
	if !enabled {
		return s
	}
	return AddedColor.Sprint(s)
}

// ColorRemoved formats a lines-removed count, colored when enabled.
func ColorRemoved(n int, enabled bool) string {
	s := fmt.Sprintf("-%d", n)
	if !enabled {
		return s
	}
	return RemovedColor.Sprint(s)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.WithError(err).Error(msg)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger.WithError(err).Warn(msg)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for stored statistics.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".repostat.db"
	}
	return filepath.Join(homeDir, ".repostat.db")
}

var errFirstDay = errors.New("dates must be after 0001-01-01")

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
// field names the flag in the returned DateParseError.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(schema.DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, &DateParseError{Field: field, Value: value, Err: err}
	}
	// The zero time marks an unbounded side of a DateRange.
	if t.IsZero() {
		return time.Time{}, &DateParseError{Field: field, Value: value, Err: errFirstDay}
	}
	return t, nil
}

// ParseDateRange parses optional start and end strings into a DateRange.
// Empty strings leave that side unbounded.
func ParseDateRange(start, end string) (schema.DateRange, error) {
	var r schema.DateRange
	if start = strings.TrimSpace(start); start != "" {
		t, err := ParseDate("start", start)
		if err != nil {
			return r, err
		}
		r.Start = t
	}
	if end = strings.TrimSpace(end); end != "" {
		t, err := ParseDate("end", end)
		if err != nil {
			return r, err
		}
		r.End = t
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
		return r, fmt.Errorf("start date (%s) cannot be after end date (%s)", start, end)
	}
	return r, nil
}

// FormatDate renders an optional timestamp as YYYY-MM-DD, or "-" when unset.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(schema.DateLayout)
}

// TruncateText truncates s to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one rune.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// FirstLine returns the first line of a commit message without trailing whitespace.
func FirstLine(msg string) string {
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return strings.TrimRight(msg, " \t\r")
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
