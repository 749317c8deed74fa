package contract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("start", "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"2024-3-15", "15-03-2024", "2024-02-30", "yesterday", "", "0001-01-01"} {
		_, err := ParseDate("start", bad)
		var dateErr *DateParseError
		require.ErrorAs(t, err, &dateErr, bad)
		assert.Equal(t, bad, dateErr.Value)
	}
}

func TestParseDateRangeRejectsFirstDay(t *testing.T) {
	_, err := ParseDateRange("", "0001-01-01")
	var dateErr *DateParseError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "end", dateErr.Field)

	r, err := ParseDateRange("", "0001-01-02")
	require.NoError(t, err)
	assert.True(t, r.IsBounded())
	assert.False(t, r.Contains(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{name: "unbounded"},
		{
			name:      "start only",
			start:     "2024-01-01",
			wantStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "end only",
			end:     " 2024-02-01 ",
			wantEnd: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "same day",
			start:     "2024-02-01",
			end:       "2024-02-01",
			wantStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{name: "reversed", start: "2024-03-01", end: "2024-02-01", wantErr: true},
		{name: "bad end", end: "02/01/2024", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseDateRange(tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, r.Start)
			assert.Equal(t, tt.wantEnd, r.End)
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "-", FormatDate(nil))
	ts := time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2023-12-31", FormatDate(&ts))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "abcdefg...", TruncateText("abcdefghijklmnop", 10))
	assert.Equal(t, "abcdef", TruncateText("abcdef", 3))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "fix: bug", FirstLine("fix: bug  \n\nbody text"))
	assert.Equal(t, "single", FirstLine("single"))
	assert.Equal(t, "", FirstLine(""))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("perhaps")
	assert.Error(t, err)
}

func TestColorHelpers(t *testing.T) {
	assert.Equal(t, "+12", ColorAdded(12, false))
	assert.Equal(t, "-4", ColorRemoved(4, false))
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestGetStoreDBFilePath(t *testing.T) {
	assert.Equal(t, ".repostat.db", filepath.Base(GetStoreDBFilePath()))
}

func TestLogWarnDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { LogWarn("something odd", errors.New("boom")) })
}
