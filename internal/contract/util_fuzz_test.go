package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseDate fuzzes ParseDate with arbitrary strings.
func FuzzParseDate(f *testing.F) {
	for _, seed := range []string{"2024-01-01", "1999-12-31", "2024-02-30", "", "not-a-date", "0000-00-00"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, value string) {
		got, err := ParseDate("start", value)
		if err != nil {
			return
		}
		if got.Location().String() != "UTC" {
			t.Fatalf("ParseDate(%q) returned non-UTC time %v", value, got)
		}
		if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
			t.Fatalf("ParseDate(%q) returned non-midnight time %v", value, got)
		}
	})
}

// FuzzTruncateText fuzzes TruncateText with random strings and widths.
func FuzzTruncateText(f *testing.F) {
	f.Add("hello world", 5)
	f.Add("", 0)
	f.Add("日本語のテキスト", 4)

	f.Fuzz(func(t *testing.T, s string, width int) {
		out := TruncateText(s, width)
		if width > 3 && utf8.RuneCountInString(s) > width && len([]rune(out)) != width {
			t.Fatalf("TruncateText(%q, %d) = %q has wrong length", s, width, out)
		}
	})
}
