package export

import (
	"regexp"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/nizy/tailor/internal/domain/shared/valueobject"
)

const (
	// DisplayDateLayout renders dates as "Oct 15, 2026"
	DisplayDateLayout = "Jan 2, 2006"
	// GeneratedLayout renders report timestamps as "Oct 15, 2026 11:30 AM"
	GeneratedLayout = "Jan 2, 2006 3:04 PM"
	// FileStampLayout is the timestamp embedded in batch file names
	FileStampLayout = "20060102_1504"

	emptyCell = "-"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// FormatMoney renders an amount with the currency symbol and its stored
// precision
func FormatMoney(m valueobject.Money) string {
	return m.Format()
}

// FormatDate renders a calendar date, or "-" when unset
func FormatDate(d valueobject.Date) string {
	if d.IsZero() {
		return emptyCell
	}
	return d.Format(DisplayDateLayout)
}

// GeneratedOn renders the report generation line
func GeneratedOn(t time.Time) string {
	return "Generated on: " + t.Format(GeneratedLayout)
}

// SafeName replaces every run of whitespace with a single underscore
func SafeName(s string) string {
	return whitespaceRun.ReplaceAllString(s, "_")
}

// orDash returns s, or "-" when it is empty
func orDash(s string) string {
	if s == "" {
		return emptyCell
	}
	return s
}

// capitalize upper-cases the first letter and keeps the rest as is
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
