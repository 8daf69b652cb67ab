package siter

import (
	"strings"
	"time"
)

// isoDateLayout is the fixed input format every page-date string must
// match, the Go reference-time spelling of the original's
// time.strptime(iso_date, '%Y-%m-%d').
const isoDateLayout = "2006-01-02"

// strftimeDirectives maps the subset of C strftime directives the
// original exposes to template authors (via datefmt's format-string
// argument) onto Go's reference-time layout tokens. There's no
// strftime-style formatter among the retrieved third-party libraries, so
// this table is the one piece of builtins_date.go that stays on the
// standard library (time.Time.Format).
var strftimeDirectives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'B': "January",
	'b': "Jan",
	'A': "Monday",
	'a': "Mon",
	'H': "15",
	'M': "04",
	'S': "05",
	'p': "PM",
}

// strftimeToGoLayout translates a strftime-style format string such as
// "%B %d, %Y" into the equivalent Go reference-time layout.
func strftimeToGoLayout(format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] == '%' && i+1 < len(format) {
			if layout, ok := strftimeDirectives[format[i+1]]; ok {
				b.WriteString(layout)
				i++
				continue
			}
		}
		b.WriteByte(format[i])
	}
	return b.String()
}

// builtinDatefmt implements `datefmt`: reparses an ISO (YYYY-MM-DD) date
// string and reformats it with a strftime-style layout. A date that
// doesn't parse is a warning, not a fatal error, and passes through
// unchanged — the Go port of CFunctions.datefmt.
func builtinDatefmt(ev *Evaluator, args []string) (string, error) {
	isoDate, format := args[0], args[1]

	t, err := time.Parse(isoDateLayout, isoDate)
	if err != nil {
		ev.warn(ErrValue, NameDatefmt, "date not in YYYY-MM-DD format: %s", isoDate)
		return isoDate, nil
	}

	return t.Format(strftimeToGoLayout(format)), nil
}

// FormatGenerated renders the current time as the ISO date string bound
// to siter's `generated` variable, mirroring
// time.strftime('%Y-%m-%d') used by _set_global_bindings.
func FormatGenerated(now time.Time) string {
	return now.Format(isoDateLayout)
}

// FormatModified renders a file's modification time the same way, for
// the page-local `modified` variable set by _set_local_bindings.
func FormatModified(modTime time.Time) string {
	return modTime.Format(isoDateLayout)
}
