package timex

import "time"

// StampFormat is the timestamp layout the vendor API uses everywhere,
// e.g. "2024-01-15T12:30:45.000Z". Fractional seconds are always three
// digits and the zone is a literal Z.
const StampFormat = "2006-01-02T15:04:05.000Z"

// ParseStamp parses a vendor API timestamp.
func ParseStamp(s string) (time.Time, error) {
	return time.Parse(StampFormat, s)
}

// FormatStamp renders t in the vendor API timestamp layout.
func FormatStamp(t time.Time) string {
	return t.UTC().Format(StampFormat)
}

// PathSafeStamp renders t in a form safe for file names, e.g.
// "20240115T143045".
func PathSafeStamp(t time.Time) string {
	return t.Format("20060102T150405")
}
