package chromedb

import "time"

// Chrome stores times as microseconds since 1601-01-01 00:00:00 UTC.
// The offset to the Unix epoch is 11644473600 seconds. The artifact's
// consumer validates this format strictly, so the conversion is exact.
const epochOffsetSec = 11644473600

// ToChromeTime converts a time to Chrome's native representation.
func ToChromeTime(t time.Time) int64 {
	u := t.UTC()
	return (u.Unix()+epochOffsetSec)*1_000_000 + int64(u.Nanosecond()/1000)
}

// FromChromeTime converts Chrome microseconds back to a UTC time.
func FromChromeTime(v int64) time.Time {
	sec := v/1_000_000 - epochOffsetSec
	usec := v % 1_000_000
	return time.Unix(sec, usec*1000).UTC()
}
