/*
fixdecoder — FIX protocol decoder tools
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/
package fix

import (
	"fmt"
	"time"
)

const (
	timestampSecondsLen = len("20060102-15:04:05")
	timestampMillisLen  = len("20060102-15:04:05.000")
)

type TimestampErrorKind int

const (
	TimestampTooShort TimestampErrorKind = iota
	TimestampMalformed
	TimestampNotNumeric
	TimestampDateOutOfRange
	TimestampTimeOutOfRange
)

func (k TimestampErrorKind) String() string {
	switch k {
	case TimestampTooShort:
		return "too short"
	case TimestampMalformed:
		return "malformed"
	case TimestampNotNumeric:
		return "non-numeric component"
	case TimestampDateOutOfRange:
		return "date out of range"
	case TimestampTimeOutOfRange:
		return "time out of range"
	}
	return "unknown"
}

// TimestampError describes why a UTCTimestamp could not be parsed. Part is
// the offending substring of Input.
type TimestampError struct {
	Kind  TimestampErrorKind
	Input string
	Part  string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("%v: %s %q in %q", ErrInvalidTimestamp, e.Kind, e.Part, e.Input)
}

func (e *TimestampError) Unwrap() error { return ErrInvalidTimestamp }

// ParseTimestamp parses YYYYMMDD-HH:MM:SS or YYYYMMDD-HH:MM:SS.sss as UTC.
// A seconds field of 60 is read as 59 and then advanced by one second.
func ParseTimestamp(s string) (time.Time, error) {
	if len(s) < timestampSecondsLen {
		return time.Time{}, &TimestampError{Kind: TimestampTooShort, Input: s, Part: s}
	}
	if len(s) != timestampSecondsLen && (len(s) != timestampMillisLen || s[timestampSecondsLen] != '.') {
		return time.Time{}, &TimestampError{Kind: TimestampMalformed, Input: s, Part: s[timestampSecondsLen:]}
	}
	if s[8] != '-' || s[11] != ':' || s[14] != ':' {
		return time.Time{}, &TimestampError{Kind: TimestampMalformed, Input: s, Part: s[8:15]}
	}

	var fields [7]int
	spans := [7][2]int{{0, 4}, {4, 6}, {6, 8}, {9, 11}, {12, 14}, {15, 17}, {18, 21}}
	n := 6
	if len(s) == timestampMillisLen {
		n = 7
	}
	for i := 0; i < n; i++ {
		part := s[spans[i][0]:spans[i][1]]
		v, ok := atoiDigits(part)
		if !ok {
			return time.Time{}, &TimestampError{Kind: TimestampNotNumeric, Input: s, Part: part}
		}
		fields[i] = v
	}

	year, month, day := fields[0], fields[1], fields[2]
	if month < 1 || month > 12 || day < 1 || day > daysIn(year, time.Month(month)) {
		return time.Time{}, &TimestampError{Kind: TimestampDateOutOfRange, Input: s, Part: s[0:8]}
	}

	hour, minute, second := fields[3], fields[4], fields[5]
	if hour > 23 || minute > 59 || second > 60 {
		return time.Time{}, &TimestampError{Kind: TimestampTimeOutOfRange, Input: s, Part: s[9:17]}
	}

	leap := second == 60
	if leap {
		second = 59
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, fields[6]*int(time.Millisecond), time.UTC)
	if leap {
		t = t.Add(time.Second)
	}
	return t, nil
}

func atoiDigits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	var buf [timestampMillisLen]byte
	return string(AppendTimestamp(buf[:0], t))
}

// AppendTimestamp appends the 21 byte millisecond form of t.
func AppendTimestamp(dst []byte, t time.Time) []byte {
	var buf [timestampMillisLen]byte
	putTimestamp(buf[:timestampSecondsLen], t)
	buf[17] = '.'
	put3(buf[18:], t.UTC().Nanosecond()/int(time.Millisecond))
	return append(dst, buf[:]...)
}

// AppendTimestampSeconds appends the 17 byte whole-second form of t.
func AppendTimestampSeconds(dst []byte, t time.Time) []byte {
	var buf [timestampSecondsLen]byte
	putTimestamp(buf[:], t)
	return append(dst, buf[:]...)
}

func putTimestamp(b []byte, t time.Time) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, minute, second := t.Clock()

	put4(b[0:], year)
	put2(b[4:], int(month))
	put2(b[6:], day)
	b[8] = '-'
	put2(b[9:], hour)
	b[11] = ':'
	put2(b[12:], minute)
	b[14] = ':'
	put2(b[15:], second)
}

func put2(b []byte, v int) {
	b[0] = byte('0' + v/10%10)
	b[1] = byte('0' + v%10)
}

func put3(b []byte, v int) {
	b[0] = byte('0' + v/100%10)
	b[1] = byte('0' + v/10%10)
	b[2] = byte('0' + v%10)
}

func put4(b []byte, v int) {
	put2(b[0:], v/100)
	put2(b[2:], v%100)
}
