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
	"bytes"
	"fmt"
	"time"
)

// DuplicateTagPolicy decides what Decode does when a tag repeats.
type DuplicateTagPolicy int

const (
	// DuplicateLastWins keeps the last occurrence.
	DuplicateLastWins DuplicateTagPolicy = iota
	// DuplicateReject fails the decode with ErrDuplicateTag.
	DuplicateReject
)

func (p DuplicateTagPolicy) String() string {
	if p == DuplicateReject {
		return "reject"
	}
	return "last"
}

// ParseDuplicateTagPolicy accepts "last" or "reject".
func ParseDuplicateTagPolicy(s string) (DuplicateTagPolicy, error) {
	switch s {
	case "", "last":
		return DuplicateLastWins, nil
	case "reject":
		return DuplicateReject, nil
	}
	return DuplicateLastWins, fmt.Errorf("fix: unknown duplicate tag policy %q", s)
}

type DecodeOptions struct {
	DuplicateTags DuplicateTagPolicy

	// SkipIntegrity disables the BodyLength and CheckSum checks against
	// the raw bytes.
	SkipIntegrity bool
}

// RawField is one tokenized field. Start is the offset of the first tag
// byte and End the offset just past the terminating SOH.
type RawField struct {
	Tag   Tag
	Value string
	Start int
	End   int
}

// Tokenize splits raw on SOH, skipping empty fragments. A fragment with no
// '=' or a tag that is not all digits makes the whole input malformed.
func Tokenize(raw []byte) ([]RawField, error) {
	return tokenize(raw, true)
}

// TokenizeLenient splits raw like Tokenize but drops fragments that are
// not tag=value pairs, so a damaged message can still be shown.
func TokenizeLenient(raw []byte) []RawField {
	fields, _ := tokenize(raw, false)
	return fields
}

func tokenize(raw []byte, strict bool) ([]RawField, error) {
	fields := make([]RawField, 0, bytes.Count(raw, []byte{SOH})+1)

	for pos := 0; pos < len(raw); {
		end := bytes.IndexByte(raw[pos:], SOH)
		next := len(raw)
		if end < 0 {
			end = len(raw)
		} else {
			end += pos
			next = end + 1
		}

		if frag := raw[pos:end]; len(frag) > 0 {
			f, err := splitField(frag, pos, next)
			switch {
			case err == nil:
				fields = append(fields, f)
			case strict:
				return nil, err
			}
		}

		pos = next
	}

	return fields, nil
}

func splitField(frag []byte, start, end int) (RawField, error) {
	eq := bytes.IndexByte(frag, '=')
	if eq <= 0 {
		return RawField{}, fmt.Errorf("%w: field %q at offset %d", ErrEmptyMessage, frag, start)
	}
	tag, ok := parseTag(frag[:eq])
	if !ok {
		return RawField{}, fmt.Errorf("%w: tag %q at offset %d", ErrEmptyMessage, frag[:eq], start)
	}
	return RawField{Tag: tag, Value: string(frag[eq+1:]), Start: start, End: end}, nil
}

// maxTagDigits keeps a tag inside int range on every platform.
const maxTagDigits = 9

// parseTag accepts ASCII digits only; no sign, no spaces, no zero tag.
func parseTag(b []byte) (Tag, bool) {
	if len(b) > maxTagDigits {
		return 0, false
	}
	n, ok := atoiDigits(string(b))
	if !ok || n == 0 {
		return 0, false
	}
	return Tag(n), true
}

func DecodeString(s string) (*Message, error) {
	return DecodeWith([]byte(s), DecodeOptions{})
}

func Decode(raw []byte) (*Message, error) {
	return DecodeWith(raw, DecodeOptions{})
}

// DecodeWith parses and validates one message. Nothing is returned unless
// the whole message is acceptable.
func DecodeWith(raw []byte, opts DecodeOptions) (*Message, error) {
	fields, err := Tokenize(raw)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrEmptyMessage
	}

	lookup := make(map[Tag]string, len(fields))
	last := make(map[Tag]int, len(fields))
	order := make([]Tag, 0, len(fields))
	for i, f := range fields {
		if _, seen := lookup[f.Tag]; seen {
			if opts.DuplicateTags == DuplicateReject {
				return nil, &FieldError{Tag: f.Tag, Value: f.Value, Err: ErrDuplicateTag}
			}
		} else {
			order = append(order, f.Tag)
		}
		lookup[f.Tag] = f.Value
		last[f.Tag] = i
	}

	m, err := skeleton(lookup)
	if err != nil {
		return nil, err
	}

	for _, tag := range order {
		if err := m.parseField(tag, lookup[tag]); err != nil {
			return nil, err
		}
	}

	if !opts.SkipIntegrity {
		if err := verifyRaw(raw, fields, last, m); err != nil {
			return nil, err
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// skeleton builds the empty message from the fields that pick its shape.
func skeleton(lookup map[Tag]string) (*Message, error) {
	begin, ok := lookup[TagBeginString]
	if !ok {
		return nil, missingField(TagBeginString)
	}
	if begin != BeginString {
		return nil, &FieldError{Tag: TagBeginString, Value: begin, Err: ErrUnsupportedVersion}
	}

	required := []Tag{TagMsgType, TagSenderCompID, TagTargetCompID, TagMsgSeqNum}
	for _, tag := range required {
		if _, ok := lookup[tag]; !ok {
			return nil, missingField(tag)
		}
	}

	seq, err := parseInt(TagMsgSeqNum, lookup[TagMsgSeqNum])
	if err != nil {
		return nil, err
	}

	m := newMessage(ParseMsgType(lookup[TagMsgType]), lookup[TagSenderCompID], lookup[TagTargetCompID], seq)
	m.header.SendingTime = time.Time{}
	return m, nil
}

// verifyRaw checks BodyLength and CheckSum against the bytes received.
func verifyRaw(raw []byte, fields []RawField, last map[Tag]int, m *Message) error {
	ci, ok := last[TagCheckSum]
	if !ok {
		return missingField(TagCheckSum)
	}
	if ci != len(fields)-1 {
		return &FieldError{
			Tag:   TagCheckSum,
			Value: fields[ci].Value,
			Err:   ErrInvalidChecksum,
			Cause: fmt.Errorf("followed by tag %d", int(fields[ci+1].Tag)),
		}
	}
	bi, ok := last[TagBodyLength]
	if !ok {
		return missingField(TagBodyLength)
	}

	if n := fields[ci].Start - fields[bi].End; n != m.header.bodyLength {
		return &FieldError{
			Tag:   TagBodyLength,
			Value: fields[bi].Value,
			Err:   ErrInvalidBodyLength,
			Cause: fmt.Errorf("received %d bytes", n),
		}
	}

	if sum := formatCheckSum(sumBytes(raw[:fields[ci].Start])); sum != m.trailer.checkSum {
		return &FieldError{
			Tag:   TagCheckSum,
			Value: fields[ci].Value,
			Err:   ErrInvalidChecksum,
			Cause: fmt.Errorf("received bytes sum to %s", sum),
		}
	}
	return nil
}
