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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Message is a complete FIX 4.2 message: one Header, one Body and one
// Trailer. Messages are produced by a Builder or by Decode.
type Message struct {
	header  Header
	body    Body
	trailer Trailer
}

func newMessage(msgType MsgType, sender, target string, seq int) *Message {
	return &Message{
		header: newHeader(msgType, sender, target, seq),
		body:   newBody(msgType),
	}
}

func (m *Message) MsgType() MsgType { return m.header.msgType }

// Header returns a copy of the header.
func (m *Message) Header() Header {
	h := m.header
	h.PossDupFlag = clonePtr(h.PossDupFlag)
	h.PossResend = clonePtr(h.PossResend)
	h.OrigSendingTime = clonePtr(h.OrigSendingTime)
	return h
}

// Body returns a copy of the body variant. Use FromMessage to change it.
func (m *Message) Body() Body { return cloneBody(m.body) }

// Trailer returns a copy of the trailer.
func (m *Message) Trailer() Trailer {
	t := m.trailer
	t.SignatureLength = clonePtr(t.SignatureLength)
	t.Signature = clonePtr(t.Signature)
	return t
}

// BodyLength is the value fixed when the message was built or decoded.
func (m *Message) BodyLength() int { return m.header.bodyLength }

// CheckSum is the value fixed when the message was built or decoded.
func (m *Message) CheckSum() string { return m.trailer.checkSum }

// Encode serializes the message. BodyLength and CheckSum are always
// computed from the current content; the stored values are not used.
func (m *Message) Encode() []byte {
	return m.AppendEncoded(make([]byte, 0, 256))
}

// AppendEncoded appends the encoded message to dst.
func (m *Message) AppendEncoded(dst []byte) []byte {
	start := len(dst)
	dst = m.appendUnsummed(dst)
	buf := &FieldBuffer{b: dst}
	buf.Field(TagCheckSum, formatCheckSum(sumBytes(dst[start:])))
	return buf.b
}

// appendUnsummed appends every field that precedes CheckSum.
func (m *Message) appendUnsummed(dst []byte) []byte {
	counted := m.countedFields()
	buf := &FieldBuffer{b: dst}
	buf.Field(TagBeginString, BeginString)
	buf.Int(TagBodyLength, counted.Len())
	buf.b = append(buf.b, counted.b...)
	return buf.b
}

// countedFields writes the fields measured by BodyLength.
func (m *Message) countedFields() *FieldBuffer {
	buf := NewFieldBuffer(192)
	m.header.writeCounted(buf)
	m.body.WriteFields(buf)
	m.trailer.writeCounted(buf)
	return buf
}

// ComputeBodyLength measures the current content.
func (m *Message) ComputeBodyLength() int {
	return m.countedFields().Len()
}

// ComputeCheckSum sums the current encoding up to the CheckSum field.
func (m *Message) ComputeCheckSum() string {
	return formatCheckSum(sumBytes(m.appendUnsummed(make([]byte, 0, 256))))
}

func sumBytes(b []byte) int {
	sum := 0
	for _, c := range b {
		sum += int(c)
	}
	return sum % 256
}

// finalize fixes the derived fields from the content as it is now.
func (m *Message) finalize() {
	m.header.bodyLength = m.ComputeBodyLength()
	m.trailer.checkSum = m.ComputeCheckSum()
}

// Validate checks the header, body and trailer invariants, then that
// every value can be framed on the wire.
func (m *Message) Validate() error {
	if err := m.header.Validate(); err != nil {
		return err
	}
	if err := m.body.Validate(); err != nil {
		return err
	}
	if err := m.trailer.Validate(); err != nil {
		return err
	}
	return m.countedFields().Err()
}

// CheckIntegrity reports whether the stored BodyLength and CheckSum still
// describe the message's canonical encoding.
func (m *Message) CheckIntegrity() error {
	if n := m.ComputeBodyLength(); n != m.header.bodyLength {
		return &FieldError{
			Tag:   TagBodyLength,
			Value: strconv.Itoa(m.header.bodyLength),
			Err:   ErrInvalidBodyLength,
			Cause: fmt.Errorf("content measures %d", n),
		}
	}
	if sum := m.ComputeCheckSum(); sum != m.trailer.checkSum {
		return &FieldError{
			Tag:   TagCheckSum,
			Value: m.trailer.checkSum,
			Err:   ErrInvalidChecksum,
			Cause: fmt.Errorf("content sums to %s", sum),
		}
	}
	return nil
}

// String renders the encoded message with '|' in place of SOH.
func (m *Message) String() string {
	return strings.ReplaceAll(string(m.Encode()), string(SOH), "|")
}

// parseField routes one decoded field by tag. Unknown body tags are
// dropped.
func (m *Message) parseField(tag Tag, value string) error {
	switch {
	case IsHeaderTag(tag):
		return m.header.ParseField(tag, value)
	case IsTrailerTag(tag):
		return m.trailer.ParseField(tag, value)
	}

	err := m.body.ParseField(tag, value)
	var fe *FieldError
	if errors.As(err, &fe) && fe.Err == ErrUnknownTag {
		logger.Debug("ignoring unknown tag",
			"tag", int(tag),
			"value", value,
			"msgType", m.header.msgType.String(),
		)
		return nil
	}
	return err
}
