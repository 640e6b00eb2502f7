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
	"strconv"
	"time"
)

// Header is the standard FIX 4.2 session envelope.
//
// BeginString, BodyLength and MsgType are fixed by the message that owns
// the header and are read through accessors. The exported fields hold the
// content that callers supply through the Builder.
type Header struct {
	beginString string
	bodyLength  int
	msgType     MsgType

	SenderCompID string
	TargetCompID string
	MsgSeqNum    int
	SendingTime  time.Time

	PossDupFlag     *bool
	PossResend      *bool
	OrigSendingTime *time.Time
}

func newHeader(msgType MsgType, sender, target string, seq int) Header {
	return Header{
		beginString:  BeginString,
		msgType:      msgType,
		SenderCompID: sender,
		TargetCompID: target,
		MsgSeqNum:    seq,
		SendingTime:  time.Now().UTC().Truncate(time.Millisecond),
	}
}

func (h *Header) BeginString() string { return h.beginString }
func (h *Header) BodyLength() int     { return h.bodyLength }
func (h *Header) MsgType() MsgType    { return h.msgType }

// WriteFields writes the whole header, BeginString and BodyLength included,
// using the stored body length.
func (h *Header) WriteFields(buf *FieldBuffer) {
	buf.Field(TagBeginString, h.beginString)
	buf.Int(TagBodyLength, h.bodyLength)
	h.writeCounted(buf)
}

// writeCounted writes the header fields that contribute to BodyLength.
func (h *Header) writeCounted(buf *FieldBuffer) {
	buf.Field(TagMsgType, h.msgType.String())
	buf.Field(TagSenderCompID, h.SenderCompID)
	buf.Field(TagTargetCompID, h.TargetCompID)
	buf.Int(TagMsgSeqNum, h.MsgSeqNum)
	buf.Time(TagSendingTime, h.SendingTime)
	buf.OptBool(TagPossDupFlag, h.PossDupFlag)
	buf.OptBool(TagPossResend, h.PossResend)
	buf.OptTime(TagOrigSendingTime, h.OrigSendingTime)
}

func (h *Header) ParseField(tag Tag, value string) error {
	switch tag {
	case TagBeginString:
		if value != BeginString {
			return &FieldError{Tag: tag, Value: value, Err: ErrUnsupportedVersion}
		}
		h.beginString = value
	case TagBodyLength:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return &FieldError{Tag: tag, Value: value, Err: ErrInvalidBodyLength, Cause: err}
		}
		h.bodyLength = n
	case TagMsgType:
		// fixed when the message was constructed
	case TagSenderCompID:
		h.SenderCompID = value
	case TagTargetCompID:
		h.TargetCompID = value
	case TagMsgSeqNum:
		n, err := parseInt(tag, value)
		if err != nil {
			return err
		}
		h.MsgSeqNum = n
	case TagSendingTime:
		t, err := parseTime(tag, value)
		if err != nil {
			return err
		}
		h.SendingTime = t
	case TagPossDupFlag:
		b, err := parseBool(tag, value)
		if err != nil {
			return err
		}
		h.PossDupFlag = &b
	case TagPossResend:
		b, err := parseBool(tag, value)
		if err != nil {
			return err
		}
		h.PossResend = &b
	case TagOrigSendingTime:
		t, err := parseTime(tag, value)
		if err != nil {
			return err
		}
		h.OrigSendingTime = &t
	default:
		return unknownTag(tag, value)
	}
	return nil
}

func (h *Header) Validate() error {
	if h.beginString != BeginString {
		return &FieldError{Tag: TagBeginString, Value: h.beginString, Err: ErrUnsupportedVersion}
	}
	if h.SenderCompID == "" {
		return missingField(TagSenderCompID)
	}
	if h.TargetCompID == "" {
		return missingField(TagTargetCompID)
	}
	if h.MsgSeqNum <= 0 {
		return outOfRange(TagMsgSeqNum, strconv.Itoa(h.MsgSeqNum))
	}
	if h.SendingTime.IsZero() {
		return missingField(TagSendingTime)
	}
	if h.SendingTime.Year() < 1970 {
		return outOfRange(TagSendingTime, FormatTimestamp(h.SendingTime))
	}
	return nil
}
