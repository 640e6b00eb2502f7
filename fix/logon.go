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

import "strconv"

// DefaultHeartBtInt is the heartbeat interval, in seconds, a new Logon
// starts with.
const DefaultHeartBtInt = 30

// Logon (35=A) opens a session.
type Logon struct {
	EncryptMethod EncryptMethod
	HeartBtInt    int

	ResetSeqNumFlag       *bool
	NextExpectedMsgSeqNum *int
	MaxMessageSize        *int
}

func (b *Logon) MsgType() MsgType { return MsgTypeLogon }

func (b *Logon) WriteFields(buf *FieldBuffer) {
	buf.Field(TagEncryptMethod, b.EncryptMethod.String())
	buf.Int(TagHeartBtInt, b.HeartBtInt)
	buf.OptBool(TagResetSeqNumFlag, b.ResetSeqNumFlag)
	buf.OptInt(TagNextExpectedMsgSeqNum, b.NextExpectedMsgSeqNum)
	buf.OptInt(TagMaxMessageSize, b.MaxMessageSize)
}

func (b *Logon) ParseField(tag Tag, value string) error {
	var err error
	switch tag {
	case TagEncryptMethod:
		var m EncryptMethod
		if m, err = ParseEncryptMethod(value); err != nil {
			return invalidValue(tag, value, err)
		}
		b.EncryptMethod = m
	case TagHeartBtInt:
		b.HeartBtInt, err = parseInt(tag, value)
	case TagResetSeqNumFlag:
		var v bool
		if v, err = parseBool(tag, value); err == nil {
			b.ResetSeqNumFlag = &v
		}
	case TagNextExpectedMsgSeqNum:
		var n int
		if n, err = parseInt(tag, value); err == nil {
			b.NextExpectedMsgSeqNum = &n
		}
	case TagMaxMessageSize:
		var n int
		if n, err = parseInt(tag, value); err == nil {
			b.MaxMessageSize = &n
		}
	default:
		return unknownTag(tag, value)
	}
	return err
}

func (b *Logon) Validate() error {
	if !b.EncryptMethod.IsValid() {
		return invalidValue(TagEncryptMethod, b.EncryptMethod.String(), ErrUnknownEnum)
	}
	if b.HeartBtInt <= 0 {
		return outOfRange(TagHeartBtInt, strconv.Itoa(b.HeartBtInt))
	}
	if b.NextExpectedMsgSeqNum != nil && *b.NextExpectedMsgSeqNum <= 0 {
		return outOfRange(TagNextExpectedMsgSeqNum, strconv.Itoa(*b.NextExpectedMsgSeqNum))
	}
	if b.MaxMessageSize != nil && *b.MaxMessageSize < 0 {
		return outOfRange(TagMaxMessageSize, strconv.Itoa(*b.MaxMessageSize))
	}
	return nil
}
