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
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// SOH terminates every tag=value pair on the wire.
	SOH = '\x01'

	// BeginString is the only protocol version this package speaks.
	BeginString = "FIX.4.2"
)

// Tag is a FIX field number.
type Tag int

const (
	TagAccount               Tag = 1
	TagAvgPx                 Tag = 6
	TagBeginString           Tag = 8
	TagBodyLength            Tag = 9
	TagCheckSum              Tag = 10
	TagClOrdID               Tag = 11
	TagCumQty                Tag = 14
	TagExecID                Tag = 17
	TagExecTransType         Tag = 20
	TagHandlInst             Tag = 21
	TagLastPx                Tag = 31
	TagLastShares            Tag = 32
	TagMsgSeqNum             Tag = 34
	TagMsgType               Tag = 35
	TagOrderID               Tag = 37
	TagOrderQty              Tag = 38
	TagOrdStatus             Tag = 39
	TagOrdType               Tag = 40
	TagOrigClOrdID           Tag = 41
	TagPossDupFlag           Tag = 43
	TagPrice                 Tag = 44
	TagSenderCompID          Tag = 49
	TagSendingTime           Tag = 52
	TagSide                  Tag = 54
	TagSymbol                Tag = 55
	TagTargetCompID          Tag = 56
	TagText                  Tag = 58
	TagTransactTime          Tag = 60
	TagSignature             Tag = 89
	TagSignatureLength       Tag = 93
	TagPossResend            Tag = 97
	TagEncryptMethod         Tag = 98
	TagOrdRejReason          Tag = 103
	TagHeartBtInt            Tag = 108
	TagTestReqID             Tag = 112
	TagOrigSendingTime       Tag = 122
	TagResetSeqNumFlag       Tag = 141
	TagExecType              Tag = 150
	TagLeavesQty             Tag = 151
	TagCashOrderQty          Tag = 152
	TagSecurityExchange      Tag = 207
	TagMaxMessageSize        Tag = 383
	TagNextExpectedMsgSeqNum Tag = 789
)

var tagNames = map[Tag]string{
	TagAccount:               "Account",
	TagAvgPx:                 "AvgPx",
	TagBeginString:           "BeginString",
	TagBodyLength:            "BodyLength",
	TagCheckSum:              "CheckSum",
	TagClOrdID:               "ClOrdID",
	TagCumQty:                "CumQty",
	TagExecID:                "ExecID",
	TagExecTransType:         "ExecTransType",
	TagHandlInst:             "HandlInst",
	TagLastPx:                "LastPx",
	TagLastShares:            "LastShares",
	TagMsgSeqNum:             "MsgSeqNum",
	TagMsgType:               "MsgType",
	TagOrderID:               "OrderID",
	TagOrderQty:              "OrderQty",
	TagOrdStatus:             "OrdStatus",
	TagOrdType:               "OrdType",
	TagOrigClOrdID:           "OrigClOrdID",
	TagPossDupFlag:           "PossDupFlag",
	TagPrice:                 "Price",
	TagSenderCompID:          "SenderCompID",
	TagSendingTime:           "SendingTime",
	TagSide:                  "Side",
	TagSymbol:                "Symbol",
	TagTargetCompID:          "TargetCompID",
	TagText:                  "Text",
	TagTransactTime:          "TransactTime",
	TagSignature:             "Signature",
	TagSignatureLength:       "SignatureLength",
	TagPossResend:            "PossResend",
	TagEncryptMethod:         "EncryptMethod",
	TagOrdRejReason:          "OrdRejReason",
	TagHeartBtInt:            "HeartBtInt",
	TagTestReqID:             "TestReqID",
	TagOrigSendingTime:       "OrigSendingTime",
	TagResetSeqNumFlag:       "ResetSeqNumFlag",
	TagExecType:              "ExecType",
	TagLeavesQty:             "LeavesQty",
	TagCashOrderQty:          "CashOrderQty",
	TagSecurityExchange:      "SecurityExchange",
	TagMaxMessageSize:        "MaxMessageSize",
	TagNextExpectedMsgSeqNum: "NextExpectedMsgSeqNum",
}

// Name returns the FIX field name, or the number itself for tags this
// package does not model.
func (t Tag) Name() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return strconv.Itoa(int(t))
}

func (t Tag) String() string { return strconv.Itoa(int(t)) }

// Tag routing during decode. Anything in neither set belongs to the body.
var (
	headerTags = map[Tag]struct{}{
		TagBeginString:     {},
		TagBodyLength:      {},
		TagMsgType:         {},
		TagSenderCompID:    {},
		TagTargetCompID:    {},
		TagMsgSeqNum:       {},
		TagSendingTime:     {},
		TagPossDupFlag:     {},
		TagPossResend:      {},
		TagOrigSendingTime: {},
	}
	trailerTags = map[Tag]struct{}{
		TagCheckSum:        {},
		TagSignatureLength: {},
		TagSignature:       {},
	}
)

// IsHeaderTag reports whether tag belongs to the standard header.
func IsHeaderTag(tag Tag) bool {
	_, ok := headerTags[tag]
	return ok
}

// IsTrailerTag reports whether tag belongs to the standard trailer.
func IsTrailerTag(tag Tag) bool {
	_, ok := trailerTags[tag]
	return ok
}

// Component is implemented by every structural part of a message: the
// header, the trailer and each body variant.
//
// WriteFields appends the component's fields in canonical order.
// ParseField consumes one decoded field and returns an error wrapping
// ErrUnknownTag when the tag is not one the component owns.
type Component interface {
	WriteFields(buf *FieldBuffer)
	ParseField(tag Tag, value string) error
}

// FieldBuffer accumulates tag=value<SOH> pairs. The first value that
// cannot be framed is kept and reported by Err.
type FieldBuffer struct {
	b   []byte
	err error
}

// NewFieldBuffer returns a buffer with room for n bytes.
func NewFieldBuffer(n int) *FieldBuffer {
	return &FieldBuffer{b: make([]byte, 0, n)}
}

func (f *FieldBuffer) Bytes() []byte { return f.b }
func (f *FieldBuffer) Len() int      { return len(f.b) }
func (f *FieldBuffer) Reset()        { f.b, f.err = f.b[:0], nil }
func (f *FieldBuffer) Err() error    { return f.err }

func (f *FieldBuffer) tag(t Tag) {
	f.b = strconv.AppendInt(f.b, int64(t), 10)
	f.b = append(f.b, '=')
}

// Field appends a raw string value.
func (f *FieldBuffer) Field(t Tag, v string) {
	if f.err == nil {
		f.err = checkValue(t, v)
	}
	f.tag(t)
	f.b = append(f.b, v...)
	f.b = append(f.b, SOH)
}

func (f *FieldBuffer) Int(t Tag, v int) {
	f.tag(t)
	f.b = strconv.AppendInt(f.b, int64(v), 10)
	f.b = append(f.b, SOH)
}

func (f *FieldBuffer) Bool(t Tag, v bool) {
	if v {
		f.Field(t, "Y")
	} else {
		f.Field(t, "N")
	}
}

func (f *FieldBuffer) Time(t Tag, v time.Time) {
	f.tag(t)
	f.b = AppendTimestamp(f.b, v)
	f.b = append(f.b, SOH)
}

// Decimal keeps the scale the value was parsed or built with, so 150.50
// is written back as 150.50.
func (f *FieldBuffer) Decimal(t Tag, v decimal.Decimal) {
	f.Field(t, formatDecimal(v))
}

func formatDecimal(v decimal.Decimal) string {
	if exp := v.Exponent(); exp < 0 {
		return v.StringFixed(-exp)
	}
	return v.String()
}

// Optional writers skip nil values.

func (f *FieldBuffer) OptString(t Tag, v *string) {
	if v != nil {
		f.Field(t, *v)
	}
}

func (f *FieldBuffer) OptInt(t Tag, v *int) {
	if v != nil {
		f.Int(t, *v)
	}
}

func (f *FieldBuffer) OptBool(t Tag, v *bool) {
	if v != nil {
		f.Bool(t, *v)
	}
}

func (f *FieldBuffer) OptTime(t Tag, v *time.Time) {
	if v != nil {
		f.Time(t, *v)
	}
}

func (f *FieldBuffer) OptDecimal(t Tag, v *decimal.Decimal) {
	if v != nil {
		f.Decimal(t, *v)
	}
}

// Value parsers shared by the components. Each returns a *FieldError on
// failure so callers can hand the error straight back.

func parseInt(tag Tag, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, invalidValue(tag, value, err)
	}
	return n, nil
}

func parseBool(tag Tag, value string) (bool, error) {
	switch value {
	case "Y":
		return true, nil
	case "N":
		return false, nil
	}
	return false, invalidValue(tag, value, nil)
}

func parseTime(tag Tag, value string) (time.Time, error) {
	t, err := ParseTimestamp(value)
	if err != nil {
		return time.Time{}, invalidValue(tag, value, err)
	}
	return t, nil
}

// parseDecimal accepts the FIX float form: an optional '-', digits and at
// most one '.'. Exponents and '+' are rejected.
func parseDecimal(tag Tag, value string) (decimal.Decimal, error) {
	if !isFixFloat(value) {
		return decimal.Decimal{}, invalidValue(tag, value, errFloatFormat)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, invalidValue(tag, value, err)
	}
	return d, nil
}

func isFixFloat(s string) bool {
	s = strings.TrimPrefix(s, "-")
	digits, dot := 0, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}

// checkValue rejects values that would split into extra fields on the wire.
func checkValue(tag Tag, v string) error {
	if strings.IndexByte(v, SOH) >= 0 {
		return invalidValue(tag, v, errEmbeddedSOH)
	}
	return nil
}
