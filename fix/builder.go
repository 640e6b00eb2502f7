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
	"time"

	"github.com/shopspring/decimal"
)

// Builder assembles a Message. Setters may be called in any order; the
// derived BodyLength and CheckSum are computed once, by Build, after which
// the builder is spent.
//
// Build does not validate. Call Message.Validate before sending if the
// content has to be complete.
type Builder struct {
	msg *Message
	err error
}

// NewBuilder starts a message of the given type. Logon bodies start with
// HeartBtInt 30 and no encryption; order bodies start with TransactTime
// set to now.
func NewBuilder(msgType MsgType, sender, target string, seq int) *Builder {
	m := newMessage(msgType, sender, target, seq)
	now := m.header.SendingTime

	switch body := m.body.(type) {
	case *Logon:
		body.HeartBtInt = DefaultHeartBtInt
		body.EncryptMethod = EncryptMethodNone
	case *NewOrderSingle:
		body.TransactTime = now
	case *OrderCancelRequest:
		body.TransactTime = now
	}

	return &Builder{msg: m}
}

// FromMessage starts a builder from a copy of m. The original is not
// touched and its derived fields are recomputed by Build.
func FromMessage(m *Message) *Builder {
	cp := &Message{
		header:  m.header,
		body:    cloneBody(m.body),
		trailer: m.trailer,
	}
	return &Builder{msg: cp}
}

func cloneBody(b Body) Body {
	switch v := b.(type) {
	case *Heartbeat:
		c := *v
		c.TestReqID = clonePtr(v.TestReqID)
		return &c
	case *Logon:
		c := *v
		c.ResetSeqNumFlag = clonePtr(v.ResetSeqNumFlag)
		c.NextExpectedMsgSeqNum = clonePtr(v.NextExpectedMsgSeqNum)
		c.MaxMessageSize = clonePtr(v.MaxMessageSize)
		return &c
	case *NewOrderSingle:
		c := *v
		c.Account = clonePtr(v.Account)
		c.OrderQty = clonePtr(v.OrderQty)
		c.CashOrderQty = clonePtr(v.CashOrderQty)
		c.SecurityExchange = clonePtr(v.SecurityExchange)
		c.Price = clonePtr(v.Price)
		c.Text = clonePtr(v.Text)
		return &c
	case *ExecutionReport:
		c := *v
		c.ClOrdID = clonePtr(v.ClOrdID)
		c.OrigClOrdID = clonePtr(v.OrigClOrdID)
		c.TransactTime = clonePtr(v.TransactTime)
		c.LastShares = clonePtr(v.LastShares)
		c.LastPx = clonePtr(v.LastPx)
		c.OrdRejReason = clonePtr(v.OrdRejReason)
		c.Text = clonePtr(v.Text)
		return &c
	case *OrderCancelRequest:
		c := *v
		c.OrderID = clonePtr(v.OrderID)
		c.OrderQty = clonePtr(v.OrderQty)
		c.CashOrderQty = clonePtr(v.CashOrderQty)
		c.Account = clonePtr(v.Account)
		c.Text = clonePtr(v.Text)
		return &c
	case *Other:
		c := *v
		c.Fields = append([]Field(nil), v.Fields...)
		return &c
	}
	return b
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Build finalizes the message. It returns the first error recorded by Set,
// or ErrBuilderConsumed when called a second time.
func (b *Builder) Build() (*Message, error) {
	if b.msg == nil {
		return nil, ErrBuilderConsumed
	}
	m := b.msg
	b.msg = nil
	if b.err != nil {
		return nil, b.err
	}
	m.finalize()
	return m, nil
}

func (b *Builder) header(apply func(h *Header)) *Builder {
	if b.msg == nil {
		logger.Warn("builder already built, setter ignored")
		return b
	}
	apply(&b.msg.header)
	return b
}

// body applies set to the body variant. set reports false when the field
// does not belong to the variant.
func (b *Builder) body(field string, set func(Body) bool) *Builder {
	if b.msg == nil {
		logger.Warn("builder already built, setter ignored", "field", field)
		return b
	}
	if !set(b.msg.body) {
		logger.Warn("field does not apply to message type",
			"field", field,
			"msgType", b.msg.header.msgType.String(),
		)
	}
	return b
}

func msTime(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

func (b *Builder) SendingTime(t time.Time) *Builder {
	return b.header(func(h *Header) { h.SendingTime = msTime(t) })
}

func (b *Builder) PossDupFlag(v bool) *Builder {
	return b.header(func(h *Header) { h.PossDupFlag = &v })
}

func (b *Builder) PossResend(v bool) *Builder {
	return b.header(func(h *Header) { h.PossResend = &v })
}

func (b *Builder) OrigSendingTime(t time.Time) *Builder {
	t = msTime(t)
	return b.header(func(h *Header) { h.OrigSendingTime = &t })
}

// Signature sets Signature(89) and its length SignatureLength(93).
func (b *Builder) Signature(sig string) *Builder {
	if b.msg == nil {
		logger.Warn("builder already built, setter ignored", "field", "Signature")
		return b
	}
	n := len(sig)
	b.msg.trailer.SignatureLength = &n
	b.msg.trailer.Signature = &sig
	return b
}

// Set parses a raw field into the message as Decode would. Derived fields
// (8, 9, 35, 10) cannot be set. The first failure is kept and returned by
// Build.
func (b *Builder) Set(tag Tag, value string) *Builder {
	if b.msg == nil {
		logger.Warn("builder already built, setter ignored", "tag", int(tag))
		return b
	}
	if b.err != nil {
		return b
	}

	var err error
	switch {
	case tag == TagBeginString, tag == TagBodyLength, tag == TagMsgType, tag == TagCheckSum:
		err = &FieldError{Tag: tag, Value: value, Err: ErrInvalidValue, Cause: errDerived}
	case IsHeaderTag(tag):
		err = b.msg.header.ParseField(tag, value)
	case IsTrailerTag(tag):
		err = b.msg.trailer.ParseField(tag, value)
	default:
		err = b.msg.body.ParseField(tag, value)
	}
	b.err = err
	return b
}

func (b *Builder) TestReqID(id string) *Builder {
	return b.body("TestReqID", func(body Body) bool {
		v, ok := body.(*Heartbeat)
		if ok {
			v.TestReqID = &id
		}
		return ok
	})
}

func (b *Builder) EncryptMethod(m EncryptMethod) *Builder {
	return b.body("EncryptMethod", func(body Body) bool {
		v, ok := body.(*Logon)
		if ok {
			v.EncryptMethod = m
		}
		return ok
	})
}

func (b *Builder) HeartBtInt(secs int) *Builder {
	return b.body("HeartBtInt", func(body Body) bool {
		v, ok := body.(*Logon)
		if ok {
			v.HeartBtInt = secs
		}
		return ok
	})
}

func (b *Builder) ResetSeqNumFlag(reset bool) *Builder {
	return b.body("ResetSeqNumFlag", func(body Body) bool {
		v, ok := body.(*Logon)
		if ok {
			v.ResetSeqNumFlag = &reset
		}
		return ok
	})
}

func (b *Builder) NextExpectedMsgSeqNum(seq int) *Builder {
	return b.body("NextExpectedMsgSeqNum", func(body Body) bool {
		v, ok := body.(*Logon)
		if ok {
			v.NextExpectedMsgSeqNum = &seq
		}
		return ok
	})
}

func (b *Builder) MaxMessageSize(n int) *Builder {
	return b.body("MaxMessageSize", func(body Body) bool {
		v, ok := body.(*Logon)
		if ok {
			v.MaxMessageSize = &n
		}
		return ok
	})
}

func (b *Builder) ClOrdID(id string) *Builder {
	return b.body("ClOrdID", func(body Body) bool {
		switch v := body.(type) {
		case *NewOrderSingle:
			v.ClOrdID = id
		case *OrderCancelRequest:
			v.ClOrdID = id
		case *ExecutionReport:
			v.ClOrdID = &id
		default:
			return false
		}
		return true
	})
}

func (b *Builder) OrigClOrdID(id string) *Builder {
	return b.body("OrigClOrdID", func(body Body) bool {
		switch v := body.(type) {
		case *OrderCancelRequest:
			v.OrigClOrdID = id
		case *ExecutionReport:
			v.OrigClOrdID = &id
		default:
			return false
		}
		return true
	})
}

func (b *Builder) OrderID(id string) *Builder {
	return b.body("OrderID", func(body Body) bool {
		switch v := body.(type) {
		case *ExecutionReport:
			v.OrderID = id
		case *OrderCancelRequest:
			v.OrderID = &id
		default:
			return false
		}
		return true
	})
}

func (b *Builder) ExecID(id string) *Builder {
	return b.body("ExecID", func(body Body) bool {
		v, ok := body.(*ExecutionReport)
		if ok {
			v.ExecID = id
		}
		return ok
	})
}

func (b *Builder) ExecTransType(t ExecTransType) *Builder {
	return b.body("ExecTransType", func(body Body) bool {
		v, ok := body.(*ExecutionReport)
		if ok {
			v.ExecTransType = t
		}
		return ok
	})
}

func (b *Builder) ExecType(t ExecType) *Builder {
	return b.body("ExecType", func(body Body) bool {
		v, ok := body.(*ExecutionReport)
		if ok {
			v.ExecType = t
		}
		return ok
	})
}

func (b *Builder) OrdStatus(s OrdStatus) *Builder {
	return b.body("OrdStatus", func(body Body) bool {
		v, ok := body.(*ExecutionReport)
		if ok {
			v.OrdStatus = s
		}
		return ok
	})
}

func (b *Builder) Symbol(sym string) *Builder {
	return b.body("Symbol", func(body Body) bool {
		switch v := body.(type) {
		case *NewOrderSingle:
			v.Symbol = sym
		case *ExecutionReport:
			v.Symbol = sym
		case *OrderCancelRequest:
			v.Symbol = sym
		default:
			return false
		}
		return true
	})
}

func (b *Builder) Side(s Side) *Builder {
	return b.body("Side", func(body Body) bool {
		switch v := body.(type) {
		case *NewOrderSingle:
			v.Side = s
		case *ExecutionReport:
			v.Side = s
		case *OrderCancelRequest:
			v.Side = s
		default:
			return false
		}
		return true
	})
}

func (b *Builder) TransactTime(t time.Time) *Builder {
	t = msTime(t)
	return b.body("TransactTime", func(body Body) bool {
		switch v := body.(type) {
		case *NewOrderSingle:
			v.TransactTime = t
		case *OrderCancelRequest:
			v.TransactTime = t
		case *ExecutionReport:
			v.TransactTime = &t
		default:
			return false
		}
		return true
	})
}

func (b *Builder) OrderQty(q decimal.Decimal) *Builder {
	return b.body("OrderQty", func(body Body) bool {
		switch v := body.(type) {
		case *NewOrderSingle:
			v.OrderQty = &q
		case *OrderCancelRequest:
			v.OrderQty = &q
		default:
			return false
		}
		return true
	})
}

func (b *Builder) CashOrderQty(q decimal.Decimal) *Builder {
	return b.body("CashOrderQty", func(body Body) bool {
		switch v := body.(type) {
		case *NewOrderSingle:
			v.CashOrderQty = &q
		case *OrderCancelRequest:
			v.CashOrderQty = &q
		default:
			return false
		}
		return true
	})
}

func (b *Builder) Price(px decimal.Decimal) *Builder {
	return b.body("Price", func(body Body) bool {
		v, ok := body.(*NewOrderSingle)
		if ok {
			v.Price = &px
		}
		return ok
	})
}

func (b *Builder) OrdType(t string) *Builder {
	return b.body("OrdType", func(body Body) bool {
		v, ok := body.(*NewOrderSingle)
		if ok {
			v.OrdType = t
		}
		return ok
	})
}

func (b *Builder) HandlInst(h string) *Builder {
	return b.body("HandlInst", func(body Body) bool {
		v, ok := body.(*NewOrderSingle)
		if ok {
			v.HandlInst = h
		}
		return ok
	})
}

func (b *Builder) SecurityExchange(ex string) *Builder {
	return b.body("SecurityExchange", func(body Body) bool {
		v, ok := body.(*NewOrderSingle)
		if ok {
			v.SecurityExchange = &ex
		}
		return ok
	})
}

func (b *Builder) Account(acct string) *Builder {
	return b.body("Account", func(body Body) bool {
		switch v := body.(type) {
		case *NewOrderSingle:
			v.Account = &acct
		case *OrderCancelRequest:
			v.Account = &acct
		default:
			return false
		}
		return true
	})
}

func (b *Builder) Text(text string) *Builder {
	return b.body("Text", func(body Body) bool {
		switch v := body.(type) {
		case *NewOrderSingle:
			v.Text = &text
		case *ExecutionReport:
			v.Text = &text
		case *OrderCancelRequest:
			v.Text = &text
		default:
			return false
		}
		return true
	})
}

func (b *Builder) LeavesQty(q decimal.Decimal) *Builder {
	return b.body("LeavesQty", func(body Body) bool {
		v, ok := body.(*ExecutionReport)
		if ok {
			v.LeavesQty = q
		}
		return ok
	})
}

func (b *Builder) CumQty(q decimal.Decimal) *Builder {
	return b.body("CumQty", func(body Body) bool {
		v, ok := body.(*ExecutionReport)
		if ok {
			v.CumQty = q
		}
		return ok
	})
}

func (b *Builder) AvgPx(px decimal.Decimal) *Builder {
	return b.body("AvgPx", func(body Body) bool {
		v, ok := body.(*ExecutionReport)
		if ok {
			v.AvgPx = px
		}
		return ok
	})
}

func (b *Builder) LastShares(q decimal.Decimal) *Builder {
	return b.body("LastShares", func(body Body) bool {
		v, ok := body.(*ExecutionReport)
		if ok {
			v.LastShares = &q
		}
		return ok
	})
}

func (b *Builder) LastPx(px decimal.Decimal) *Builder {
	return b.body("LastPx", func(body Body) bool {
		v, ok := body.(*ExecutionReport)
		if ok {
			v.LastPx = &px
		}
		return ok
	})
}

func (b *Builder) OrdRejReason(code int) *Builder {
	return b.body("OrdRejReason", func(body Body) bool {
		v, ok := body.(*ExecutionReport)
		if ok {
			v.OrdRejReason = &code
		}
		return ok
	})
}
