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

	"github.com/shopspring/decimal"
)

// ExecutionReport (35=8) acknowledges order state changes and fills.
type ExecutionReport struct {
	OrderID       string
	ExecID        string
	ExecTransType ExecTransType
	ExecType      ExecType
	OrdStatus     OrdStatus
	ClOrdID       *string
	OrigClOrdID   *string
	Symbol        string
	Side          Side
	TransactTime  *time.Time
	LastShares    *decimal.Decimal
	LastPx        *decimal.Decimal
	LeavesQty     decimal.Decimal
	CumQty        decimal.Decimal
	AvgPx         decimal.Decimal
	OrdRejReason  *int
	Text          *string
}

func (b *ExecutionReport) MsgType() MsgType { return MsgTypeExecutionReport }

func (b *ExecutionReport) WriteFields(buf *FieldBuffer) {
	buf.Field(TagOrderID, b.OrderID)
	buf.Field(TagExecID, b.ExecID)
	buf.Field(TagExecTransType, b.ExecTransType.String())
	buf.Field(TagExecType, b.ExecType.String())
	buf.Field(TagOrdStatus, b.OrdStatus.String())
	buf.OptString(TagClOrdID, b.ClOrdID)
	buf.OptString(TagOrigClOrdID, b.OrigClOrdID)
	buf.Field(TagSymbol, b.Symbol)
	buf.Field(TagSide, b.Side.String())
	buf.OptTime(TagTransactTime, b.TransactTime)
	buf.OptDecimal(TagLastShares, b.LastShares)
	buf.OptDecimal(TagLastPx, b.LastPx)
	buf.Decimal(TagLeavesQty, b.LeavesQty)
	buf.Decimal(TagCumQty, b.CumQty)
	buf.Decimal(TagAvgPx, b.AvgPx)
	buf.OptInt(TagOrdRejReason, b.OrdRejReason)
	buf.OptString(TagText, b.Text)
}

func (b *ExecutionReport) ParseField(tag Tag, value string) error {
	var err error
	switch tag {
	case TagOrderID:
		b.OrderID = value
	case TagExecID:
		b.ExecID = value
	case TagExecTransType:
		if b.ExecTransType, err = ParseExecTransType(value); err != nil {
			return invalidValue(tag, value, err)
		}
	case TagExecType:
		if b.ExecType, err = ParseExecType(value); err != nil {
			return invalidValue(tag, value, err)
		}
	case TagOrdStatus:
		if b.OrdStatus, err = ParseOrdStatus(value); err != nil {
			return invalidValue(tag, value, err)
		}
	case TagClOrdID:
		b.ClOrdID = &value
	case TagOrigClOrdID:
		b.OrigClOrdID = &value
	case TagSymbol:
		b.Symbol = value
	case TagSide:
		b.Side, err = parseSideField(value)
	case TagTransactTime:
		var t time.Time
		if t, err = parseTime(tag, value); err == nil {
			b.TransactTime = &t
		}
	case TagLastShares:
		b.LastShares, err = parseOptDecimal(tag, value)
	case TagLastPx:
		b.LastPx, err = parseOptDecimal(tag, value)
	case TagLeavesQty:
		b.LeavesQty, err = parseDecimal(tag, value)
	case TagCumQty:
		b.CumQty, err = parseDecimal(tag, value)
	case TagAvgPx:
		b.AvgPx, err = parseDecimal(tag, value)
	case TagOrdRejReason:
		var n int
		if n, err = parseInt(tag, value); err == nil {
			b.OrdRejReason = &n
		}
	case TagText:
		b.Text = &value
	default:
		return unknownTag(tag, value)
	}
	return err
}

func (b *ExecutionReport) Validate() error {
	if b.OrderID == "" {
		return missingField(TagOrderID)
	}
	if b.ExecID == "" {
		return missingField(TagExecID)
	}
	if b.Symbol == "" {
		return missingField(TagSymbol)
	}
	if !b.Side.IsValid() {
		return missingField(TagSide)
	}
	for _, q := range []struct {
		tag Tag
		v   decimal.Decimal
	}{
		{TagLeavesQty, b.LeavesQty},
		{TagCumQty, b.CumQty},
		{TagAvgPx, b.AvgPx},
	} {
		if q.v.IsNegative() {
			return outOfRange(q.tag, q.v.String())
		}
	}
	if err := notNegative(TagLastShares, b.LastShares); err != nil {
		return err
	}
	if err := notNegative(TagLastPx, b.LastPx); err != nil {
		return err
	}
	if b.OrdRejReason != nil && *b.OrdRejReason < 0 {
		return outOfRange(TagOrdRejReason, strconv.Itoa(*b.OrdRejReason))
	}
	return nil
}
