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

// OrderCancelRequest (35=F) asks for the cancellation of OrigClOrdID.
type OrderCancelRequest struct {
	OrigClOrdID  string
	OrderID      *string
	ClOrdID      string
	Symbol       string
	Side         Side
	TransactTime time.Time
	OrderQty     *decimal.Decimal
	CashOrderQty *decimal.Decimal
	Account      *string
	Text         *string
}

func (b *OrderCancelRequest) MsgType() MsgType { return MsgTypeOrderCancelRequest }

func (b *OrderCancelRequest) WriteFields(buf *FieldBuffer) {
	buf.Field(TagOrigClOrdID, b.OrigClOrdID)
	buf.OptString(TagOrderID, b.OrderID)
	buf.Field(TagClOrdID, b.ClOrdID)
	buf.Field(TagSymbol, b.Symbol)
	buf.Field(TagSide, b.Side.String())
	if !b.TransactTime.IsZero() {
		buf.Time(TagTransactTime, b.TransactTime)
	}
	buf.OptDecimal(TagOrderQty, b.OrderQty)
	buf.OptDecimal(TagCashOrderQty, b.CashOrderQty)
	buf.OptString(TagAccount, b.Account)
	buf.OptString(TagText, b.Text)
}

func (b *OrderCancelRequest) ParseField(tag Tag, value string) error {
	var err error
	switch tag {
	case TagOrigClOrdID:
		b.OrigClOrdID = value
	case TagOrderID:
		b.OrderID = &value
	case TagClOrdID:
		b.ClOrdID = value
	case TagSymbol:
		b.Symbol = value
	case TagSide:
		b.Side, err = parseSideField(value)
	case TagTransactTime:
		b.TransactTime, err = parseTime(tag, value)
	case TagOrderQty:
		b.OrderQty, err = parseOptDecimal(tag, value)
	case TagCashOrderQty:
		b.CashOrderQty, err = parseOptDecimal(tag, value)
	case TagAccount:
		b.Account = &value
	case TagText:
		b.Text = &value
	default:
		return unknownTag(tag, value)
	}
	return err
}

func (b *OrderCancelRequest) Validate() error {
	if b.OrigClOrdID == "" {
		return missingField(TagOrigClOrdID)
	}
	if b.ClOrdID == "" {
		return missingField(TagClOrdID)
	}
	if b.Symbol == "" {
		return missingField(TagSymbol)
	}
	if !b.Side.IsValid() {
		return missingField(TagSide)
	}
	return validateQuantity(b.OrderQty, b.CashOrderQty)
}
