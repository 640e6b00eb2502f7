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

// NewOrderSingle (35=D). Either OrderQty or CashOrderQty must be present.
type NewOrderSingle struct {
	ClOrdID      string
	Account      *string
	HandlInst    string
	Symbol       string
	Side         Side
	TransactTime time.Time
	OrdType      string

	OrderQty         *decimal.Decimal
	CashOrderQty     *decimal.Decimal
	SecurityExchange *string
	Price            *decimal.Decimal
	Text             *string
}

func (b *NewOrderSingle) MsgType() MsgType { return MsgTypeNewOrderSingle }

func (b *NewOrderSingle) WriteFields(buf *FieldBuffer) {
	buf.Field(TagClOrdID, b.ClOrdID)
	buf.OptString(TagAccount, b.Account)
	if b.HandlInst != "" {
		buf.Field(TagHandlInst, b.HandlInst)
	}
	buf.Field(TagSymbol, b.Symbol)
	buf.Field(TagSide, b.Side.String())
	if !b.TransactTime.IsZero() {
		buf.Time(TagTransactTime, b.TransactTime)
	}
	if b.OrdType != "" {
		buf.Field(TagOrdType, b.OrdType)
	}
	buf.OptDecimal(TagOrderQty, b.OrderQty)
	buf.OptDecimal(TagCashOrderQty, b.CashOrderQty)
	buf.OptString(TagSecurityExchange, b.SecurityExchange)
	buf.OptDecimal(TagPrice, b.Price)
	buf.OptString(TagText, b.Text)
}

func (b *NewOrderSingle) ParseField(tag Tag, value string) error {
	var err error
	switch tag {
	case TagClOrdID:
		b.ClOrdID = value
	case TagAccount:
		b.Account = &value
	case TagHandlInst:
		b.HandlInst = value
	case TagSymbol:
		b.Symbol = value
	case TagSide:
		b.Side, err = parseSideField(value)
	case TagTransactTime:
		b.TransactTime, err = parseTime(tag, value)
	case TagOrdType:
		b.OrdType = value
	case TagOrderQty:
		b.OrderQty, err = parseOptDecimal(tag, value)
	case TagCashOrderQty:
		b.CashOrderQty, err = parseOptDecimal(tag, value)
	case TagSecurityExchange:
		b.SecurityExchange = &value
	case TagPrice:
		b.Price, err = parseOptDecimal(tag, value)
	case TagText:
		b.Text = &value
	default:
		return unknownTag(tag, value)
	}
	return err
}

func (b *NewOrderSingle) Validate() error {
	if b.ClOrdID == "" {
		return missingField(TagClOrdID)
	}
	if b.Symbol == "" {
		return missingField(TagSymbol)
	}
	if !b.Side.IsValid() {
		return missingField(TagSide)
	}
	if err := validateQuantity(b.OrderQty, b.CashOrderQty); err != nil {
		return err
	}
	return notNegative(TagPrice, b.Price)
}

func parseSideField(value string) (Side, error) {
	s, err := ParseSide(value)
	if err != nil {
		return 0, invalidValue(TagSide, value, err)
	}
	return s, nil
}

func parseOptDecimal(tag Tag, value string) (*decimal.Decimal, error) {
	d, err := parseDecimal(tag, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// validateQuantity requires at least one of OrderQty and CashOrderQty.
func validateQuantity(orderQty, cashOrderQty *decimal.Decimal) error {
	if orderQty == nil && cashOrderQty == nil {
		return missingField(TagOrderQty)
	}
	if err := notNegative(TagOrderQty, orderQty); err != nil {
		return err
	}
	return notNegative(TagCashOrderQty, cashOrderQty)
}

func notNegative(tag Tag, d *decimal.Decimal) error {
	if d != nil && d.IsNegative() {
		return outOfRange(tag, d.String())
	}
	return nil
}
