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

import "fmt"

// MsgType is an open enumeration: codes without a named constant are kept
// verbatim, so any MsgType parses and formats back to the same string.
type MsgType string

const (
	MsgTypeHeartbeat          MsgType = "0"
	MsgTypeExecutionReport    MsgType = "8"
	MsgTypeLogon              MsgType = "A"
	MsgTypeNewOrderSingle     MsgType = "D"
	MsgTypeOrderCancelRequest MsgType = "F"
	MsgTypeMarketDataRequest  MsgType = "V"
)

var msgTypeNames = map[MsgType]string{
	MsgTypeHeartbeat:          "Heartbeat",
	MsgTypeExecutionReport:    "ExecutionReport",
	MsgTypeLogon:              "Logon",
	MsgTypeNewOrderSingle:     "NewOrderSingle",
	MsgTypeOrderCancelRequest: "OrderCancelRequest",
	MsgTypeMarketDataRequest:  "MarketDataRequest",
}

// ParseMsgType never fails.
func ParseMsgType(code string) MsgType { return MsgType(code) }

func (t MsgType) String() string { return string(t) }

// IsKnown reports whether t is one of the named message types.
func (t MsgType) IsKnown() bool {
	_, ok := msgTypeNames[t]
	return ok
}

// Name returns the symbolic name, or "Other" for pass-through codes.
func (t MsgType) Name() string {
	if n, ok := msgTypeNames[t]; ok {
		return n
	}
	return "Other"
}

// KnownMsgTypes lists the named message types in code order.
func KnownMsgTypes() []MsgType {
	return []MsgType{
		MsgTypeHeartbeat,
		MsgTypeExecutionReport,
		MsgTypeLogon,
		MsgTypeNewOrderSingle,
		MsgTypeOrderCancelRequest,
		MsgTypeMarketDataRequest,
	}
}

// enumTable backs the closed enumerations.
type enumTable[T comparable] struct {
	field  string
	byCode map[string]T
	codes  map[T]string
	names  map[T]string
}

type enumEntry[T comparable] struct {
	value T
	code  string
	name  string
}

func newEnumTable[T comparable](field string, entries ...enumEntry[T]) enumTable[T] {
	e := enumTable[T]{
		field:  field,
		byCode: make(map[string]T, len(entries)),
		codes:  make(map[T]string, len(entries)),
		names:  make(map[T]string, len(entries)),
	}
	for _, en := range entries {
		e.byCode[en.code] = en.value
		e.codes[en.value] = en.code
		e.names[en.value] = en.name
	}
	return e
}

func (e enumTable[T]) parse(code string) (T, error) {
	if v, ok := e.byCode[code]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", ErrUnknownEnum, e.field, code)
}

func (e enumTable[T]) format(v T) string { return e.codes[v] }

func (e enumTable[T]) name(v T) string {
	if n, ok := e.names[v]; ok {
		return n
	}
	return "Unknown" + e.field
}

func (e enumTable[T]) valid(v T) bool {
	_, ok := e.codes[v]
	return ok
}

// Side is a closed enumeration. The zero value means "not set".
type Side uint8

const (
	SideBuy Side = iota + 1
	SideSell
)

var sides = newEnumTable("Side",
	enumEntry[Side]{SideBuy, "1", "Buy"},
	enumEntry[Side]{SideSell, "2", "Sell"},
)

func ParseSide(code string) (Side, error) { return sides.parse(code) }
func (s Side) String() string             { return sides.format(s) }
func (s Side) Name() string               { return sides.name(s) }
func (s Side) IsValid() bool              { return sides.valid(s) }

// OrdStatus is closed; the zero value is New.
type OrdStatus uint8

const (
	OrdStatusNew OrdStatus = iota
	OrdStatusPartiallyFilled
	OrdStatusFilled
	OrdStatusDoneForDay
	OrdStatusCanceled
	OrdStatusReplaced
	OrdStatusPendingCancel
	OrdStatusStopped
	OrdStatusRejected
	OrdStatusSuspended
	OrdStatusPendingNew
	OrdStatusCalculated
	OrdStatusExpired
	OrdStatusAcceptedForBidding
	OrdStatusPendingReplace
)

var ordStatuses = newEnumTable("OrdStatus",
	enumEntry[OrdStatus]{OrdStatusNew, "0", "New"},
	enumEntry[OrdStatus]{OrdStatusPartiallyFilled, "1", "PartiallyFilled"},
	enumEntry[OrdStatus]{OrdStatusFilled, "2", "Filled"},
	enumEntry[OrdStatus]{OrdStatusDoneForDay, "3", "DoneForDay"},
	enumEntry[OrdStatus]{OrdStatusCanceled, "4", "Canceled"},
	enumEntry[OrdStatus]{OrdStatusReplaced, "5", "Replaced"},
	enumEntry[OrdStatus]{OrdStatusPendingCancel, "6", "PendingCancel"},
	enumEntry[OrdStatus]{OrdStatusStopped, "7", "Stopped"},
	enumEntry[OrdStatus]{OrdStatusRejected, "8", "Rejected"},
	enumEntry[OrdStatus]{OrdStatusSuspended, "9", "Suspended"},
	enumEntry[OrdStatus]{OrdStatusPendingNew, "A", "PendingNew"},
	enumEntry[OrdStatus]{OrdStatusCalculated, "B", "Calculated"},
	enumEntry[OrdStatus]{OrdStatusExpired, "C", "Expired"},
	enumEntry[OrdStatus]{OrdStatusAcceptedForBidding, "D", "AcceptedForBidding"},
	enumEntry[OrdStatus]{OrdStatusPendingReplace, "E", "PendingReplace"},
)

func ParseOrdStatus(code string) (OrdStatus, error) { return ordStatuses.parse(code) }
func (s OrdStatus) String() string                  { return ordStatuses.format(s) }
func (s OrdStatus) Name() string                    { return ordStatuses.name(s) }
func (s OrdStatus) IsValid() bool                   { return ordStatuses.valid(s) }

// EncryptMethod is closed; the zero value is None.
type EncryptMethod uint8

const (
	EncryptMethodNone EncryptMethod = iota
	EncryptMethodPKCS
	EncryptMethodDES
	EncryptMethodPKCSDES
	EncryptMethodPGPDES
	EncryptMethodPGPDESMD5
	EncryptMethodPEMDESMD5
)

var encryptMethods = newEnumTable("EncryptMethod",
	enumEntry[EncryptMethod]{EncryptMethodNone, "0", "None"},
	enumEntry[EncryptMethod]{EncryptMethodPKCS, "1", "PKCS"},
	enumEntry[EncryptMethod]{EncryptMethodDES, "2", "DES"},
	enumEntry[EncryptMethod]{EncryptMethodPKCSDES, "3", "PKCS/DES"},
	enumEntry[EncryptMethod]{EncryptMethodPGPDES, "4", "PGP/DES"},
	enumEntry[EncryptMethod]{EncryptMethodPGPDESMD5, "5", "PGP/DES-MD5"},
	enumEntry[EncryptMethod]{EncryptMethodPEMDESMD5, "6", "PEM/DES-MD5"},
)

func ParseEncryptMethod(code string) (EncryptMethod, error) { return encryptMethods.parse(code) }
func (m EncryptMethod) String() string                      { return encryptMethods.format(m) }
func (m EncryptMethod) Name() string                        { return encryptMethods.name(m) }
func (m EncryptMethod) IsValid() bool                       { return encryptMethods.valid(m) }

// ExecType is closed; the zero value is New.
type ExecType uint8

const (
	ExecTypeNew ExecType = iota
	ExecTypePartialFill
	ExecTypeFill
	ExecTypeDoneForDay
	ExecTypeCanceled
	ExecTypeReplace
	ExecTypePendingCancel
	ExecTypeStopped
	ExecTypeRejected
	ExecTypeSuspended
	ExecTypePendingNew
	ExecTypeCalculated
	ExecTypeExpired
	ExecTypeRestated
	ExecTypePendingReplace
)

var execTypes = newEnumTable("ExecType",
	enumEntry[ExecType]{ExecTypeNew, "0", "New"},
	enumEntry[ExecType]{ExecTypePartialFill, "1", "PartialFill"},
	enumEntry[ExecType]{ExecTypeFill, "2", "Fill"},
	enumEntry[ExecType]{ExecTypeDoneForDay, "3", "DoneForDay"},
	enumEntry[ExecType]{ExecTypeCanceled, "4", "Canceled"},
	enumEntry[ExecType]{ExecTypeReplace, "5", "Replace"},
	enumEntry[ExecType]{ExecTypePendingCancel, "6", "PendingCancel"},
	enumEntry[ExecType]{ExecTypeStopped, "7", "Stopped"},
	enumEntry[ExecType]{ExecTypeRejected, "8", "Rejected"},
	enumEntry[ExecType]{ExecTypeSuspended, "9", "Suspended"},
	enumEntry[ExecType]{ExecTypePendingNew, "A", "PendingNew"},
	enumEntry[ExecType]{ExecTypeCalculated, "B", "Calculated"},
	enumEntry[ExecType]{ExecTypeExpired, "C", "Expired"},
	enumEntry[ExecType]{ExecTypeRestated, "D", "Restated"},
	enumEntry[ExecType]{ExecTypePendingReplace, "E", "PendingReplace"},
)

func ParseExecType(code string) (ExecType, error) { return execTypes.parse(code) }
func (t ExecType) String() string                 { return execTypes.format(t) }
func (t ExecType) Name() string                   { return execTypes.name(t) }
func (t ExecType) IsValid() bool                  { return execTypes.valid(t) }

// ExecTransType is closed; the zero value is New.
type ExecTransType uint8

const (
	ExecTransTypeNew ExecTransType = iota
	ExecTransTypeCancel
	ExecTransTypeCorrect
	ExecTransTypeStatus
)

var execTransTypes = newEnumTable("ExecTransType",
	enumEntry[ExecTransType]{ExecTransTypeNew, "0", "New"},
	enumEntry[ExecTransType]{ExecTransTypeCancel, "1", "Cancel"},
	enumEntry[ExecTransType]{ExecTransTypeCorrect, "2", "Correct"},
	enumEntry[ExecTransType]{ExecTransTypeStatus, "3", "Status"},
)

func ParseExecTransType(code string) (ExecTransType, error) { return execTransTypes.parse(code) }
func (t ExecTransType) String() string                      { return execTransTypes.format(t) }
func (t ExecTransType) Name() string                        { return execTransTypes.name(t) }
func (t ExecTransType) IsValid() bool                       { return execTransTypes.valid(t) }
