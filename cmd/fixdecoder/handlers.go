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
package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stephenlclarke/fix42/decoder"
	"github.com/stephenlclarke/fix42/fix"
)

// handleInfo prints a summary of the dictionary. Returns true if handled.
func handleInfo(opts CLIOptions, dict *decoder.Dictionary, out io.Writer) bool {
	if !opts.Info {
		return false
	}

	fmt.Fprintf(out, "Embedded dictionary:\n")
	fmt.Fprintf(out, "  FIX Version:  %s\n", dict.Version)
	fmt.Fprintf(out, "  Messages:     %d\n", len(dict.Messages()))
	fmt.Fprintf(out, "  Fields:       %d\n", len(dict.Fields()))
	fmt.Fprintf(out, "  Codec types:  %d\n", len(fix.KnownMsgTypes()))

	return true
}

// handleMessage processes the -message flag. Returns true if handled.
func handleMessage(opts CLIOptions, dict *decoder.Dictionary, out io.Writer) bool {
	if !opts.Message.isSet {
		return false
	}

	switch opts.Message.value {
	case "true": // bare -message
		if opts.ColumnOutput {
			decoder.PrintMessagesInColumns(out, dict)
		} else {
			decoder.ListAllMessages(out, dict)
		}
	case "": // explicit -message=
		PrintUsage(out)
	default:
		m, ok := dict.FindMessage(opts.Message.value)
		if !ok {
			fmt.Fprintf(out, "Message not found: %s\n", opts.Message.value)
			return true
		}
		decoder.DisplayMessage(out, dict, m, opts.Verbose, opts.IncludeHeader, opts.IncludeTrailer, opts.ColumnOutput)
	}

	return true
}

// handleTag processes the -tag flag. Returns true if handled.
func handleTag(opts CLIOptions, dict *decoder.Dictionary, out io.Writer) bool {
	if !opts.Tag.isSet {
		return false
	}

	switch opts.Tag.value {
	case "true": // bare -tag
		if opts.ColumnOutput {
			decoder.PrintTagsInColumns(out, dict)
		} else {
			decoder.ListAllTags(out, dict)
		}
	case "": // explicit -tag=
		PrintUsage(out)
	default:
		handleSpecificTag(opts, dict, out)
	}

	return true
}

func handleSpecificTag(opts CLIOptions, dict *decoder.Dictionary, out io.Writer) {
	id, err := strconv.Atoi(opts.Tag.value)
	if err != nil {
		fmt.Fprintf(out, "Invalid tag: %s\n", opts.Tag.value)
		return
	}

	field, found := dict.FindField(fix.Tag(id))
	if !found {
		fmt.Fprintf(out, "Tag not found: %d\n", id)
		return
	}

	decoder.PrintTagDetails(out, field, opts.Verbose, opts.ColumnOutput)
}

// handleSample builds a sample message with the codec builder and prints
// both the wire form and the decoded form.
func handleSample(opts CLIOptions, dict *decoder.Dictionary, obfuscator *fix.Obfuscator, out, errOut io.Writer) (bool, int) {
	if opts.Sample == "" {
		return false, 0
	}

	msgType := fix.ParseMsgType(opts.Sample)
	if def, ok := dict.FindMessage(opts.Sample); ok {
		msgType = fix.ParseMsgType(def.MsgType)
	}

	m, err := buildSample(msgType, time.Now())
	if err == nil && obfuscator.Enabled() {
		m, err = obfuscator.ObfuscateMessage(m)
	}
	if err != nil {
		fmt.Fprintln(errOut, decoder.ColourError+"Cannot build sample: "+err.Error()+decoder.ColourReset)
		return true, 1
	}

	fmt.Fprintln(out, m.String())
	fmt.Fprintln(out)
	fmt.Fprint(out, decoder.Prettify(string(m.Encode()), dict))

	return true, 0
}

// buildSample returns a valid message of the given type.
func buildSample(msgType fix.MsgType, now time.Time) (*fix.Message, error) {
	b := fix.NewBuilder(msgType, "SENDER", "TARGET", 1).SendingTime(now)
	qty := decimal.NewFromInt(100)
	px := decimal.RequireFromString("150.25")

	switch msgType {
	case fix.MsgTypeHeartbeat:
	case fix.MsgTypeLogon:
		b.HeartBtInt(fix.DefaultHeartBtInt)
	case fix.MsgTypeNewOrderSingle:
		b.ClOrdID(fix.NewID()).HandlInst("1").Symbol("AAPL").Side(fix.SideBuy).
			TransactTime(now).OrderQty(qty).OrdType("2").Price(px)
	case fix.MsgTypeOrderCancelRequest:
		b.OrigClOrdID(fix.NewID()).ClOrdID(fix.NewID()).Symbol("AAPL").Side(fix.SideBuy).
			TransactTime(now).OrderQty(qty)
	case fix.MsgTypeExecutionReport:
		b.OrderID(fix.NewID()).ClOrdID(fix.NewID()).ExecID(fix.NewID()).
			ExecTransType(fix.ExecTransTypeNew).ExecType(fix.ExecTypeFill).OrdStatus(fix.OrdStatusFilled).
			Symbol("AAPL").Side(fix.SideBuy).LastShares(qty).LastPx(px).
			LeavesQty(decimal.Zero).CumQty(qty).AvgPx(px).TransactTime(now)
	default:
		return nil, fmt.Errorf("no sample for MsgType %q", msgType.String())
	}

	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// runHandlers invokes each of the "-info", "-message", "-tag" and
// "-sample" handlers. It reports whether any fired and the exit code.
func runHandlers(opts CLIOptions, dict *decoder.Dictionary, obfuscator *fix.Obfuscator, out, errOut io.Writer) (bool, int) {
	handled := false

	if handleInfo(opts, dict, out) {
		handled = true
	}

	if handleMessage(opts, dict, out) {
		handled = true
	}

	if handleTag(opts, dict, out) {
		handled = true
	}

	if ok, code := handleSample(opts, dict, obfuscator, out, errOut); ok {
		return true, code
	}

	return handled, 0
}
