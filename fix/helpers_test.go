package fix

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 3, 15, 14, 30, 5, 123_000_000, time.UTC)

// fixLine joins pairs with SOH, terminating the last one.
func fixLine(pairs ...string) string {
	return strings.Join(pairs, string(SOH)) + string(SOH)
}

// pipes swaps '|' for SOH so test messages stay readable.
func pipes(s string) []byte {
	return []byte(strings.ReplaceAll(s, "|", string(SOH)))
}

func sampleOrder(t *testing.T) *Message {
	t.Helper()
	m, err := NewBuilder(MsgTypeNewOrderSingle, "TESTBUY3", "TESTSELL3", 972).
		SendingTime(testTime).
		TransactTime(testTime).
		ClOrdID("ORD-1").
		Symbol("AAPL").
		Side(SideBuy).
		OrderQty(decimal.RequireFromString("100")).
		Price(decimal.RequireFromString("150.25")).
		OrdType("2").
		HandlInst("1").
		Account("ACC-7").
		Build()
	require.NoError(t, err)
	return m
}

// reframe rebuilds BodyLength and CheckSum around a hand written field
// sequence given as "35=...|...|" (everything between 9 and 10).
func reframe(counted string) []byte {
	body := pipes(counted)
	head := fixLine("8=FIX.4.2", "9="+strconv.Itoa(len(body)))
	raw := append([]byte(head), body...)
	return append(raw, []byte(fixLine("10="+formatCheckSum(sumBytes(raw))))...)
}

func itoa(n int) string { return strconv.Itoa(n) }
