package decoder

import (
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stephenlclarke/fix42/fix"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 3, 15, 14, 30, 5, 123_000_000, time.UTC)

func sampleOrder(t *testing.T) string {
	t.Helper()
	m, err := fix.NewBuilder(fix.MsgTypeNewOrderSingle, "TESTBUY3", "TESTSELL3", 972).
		SendingTime(testTime).
		TransactTime(testTime).
		ClOrdID("ORD-1").
		Account("ACC-7").
		Symbol("AAPL").
		Side(fix.SideBuy).
		OrdType("2").
		OrderQty(decimal.NewFromInt(100)).
		Price(decimal.RequireFromString("150.25")).
		Build()
	require.NoError(t, err)
	return string(m.Encode())
}

func itoa(n int) string { return strconv.Itoa(n) }
