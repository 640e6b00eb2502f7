package fix

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fieldOffsets returns where "9=" ends and "10=" starts in raw.
func fieldOffsets(t *testing.T, raw []byte) (afterBodyLength, checkSumStart int) {
	t.Helper()
	i := bytes.Index(raw, []byte{SOH, '9', '='})
	require.GreaterOrEqual(t, i, 0)
	afterBodyLength = i + 1 + bytes.IndexByte(raw[i+1:], SOH) + 1
	checkSumStart = bytes.LastIndex(raw, []byte{SOH, '1', '0', '='}) + 1
	require.Greater(t, checkSumStart, afterBodyLength)
	return afterBodyLength, checkSumStart
}

func TestNewOrderSingleScenario(t *testing.T) {
	m := sampleOrder(t)
	raw := m.Encode()
	s := m.String()

	assert.True(t, strings.HasPrefix(s, "8=FIX.4.2|9="+strconv.Itoa(m.BodyLength())+"|35=D|49=TESTBUY3|56=TESTSELL3|34=972|52="), s)
	assert.Contains(t, s, "|52=20240315-14:30:05.123|")
	assert.Contains(t, s, "|11=ORD-1|1=ACC-7|21=1|55=AAPL|54=1|60=20240315-14:30:05.123|40=2|38=100|44=150.25|10=")
	assert.True(t, strings.HasSuffix(s, "|10="+m.CheckSum()+"|"), s)
	assert.NoError(t, m.Validate())

	// checksum recomputed by hand over every byte before 10=
	_, csStart := fieldOffsets(t, raw)
	sum := 0
	for _, c := range raw[:csStart] {
		sum += int(c)
	}
	assert.Equal(t, m.CheckSum(), strconv.Itoa(1000 + sum%256)[1:])
	assert.Len(t, m.CheckSum(), 3)
}

func TestBodyLengthIsMeasuredSpan(t *testing.T) {
	for _, m := range []*Message{sampleOrder(t), sampleExecReport(t), sampleLogon(t)} {
		raw := m.Encode()
		start, end := fieldOffsets(t, raw)
		assert.Equal(t, end-start, m.BodyLength(), m.String())
		assert.Equal(t, m.ComputeBodyLength(), m.BodyLength())
		assert.Equal(t, m.ComputeCheckSum(), m.CheckSum())
	}
}

func TestCheckIntegrityDetectsTampering(t *testing.T) {
	m := sampleOrder(t)
	require.NoError(t, m.CheckIntegrity())

	nos := m.body.(*NewOrderSingle)
	nos.Symbol = "MSFT" // same length
	err := m.CheckIntegrity()
	assert.ErrorIs(t, err, ErrInvalidChecksum)

	nos.Symbol = "GOOGL"
	err = m.CheckIntegrity()
	assert.ErrorIs(t, err, ErrInvalidBodyLength)

	// Encode always derives from content, so the output is self-consistent
	decoded, err := Decode(m.Encode())
	require.NoError(t, err)
	assert.Equal(t, "GOOGL", decoded.Body().(*NewOrderSingle).Symbol)
	assert.NoError(t, decoded.CheckIntegrity())
}

func TestAccessorsReturnCopies(t *testing.T) {
	m := sampleOrder(t)
	raw := m.Encode()

	nos := m.Body().(*NewOrderSingle)
	nos.Symbol = "MSFT"
	*nos.Account = "OTHER"
	*nos.Price = decimal.NewFromInt(1)

	h := m.Header()
	h.SenderCompID = "X"

	assert.Equal(t, raw, m.Encode())
	assert.NoError(t, m.CheckIntegrity())
}

func TestValidateRejectsEmbeddedSOH(t *testing.T) {
	injected := "note\x0154=2"

	cases := map[string]func() (*Message, error){
		"body text": func() (*Message, error) {
			return FromMessage(sampleOrder(t)).Text(injected).Build()
		},
		"header": func() (*Message, error) {
			return NewBuilder(MsgTypeHeartbeat, "A\x0156=Z", "B", 1).SendingTime(testTime).Build()
		},
		"trailer": func() (*Message, error) {
			return NewBuilder(MsgTypeHeartbeat, "A", "B", 1).SendingTime(testTime).Signature(injected).Build()
		},
		"pass-through": func() (*Message, error) {
			return NewBuilder("V", "A", "B", 1).SendingTime(testTime).Set(262, injected).Build()
		},
	}
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			m, err := build()
			require.NoError(t, err)

			err = m.Validate()
			require.ErrorIs(t, err, ErrInvalidValue)
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Contains(t, fe.Value, "\x01")
		})
	}

	m, err := FromMessage(sampleOrder(t)).Text(injected).Build()
	require.NoError(t, err)
	var fe *FieldError
	require.True(t, errors.As(m.Validate(), &fe))
	assert.Equal(t, TagText, fe.Tag)

	other := &Other{msgType: "V", Fields: []Field{{Tag: 262, Value: injected}}}
	assert.ErrorIs(t, other.Validate(), ErrInvalidValue)
}

func TestDecimalScaleSurvivesRoundTrip(t *testing.T) {
	raw := reframe("35=D|49=A|56=B|34=1|52=20240315-14:30:05.123|11=O|55=X|54=1|38=100|44=150.50|")
	m, err := Decode(raw)
	require.NoError(t, err)

	assert.NoError(t, m.CheckIntegrity())
	assert.Equal(t, raw, m.Encode())
	assert.Equal(t, "150.50", formatDecimal(*m.Body().(*NewOrderSingle).Price))

	built, err := FromMessage(m).Price(decimal.RequireFromString("99.000")).Build()
	require.NoError(t, err)
	assert.Contains(t, built.String(), "|44=99.000|")
}

func TestAppendEncoded(t *testing.T) {
	m := sampleOrder(t)
	out := m.AppendEncoded([]byte("prefix"))
	assert.Equal(t, append([]byte("prefix"), m.Encode()...), out)
}

func sampleLogon(t *testing.T) *Message {
	t.Helper()
	m, err := NewBuilder(MsgTypeLogon, "CLIENT", "BROKER", 1).
		SendingTime(testTime).
		HeartBtInt(60).
		EncryptMethod(EncryptMethodDES).
		ResetSeqNumFlag(true).
		NextExpectedMsgSeqNum(5).
		MaxMessageSize(4096).
		PossDupFlag(false).
		PossResend(true).
		OrigSendingTime(testTime.Add(-time.Minute)).
		Signature("sig").
		Build()
	require.NoError(t, err)
	return m
}

func sampleExecReport(t *testing.T) *Message {
	t.Helper()
	m, err := NewBuilder(MsgTypeExecutionReport, "BROKER", "CLIENT", 44).
		SendingTime(testTime).
		OrderID("O-1").
		ExecID("E-1").
		ExecTransType(ExecTransTypeNew).
		ExecType(ExecTypePartialFill).
		OrdStatus(OrdStatusPartiallyFilled).
		ClOrdID("ORD-1").
		OrigClOrdID("ORD-0").
		Symbol("AAPL").
		Side(SideSell).
		TransactTime(testTime).
		LastShares(decimal.RequireFromString("40")).
		LastPx(decimal.RequireFromString("150.2")).
		LeavesQty(decimal.RequireFromString("60")).
		CumQty(decimal.RequireFromString("40")).
		AvgPx(decimal.RequireFromString("150.2")).
		OrdRejReason(0).
		Text("partial").
		Build()
	require.NoError(t, err)
	return m
}

func TestRoundTripAllOptionals(t *testing.T) {
	cancel, err := NewBuilder(MsgTypeOrderCancelRequest, "TESTBUY3", "TESTSELL3", 973).
		SendingTime(testTime).
		OrigClOrdID("ORD-1").
		OrderID("O-1").
		ClOrdID("ORD-2").
		Symbol("AAPL").
		Side(SideBuy).
		TransactTime(testTime).
		OrderQty(decimal.RequireFromString("100")).
		CashOrderQty(decimal.RequireFromString("15025")).
		Account("ACC-7").
		Text("cancel").
		Build()
	require.NoError(t, err)

	hb, err := NewBuilder(MsgTypeHeartbeat, "A", "B", 9).
		SendingTime(testTime).
		TestReqID("T1").
		Build()
	require.NoError(t, err)

	nos, err := FromMessage(sampleOrder(t)).
		CashOrderQty(decimal.RequireFromString("15025")).
		SecurityExchange("XNAS").
		Text("hello").
		Build()
	require.NoError(t, err)

	for _, m := range []*Message{sampleLogon(t), sampleExecReport(t), cancel, hb, nos} {
		raw := m.Encode()
		got, err := Decode(raw)
		require.NoError(t, err, m.String())
		assert.Equal(t, raw, got.Encode(), m.String())
		assert.Equal(t, m.MsgType(), got.MsgType())
		assert.Equal(t, m.BodyLength(), got.BodyLength())
		assert.Equal(t, m.CheckSum(), got.CheckSum())
	}

	got, err := Decode(sampleLogon(t).Encode())
	require.NoError(t, err)
	h := got.Header()
	require.NotNil(t, h.PossDupFlag)
	assert.False(t, *h.PossDupFlag)
	require.NotNil(t, h.PossResend)
	assert.True(t, *h.PossResend)
	require.NotNil(t, h.OrigSendingTime)
	assert.True(t, testTime.Add(-time.Minute).Equal(*h.OrigSendingTime))
	tr := got.Trailer()
	require.NotNil(t, tr.Signature)
	assert.Equal(t, "sig", *tr.Signature)
	assert.Equal(t, 3, *tr.SignatureLength)

	logon := got.Body().(*Logon)
	assert.Equal(t, EncryptMethodDES, logon.EncryptMethod)
	assert.Equal(t, 60, logon.HeartBtInt)
	assert.True(t, *logon.ResetSeqNumFlag)
	assert.Equal(t, 5, *logon.NextExpectedMsgSeqNum)
	assert.Equal(t, 4096, *logon.MaxMessageSize)

	got, err = Decode(sampleExecReport(t).Encode())
	require.NoError(t, err)
	er := got.Body().(*ExecutionReport)
	assert.Equal(t, ExecTypePartialFill, er.ExecType)
	assert.Equal(t, OrdStatusPartiallyFilled, er.OrdStatus)
	assert.Equal(t, SideSell, er.Side)
	assert.True(t, er.LeavesQty.Equal(decimal.NewFromInt(60)))
	assert.True(t, er.LastPx.Equal(decimal.RequireFromString("150.20")))
	assert.Equal(t, "partial", *er.Text)
	assert.True(t, testTime.Equal(*er.TransactTime))
}

func TestRoundTripOptionalsAbsent(t *testing.T) {
	hb, err := NewBuilder(MsgTypeHeartbeat, "A", "B", 1).SendingTime(testTime).Build()
	require.NoError(t, err)
	assert.Equal(t, "8=FIX.4.2|9=45|35=0|49=A|56=B|34=1|52=20240315-14:30:05.123|10="+hb.CheckSum()+"|", hb.String())

	er, err := NewBuilder(MsgTypeExecutionReport, "B", "A", 2).
		SendingTime(testTime).
		OrderID("O").
		ExecID("E").
		Symbol("X").
		Side(SideBuy).
		Build()
	require.NoError(t, err)
	assert.Contains(t, er.String(), "|37=O|17=E|20=0|150=0|39=0|55=X|54=1|151=0|14=0|6=0|10=")

	cancel, err := NewBuilder(MsgTypeOrderCancelRequest, "A", "B", 3).
		SendingTime(testTime).
		TransactTime(testTime).
		OrigClOrdID("1").
		ClOrdID("2").
		Symbol("X").
		Side(SideSell).
		OrderQty(decimal.NewFromInt(1)).
		Build()
	require.NoError(t, err)
	assert.Contains(t, cancel.String(), "|41=1|11=2|55=X|54=2|60=20240315-14:30:05.123|38=1|10=")

	for _, m := range []*Message{hb, er, cancel} {
		got, err := Decode(m.Encode())
		require.NoError(t, err, m.String())
		assert.Equal(t, m.Encode(), got.Encode())
		h := got.Header()
		assert.Nil(t, h.PossDupFlag)
		assert.Nil(t, h.OrigSendingTime)
		tr := got.Trailer()
		assert.Nil(t, tr.Signature)
	}
}

func TestValidationGating(t *testing.T) {
	build := func(sender, target string, seq int) *Message {
		m, err := NewBuilder(MsgTypeHeartbeat, sender, target, seq).SendingTime(testTime).Build()
		require.NoError(t, err)
		return m
	}

	assert.ErrorIs(t, build("A", "B", 0).Validate(), ErrValueOutOfRange)
	assert.ErrorIs(t, build("A", "B", -4).Validate(), ErrValueOutOfRange)
	assert.ErrorIs(t, build("", "B", 1).Validate(), ErrMissingField)
	assert.ErrorIs(t, build("A", "", 1).Validate(), ErrMissingField)

	// the same messages pass once corrected
	fixed, err := FromMessage(build("", "", 0)).
		Set(TagSenderCompID, "A").
		Set(TagTargetCompID, "B").
		Set(TagMsgSeqNum, "1").
		Build()
	require.NoError(t, err)
	assert.NoError(t, fixed.Validate())

	// encoding an invalid message still works; validation is separate
	bad := build("A", "B", 0)
	_, err = Decode(bad.Encode())
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestValidateBodies(t *testing.T) {
	cases := []struct {
		name string
		msg  func() (*Message, error)
		want error
	}{
		{"order without symbol", func() (*Message, error) {
			return NewBuilder(MsgTypeNewOrderSingle, "A", "B", 1).ClOrdID("1").Side(SideBuy).
				OrderQty(decimal.NewFromInt(1)).Build()
		}, ErrMissingField},
		{"order without quantity", func() (*Message, error) {
			return NewBuilder(MsgTypeNewOrderSingle, "A", "B", 1).ClOrdID("1").Symbol("X").Side(SideBuy).Build()
		}, ErrMissingField},
		{"order with negative price", func() (*Message, error) {
			return NewBuilder(MsgTypeNewOrderSingle, "A", "B", 1).ClOrdID("1").Symbol("X").Side(SideBuy).
				OrderQty(decimal.NewFromInt(1)).Price(decimal.NewFromInt(-1)).Build()
		}, ErrValueOutOfRange},
		{"order without side", func() (*Message, error) {
			return NewBuilder(MsgTypeNewOrderSingle, "A", "B", 1).ClOrdID("1").Symbol("X").
				OrderQty(decimal.NewFromInt(1)).Build()
		}, ErrMissingField},
		{"logon with zero heartbeat", func() (*Message, error) {
			return NewBuilder(MsgTypeLogon, "A", "B", 1).HeartBtInt(0).Build()
		}, ErrValueOutOfRange},
		{"exec report with negative leaves", func() (*Message, error) {
			return NewBuilder(MsgTypeExecutionReport, "A", "B", 1).OrderID("O").ExecID("E").Symbol("X").
				Side(SideBuy).LeavesQty(decimal.NewFromInt(-1)).Build()
		}, ErrValueOutOfRange},
		{"cancel without orig id", func() (*Message, error) {
			return NewBuilder(MsgTypeOrderCancelRequest, "A", "B", 1).ClOrdID("2").Symbol("X").Side(SideBuy).Build()
		}, ErrMissingField},
		{"sending time before 1970", func() (*Message, error) {
			return NewBuilder(MsgTypeHeartbeat, "A", "B", 1).SendingTime(time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC)).Build()
		}, ErrValueOutOfRange},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, err := c.msg()
			require.NoError(t, err)
			assert.ErrorIs(t, m.Validate(), c.want)
		})
	}
}

func TestFieldErrorMessage(t *testing.T) {
	err := invalidValue(TagSide, "9", ErrUnknownEnum)
	assert.Equal(t, `fix: invalid field value: tag 54 (Side) value "9": fix: unknown enum code`, err.Error())
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.ErrorIs(t, err, ErrUnknownEnum)

	assert.Equal(t, "fix: missing required field: tag 49 (SenderCompID)", missingField(TagSenderCompID).Error())
}
