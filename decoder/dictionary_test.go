package decoder

import (
	"strings"
	"testing"

	"github.com/stephenlclarke/fix42/fix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedDictionary(t *testing.T) {
	d, err := LoadDictionary()
	require.NoError(t, err)
	assert.Same(t, d, MustLoadDictionary())

	assert.Equal(t, "FIX.4.2", d.Version)
	assert.Equal(t, "SenderCompID", d.GetFieldName(fix.TagSenderCompID))
	assert.Equal(t, "9999", d.GetFieldName(9999))
	assert.Equal(t, "UTCTIMESTAMP", d.GetFieldType(fix.TagSendingTime))
	assert.Equal(t, "BUY", d.GetEnumDescription(fix.TagSide, "1"))
	assert.Equal(t, "ORDER_SINGLE", d.GetEnumDescription(fix.TagMsgType, "D"))
	assert.Empty(t, d.GetEnumDescription(fix.TagSide, "Z"))

	f, ok := d.FindField(fix.TagOrdStatus)
	require.True(t, ok)
	assert.Len(t, f.Values, 15)
}

// Every tag and enum the codec knows has a dictionary entry.
func TestDictionaryCoversCodec(t *testing.T) {
	d := MustLoadDictionary()

	for _, mt := range fix.KnownMsgTypes() {
		def, ok := d.FindMessage(mt.String())
		require.True(t, ok, mt.Name())
		assert.Equal(t, mt.Name(), def.Name)
	}
	for _, code := range []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "A", "B", "C", "D", "E"} {
		assert.NotEmpty(t, d.GetEnumDescription(fix.TagExecType, code), code)
		assert.NotEmpty(t, d.GetEnumDescription(fix.TagOrdStatus, code), code)
	}
}

func TestFindMessageByNameOrType(t *testing.T) {
	d := MustLoadDictionary()

	byType, ok := d.FindMessage("D")
	require.True(t, ok)
	byName, ok := d.FindMessage("NewOrderSingle")
	require.True(t, ok)
	assert.Equal(t, byType.Name, byName.Name)

	assert.Equal(t, []fix.Tag{fix.TagClOrdID, fix.TagSymbol, fix.TagSide}, byType.Required())
	assert.Equal(t, fix.TagClOrdID, byType.FieldOrder()[0])

	_, ok = d.FindMessage("Nope")
	assert.False(t, ok)
}

func TestDictionarySorted(t *testing.T) {
	d := MustLoadDictionary()

	fields := d.Fields()
	for i := 1; i < len(fields); i++ {
		assert.Less(t, fields[i-1].Number, fields[i].Number)
	}
	msgs := d.Messages()
	assert.Equal(t, "0", msgs[0].MsgType)
	assert.Equal(t, "V", msgs[len(msgs)-1].MsgType)

	assert.Equal(t, "BeginString", d.Header()[0].Field.Name)
	assert.Equal(t, "CheckSum", d.Trailer()[len(d.Trailer())-1].Field.Name)
}

func TestParseDictionaryCharset(t *testing.T) {
	xml := `<?xml version="1.0" encoding="ISO-8859-1"?>
<fix major="4" minor="2">
 <messages><message name="Quote" msgtype="S" msgcat="app"><field name="QuoteID" required="Y"/><field name="Missing" required="Y"/></message></messages>
 <fields><field number="117" name="QuoteID" type="STRING"><value enum="X" description="caf` + "\xe9" + `"/></field></fields>
</fix>`
	d, err := ParseDictionary(strings.NewReader(xml))
	require.NoError(t, err)
	assert.Equal(t, "café", d.GetEnumDescription(117, "X"))

	def, ok := d.FindMessage("S")
	require.True(t, ok)
	assert.Len(t, def.Fields, 1)
}

func TestParseDictionaryError(t *testing.T) {
	_, err := ParseDictionary(strings.NewReader("<fix><fields>"))
	assert.Error(t, err)
}
