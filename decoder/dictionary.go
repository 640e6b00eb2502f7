// dictionary.go
package decoder

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/stephenlclarke/fix42/fix"
	"golang.org/x/net/html/charset"
)

//go:embed resources/FIX42.xml
var fix42XML []byte

// XML shapes of a QuickFIX style data dictionary.

type FixDictionary struct {
	XMLName     xml.Name  `xml:"fix"`
	Major       string    `xml:"major,attr"`
	Minor       string    `xml:"minor,attr"`
	ServicePack string    `xml:"servicepack,attr"`
	Header      Component `xml:"header"`
	Trailer     Component `xml:"trailer"`
	Messages    []Message `xml:"messages>message"`
	Fields      []Field   `xml:"fields>field"`
}

type Field struct {
	Name   string  `xml:"name,attr"`
	Number int     `xml:"number,attr"`
	Type   string  `xml:"type,attr"`
	Values []Value `xml:"value"`
}

type Value struct {
	Enum        string `xml:"enum,attr"`
	Description string `xml:"description,attr"`
}

type FieldRef struct {
	Name     string `xml:"name,attr"`
	Required string `xml:"required,attr"`
}

type Component struct {
	Fields []FieldRef `xml:"field"`
}

type Message struct {
	Name    string     `xml:"name,attr"`
	MsgType string     `xml:"msgtype,attr"`
	MsgCat  string     `xml:"msgcat,attr"`
	Fields  []FieldRef `xml:"field"`
}

// FieldNode is a field reference resolved against the field table.
type FieldNode struct {
	Field    Field
	Required bool
}

type MessageDef struct {
	Name    string
	MsgType string
	MsgCat  string
	Fields  []FieldNode
}

// Required lists the tags the definition marks as required.
func (m MessageDef) Required() []fix.Tag {
	var out []fix.Tag
	for _, f := range m.Fields {
		if f.Required {
			out = append(out, fix.Tag(f.Field.Number))
		}
	}
	return out
}

// FieldOrder lists the body tags in dictionary order.
func (m MessageDef) FieldOrder() []fix.Tag {
	out := make([]fix.Tag, len(m.Fields))
	for i, f := range m.Fields {
		out[i] = fix.Tag(f.Field.Number)
	}
	return out
}

// Dictionary answers name, type and enum questions about tags.
type Dictionary struct {
	Version string

	fields   map[fix.Tag]Field
	enumMap  map[fix.Tag]map[string]string
	messages map[string]MessageDef
	header   []FieldNode
	trailer  []FieldNode
}

// ParseDictionary reads a dictionary in any charset the XML prolog names.
func ParseDictionary(r io.Reader) (*Dictionary, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var raw FixDictionary
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}

	d := &Dictionary{
		Version:  "FIX." + raw.Major + "." + raw.Minor,
		fields:   make(map[fix.Tag]Field, len(raw.Fields)),
		enumMap:  make(map[fix.Tag]map[string]string, len(raw.Fields)),
		messages: make(map[string]MessageDef, len(raw.Messages)),
	}

	byName := make(map[string]Field, len(raw.Fields))
	for _, f := range raw.Fields {
		tag := fix.Tag(f.Number)
		d.fields[tag] = f
		byName[f.Name] = f

		if len(f.Values) > 0 {
			enums := make(map[string]string, len(f.Values))
			for _, v := range f.Values {
				enums[v.Enum] = v.Description
			}
			d.enumMap[tag] = enums
		}
	}

	d.header = resolveRefs(raw.Header.Fields, byName)
	d.trailer = resolveRefs(raw.Trailer.Fields, byName)

	for _, m := range raw.Messages {
		d.messages[m.MsgType] = MessageDef{
			Name:    m.Name,
			MsgType: m.MsgType,
			MsgCat:  m.MsgCat,
			Fields:  resolveRefs(m.Fields, byName),
		}
	}

	return d, nil
}

func resolveRefs(refs []FieldRef, byName map[string]Field) []FieldNode {
	nodes := make([]FieldNode, 0, len(refs))
	for _, ref := range refs {
		if f, ok := byName[ref.Name]; ok {
			nodes = append(nodes, FieldNode{Field: f, Required: ref.Required == "Y"})
		}
	}
	return nodes
}

var (
	embeddedOnce sync.Once
	embedded     *Dictionary
	embeddedErr  error
)

// LoadDictionary returns the embedded FIX 4.2 dictionary, parsing it on
// first use.
func LoadDictionary() (*Dictionary, error) {
	embeddedOnce.Do(func() {
		embedded, embeddedErr = ParseDictionary(bytes.NewReader(fix42XML))
	})
	return embedded, embeddedErr
}

// MustLoadDictionary panics if the embedded dictionary is broken, which
// can only happen at build time.
func MustLoadDictionary() *Dictionary {
	d, err := LoadDictionary()
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Dictionary) GetFieldName(tag fix.Tag) string {
	if f, ok := d.fields[tag]; ok {
		return f.Name
	}
	return strconv.Itoa(int(tag))
}

func (d *Dictionary) GetEnumDescription(tag fix.Tag, val string) string {
	return d.enumMap[tag][val]
}

func (d *Dictionary) GetFieldType(tag fix.Tag) string {
	return d.fields[tag].Type
}

func (d *Dictionary) FindField(tag fix.Tag) (Field, bool) {
	f, ok := d.fields[tag]
	return f, ok
}

// FindMessage accepts a MsgType code or a message name.
func (d *Dictionary) FindMessage(key string) (MessageDef, bool) {
	if m, ok := d.messages[key]; ok {
		return m, true
	}
	for _, m := range d.messages {
		if m.Name == key {
			return m, true
		}
	}
	return MessageDef{}, false
}

// Fields returns every field ordered by tag.
func (d *Dictionary) Fields() []Field {
	out := make([]Field, 0, len(d.fields))
	for _, f := range d.fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Messages returns every message ordered by MsgType.
func (d *Dictionary) Messages() []MessageDef {
	out := make([]MessageDef, 0, len(d.messages))
	for _, m := range d.messages {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MsgType < out[j].MsgType })
	return out
}

func (d *Dictionary) Header() []FieldNode  { return d.header }
func (d *Dictionary) Trailer() []FieldNode { return d.trailer }
