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

// Field is a raw tag=value pair.
type Field struct {
	Tag   Tag
	Value string
}

// Other is the body of any message type without a dedicated variant. It
// accepts every field and writes them back in the order first seen, so
// pass-through messages survive a decode/encode cycle.
type Other struct {
	msgType MsgType
	Fields  []Field
}

func (b *Other) MsgType() MsgType { return b.msgType }

func (b *Other) WriteFields(buf *FieldBuffer) {
	for _, f := range b.Fields {
		buf.Field(f.Tag, f.Value)
	}
}

// ParseField never fails. A repeated tag replaces the earlier value in place.
func (b *Other) ParseField(tag Tag, value string) error {
	for i := range b.Fields {
		if b.Fields[i].Tag == tag {
			b.Fields[i].Value = value
			return nil
		}
	}
	b.Fields = append(b.Fields, Field{Tag: tag, Value: value})
	return nil
}

// Get returns the value stored for tag.
func (b *Other) Get(tag Tag) (string, bool) {
	for _, f := range b.Fields {
		if f.Tag == tag {
			return f.Value, true
		}
	}
	return "", false
}

func (b *Other) Validate() error {
	for _, f := range b.Fields {
		if err := checkValue(f.Tag, f.Value); err != nil {
			return err
		}
	}
	return nil
}
