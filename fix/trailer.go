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

import "strconv"

// Trailer carries the CheckSum and the optional signature. CheckSum is
// derived and is always the last field on the wire.
type Trailer struct {
	checkSum string

	SignatureLength *int
	Signature       *string
}

func (t *Trailer) CheckSum() string { return t.checkSum }

func (t *Trailer) WriteFields(buf *FieldBuffer) {
	t.writeCounted(buf)
	buf.Field(TagCheckSum, t.checkSum)
}

// writeCounted writes the trailer fields that contribute to BodyLength.
func (t *Trailer) writeCounted(buf *FieldBuffer) {
	buf.OptInt(TagSignatureLength, t.SignatureLength)
	buf.OptString(TagSignature, t.Signature)
}

func (t *Trailer) ParseField(tag Tag, value string) error {
	switch tag {
	case TagCheckSum:
		t.checkSum = value
	case TagSignatureLength:
		n, err := parseInt(tag, value)
		if err != nil {
			return err
		}
		t.SignatureLength = &n
	case TagSignature:
		t.Signature = &value
	default:
		return unknownTag(tag, value)
	}
	return nil
}

func (t *Trailer) Validate() error {
	if !isCheckSumFormat(t.checkSum) {
		return &FieldError{Tag: TagCheckSum, Value: t.checkSum, Err: ErrInvalidChecksum}
	}
	if t.SignatureLength != nil && *t.SignatureLength < 0 {
		return outOfRange(TagSignatureLength, strconv.Itoa(*t.SignatureLength))
	}
	return nil
}

func isCheckSumFormat(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// formatCheckSum renders sum mod 256 as three zero padded digits.
func formatCheckSum(sum int) string {
	var b [3]byte
	put3(b[:], sum%256)
	return string(b[:])
}
