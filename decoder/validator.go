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
package decoder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stephenlclarke/fix42/fix"
)

var monthYear = regexp.MustCompile(`^\d{6}([0-9]{2}|(-[0-9]{1,2})|(-?w[1-5]))?$`)

// ValidateFixMessage checks msg with the codec and then against the
// dictionary. Every problem found is returned as a line of text; an empty
// result means the message is clean.
func ValidateFixMessage(msg string, dict *Dictionary, opts fix.DecodeOptions) []string {
	var errors []string

	if _, err := fix.DecodeWith([]byte(msg), opts); err != nil {
		errors = append(errors, err.Error())
	}

	fields := fix.TokenizeLenient([]byte(msg))
	seen := make(map[fix.Tag]bool, len(fields))
	msgType := ""
	for _, fv := range fields {
		seen[fv.Tag] = true
		if fv.Tag == fix.TagMsgType {
			msgType = fv.Value
		}
	}

	if msgType == "" {
		return errors
	}
	def, ok := dict.FindMessage(msgType)
	if !ok {
		return append(errors, fmt.Sprintf("Unknown MsgType: %s", msgType))
	}

	errors = append(errors, validateRequiredFields(def.Required(), seen, dict)...)
	errors = append(errors, validateFieldEnumsAndTypes(fields, dict)...)
	errors = append(errors, validateFieldOrdering(fields, def.FieldOrder())...)

	return errors
}

func validateRequiredFields(required []fix.Tag, seen map[fix.Tag]bool, dict *Dictionary) []string {
	var errors []string
	for _, tag := range required {
		if !seen[tag] {
			errors = append(errors, fmt.Sprintf("Missing required tag %d (%s)", tag, dict.GetFieldName(tag)))
		}
	}
	return errors
}

func validateFieldEnumsAndTypes(fields []fix.RawField, dict *Dictionary) []string {
	var errors []string
	for _, fv := range fields {
		// MsgType is open; unknown codes pass through the codec
		if fv.Tag != fix.TagMsgType {
			if enums, found := dict.enumMap[fv.Tag]; found {
				if _, valid := enums[fv.Value]; !valid {
					errors = append(errors, fmt.Sprintf("Invalid enum value '%s' for tag %d", fv.Value, fv.Tag))
				}
			}
		}

		typ := dict.GetFieldType(fv.Tag)
		if typ != "" && !IsValidType(fv.Value, typ) {
			errors = append(errors, fmt.Sprintf("Invalid type for tag %d: expected %s, got '%s'", fv.Tag, typ, fv.Value))
		}
	}
	return errors
}

// validateFieldOrdering reports body tags that appear earlier than a tag
// that precedes them in the dictionary.
func validateFieldOrdering(fields []fix.RawField, expectedOrder []fix.Tag) []string {
	orderIndex := make(map[fix.Tag]int, len(expectedOrder))
	for i, tag := range expectedOrder {
		orderIndex[tag] = i
	}

	var errors []string
	lastIdx := -1
	for _, fv := range fields {
		if idx, ok := orderIndex[fv.Tag]; ok {
			if idx < lastIdx {
				errors = append(errors, fmt.Sprintf("Tag %d out of order", fv.Tag))
			}
			lastIdx = idx
		}
	}
	return errors
}

func IsValidType(val string, typ string) bool {
	switch strings.ToUpper(typ) {
	case "INT", "LENGTH", "NUMINGROUP", "SEQNUM", "DAYOFMONTH":
		_, err := strconv.Atoi(val)
		return err == nil
	case "FLOAT", "QTY", "PRICE", "PRICEOFFSET", "AMT", "PERCENTAGE":
		if strings.ContainsAny(val, "eE+") {
			return false
		}
		_, err := decimal.NewFromString(val)
		return err == nil
	case "BOOLEAN":
		return val == "Y" || val == "N"
	case "CHAR":
		return len(val) == 1
	case "UTCTIMESTAMP":
		_, err := fix.ParseTimestamp(val)
		return err == nil
	case "UTCDATE", "LOCALMKTDATE":
		_, err := time.Parse("20060102", val)
		return err == nil
	case "UTCTIMEONLY":
		for _, layout := range []string{"15:04:05", "15:04:05.000"} {
			if _, err := time.Parse(layout, val); err == nil {
				return true
			}
		}
		return false
	case "MONTHYEAR":
		return monthYear.MatchString(val)
	default:
		return true
	}
}
