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

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField       = errors.New("fix: missing required field")
	ErrInvalidValue       = errors.New("fix: invalid field value")
	ErrValueOutOfRange    = errors.New("fix: value out of range")
	ErrInvalidChecksum    = errors.New("fix: invalid checksum")
	ErrInvalidBodyLength  = errors.New("fix: invalid body length")
	ErrEmptyMessage       = errors.New("fix: empty or malformed message")
	ErrUnsupportedVersion = errors.New("fix: unsupported BeginString")
	ErrUnknownTag         = errors.New("fix: unknown tag")
	ErrUnknownEnum        = errors.New("fix: unknown enum code")
	ErrInvalidTimestamp   = errors.New("fix: invalid timestamp")
	ErrDuplicateTag       = errors.New("fix: duplicate tag")
	ErrBuilderConsumed    = errors.New("fix: builder already built")
)

var (
	errDerived     = errors.New("derived field is computed at build time")
	errEmbeddedSOH = errors.New("value contains SOH")
	errFloatFormat = errors.New("not a FIX float")
)

// FieldError reports a problem with a single field. Err is one of the
// package sentinels; Cause, when set, is the underlying parse failure.
type FieldError struct {
	Tag   Tag
	Value string
	Err   error
	Cause error
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%v: tag %d (%s)", e.Err, int(e.Tag), e.Tag.Name())
	if e.Value != "" {
		msg += fmt.Sprintf(" value %q", e.Value)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *FieldError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func missingField(tag Tag) error {
	return &FieldError{Tag: tag, Err: ErrMissingField}
}

func invalidValue(tag Tag, value string, cause error) error {
	return &FieldError{Tag: tag, Value: value, Err: ErrInvalidValue, Cause: cause}
}

func outOfRange(tag Tag, value string) error {
	return &FieldError{Tag: tag, Value: value, Err: ErrValueOutOfRange}
}

func unknownTag(tag Tag, value string) error {
	return &FieldError{Tag: tag, Value: value, Err: ErrUnknownTag}
}
