// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of scl-runtime
//
// scl-runtime is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// scl-runtime is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with scl-runtime.  If not, see <https://www.gnu.org/licenses/>.

// Package serr provides structured errors for the runtime.  Every fatal
// condition carries a stable numeric Code, a Kind name, the source line the
// failure was observed on (when one exists), and arbitrary key/value
// attributes such as the expected/actual tags of a type error.
package serr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error is a structured error with a stable code.
type Error struct {
	Code    Code
	Msg     string
	Line    int // 1-based source line, 0 when not applicable
	Attrs   map[string]any
	Wrapped error
}

// New creates a new structured error object using the supplied code, message
// and attributes.
func New(code Code, msg string, pairs ...any) *Error {
	attrs := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		attrs[pairs[i].(string)] = pairs[i+1]
	}
	return &Error{Code: code, Msg: msg, Attrs: attrs}
}

// Newf creates a new structured error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), Attrs: map[string]any{}}
}

// Error returns the error message, prefixed by the kind name and suffixed by
// the source line and attributes when present.
func (e *Error) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Code.Kind())
	if e.Line > 0 {
		fmt.Fprintf(&buf, " at line %d", e.Line)
	}
	if e.Msg != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Msg)
	}
	if len(e.Attrs) > 0 {
		keys := make([]string, 0, len(e.Attrs))
		for k := range e.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&buf, " %s=%v", k, e.Attrs[k])
		}
	}
	return buf.String()
}

// Unwrap returns the inner error, if it exists.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Extend adds additional attributes to an existing structured error. If the
// error is not structured it is wrapped in one, keeping its message.
func Extend(err error, pairs ...any) error {
	var serr *Error
	if errors.As(err, &serr) {
		for i := 0; i+1 < len(pairs); i += 2 {
			serr.Attrs[pairs[i].(string)] = pairs[i+1]
		}
		return err
	}
	wrapped := New(Unclassified, err.Error(), pairs...)
	wrapped.Wrapped = err
	return wrapped
}

// WithLine stamps the source line onto a structured error that does not carry
// one yet. Non-structured errors are wrapped first.
func WithLine(err error, line int) error {
	if err == nil {
		return nil
	}
	var serr *Error
	if !errors.As(err, &serr) {
		serr = New(Unclassified, err.Error())
		serr.Wrapped = err
		err = serr
	}
	if serr.Line == 0 {
		serr.Line = line
	}
	return err
}

// Wrap attaches a code to an arbitrary error, unless it already carries one.
func Wrap(code Code, err error) error {
	if err == nil {
		return nil
	}
	var serr *Error
	if errors.As(err, &serr) {
		return err
	}
	wrapped := New(code, err.Error())
	wrapped.Wrapped = err
	return wrapped
}

// CodeOf extracts the code of an error, or Unclassified for plain errors.
func CodeOf(err error) Code {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Code
	}
	return Unclassified
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// LineOf extracts the source line of an error, or 0.
func LineOf(err error) int {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Line
	}
	return 0
}
