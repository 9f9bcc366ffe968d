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

package logging

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Level refers to the log logging level
type Level uint32

const (
	// Panic Level level, highest level of severity. Logs and then calls panic with the
	// message passed to Debug, Info, ...
	Panic Level = iota
	// Fatal Level level. Logs and then calls `os.Exit(1)`. It will exit even if the
	// logging level is set to Panic.
	Fatal
	// Error Level level. Used for errors that should definitely be noted.
	Error
	// Warn Level level. Non-critical entries that deserve eyes.
	Warn
	// Info Level level. General operational entries about what's going on inside the
	// application.
	Info
	// Debug Level level. Usually only enabled when debugging. Very verbose logging.
	Debug
)

// Create a general Base logger
var (
	baseLogger Logger
	once       sync.Once
)

// Init needs to be called to ensure our logging has been initialized
func Init() {
	once.Do(func() {
		// By default, log to stderr (logrus's default), only warnings and above.
		baseLogger = NewLogger()
		baseLogger.SetLevel(Warn)
	})
}

func init() {
	Init()
}

// Fields maps logrus fields
type Fields = logrus.Fields

// Logger is the interface for loggers.
type Logger interface {
	// Debug logs a message at level Debug.
	Debug(...interface{})
	Debugf(string, ...interface{})

	// Info logs a message at level Info.
	Info(...interface{})
	Infof(string, ...interface{})

	// Warn logs a message at level Warn.
	Warn(...interface{})
	Warnf(string, ...interface{})

	// Error logs a message at level Error.
	Error(...interface{})
	Errorf(string, ...interface{})

	// Panic logs a message at level Panic.
	Panic(...interface{})
	Panicf(string, ...interface{})

	// Add one key-value to log
	With(key string, value interface{}) Logger

	// WithFields logs a message with specific fields
	WithFields(Fields) Logger

	// Set the logging version (Info by default)
	SetLevel(Level)

	// Sets the output target
	SetOutput(io.Writer)

	// Sets the logger to JSON Format
	SetJSONFormatter()

	IsLevelEnabled(level Level) bool
}

type logger struct {
	entry *logrus.Entry
}

func (l logger) With(key string, value interface{}) Logger {
	return logger{l.entry.WithField(key, value)}
}

func (l logger) WithFields(fields Fields) Logger {
	return logger{l.entry.WithFields(fields)}
}

func (l logger) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l logger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l logger) Info(args ...interface{}) { l.entry.Info(args...) }
func (l logger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l logger) Warn(args ...interface{}) { l.entry.Warn(args...) }
func (l logger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l logger) Error(args ...interface{}) { l.entry.Error(args...) }
func (l logger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

func (l logger) Panic(args ...interface{}) { l.entry.Panic(args...) }
func (l logger) Panicf(format string, args ...interface{}) {
	l.entry.Panicf(format, args...)
}

func (l logger) SetLevel(lvl Level) {
	l.entry.Logger.SetLevel(logrus.Level(lvl))
}

func (l logger) IsLevelEnabled(lvl Level) bool {
	return l.entry.Logger.IsLevelEnabled(logrus.Level(lvl))
}

func (l logger) SetOutput(w io.Writer) {
	l.entry.Logger.SetOutput(w)
}

func (l logger) SetJSONFormatter() {
	l.entry.Logger.Formatter = &logrus.JSONFormatter{}
}

// Base returns the default Logger logging to stderr
func Base() Logger {
	return baseLogger
}

// NewLogger returns a new Logger logging to stderr
func NewLogger() Logger {
	l := logrus.New()
	return logger{logrus.NewEntry(l)}
}

// TestingLog is a simple test logger that discards output unless a test fails.
type testingT interface {
	Log(args ...interface{})
}

type testLogWriter struct {
	t testingT
}

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// TestingLog returns a Logger that routes output through t.Log.
func TestingLog(t testingT) Logger {
	l := NewLogger()
	l.SetLevel(Debug)
	l.SetOutput(testLogWriter{t})
	return l
}
