// Copyright 2018 Irfan Sharif.
// Copyright 2018 The Kura Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import "io"

// Flag controls which fields New's header writes, mirroring the standard
// library log package's bit set with the addition of Lmode (the modal
// I/W/E/F/D prefix Logger.log prepends).
type Flag int

const (
	Ldate Flag = 1 << iota
	Ltime
	Lmicroseconds
	Llongfile
	Lshortfile
	LUTC
	Lmode

	LstdFlags = Lmode | Ldate | Ltime | Lmicroseconds | Lshortfile
)

// option configures a Logger at construction time, following the same
// variadic-functional-option shape as New's callers expect.
type option func(*Logger)

// Writer sets the Logger's underlying sink.
func Writer(w io.Writer) option {
	return func(l *Logger) { l.w = w }
}

// Flags sets the Logger's header flags, overriding configure's default of
// LstdFlags.
func Flags(f Flag) option {
	return func(l *Logger) { l.flag = f }
}

// SkipBasePath makes header print the fully-qualified file path for
// Lshortfile/Llongfile rather than one truncated against a configured
// project root — the same behavior configure's zero-value basePath already
// produces, made explicit at call sites that care about it.
func SkipBasePath() option {
	return func(l *Logger) { l.basePath = "" }
}

// BasePath truncates the leading path components file headers would
// otherwise print, so Llongfile shows a path relative to path rather than
// the fully-qualified one.
func BasePath(path string) option {
	return func(l *Logger) { l.basePath = path }
}
