/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package opts

import (
	"io"
	"log/slog"
)

// Tracer receives the progress of the peephole walk.
type Tracer interface {
	Function(name string)
	Block(name string)
}

// NopTracer discards everything.
type NopTracer struct{}

func (NopTracer) Function(string) {}
func (NopTracer) Block(string)    {}

type Options struct {
	MaxRounds int
	Peephole  bool
	ConstProp bool
	Verify    bool
	Logger    *slog.Logger
	Tracer    Tracer
}

// CanRepeat reports whether another peephole round may run after round
// rounds have completed.
func (self *Options) CanRepeat(round int) bool {
	return self.MaxRounds > round
}

// Log returns the logger, or a discarding logger if none was set.
func (self *Options) Log() *slog.Logger {
	if self.Logger == nil {
		return discard
	} else {
		return self.Logger
	}
}

// Trace returns the tracer, or a NopTracer if none was set.
func (self *Options) Trace() Tracer {
	if self.Tracer == nil {
		return NopTracer{}
	} else {
		return self.Tracer
	}
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func GetDefaultOptions() Options {
	return Options{
		MaxRounds: MaxRounds,
		Peephole:  true,
		ConstProp: true,
		Verify:    Verify,
	}
}
