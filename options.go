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

package optir

import (
	"fmt"
	"log/slog"

	"github.com/cloudwego/optir/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithMaxRounds sets the maximum number of peephole rounds. Rounds stop early
// once a round changes nothing.
//
// The default value of this option is "8".
func WithMaxRounds(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("optir: invalid max rounds: %d", n))
	} else {
		return func(o *opts.Options) { o.MaxRounds = n }
	}
}

// WithPeephole enables or disables the DCE, constant folding and CSE walk.
func WithPeephole(v bool) Option {
	return func(o *opts.Options) { o.Peephole = v }
}

// WithConstProp enables or disables constant propagation and the dead code
// sweep that follows it.
func WithConstProp(v bool) Option {
	return func(o *opts.Options) { o.ConstProp = v }
}

// WithVerify checks the IR invariants after optimizing, a violation is
// returned as an error.
func WithVerify(v bool) Option {
	return func(o *opts.Options) { o.Verify = v }
}

// WithLogger sets the structured logger, passes log their changes at debug
// level.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("optir: nil logger")
	} else {
		return func(o *opts.Options) { o.Logger = l }
	}
}

// WithTracer reports every function and basic block visited by the peephole
// walk to t.
func WithTracer(t Tracer) Option {
	if t == nil {
		panic("optir: nil tracer")
	} else {
		return func(o *opts.Options) { o.Tracer = t }
	}
}

// SetMaxRounds sets the default maximum number of peephole rounds from now
// on.
//
// This value can also be configured with the `OPTIR_MAX_ROUNDS` environment
// variable.
//
// Returns the old opts.MaxRounds value.
func SetMaxRounds(n int) int {
	if n < 1 {
		panic(fmt.Sprintf("optir: invalid max rounds: %d", n))
	}
	n, opts.MaxRounds = opts.MaxRounds, n
	return n
}
