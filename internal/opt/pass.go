/*
 * Copyright 2022 ByteDance Inc.
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

package opt

import (
    `fmt`

    `github.com/cloudwego/optir/internal/ir`
    `github.com/cloudwego/optir/internal/opts`
)

// Stats counts what the passes did.
type Stats struct {
    Rounds       int
    Erased       int
    Folded       int
    CSE          int
    Propagated   int
    DataflowPops int
}

func (self Stats) String() string {
    return fmt.Sprintf(
        "rounds=%d erased=%d folded=%d cse=%d propagated=%d dataflow_pops=%d",
        self.Rounds,
        self.Erased,
        self.Folded,
        self.CSE,
        self.Propagated,
        self.DataflowPops,
    )
}

// Context is shared by all the passes of one Optimize call.
type Context struct {
    Options *opts.Options
    Stats   Stats
}

func NewContext(o *opts.Options) *Context {
    return &Context { Options: o }
}

func (self *Context) debug(msg string, pass string, bb *ir.BasicBlock, v ir.Value, args ...any) {
    self.Options.Log().Debug(msg, append([]any {
        "pass"  , pass,
        "func"  , bb.Parent().Name,
        "block" , bb.Name,
        "value" , v.String(),
    }, args...)...)
}

// Pass is a function-level optimization. Apply reports whether anything was
// changed.
type Pass interface {
    Apply(fn *ir.Function, ctx *Context) bool
}

type _PassDescriptor struct {
    pass Pass
    desc string
}
