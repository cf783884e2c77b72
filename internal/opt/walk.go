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
    `github.com/cloudwego/optir/internal/ir`
)

// Peephole applies DCE, constant folding and CSE to every instruction, in
// block order. The cursor moves to the next instruction before the current
// one is touched. A single walk does not reach a fixed point.
type Peephole struct{}

func (self Peephole) Apply(fn *ir.Function, ctx *Context) bool {
    changed := false
    tracer := ctx.Options.Trace()

    /* visit every block */
    for _, bb := range fn.Blocks {
        tracer.Block(bb.Name)

        /* fetch the next instruction first */
        for p := bb.First(); p != nil; {
            next := p.Next()
            changed = self.instr(bb, p, ctx) || changed
            p = next
        }
    }

    /* all done */
    return changed
}

func (Peephole) instr(bb *ir.BasicBlock, p *ir.Instruction, ctx *Context) bool {
    if p.Erased() {
        return false
    }

    /* dead code elimination */
    if DCE(p) {
        ctx.Stats.Erased++
        ctx.debug("erased dead instruction", "dce", bb, p)
        return true
    }

    /* constant folding, CSE runs on the folded value */
    changed := false
    v := ConstFold(p)

    /* folded into a constant */
    if v != ir.Value(p) {
        changed = true
        ctx.Stats.Folded++
        ctx.debug("folded constant", "constfold", bb, p, "result", v.String())
    }

    /* common sub-expression elimination */
    if CSE(v) {
        changed = true
        ctx.Stats.CSE++
        ctx.debug("merged sibling operands", "cse", bb, v)
    }

    /* all done */
    return changed
}

// Walk runs one Peephole pass over every function of m, reporting the
// functions and blocks it visits to the tracer.
func Walk(m *ir.Module, ctx *Context) bool {
    changed := false
    tracer := ctx.Options.Trace()

    /* visit every function */
    for _, fn := range m.Funcs {
        tracer.Function(fn.Name)
        changed = Peephole{}.Apply(fn, ctx) || changed
    }

    /* all done */
    return changed
}
