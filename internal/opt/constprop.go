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
    `github.com/cloudwego/optir/internal/dataflow`
    `github.com/cloudwego/optir/internal/ir`
)

// ConstProp propagates stored constants, driven by the reaching stores at
// the end of each block.
//
// A store of a constant replaces every use of its pointer with that
// constant, without looking for other stores to the same location. This is
// unsound when the location is stored more than once.
type ConstProp struct{}

func (self ConstProp) Apply(fn *ir.Function, ctx *Context) bool {
    n := 0
    res := dataflow.SolveReachingStores(fn, func(bb *ir.BasicBlock, out dataflow.InstrSet) {
        n += self.rewrite(bb, out, ctx)
    })

    /* unreachable blocks are analyzed like any other block */
    for _, bb := range res.Unreachable {
        ctx.Options.Log().Debug("unreachable block", "pass", "constprop", "func", fn.Name, "block", bb.Name)
    }

    /* update the statistics */
    ctx.Stats.Propagated += n
    ctx.Stats.DataflowPops += res.Pops
    return n != 0
}

func (ConstProp) rewrite(bb *ir.BasicBlock, out dataflow.InstrSet, ctx *Context) int {
    n := 0
    for p := bb.First(); p != nil; p = p.Next() {
        if p.Op == ir.OpStore {
            ptr := p.Pointer()
            val, ok := p.StoreValue().(*ir.Constant)

            /* stores of constants replace the pointer */
            if ok && ptr != ir.Value(val) {
                n++
                ir.ReplaceAllUses(ptr, val)
                ctx.debug("replaced pointer with stored constant", "constprop", bb, val, "pointer", ptr.String())
            }

            /* no further checks for stores */
            continue
        }

        /* the first operand that is a reaching store replaces the instruction */
        for _, v := range p.Operands() {
            if d := ir.AsInstr(v); d != nil && out.Has(d) {
                if p.NumUses() != 0 {
                    n++
                }
                ir.ReplaceAllUses(p, d)
                ctx.debug("replaced instruction with reaching store", "constprop", bb, p, "store", d.String())
                break
            }
        }
    }
    return n
}
