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
    `github.com/oleiade/lane`
)

// Sweep erases dead pure instructions until there are none left. When an
// instruction is erased, the instructions it used are checked again.
type Sweep struct{}

func (Sweep) Apply(fn *ir.Function, ctx *Context) bool {
    n := 0
    q := lane.NewQueue()

    /* every instruction is a candidate */
    fn.ForEach(func(p *ir.Instruction) {
        q.Enqueue(p)
    })

    /* erase until the queue drains */
    for !q.Empty() {
        p := q.Dequeue().(*ir.Instruction)
        bb := p.Parent()
        ops := p.Operands()

        /* still alive */
        if !DCE(p) {
            continue
        }

        /* the operands might be dead now */
        n++
        ctx.debug("swept dead instruction", "sweep", bb, p)

        /* add them to the queue */
        for _, v := range ops {
            if d := ir.AsInstr(v); d != nil {
                q.Enqueue(d)
            }
        }
    }

    /* update the statistics */
    ctx.Stats.Erased += n
    return n != 0
}
