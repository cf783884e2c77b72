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

package dataflow

import (
    `fmt`

    `github.com/cloudwego/optir/internal/ir`
    `github.com/oleiade/lane`
)

// Problem describes a forward dataflow problem over sets of type S.
type Problem[S any] interface {
    Init(bb *ir.BasicBlock) S
    Gen(bb *ir.BasicBlock) S
    Kill(bb *ir.BasicBlock, gen S) S
    Transfer(in S, gen S, kill S) S
    Merge(acc S, out S) S
    Equal(a S, b S) bool
    Includes(a S, b S) bool
}

// Callback is invoked every time the OUT set of a block changes. It may
// rewrite the instructions of the block, but not the CFG.
type Callback[S any] func(bb *ir.BasicBlock, out S)

// Result holds the fixed point of a dataflow problem.
type Result[S any] struct {
    In          map[*ir.BasicBlock]S
    Out         map[*ir.BasicBlock]S
    Gen         map[*ir.BasicBlock]S
    Kill        map[*ir.BasicBlock]S
    Pops        int
    Changes     int
    Unreachable []*ir.BasicBlock
}

// Solve iterates p over the CFG of fn until no OUT set changes. Blocks are
// kept on a LIFO worklist, all of them are pushed initially in function
// order so the last block is popped first. cb may be nil.
func Solve[S any](fn *ir.Function, p Problem[S], cb Callback[S]) *Result[S] {
    g := NewGraph(fn)
    nb := len(fn.Blocks)
    st := lane.NewStack()

    /* result sets */
    res := &Result[S] {
        In          : make(map[*ir.BasicBlock]S, nb),
        Out         : make(map[*ir.BasicBlock]S, nb),
        Gen         : make(map[*ir.BasicBlock]S, nb),
        Kill        : make(map[*ir.BasicBlock]S, nb),
        Unreachable : g.Unreachable(),
    }

    /* initial state, everything starts empty */
    for _, bb := range fn.Blocks {
        res.In[bb] = p.Init(bb)
        res.Out[bb] = p.Init(bb)
        st.Push(bb)
    }

    /* iterate until the worklist drains */
    for !st.Empty() {
        bb := st.Pop().(*ir.BasicBlock)
        in := p.Init(bb)
        res.Pops++

        /* merge the OUT sets of all the predecessors */
        for _, pred := range g.Predecessors(bb) {
            in = p.Merge(in, res.Out[pred])
        }

        /* recompute everything, the callback may have rewritten the block */
        gen := p.Gen(bb)
        kill := p.Kill(bb, gen)
        out := p.Transfer(in, gen, kill)

        /* update the block state */
        old := res.Out[bb]
        res.In[bb], res.Gen[bb], res.Kill[bb] = in, gen, kill

        /* nothing changed */
        if p.Equal(out, old) {
            continue
        }

        /* OUT sets may only grow */
        if !p.Includes(out, old) {
            panic(fmt.Sprintf("dataflow: OUT of block %s is shrinking", bb))
        }

        /* rewrite the block, then revisit the successors */
        res.Out[bb] = out
        res.Changes++

        /* invoke the callback if any */
        if cb != nil {
            cb(bb, out)
        }

        /* add all the successors */
        for _, succ := range g.Successors(bb) {
            st.Push(succ)
        }
    }

    /* all done */
    return res
}
