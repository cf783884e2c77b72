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
    `github.com/cloudwego/optir/internal/ir`
)

// ReachingStores is the reaching-definitions problem restricted to stores.
//
// KILL is block-local: a store is killed when another store of the same
// block writes to the same pointer. GEN is added back after subtracting
// KILL, so OUT always contains every store of the block.
type ReachingStores struct{}

func stores(bb *ir.BasicBlock) []*ir.Instruction {
    var ret []*ir.Instruction
    for p := bb.First(); p != nil; p = p.Next() {
        if p.Op == ir.OpStore {
            ret = append(ret, p)
        }
    }
    return ret
}

func (ReachingStores) Init(_ *ir.BasicBlock) InstrSet {
    return InstrSet{}
}

func (ReachingStores) Gen(bb *ir.BasicBlock) InstrSet {
    return NewInstrSet(stores(bb)...)
}

func (ReachingStores) Kill(bb *ir.BasicBlock, _ InstrSet) InstrSet {
    ret := InstrSet{}
    buf := stores(bb)

    /* stores that are overwritten by another store to the same pointer */
    for i, x := range buf {
        for j, y := range buf {
            if i != j && x.Pointer() == y.Pointer() {
                ret.Add(y)
            }
        }
    }

    /* all done */
    return ret
}

func (ReachingStores) Transfer(in InstrSet, gen InstrSet, kill InstrSet) InstrSet {
    return in.Union(gen).Subtract(kill).Union(gen)
}

func (ReachingStores) Merge(acc InstrSet, out InstrSet) InstrSet {
    return acc.Union(out)
}

func (ReachingStores) Equal(a InstrSet, b InstrSet) bool {
    return a.Equal(b)
}

func (ReachingStores) Includes(a InstrSet, b InstrSet) bool {
    return b.Subset(a)
}

// SolveReachingStores runs the reaching-stores analysis over fn.
func SolveReachingStores(fn *ir.Function, cb Callback[InstrSet]) *Result[InstrSet] {
    return Solve[InstrSet](fn, ReachingStores{}, cb)
}
