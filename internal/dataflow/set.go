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
    `sort`
    `strings`

    `github.com/cloudwego/optir/internal/ir`
)

// InstrSet is a set of instructions keyed by identity. Iteration through
// Sorted is ordered by instruction ID.
type InstrSet map[*ir.Instruction]struct{}

func NewInstrSet(ins ...*ir.Instruction) InstrSet {
    ret := make(InstrSet, len(ins))
    for _, p := range ins {
        ret.Add(p)
    }
    return ret
}

func (self InstrSet) Add(p *ir.Instruction) bool {
    if _, ok := self[p]; ok {
        return false
    } else {
        self[p] = struct{}{}
        return true
    }
}

func (self InstrSet) Has(p *ir.Instruction) bool {
    _, ok := self[p]
    return ok
}

func (self InstrSet) Clone() InstrSet {
    ret := make(InstrSet, len(self))
    for p := range self {
        ret[p] = struct{}{}
    }
    return ret
}

// Union returns a new set with the elements of both sets.
func (self InstrSet) Union(other InstrSet) InstrSet {
    ret := self.Clone()
    for p := range other {
        ret[p] = struct{}{}
    }
    return ret
}

// Subtract returns a new set with the elements of other removed.
func (self InstrSet) Subtract(other InstrSet) InstrSet {
    ret := make(InstrSet, len(self))
    for p := range self {
        if !other.Has(p) {
            ret[p] = struct{}{}
        }
    }
    return ret
}

// Subset reports whether every element of self is in other.
func (self InstrSet) Subset(other InstrSet) bool {
    if len(self) > len(other) {
        return false
    }
    for p := range self {
        if !other.Has(p) {
            return false
        }
    }
    return true
}

func (self InstrSet) Equal(other InstrSet) bool {
    return len(self) == len(other) && self.Subset(other)
}

// Sorted returns the elements ordered by instruction ID.
func (self InstrSet) Sorted() []*ir.Instruction {
    ret := make([]*ir.Instruction, 0, len(self))
    for p := range self {
        ret = append(ret, p)
    }

    /* sort by ID */
    sort.Slice(ret, func(i int, j int) bool {
        return ret[i].Id < ret[j].Id
    })

    /* all done */
    return ret
}

func (self InstrSet) String() string {
    nb := len(self)
    rs := make([]string, 0, nb)

    /* convert every instruction */
    for _, p := range self.Sorted() {
        rs = append(rs, fmt.Sprintf("%s(#%d)", p.Op, p.Id))
    }

    /* join them together */
    return fmt.Sprintf(
        "{%s}",
        strings.Join(rs, ", "),
    )
}
