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
    `sort`

    `fortio.org/safecast`
    `github.com/cloudwego/optir/internal/ir`
    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/simple`
    `gonum.org/v1/gonum/graph/traverse`
)

// Graph is a snapshot of the control-flow edges of a function. Node IDs are
// block IDs. Self loops are kept aside since simple graphs can't hold them.
type Graph struct {
    fn    *ir.Function
    g     *simple.DirectedGraph
    loops map[*ir.BasicBlock]bool
}

// NewGraph builds the CFG of fn from the block terminators.
func NewGraph(fn *ir.Function) *Graph {
    ret := &Graph {
        fn    : fn,
        g     : simple.NewDirectedGraph(),
        loops : make(map[*ir.BasicBlock]bool),
    }

    /* add all the nodes */
    for _, bb := range fn.Blocks {
        ret.g.AddNode(simple.Node(bb.Id))
    }

    /* add all the edges */
    for _, bb := range fn.Blocks {
        for _, to := range bb.Successors() {
            if to == bb {
                ret.loops[bb] = true
            } else {
                ret.g.SetEdge(ret.g.NewEdge(simple.Node(bb.Id), simple.Node(to.Id)))
            }
        }
    }

    /* all done */
    return ret
}

func (self *Graph) block(n graph.Node) *ir.BasicBlock {
    return self.fn.Blocks[safecast.MustConv[int](n.ID())]
}

// Predecessors returns the distinct predecessors of bb, ordered by block ID.
func (self *Graph) Predecessors(bb *ir.BasicBlock) []*ir.BasicBlock {
    var ret []*ir.BasicBlock
    var it = self.g.To(int64(bb.Id))

    /* incoming edges */
    for it.Next() {
        ret = append(ret, self.block(it.Node()))
    }

    /* self loops */
    if self.loops[bb] {
        ret = append(ret, bb)
    }

    /* sort by block ID */
    sort.Slice(ret, func(i int, j int) bool {
        return ret[i].Id < ret[j].Id
    })

    /* all done */
    return ret
}

// Successors returns the distinct successors of bb in terminator order.
func (self *Graph) Successors(bb *ir.BasicBlock) []*ir.BasicBlock {
    return bb.Successors()
}

// Unreachable returns the blocks that can not be reached from the entry, in
// function order.
func (self *Graph) Unreachable() []*ir.BasicBlock {
    var bfs traverse.BreadthFirst
    var ret []*ir.BasicBlock

    /* functions without a body */
    if len(self.fn.Blocks) == 0 {
        return nil
    }

    /* walk from the entry block */
    bfs.Walk(self.g, simple.Node(self.fn.Entry().Id), nil)

    /* everything not visited is unreachable */
    for _, bb := range self.fn.Blocks {
        if !bfs.Visited(simple.Node(bb.Id)) {
            ret = append(ret, bb)
        }
    }

    /* all done */
    return ret
}

// MaxOutDegree returns the largest number of distinct successors of any
// block.
func (self *Graph) MaxOutDegree() int {
    ret := 0
    for _, bb := range self.fn.Blocks {
        if n := len(bb.Successors()); n > ret {
            ret = n
        }
    }
    return ret
}
