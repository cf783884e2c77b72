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

package debug

import (
	"fmt"
	"io"

	"github.com/cloudwego/optir/internal/dataflow"
	"github.com/cloudwego/optir/internal/ir"
	"github.com/davecgh/go-spew/spew"
)

// A Stats records the size of a module.
type Stats struct {
	Functions    int
	Globals      int
	Blocks       int
	Instructions int
}

// GetStats returns the size of m.
func GetStats(m *ir.Module) Stats {
	ret := Stats{
		Functions: len(m.Funcs),
		Globals:   len(m.Globals),
	}
	for _, fn := range m.Funcs {
		ret.Blocks += len(fn.Blocks)
		ret.Instructions += fn.NumInstructions()
	}
	return ret
}

// A BlockState records the reaching stores of a basic block at the fixed
// point.
type BlockState struct {
	Name  string
	Preds []string
	Succs []string
	In    []string
	Gen   []string
	Kill  []string
	Out   []string
}

// A FunctionState records the reaching stores analysis of a function.
type FunctionState struct {
	Name        string
	Pops        int
	Changes     int
	Unreachable []string
	Blocks      []BlockState
}

var config = spew.ConfigState{
	Indent:                  "    ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func blockNames(bbs []*ir.BasicBlock) []string {
	ret := make([]string, 0, len(bbs))
	for _, bb := range bbs {
		ret = append(ret, bb.Name)
	}
	return ret
}

func storeNames(s dataflow.InstrSet) []string {
	ret := make([]string, 0, len(s))
	for _, p := range s.Sorted() {
		ret = append(ret, fmt.Sprintf("#%d: %s", p.Id, p.Disassemble()))
	}
	return ret
}

// Dataflow solves the reaching stores of fn without rewriting anything.
func Dataflow(fn *ir.Function) FunctionState {
	g := dataflow.NewGraph(fn)
	res := dataflow.SolveReachingStores(fn, nil)

	/* basic properties */
	ret := FunctionState{
		Name:        fn.Name,
		Pops:        res.Pops,
		Changes:     res.Changes,
		Unreachable: blockNames(res.Unreachable),
	}

	/* per-block sets */
	for _, bb := range fn.Blocks {
		ret.Blocks = append(ret.Blocks, BlockState{
			Name:  bb.Name,
			Preds: blockNames(g.Predecessors(bb)),
			Succs: blockNames(g.Successors(bb)),
			In:    storeNames(res.In[bb]),
			Gen:   storeNames(res.Gen[bb]),
			Kill:  storeNames(res.Kill[bb]),
			Out:   storeNames(res.Out[bb]),
		})
	}
	return ret
}

// Dump writes the size of m and the reaching stores of every function to w.
func Dump(w io.Writer, m *ir.Module) {
	config.Fdump(w, GetStats(m))
	for _, fn := range m.Funcs {
		config.Fdump(w, Dataflow(fn))
	}
}
