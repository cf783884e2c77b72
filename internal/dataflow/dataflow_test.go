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
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/cloudwego/optir/internal/ir"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// diamond builds:
//
//	entry: store 7, @x; condbr c, left, right
//	left:  store 1, @y; br join
//	right: br join
//	join:  ret
//	dead:  store 2, @x; store 3, @x; br join
func diamond() (*ir.Function, map[string]*ir.Instruction) {
	m := ir.NewModule("test")
	x := m.NewGlobal("x", ir.I32)
	y := m.NewGlobal("y", ir.I32)
	fn := m.NewFunction("f", ir.Void)
	c := fn.AddParam("c", ir.I1)
	entry := fn.NewBlock("entry")
	left := fn.NewBlock("left")
	right := fn.NewBlock("right")
	join := fn.NewBlock("join")
	dead := fn.NewBlock("dead")

	/* build the instructions */
	st := make(map[string]*ir.Instruction)
	b := ir.NewBuilder(entry)
	st["x7"] = b.Store(ir.NewConst(ir.I32, 7), x)
	b.CondBr(c, left, right)
	b.SetBlock(left)
	st["y1"] = b.Store(ir.NewConst(ir.I32, 1), y)
	b.Br(join)
	b.SetBlock(right)
	b.Br(join)
	b.SetBlock(join)
	b.Ret(nil)
	b.SetBlock(dead)
	st["x2"] = b.Store(ir.NewConst(ir.I32, 2), x)
	st["x3"] = b.Store(ir.NewConst(ir.I32, 3), x)
	b.Br(join)
	return fn, st
}

func TestInstrSet(t *testing.T) {
	_, st := diamond()
	a := NewInstrSet(st["x7"], st["y1"])
	b := NewInstrSet(st["y1"], st["x2"])
	require.False(t, a.Add(st["x7"]))
	require.Equal(t, NewInstrSet(st["x7"], st["y1"], st["x2"]), a.Union(b))
	require.Equal(t, NewInstrSet(st["x7"]), a.Subtract(b))
	require.True(t, NewInstrSet(st["y1"]).Subset(a))
	require.False(t, a.Subset(b))
	require.True(t, a.Equal(a.Clone()))
	require.Equal(t, []*ir.Instruction{st["x7"], st["y1"]}, a.Sorted())
	require.Equal(t, "{store(#1), store(#3)}", a.String())
}

func TestReachingStores_Diamond(t *testing.T) {
	fn, st := diamond()
	entry, left, right, join, dead := fn.Blocks[0], fn.Blocks[1], fn.Blocks[2], fn.Blocks[3], fn.Blocks[4]

	/* record the callbacks */
	var seen []string
	res := SolveReachingStores(fn, func(bb *ir.BasicBlock, out InstrSet) {
		seen = append(seen, bb.Name)
	})

	/* reaching stores at the end of each block */
	x7, y1, x2, x3 := st["x7"], st["y1"], st["x2"], st["x3"]
	require.Equal(t, NewInstrSet(x7), res.Out[entry])
	require.Equal(t, NewInstrSet(x7, y1), res.Out[left])
	require.Equal(t, NewInstrSet(x7), res.Out[right])
	require.Equal(t, NewInstrSet(x7, y1, x2, x3), res.In[join], spew.Sdump(res.In[join].Sorted()))
	require.Equal(t, NewInstrSet(x2, x3), res.Out[dead])

	/* the narrow KILL does not remove stores of the same block */
	require.Equal(t, NewInstrSet(x2, x3), res.Kill[dead])
	require.Empty(t, res.Kill[entry])

	/* unreachable blocks are reported, not rejected */
	require.Equal(t, []*ir.BasicBlock{dead}, res.Unreachable)
	require.Equal(t, res.Changes, len(seen))
	require.Equal(t, "dead", seen[0])
}

func TestSolve_VisitOrder(t *testing.T) {
	m := ir.NewModule("test")
	x := m.NewGlobal("x", ir.I32)
	fn := m.NewFunction("f", ir.Void)
	blocks := []*ir.BasicBlock{fn.NewBlock("a"), fn.NewBlock("b"), fn.NewBlock("c")}
	for _, bb := range blocks {
		b := ir.NewBuilder(bb)
		b.Store(ir.NewConst(ir.I32, int64(bb.Id)), x)
		b.Ret(nil)
	}

	/* no edges, every block changes exactly once, last block first */
	var seen []string
	res := SolveReachingStores(fn, func(bb *ir.BasicBlock, _ InstrSet) {
		seen = append(seen, bb.Name)
	})
	require.Equal(t, []string{"c", "b", "a"}, seen)
	require.Equal(t, 3, res.Pops)
}

func TestReachingStores_SelfLoop(t *testing.T) {
	m := ir.NewModule("test")
	x := m.NewGlobal("x", ir.I32)
	fn := m.NewFunction("loop", ir.Void)
	c := fn.AddParam("c", ir.I1)
	entry := fn.NewBlock("entry")
	body := fn.NewBlock("body")
	exit := fn.NewBlock("exit")
	b := ir.NewBuilder(entry)
	s0 := b.Store(ir.NewConst(ir.I32, 0), x)
	b.Br(body)
	b.SetBlock(body)
	s1 := b.Store(ir.NewConst(ir.I32, 1), x)
	b.CondBr(c, body, exit)
	b.SetBlock(exit)
	b.Ret(nil)

	/* the loop block is its own predecessor */
	g := NewGraph(fn)
	require.Equal(t, []*ir.BasicBlock{entry, body}, g.Predecessors(body))
	require.Equal(t, 2, g.MaxOutDegree())

	/* both stores reach the exit */
	res := SolveReachingStores(fn, nil)
	require.Equal(t, NewInstrSet(s0, s1), res.Out[body])
	require.Equal(t, NewInstrSet(s0, s1), res.Out[exit])
	require.Empty(t, res.Unreachable)
}

type shrinking struct {
	gens []int
}

func (*shrinking) Init(_ *ir.BasicBlock) int { return 0 }
func (*shrinking) Kill(_ *ir.BasicBlock, _ int) int { return 0 }
func (*shrinking) Transfer(_ int, gen int, _ int) int { return gen }
func (*shrinking) Merge(acc int, _ int) int { return acc }
func (*shrinking) Equal(a int, b int) bool { return a == b }
func (*shrinking) Includes(a int, b int) bool { return a >= b }
func (self *shrinking) Gen(bb *ir.BasicBlock) (ret int) {
	if bb.Id == 0 {
		return 1
	}
	ret, self.gens = self.gens[0], self.gens[1:]
	return
}

func TestSolve_ShrinkingOutPanics(t *testing.T) {
	fn := ir.NewModule("test").NewFunction("f", ir.Void)
	entry := fn.NewBlock("entry")
	loop := fn.NewBlock("loop")
	ir.NewBuilder(entry).Br(loop)
	ir.NewBuilder(loop).Br(loop)
	require.Panics(t, func() {
		Solve[int](fn, &shrinking{gens: []int{5, 0}}, nil)
	})
}

// randomFunc builds a function with random stores and random branches.
func randomFunc(f *gofakeit.Faker) (*ir.Function, int) {
	m := ir.NewModule("random")
	gvs := []*ir.Global{
		m.NewGlobal("a", ir.I32),
		m.NewGlobal("b", ir.I32),
		m.NewGlobal("c", ir.I32),
	}

	/* create the blocks */
	nb := f.IntRange(1, 10)
	fn := m.NewFunction("f", ir.Void)
	cond := fn.AddParam("cond", ir.I1)
	for i := 0; i < nb; i++ {
		fn.NewBlock(fmt.Sprintf("bb%d", i))
	}

	/* fill the blocks */
	ns := 0
	for _, bb := range fn.Blocks {
		b := ir.NewBuilder(bb)
		for i := f.IntRange(0, 3); i > 0; i-- {
			b.Store(ir.NewConst(ir.I32, int64(f.Int32())), gvs[f.IntRange(0, len(gvs)-1)])
			ns++
		}

		/* random terminator */
		switch f.IntRange(0, 2) {
		case 0:
			b.Ret(nil)
		case 1:
			b.Br(fn.Blocks[f.IntRange(0, nb-1)])
		default:
			b.CondBr(cond, fn.Blocks[f.IntRange(0, nb-1)], fn.Blocks[f.IntRange(0, nb-1)])
		}
	}
	return fn, ns
}

func TestReachingStores_RandomCFG(t *testing.T) {
	f := gofakeit.New(20221019)
	rs := ReachingStores{}
	for n := 0; n < 200; n++ {
		fn, ns := randomFunc(f)
		require.NoError(t, ir.Verify(fn))

		/* solve it */
		calls := 0
		res := SolveReachingStores(fn, func(*ir.BasicBlock, InstrSet) { calls++ })
		nb := len(fn.Blocks)
		g := NewGraph(fn)

		/* bounded number of iterations */
		require.Equal(t, res.Changes, calls)
		require.LessOrEqual(t, res.Changes, nb*(ns+1))
		require.LessOrEqual(t, res.Pops, nb+res.Changes*g.MaxOutDegree())

		/* the result is a fixed point */
		for _, bb := range fn.Blocks {
			in := InstrSet{}
			for _, pred := range g.Predecessors(bb) {
				in = in.Union(res.Out[pred])
			}
			gen := rs.Gen(bb)
			require.Equal(t, in, res.In[bb], bb.Name)
			require.Equal(t, rs.Transfer(in, gen, rs.Kill(bb, gen)), res.Out[bb], bb.Name)
			require.True(t, gen.Subset(res.Out[bb]))
		}

		/* reachability agrees with a plain walk */
		seen := map[*ir.BasicBlock]bool{}
		for q := []*ir.BasicBlock{fn.Entry()}; len(q) != 0; q = q[1:] {
			if !seen[q[0]] {
				seen[q[0]] = true
				q = append(q, q[0].Successors()...)
			}
		}
		for _, bb := range res.Unreachable {
			require.False(t, seen[bb])
		}
		require.Equal(t, nb, len(seen)+len(res.Unreachable))
	}
}
