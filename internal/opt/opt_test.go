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
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/cloudwego/optir/internal/dataflow"
	"github.com/cloudwego/optir/internal/ir"
	"github.com/cloudwego/optir/internal/irtext"
	"github.com/cloudwego/optir/internal/opts"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	lines []string
}

func (self *recorder) Function(name string) { self.lines = append(self.lines, "Function Name: "+name) }
func (self *recorder) Block(name string)    { self.lines = append(self.lines, "In basic block "+name) }

func parse(t *testing.T, src string) *ir.Module {
	m, err := irtext.Parse("test.ir", src)
	require.NoError(t, err)
	require.NoError(t, ir.VerifyModule(m))
	return m
}

func testContext() *Context {
	o := opts.GetDefaultOptions()
	o.Verify = true
	return NewContext(&o)
}

func TestWalk_FoldChain(t *testing.T) {
	m := parse(t, `
func @f() : i32 {
entry:
    %3 = add i32 2, 3
    %4 = mul i32 %3, 3
    ret i32 %4
}
`)
	rec := &recorder{}
	ctx := testContext()
	ctx.Options.Tracer = rec

	/* both instructions are folded in a single walk */
	require.True(t, Walk(m, ctx))
	require.NoError(t, ir.VerifyModule(m))
	require.Equal(t, 2, ctx.Stats.Folded)

	/* only the return is left, returning the folded constant */
	entry := m.Func("f").Entry()
	require.Equal(t, 1, entry.Len())
	ret := entry.First()
	require.Equal(t, int64(15), ret.Operand(0).(*ir.Constant).V)
	require.Equal(t, []string{"Function Name: f", "In basic block entry"}, rec.lines)

	/* nothing more to do */
	require.False(t, Walk(m, ctx))
}

func TestConstFold_Property(t *testing.T) {
	f := gofakeit.New(1019)
	tys := []ir.Type{ir.I8, ir.I16, ir.I32, ir.I64}
	ops := map[ir.Opcode]func(a, b int64) int64{
		ir.OpAdd: func(a, b int64) int64 { return a + b },
		ir.OpSub: func(a, b int64) int64 { return a - b },
		ir.OpMul: func(a, b int64) int64 { return a * b },
	}
	for i := 0; i < 500; i++ {
		for op, eval := range ops {
			ty := tys[f.IntRange(0, len(tys)-1)]
			x := ir.NewConst(ty, f.Int64())
			y := ir.NewConst(ty, f.Int64())

			/* %r = op x, y; ret %r */
			fn := ir.NewModule("fold").NewFunction("f", ty)
			b := ir.NewBuilder(fn.NewBlock("entry"))
			p := b.Binary(op, "r", x, y)
			ret := b.Ret(p)

			/* fold it */
			v := ConstFold(p)
			c, ok := v.(*ir.Constant)
			require.True(t, ok, spew.Sdump(op, x.V, y.V))
			require.Equal(t, ty.Wrap(eval(x.V, y.V)), c.V)
			require.Equal(t, ty, c.Ty)
			require.True(t, p.Erased())
			require.Zero(t, p.NumUses())
			require.Same(t, v, ret.Operand(0))
			require.NoError(t, ir.Verify(fn))
		}
	}
}

func TestConstFold_Unsupported(t *testing.T) {
	m := parse(t, `
func @f(%a: i32) : i1 {
entry:
    %q = div i32 6, 3
    %c = cmp i32 %q, 2
    %s = add i32 %a, 1
    %t = add i32 %s, %q
    ret i1 %c
}
`)
	for p := m.Func("f").Entry().First(); p != nil; p = p.Next() {
		require.Same(t, ir.Value(p), ConstFold(p), p.Disassemble())
	}
	require.NoError(t, ir.VerifyModule(m))
}

func TestDCE_Idempotent(t *testing.T) {
	m := parse(t, `
global @g : i32
func @f(%a: i32) {
entry:
    %x = add i32 %a, 1
    %y = add i32 %x, 1
    %r = call i32 @side(%a)
    store i32 %a, @g
    ret void
}
`)
	entry := m.Func("f").Entry()
	x, y := entry.First(), entry.First().Next()
	r := y.Next()

	/* %x is used, calls are never dead */
	require.False(t, DCE(x))
	require.False(t, DCE(r))
	require.True(t, DCE(y))
	require.False(t, DCE(y))

	/* %x is dead now */
	require.True(t, DCE(x))
	require.False(t, DCE(x))
	require.NoError(t, ir.VerifyModule(m))

	/* nothing left to erase */
	for p := entry.First(); p != nil; p = p.Next() {
		require.False(t, DCE(p))
	}
	require.Equal(t, 3, entry.Len())
}

func TestCSE_Precondition(t *testing.T) {
	src := `
func @f(%a: i32, %b: i64) : i32 {
entry:
    %x = add i32 %a, 1
    %y = sub i32 %a, 1
    %u = add i64 %b, 1
    %z = add i32 %x, %y
    %w = cmp i32 %x, 1
    %v = call i32 @g(%x, %u)
    ret i32 %z
}
`
	m := parse(t, src)
	text := m.String()
	entry := m.Func("f").Entry()

	/* different opcodes, constants, different types */
	for p := entry.First(); p != nil; p = p.Next() {
		require.False(t, CSE(p), p.Disassemble())
	}
	require.False(t, CSE(ir.NewConst(ir.I32, 1)))
	require.Equal(t, text, m.String())
}

func TestCSE_SiblingOperands(t *testing.T) {
	m := parse(t, `
func @f(%a: i32, %b: i32) : i32 {
entry:
    %x = add i32 %a, 1
    %y = add i32 %b, 2
    %z = mul i32 %x, %y
    ret i32 %z
}
`)
	entry := m.Func("f").Entry()
	x, y, z := entry.First(), entry.First().Next(), entry.First().Next().Next()
	a := m.Func("f").Params[0]

	/* %y is redirected to the first operand of %x, %x is still used */
	require.True(t, CSE(z))
	require.NoError(t, ir.VerifyModule(m))
	require.Same(t, ir.Value(x), z.Operand(0))
	require.Same(t, ir.Value(a), z.Operand(1))
	require.Same(t, ir.Value(a), y.Operand(0))
	require.False(t, x.Erased())
	require.Zero(t, y.NumUses())
}

func TestCSE_SameOperand(t *testing.T) {
	m := parse(t, `
func @f(%a: i32) : i32 {
entry:
    %x = add i32 %a, 1
    %z = mul i32 %x, %x
    ret i32 %z
}
`)
	entry := m.Func("f").Entry()
	x, z := entry.First(), entry.First().Next()
	a := m.Func("f").Params[0]

	/* %x has no uses left and is erased */
	require.True(t, CSE(z))
	require.True(t, x.Erased())
	require.Same(t, ir.Value(a), z.Operand(0))
	require.Same(t, ir.Value(a), z.Operand(1))
	require.Equal(t, 2, entry.Len())
	require.NoError(t, ir.VerifyModule(m))
}

func TestConstProp_StoreThenLoad(t *testing.T) {
	m := parse(t, `
global @x : i32
func @main() : i32 {
entry:
    store i32 7, @x
    br next
next:
    %y = load i32, @x
    ret i32 %y
}
`)
	fn := m.Func("main")
	ctx := testContext()
	gv := m.Global("x")
	load := fn.Block("next").First()

	/* the store reaches the successor */
	res := dataflow.SolveReachingStores(fn, nil)
	require.True(t, res.In[fn.Block("next")].Has(fn.Entry().First()))

	/* every use of @x is replaced with 7 */
	require.True(t, ConstProp{}.Apply(fn, ctx))
	require.Zero(t, gv.NumUses())
	require.Equal(t, int64(7), load.Pointer().(*ir.Constant).V)
	require.Equal(t, 1, ctx.Stats.Propagated)
	require.NoError(t, ir.VerifyModule(m))

	/* nothing changes the second time */
	require.False(t, ConstProp{}.Apply(fn, ctx))
}

func TestConstProp_ReachingStoreOperand(t *testing.T) {
	m := ir.NewModule("test")
	gv := m.NewGlobal("g", ir.I32)
	fn := m.NewFunction("f", ir.I32)
	a := fn.AddParam("a", ir.I32)
	b := ir.NewBuilder(fn.NewBlock("entry"))
	st := b.Store(a, gv)
	r := b.Call("r", ir.I32, "observe", a, st)
	u := b.Call("u", ir.I32, "consume", r)
	b.Ret(u)
	require.NoError(t, ir.Verify(fn))

	/* %r has a reaching store as an operand, its uses go to the store */
	ctx := testContext()
	require.True(t, ConstProp{}.Apply(fn, ctx))
	require.Same(t, ir.Value(st), u.Operand(0))
	require.Zero(t, r.NumUses())
	require.Same(t, ir.Value(gv), st.Pointer())
	require.NoError(t, ir.Verify(fn))
}

func TestSweep(t *testing.T) {
	m := parse(t, `
func @f(%a: i32) : i32 {
entry:
    %p = alloca i32
    %x = add i32 %a, 1
    %y = mul i32 %x, 2
    %z = sub i32 %y, %x
    ret i32 %a
}
`)
	ctx := testContext()
	require.True(t, Sweep{}.Apply(m.Func("f"), ctx))
	require.Equal(t, 4, ctx.Stats.Erased)
	require.Equal(t, 1, m.Func("f").NumInstructions())
	require.False(t, Sweep{}.Apply(m.Func("f"), ctx))
}

const sampleModule = `
global @x : i32

func @main(%a: i32) : i32 {
entry:
    %p = alloca i32
    %t = add i32 2, 3
    %u = mul i32 %t, 3
    %dead = sub i32 %a, 1
    store i32 %u, %p
    store i32 7, @x
    br next
next:
    %v = load i32, @x
    %w = add i32 %v, %u
    ret i32 %w
}
`

func TestOptimize(t *testing.T) {
	m := parse(t, sampleModule)
	o := opts.GetDefaultOptions()
	o.Verify = true

	/* optimize the module */
	st, err := Optimize(m, &o)
	require.NoError(t, err)
	require.Equal(t, 2, st.Rounds)
	require.Equal(t, 2, st.Folded)
	require.Equal(t, 2, st.Propagated)
	require.Equal(t, 2, st.Erased)
	require.Positive(t, st.DataflowPops)

	/* expected output */
	expect := "global @x : i32\n" +
		"\n" +
		"func @main(%a: i32) : i32 {\n" +
		"entry:\n" +
		"    store i32 15, 15\n" +
		"    store i32 7, 7\n" +
		"    br next\n" +
		"next:\n" +
		"    %v = load i32, 7\n" +
		"    %w = add i32 %v, 15\n" +
		"    ret i32 %w\n" +
		"}\n"
	require.Equal(t, expect, m.String())

	/* optimizing again is a no-op */
	st, err = Optimize(m, &o)
	require.NoError(t, err)
	require.Equal(t, 1, st.Rounds)
	require.Zero(t, st.Folded+st.Erased+st.CSE+st.Propagated)
	require.Equal(t, expect, m.String())
}

func TestOptimize_Options(t *testing.T) {
	o := opts.GetDefaultOptions()
	o.MaxRounds = 1
	o.ConstProp = false

	/* peephole only */
	m := parse(t, sampleModule)
	st, err := Optimize(m, &o)
	require.NoError(t, err)
	require.Equal(t, 1, st.Rounds)
	require.Zero(t, st.Propagated)
	require.NotNil(t, m.Global("x"))
	require.Equal(t, 2, m.Global("x").NumUses())

	/* nothing at all */
	o.Peephole = false
	m = parse(t, sampleModule)
	text := m.String()
	st, err = Optimize(m, &o)
	require.NoError(t, err)
	require.Equal(t, Stats{}, st)
	require.Equal(t, text, m.String())
}
