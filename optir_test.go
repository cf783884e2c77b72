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

package optir

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudwego/optir/internal/irtext"
	"github.com/cloudwego/optir/internal/opts"
	"github.com/stretchr/testify/require"
)

const testModule = `
global @x : i32

func @main(%a: i32) : i32 {
entry:
    %t = add i32 2, 3
    %u = mul i32 %t, 3
    store i32 7, @x
    br next
next:
    %v = load i32, @x
    %w = add i32 %v, %u
    ret i32 %w
}
`

type tracer []string

func (self *tracer) Function(name string) { *self = append(*self, "Function Name: "+name) }
func (self *tracer) Block(name string)    { *self = append(*self, "In basic block "+name) }

func TestOptimize(t *testing.T) {
	m, err := Load("test.ir", []byte(testModule))
	require.NoError(t, err)

	/* optimize with a tracer and a debug logger */
	var tr tracer
	var buf bytes.Buffer
	st, err := Optimize(m,
		WithMaxRounds(4),
		WithVerify(true),
		WithTracer(&tr),
		WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)
	require.NoError(t, err)
	require.Equal(t, 2, st.Folded)
	require.Equal(t, 1, st.Propagated)
	require.Contains(t, m.String(), "%w = add i32 %v, 15")
	require.Contains(t, m.String(), "%v = load i32, 7")
	require.Contains(t, buf.String(), "module optimized")
	require.Contains(t, buf.String(), "pass=constfold")

	/* one function, two blocks, two rounds */
	require.Equal(t, []string{
		"Function Name: main", "In basic block entry", "In basic block next",
		"Function Name: main", "In basic block entry", "In basic block next",
	}, []string(tr))
}

func TestOptimize_Disabled(t *testing.T) {
	m, err := Load("test.ir", []byte(testModule))
	require.NoError(t, err)
	text := m.String()
	st, err := Optimize(m, WithPeephole(false), WithConstProp(false))
	require.NoError(t, err)
	require.Equal(t, Stats{}, st)
	require.Equal(t, text, m.String())
}

func TestLoad_Error(t *testing.T) {
	_, err := Load("bad.ir", []byte("func @f() {\nentry:\n    ret i32 %nope\n}\n"))
	var le *LoadError
	var pe *irtext.ParseError
	require.ErrorAs(t, err, &le)
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "bad.ir", le.Path)
	require.Equal(t, 3, pe.Line)
	require.EqualError(t, err, "cannot load bad.ir: "+pe.Error())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFile(filepath.Join(dir, "missing.ir"))
	require.ErrorIs(t, err, os.ErrNotExist)

	/* a real file */
	fp := filepath.Join(dir, "m.ir")
	require.NoError(t, os.WriteFile(fp, []byte(testModule), 0o644))
	m, err := LoadFile(fp)
	require.NoError(t, err)
	require.NotNil(t, m.Func("main"))
	require.NotNil(t, m.Global("x"))
}

func TestOptions_Invalid(t *testing.T) {
	require.Panics(t, func() { WithMaxRounds(0) })
	require.Panics(t, func() { WithLogger(nil) })
	require.Panics(t, func() { WithTracer(nil) })
	require.Panics(t, func() { SetMaxRounds(-1) })
}

func TestSetMaxRounds(t *testing.T) {
	old := SetMaxRounds(1)
	defer SetMaxRounds(old)
	require.Equal(t, 1, opts.GetDefaultOptions().MaxRounds)

	/* a single round */
	m, err := Load("test.ir", []byte(testModule))
	require.NoError(t, err)
	st, err := Optimize(m)
	require.NoError(t, err)
	require.Equal(t, 1, st.Rounds)
}
