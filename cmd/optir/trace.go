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

package main

import (
	"io"

	"github.com/fatih/color"
)

// traceWriter prints the progress of the peephole walk.
type traceWriter struct {
	w     io.Writer
	fn    *color.Color
	block *color.Color
}

func newTraceWriter(w io.Writer) *traceWriter {
	return &traceWriter{
		w:     w,
		fn:    color.New(color.FgCyan, color.Bold),
		block: color.New(color.FgHiBlack),
	}
}

func (t *traceWriter) Function(name string) {
	t.fn.Fprintf(t.w, "Function Name: %s\n", name)
}

func (t *traceWriter) Block(name string) {
	t.block.Fprintf(t.w, "In basic block %s\n", name)
}
