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

package ir

import (
    `fmt`
)

// Builder appends instructions at the end of a basic block.
type Builder struct {
    bb *BasicBlock
}

func NewBuilder(bb *BasicBlock) *Builder {
    return &Builder { bb: bb }
}

// SetBlock moves the insertion point to the end of bb.
func (self *Builder) SetBlock(bb *BasicBlock) {
    self.bb = bb
}

func (self *Builder) Block() *BasicBlock {
    return self.bb
}

func (self *Builder) emit(p *Instruction) *Instruction {
    if t := self.bb.Terminator(); t != nil {
        panic(fmt.Sprintf("ir: block %s is already terminated by %s", self.bb, t.Op))
    }
    self.bb.Append(p)
    return p
}

// Binary emits an arithmetic instruction, the result has the type of x.
func (self *Builder) Binary(op Opcode, name string, x Value, y Value) *Instruction {
    if !op.IsBinary() || op == OpCmp {
        panic("ir: not an arithmetic opcode: " + op.String())
    }
    return self.emit(NewInstr(op, x.Type(), name, x, y))
}

// Cmp emits a comparison, the result is an i1.
func (self *Builder) Cmp(name string, x Value, y Value) *Instruction {
    p := NewInstr(OpCmp, I1, name, x, y)
    p.Elem = x.Type()
    return self.emit(p)
}

func (self *Builder) Alloca(name string, elem Type) *Instruction {
    p := NewInstr(OpAlloca, Ptr, name)
    p.Elem = elem
    return self.emit(p)
}

func (self *Builder) Load(name string, elem Type, ptr Value) *Instruction {
    return self.emit(NewInstr(OpLoad, elem, name, ptr))
}

func (self *Builder) Store(v Value, ptr Value) *Instruction {
    p := NewInstr(OpStore, Void, "", v, ptr)
    p.Elem = v.Type()
    return self.emit(p)
}

// Call emits an opaque call, name is ignored for void calls.
func (self *Builder) Call(name string, ret Type, callee string, args ...Value) *Instruction {
    if ret.IsVoid() {
        name = ""
    }
    p := NewInstr(OpCall, ret, name, args...)
    p.Callee = callee
    return self.emit(p)
}

func (self *Builder) Br(to *BasicBlock) *Instruction {
    p := NewInstr(OpBr, Void, "")
    p.Targets = []*BasicBlock { to }
    return self.emit(p)
}

func (self *Builder) CondBr(cond Value, t *BasicBlock, f *BasicBlock) *Instruction {
    p := NewInstr(OpCondBr, Void, "", cond)
    p.Targets = []*BasicBlock { t, f }
    return self.emit(p)
}

// Ret emits a return, v may be nil for void returns.
func (self *Builder) Ret(v Value) *Instruction {
    if v == nil {
        return self.emit(NewInstr(OpRet, Void, ""))
    } else {
        return self.emit(NewInstr(OpRet, Void, "", v))
    }
}
