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

type Opcode uint8

const (
    OpInvalid Opcode = iota
    OpAdd
    OpSub
    OpMul
    OpDiv
    OpCmp
    OpAlloca
    OpLoad
    OpStore
    OpCall
    OpBr
    OpCondBr
    OpRet
)

var _OpNames = [...]string {
    OpInvalid : "invalid",
    OpAdd     : "add",
    OpSub     : "sub",
    OpMul     : "mul",
    OpDiv     : "div",
    OpCmp     : "cmp",
    OpAlloca  : "alloca",
    OpLoad    : "load",
    OpStore   : "store",
    OpCall    : "call",
    OpBr      : "br",
    OpCondBr  : "condbr",
    OpRet     : "ret",
}

// ParseOpcode looks up an opcode by its mnemonic.
func ParseOpcode(s string) (Opcode, bool) {
    for i, v := range _OpNames {
        if i != int(OpInvalid) && v == s {
            return Opcode(i), true
        }
    }
    return OpInvalid, false
}

func (self Opcode) String() string {
    if int(self) < len(_OpNames) {
        return _OpNames[self]
    } else {
        return fmt.Sprintf("op(%d)", uint8(self))
    }
}

// IsArith reports whether the opcode is one of the foldable arithmetic opcodes.
func (self Opcode) IsArith() bool {
    return self == OpAdd || self == OpSub || self == OpMul
}

// IsBinary reports whether the opcode takes exactly two value operands.
func (self Opcode) IsBinary() bool {
    return self.IsArith() || self == OpDiv || self == OpCmp
}

func (self Opcode) IsTerminator() bool {
    return self == OpBr || self == OpCondBr || self == OpRet
}

// HasSideEffects reports whether an instruction with this opcode is observable
// regardless of whether its result is used.
func (self Opcode) HasSideEffects() bool {
    return self == OpStore || self == OpCall || self.IsTerminator()
}

// Instruction is a single three-address instruction. It is owned by exactly
// one basic block, and keeps the use-lists of its operands up to date.
type Instruction struct {
    useList
    Id      int
    Op      Opcode
    Name    string
    Ty      Type
    Elem    Type
    Callee  string
    Targets []*BasicBlock

    ops    []Value
    erased bool
    parent *BasicBlock
    prev   *Instruction
    next   *Instruction
}

// NewInstr creates a detached instruction and registers it as a user of
// each of the operands.
func NewInstr(op Opcode, ty Type, name string, operands ...Value) *Instruction {
    ret := &Instruction {
        Op   : op,
        Ty   : ty,
        Name : name,
    }

    /* register all the operands */
    ret.SetOperands(operands...)
    return ret
}

func (self *Instruction) Type() Type {
    return self.Ty
}

func (self *Instruction) String() string {
    if self.Name != "" {
        return "%" + self.Name
    } else {
        return fmt.Sprintf("%%%d", self.Id)
    }
}

func (self *Instruction) Parent() *BasicBlock {
    return self.parent
}

func (self *Instruction) Next() *Instruction {
    return self.next
}

func (self *Instruction) Prev() *Instruction {
    return self.prev
}

// Erased reports whether the instruction has been erased from its block.
func (self *Instruction) Erased() bool {
    return self.erased
}

func (self *Instruction) IsTerminator() bool {
    return self.Op.IsTerminator()
}

func (self *Instruction) NumOperands() int {
    return len(self.ops)
}

func (self *Instruction) Operand(i int) Value {
    return self.ops[i]
}

// Operands returns a copy of the operand list.
func (self *Instruction) Operands() []Value {
    ret := make([]Value, len(self.ops))
    copy(ret, self.ops)
    return ret
}

// SetOperand rewrites a single operand slot, moving the use from the old
// value to the new one.
func (self *Instruction) SetOperand(i int, v Value) {
    if v == nil {
        panic(fmt.Sprintf("ir: nil operand %d for %s", i, self.Op))
    }

    /* unregister the old value */
    if old := self.ops[i]; old != nil {
        old.uselist().remove(Use { User: self, Index: i })
    }

    /* register the new value */
    self.ops[i] = v
    v.uselist().add(Use { User: self, Index: i })
}

// SetOperands replaces the whole operand list.
func (self *Instruction) SetOperands(vs ...Value) {
    self.dropOperands()
    self.ops = make([]Value, len(vs))

    /* add each operand */
    for i, v := range vs {
        if v == nil {
            panic(fmt.Sprintf("ir: nil operand %d for %s", i, self.Op))
        }
        self.ops[i] = v
        v.uselist().add(Use { User: self, Index: i })
    }
}

func (self *Instruction) dropOperands() {
    for i, v := range self.ops {
        if v != nil {
            v.uselist().remove(Use { User: self, Index: i })
        }
    }
    self.ops = nil
}

// StoreValue returns the value operand of a store.
func (self *Instruction) StoreValue() Value {
    if self.Op != OpStore {
        panic("ir: StoreValue on " + self.Op.String())
    }
    return self.ops[0]
}

// Pointer returns the address operand of a load or a store.
func (self *Instruction) Pointer() Value {
    switch self.Op {
        case OpLoad  : return self.ops[0]
        case OpStore : return self.ops[1]
        default      : panic("ir: Pointer on " + self.Op.String())
    }
}
