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
    `errors`
    `fmt`
)

// ErrUnsupportedOpcode is returned by Fold for opcodes it does not evaluate.
var ErrUnsupportedOpcode = errors.New("unsupported opcode")

// NonEmptyUseListError occures when erasing an instruction that is still
// referenced by other instructions.
type NonEmptyUseListError struct {
    Inst *Instruction
    Uses int
}

func (self *NonEmptyUseListError) Error() string {
    return fmt.Sprintf("cannot erase %s: still has %d use(s)", self.Inst, self.Uses)
}

// ReplaceAllUses rewrites every operand slot that references old to reference
// nv instead. old is not erased, and has no uses afterwards.
func ReplaceAllUses(old Value, nv Value) {
    if old == nv {
        return
    }

    /* take over the use-list */
    ul := old.uselist()
    uses := ul.uses
    ul.uses = nil

    /* rewrite every operand slot */
    for _, u := range uses {
        u.User.ops[u.Index] = nv
        nv.uselist().add(u)
    }
}

// Erase removes inst from its basic block. It fails with NonEmptyUseListError
// if the instruction is still referenced. Erasing an erased instruction is
// a no-op.
func Erase(inst *Instruction) error {
    if inst.erased {
        return nil
    } else if n := inst.NumUses(); n != 0 {
        return &NonEmptyUseListError { Inst: inst, Uses: n }
    } else {
        inst.detach()
        return nil
    }
}

// ForceErase erases inst when the caller has already established that it has
// no uses. Breaking that precondition would leave dangling operands, so it
// panics instead.
func ForceErase(inst *Instruction) {
    if err := Erase(inst); err != nil {
        panic("ir: force erase: " + err.Error())
    }
}

func (self *Instruction) detach() {
    self.dropOperands()
    self.erased = true

    /* unlink from the parent block */
    if self.parent != nil {
        self.parent.unlink(self)
    }
}

// Fold evaluates op over two constants, wrapping the result to the width of
// the operand type. Only add, sub and mul are evaluated.
func Fold(op Opcode, x *Constant, y *Constant) (*Constant, error) {
    switch op {
        case OpAdd : return NewConst(x.Ty, x.V + y.V), nil
        case OpSub : return NewConst(x.Ty, x.V - y.V), nil
        case OpMul : return NewConst(x.Ty, x.V * y.V), nil
        default    : return nil, fmt.Errorf("fold %s: %w", op, ErrUnsupportedOpcode)
    }
}
