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
    `errors`

    `github.com/cloudwego/optir/internal/ir`
)

// CSE treats the two operands of v as the same computation when they are
// instructions with the same opcode and the same result type. The second
// operand is redirected to the first operand of the first one, which is
// erased if nothing else uses it. Only sibling operands are compared, there
// is no expression table. It reports whether v matched.
func CSE(v ir.Value) bool {
    p := ir.AsInstr(v)
    if p == nil || p.Erased() || p.NumOperands() != 2 {
        return false
    }

    /* both operands must be instructions */
    op0 := ir.AsInstr(p.Operand(0))
    op1 := ir.AsInstr(p.Operand(1))
    if op0 == nil || op1 == nil {
        return false
    }

    /* with identical opcode and type */
    if op0.Op != op1.Op || op0.Ty != op1.Ty {
        return false
    }

    /* the first operand of both is rewritten */
    if op0.NumOperands() == 0 || op1.NumOperands() == 0 {
        return false
    }

    /* op1 would end up referencing itself */
    sub := op0.Operand(0)
    if sub == ir.Value(op1) {
        return false
    }

    /* redirect op1 */
    temp := op1.Operand(0)
    ir.ReplaceAllUses(op1, sub)
    op1.SetOperand(0, sub)

    /* op0 is erased only if nothing uses it anymore */
    var e *ir.NonEmptyUseListError
    if err := ir.Erase(op0); err != nil && !errors.As(err, &e) {
        panic("cse: " + err.Error())
    }

    /* the old operand of op1 might be dead now */
    if t := ir.AsInstr(temp); t != nil {
        DCE(t)
    }
    return true
}
