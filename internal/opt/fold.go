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
    `fmt`

    `github.com/cloudwego/optir/internal/ir`
)

// ConstFold folds a binary instruction over two constants. On success all the
// uses of p are redirected to the new constant, p is erased, and the constant
// is returned. Otherwise p itself is returned unchanged.
func ConstFold(p *ir.Instruction) ir.Value {
    var ok bool
    var x, y *ir.Constant

    /* only binary instructions with constant operands */
    if p.Erased() || p.NumOperands() != 2 || p.Ty.IsVoid() {
        return p
    }

    /* both operands must be constants */
    if x, ok = p.Operand(0).(*ir.Constant); !ok {
        return p
    }
    if y, ok = p.Operand(1).(*ir.Constant); !ok {
        return p
    }

    /* evaluate the instruction */
    v, err := ir.Fold(p.Op, x, y)
    if errors.Is(err, ir.ErrUnsupportedOpcode) {
        return p
    } else if err != nil {
        panic(fmt.Sprintf("constfold: %v", err))
    }

    /* replace with the result */
    ir.ReplaceAllUses(p, v)
    ir.ForceErase(p)
    return v
}
