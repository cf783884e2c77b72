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
    `github.com/cloudwego/optir/internal/ir`
)

// IsPure reports whether p produces a value without any other effect.
func IsPure(p *ir.Instruction) bool {
    return !p.Op.HasSideEffects() && !p.Ty.IsVoid()
}

// DCE erases p if it is pure and its result is never used. Stores, calls and
// terminators are never dead. It reports whether p was erased.
func DCE(p *ir.Instruction) bool {
    if p.Erased() || !IsPure(p) || p.NumUses() != 0 {
        return false
    } else {
        ir.ForceErase(p)
        return true
    }
}
