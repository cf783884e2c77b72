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

// VerifyModule checks the structural invariants of every function.
func VerifyModule(m *Module) error {
    var errs []error
    for _, fn := range m.Funcs {
        if err := Verify(fn); err != nil {
            errs = append(errs, fmt.Errorf("function @%s: %w", fn.Name, err))
        }
    }
    return errors.Join(errs...)
}

// Verify checks that:
//   - every operand is live and belongs to the same function,
//   - every use-list is exactly the inverse of the operand relation,
//   - values defined in a block are defined before they are used there,
//   - only the last instruction of a block is a terminator.
func Verify(fn *Function) error {
    var errs []error
    pos := make(map[*Instruction]int)
    uses := make(map[Value]map[Use]struct{})

    /* record the expected uses of a value */
    expect := func(v Value, u Use) {
        if uses[v] == nil {
            uses[v] = make(map[Use]struct{})
        }
        uses[v][u] = struct{}{}
    }

    /* Phase 1: block structure and instruction positions */
    for _, bb := range fn.Blocks {
        i := 0
        for p := bb.head; p != nil; p, i = p.next, i + 1 {
            pos[p] = i
            expect(p, Use{})

            /* the instruction must be live and owned by this block */
            if p.erased || p.parent != bb {
                errs = append(errs, fmt.Errorf("%s: %s is not owned by this block", bb, p))
            }

            /* terminators only at the end */
            if p.IsTerminator() && p.next != nil {
                errs = append(errs, fmt.Errorf("%s: terminator %s is not the last instruction", bb, p.Op))
            }
        }

        /* the cached size must match the list */
        if i != bb.size {
            errs = append(errs, fmt.Errorf("%s: block size is %d, but has %d instructions", bb, bb.size, i))
        }
    }

    /* Phase 2: operands */
    for _, bb := range fn.Blocks {
        for p := bb.head; p != nil; p = p.next {
            for i, v := range p.ops {
                if v == nil {
                    errs = append(errs, fmt.Errorf("%s: operand %d of %s is nil", bb, i, p))
                    continue
                }

                /* record the use */
                expect(v, Use { User: p, Index: i })
                def := AsInstr(v)

                /* only instructions need further checks */
                if def == nil {
                    continue
                }

                /* must not reference erased instructions */
                if _, ok := pos[def]; !ok {
                    errs = append(errs, fmt.Errorf("%s: %s references %s which is not in this function", bb, p, def))
                    continue
                }

                /* definitions in the same block must come first */
                if def.parent == bb && pos[def] >= pos[p] {
                    errs = append(errs, fmt.Errorf("%s: %s is used by %s before it is defined", bb, def, p))
                }
            }
        }
    }

    /* Phase 3: use-lists must match exactly */
    for v, want := range uses {
        delete(want, Use{})
        nb := 0
        got := make(map[Use]struct{}, v.NumUses())

        /* every recorded use must be expected */
        for _, u := range v.uselist().uses {
            if u.User.parent != nil && u.User.parent.parent != fn {
                continue
            }

            /* uses from this function */
            nb++
            got[u] = struct{}{}
            if _, ok := want[u]; !ok {
                errs = append(errs, fmt.Errorf("%s: stale use by %s at operand %d", v, u.User, u.Index))
            }
        }

        /* every expected use must be recorded */
        for u := range want {
            if _, ok := got[u]; !ok {
                errs = append(errs, fmt.Errorf("%s: missing use by %s at operand %d", v, u.User, u.Index))
            }
        }

        /* no duplicates */
        if len(got) != nb {
            errs = append(errs, fmt.Errorf("%s: use-list contains duplicates", v))
        }
    }

    /* join them together */
    return errors.Join(errs...)
}
