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
    `fmt`

    `github.com/cloudwego/optir/internal/ir`
    `github.com/cloudwego/optir/internal/opts`
)

var _passes = [...]_PassDescriptor {
    { desc: "Constant Propagation" , pass: new(ConstProp) },
    { desc: "Dead Code Sweep"      , pass: new(Sweep) },
}

// Optimize runs the peephole walk until nothing changes or the round limit
// is hit, then the function-level passes, then the verifier if enabled. The
// module is rewritten in place.
func Optimize(m *ir.Module, o *opts.Options) (Stats, error) {
    ctx := NewContext(o)
    log := o.Log()

    /* Phase 1: peephole rounds */
    if o.Peephole {
        for o.CanRepeat(ctx.Stats.Rounds) {
            if ctx.Stats.Rounds++; !Walk(m, ctx) {
                break
            }
        }
    }

    /* Phase 2: function-level passes */
    if o.ConstProp {
        for _, fn := range m.Funcs {
            for _, p := range _passes {
                if p.pass.Apply(fn, ctx) {
                    log.Debug("function changed", "pass", p.desc, "func", fn.Name)
                }
            }
        }
    }

    /* Phase 3: check the invariants */
    if o.Verify {
        if err := ir.VerifyModule(m); err != nil {
            return ctx.Stats, fmt.Errorf("optimize %s: %w", m.Name, err)
        }
    }

    /* all done */
    log.Info("module optimized", "module", m.Name, "stats", ctx.Stats.String())
    return ctx.Stats, nil
}
