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
    `strings`
)

func joinValues(vs []Value) string {
    ret := make([]string, 0, len(vs))
    for _, v := range vs {
        ret = append(ret, v.String())
    }
    return strings.Join(ret, ", ")
}

func joinBlocks(bbs []*BasicBlock) string {
    ret := make([]string, 0, len(bbs))
    for _, bb := range bbs {
        ret = append(ret, bb.Name)
    }
    return strings.Join(ret, ", ")
}

// Disassemble returns the textual form of the instruction.
func (self *Instruction) Disassemble() string {
    var def string
    var ops = joinValues(self.ops)

    /* instructions that produce a value */
    if !self.Ty.IsVoid() {
        def = self.String() + " = "
    }

    /* format by opcode */
    switch self.Op {
        case OpAlloca : return fmt.Sprintf("%s%s %s", def, self.Op, self.Elem)
        case OpLoad   : return fmt.Sprintf("%s%s %s, %s", def, self.Op, self.Ty, ops)
        case OpStore  : return fmt.Sprintf("%s %s %s", self.Op, self.Elem, ops)
        case OpCmp    : return fmt.Sprintf("%s%s %s %s", def, self.Op, self.Elem, ops)
        case OpCall   : return fmt.Sprintf("%s%s %s @%s(%s)", def, self.Op, self.Ty, self.Callee, ops)
        case OpBr     : return fmt.Sprintf("%s %s", self.Op, joinBlocks(self.Targets))
        case OpCondBr : return fmt.Sprintf("%s %s, %s", self.Op, ops, joinBlocks(self.Targets))
    }

    /* returns */
    if self.Op == OpRet {
        if len(self.ops) == 0 {
            return "ret void"
        } else {
            return fmt.Sprintf("ret %s %s", self.ops[0].Type(), ops)
        }
    }

    /* arithmetics */
    return fmt.Sprintf("%s%s %s %s", def, self.Op, self.Ty, ops)
}

func (self *BasicBlock) Dump() string {
    buf := make([]string, 0, self.size + 1)
    buf = append(buf, self.Name + ":")

    /* dump every instruction */
    for p := self.head; p != nil; p = p.next {
        buf = append(buf, "    " + p.Disassemble())
    }

    /* join them together */
    return strings.Join(buf, "\n")
}

func (self *Function) String() string {
    var ret string
    var args []string

    /* formal parameters */
    for _, p := range self.Params {
        args = append(args, fmt.Sprintf("%s: %s", p, p.Ty))
    }

    /* return type, omitted for void functions */
    if !self.Ret.IsVoid() {
        ret = " : " + self.Ret.String()
    }

    /* dump every block */
    buf := []string { fmt.Sprintf("func @%s(%s)%s {", self.Name, strings.Join(args, ", "), ret) }
    for _, bb := range self.Blocks {
        buf = append(buf, bb.Dump())
    }

    /* join them together */
    buf = append(buf, "}")
    return strings.Join(buf, "\n")
}

func (self *Module) String() string {
    var gvs []string
    var buf []string

    /* global variables */
    for _, gv := range self.Globals {
        gvs = append(gvs, fmt.Sprintf("global %s : %s", gv, gv.Elem))
    }

    /* globals are grouped together */
    if len(gvs) != 0 {
        buf = append(buf, strings.Join(gvs, "\n"))
    }

    /* functions */
    for _, fn := range self.Funcs {
        buf = append(buf, fn.String())
    }

    /* join them together */
    return strings.Join(buf, "\n\n") + "\n"
}
