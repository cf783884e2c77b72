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
    `strconv`
)

// Value is anything that can appear as an instruction operand.
type Value interface {
    fmt.Stringer
    Type() Type
    Uses() []Use
    Users() []*Instruction
    NumUses() int
    uselist() *useList
}

// Use is a single operand slot referencing a value.
type Use struct {
    User  *Instruction
    Index int
}

type useList struct {
    uses []Use
}

func (self *useList) uselist() *useList {
    return self
}

// Uses returns a copy of the use-list, in the order the uses were created.
func (self *useList) Uses() []Use {
    ret := make([]Use, len(self.uses))
    copy(ret, self.uses)
    return ret
}

// NumUses returns the number of operand slots that reference this value.
func (self *useList) NumUses() int {
    return len(self.uses)
}

// Users returns the distinct instructions that reference this value.
func (self *useList) Users() []*Instruction {
    ret := make([]*Instruction, 0, len(self.uses))
    set := make(map[*Instruction]struct{}, len(self.uses))

    /* deduplicate, keep the first occurrence */
    for _, u := range self.uses {
        if _, ok := set[u.User]; !ok {
            set[u.User] = struct{}{}
            ret = append(ret, u.User)
        }
    }

    /* all done */
    return ret
}

func (self *useList) add(u Use) {
    self.uses = append(self.uses, u)
}

func (self *useList) remove(u Use) bool {
    for i, v := range self.uses {
        if v == u {
            self.uses = append(self.uses[:i], self.uses[i + 1:]...)
            return true
        }
    }
    return false
}

// Constant is an immutable integer literal. Every Constant object has its own
// use-list, constants are never interned.
type Constant struct {
    useList
    Ty Type
    V  int64
}

// NewConst creates a new constant, the value is wrapped to the width of ty.
func NewConst(ty Type, v int64) *Constant {
    return &Constant {
        Ty: ty,
        V : ty.Wrap(v),
    }
}

func (self *Constant) Type() Type {
    return self.Ty
}

func (self *Constant) String() string {
    return strconv.FormatInt(self.V, 10)
}

// Global is a module-level storage location, its value is the address.
type Global struct {
    useList
    Name string
    Elem Type
}

func (self *Global) Type() Type {
    return Ptr
}

func (self *Global) String() string {
    return "@" + self.Name
}

// Param is a formal parameter of a function.
type Param struct {
    useList
    Name string
    Ty   Type
}

func (self *Param) Type() Type {
    return self.Ty
}

func (self *Param) String() string {
    return "%" + self.Name
}

// IsConst reports whether v is a Constant.
func IsConst(v Value) bool {
    _, ok := v.(*Constant)
    return ok
}

// AsInstr returns v as an instruction, or nil if it is not one.
func AsInstr(v Value) *Instruction {
    if p, ok := v.(*Instruction); ok {
        return p
    } else {
        return nil
    }
}
