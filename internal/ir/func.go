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

// Function owns an ordered list of basic blocks, the first one is the entry.
type Function struct {
    Name   string
    Ret    Type
    Params []*Param
    Blocks []*BasicBlock

    ids    int
    parent *Module
}

func (self *Function) Parent() *Module {
    return self.parent
}

// Entry returns the entry block, or nil for a declaration without a body.
func (self *Function) Entry() *BasicBlock {
    if len(self.Blocks) == 0 {
        return nil
    } else {
        return self.Blocks[0]
    }
}

// AddParam appends a new formal parameter.
func (self *Function) AddParam(name string, ty Type) *Param {
    p := &Param { Name: name, Ty: ty }
    self.Params = append(self.Params, p)
    return p
}

// NewBlock appends a new empty basic block.
func (self *Function) NewBlock(name string) *BasicBlock {
    bb := &BasicBlock {
        Id     : len(self.Blocks),
        Name   : name,
        parent : self,
    }

    /* add to the block list */
    self.Blocks = append(self.Blocks, bb)
    return bb
}

// Block looks up a block by its label.
func (self *Function) Block(name string) *BasicBlock {
    for _, bb := range self.Blocks {
        if bb.Name == name {
            return bb
        }
    }
    return nil
}

// ForEach calls action for every instruction of the function, in block
// order. The next instruction is fetched before action runs, so action may
// erase the instruction it was given.
func (self *Function) ForEach(action func(p *Instruction)) {
    for _, bb := range self.Blocks {
        for p, next := bb.head, (*Instruction)(nil); p != nil; p = next {
            next = p.next
            action(p)
        }
    }
}

// NumInstructions counts the live instructions of the function.
func (self *Function) NumInstructions() int {
    n := 0
    for _, bb := range self.Blocks {
        n += bb.size
    }
    return n
}

func (self *Function) newId() int {
    self.ids++
    return self.ids
}
