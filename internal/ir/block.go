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

// BasicBlock owns a list of instructions. Predecessors and successors are
// derived from the terminators, blocks never own each other.
type BasicBlock struct {
    Id   int
    Name string

    size   int
    head   *Instruction
    tail   *Instruction
    parent *Function
}

func (self *BasicBlock) Parent() *Function {
    return self.parent
}

func (self *BasicBlock) First() *Instruction {
    return self.head
}

func (self *BasicBlock) Last() *Instruction {
    return self.tail
}

func (self *BasicBlock) Len() int {
    return self.size
}

// Instructions returns a snapshot of the instruction list.
func (self *BasicBlock) Instructions() []*Instruction {
    ret := make([]*Instruction, 0, self.size)
    for p := self.head; p != nil; p = p.next {
        ret = append(ret, p)
    }
    return ret
}

// Terminator returns the last instruction if it is a terminator, or nil.
func (self *BasicBlock) Terminator() *Instruction {
    if self.tail != nil && self.tail.IsTerminator() {
        return self.tail
    } else {
        return nil
    }
}

// Successors returns the distinct branch targets of the terminator, in the
// order they appear.
func (self *BasicBlock) Successors() []*BasicBlock {
    var ret []*BasicBlock
    var term *Instruction

    /* blocks without terminators have no successors */
    if term = self.Terminator(); term == nil {
        return nil
    }

    /* deduplicate the targets */
    for _, bb := range term.Targets {
        if !containsBlock(ret, bb) {
            ret = append(ret, bb)
        }
    }

    /* all done */
    return ret
}

// Predecessors returns the distinct blocks of the parent function that branch
// to this block, in function order.
func (self *BasicBlock) Predecessors() []*BasicBlock {
    var ret []*BasicBlock
    if self.parent == nil {
        return nil
    }

    /* scan every block of the function */
    for _, bb := range self.parent.Blocks {
        if containsBlock(bb.Successors(), self) {
            ret = append(ret, bb)
        }
    }

    /* all done */
    return ret
}

// Append adds inst at the end of the block.
func (self *BasicBlock) Append(inst *Instruction) {
    self.attach(inst)
    inst.prev = self.tail

    /* link to the tail */
    if self.tail != nil {
        self.tail.next = inst
    } else {
        self.head = inst
    }

    /* update the tail */
    self.tail = inst
    self.size++
}

// InsertBefore inserts inst right before pos, which must belong to this block.
func (self *BasicBlock) InsertBefore(inst *Instruction, pos *Instruction) {
    if pos.parent != self {
        panic("ir: insertion point does not belong to " + self.String())
    }

    /* link into the list */
    self.attach(inst)
    inst.next = pos
    inst.prev = pos.prev

    /* update the neighbours */
    if pos.prev != nil {
        pos.prev.next = inst
    } else {
        self.head = inst
    }

    /* update the size */
    pos.prev = inst
    self.size++
}

func (self *BasicBlock) attach(inst *Instruction) {
    if inst.parent != nil || inst.erased {
        panic("ir: instruction is already attached or erased: " + inst.String())
    }

    /* assign a function-unique ID */
    if inst.parent = self; inst.Id == 0 && self.parent != nil {
        inst.Id = self.parent.newId()
    }
}

func (self *BasicBlock) unlink(inst *Instruction) {
    if inst.prev != nil {
        inst.prev.next = inst.next
    } else {
        self.head = inst.next
    }

    /* fix the back link */
    if inst.next != nil {
        inst.next.prev = inst.prev
    } else {
        self.tail = inst.prev
    }

    /* the cursor of the erased instruction is kept so iterators can move on */
    inst.parent = nil
    self.size--
}

func (self *BasicBlock) String() string {
    return self.Name
}

func containsBlock(s []*BasicBlock, bb *BasicBlock) bool {
    for _, v := range s {
        if v == bb {
            return true
        }
    }
    return false
}
