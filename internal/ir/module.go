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

// Module is the top-level unit: an ordered list of functions and globals.
type Module struct {
    Name    string
    Funcs   []*Function
    Globals []*Global
}

func NewModule(name string) *Module {
    return &Module { Name: name }
}

// NewFunction appends a new function without any blocks.
func (self *Module) NewFunction(name string, ret Type) *Function {
    fn := &Function {
        Name   : name,
        Ret    : ret,
        parent : self,
    }

    /* add to the function list */
    self.Funcs = append(self.Funcs, fn)
    return fn
}

// NewGlobal appends a new global variable of type elem.
func (self *Module) NewGlobal(name string, elem Type) *Global {
    gv := &Global { Name: name, Elem: elem }
    self.Globals = append(self.Globals, gv)
    return gv
}

func (self *Module) Func(name string) *Function {
    for _, fn := range self.Funcs {
        if fn.Name == name {
            return fn
        }
    }
    return nil
}

func (self *Module) Global(name string) *Global {
    for _, gv := range self.Globals {
        if gv.Name == name {
            return gv
        }
    }
    return nil
}
