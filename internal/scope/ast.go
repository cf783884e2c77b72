/*
 * Copyright 2022 CloudWeGo Authors
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

package scope

// Node is a node of the source AST, only the parts that matter for name
// resolution are modelled.
type Node interface {
	node()
}

// VarDecl declares Name in the innermost scope.
type VarDecl struct {
	Name string
}

// VarRef references the variable Name.
type VarRef struct {
	Name string
}

// Block is a braced statement list, it opens a new scope.
type Block struct {
	Stmts []Node
}

// Function opens a new scope holding its parameters, the body is checked
// inside that scope.
type Function struct {
	Params []string
	Body   Node
}

// Generic is any other node, its children are checked in order without
// opening a scope.
type Generic struct {
	Children []Node
}

func (*VarDecl) node()  {}
func (*VarRef) node()   {}
func (*Block) node()    {}
func (*Function) node() {}
func (*Generic) node()  {}
