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

import (
	"fmt"
)

// UndeclaredError is returned when a variable is used before it is declared.
type UndeclaredError struct {
	Name string
}

func (e *UndeclaredError) Error() string {
	return fmt.Sprintf("variable %s used before declaration", e.Name)
}

// Checker checks that every variable reference has a visible declaration.
// The outermost scope holds top-level declarations.
type Checker struct {
	stack Stack
}

func NewChecker() *Checker {
	return new(Checker)
}

// Enter opens a new scope, the returned function closes it.
func (c *Checker) Enter() (release func()) {
	c.stack.Push()
	return c.stack.Pop
}

// Depth returns the number of open scopes.
func (c *Checker) Depth() int {
	return c.stack.Depth()
}

// Check walks node in source order and returns an *UndeclaredError for the
// first reference without a visible declaration. A nil node is valid.
func (c *Checker) Check(node Node) error {
	defer c.Enter()()
	return c.check(node)
}

// Valid is like Check, but reports the offending name instead of an error.
func (c *Checker) Valid(node Node) (bool, string) {
	if err := c.Check(node); err != nil {
		return false, err.(*UndeclaredError).Name
	} else {
		return true, ""
	}
}

func (c *Checker) check(node Node) error {
	switch n := node.(type) {
	case nil:
		return nil
	case *VarDecl:
		c.stack.Declare(n.Name)
		return nil
	case *VarRef:
		if !c.stack.Lookup(n.Name) {
			return &UndeclaredError{Name: n.Name}
		}
		return nil
	case *Block:
		defer c.Enter()()
		return c.checkAll(n.Stmts)
	case *Function:
		defer c.Enter()()
		for _, p := range n.Params {
			c.stack.Declare(p)
		}
		return c.check(n.Body)
	case *Generic:
		return c.checkAll(n.Children)
	default:
		panic(fmt.Sprintf("scope: unknown node type %T", node))
	}
}

func (c *Checker) checkAll(nodes []Node) error {
	for _, n := range nodes {
		if err := c.check(n); err != nil {
			return err
		}
	}
	return nil
}
