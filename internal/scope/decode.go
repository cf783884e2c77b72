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
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInvalidTree is wrapped by every error about the shape of a TOML tree.
var ErrInvalidTree = errors.New("invalid tree")

type tomlNode struct {
	Kind     string     `toml:"kind"`
	Name     string     `toml:"name"`
	Params   []string   `toml:"params"`
	Children []tomlNode `toml:"children"`
}

// Decode parses a TOML description of a tree. Every table has a kind, one
// of "decl", "ref", "block", "func" or "generic". Declarations and
// references carry a name, functions carry params, and the other kinds
// nest their children as [[children]] tables. The children of a function
// form its body.
func Decode(src string) (Node, error) {
	var root tomlNode
	meta, err := toml.Decode(src, &root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	/* reject unknown keys */
	if keys := meta.Undecoded(); len(keys) != 0 {
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			names = append(names, k.String())
		}
		return nil, fmt.Errorf("%w: unknown keys: %s", ErrInvalidTree, strings.Join(names, ", "))
	}
	return root.convert("root")
}

func (n *tomlNode) convert(path string) (Node, error) {
	switch n.Kind {
	case "decl", "ref":
		if n.Name == "" {
			return nil, fmt.Errorf("%w: %s: %s without a name", ErrInvalidTree, path, n.Kind)
		}
		if len(n.Children) != 0 {
			return nil, fmt.Errorf("%w: %s: %s cannot have children", ErrInvalidTree, path, n.Kind)
		}
		if n.Kind == "decl" {
			return &VarDecl{Name: n.Name}, nil
		}
		return &VarRef{Name: n.Name}, nil
	}

	/* composite nodes */
	ch, err := n.children(path)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case "block":
		return &Block{Stmts: ch}, nil
	case "func":
		return &Function{Params: n.Params, Body: &Block{Stmts: ch}}, nil
	case "generic":
		return &Generic{Children: ch}, nil
	default:
		return nil, fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidTree, path, n.Kind)
	}
}

func (n *tomlNode) children(path string) ([]Node, error) {
	ret := make([]Node, 0, len(n.Children))
	for i := range n.Children {
		c, err := n.Children[i].convert(fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		ret = append(ret, c)
	}
	return ret, nil
}
