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

package optir

import (
	"errors"
	"io/fs"
	"os"

	"github.com/cloudwego/optir/internal/ir"
	"github.com/cloudwego/optir/internal/irtext"
	"github.com/cloudwego/optir/internal/opt"
	"github.com/cloudwego/optir/internal/opts"
)

type (
	Module = ir.Module
	Stats  = opt.Stats
	Tracer = opts.Tracer
)

// Load parses a module from its textual form, name is used in error messages.
func Load(name string, src []byte) (*Module, error) {
	m, err := irtext.Parse(name, string(src))
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}
	return m, nil
}

// LoadFile reads and parses the module stored at path.
func LoadFile(path string) (*Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) {
			err = pe.Err
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return Load(path, src)
}

// Optimize rewrites m in place and returns what has been done.
func Optimize(m *Module, options ...Option) (Stats, error) {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}
	return opt.Optimize(m, &o)
}
