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

package opts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is wrapped by every error about the content of a config
// file.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the content of an optir.toml file. Unset keys keep the value
// they already have.
type Config struct {
	MaxRounds *int  `toml:"max_rounds"`
	Peephole  *bool `toml:"peephole"`
	ConstProp *bool `toml:"constprop"`
	Verify    *bool `toml:"verify"`
}

// LoadFile parses a TOML config file. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	/* reject unknown keys */
	if keys := meta.Undecoded(); len(keys) != 0 {
		names := make([]string, 0, len(keys))
		for _, k := range keys {
			names = append(names, k.String())
		}
		return nil, fmt.Errorf("%s: %w: unknown keys: %s", path, ErrInvalidConfig, strings.Join(names, ", "))
	}

	/* check the round limit */
	if meta.IsDefined("max_rounds") && *cfg.MaxRounds < 1 {
		return nil, fmt.Errorf("%s: %w: max_rounds must be at least 1, got %d", path, ErrInvalidConfig, *cfg.MaxRounds)
	}
	return &cfg, nil
}

// Apply copies the keys that are set into o.
func (self *Config) Apply(o *Options) {
	if self.MaxRounds != nil {
		o.MaxRounds = *self.MaxRounds
	}
	if self.Peephole != nil {
		o.Peephole = *self.Peephole
	}
	if self.ConstProp != nil {
		o.ConstProp = *self.ConstProp
	}
	if self.Verify != nil {
		o.Verify = *self.Verify
	}
}
