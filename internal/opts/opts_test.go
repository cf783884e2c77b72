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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, src string) string {
	path := filepath.Join(t.TempDir(), "optir.toml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestParseOrDefault(t *testing.T) {
	t.Setenv("OPTIR_TEST_ROUNDS", "")
	require.Equal(t, 8, parseOrDefault("OPTIR_TEST_ROUNDS", 8, 0))
	t.Setenv("OPTIR_TEST_ROUNDS", "3")
	require.Equal(t, 3, parseOrDefault("OPTIR_TEST_ROUNDS", 8, 0))
	t.Setenv("OPTIR_TEST_ROUNDS", "0")
	require.Panics(t, func() { parseOrDefault("OPTIR_TEST_ROUNDS", 8, 0) })
	t.Setenv("OPTIR_TEST_ROUNDS", "many")
	require.Panics(t, func() { parseOrDefault("OPTIR_TEST_ROUNDS", 8, 0) })
	t.Setenv("OPTIR_TEST_VERIFY", "true")
	require.True(t, parseBoolOrDefault("OPTIR_TEST_VERIFY", false))
	t.Setenv("OPTIR_TEST_VERIFY", "maybe")
	require.Panics(t, func() { parseBoolOrDefault("OPTIR_TEST_VERIFY", false) })
}

func TestOptions_Defaults(t *testing.T) {
	o := GetDefaultOptions()
	require.True(t, o.Peephole)
	require.True(t, o.ConstProp)
	require.True(t, o.CanRepeat(0))
	require.False(t, o.CanRepeat(o.MaxRounds))
	require.NotNil(t, o.Log())
	require.Equal(t, NopTracer{}, o.Trace())
}

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "max_rounds = 3\nconstprop = false\n"))
	require.NoError(t, err)

	/* only the keys that were set are applied */
	o := GetDefaultOptions()
	cfg.Apply(&o)
	require.Equal(t, 3, o.MaxRounds)
	require.False(t, o.ConstProp)
	require.True(t, o.Peephole)
}

func TestLoadFile_Invalid(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "max_rounds = 3\nunroll = true\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.Contains(t, err.Error(), "unroll")

	/* the round limit must be positive */
	_, err = LoadFile(writeConfig(t, "max_rounds = 0\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)

	/* syntax errors */
	_, err = LoadFile(writeConfig(t, "max_rounds = \n"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidConfig)
}
