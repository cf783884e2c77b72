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

package main

import (
	"fmt"

	"github.com/cloudwego/optir"
	"github.com/cloudwego/optir/debug"
	"github.com/cloudwego/optir/internal/ir"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.ir>",
		Short: "Parse and verify a module without optimizing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := optir.LoadFile(args[0])
			if err != nil {
				return err
			}
			if err = ir.VerifyModule(m); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			st := debug.GetStats(m)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d function(s), %d global(s), %d block(s), %d instruction(s)\n",
				color.GreenString("ok"), args[0], st.Functions, st.Globals, st.Blocks, st.Instructions)
			return nil
		},
	}
}
