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
	"os"

	"github.com/cloudwego/optir/internal/scope"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newScopeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-scope <tree.toml>",
		Short: "Check that every variable of a TOML syntax tree is declared before use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			node, err := scope.Decode(string(src))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err = scope.NewChecker().Check(node); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("ok"), args[0])
			return nil
		},
	}
}
