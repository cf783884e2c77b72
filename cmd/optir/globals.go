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
	"github.com/spf13/cobra"
)

func newGlobalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "globals <file.ir>",
		Short: "List the global variables of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := optir.LoadFile(args[0])
			if err != nil {
				return err
			}
			for _, gv := range m.Globals {
				fmt.Fprintf(cmd.OutOrStdout(), "Global variable name: %s\n", gv.Name)
			}
			return nil
		},
	}
}
