// Copyright Conjure-CP Contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	"github.com/conjure-cp/conjure-go/pkg/context"
	"github.com/conjure-cp/conjure-go/pkg/essence"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var prettyCmd = &cobra.Command{
	Use:   "pretty model.essence",
	Short: "Parse a model and print it back.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.NewContext(context.Minion)
		//
		model, err := essence.ParseFile(args[0], ctx)
		if err != nil {
			log.Errorln(err)
			os.Exit(2)
		}
		//
		fmt.Print(model)
	},
}

func init() {
	rootCmd.AddCommand(prettyCmd)
}
