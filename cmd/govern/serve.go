// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"log/slog"
	"os"

	"github.com/blinklabs-io/govern/internal/config"
	"github.com/blinklabs-io/govern/internal/node"
	"github.com/spf13/cobra"
)

func serveRun(cmd *cobra.Command, _ []string, cfg *config.Config) {
	logger := commonRun(cfg)
	if err := node.Run(cmd.Context(), cfg, logger); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the governance contracts and API",
		Run: func(cmd *cobra.Command, args []string) {
			serveRun(cmd, args, configFromContext(cmd))
		},
	}
	return cmd
}
