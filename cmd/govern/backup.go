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

	"github.com/blinklabs-io/govern/internal/node"
	"github.com/spf13/cobra"
)

func backupCommand() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "backup <location>",
		Short: "Copy the journal to a directory, s3:// or gs:// location",
		Long:  "Copy the journal to a directory, s3:// or gs:// location. The node must be stopped.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := configFromContext(cmd)
			logger := commonRun(cfg)
			if _, err := node.Backup(cmd.Context(), cfg, logger, args[0], key); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringVar(&key, "key", node.DefaultBackupKey, "object name of the backup")
	return cmd
}

func restoreCommand() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "restore <location>",
		Short: "Load a journal backup into an empty database",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := configFromContext(cmd)
			logger := commonRun(cfg)
			if _, err := node.Restore(cmd.Context(), cfg, logger, args[0], key); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringVar(&key, "key", node.DefaultBackupKey, "object name of the backup")
	return cmd
}
