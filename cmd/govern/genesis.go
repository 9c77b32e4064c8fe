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
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/blinklabs-io/govern"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

func genesisCommand() *cobra.Command {
	var deployer string
	var output string
	var handOff bool
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Write a development genesis file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !common.IsHexAddress(deployer) {
				return errors.New("--deployer must be a hex address")
			}
			// #nosec G115
			g := govern.DefaultGenesis(common.HexToAddress(deployer), uint64(time.Now().Unix()))
			g.HandOffToDAO = handOff
			buf, err := g.Marshal()
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(buf)
				return err
			}
			if err := os.WriteFile(output, buf, 0o600); err != nil {
				return fmt.Errorf("write genesis: %w", err)
			}
			addrs := g.Addresses()
			fmt.Fprintf(cmd.OutOrStdout(), "token:    %s\nregistry: %s\ntimelock: %s\ngovernor: %s\ncouncil:  %s\n",
				addrs.Token.Hex(), addrs.Registry.Hex(), addrs.Timelock.Hex(), addrs.Governor.Hex(), addrs.Council.Hex())
			return nil
		},
	}
	cmd.Flags().StringVar(&deployer, "deployer", "", "deployer address")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")
	cmd.Flags().BoolVar(&handOff, "hand-off", false, "give admin roles to the timelock")
	return cmd
}
