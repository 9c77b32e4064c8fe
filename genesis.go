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

package govern

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/blinklabs-io/govern/chain"
	"github.com/blinklabs-io/govern/council"
	"github.com/blinklabs-io/govern/delegation"
	"github.com/blinklabs-io/govern/governor"
	"github.com/blinklabs-io/govern/timelock"
	"github.com/blinklabs-io/govern/token"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoDeployer    = errors.New("genesis: deployer address is required")
	ErrInvalidAmount = errors.New("genesis: invalid amount")
)

// Genesis describes the initial deployment of the governance contracts.
// Contract addresses are derived from the deployer, so the same genesis
// always yields the same addresses.
type Genesis struct {
	Deployer common.Address `yaml:"deployer"`
	// Timestamp is the unix time of the genesis block
	Timestamp uint64            `yaml:"timestamp"`
	Token     TokenGenesis      `yaml:"token"`
	Registry  RegistryGenesis   `yaml:"registry"`
	Timelock  TimelockGenesis   `yaml:"timelock"`
	Governor  GovernorGenesis   `yaml:"governor"`
	Council   CouncilGenesis    `yaml:"council"`
	Delegates []DelegateGenesis `yaml:"delegates,omitempty"`
	// HandOffToDAO gives every admin role to the timelock once deployed
	HandOffToDAO bool `yaml:"handOffToDAO"`
}

type TokenGenesis struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
	// EmissionRatio is scaled by token.RatioScale. Empty keeps the default.
	EmissionRatio string              `yaml:"emissionRatio,omitempty"`
	Minters       []common.Address    `yaml:"minters,omitempty"`
	Allocations   []AllocationGenesis `yaml:"allocations,omitempty"`
}

type AllocationGenesis struct {
	Address common.Address `yaml:"address"`
	Amount  string         `yaml:"amount"`
}

type RegistryGenesis struct {
	DelegationCap    uint64        `yaml:"delegationCap"`
	DelegationPeriod time.Duration `yaml:"delegationPeriod"`
	AutoExpiryPeriod time.Duration `yaml:"autoExpiryPeriod,omitempty"`
}

type TimelockGenesis struct {
	Delay time.Duration `yaml:"delay"`
}

type GovernorGenesis struct {
	QuorumBps    uint64 `yaml:"quorumBps"`
	ProposalCost string `yaml:"proposalCost,omitempty"`
	VotingDelay  uint64 `yaml:"votingDelay"`
	VotingPeriod uint64 `yaml:"votingPeriod"`
	// Guardian defaults to the council
	Guardian *common.Address `yaml:"guardian,omitempty"`
}

type CouncilGenesis struct {
	Members    []CouncilMemberGenesis `yaml:"members"`
	Threshold  int                    `yaml:"threshold,omitempty"`
	MinMembers int                    `yaml:"minMembers,omitempty"`
}

type CouncilMemberGenesis struct {
	Address    common.Address `yaml:"address"`
	Foundation bool           `yaml:"foundation,omitempty"`
}

type DelegateGenesis struct {
	Address    common.Address `yaml:"address"`
	Profile    string         `yaml:"profile"`
	Philosophy string         `yaml:"philosophy,omitempty"`
	Interests  string         `yaml:"interests,omitempty"`
}

// Addresses holds the deployed contract addresses
type Addresses struct {
	Token    common.Address `json:"token"    yaml:"token"`
	Registry common.Address `json:"registry" yaml:"registry"`
	Timelock common.Address `json:"timelock" yaml:"timelock"`
	Governor common.Address `json:"governor" yaml:"governor"`
	Council  common.Address `json:"council"  yaml:"council"`
}

// DefaultGenesis returns a development deployment with a three member
// council controlled by the deployer
func DefaultGenesis(deployer common.Address, timestamp uint64) *Genesis {
	members := []CouncilMemberGenesis{
		{Address: deployer, Foundation: true},
		{Address: common.HexToAddress("0x00000000000000000000000000000000000c0002")},
		{Address: common.HexToAddress("0x00000000000000000000000000000000000c0003")},
	}
	return &Genesis{
		Deployer:  deployer,
		Timestamp: timestamp,
		Token: TokenGenesis{
			Name:   "Governance Token",
			Symbol: "GOV",
			Allocations: []AllocationGenesis{
				{Address: deployer, Amount: "1000000000000000000000000"},
			},
		},
		Registry: RegistryGenesis{
			DelegationCap:    delegation.DefaultDelegationCap,
			DelegationPeriod: delegation.DefaultDelegationPeriod,
		},
		Timelock: TimelockGenesis{
			Delay: 2 * 24 * time.Hour,
		},
		Governor: GovernorGenesis{
			QuorumBps:    governor.DefaultQuorumBps,
			ProposalCost: "0",
			VotingDelay:  governor.DefaultVotingDelay,
			VotingPeriod: governor.DefaultVotingPeriod,
		},
		Council: CouncilGenesis{
			Members: members,
		},
	}
}

// LoadGenesis reads a YAML genesis file
func LoadGenesis(path string) (*Genesis, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis: %w", err)
	}
	g := &Genesis{}
	if err := yaml.Unmarshal(buf, g); err != nil {
		return nil, fmt.Errorf("parse genesis %s: %w", path, err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Marshal encodes the genesis as YAML
func (g *Genesis) Marshal() ([]byte, error) {
	return yaml.Marshal(g)
}

// Validate checks the parts of the genesis that the contracts do not
func (g *Genesis) Validate() error {
	if g.Deployer == (common.Address{}) {
		return ErrNoDeployer
	}
	if _, err := parseAmount(g.Token.EmissionRatio); err != nil {
		return fmt.Errorf("token emission ratio: %w", err)
	}
	if _, err := parseAmount(g.Governor.ProposalCost); err != nil {
		return fmt.Errorf("governor proposal cost: %w", err)
	}
	for _, a := range g.Token.Allocations {
		if _, err := parseAmount(a.Amount); err != nil {
			return fmt.Errorf("allocation to %s: %w", a.Address.Hex(), err)
		}
	}
	return nil
}

// Addresses derives the contract addresses from the deployer and the
// deployment order
func (g *Genesis) Addresses() Addresses {
	return Addresses{
		Token:    crypto.CreateAddress(g.Deployer, 0),
		Registry: crypto.CreateAddress(g.Deployer, 1),
		Timelock: crypto.CreateAddress(g.Deployer, 2),
		Governor: crypto.CreateAddress(g.Deployer, 3),
		Council:  crypto.CreateAddress(g.Deployer, 4),
	}
}

// parseAmount parses a decimal amount. Empty yields nil.
func parseAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return nil, nil
	}
	ret, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return ret, nil
}

// contracts is a deployed genesis
type contracts struct {
	addresses Addresses
	token     *token.Token
	registry  *delegation.Registry
	timelock  *timelock.Timelock
	governor  *governor.Governor
	council   *council.Council
}

// deploy creates and registers the contracts on rt and applies the initial
// allocations, delegates and role hand-off as one transaction
func (g *Genesis) deploy(rt *chain.Runtime, cfg Config) (*contracts, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	addrs := g.Addresses()
	owner := g.Deployer
	dao := g.Deployer
	if g.HandOffToDAO {
		dao = addrs.Timelock
	}
	guardian := addrs.Council
	if g.Governor.Guardian != nil {
		guardian = *g.Governor.Guardian
	}
	// Validated above
	ratio, _ := parseAmount(g.Token.EmissionRatio)
	cost, _ := parseAmount(g.Governor.ProposalCost)

	tok, err := token.New(rt, token.Config{
		Address: addrs.Token,
		Owner:   owner,
		Name:    g.Token.Name,
		Symbol:  g.Token.Symbol,
		Logger:  cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("deploy token: %w", err)
	}
	reg, err := delegation.New(rt, delegation.Config{
		Address:          addrs.Registry,
		Owner:            owner,
		Token:            tok,
		DelegationCap:    g.Registry.DelegationCap,
		DelegationPeriod: g.Registry.DelegationPeriod,
		AutoExpiryPeriod: g.Registry.AutoExpiryPeriod,
		Logger:           cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("deploy delegation registry: %w", err)
	}
	tl, err := timelock.New(rt, timelock.Config{
		Address:         addrs.Timelock,
		Admin:           owner,
		Governor:        addrs.Governor,
		SecurityCouncil: addrs.Council,
		Delay:           g.Timelock.Delay,
		Logger:          cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("deploy timelock: %w", err)
	}
	gov, err := governor.New(rt, governor.Config{
		Address:      addrs.Governor,
		Owner:        owner,
		Token:        tok,
		Registry:     reg,
		Timelock:     tl,
		Guardian:     guardian,
		QuorumBps:    g.Governor.QuorumBps,
		ProposalCost: cost,
		VotingDelay:  g.Governor.VotingDelay,
		VotingPeriod: g.Governor.VotingPeriod,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("deploy governor: %w", err)
	}
	members := make([]council.Member, 0, len(g.Council.Members))
	for _, m := range g.Council.Members {
		members = append(members, council.Member{Address: m.Address, Foundation: m.Foundation})
	}
	cncl, err := council.New(rt, council.Config{
		Address:    addrs.Council,
		DAO:        dao,
		Governor:   addrs.Governor,
		Timelock:   addrs.Timelock,
		Members:    members,
		Threshold:  g.Council.Threshold,
		MinMembers: g.Council.MinMembers,
		Logger:     cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("deploy council: %w", err)
	}
	gov.SetPauser(cncl)
	for _, c := range []chain.Contract{tok, reg, tl, gov, cncl} {
		if err := rt.Register(c); err != nil {
			return nil, err
		}
	}

	err = rt.Execute(func() error {
		if err := tok.SetMinter(owner, owner, true); err != nil {
			return err
		}
		for _, a := range g.Token.Allocations {
			amount, _ := parseAmount(a.Amount)
			if err := tok.Mint(owner, a.Address, amount); err != nil {
				return fmt.Errorf("allocate to %s: %w", a.Address.Hex(), err)
			}
		}
		// The ratio only throttles mints after genesis
		if ratio != nil {
			if err := tok.SetEmissionRatio(owner, ratio); err != nil {
				return err
			}
		}
		deployerMinter := false
		for _, m := range g.Token.Minters {
			if m == owner {
				deployerMinter = true
				continue
			}
			if err := tok.SetMinter(owner, m, true); err != nil {
				return err
			}
		}
		if !deployerMinter {
			if err := tok.SetMinter(owner, owner, false); err != nil {
				return err
			}
		}
		for _, d := range g.Delegates {
			if err := reg.RegisterDelegate(d.Address, d.Profile, d.Philosophy, d.Interests); err != nil {
				return fmt.Errorf("register delegate %s: %w", d.Address.Hex(), err)
			}
		}
		if !g.HandOffToDAO {
			return nil
		}
		if err := tok.TransferOwnership(owner, addrs.Timelock); err != nil {
			return err
		}
		if err := reg.TransferOwnership(owner, addrs.Timelock); err != nil {
			return err
		}
		if err := gov.TransferOwnership(owner, addrs.Timelock); err != nil {
			return err
		}
		return tl.SetAdmin(owner, addrs.Timelock)
	})
	if err != nil {
		return nil, fmt.Errorf("apply genesis: %w", err)
	}
	return &contracts{
		addresses: addrs,
		token:     tok,
		registry:  reg,
		timelock:  tl,
		governor:  gov,
		council:   cncl,
	}, nil
}
