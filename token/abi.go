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

package token

import (
	"github.com/blinklabs-io/govern/chain"
)

// Call dispatches ABI encoded calldata
func (t *Token) Call(msg chain.Msg, data []byte) ([]byte, error) {
	return t.methods.Dispatch(msg, data)
}

func (t *Token) registerMethods() {
	d := chain.NewDispatcher(t.config.Address)
	t.methods = d

	// Views
	d.Register("name()", []string{"string"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{t.config.Name}, nil
	})
	d.Register("symbol()", []string{"string"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{t.config.Symbol}, nil
	})
	d.Register("decimals()", []string{"uint8"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{Decimals}, nil
	})
	d.Register("owner()", []string{"address"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{t.Owner()}, nil
	})
	d.Register("totalSupply()", []string{"uint256"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{t.TotalSupply().ToBig()}, nil
	})
	d.Register("balanceOf(address)", []string{"uint256"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		return []any{t.BalanceOf(args.Address(0)).ToBig()}, nil
	})
	d.Register("allowance(address,address)", []string{"uint256"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		return []any{t.Allowance(args.Address(0), args.Address(1)).ToBig()}, nil
	})
	d.Register("isMinter(address)", []string{"bool"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		return []any{t.IsMinter(args.Address(0))}, nil
	})
	d.Register("emissionRatio()", []string{"uint256"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{t.EmissionRatio().ToBig()}, nil
	})
	d.Register("delegates(address)", []string{"address"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		return []any{t.Delegates(args.Address(0))}, nil
	})
	d.Register("getVotes(address)", []string{"uint256"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		return []any{t.Votes(args.Address(0)).ToBig()}, nil
	})
	d.Register("getPastVotes(address,uint256)", []string{"uint256"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		block, err := args.Uint64(1)
		if err != nil {
			return nil, err
		}
		votes, err := t.PastVotes(args.Address(0), block)
		if err != nil {
			return nil, err
		}
		return []any{votes.ToBig()}, nil
	})
	d.Register("getPastTotalSupply(uint256)", []string{"uint256"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		block, err := args.Uint64(0)
		if err != nil {
			return nil, err
		}
		supply, err := t.PastTotalSupply(block)
		if err != nil {
			return nil, err
		}
		return []any{supply.ToBig()}, nil
	})

	// Mutations
	d.Register("transfer(address,uint256)", []string{"bool"}, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		amount := args.Uint256(1)
		if err := t.Transfer(msg.From, args.Address(0), &amount); err != nil {
			return nil, err
		}
		return []any{true}, nil
	})
	d.Register("approve(address,uint256)", []string{"bool"}, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		amount := args.Uint256(1)
		if err := t.Approve(msg.From, args.Address(0), &amount); err != nil {
			return nil, err
		}
		return []any{true}, nil
	})
	d.Register("transferFrom(address,address,uint256)", []string{"bool"}, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		amount := args.Uint256(2)
		if err := t.TransferFrom(msg.From, args.Address(0), args.Address(1), &amount); err != nil {
			return nil, err
		}
		return []any{true}, nil
	})
	d.Register("mint(address,uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		amount := args.Uint256(1)
		return nil, t.Mint(msg.From, args.Address(0), &amount)
	})
	d.Register("setEmissionRatio(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		ratio := args.Uint256(0)
		return nil, t.SetEmissionRatio(msg.From, &ratio)
	})
	d.Register("setMinter(address,bool)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return nil, t.SetMinter(msg.From, args.Address(0), args.Bool(1))
	})
	d.Register("delegate(address)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return nil, t.Delegate(msg.From, args.Address(0))
	})
	d.Register("transferOwnership(address)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return nil, t.TransferOwnership(msg.From, args.Address(0))
	})
}
