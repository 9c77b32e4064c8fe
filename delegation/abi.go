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

package delegation

import (
	"github.com/blinklabs-io/govern/chain"
)

// Call dispatches ABI encoded calldata
func (r *Registry) Call(msg chain.Msg, data []byte) ([]byte, error) {
	return r.methods.Dispatch(msg, data)
}

func (r *Registry) registerMethods() {
	d := chain.NewDispatcher(r.config.Address)
	r.methods = d

	d.Register("registerDelegate(string,string,string)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return nil, r.RegisterDelegate(msg.From, args.String(0), args.String(1), args.String(2))
	})
	d.Register("updateDelegate(string,string,string)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return nil, r.UpdateDelegate(msg.From, args.String(0), args.String(1), args.String(2))
	})
	d.Register("deactivateDelegate()", nil, false, func(msg chain.Msg, _ chain.Args) ([]any, error) {
		return nil, r.DeactivateDelegate(msg.From)
	})
	d.Register("delegate(address,uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		amount := args.Uint256(1)
		return nil, r.Delegate(msg.From, args.Address(0), &amount)
	})
	d.Register("undelegate(address,uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		amount := args.Uint256(1)
		return nil, r.Undelegate(msg.From, args.Address(0), &amount)
	})
	d.Register("redelegate(address,address,uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		amount := args.Uint256(2)
		return nil, r.Redelegate(msg.From, args.Address(0), args.Address(1), &amount)
	})
	d.Register("setDelegationCap(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		v, err := args.Uint64(0)
		if err != nil {
			return nil, ErrInvalidCap
		}
		return nil, r.SetDelegationCap(msg.From, v)
	})
	d.Register("setDelegationPeriodRequirement(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		v, err := args.Uint64(0)
		if err != nil {
			return nil, err
		}
		return nil, r.SetDelegationPeriodRequirement(msg.From, v)
	})
	d.Register("setAutoExpiryPeriod(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		v, err := args.Uint64(0)
		if err != nil {
			return nil, err
		}
		return nil, r.SetAutoExpiryPeriod(msg.From, v)
	})
	d.Register("transferOwnership(address)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return nil, r.TransferOwnership(msg.From, args.Address(0))
	})

	// Views. The block arguments of getVotingPower are accepted for
	// interface compatibility; power is always evaluated live.
	d.Register("getVotingPower(address,uint256,uint256)", []string{"uint256"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		return []any{r.VotingPower(args.Address(0)).ToBig()}, nil
	})
	d.Register("isActiveDelegate(address)", []string{"bool"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		return []any{r.IsActiveDelegate(args.Address(0))}, nil
	})
	d.Register("getDelegation(address,address)", []string{"uint256", "uint256", "uint256"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		rec, _ := r.Delegation(args.Address(0), args.Address(1))
		return []any{
			rec.Amount.ToBig(),
			chain.BigUint64(rec.DelegatedAt),
			chain.BigUint64(rec.ExpiresAt),
		}, nil
	})
	d.Register("totalDelegatedTo(address)", []string{"uint256"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		return []any{r.TotalDelegatedTo(args.Address(0)).ToBig()}, nil
	})
	d.Register("totalDelegatedBy(address)", []string{"uint256"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		return []any{r.TotalDelegatedBy(args.Address(0)).ToBig()}, nil
	})
	d.Register("totalDelegated()", []string{"uint256"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{r.TotalDelegated().ToBig()}, nil
	})
	d.Register("delegationCap()", []string{"uint256"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{chain.BigUint64(r.DelegationCap())}, nil
	})
	d.Register("delegationPeriodRequirement()", []string{"uint256"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{chain.BigUint64(r.DelegationPeriod())}, nil
	})
	d.Register("owner()", []string{"address"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{r.Owner()}, nil
	})
}
