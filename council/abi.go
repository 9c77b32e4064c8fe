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

package council

import (
	"math"
	"math/big"

	"github.com/blinklabs-io/govern/chain"
)

// Call dispatches ABI encoded calldata
func (c *Council) Call(msg chain.Msg, data []byte) ([]byte, error) {
	return c.methods.Dispatch(msg, data)
}

func actionID(args chain.Args, i int) (uint64, error) {
	id, err := args.Uint64(i)
	if err != nil {
		return 0, ErrActionNotFound
	}
	return id, nil
}

func proposed(id uint64, err error) ([]any, error) {
	if err != nil {
		return nil, err
	}
	return []any{chain.BigUint64(id)}, nil
}

func (c *Council) registerMethods() {
	d := chain.NewDispatcher(c.config.Address)
	c.methods = d

	d.Register("proposeEmergencyAction(uint8,address,uint256,bytes,string)", []string{"uint256"}, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		value := args.Uint256(2)
		return proposed(c.ProposeEmergencyAction(msg.From, ActionType(args.Uint8(0)), args.Address(1), &value, args.Bytes(3), args.String(4)))
	})
	d.Register("pauseProtocol(string)", []string{"uint256"}, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return proposed(c.PauseProtocol(msg.From, args.String(0)))
	})
	d.Register("unpauseProtocol(string)", []string{"uint256"}, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return proposed(c.UnpauseProtocol(msg.From, args.String(0)))
	})
	d.Register("emergencyUpgrade(address,bytes,string)", []string{"uint256"}, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return proposed(c.EmergencyUpgrade(msg.From, args.Address(0), args.Bytes(1), args.String(2)))
	})
	d.Register("cancelProposal(uint256,string)", []string{"uint256"}, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		id, err := args.Uint64(0)
		if err != nil {
			return nil, err
		}
		return proposed(c.CancelProposal(msg.From, id, args.String(1)))
	})
	d.Register("cancelTimelockTransaction(bytes32,string)", []string{"uint256"}, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return proposed(c.CancelTimelockTransaction(msg.From, args.Hash(0), args.String(1)))
	})
	d.Register("approveEmergencyAction(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		id, err := actionID(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, c.ApproveEmergencyAction(msg.From, id)
	})
	d.Register("executeEmergencyAction(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		id, err := actionID(args, 0)
		if err != nil {
			return nil, err
		}
		_, err = c.ExecuteEmergencyAction(msg.From, id)
		return nil, err
	})
	d.Register("cancelEmergencyAction(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		id, err := actionID(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, c.CancelEmergencyAction(msg.From, id)
	})
	d.Register("addMember(address,bool)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return nil, c.AddMember(msg.From, args.Address(0), args.Bool(1))
	})
	d.Register("removeMember(address)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return nil, c.RemoveMember(msg.From, args.Address(0))
	})
	d.Register("setThreshold(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		v, err := args.Uint64(0)
		if err != nil || v > math.MaxInt32 {
			return nil, ErrInvalidThreshold
		}
		return nil, c.SetThreshold(msg.From, int(v))
	})
	d.Register("setDAO(address)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return nil, c.SetDAO(msg.From, args.Address(0))
	})

	// Views
	d.Register("isMember(address)", []string{"bool"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		return []any{c.IsMember(args.Address(0))}, nil
	})
	d.Register("isFoundationMember(address)", []string{"bool"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		return []any{c.IsFoundationMember(args.Address(0))}, nil
	})
	d.Register("threshold()", []string{"uint256"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{big.NewInt(int64(c.Threshold()))}, nil
	})
	d.Register("memberCount()", []string{"uint256"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{big.NewInt(int64(len(c.state.members)))}, nil
	})
	d.Register("paused()", []string{"bool"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{c.Paused()}, nil
	})
	d.Register("dao()", []string{"address"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{c.DAO()}, nil
	})
	d.Register("getPendingActions()", []string{"uint256[]"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		pending := c.PendingActions()
		ret := make([]*big.Int, len(pending))
		for i, id := range pending {
			ret[i] = chain.BigUint64(id)
		}
		return []any{ret}, nil
	})
	d.Register("actionStatus(uint256)", []string{"uint8"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		id, err := actionID(args, 0)
		if err != nil {
			return nil, err
		}
		st, err := c.ActionStatus(id)
		if err != nil {
			return nil, err
		}
		return []any{uint8(st)}, nil
	})
	d.Register("approvalCount(uint256)", []string{"uint256"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		id, err := actionID(args, 0)
		if err != nil {
			return nil, err
		}
		return []any{big.NewInt(int64(c.ApprovalCount(id)))}, nil
	})
	d.Register("hasApproved(uint256,address)", []string{"bool"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		id, err := actionID(args, 0)
		if err != nil {
			return nil, err
		}
		return []any{c.HasApproved(id, args.Address(1))}, nil
	})
}
