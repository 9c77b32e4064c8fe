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

package timelock

import (
	"github.com/blinklabs-io/govern/chain"
)

// Call dispatches ABI encoded calldata
func (t *Timelock) Call(msg chain.Msg, data []byte) ([]byte, error) {
	return t.methods.Dispatch(msg, data)
}

func (t *Timelock) registerMethods() {
	d := chain.NewDispatcher(t.config.Address)
	t.methods = d

	d.Register("queueTransaction(address,uint256,bytes)", []string{"bytes32", "uint256"}, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		value := args.Uint256(1)
		hash, eta, err := t.QueueTransaction(msg.From, args.Address(0), &value, args.Bytes(2))
		if err != nil {
			return nil, err
		}
		return []any{[32]byte(hash), chain.BigUint64(eta)}, nil
	})
	d.Register("executeTransaction(address,uint256,bytes,uint256)", []string{"bytes"}, true, func(msg chain.Msg, args chain.Args) ([]any, error) {
		value := args.Uint256(1)
		eta, err := args.Uint64(3)
		if err != nil {
			return nil, ErrNotQueued
		}
		ret, err := t.ExecuteTransaction(msg.From, args.Address(0), &value, args.Bytes(2), eta)
		if err != nil {
			return nil, err
		}
		if ret == nil {
			ret = []byte{}
		}
		return []any{ret}, nil
	})
	d.Register("cancelTransaction(address,uint256,bytes,uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		value := args.Uint256(1)
		eta, err := args.Uint64(3)
		if err != nil {
			return nil, ErrNotQueued
		}
		return nil, t.CancelTransaction(msg.From, args.Address(0), &value, args.Bytes(2), eta)
	})
	d.Register("cancelTransactionByHash(bytes32)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return nil, t.CancelTransactionByHash(msg.From, args.Hash(0))
	})
	d.Register("setAdmin(address)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return nil, t.SetAdmin(msg.From, args.Address(0))
	})
	d.Register("setGovernor(address)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return nil, t.SetGovernor(msg.From, args.Address(0))
	})
	d.Register("setSecurityCouncil(address)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return nil, t.SetSecurityCouncil(msg.From, args.Address(0))
	})
	d.Register("setDelay(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		v, err := args.Uint64(0)
		if err != nil {
			return nil, ErrInvalidDelay
		}
		return nil, t.SetDelay(msg.From, v)
	})

	// Views
	d.Register("admin()", []string{"address"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{t.Admin()}, nil
	})
	d.Register("governor()", []string{"address"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{t.Governor()}, nil
	})
	d.Register("securityCouncil()", []string{"address"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{t.SecurityCouncil()}, nil
	})
	d.Register("delay()", []string{"uint256"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{chain.BigUint64(t.Delay())}, nil
	})
	d.Register("GRACE_PERIOD()", []string{"uint256"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{chain.BigUint64(t.GracePeriod())}, nil
	})
	d.Register("getStatus(bytes32)", []string{"uint8"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		return []any{uint8(t.Status(args.Hash(0)))}, nil
	})
	d.Register("queuedTransactions(bytes32)", []string{"bool"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		e, ok := t.Entry(args.Hash(0))
		return []any{ok && e.Queued}, nil
	})
	d.Register("hashTransaction(address,uint256,bytes,uint256)", []string{"bytes32"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		value := args.Uint256(1)
		eta, err := args.Uint64(3)
		if err != nil {
			return nil, err
		}
		return []any{[32]byte(HashTransaction(args.Address(0), &value, args.Bytes(2), eta))}, nil
	})
}
