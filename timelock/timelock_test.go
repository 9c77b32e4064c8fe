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

package timelock_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/govern/chain"
	"github.com/blinklabs-io/govern/timelock"
)

var (
	timelockAddr = common.HexToAddress("0x7000000000000000000000000000000000000003")
	targetAddr   = common.HexToAddress("0x7000000000000000000000000000000000000009")
	admin        = common.HexToAddress("0x0000000000000000000000000000000000000a01")
	governor     = common.HexToAddress("0x0000000000000000000000000000000000000a02")
	council      = common.HexToAddress("0x0000000000000000000000000000000000000a03")
	stranger     = common.HexToAddress("0x0000000000000000000000000000000000000a04")
)

var errTargetFailed = errors.New("target failed")

// target records the last value set through it
type target struct {
	value   uint64
	caller  common.Address
	methods *chain.Dispatcher
}

func newTarget() *target {
	t := &target{methods: chain.NewDispatcher(targetAddr)}
	t.methods.Register("set(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		v, err := args.Uint64(0)
		if err != nil {
			return nil, err
		}
		t.value = v
		t.caller = msg.From
		return nil, nil
	})
	t.methods.Register("fail()", nil, false, func(chain.Msg, chain.Args) ([]any, error) {
		return nil, errTargetFailed
	})
	return t
}

func (t *target) Address() common.Address { return targetAddr }

func (t *target) Call(msg chain.Msg, data []byte) ([]byte, error) {
	return t.methods.Dispatch(msg, data)
}

func (t *target) Snapshot() any { return t.value }

func (t *target) Restore(s any) { t.value = s.(uint64) }

func setupTimelock(t *testing.T) (*chain.Runtime, *chain.ManualClock, *timelock.Timelock, *target) {
	t.Helper()
	clk := chain.NewManualClock(10, 1_700_000_000)
	rt := chain.NewRuntime(chain.RuntimeConfig{Clock: clk})
	tl, err := timelock.New(rt, timelock.Config{
		Address:         timelockAddr,
		Admin:           admin,
		Governor:        governor,
		SecurityCouncil: council,
		Delay:           2 * 24 * time.Hour,
	})
	require.NoError(t, err)
	require.NoError(t, rt.Register(tl))
	tgt := newTarget()
	require.NoError(t, rt.Register(tgt))
	return rt, clk, tl, tgt
}

func setCall(t *testing.T, v int64) []byte {
	t.Helper()
	data, err := chain.EncodeCall("set(uint256)", big.NewInt(v))
	require.NoError(t, err)
	return data
}

func TestNewValidatesDelay(t *testing.T) {
	rt := chain.NewRuntime(chain.RuntimeConfig{Clock: chain.NewManualClock(0, 0)})
	_, err := timelock.New(rt, timelock.Config{Address: timelockAddr, Delay: time.Minute})
	require.ErrorIs(t, err, timelock.ErrInvalidDelay)
	_, err = timelock.New(rt, timelock.Config{Address: timelockAddr, Delay: 31 * 24 * time.Hour})
	require.ErrorIs(t, err, timelock.ErrInvalidDelay)
	_, err = timelock.New(rt, timelock.Config{Address: timelockAddr, Delay: timelock.MinimumDelay})
	require.NoError(t, err)
}

func TestQueueTransaction(t *testing.T) {
	_, clk, tl, _ := setupTimelock(t)
	data := setCall(t, 7)
	_, _, err := tl.QueueTransaction(stranger, targetAddr, uint256.NewInt(0), data)
	require.ErrorIs(t, err, timelock.ErrNotGovernor)

	hash, eta, err := tl.QueueTransaction(governor, targetAddr, uint256.NewInt(0), data)
	require.NoError(t, err)
	assert.Equal(t, clk.Now()+tl.Delay(), eta)
	assert.Equal(t, timelock.HashTransaction(targetAddr, uint256.NewInt(0), data, eta), hash)
	assert.Equal(t, timelock.StatusQueued, tl.Status(hash))

	// The same tuple in the same second collides
	_, _, err = tl.QueueTransaction(governor, targetAddr, uint256.NewInt(0), data)
	require.ErrorIs(t, err, timelock.ErrAlreadyQueued)
	clk.Advance(time.Second)
	_, _, err = tl.QueueTransaction(governor, targetAddr, uint256.NewInt(0), data)
	require.NoError(t, err)
}

func TestExecuteGraceWindow(t *testing.T) {
	tests := []struct {
		name   string
		offset int64
		err    error
	}{
		{name: "before eta", offset: -1, err: timelock.ErrNotYetDue},
		{name: "at eta", offset: 0},
		{name: "end of grace", offset: int64(timelock.GracePeriod / time.Second)},
		{name: "after grace", offset: int64(timelock.GracePeriod/time.Second) + 1, err: timelock.ErrExpired},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, clk, tl, tgt := setupTimelock(t)
			data := setCall(t, 42)
			hash, eta, err := tl.QueueTransaction(governor, targetAddr, uint256.NewInt(0), data)
			require.NoError(t, err)
			require.NoError(t, clk.Set(clk.BlockNumber()+1, uint64(int64(eta)+test.offset)))
			_, err = tl.ExecuteTransaction(governor, targetAddr, uint256.NewInt(0), data, eta)
			if test.err != nil {
				require.ErrorIs(t, err, test.err)
				assert.Equal(t, uint64(0), tgt.value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint64(42), tgt.value)
			assert.Equal(t, timelockAddr, tgt.caller)
			assert.Equal(t, timelock.StatusExecuted, tl.Status(hash))
		})
	}
}

func TestExecuteIsSingleUse(t *testing.T) {
	_, clk, tl, _ := setupTimelock(t)
	data := setCall(t, 1)
	_, eta, err := tl.QueueTransaction(governor, targetAddr, uint256.NewInt(0), data)
	require.NoError(t, err)
	clk.Advance(3 * 24 * time.Hour)
	_, err = tl.ExecuteTransaction(stranger, targetAddr, uint256.NewInt(0), data, eta)
	require.ErrorIs(t, err, timelock.ErrNotGovernor)
	_, err = tl.ExecuteTransaction(governor, targetAddr, uint256.NewInt(0), data, eta)
	require.NoError(t, err)
	_, err = tl.ExecuteTransaction(governor, targetAddr, uint256.NewInt(0), data, eta)
	require.ErrorIs(t, err, timelock.ErrNotQueued)
	_, err = tl.ExecuteTransaction(governor, targetAddr, uint256.NewInt(1), data, eta)
	require.ErrorIs(t, err, timelock.ErrNotQueued)
}

func TestExecuteFailureLeavesEntryQueued(t *testing.T) {
	_, clk, tl, _ := setupTimelock(t)
	data, err := chain.EncodeCall("fail()")
	require.NoError(t, err)
	hash, eta, err := tl.QueueTransaction(governor, targetAddr, uint256.NewInt(0), data)
	require.NoError(t, err)
	clk.Advance(3 * 24 * time.Hour)
	_, err = tl.ExecuteTransaction(governor, targetAddr, uint256.NewInt(0), data, eta)
	require.ErrorIs(t, err, timelock.ErrExecutionFailed)
	require.ErrorIs(t, err, errTargetFailed)
	assert.Equal(t, timelock.StatusReady, tl.Status(hash))
	entry, ok := tl.Entry(hash)
	require.True(t, ok)
	assert.True(t, entry.Queued)
	assert.False(t, entry.Executed)
}

func TestCancelTransaction(t *testing.T) {
	_, clk, tl, tgt := setupTimelock(t)
	data := setCall(t, 9)
	hash, eta, err := tl.QueueTransaction(governor, targetAddr, uint256.NewInt(0), data)
	require.NoError(t, err)
	require.ErrorIs(t, tl.CancelTransactionByHash(governor, hash), timelock.ErrNotSecurityCouncil)
	require.ErrorIs(t, tl.CancelTransactionByHash(council, common.Hash{1}), timelock.ErrNotQueued)
	require.NoError(t, tl.CancelTransaction(council, targetAddr, uint256.NewInt(0), data, eta))
	require.ErrorIs(t, tl.CancelTransactionByHash(council, hash), timelock.ErrAlreadyCanceled)
	assert.Equal(t, timelock.StatusCanceled, tl.Status(hash))

	clk.Advance(3 * 24 * time.Hour)
	_, err = tl.ExecuteTransaction(governor, targetAddr, uint256.NewInt(0), data, eta)
	require.ErrorIs(t, err, timelock.ErrAlreadyCanceled)
	assert.Equal(t, uint64(0), tgt.value)
}

func TestCancelExecutedFails(t *testing.T) {
	_, clk, tl, _ := setupTimelock(t)
	data := setCall(t, 3)
	hash, eta, err := tl.QueueTransaction(governor, targetAddr, uint256.NewInt(0), data)
	require.NoError(t, err)
	clk.Advance(2 * 24 * time.Hour)
	_, err = tl.ExecuteTransaction(governor, targetAddr, uint256.NewInt(0), data, eta)
	require.NoError(t, err)
	require.ErrorIs(t, tl.CancelTransactionByHash(council, hash), timelock.ErrNotQueued)
}

func TestStatusTransitions(t *testing.T) {
	_, clk, tl, _ := setupTimelock(t)
	assert.Equal(t, timelock.StatusUnqueued, tl.Status(common.Hash{}))
	hash, _, err := tl.QueueTransaction(governor, targetAddr, uint256.NewInt(0), setCall(t, 5))
	require.NoError(t, err)
	assert.Equal(t, timelock.StatusQueued, tl.Status(hash))
	clk.Advance(2 * 24 * time.Hour)
	assert.Equal(t, timelock.StatusReady, tl.Status(hash))
	clk.Advance(timelock.GracePeriod + time.Second)
	assert.Equal(t, timelock.StatusExpired, tl.Status(hash))
	assert.Equal(t, "expired", tl.Status(hash).String())
}

func TestAdminSetters(t *testing.T) {
	_, _, tl, _ := setupTimelock(t)
	require.ErrorIs(t, tl.SetDelay(stranger, 7200), timelock.ErrNotAdmin)
	require.ErrorIs(t, tl.SetDelay(admin, 60), timelock.ErrInvalidDelay)
	require.NoError(t, tl.SetDelay(admin, 7200))
	assert.Equal(t, uint64(7200), tl.Delay())
	require.ErrorIs(t, tl.SetGovernor(admin, common.Address{}), timelock.ErrZeroAddress)
	require.NoError(t, tl.SetGovernor(admin, stranger))
	assert.Equal(t, stranger, tl.Governor())
	require.NoError(t, tl.SetSecurityCouncil(admin, stranger))
	assert.Equal(t, stranger, tl.SecurityCouncil())
	// Handing admin to the timelock itself makes it governable by proposals
	require.NoError(t, tl.SetAdmin(admin, timelockAddr))
	require.ErrorIs(t, tl.SetDelay(admin, 3600), timelock.ErrNotAdmin)
	require.NoError(t, tl.SetDelay(timelockAddr, 3600))
}

func TestSelfGovernedDelayChange(t *testing.T) {
	rt, clk, tl, _ := setupTimelock(t)
	require.NoError(t, tl.SetAdmin(admin, timelockAddr))
	data, err := chain.EncodeCall("setDelay(uint256)", big.NewInt(3600))
	require.NoError(t, err)
	ctx := context.Background()

	queue, err := chain.EncodeCall("queueTransaction(address,uint256,bytes)", timelockAddr, big.NewInt(0), data)
	require.NoError(t, err)
	receipt, err := rt.Submit(ctx, chain.Transaction{From: governor, To: timelockAddr, Data: queue})
	require.NoError(t, err)
	out, err := chain.DecodeResult(receipt.Return, "bytes32", "uint256")
	require.NoError(t, err)
	eta := out[1].(*big.Int)

	clk.Advance(2 * 24 * time.Hour)
	exec, err := chain.EncodeCall("executeTransaction(address,uint256,bytes,uint256)", timelockAddr, big.NewInt(0), data, eta)
	require.NoError(t, err)
	_, err = rt.Submit(ctx, chain.Transaction{From: governor, To: timelockAddr, Data: exec})
	require.NoError(t, err)
	assert.Equal(t, uint64(3600), tl.Delay())
}
