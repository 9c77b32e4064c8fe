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

package token_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/govern/chain"
	"github.com/blinklabs-io/govern/token"
)

var (
	tokenAddr = common.HexToAddress("0x7000000000000000000000000000000000000001")
	owner     = common.HexToAddress("0x0000000000000000000000000000000000000a01")
	minter    = common.HexToAddress("0x0000000000000000000000000000000000000a02")
	alice     = common.HexToAddress("0x0000000000000000000000000000000000000a03")
	bob       = common.HexToAddress("0x0000000000000000000000000000000000000a04")
	carol     = common.HexToAddress("0x0000000000000000000000000000000000000a05")
)

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func setupToken(t *testing.T) (*chain.Runtime, *chain.ManualClock, *token.Token) {
	t.Helper()
	clk := chain.NewManualClock(100, 1_700_000_000)
	rt := chain.NewRuntime(chain.RuntimeConfig{Clock: clk})
	tok, err := token.New(rt, token.Config{
		Address: tokenAddr,
		Owner:   owner,
		Name:    "Governance",
		Symbol:  "GOV",
	})
	require.NoError(t, err)
	require.NoError(t, rt.Register(tok))
	require.NoError(t, tok.SetMinter(owner, minter, true))
	return rt, clk, tok
}

func TestMintFullRatio(t *testing.T) {
	_, _, tok := setupToken(t)
	require.NoError(t, tok.Mint(minter, alice, u(1000)))
	assert.Equal(t, u(1000), tok.BalanceOf(alice))
	assert.Equal(t, u(1000), tok.TotalSupply())
}

func TestMintScalesByEmissionRatio(t *testing.T) {
	_, _, tok := setupToken(t)
	half := new(uint256.Int).Div(token.RatioScale, u(2))
	require.NoError(t, tok.SetEmissionRatio(owner, half))
	require.NoError(t, tok.Mint(minter, alice, u(1001)))
	// 1001 * 0.5 truncates to 500
	assert.Equal(t, u(500), tok.BalanceOf(alice))
}

func TestMintZeroAdjustedIsSilentNoop(t *testing.T) {
	_, _, tok := setupToken(t)
	require.NoError(t, tok.SetEmissionRatio(owner, u(1)))
	require.NoError(t, tok.Mint(minter, alice, u(999)))
	assert.True(t, tok.BalanceOf(alice).IsZero())
	assert.True(t, tok.TotalSupply().IsZero())
}

func TestMintAuthorization(t *testing.T) {
	_, _, tok := setupToken(t)
	require.ErrorIs(t, tok.Mint(alice, alice, u(1)), token.ErrUnauthorized)
	require.ErrorIs(t, tok.Mint(minter, common.Address{}, u(1)), token.ErrInvalidRecipient)
	require.NoError(t, tok.SetMinter(owner, minter, false))
	require.ErrorIs(t, tok.Mint(minter, alice, u(1)), token.ErrUnauthorized)
	require.ErrorIs(t, tok.SetMinter(alice, alice, true), token.ErrUnauthorized)
}

func TestEmissionRatioNotRetroactive(t *testing.T) {
	_, _, tok := setupToken(t)
	require.NoError(t, tok.Mint(minter, alice, u(1000)))
	require.ErrorIs(t, tok.SetEmissionRatio(alice, u(0)), token.ErrUnauthorized)
	tooHigh := new(uint256.Int).AddUint64(token.RatioScale, 1)
	require.ErrorIs(t, tok.SetEmissionRatio(owner, tooHigh), token.ErrRatioOutOfRange)
	require.NoError(t, tok.SetEmissionRatio(owner, u(0)))
	require.NoError(t, tok.Mint(minter, bob, u(1000)))
	assert.Equal(t, u(1000), tok.BalanceOf(alice))
	assert.True(t, tok.BalanceOf(bob).IsZero())
}

func TestTransferAndAllowance(t *testing.T) {
	_, _, tok := setupToken(t)
	require.NoError(t, tok.Mint(minter, alice, u(100)))
	require.ErrorIs(t, tok.Transfer(alice, bob, u(101)), token.ErrInsufficientBalance)
	require.NoError(t, tok.Transfer(alice, bob, u(40)))
	require.ErrorIs(t, tok.TransferFrom(carol, alice, carol, u(10)), token.ErrInsufficientAllowance)
	require.NoError(t, tok.Approve(alice, carol, u(30)))
	require.NoError(t, tok.TransferFrom(carol, alice, carol, u(10)))
	assert.Equal(t, u(20), tok.Allowance(alice, carol))
	assert.Equal(t, u(50), tok.BalanceOf(alice))
	assert.Equal(t, u(40), tok.BalanceOf(bob))
	assert.Equal(t, u(10), tok.BalanceOf(carol))
	// Sum of balances equals total supply
	sum := new(uint256.Int)
	for _, acct := range []common.Address{alice, bob, carol} {
		sum.Add(sum, tok.BalanceOf(acct))
	}
	assert.Equal(t, tok.TotalSupply(), sum)
}

func TestDelegateCheckpoints(t *testing.T) {
	_, clk, tok := setupToken(t)
	require.NoError(t, tok.Mint(minter, alice, u(100)))
	require.NoError(t, tok.Delegate(alice, bob))
	assert.Equal(t, u(100), tok.Votes(bob))
	assert.Equal(t, bob, tok.Delegates(alice))
	delegatedAt := clk.BlockNumber()

	clk.Mine(5)
	require.NoError(t, tok.Transfer(alice, carol, u(30)))
	assert.Equal(t, u(70), tok.Votes(bob))
	transferAt := clk.BlockNumber()

	clk.Mine(1)
	_, err := tok.PastVotes(bob, clk.BlockNumber())
	require.ErrorIs(t, err, token.ErrFutureLookup)

	past, err := tok.PastVotes(bob, delegatedAt-1)
	require.NoError(t, err)
	assert.True(t, past.IsZero())
	past, err = tok.PastVotes(bob, delegatedAt)
	require.NoError(t, err)
	assert.Equal(t, u(100), past)
	past, err = tok.PastVotes(bob, transferAt)
	require.NoError(t, err)
	assert.Equal(t, u(70), past)

	supply, err := tok.PastTotalSupply(delegatedAt)
	require.NoError(t, err)
	assert.Equal(t, u(100), supply)

	// Delegating to the zero address withdraws weight
	require.NoError(t, tok.Delegate(alice, common.Address{}))
	assert.True(t, tok.Votes(bob).IsZero())
}

func TestTransferOwnership(t *testing.T) {
	_, _, tok := setupToken(t)
	require.ErrorIs(t, tok.TransferOwnership(owner, common.Address{}), token.ErrZeroAddress)
	require.NoError(t, tok.TransferOwnership(owner, alice))
	assert.Equal(t, alice, tok.Owner())
	require.ErrorIs(t, tok.SetMinter(owner, bob, true), token.ErrUnauthorized)
	require.NoError(t, tok.SetMinter(alice, bob, true))
}

func TestTokenCalldata(t *testing.T) {
	rt, _, tok := setupToken(t)
	ctx := context.Background()
	data, err := chain.EncodeCall("mint(address,uint256)", alice, chain.BigUint64(250))
	require.NoError(t, err)
	_, err = rt.Submit(ctx, chain.Transaction{From: minter, To: tokenAddr, Data: data})
	require.NoError(t, err)

	data, err = chain.EncodeCall("balanceOf(address)", alice)
	require.NoError(t, err)
	receipt, err := rt.Submit(ctx, chain.Transaction{From: bob, To: tokenAddr, Data: data})
	require.NoError(t, err)
	out, err := chain.DecodeResult(receipt.Return, "uint256")
	require.NoError(t, err)
	assert.Equal(t, chain.Big(*u(250)).String(), out[0].(interface{ String() string }).String())

	data, err = chain.EncodeCall("mint(address,uint256)", alice, chain.BigUint64(1))
	require.NoError(t, err)
	_, err = rt.Submit(ctx, chain.Transaction{From: bob, To: tokenAddr, Data: data})
	require.ErrorIs(t, err, token.ErrUnauthorized)
	assert.Equal(t, u(250), tok.TotalSupply())
}
