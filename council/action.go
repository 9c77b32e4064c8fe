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
	"bytes"
	"fmt"
	"math/big"
	"slices"

	"github.com/blinklabs-io/govern/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ActionType values appear in calldata and events and must not be reordered
type ActionType uint8

const (
	ActionCancelProposal ActionType = iota
	ActionEmergencyUpgrade
	ActionPause
	ActionUnpause
	ActionCustom
	ActionCancelTimelockTransaction
)

func (t ActionType) String() string {
	switch t {
	case ActionCancelProposal:
		return "cancel_proposal"
	case ActionEmergencyUpgrade:
		return "emergency_upgrade"
	case ActionPause:
		return "pause"
	case ActionUnpause:
		return "unpause"
	case ActionCustom:
		return "custom"
	case ActionCancelTimelockTransaction:
		return "cancel_timelock_transaction"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Outcome is the stored terminal state of an action
type Outcome uint8

const (
	OutcomePending Outcome = iota
	OutcomeExecuted
	OutcomeCanceled
)

// ActionStatus is derived from the outcome and the approvals of current
// members. Approvals given by members who were later removed do not count.
type ActionStatus uint8

const (
	StatusPending ActionStatus = iota
	StatusApproved
	StatusExecuted
	StatusCanceled
)

func (s ActionStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusExecuted:
		return "executed"
	case StatusCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

type Action struct {
	ID        uint64
	Type      ActionType
	Proposer  common.Address
	Target    common.Address
	Value     uint256.Int
	Data      []byte
	Reason    string
	Approvals []common.Address
	CreatedAt uint64
	Outcome   Outcome
}

func (a Action) clone() Action {
	a.Data = bytes.Clone(a.Data)
	a.Approvals = slices.Clone(a.Approvals)
	return a
}

func (c *Council) requireMember(caller common.Address) error {
	if !c.IsMember(caller) {
		return ErrNotMember
	}
	return nil
}

// ProposeEmergencyAction creates an action approved by its proposer
func (c *Council) ProposeEmergencyAction(
	caller common.Address,
	typ ActionType,
	target common.Address,
	value *uint256.Int,
	data []byte,
	reason string,
) (uint64, error) {
	if err := c.requireMember(caller); err != nil {
		return 0, err
	}
	if typ > ActionCancelTimelockTransaction {
		return 0, ErrInvalidActionType
	}
	if typ != ActionPause && typ != ActionUnpause && target == (common.Address{}) {
		return 0, ErrZeroAddress
	}
	id := c.state.nextID
	c.state.nextID++
	a := Action{
		ID:        id,
		Type:      typ,
		Proposer:  caller,
		Target:    target,
		Data:      bytes.Clone(data),
		Reason:    reason,
		Approvals: []common.Address{caller},
		CreatedAt: c.env.Now(),
	}
	if value != nil {
		a.Value = *value
	}
	c.state.actions[id] = a
	c.state.pending = append(c.state.pending, id)
	c.env.Emit(ActionProposedEventType, ActionProposedEvent{Action: a.clone()})
	c.logger.Info(
		"emergency action proposed",
		"id", id,
		"type", typ.String(),
		"proposer", caller.Hex(),
		"reason", reason,
	)
	return id, nil
}

// PauseProtocol proposes engaging the emergency pause
func (c *Council) PauseProtocol(caller common.Address, reason string) (uint64, error) {
	return c.ProposeEmergencyAction(caller, ActionPause, c.config.Address, nil, nil, reason)
}

func (c *Council) UnpauseProtocol(caller common.Address, reason string) (uint64, error) {
	return c.ProposeEmergencyAction(caller, ActionUnpause, c.config.Address, nil, nil, reason)
}

// EmergencyUpgrade proposes an upgrade call on a protocol contract
func (c *Council) EmergencyUpgrade(caller common.Address, target common.Address, data []byte, reason string) (uint64, error) {
	return c.ProposeEmergencyAction(caller, ActionEmergencyUpgrade, target, nil, data, reason)
}

// CancelProposal proposes canceling a governor proposal. The council must
// be the governor's proposal guardian.
func (c *Council) CancelProposal(caller common.Address, proposalID uint64, reason string) (uint64, error) {
	data, err := chain.EncodeCall("cancel(uint256)", new(big.Int).SetUint64(proposalID))
	if err != nil {
		return 0, err
	}
	return c.ProposeEmergencyAction(caller, ActionCancelProposal, c.config.Governor, nil, data, reason)
}

// CancelTimelockTransaction proposes canceling a queued timelock entry. The
// council must be the timelock's security council.
func (c *Council) CancelTimelockTransaction(caller common.Address, hash common.Hash, reason string) (uint64, error) {
	data, err := chain.EncodeCall("cancelTransactionByHash(bytes32)", [32]byte(hash))
	if err != nil {
		return 0, err
	}
	return c.ProposeEmergencyAction(caller, ActionCancelTimelockTransaction, c.config.Timelock, nil, data, reason)
}

func (c *Council) liveAction(id uint64) (Action, error) {
	a, ok := c.state.actions[id]
	if !ok {
		return Action{}, ErrActionNotFound
	}
	switch a.Outcome {
	case OutcomeExecuted:
		return Action{}, ErrAlreadyExecuted
	case OutcomeCanceled:
		return Action{}, ErrActionCanceled
	}
	return a, nil
}

func (c *Council) ApproveEmergencyAction(caller common.Address, id uint64) error {
	if err := c.requireMember(caller); err != nil {
		return err
	}
	a, err := c.liveAction(id)
	if err != nil {
		return err
	}
	if slices.Contains(a.Approvals, caller) {
		return ErrAlreadyApproved
	}
	a.Approvals = append(a.Approvals, caller)
	c.state.actions[id] = a
	c.env.Emit(ActionApprovedEventType, ActionApprovedEvent{
		ID:        id,
		Approver:  caller,
		Approvals: c.approvalCount(a),
	})
	return nil
}

// ExecuteEmergencyAction performs an action once its approvals from current
// members reach the threshold
func (c *Council) ExecuteEmergencyAction(caller common.Address, id uint64) ([]byte, error) {
	if err := c.requireMember(caller); err != nil {
		return nil, err
	}
	a, err := c.liveAction(id)
	if err != nil {
		return nil, err
	}
	if c.approvalCount(a) < c.state.threshold {
		return nil, ErrActionNotApproved
	}
	var ret []byte
	err = c.guard.Run(func() error {
		return c.env.Frame(func() error {
			a.Outcome = OutcomeExecuted
			c.state.actions[id] = a
			c.removePending(id)
			out, err := c.dispatch(a)
			if err != nil {
				return err
			}
			ret = out
			c.env.Emit(ActionExecutedEventType, ActionExecutedEvent{ID: id, Executor: caller})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("emergency action executed", "id", id, "type", a.Type.String(), "executor", caller.Hex())
	return ret, nil
}

func (c *Council) dispatch(a Action) ([]byte, error) {
	switch a.Type {
	case ActionPause:
		if c.state.paused {
			return nil, ErrAlreadyPaused
		}
		c.state.paused = true
		c.env.Emit(PausedEventType, PauseEvent{ActionID: a.ID})
		return nil, nil
	case ActionUnpause:
		if !c.state.paused {
			return nil, ErrNotPaused
		}
		c.state.paused = false
		c.env.Emit(UnpausedEventType, PauseEvent{ActionID: a.ID})
		return nil, nil
	}
	// Upgrades, custom calls and cancellations are calls on the target
	value := a.Value
	out, err := c.env.Call(c.config.Address, a.Target, &value, a.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}
	return out, nil
}

// CancelEmergencyAction withdraws a pending action
func (c *Council) CancelEmergencyAction(caller common.Address, id uint64) error {
	if err := c.requireMember(caller); err != nil {
		return err
	}
	a, err := c.liveAction(id)
	if err != nil {
		return err
	}
	a.Outcome = OutcomeCanceled
	c.state.actions[id] = a
	c.removePending(id)
	c.env.Emit(ActionCanceledEventType, ActionCanceledEvent{ID: id, Canceler: caller})
	c.logger.Info("emergency action canceled", "id", id, "canceler", caller.Hex())
	return nil
}

// removePending swaps the last pending id into the removed slot
func (c *Council) removePending(id uint64) {
	for i, p := range c.state.pending {
		if p != id {
			continue
		}
		last := len(c.state.pending) - 1
		c.state.pending[i] = c.state.pending[last]
		c.state.pending = c.state.pending[:last]
		return
	}
}

func (c *Council) approvalCount(a Action) int {
	n := 0
	for _, addr := range a.Approvals {
		if c.IsMember(addr) {
			n++
		}
	}
	return n
}

// Action returns a copy of the stored action
func (c *Council) Action(id uint64) (Action, bool) {
	a, ok := c.state.actions[id]
	if !ok {
		return Action{}, false
	}
	return a.clone(), true
}

// Actions returns every action in id order
func (c *Council) Actions() []Action {
	ret := make([]Action, 0, len(c.state.actions))
	for id := uint64(1); id < c.state.nextID; id++ {
		if a, ok := c.state.actions[id]; ok {
			ret = append(ret, a.clone())
		}
	}
	return ret
}

// ApprovalCount returns the approvals of an action given by current members
func (c *Council) ApprovalCount(id uint64) int {
	a, ok := c.state.actions[id]
	if !ok {
		return 0
	}
	return c.approvalCount(a)
}

func (c *Council) HasApproved(id uint64, member common.Address) bool {
	a, ok := c.state.actions[id]
	return ok && slices.Contains(a.Approvals, member)
}

func (c *Council) ActionStatus(id uint64) (ActionStatus, error) {
	a, ok := c.state.actions[id]
	if !ok {
		return 0, ErrActionNotFound
	}
	switch a.Outcome {
	case OutcomeExecuted:
		return StatusExecuted, nil
	case OutcomeCanceled:
		return StatusCanceled, nil
	}
	if c.approvalCount(a) >= c.state.threshold {
		return StatusApproved, nil
	}
	return StatusPending, nil
}

// PendingActions returns the ids of actions that are neither executed nor
// canceled. Order is not preserved across removals.
func (c *Council) PendingActions() []uint64 {
	return slices.Clone(c.state.pending)
}
