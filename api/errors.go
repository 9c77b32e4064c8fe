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

package api

import (
	"errors"
	"net/http"

	"github.com/blinklabs-io/govern/chain"
	"github.com/blinklabs-io/govern/council"
	"github.com/blinklabs-io/govern/database/models"
	"github.com/blinklabs-io/govern/delegation"
	"github.com/blinklabs-io/govern/governor"
	"github.com/blinklabs-io/govern/timelock"
	"github.com/blinklabs-io/govern/token"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidAddress   = errors.New("invalid address")
	ErrInvalidHash      = errors.New("invalid hash")
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidHex       = errors.New("invalid hex data")
	ErrInvalidValue     = errors.New("invalid value")
	ErrSubmitDisabled   = errors.New("transaction submission is disabled")
	ErrInvalidTxRequest = errors.New("invalid transaction request")
)

var authorizationErrors = []error{
	token.ErrUnauthorized,
	delegation.ErrUnauthorized,
	timelock.ErrNotAdmin,
	timelock.ErrNotGovernor,
	timelock.ErrNotSecurityCouncil,
	governor.ErrUnauthorized,
	governor.ErrNotDelegate,
	governor.ErrNotAuthorizedToCancel,
	council.ErrNotMember,
	council.ErrOnlyDAOCanModifyMembers,
}

var notFoundErrors = []error{
	ErrNotFound,
	governor.ErrProposalNotFound,
	council.ErrActionNotFound,
	models.ErrDelegateNotFound,
	models.ErrProposalNotFound,
	models.ErrTimelockEntryNotFound,
	models.ErrCouncilActionNotFound,
	chain.ErrNoContract,
}

var stateErrors = []error{
	delegation.ErrAlreadyRegistered,
	delegation.ErrNotRegistered,
	delegation.ErrDelegateInactive,
	timelock.ErrAlreadyQueued,
	timelock.ErrNotQueued,
	timelock.ErrAlreadyCanceled,
	governor.ErrInvalidProposalState,
	governor.ErrAlreadyVoted,
	governor.ErrPaused,
	council.ErrAlreadyExecuted,
	council.ErrActionCanceled,
	council.ErrAlreadyApproved,
	council.ErrActionNotApproved,
	council.ErrAlreadyMember,
	council.ErrAlreadyPaused,
	council.ErrNotPaused,
	chain.ErrReentrantCall,
}

var timingErrors = []error{
	timelock.ErrNotYetDue,
	delegation.ErrDelegationNotMature,
	governor.ErrDelegationNotMature,
	token.ErrFutureLookup,
	delegation.ErrFutureLookup,
}

var executionErrors = []error{
	timelock.ErrExecutionFailed,
	council.ErrExecutionFailed,
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// statusForError maps a contract failure to an HTTP status by its cause.
// Downstream failures are checked first since they wrap the callee error.
func statusForError(err error) int {
	switch {
	case matchesAny(err, executionErrors):
		return http.StatusBadGateway
	case matchesAny(err, authorizationErrors):
		return http.StatusForbidden
	case matchesAny(err, notFoundErrors):
		return http.StatusNotFound
	case matchesAny(err, stateErrors):
		return http.StatusConflict
	case errors.Is(err, timelock.ErrExpired):
		return http.StatusGone
	case matchesAny(err, timingErrors):
		return http.StatusTooEarly
	default:
		// Bounds and calldata errors are the caller's input
		var revert *chain.RevertError
		if errors.As(err, &revert) {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadRequest
	}
}
