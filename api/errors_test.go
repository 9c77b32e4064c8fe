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
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blinklabs-io/govern/chain"
	"github.com/blinklabs-io/govern/council"
	"github.com/blinklabs-io/govern/delegation"
	"github.com/blinklabs-io/govern/governor"
	"github.com/blinklabs-io/govern/timelock"
	"github.com/blinklabs-io/govern/token"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthorized", token.ErrUnauthorized, http.StatusForbidden},
		{"not member", council.ErrNotMember, http.StatusForbidden},
		{"wrapped unauthorized", fmt.Errorf("call: %w", governor.ErrUnauthorized), http.StatusForbidden},
		{"proposal not found", governor.ErrProposalNotFound, http.StatusNotFound},
		{"no contract", chain.ErrNoContract, http.StatusNotFound},
		{"already voted", governor.ErrAlreadyVoted, http.StatusConflict},
		{"paused", governor.ErrPaused, http.StatusConflict},
		{"expired", timelock.ErrExpired, http.StatusGone},
		{"not yet due", timelock.ErrNotYetDue, http.StatusTooEarly},
		{"not mature", delegation.ErrDelegationNotMature, http.StatusTooEarly},
		// The callee error is wrapped by the execution failure
		{
			"execution failed",
			fmt.Errorf("%w: %w", timelock.ErrExecutionFailed, token.ErrUnauthorized),
			http.StatusBadGateway,
		},
		{"revert", &chain.RevertError{Err: token.ErrInsufficientBalance}, http.StatusUnprocessableEntity},
		{"other", errors.New("boom"), http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, statusForError(tc.err))
		})
	}
}
