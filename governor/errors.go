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

package governor

import "errors"

var (
	// Authorization
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotDelegate           = errors.New("caller is not an active delegate")
	ErrNotAuthorizedToCancel = errors.New("not authorized to cancel")

	// State preconditions
	ErrProposalNotFound     = errors.New("proposal not found")
	ErrInvalidProposalState = errors.New("invalid proposal state")
	ErrAlreadyVoted         = errors.New("already voted")
	ErrPaused               = errors.New("governance is paused")

	// Quantities and bounds
	ErrInvalidProposal     = errors.New("invalid proposal actions")
	ErrInvalidVoteType     = errors.New("invalid vote type")
	ErrInvalidQuorum       = errors.New("quorum out of range")
	ErrInvalidVotingPeriod = errors.New("voting period must be positive")
	ErrZeroAddress         = errors.New("zero address")

	// Timing
	ErrDelegationNotMature = errors.New("no mature voting power")

	ErrMissingDependency = errors.New("token, registry and timelock are required")
)
