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

import "errors"

var (
	// Authorization
	ErrNotMember               = errors.New("caller is not a council member")
	ErrOnlyDAOCanModifyMembers = errors.New("only the DAO can modify the council")

	// State preconditions
	ErrActionNotFound    = errors.New("emergency action not found")
	ErrAlreadyExecuted   = errors.New("emergency action already executed")
	ErrActionCanceled    = errors.New("emergency action canceled")
	ErrAlreadyApproved   = errors.New("emergency action already approved by member")
	ErrActionNotApproved = errors.New("emergency action lacks approvals")
	ErrAlreadyMember     = errors.New("already a council member")
	ErrAlreadyPaused     = errors.New("already paused")
	ErrNotPaused         = errors.New("not paused")

	// Membership bounds
	ErrBelowMinimumMembers              = errors.New("council below minimum size")
	ErrCannotRemoveLastFoundationMember = errors.New("cannot remove last foundation member")
	ErrNoFoundationMember               = errors.New("council needs a foundation member")
	ErrInvalidThreshold                 = errors.New("threshold out of range")
	ErrInvalidActionType                = errors.New("invalid action type")
	ErrZeroAddress                      = errors.New("zero address")

	ErrExecutionFailed = errors.New("emergency action execution failed")
)
