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

import "errors"

var (
	ErrNotAdmin           = errors.New("caller is not the timelock admin")
	ErrNotGovernor        = errors.New("caller is not the governor")
	ErrNotSecurityCouncil = errors.New("caller is not the security council")

	ErrAlreadyQueued   = errors.New("transaction already queued")
	ErrNotQueued       = errors.New("transaction not queued")
	ErrAlreadyCanceled = errors.New("transaction already canceled")

	ErrInvalidDelay = errors.New("delay out of range")
	ErrZeroAddress  = errors.New("zero address")

	ErrNotYetDue = errors.New("transaction not yet due")
	ErrExpired   = errors.New("transaction expired")

	ErrExecutionFailed = errors.New("transaction execution failed")
)
