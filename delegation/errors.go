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

package delegation

import "errors"

var (
	// Authorization
	ErrUnauthorized = errors.New("unauthorized")

	// State preconditions
	ErrAlreadyRegistered = errors.New("delegate already registered")
	ErrNotRegistered     = errors.New("delegate not registered")
	ErrDelegateInactive  = errors.New("delegate not active")

	// Quantities and bounds
	ErrZeroAmount               = errors.New("zero amount")
	ErrZeroAddress              = errors.New("zero address")
	ErrEmptyProfile             = errors.New("empty profile")
	ErrInvalidCap               = errors.New("invalid delegation cap")
	ErrCapExceeded              = errors.New("delegation cap exceeded")
	ErrInsufficientDelegation   = errors.New("insufficient delegation")
	ErrSelfDelegationNotAllowed = errors.New("self delegation not allowed")

	// Timing
	ErrDelegationNotMature = errors.New("delegation not mature")
	ErrFutureLookup        = errors.New("lookup block not yet mined")

	ErrNoToken = errors.New("no token configured")
)
