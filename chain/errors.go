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

package chain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrReentrantCall    = errors.New("reentrant call")
	ErrClockBackward    = errors.New("clock cannot move backward")
	ErrInvalidSignature = errors.New("invalid method signature")
	ErrInvalidCalldata  = errors.New("invalid calldata")
	ErrUnknownSelector  = errors.New("unknown function selector")
	ErrNonPayable       = errors.New("method does not accept value")
	ErrNoContract       = errors.New("no contract at address")
	ErrDuplicateAddress = errors.New("contract address already registered")
	ErrOverflow         = errors.New("arithmetic overflow")
)

// RevertError carries the failing contract call context along with its cause
type RevertError struct {
	To     common.Address
	Method string
	Err    error
}

func (e *RevertError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("call to %s reverted: %s", e.To.Hex(), e.Err)
	}
	return fmt.Sprintf(
		"call to %s.%s reverted: %s",
		e.To.Hex(),
		e.Method,
		e.Err,
	)
}

func (e *RevertError) Unwrap() error {
	return e.Err
}
