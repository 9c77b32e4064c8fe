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

package types

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// Amount stores a 256-bit token amount as a decimal string
//
//nolint:recvcheck
type Amount struct {
	uint256.Int
}

func NewAmount(v *uint256.Int) Amount {
	var a Amount
	if v != nil {
		a.Set(v)
	}
	return a
}

func (a Amount) Value() (driver.Value, error) {
	return a.Dec(), nil
}

func (a *Amount) Scan(val any) error {
	v, err := scanString(val)
	if err != nil {
		return err
	}
	if err := a.SetFromDecimal(v); err != nil {
		return fmt.Errorf("failed to set amount from string %q: %w", v, err)
	}
	return nil
}

func scanString(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf(
			"value was not expected type, wanted string, got %T",
			val,
		)
	}
}

// ErrBlobKeyNotFound is returned by blob operations when a key is missing
var ErrBlobKeyNotFound = errors.New("blob key not found")

// ErrNoStoreAvailable is returned when a blob store is used before it is started
var ErrNoStoreAvailable = errors.New("no store available")

// ErrJournalGap is returned when a journal record does not follow the last
// stored sequence
var ErrJournalGap = errors.New("journal sequence gap")

// ErrJournalNotEmpty is returned when restoring into a journal that holds records
var ErrJournalNotEmpty = errors.New("journal not empty")
