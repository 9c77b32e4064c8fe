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

package types_test

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"reflect"
	"testing"

	"github.com/blinklabs-io/govern/database/types"
	"github.com/holiman/uint256"
)

func TestTypesScanValue(t *testing.T) {
	testDefs := []struct {
		origValue     any
		expectedValue any
	}{
		{
			origValue: func(v types.Amount) *types.Amount { return &v }(
				types.NewAmount(uint256.MustFromDecimal("115792089237316195423570985008687907853269984665640564039457584007913129639935")),
			),
			expectedValue: "115792089237316195423570985008687907853269984665640564039457584007913129639935",
		},
		{
			origValue: func(v types.Amount) *types.Amount { return &v }(
				types.NewAmount(nil),
			),
			expectedValue: "0",
		},
	}
	var ok bool
	var tmpScanner sql.Scanner
	var tmpValuer driver.Valuer
	for _, testDef := range testDefs {
		tmpValuer, ok = testDef.origValue.(driver.Valuer)
		if !ok {
			t.Fatalf("test original value does not implement driver.Valuer")
		}
		valueOut, err := tmpValuer.Value()
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !reflect.DeepEqual(valueOut, testDef.expectedValue) {
			t.Fatalf(
				"did not get expected value from Value(): got %#v, expected %#v",
				valueOut,
				testDef.expectedValue,
			)
		}
		tmpScanner, ok = testDef.origValue.(sql.Scanner)
		if !ok {
			t.Fatalf(
				"test original value does not implement sql.Scanner (it must be a pointer)",
			)
		}
		if err := tmpScanner.Scan(valueOut); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !reflect.DeepEqual(tmpScanner, testDef.origValue) {
			t.Fatalf(
				"did not get expected value after Scan(): got %#v, expected %#v",
				tmpScanner,
				testDef.origValue,
			)
		}
	}
}

func TestAmountScanBytes(t *testing.T) {
	var a types.Amount
	if err := a.Scan([]byte("42")); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if a.Uint64() != 42 {
		t.Fatalf("did not get expected value: got %d, expected 42", a.Uint64())
	}
	if err := a.Scan(int64(42)); err == nil {
		t.Fatalf("expected error scanning non-string value")
	}
	if err := a.Scan("not a number"); err == nil {
		t.Fatalf("expected error scanning invalid decimal")
	}
}

func TestJournalKey(t *testing.T) {
	k1 := types.JournalKey(1)
	k2 := types.JournalKey(256)
	if bytes.Compare(k1, k2) >= 0 {
		t.Fatalf("journal keys do not sort in sequence order")
	}
	seq, ok := types.JournalKeySequence(k2)
	if !ok || seq != 256 {
		t.Fatalf("did not get expected sequence: got %d (%v), expected 256", seq, ok)
	}
	if _, ok := types.JournalKeySequence([]byte(types.JournalLastSeqKey)); ok {
		t.Fatalf("metadata key parsed as journal key")
	}
}
