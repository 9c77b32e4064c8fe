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

package badger

import (
	"github.com/blinklabs-io/govern/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor/v2"
)

// journalRecord is the stored form of chain.JournalRecord
type journalRecord struct {
	_         struct{} `cbor:",toarray"`
	Sequence  uint64
	Block     uint64
	Timestamp uint64
	From      []byte
	To        []byte
	Value     []byte
	Data      []byte
}

var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

func encodeRecord(rec chain.JournalRecord) ([]byte, error) {
	tmp := journalRecord{
		Sequence:  rec.Sequence,
		Block:     rec.Block,
		Timestamp: rec.Timestamp,
		From:      rec.Tx.From.Bytes(),
		To:        rec.Tx.To.Bytes(),
		Value:     rec.Tx.Value.Bytes(),
		Data:      rec.Tx.Data,
	}
	return encMode.Marshal(tmp)
}

func decodeRecord(data []byte) (chain.JournalRecord, error) {
	var tmp journalRecord
	if err := cbor.Unmarshal(data, &tmp); err != nil {
		return chain.JournalRecord{}, err
	}
	rec := chain.JournalRecord{
		Sequence:  tmp.Sequence,
		Block:     tmp.Block,
		Timestamp: tmp.Timestamp,
		Tx: chain.Transaction{
			From: common.BytesToAddress(tmp.From),
			To:   common.BytesToAddress(tmp.To),
			Data: tmp.Data,
		},
	}
	rec.Tx.Value.SetBytes(tmp.Value)
	return rec, nil
}
