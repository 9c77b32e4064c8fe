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
	"github.com/blinklabs-io/govern/chain"
	"github.com/blinklabs-io/govern/council"
	"github.com/blinklabs-io/govern/database/plugin/metadata/sqlite"
	"github.com/blinklabs-io/govern/delegation"
	"github.com/blinklabs-io/govern/governor"
	"github.com/blinklabs-io/govern/timelock"
	"github.com/blinklabs-io/govern/token"
)

// Node is what the API server needs from a running DAO. Live contract
// state is read through the runtime, history comes from the projection
// store.
type Node interface {
	// Runtime serializes reads against in-flight transactions
	Runtime() *chain.Runtime

	Token() *token.Token
	Registry() *delegation.Registry
	Timelock() *timelock.Timelock
	Governor() *governor.Governor
	Council() *council.Council

	// Store returns the event-derived projections
	Store() *sqlite.MetadataStoreSqlite
}
