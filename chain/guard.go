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

// Guard is a re-entry flag scoped to a single contract.
// Transactions are serialized by the Runtime, so no locking is needed.
type Guard struct {
	entered bool
}

// Enter marks the guarded section as entered, failing if it already is
func (g *Guard) Enter() error {
	if g.entered {
		return ErrReentrantCall
	}
	g.entered = true
	return nil
}

func (g *Guard) Exit() {
	g.entered = false
}

// Run executes fn inside the guarded section
func (g *Guard) Run(fn func() error) error {
	if err := g.Enter(); err != nil {
		return err
	}
	defer g.Exit()
	return fn()
}
