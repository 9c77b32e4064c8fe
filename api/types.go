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

// Amounts are rendered as decimal strings and byte payloads as 0x-prefixed
// hex.

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	IsHealthy     bool   `json:"is_healthy"`
	Block         uint64 `json:"block"`
	Timestamp     uint64 `json:"timestamp"`
	LastSequence  uint64 `json:"last_sequence"`
	EventSequence uint64 `json:"event_sequence"`
}

type TokenResponse struct {
	Address       string `json:"address"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Owner         string `json:"owner"`
	TotalSupply   string `json:"total_supply"`
	EmissionRatio string `json:"emission_ratio"`
}

type BalanceResponse struct {
	Address   string `json:"address"`
	Balance   string `json:"balance"`
	Votes     string `json:"votes"`
	Delegatee string `json:"delegatee"`
}

type DelegateResponse struct {
	Address        string `json:"address"`
	Profile        string `json:"profile"`
	Philosophy     string `json:"philosophy"`
	Interests      string `json:"interests"`
	RegisteredAt   uint64 `json:"registered_at"`
	Active         bool   `json:"active"`
	TotalDelegated string `json:"total_delegated"`
}

type VotingPowerResponse struct {
	Address        string `json:"address"`
	VotingPower    string `json:"voting_power"`
	TotalDelegated string `json:"total_delegated"`
	Block          uint64 `json:"block"`
	Timestamp      uint64 `json:"timestamp"`
}

type DelegationResponse struct {
	Owner       string `json:"owner"`
	Delegate    string `json:"delegate"`
	Amount      string `json:"amount"`
	DelegatedAt uint64 `json:"delegated_at"`
	ExpiresAt   uint64 `json:"expires_at"`
}

type ActionResponse struct {
	Target string `json:"target"`
	Value  string `json:"value"`
	Data   string `json:"data"`
}

type ProposalResponse struct {
	ID            uint64           `json:"id"`
	Proposer      string           `json:"proposer"`
	Description   string           `json:"description"`
	Actions       []ActionResponse `json:"actions"`
	CreatedAt     uint64           `json:"created_at"`
	VoteStart     uint64           `json:"vote_start"`
	VoteEnd       uint64           `json:"vote_end"`
	Eta           uint64           `json:"eta"`
	ForVotes      string           `json:"for_votes"`
	AgainstVotes  string           `json:"against_votes"`
	AbstainVotes  string           `json:"abstain_votes"`
	State         string           `json:"state"`
	QuorumReached bool             `json:"quorum_reached"`
	VoteSucceeded bool             `json:"vote_succeeded"`
}

type VoteResponse struct {
	Voter     string `json:"voter"`
	Support   uint8  `json:"support"`
	Weight    string `json:"weight"`
	Reason    string `json:"reason"`
	Block     uint64 `json:"block"`
	Timestamp uint64 `json:"timestamp"`
}

type TimelockEntryResponse struct {
	Hash     string `json:"hash"`
	Target   string `json:"target"`
	Value    string `json:"value"`
	Data     string `json:"data"`
	Eta      uint64 `json:"eta"`
	QueuedAt uint64 `json:"queued_at"`
	Status   string `json:"status"`
}

type CouncilMemberResponse struct {
	Address    string `json:"address"`
	Foundation bool   `json:"foundation"`
}

type CouncilResponse struct {
	Address        string                  `json:"address"`
	DAO            string                  `json:"dao"`
	Threshold      int                     `json:"threshold"`
	Paused         bool                    `json:"paused"`
	Members        []CouncilMemberResponse `json:"members"`
	PendingActions []uint64                `json:"pending_actions"`
}

type CouncilActionResponse struct {
	ID        uint64   `json:"id"`
	Type      string   `json:"type"`
	Proposer  string   `json:"proposer"`
	Target    string   `json:"target"`
	Value     string   `json:"value"`
	Data      string   `json:"data"`
	Reason    string   `json:"reason"`
	Approvals []string `json:"approvals"`
	// ApprovalCount only counts current members
	ApprovalCount int    `json:"approval_count"`
	CreatedAt     uint64 `json:"created_at"`
	Status        string `json:"status"`
}

type EventResponse struct {
	Sequence  uint64 `json:"sequence"`
	Type      string `json:"type"`
	Block     uint64 `json:"block"`
	Timestamp uint64 `json:"timestamp"`
	Data      any    `json:"data"`
}

// TxRequest is the body of POST /api/v0/tx
type TxRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
	Data  string `json:"data"`
}

type TxResponse struct {
	Sequence  uint64 `json:"sequence"`
	Status    uint8  `json:"status"`
	Block     uint64 `json:"block"`
	Timestamp uint64 `json:"timestamp"`
	Return    string `json:"return"`
	Events    int    `json:"events"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}
