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
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/blinklabs-io/govern/chain"
	"github.com/blinklabs-io/govern/council"
	"github.com/blinklabs-io/govern/database/models"
	"github.com/blinklabs-io/govern/delegation"
	"github.com/blinklabs-io/govern/governor"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

func writeError(
	w http.ResponseWriter,
	status int,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}

// writeFailure reports err with the status of its cause. Anything that is
// not a known contract or lookup failure is an internal error.
func (s *Server) writeFailure(w http.ResponseWriter, err error, msg string) {
	if matchesAny(err, notFoundErrors) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, msg)
}

func parseAddress(value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, ErrInvalidAddress
	}
	return common.HexToAddress(value), nil
}

func parseHash(value string) (common.Hash, error) {
	b, err := hexutil.Decode(value)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, ErrInvalidHash
	}
	return common.BytesToHash(b), nil
}

func parseID(value string) (uint64, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}

// parseValue accepts a decimal or 0x-prefixed hex amount. Empty is zero.
func parseValue(value string) (*uint256.Int, error) {
	ret := new(uint256.Int)
	if value == "" {
		return ret, nil
	}
	var err error
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		err = ret.SetFromHex(value)
	} else {
		err = ret.SetFromDecimal(value)
	}
	if err != nil {
		return nil, ErrInvalidValue
	}
	return ret, nil
}

func hexBytes(b []byte) string {
	return hexutil.Encode(b)
}

// view runs fn against live contract state
func (s *Server) view(fn func() error) error {
	return s.node.Runtime().View(fn)
}

func (s *Server) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	rt := s.node.Runtime()
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy:     true,
		Block:         rt.BlockNumber(),
		Timestamp:     rt.Now(),
		LastSequence:  rt.Sequence(),
		EventSequence: rt.EventSequence(),
	})
}

func (s *Server) handleToken(
	w http.ResponseWriter,
	_ *http.Request,
) {
	var resp TokenResponse
	//nolint:errcheck
	s.view(func() error {
		tok := s.node.Token()
		resp = TokenResponse{
			Address:       tok.Address().Hex(),
			Name:          tok.Name(),
			Symbol:        tok.Symbol(),
			Owner:         tok.Owner().Hex(),
			TotalSupply:   tok.TotalSupply().Dec(),
			EmissionRatio: tok.EmissionRatio().Dec(),
		}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBalance(
	w http.ResponseWriter,
	r *http.Request,
) {
	addr, err := parseAddress(r.PathValue("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var resp BalanceResponse
	//nolint:errcheck
	s.view(func() error {
		tok := s.node.Token()
		resp = BalanceResponse{
			Address:   addr.Hex(),
			Balance:   tok.BalanceOf(addr).Dec(),
			Votes:     tok.Votes(addr).Dec(),
			Delegatee: tok.Delegates(addr).Hex(),
		}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) delegateResponse(d delegation.Delegate) DelegateResponse {
	return DelegateResponse{
		Address:        d.Address.Hex(),
		Profile:        d.Profile,
		Philosophy:     d.Philosophy,
		Interests:      d.Interests,
		RegisteredAt:   d.RegisteredAt,
		Active:         d.Active,
		TotalDelegated: s.node.Registry().TotalDelegatedTo(d.Address).Dec(),
	}
}

// handleDelegates lists registered delegates in registration order. With
// active=true inactive delegates are left out.
func (s *Server) handleDelegates(
	w http.ResponseWriter,
	r *http.Request,
) {
	params, err := ParsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	activeOnly := r.URL.Query().Get("active") == "true"
	var resp []DelegateResponse
	//nolint:errcheck
	s.view(func() error {
		delegates := s.node.Registry().ListDelegates(activeOnly)
		SetPaginationHeaders(w, len(delegates), params)
		page := paginate(delegates, params)
		resp = make([]DelegateResponse, 0, len(page))
		for _, d := range page {
			resp = append(resp, s.delegateResponse(d))
		}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelegate(
	w http.ResponseWriter,
	r *http.Request,
) {
	addr, err := parseAddress(r.PathValue("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var resp DelegateResponse
	err = s.view(func() error {
		d, ok := s.node.Registry().DelegateInfo(addr)
		if !ok {
			return delegation.ErrNotRegistered
		}
		resp = s.delegateResponse(d)
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVotingPower(
	w http.ResponseWriter,
	r *http.Request,
) {
	addr, err := parseAddress(r.PathValue("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rt := s.node.Runtime()
	var resp VotingPowerResponse
	//nolint:errcheck
	s.view(func() error {
		reg := s.node.Registry()
		resp = VotingPowerResponse{
			Address:        addr.Hex(),
			VotingPower:    reg.VotingPower(addr).Dec(),
			TotalDelegated: reg.TotalDelegatedTo(addr).Dec(),
			Block:          rt.BlockNumber(),
			Timestamp:      rt.Now(),
		}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func delegationResponse(d delegation.Delegation) DelegationResponse {
	return DelegationResponse{
		Owner:       d.Owner.Hex(),
		Delegate:    d.Delegate.Hex(),
		Amount:      d.Amount.Dec(),
		DelegatedAt: d.DelegatedAt,
		ExpiresAt:   d.ExpiresAt,
	}
}

func (s *Server) handleDelegationsTo(
	w http.ResponseWriter,
	r *http.Request,
) {
	addr, err := parseAddress(r.PathValue("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	params, err := ParsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var resp []DelegationResponse
	//nolint:errcheck
	s.view(func() error {
		records := s.node.Registry().DelegationsTo(addr)
		SetPaginationHeaders(w, len(records), params)
		page := paginate(records, params)
		resp = make([]DelegationResponse, 0, len(page))
		for _, d := range page {
			resp = append(resp, delegationResponse(d))
		}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelegation(
	w http.ResponseWriter,
	r *http.Request,
) {
	owner, err := parseAddress(r.PathValue("owner"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	delegate, err := parseAddress(r.PathValue("delegate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var resp DelegationResponse
	err = s.view(func() error {
		d, ok := s.node.Registry().Delegation(owner, delegate)
		if !ok {
			return ErrNotFound
		}
		resp = delegationResponse(d)
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "delegation not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// proposalResponse must be called from within a view
func (s *Server) proposalResponse(p governor.Proposal) (ProposalResponse, error) {
	gov := s.node.Governor()
	state, err := gov.State(p.ID)
	if err != nil {
		return ProposalResponse{}, err
	}
	quorum, err := gov.QuorumReached(p.ID)
	if err != nil {
		return ProposalResponse{}, err
	}
	succeeded, err := gov.VoteSucceeded(p.ID)
	if err != nil {
		return ProposalResponse{}, err
	}
	actions := make([]ActionResponse, 0, len(p.Actions))
	for _, a := range p.Actions {
		actions = append(actions, ActionResponse{
			Target: a.Target.Hex(),
			Value:  a.Value.Dec(),
			Data:   hexBytes(a.Data),
		})
	}
	return ProposalResponse{
		ID:            p.ID,
		Proposer:      p.Proposer.Hex(),
		Description:   p.Description,
		Actions:       actions,
		CreatedAt:     p.CreatedAt,
		VoteStart:     p.VoteStart,
		VoteEnd:       p.VoteEnd,
		Eta:           p.Eta,
		ForVotes:      p.ForVotes.Dec(),
		AgainstVotes:  p.AgainstVotes.Dec(),
		AbstainVotes:  p.AbstainVotes.Dec(),
		State:         state.String(),
		QuorumReached: quorum,
		VoteSucceeded: succeeded,
	}, nil
}

// handleProposals lists proposals with their live state, optionally
// filtered by ?state=
func (s *Server) handleProposals(
	w http.ResponseWriter,
	r *http.Request,
) {
	params, err := ParsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter := r.URL.Query().Get("state")
	var resp []ProposalResponse
	err = s.view(func() error {
		gov := s.node.Governor()
		all := make([]ProposalResponse, 0, gov.ProposalCount())
		for id := uint64(1); id <= gov.ProposalCount(); id++ {
			p, ok := gov.Proposal(id)
			if !ok {
				continue
			}
			item, err := s.proposalResponse(p)
			if err != nil {
				return err
			}
			if filter != "" && item.State != filter {
				continue
			}
			all = append(all, item)
		}
		SetPaginationHeaders(w, len(all), params)
		resp = paginate(all, params)
		return nil
	})
	if err != nil {
		s.writeFailure(w, err, "failed to list proposals")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var resp ProposalResponse
	err = s.view(func() error {
		p, ok := s.node.Governor().Proposal(id)
		if !ok {
			return governor.ErrProposalNotFound
		}
		resp, err = s.proposalResponse(p)
		return err
	})
	if err != nil {
		s.writeFailure(w, err, "failed to get proposal")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleProposalVotes serves votes from the projection store, which also
// records the block and time each vote was cast at
func (s *Server) handleProposalVotes(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	params, err := ParsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	store := s.node.Store()
	if _, err := store.GetProposal(id, nil); err != nil {
		s.writeFailure(w, err, "failed to get proposal")
		return
	}
	votes, err := store.GetVotes(id, 0, -1, nil)
	if err != nil {
		s.writeFailure(w, err, "failed to get votes")
		return
	}
	SetPaginationHeaders(w, len(votes), params)
	page := paginate(votes, params)
	resp := make([]VoteResponse, 0, len(page))
	for _, v := range page {
		resp = append(resp, VoteResponse{
			Voter:     common.BytesToAddress(v.Voter).Hex(),
			Support:   v.Support,
			Weight:    v.Weight.Dec(),
			Reason:    v.Reason,
			Block:     v.AddedBlock,
			Timestamp: v.Timestamp,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func timelockEntryResponse(e models.TimelockEntry) TimelockEntryResponse {
	return TimelockEntryResponse{
		Hash:     common.BytesToHash(e.Hash).Hex(),
		Target:   common.BytesToAddress(e.Target).Hex(),
		Value:    e.Value.Dec(),
		Data:     hexBytes(e.Data),
		Eta:      e.Eta,
		QueuedAt: e.QueuedAt,
		Status:   e.Status,
	}
}

// handleTimelockEntries lists projected entries, optionally filtered by
// their last recorded ?status=
func (s *Server) handleTimelockEntries(
	w http.ResponseWriter,
	r *http.Request,
) {
	params, err := ParsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := s.node.Store().GetTimelockEntries(r.URL.Query().Get("status"), 0, -1, nil)
	if err != nil {
		s.writeFailure(w, err, "failed to list timelock entries")
		return
	}
	SetPaginationHeaders(w, len(entries), params)
	page := paginate(entries, params)
	resp := make([]TimelockEntryResponse, 0, len(page))
	for _, e := range page {
		resp = append(resp, timelockEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTimelockEntry reports the live status of an entry, which moves to
// ready and expired with time alone
func (s *Server) handleTimelockEntry(
	w http.ResponseWriter,
	r *http.Request,
) {
	hash, err := parseHash(r.PathValue("hash"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var resp TimelockEntryResponse
	err = s.view(func() error {
		tl := s.node.Timelock()
		e, ok := tl.Entry(hash)
		if !ok {
			return ErrNotFound
		}
		resp = TimelockEntryResponse{
			Hash:     e.Hash.Hex(),
			Target:   e.Target.Hex(),
			Value:    e.Value.Dec(),
			Data:     hexBytes(e.Data),
			Eta:      e.Eta,
			QueuedAt: e.QueuedAt,
			Status:   tl.Status(hash).String(),
		}
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "timelock entry not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCouncil(
	w http.ResponseWriter,
	_ *http.Request,
) {
	var resp CouncilResponse
	//nolint:errcheck
	s.view(func() error {
		c := s.node.Council()
		members := c.Members()
		resp = CouncilResponse{
			Address:        c.Address().Hex(),
			DAO:            c.DAO().Hex(),
			Threshold:      c.Threshold(),
			Paused:         c.Paused(),
			Members:        make([]CouncilMemberResponse, 0, len(members)),
			PendingActions: c.PendingActions(),
		}
		for _, m := range members {
			resp.Members = append(resp.Members, CouncilMemberResponse{
				Address:    m.Address.Hex(),
				Foundation: m.Foundation,
			})
		}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

// councilActionResponse must be called from within a view
func (s *Server) councilActionResponse(a council.Action) (CouncilActionResponse, error) {
	c := s.node.Council()
	status, err := c.ActionStatus(a.ID)
	if err != nil {
		return CouncilActionResponse{}, err
	}
	approvals := make([]string, 0, len(a.Approvals))
	for _, addr := range a.Approvals {
		approvals = append(approvals, addr.Hex())
	}
	return CouncilActionResponse{
		ID:            a.ID,
		Type:          a.Type.String(),
		Proposer:      a.Proposer.Hex(),
		Target:        a.Target.Hex(),
		Value:         a.Value.Dec(),
		Data:          hexBytes(a.Data),
		Reason:        a.Reason,
		Approvals:     approvals,
		ApprovalCount: c.ApprovalCount(a.ID),
		CreatedAt:     a.CreatedAt,
		Status:        status.String(),
	}, nil
}

// handleCouncilActions lists emergency actions, optionally filtered by
// ?status=
func (s *Server) handleCouncilActions(
	w http.ResponseWriter,
	r *http.Request,
) {
	params, err := ParsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter := r.URL.Query().Get("status")
	var resp []CouncilActionResponse
	err = s.view(func() error {
		actions := s.node.Council().Actions()
		all := make([]CouncilActionResponse, 0, len(actions))
		for _, a := range actions {
			item, err := s.councilActionResponse(a)
			if err != nil {
				return err
			}
			if filter != "" && item.Status != filter {
				continue
			}
			all = append(all, item)
		}
		SetPaginationHeaders(w, len(all), params)
		resp = paginate(all, params)
		return nil
	})
	if err != nil {
		s.writeFailure(w, err, "failed to list council actions")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCouncilAction(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var resp CouncilActionResponse
	err = s.view(func() error {
		a, ok := s.node.Council().Action(id)
		if !ok {
			return council.ErrActionNotFound
		}
		resp, err = s.councilActionResponse(a)
		return err
	})
	if err != nil {
		s.writeFailure(w, err, "failed to get council action")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEvents pages through the event log by sequence. ?after= is the
// last sequence already seen and ?type= filters by exact type, or by
// package with a trailing dot.
func (s *Server) handleEvents(
	w http.ResponseWriter,
	r *http.Request,
) {
	params, err := ParsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var after uint64
	if v := r.URL.Query().Get("after"); v != "" {
		after, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrInvalidID.Error())
			return
		}
	}
	store := s.node.Store()
	records, err := store.GetEvents(r.URL.Query().Get("type"), after, params.Count, nil)
	if err != nil {
		s.writeFailure(w, err, "failed to get events")
		return
	}
	last, err := store.LastEventSequence(nil)
	if err != nil {
		s.writeFailure(w, err, "failed to get events")
		return
	}
	w.Header().Set("X-Last-Sequence", strconv.FormatUint(last, 10))
	resp := make([]EventResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, EventResponse{
			Sequence:  rec.Sequence,
			Type:      rec.Type,
			Block:     rec.Block,
			Timestamp: rec.Timestamp,
			Data:      json.RawMessage(rec.Data),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

const maxTxBodySize = 1 << 20

func (s *Server) handleSubmitTx(
	w http.ResponseWriter,
	r *http.Request,
) {
	if !s.config.SubmitEnabled {
		writeError(w, http.StatusForbidden, ErrSubmitDisabled.Error())
		return
	}
	var req TxRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidTxRequest.Error())
		return
	}
	tx, err := req.transaction()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	receipt, err := s.node.Runtime().Submit(r.Context(), tx)
	if err != nil {
		status := statusForError(err)
		s.logger.Debug(
			"transaction rejected",
			"from", tx.From.Hex(),
			"to", tx.To.Hex(),
			"status", status,
			"error", err,
		)
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, TxResponse{
		Sequence:  receipt.Sequence,
		Status:    receipt.Status,
		Block:     receipt.Block,
		Timestamp: receipt.Timestamp,
		Return:    hexBytes(receipt.Return),
		Events:    receipt.Events,
	})
}

func (req TxRequest) transaction() (chain.Transaction, error) {
	from, err := parseAddress(req.From)
	if err != nil {
		return chain.Transaction{}, errors.Join(ErrInvalidTxRequest, err)
	}
	to, err := parseAddress(req.To)
	if err != nil {
		return chain.Transaction{}, errors.Join(ErrInvalidTxRequest, err)
	}
	value, err := parseValue(req.Value)
	if err != nil {
		return chain.Transaction{}, errors.Join(ErrInvalidTxRequest, err)
	}
	data, err := hexutil.Decode(req.Data)
	if err != nil {
		return chain.Transaction{}, errors.Join(ErrInvalidTxRequest, ErrInvalidHex)
	}
	return chain.Transaction{
		From:  from,
		To:    to,
		Value: *value,
		Data:  data,
	}, nil
}
