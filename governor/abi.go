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

package governor

import (
	"github.com/blinklabs-io/govern/chain"
)

// Call dispatches ABI encoded calldata
func (g *Governor) Call(msg chain.Msg, data []byte) ([]byte, error) {
	return g.methods.Dispatch(msg, data)
}

func proposalID(args chain.Args, i int) (uint64, error) {
	id, err := args.Uint64(i)
	if err != nil {
		return 0, ErrProposalNotFound
	}
	return id, nil
}

func (g *Governor) registerMethods() {
	d := chain.NewDispatcher(g.config.Address)
	g.methods = d

	d.Register("propose(address[],uint256[],bytes[],string)", []string{"uint256"}, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		id, err := g.Propose(msg.From, args.Addresses(0), args.Uint256s(1), args.BytesSlice(2), args.String(3))
		if err != nil {
			return nil, err
		}
		return []any{chain.BigUint64(id)}, nil
	})
	d.Register("castVote(uint256,uint8)", []string{"uint256"}, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		id, err := proposalID(args, 0)
		if err != nil {
			return nil, err
		}
		weight, err := g.CastVote(msg.From, id, args.Uint8(1))
		if err != nil {
			return nil, err
		}
		return []any{weight.ToBig()}, nil
	})
	d.Register("castVoteWithReason(uint256,uint8,string)", []string{"uint256"}, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		id, err := proposalID(args, 0)
		if err != nil {
			return nil, err
		}
		weight, err := g.CastVoteWithReason(msg.From, id, args.Uint8(1), args.String(2))
		if err != nil {
			return nil, err
		}
		return []any{weight.ToBig()}, nil
	})
	d.Register("cancel(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		id, err := proposalID(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, g.Cancel(msg.From, id)
	})
	d.Register("queue(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		id, err := proposalID(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, g.Queue(msg.From, id)
	})
	d.Register("execute(uint256)", nil, true, func(msg chain.Msg, args chain.Args) ([]any, error) {
		id, err := proposalID(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, g.Execute(msg.From, id)
	})
	d.Register("setQuorum(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		v, err := args.Uint64(0)
		if err != nil {
			return nil, ErrInvalidQuorum
		}
		return nil, g.SetQuorum(msg.From, v)
	})
	d.Register("setProposalCreationCost(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		cost := args.Uint256(0)
		return nil, g.SetProposalCreationCost(msg.From, &cost)
	})
	d.Register("setVotingDelay(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		v, err := args.Uint64(0)
		if err != nil {
			return nil, err
		}
		return nil, g.SetVotingDelay(msg.From, v)
	})
	d.Register("setVotingPeriod(uint256)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		v, err := args.Uint64(0)
		if err != nil {
			return nil, err
		}
		return nil, g.SetVotingPeriod(msg.From, v)
	})
	d.Register("setProposalGuardian(address)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return nil, g.SetProposalGuardian(msg.From, args.Address(0))
	})
	d.Register("transferOwnership(address)", nil, false, func(msg chain.Msg, args chain.Args) ([]any, error) {
		return nil, g.TransferOwnership(msg.From, args.Address(0))
	})

	// Views
	d.Register("state(uint256)", []string{"uint8"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		id, err := proposalID(args, 0)
		if err != nil {
			return nil, err
		}
		st, err := g.State(id)
		if err != nil {
			return nil, err
		}
		return []any{uint8(st)}, nil
	})
	d.Register("proposalCount()", []string{"uint256"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{chain.BigUint64(g.ProposalCount())}, nil
	})
	d.Register("proposalVotes(uint256)", []string{"uint256", "uint256", "uint256"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		id, err := proposalID(args, 0)
		if err != nil {
			return nil, err
		}
		p, ok := g.Proposal(id)
		if !ok {
			return nil, ErrProposalNotFound
		}
		return []any{p.AgainstVotes.ToBig(), p.ForVotes.ToBig(), p.AbstainVotes.ToBig()}, nil
	})
	d.Register("proposalEta(uint256)", []string{"uint256"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		id, err := proposalID(args, 0)
		if err != nil {
			return nil, err
		}
		p, ok := g.Proposal(id)
		if !ok {
			return nil, ErrProposalNotFound
		}
		return []any{chain.BigUint64(p.Eta)}, nil
	})
	d.Register("proposalProposer(uint256)", []string{"address"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		id, err := proposalID(args, 0)
		if err != nil {
			return nil, err
		}
		p, ok := g.Proposal(id)
		if !ok {
			return nil, ErrProposalNotFound
		}
		return []any{p.Proposer}, nil
	})
	d.Register("hasVoted(uint256,address)", []string{"bool"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		id, err := proposalID(args, 0)
		if err != nil {
			return nil, err
		}
		_, ok := g.Receipt(id, args.Address(1))
		return []any{ok}, nil
	})
	d.Register("quorumReached(uint256)", []string{"bool"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		id, err := proposalID(args, 0)
		if err != nil {
			return nil, err
		}
		ok, err := g.QuorumReached(id)
		return []any{ok}, err
	})
	d.Register("voteSucceeded(uint256)", []string{"bool"}, false, func(_ chain.Msg, args chain.Args) ([]any, error) {
		id, err := proposalID(args, 0)
		if err != nil {
			return nil, err
		}
		ok, err := g.VoteSucceeded(id)
		return []any{ok}, err
	})
	d.Register("quorumBps()", []string{"uint256"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{chain.BigUint64(g.QuorumBps())}, nil
	})
	d.Register("proposalCreationCost()", []string{"uint256"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{g.ProposalCost().ToBig()}, nil
	})
	d.Register("votingDelay()", []string{"uint256"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{chain.BigUint64(g.VotingDelay())}, nil
	})
	d.Register("votingPeriod()", []string{"uint256"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{chain.BigUint64(g.VotingPeriod())}, nil
	})
	d.Register("proposalGuardian()", []string{"address"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{g.Guardian()}, nil
	})
	d.Register("owner()", []string{"address"}, false, func(chain.Msg, chain.Args) ([]any, error) {
		return []any{g.Owner()}, nil
	})
}
