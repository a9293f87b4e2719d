package veto

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"

	"github.com/popcity/popcity/internal/game/pending"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

// Engine owns the caller's view of veto requests and their votes.
type Engine struct {
	gateway Gateway
	userID  string
	tokens  TokenSource
	logf    func(string, ...any)
	votes   *pending.Tracker[string]
	epoch   pending.Epoch

	mu            sync.Mutex
	requests      []Request
	approvalsCast int
	reserved      int
}

// NewEngine builds a veto engine acting for userID. tokens supplies the
// approve-token milestone; nil means no approve tokens are ever available.
func NewEngine(gateway Gateway, userID string, tokens TokenSource, logf func(string, ...any)) *Engine {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	if logf == nil {
		logf = log.Printf
	}
	return &Engine{
		gateway: gateway,
		userID:  strings.TrimSpace(userID),
		tokens:  tokens,
		logf:    logf,
		votes:   pending.NewTracker[string](),
	}
}

// Load replaces the local requests, newest first, and the spent approve-token count.
func (e *Engine) Load(ctx context.Context) error {
	ticket := e.epoch.Ticket()
	listing, err := e.gateway.ListVetoRequests(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.epoch.Valid(ticket) {
		e.logf("veto: dropping request list received after reset")
		return nil
	}
	e.requests = append([]Request(nil), listing.Requests...)
	slices.SortStableFunc(e.requests, func(a, b Request) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	e.approvalsCast = max(listing.ApprovalsCast, 0)
	return nil
}

// CreateRequest submits a new request for the caller. Nothing is added
// locally unless the gateway accepts it.
func (e *Engine) CreateRequest(ctx context.Context, in Input) (Request, error) {
	in.Item = strings.TrimSpace(in.Item)
	in.Reason = strings.TrimSpace(in.Reason)
	switch {
	case in.Item == "":
		return Request{}, apperrors.New(apperrors.CodeVetoItemEmpty, "item is required")
	case in.Reason == "":
		return Request{}, apperrors.New(apperrors.CodeVetoReasonEmpty, "reason is required")
	case in.Amount.IsNegative():
		return Request{}, apperrors.New(apperrors.CodeVetoAmountNegative, "amount must not be negative")
	}

	ticket := e.epoch.Ticket()
	created, err := e.gateway.CreateVetoRequest(ctx, in)
	if err != nil {
		return Request{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.epoch.Valid(ticket) {
		e.logf("veto: dropping created request %s received after reset", created.ID)
		return created, nil
	}
	e.requests = slices.Insert(e.requests, 0, created)
	return created, nil
}

// Vote casts choice on requestID. Every precondition is checked under the
// engine lock before the gateway is called, so two rapid votes by the caller
// on one request can never both reach the gateway.
func (e *Engine) Vote(ctx context.Context, requestID string, choice Choice) (Request, error) {
	requestID = strings.TrimSpace(requestID)
	tok, err := e.beginVote(requestID, choice)
	if err != nil {
		return Request{}, err
	}

	reported, callErr := e.gateway.VoteOnVetoRequest(ctx, requestID, choice)

	e.mu.Lock()
	defer e.mu.Unlock()
	_, relevant := e.votes.Resolve(tok, callErr == nil)
	if !relevant {
		e.logf("veto: dropping vote response for %s received after reset", requestID)
		return reported, callErr
	}
	if choice == ChoiceApprove {
		e.reserved--
	}
	if callErr != nil {
		return Request{}, callErr
	}

	i := e.indexLocked(requestID)
	if i < 0 {
		return reported, nil
	}
	local := &e.requests[i]
	if reported.Status != "" {
		local.Status = reported.Status
	}
	if _, voted := local.VoteBy(e.userID); !voted {
		local.Votes = append(local.Votes, Vote{UserID: e.userID, Choice: choice})
		if choice == ChoiceApprove {
			e.approvalsCast++
		}
	}
	return cloneRequest(*local), nil
}

func (e *Engine) beginVote(requestID string, choice Choice) (pending.Token[string], error) {
	none := pending.Token[string]{}
	if !choice.Valid() {
		return none, apperrors.New(apperrors.CodeVetoInvalidChoice, fmt.Sprintf("invalid vote %q", choice))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexLocked(requestID)
	if i < 0 {
		return none, apperrors.New(apperrors.CodeVetoRequestNotFound, fmt.Sprintf("request %q not loaded", requestID))
	}
	req := e.requests[i]
	if req.RequesterID == e.userID {
		return none, apperrors.New(apperrors.CodeVetoOwnRequest, "requester cannot vote on own request")
	}
	if _, voted := req.VoteBy(e.userID); voted {
		return none, apperrors.New(apperrors.CodeVetoAlreadyVoted, fmt.Sprintf("already voted on %q", requestID))
	}
	if req.Status != StatusPending {
		return none, apperrors.New(apperrors.CodeVetoRequestClosed, fmt.Sprintf("request %q is %s", requestID, req.Status))
	}
	if choice == ChoiceApprove && e.approveTokensLocked() < 1 {
		return none, apperrors.New(apperrors.CodeVetoNoApproveTokens, "no approve tokens left")
	}
	tok, err := e.votes.Begin(requestID)
	if err != nil {
		return none, err
	}
	if choice == ChoiceApprove {
		e.reserved++
	}
	return tok, nil
}

// ApproveTokens is the number of approve votes the caller may still cast:
// completed grid rows minus approvals already cast or in flight.
func (e *Engine) ApproveTokens() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.approveTokensLocked()
}

func (e *Engine) approveTokensLocked() int {
	rows := 0
	if e.tokens != nil {
		rows = e.tokens.FullRowsCompleted()
	}
	return max(0, rows-e.approvalsCast-e.reserved)
}

// Tally counts the votes recorded on requestID.
func (e *Engine) Tally(requestID string) (approve, veto int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexLocked(requestID)
	if i < 0 {
		return 0, 0
	}
	for _, v := range e.requests[i].Votes {
		switch v.Choice {
		case ChoiceApprove:
			approve++
		case ChoiceVeto:
			veto++
		}
	}
	return approve, veto
}

// Requests returns a copy of the local requests, newest first.
func (e *Engine) Requests() []Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Request, len(e.requests))
	for i, r := range e.requests {
		out[i] = cloneRequest(r)
	}
	return out
}

// Request returns the request with id.
func (e *Engine) Request(id string) (Request, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexLocked(id)
	if i < 0 {
		return Request{}, false
	}
	return cloneRequest(e.requests[i]), true
}

// Reset clears local requests and drops every in-flight response.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.epoch.Advance()
	e.votes.Cancel()
	e.requests = nil
	e.approvalsCast = 0
	e.reserved = 0
}

func (e *Engine) indexLocked(id string) int {
	return slices.IndexFunc(e.requests, func(r Request) bool { return r.ID == id })
}

func cloneRequest(r Request) Request {
	r.Votes = slices.Clone(r.Votes)
	return r
}
