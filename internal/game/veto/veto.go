// Package veto runs cooperative spending approval: a player proposes a
// purchase and friends approve or veto it. The gateway decides the outcome.
package veto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

// Choice is a single vote.
type Choice string

const (
	ChoiceApprove Choice = "approve"
	ChoiceVeto    Choice = "veto"
)

// Valid reports whether c is a known choice.
func (c Choice) Valid() bool {
	return c == ChoiceApprove || c == ChoiceVeto
}

// Status is the request outcome.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Vote is one friend's recorded choice.
type Vote struct {
	UserID string `json:"user_id"`
	Choice Choice `json:"vote"`
}

// Request is a proposed purchase awaiting friends' votes.
type Request struct {
	ID            string          `json:"id"`
	RequesterID   string          `json:"requester_id"`
	RequesterName string          `json:"requester_name"`
	Item          string          `json:"item"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
	Status        Status          `json:"status"`
	Votes         []Vote          `json:"votes"`
	CreatedAt     time.Time       `json:"created_at"`
}

// VoteBy returns userID's vote on r.
func (r Request) VoteBy(userID string) (Vote, bool) {
	for _, v := range r.Votes {
		if v.UserID == userID {
			return v, true
		}
	}
	return Vote{}, false
}

// Input carries the fields of a new request.
type Input struct {
	Item   string
	Amount decimal.Decimal
	Reason string
}

// Listing is the gateway's view of the requests visible to the caller.
// ApprovalsCast counts every approve vote the caller has cast, including on
// requests no longer listed.
type Listing struct {
	Requests      []Request
	ApprovalsCast int
}

// Gateway is the remote surface the veto engine depends on.
type Gateway interface {
	ListVetoRequests(ctx context.Context) (Listing, error)
	CreateVetoRequest(ctx context.Context, in Input) (Request, error)
	VoteOnVetoRequest(ctx context.Context, requestID string, choice Choice) (Request, error)
}

// TokenSource reports the milestone that grants approve tokens.
type TokenSource interface {
	FullRowsCompleted() int
}

type unavailableGateway struct{}

func (unavailableGateway) ListVetoRequests(context.Context) (Listing, error) {
	return Listing{}, apperrors.Transport("veto gateway is not configured", nil)
}

func (unavailableGateway) CreateVetoRequest(context.Context, Input) (Request, error) {
	return Request{}, apperrors.Transport("veto gateway is not configured", nil)
}

func (unavailableGateway) VoteOnVetoRequest(context.Context, string, Choice) (Request, error) {
	return Request{}, apperrors.Transport("veto gateway is not configured", nil)
}
