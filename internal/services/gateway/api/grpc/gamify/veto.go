package gamify

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/popcity/popcity/internal/api/gamifyv1"
	"github.com/popcity/popcity/internal/game/veto"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
	"github.com/popcity/popcity/internal/services/gateway/storage"
)

// ListVetoRequests returns pending requests plus the caller's resolved ones,
// with the number of approvals the caller has spent.
func (s *Service) ListVetoRequests(ctx context.Context, in *gamifyv1.ListVetoRequestsRequest) (*gamifyv1.ListVetoRequestsResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	requests, err := s.store.ListVisibleVetoRequests(ctx, call.user.ID, visibleVetoLimit)
	if err != nil {
		return nil, call.fail(fmt.Errorf("list veto requests: %w", err))
	}
	approvals, err := s.store.CountApprovalsBy(ctx, call.user.ID)
	if err != nil {
		return nil, call.fail(fmt.Errorf("count approvals: %w", err))
	}
	resp := &gamifyv1.ListVetoRequestsResponse{
		Requests:      make([]*gamifyv1.VetoRequest, 0, len(requests)),
		ApprovalsCast: int32(approvals),
	}
	for _, r := range requests {
		resp.Requests = append(resp.Requests, vetoRequestToProto(r))
	}
	return resp, nil
}

// CreateVetoRequest puts a purchase up for friends' votes.
func (s *Service) CreateVetoRequest(ctx context.Context, in *gamifyv1.CreateVetoRequestRequest) (*gamifyv1.CreateVetoRequestResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	item := strings.TrimSpace(in.Item)
	reason := strings.TrimSpace(in.Reason)
	if item == "" {
		return nil, call.fail(apperrors.New(apperrors.CodeVetoItemEmpty, "item is required"))
	}
	if reason == "" {
		return nil, call.fail(apperrors.New(apperrors.CodeVetoReasonEmpty, "reason is required"))
	}
	amount := decimal.Zero
	if raw := strings.TrimSpace(in.Amount); raw != "" {
		amount, err = decimal.NewFromString(raw)
		if err != nil || amount.IsNegative() {
			return nil, call.fail(apperrors.New(apperrors.CodeVetoAmountNegative, "amount must be a non-negative decimal"))
		}
	}

	requestID, err := s.idGenerator()
	if err != nil {
		return nil, call.fail(fmt.Errorf("generate veto request id: %w", err))
	}
	requesterName := call.user.Name
	if requesterName == "" {
		requesterName = call.user.ID
	}
	record := storage.VetoRequest{
		ID:            requestID,
		RequesterID:   call.user.ID,
		RequesterName: requesterName,
		Item:          item,
		Amount:        amount,
		Reason:        reason,
		Status:        string(veto.StatusPending),
		CreatedAt:     s.now(),
	}
	if err := s.store.CreateVetoRequest(ctx, record); err != nil {
		return nil, call.fail(storeError(err, apperrors.CodeVetoRequestNotFound, apperrors.CodeAlreadyExists))
	}
	return &gamifyv1.CreateVetoRequestResponse{Request: vetoRequestToProto(record)}, nil
}

// VoteOnVetoRequest records the caller's single vote and resolves the
// request with the configured tally policy.
func (s *Service) VoteOnVetoRequest(ctx context.Context, in *gamifyv1.VoteOnVetoRequestRequest) (*gamifyv1.VoteOnVetoRequestResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	choice := veto.Choice(strings.ToLower(strings.TrimSpace(in.Vote)))
	if !choice.Valid() {
		return nil, call.fail(apperrors.New(apperrors.CodeVetoInvalidChoice, fmt.Sprintf("unknown vote %q", in.Vote)))
	}
	requestID := strings.TrimSpace(in.RequestId)

	vote := storage.VetoVote{UserID: call.user.ID, Choice: string(choice), CreatedAt: s.now()}
	updated, err := s.store.AddVetoVote(ctx, requestID, vote, func(r storage.VetoRequest) (string, error) {
		if r.RequesterID == call.user.ID {
			return "", apperrors.New(apperrors.CodeVetoOwnRequest, "cannot vote on your own request")
		}
		if r.Status != string(veto.StatusPending) {
			return "", apperrors.New(apperrors.CodeVetoRequestClosed, fmt.Sprintf("request %q is %s", r.ID, r.Status))
		}
		status, err := s.policy.Decide(r.Approvals(), r.Vetoes())
		if err != nil {
			return "", fmt.Errorf("tally %s: %w", s.policy.Name(), err)
		}
		return string(status), nil
	})
	if err != nil {
		return nil, call.fail(storeError(err, apperrors.CodeVetoRequestNotFound, apperrors.CodeVetoAlreadyVoted))
	}
	return &gamifyv1.VoteOnVetoRequestResponse{Request: vetoRequestToProto(updated)}, nil
}
