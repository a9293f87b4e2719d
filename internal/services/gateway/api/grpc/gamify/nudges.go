package gamify

import (
	"context"
	"fmt"
	"strings"

	"github.com/popcity/popcity/internal/api/gamifyv1"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
)

// ListNudges returns the users the caller already nudged.
func (s *Service) ListNudges(ctx context.Context, in *gamifyv1.ListNudgesRequest) (*gamifyv1.ListNudgesResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	ids, err := s.store.ListNudgedUserIDs(ctx, call.user.ID)
	if err != nil {
		return nil, call.fail(fmt.Errorf("list nudges: %w", err))
	}
	if ids == nil {
		ids = []string{}
	}
	return &gamifyv1.ListNudgesResponse{ToUserIds: ids}, nil
}

// SendNudge records one nudge per friend.
func (s *Service) SendNudge(ctx context.Context, in *gamifyv1.SendNudgeRequest) (*gamifyv1.SendNudgeResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	to := strings.TrimSpace(in.ToUserId)
	switch to {
	case "":
		return nil, call.fail(apperrors.New(apperrors.CodeNudgeTargetEmpty, "nudge target is required"))
	case call.user.ID:
		return nil, call.fail(apperrors.New(apperrors.CodeNudgeSelf, "cannot nudge yourself"))
	}
	if err := s.store.CreateNudge(ctx, call.user.ID, to, in.GoalName); err != nil {
		return nil, call.fail(storeError(err, apperrors.CodeNotFound, apperrors.CodeNudgeAlreadySent))
	}
	return &gamifyv1.SendNudgeResponse{}, nil
}
