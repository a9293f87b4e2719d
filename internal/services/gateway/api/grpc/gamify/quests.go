package gamify

import (
	"context"
	"fmt"
	"strings"

	"github.com/popcity/popcity/internal/api/gamifyv1"
	"github.com/popcity/popcity/internal/game/economy"
	"github.com/popcity/popcity/internal/game/quest"
	apperrors "github.com/popcity/popcity/internal/platform/errors"
	"github.com/popcity/popcity/internal/services/gateway/filter"
	"github.com/popcity/popcity/internal/services/gateway/storage"
)

// ListQuests returns the quest catalog with the caller's progress, narrowed
// by an optional AIP-160 filter.
func (s *Service) ListQuests(ctx context.Context, in *gamifyv1.ListQuestsRequest) (*gamifyv1.ListQuestsResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	cond, err := filter.ParseQuestFilter(in.Filter, filter.QuestColumns)
	if err != nil {
		return nil, call.fail(&apperrors.Error{
			Code:     apperrors.CodeQuestInvalidFilter,
			Message:  err.Error(),
			Metadata: map[string]string{"Filter": in.Filter},
			Cause:    err,
		})
	}
	quests, err := s.store.ListQuests(ctx, call.user.ID, cond)
	if err != nil {
		return nil, call.fail(fmt.Errorf("list quests: %w", err))
	}
	resp := &gamifyv1.ListQuestsResponse{Quests: make([]*gamifyv1.Quest, 0, len(quests))}
	for _, q := range quests {
		resp.Quests = append(resp.Quests, questToProto(q))
	}
	return resp, nil
}

// AcceptQuest moves an available quest to active for the caller.
func (s *Service) AcceptQuest(ctx context.Context, in *gamifyv1.AcceptQuestRequest) (*gamifyv1.AcceptQuestResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	accepted, _, err := s.store.UpdateQuest(ctx, call.user.ID, strings.TrimSpace(in.QuestId), func(q *storage.Quest) (economy.Rewards, error) {
		if q.Status != string(quest.StatusAvailable) {
			return economy.Rewards{}, apperrors.New(apperrors.CodeQuestNotAvailable, fmt.Sprintf("quest %q is %s", q.ID, q.Status))
		}
		q.Status = string(quest.StatusActive)
		return economy.Rewards{}, nil
	})
	if err != nil {
		return nil, call.fail(storeError(err, apperrors.CodeQuestNotFound, apperrors.CodeAlreadyExists))
	}
	return &gamifyv1.AcceptQuestResponse{Quest: questToProto(accepted)}, nil
}

// CompleteQuest finishes an active quest and credits its rewards once.
func (s *Service) CompleteQuest(ctx context.Context, in *gamifyv1.CompleteQuestRequest) (*gamifyv1.CompleteQuestResponse, error) {
	call, err := s.begin(ctx, in == nil)
	if err != nil {
		return nil, err
	}
	var rewards economy.Rewards
	completed, stats, err := s.store.UpdateQuest(ctx, call.user.ID, strings.TrimSpace(in.QuestId), func(q *storage.Quest) (economy.Rewards, error) {
		switch q.Status {
		case string(quest.StatusActive):
		case string(quest.StatusCompleted):
			return economy.Rewards{}, apperrors.New(apperrors.CodeQuestAlreadyCompleted, fmt.Sprintf("quest %q already completed", q.ID))
		default:
			return economy.Rewards{}, apperrors.New(apperrors.CodeQuestNotActive, fmt.Sprintf("quest %q is %s", q.ID, q.Status))
		}
		q.Status = string(quest.StatusCompleted)
		rewards = economy.Rewards{Points: q.PointsReward, Currency: q.CurrencyReward}
		return rewards, nil
	})
	if err != nil {
		return nil, call.fail(storeError(err, apperrors.CodeQuestNotFound, apperrors.CodeAlreadyExists))
	}
	rewards.Revision = stats.Revision
	return &gamifyv1.CompleteQuestResponse{Quest: questToProto(completed), Rewards: rewardsToProto(rewards)}, nil
}
