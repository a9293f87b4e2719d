package quest

import (
	"context"
	"sync"

	"github.com/popcity/popcity/internal/game/economy"
)

type gatewayStub struct {
	mu sync.Mutex

	quests     []Quest
	listErr    error
	lastFilter string

	accepted  Quest
	acceptErr error

	completed     CompletionResult
	completeErr   error
	completeCalls int

	// release, when set, blocks gateway mutations until it is closed.
	release chan struct{}
	entered chan struct{}
}

var _ Gateway = (*gatewayStub)(nil)

func (g *gatewayStub) ListQuests(_ context.Context, filter string) ([]Quest, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastFilter = filter
	if g.listErr != nil {
		return nil, g.listErr
	}
	return append([]Quest(nil), g.quests...), nil
}

func (g *gatewayStub) AcceptQuest(context.Context, string) (Quest, error) {
	g.wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.accepted, g.acceptErr
}

func (g *gatewayStub) CompleteQuest(context.Context, string) (CompletionResult, error) {
	g.wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completeCalls++
	return g.completed, g.completeErr
}

func (g *gatewayStub) wait() {
	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
}

type sinkStub struct {
	mu      sync.Mutex
	credits []economy.Rewards
}

func (s *sinkStub) Credit(r economy.Rewards) economy.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credits = append(s.credits, r)
	return economy.Stats{}
}

func (s *sinkStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.credits)
}

func quietLog(string, ...any) {}
