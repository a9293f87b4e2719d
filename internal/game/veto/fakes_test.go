package veto

import (
	"context"
	"sync"
)

type gatewayStub struct {
	mu sync.Mutex

	listing Listing
	listErr error

	created   Request
	createErr error

	voted     Request
	voteErr   error
	voteCalls int

	entered chan struct{}
	release chan struct{}
}

var _ Gateway = (*gatewayStub)(nil)

func (g *gatewayStub) ListVetoRequests(context.Context) (Listing, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listing, g.listErr
}

func (g *gatewayStub) CreateVetoRequest(_ context.Context, in Input) (Request, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return Request{}, g.createErr
	}
	out := g.created
	out.Item, out.Reason, out.Amount = in.Item, in.Reason, in.Amount
	return out, nil
}

func (g *gatewayStub) VoteOnVetoRequest(context.Context, string, Choice) (Request, error) {
	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.voteCalls++
	return g.voted, g.voteErr
}

func (g *gatewayStub) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.voteCalls
}

type rowsStub int

func (r rowsStub) FullRowsCompleted() int { return int(r) }

func quietLog(string, ...any) {}
