package placement

import (
	"context"
	"sync"
)

type gatewayStub struct {
	mu sync.Mutex

	placements map[int]string
	listErr    error

	result     PlaceResult
	placeErr   error
	placeCalls int

	entered chan struct{}
	release chan struct{}
}

var _ Gateway = (*gatewayStub)(nil)

func (g *gatewayStub) ListPlacements(context.Context) (map[int]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.placements, g.listErr
}

func (g *gatewayStub) PlaceItem(context.Context, int, string) (PlaceResult, error) {
	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.placeCalls++
	return g.result, g.placeErr
}

func (g *gatewayStub) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.placeCalls
}

type progressStub float64

func (p progressStub) ProgressPercent() float64 { return float64(p) }

func quietLog(string, ...any) {}
