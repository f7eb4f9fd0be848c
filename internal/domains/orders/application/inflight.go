package application

import "sync"

// inflight tracks orders with a mutation currently on the wire.
type inflight struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{ids: map[string]struct{}{}}
}

func (g *inflight) acquire(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.ids[id]; busy {
		return false
	}
	g.ids[id] = struct{}{}
	return true
}

func (g *inflight) release(id string) {
	g.mu.Lock()
	delete(g.ids, id)
	g.mu.Unlock()
}
