package collective

import (
	"context"
	"sync"
)

// localHub is the shared rendezvous point every rank's LocalGroup reports
// into. It is the in-process analogue of the mutex-guarded shared state the
// teacher's health monitor keeps for its node map: a single struct, one
// lock, and every accessor goes through it.
type localHub struct {
	mu            sync.Mutex
	cond          *sync.Cond
	world         int
	slot          int
	arrived       int
	contributions []any
	result        any

	ptpMu sync.Mutex
	ptp   map[[2]int]chan []byte
}

func newLocalHub(world int) *localHub {
	h := &localHub{
		world:         world,
		contributions: make([]any, world),
		ptp:           make(map[[2]int]chan []byte),
	}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// rendezvous is the barrier primitive every LocalGroup collective op is
// built on: each of the hub's world ranks contributes one In value, and
// once all world have arrived, compute turns the rank-ordered contributions
// into a single Out value that every rank's call returns. A rank that
// arrives before the others blocks on the hub's condition variable until
// the last one computes the result and broadcasts it.
func rendezvous[In, Out any](h *localHub, rank int, contribution In, compute func([]In) Out) Out {
	h.mu.Lock()
	mySlot := h.slot
	h.contributions[rank] = contribution
	h.arrived++

	if h.arrived == h.world {
		typed := make([]In, h.world)
		for i, c := range h.contributions {
			typed[i] = c.(In)
		}
		h.result = compute(typed)
		h.arrived = 0
		h.contributions = make([]any, h.world)
		h.slot++
		h.cond.Broadcast()
	} else {
		for h.slot == mySlot {
			h.cond.Wait()
		}
	}

	res := h.result.(Out)
	h.mu.Unlock()
	return res
}

func (h *localHub) ptpChan(src, dst int) chan []byte {
	h.ptpMu.Lock()
	defer h.ptpMu.Unlock()
	key := [2]int{src, dst}
	ch, ok := h.ptp[key]
	if !ok {
		ch = make(chan []byte)
		h.ptp[key] = ch
	}
	return ch
}

// LocalGroup is an in-process Group: every rank is a goroutine, and all
// communication passes through a shared localHub. A collective result is
// built in a fresh slice that aliases no rank's input, but that one slice
// is returned to every rank that receives it, and Send hands the sender's
// slice to Recv without copying, so ranks can share backing arrays.
type LocalGroup struct {
	rank, world int
	hub         *localHub
}

// NewLocalGroups returns world LocalGroups, one per rank, all wired to a
// single shared hub. Each must be driven from its own goroutine.
func NewLocalGroups(world int) []Group {
	hub := newLocalHub(world)
	groups := make([]Group, world)
	for r := 0; r < world; r++ {
		groups[r] = &LocalGroup{rank: r, world: world, hub: hub}
	}
	return groups
}

func (g *LocalGroup) Rank() int  { return g.rank }
func (g *LocalGroup) World() int { return g.world }

func (g *LocalGroup) Broadcast(ctx context.Context, root int, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := rendezvous(g.hub, g.rank, data, func(all [][]byte) []byte {
		return append([]byte(nil), all[root]...)
	})
	return out, nil
}

func (g *LocalGroup) AllgatherInt(ctx context.Context, v int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rendezvous(g.hub, g.rank, v, func(all []int) []int {
		return append([]int(nil), all...)
	}), nil
}

func (g *LocalGroup) AllreduceOR(ctx context.Context, v []bool) ([]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rendezvous(g.hub, g.rank, v, func(all [][]bool) []bool {
		n := 0
		for _, vec := range all {
			if len(vec) > n {
				n = len(vec)
			}
		}
		out := make([]bool, n)
		for _, vec := range all {
			for i, b := range vec {
				if b {
					out[i] = true
				}
			}
		}
		return out
	}), nil
}

func (g *LocalGroup) AllreduceSumInts(ctx context.Context, v []int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rendezvous(g.hub, g.rank, v, func(all [][]int) []int {
		n := 0
		for _, vec := range all {
			if len(vec) > n {
				n = len(vec)
			}
		}
		out := make([]int, n)
		for _, vec := range all {
			for i, x := range vec {
				out[i] += x
			}
		}
		return out
	}), nil
}

func (g *LocalGroup) ReduceSumBytes(ctx context.Context, root int, v []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := rendezvous(g.hub, g.rank, v, func(all [][]byte) []byte {
		n := 0
		for _, vec := range all {
			if len(vec) > n {
				n = len(vec)
			}
		}
		out := make([]byte, n)
		for _, vec := range all {
			for i, b := range vec {
				out[i] += b
			}
		}
		return out
	})
	if g.rank != root {
		return nil, nil
	}
	return out, nil
}

func (g *LocalGroup) GatherInt(ctx context.Context, root int, v int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := rendezvous(g.hub, g.rank, v, func(all []int) []int {
		return append([]int(nil), all...)
	})
	if g.rank != root {
		return nil, nil
	}
	return out, nil
}

func (g *LocalGroup) Send(ctx context.Context, dst int, data []byte) error {
	ch := g.hub.ptpChan(g.rank, dst)
	select {
	case ch <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *LocalGroup) Recv(ctx context.Context, src int) ([]byte, error) {
	ch := g.hub.ptpChan(src, g.rank)
	select {
	case data := <-ch:
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
