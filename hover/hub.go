// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hover synchronizes pointer position across the charts of one
// grid.
//
// Any chart may broadcast a hover event; every subscribed chart reacts
// to it independently, including the chart that sent it.
package hover

import (
	"sync"
	"sync/atomic"
)

// An Event reports the pointer at pixel MouseX over chart ChartID.
// MouseX is relative to the chart's plotting area.
type Event struct {
	ChartID string
	MouseX  float64
}

type subscriber struct {
	chartID  string
	onHover  func(Event)
	onEnd    func()
	canceled atomic.Bool
}

// A Hub fans hover events out to its subscribers. The zero value is
// ready to use. A Hub is safe for concurrent use.
type Hub struct {
	mu   sync.Mutex
	subs []*subscriber
}

// Subscribe registers onHover and onEnd on behalf of chartID. Either
// callback may be nil. The returned cancel function removes the
// subscription; once it returns, neither callback is called again.
// Calling cancel more than once is harmless.
func (h *Hub) Subscribe(chartID string, onHover func(Event), onEnd func()) (cancel func()) {
	s := &subscriber{chartID: chartID, onHover: onHover, onEnd: onEnd}
	h.mu.Lock()
	h.subs = append(h.subs, s)
	h.mu.Unlock()
	return func() {
		s.canceled.Store(true)
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, x := range h.subs {
			if x == s {
				h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
				break
			}
		}
	}
}

// Len returns the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// snapshot returns the current subscribers in subscription order.
// Callbacks run outside the lock so they may subscribe or cancel.
func (h *Hub) snapshot() []*subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*subscriber(nil), h.subs...)
}

// Hover delivers ev synchronously to every subscriber, in subscription
// order, regardless of which chart sent it.
func (h *Hub) Hover(ev Event) {
	for _, s := range h.snapshot() {
		if s.onHover != nil && !s.canceled.Load() {
			s.onHover(ev)
		}
	}
}

// End tells every subscriber that the pointer left the grid.
func (h *Hub) End() {
	for _, s := range h.snapshot() {
		if s.onEnd != nil && !s.canceled.Load() {
			s.onEnd()
		}
	}
}
