package main

import "container/heap"

// timedEvent is a callback due at a simulated-clock deadline (ms)
type timedEvent struct {
	deadline float64
	seq      uint64
	fn       func()
}

type eventHeap []*timedEvent

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].deadline == h[j].deadline {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline < h[j].deadline
}
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x interface{}) { *h = append(*h, x.(*timedEvent)) }
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return ev
}

// TimerQueue holds deferred effects (dash end, hit-stop end, kinetic re-arm).
// It is drained synchronously by Advance at the top of every tick, so
// callbacks never run concurrently with the update pass.
type TimerQueue struct {
	events eventHeap
	seq    uint64
}

// NewTimerQueue creates an empty queue
func NewTimerQueue() *TimerQueue {
	return &TimerQueue{}
}

// After schedules fn to fire once the clock reaches now+delay
func (q *TimerQueue) After(now, delay float64, fn func()) {
	q.seq++
	heap.Push(&q.events, &timedEvent{deadline: now + delay, seq: q.seq, fn: fn})
}

// Advance fires every event whose deadline is <= now, in deadline order.
// Events scheduled by a callback for a deadline already due fire in the
// same call. Returns the number of events fired.
func (q *TimerQueue) Advance(now float64) int {
	fired := 0
	for len(q.events) > 0 && q.events[0].deadline <= now {
		ev := heap.Pop(&q.events).(*timedEvent)
		fired++
		ev.fn()
	}
	return fired
}

// Clear drops all pending events without firing them
func (q *TimerQueue) Clear() {
	q.events = q.events[:0]
}

// Len returns the number of pending events
func (q *TimerQueue) Len() int {
	return len(q.events)
}
