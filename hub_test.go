package main

import "testing"

func TestHubConnectionLimits(t *testing.T) {
	h := NewHub(nil, DefaultTuning(), nil)
	for i := 0; i < maxConnsPerIP; i++ {
		if !h.CanAccept("1.1.1.1") {
			t.Fatalf("connection %d rejected below the per-IP limit", i)
		}
		h.TrackConnect("1.1.1.1")
	}
	if h.CanAccept("1.1.1.1") {
		t.Error("expected per-IP limit")
	}
	if !h.CanAccept("2.2.2.2") {
		t.Error("other IPs are unaffected")
	}
	if h.TotalConns() != maxConnsPerIP {
		t.Errorf("expected %d total, got %d", maxConnsPerIP, h.TotalConns())
	}

	h.TrackDisconnect("1.1.1.1")
	if !h.CanAccept("1.1.1.1") {
		t.Error("a disconnect should free a slot")
	}
}

func TestHubWithoutDatabase(t *testing.T) {
	h := NewHub(nil, DefaultTuning(), nil)
	if h.auth != nil {
		t.Error("accounts need a database")
	}
	c := &Client{hub: h, send: make(chan []byte, sendBufSize)}
	if err := h.Attach(c); err != nil {
		t.Fatalf("attach: %v", err)
	}
	t.Cleanup(func() { h.sessions.RemoveSession(c.session.ID) })

	g := c.session.Game
	if g.store != nil || g.runs != nil {
		t.Error("store and run recorder should stay nil without a database")
	}
}
