// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubSelectPressesKey(t *testing.T) {
	rec := &recorder{}
	l, cancel, _ := startLoop(t, rec)
	defer cancel()

	hub := NewHub(l.Activate)
	srv := httptest.NewServer(NewWebServer(0, l, hub).Handler)
	defer srv.Close()

	conn := dialHub(t, srv)
	defer conn.Close()
	waitFor(t, func() bool { return hub.Clients() == 1 })

	// The cursor starts on "7".
	if err := conn.WriteJSON(SelectEvent{Action: ActionSelect}); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor(t, func() bool {
		st, err := l.State()
		return err == nil && st.Num == "7"
	})

	resp, err := http.Get(srv.URL + "/api/state")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	defer resp.Body.Close()
	var st State
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Key != "7" || st.Num != "7" || st.Row != 0 || st.Col != 0 {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestWebServerServesPage(t *testing.T) {
	rec := &recorder{}
	l, cancel, _ := startLoop(t, rec)
	defer cancel()

	srv := httptest.NewServer(NewWebServer(0, l, NewHub(l.Activate)).Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if !strings.Contains(string(body), "/ws") {
		t.Fatalf("page does not connect to the websocket")
	}
}

func TestHubBroadcastsEvents(t *testing.T) {
	hub := NewHub(func() error { return nil })
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return hub.Clients() == 1 })

	Listeners{hub}.CursorChanged(2, 3)
	Listeners{hub}.DisplayChanged("-", "4.5")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var cur CursorEvent
	if err := conn.ReadJSON(&cur); err != nil {
		t.Fatalf("read cursor: %v", err)
	}
	if cur != (CursorEvent{Type: EventCursor, Row: 2, Col: 3}) {
		t.Fatalf("unexpected cursor event %+v", cur)
	}
	var disp DisplayEvent
	if err := conn.ReadJSON(&disp); err != nil {
		t.Fatalf("read display: %v", err)
	}
	if disp != (DisplayEvent{Type: EventDisplay, Op: "-", Num: "4.5"}) {
		t.Fatalf("unexpected display event %+v", disp)
	}
}

func TestHubDropsClientOnClose(t *testing.T) {
	hub := NewHub(func() error { return nil })
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitFor(t, func() bool { return hub.Clients() == 1 })
	conn.Close()
	waitFor(t, func() bool { return hub.Clients() == 0 })
}
