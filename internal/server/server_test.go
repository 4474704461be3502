package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/elektrokombinacija/gridnav/internal/core"
	"github.com/elektrokombinacija/gridnav/internal/nav"
	"github.com/elektrokombinacija/gridnav/internal/sim"
)

func init() {
	log.SetLevel(log.WarnLevel)
}

func newTestServer(t *testing.T) (*Server, *sim.Simulator) {
	t.Helper()
	l := &core.Layout{Cols: 4, Rows: 1, Tasks: []core.Placement{{ID: 1, Cell: core.Cell{X: 3, Y: 0}}}}
	cfg := sim.DefaultConfig()
	cfg.Layout = l
	cfg.TickInterval = 0
	cfg.AutoStart = false
	s, err := sim.NewSimulator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return New(s, l), s
}

func TestLayoutAndSnapshot(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", URI_LAYOUT, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /layout = %d", rec.Code)
	}
	var l core.Layout
	if err := json.NewDecoder(rec.Body).Decode(&l); err != nil || l.Cols != 4 {
		t.Errorf("layout = %+v, %v", l, err)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", URI_SNAPSHOT, nil))
	var snap sim.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if len(snap.Agents) != 2 || snap.Agents[0].Started {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestStart(t *testing.T) {
	srv, s := newTestServer(t)

	tests := []struct {
		path string
		want int
	}{
		{"/start/ucs", http.StatusOK},
		{"/start/dijkstra", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest("POST", tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("POST %s = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}

	s.Tick()
	snap := s.Snapshot()
	if !snap.Agents[1].Started || snap.Agents[1].Status != nav.Moving {
		t.Errorf("ucs not started: %+v", snap.Agents[1])
	}
	if snap.Agents[0].Started {
		t.Error("astar should not be started")
	}
}

func TestStream(t *testing.T) {
	srv, s := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + URI_STREAM
	con, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer con.Close()
	con.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first sim.Snapshot
	if err := con.ReadJSON(&first); err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	if first.Tick != 0 {
		t.Errorf("initial tick = %d", first.Tick)
	}

	if err := s.Start(core.Heuristic); err != nil {
		t.Fatal(err)
	}
	// The handler subscribes before sending the initial snapshot, so every
	// tick from here on is delivered.
	for i := 0; i < 4; i++ {
		s.Tick()
	}

	var last sim.Snapshot
	for !last.Done {
		if err := con.ReadJSON(&last); err != nil {
			t.Fatalf("read: %v (last %+v)", err, last)
		}
	}
	if last.Agents[0].TotalCost != 3 || len(last.Agents[0].Completed) != 1 {
		t.Errorf("final snapshot = %+v", last.Agents[0])
	}
}

func TestStreamClosesWhenAlreadyDone(t *testing.T) {
	srv, s := newTestServer(t)
	if err := s.Start(core.Heuristic); err != nil {
		t.Fatal(err)
	}
	for !s.Done() {
		s.Tick()
	}

	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + URI_STREAM
	con, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer con.Close()
	con.SetReadDeadline(time.Now().Add(5 * time.Second))

	var snap sim.Snapshot
	if err := con.ReadJSON(&snap); err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	if !snap.Done {
		t.Fatalf("initial snapshot not done: %+v", snap)
	}
	_, _, err = con.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("read after done = %v, want normal close", err)
	}
}
