package session

import (
	"testing"

	"github.com/keshon/jukebox/internal/music/track"
)

type fakeConn struct {
	stopped      int
	disconnected int
}

func (c *fakeConn) StopCurrent()      { c.stopped++ }
func (c *fakeConn) Disconnect() error { c.disconnected++; return nil }

func TestGetOrCreateIsLazyAndStable(t *testing.T) {
	st := NewStore()
	if _, ok := st.Get("g1"); ok {
		t.Fatal("store should start empty")
	}

	a := st.GetOrCreate("g1")
	b := st.GetOrCreate("g1")
	if a != b {
		t.Fatal("GetOrCreate must return the same session for a guild")
	}

	snap := a.Snapshot()
	if snap.Playing || snap.Loop || snap.Shuffle || len(snap.Queue) != 0 || snap.Current != nil {
		t.Errorf("new session not idle: %+v", snap)
	}
}

func TestRemoveClosesAndRecreatesFresh(t *testing.T) {
	st := NewStore()
	s := st.GetOrCreate("g1")
	conn := &fakeConn{}
	if !s.SetConnection(conn) {
		t.Fatal("SetConnection refused on fresh session")
	}
	s.Update(func(state *State) {
		state.Queue = append(state.Queue, track.Track{Title: "A"})
		state.Playing = true
		state.Loop = true
	})

	if err := st.Remove("g1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !s.Closed() || conn.stopped != 1 || conn.disconnected != 1 {
		t.Errorf("closed=%v stopped=%d disconnected=%d", s.Closed(), conn.stopped, conn.disconnected)
	}
	if st.Current(s) {
		t.Error("removed session must not be current")
	}

	fresh := st.GetOrCreate("g1")
	if fresh == s {
		t.Fatal("expected a new session after Remove")
	}
	snap := fresh.Snapshot()
	if snap.Playing || snap.Loop || len(snap.Queue) != 0 {
		t.Errorf("fresh session not idle: %+v", snap)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := newSession("g")
	conn := &fakeConn{}
	s.SetConnection(conn)
	_ = s.Close()
	_ = s.Close()
	if conn.disconnected != 1 {
		t.Errorf("disconnected %d times", conn.disconnected)
	}
	if s.SetConnection(&fakeConn{}) {
		t.Error("closed session must refuse a connection")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newSession("g")
	s.Update(func(st *State) {
		st.Queue = []track.Track{{Title: "A"}}
		st.Current = &track.Track{Title: "C"}
	})

	snap := s.Snapshot()
	snap.Queue[0].Title = "changed"
	snap.Current.Title = "changed"

	again := s.Snapshot()
	if again.Queue[0].Title != "A" || again.Current.Title != "C" {
		t.Errorf("snapshot aliased session state: %+v", again)
	}
}

func TestCloseAll(t *testing.T) {
	st := NewStore()
	st.GetOrCreate("a")
	st.GetOrCreate("b")
	st.CloseAll()
	if st.Len() != 0 {
		t.Errorf("Len = %d after CloseAll", st.Len())
	}
}

func TestRemoveIf(t *testing.T) {
	st := NewStore()
	s := st.GetOrCreate("g1")
	conn := &fakeConn{}
	s.SetConnection(conn)
	s.Update(func(st *State) { st.Queue = append(st.Queue, track.Track{Title: "a"}) })

	idle := func(st State) bool { return len(st.Queue) == 0 }
	if removed, _ := st.RemoveIf("g1", idle); removed {
		t.Fatal("removed a session with queued tracks")
	}
	if conn.disconnected != 0 {
		t.Fatal("kept session was disconnected")
	}

	s.Update(func(st *State) { st.Queue = nil })
	if removed, err := st.RemoveIf("g1", idle); !removed || err != nil {
		t.Fatalf("RemoveIf = %v, %v", removed, err)
	}
	if _, ok := st.Get("g1"); ok || !s.Closed() || conn.disconnected != 1 {
		t.Errorf("session not released: closed=%v disconnects=%d", s.Closed(), conn.disconnected)
	}
	if removed, _ := st.RemoveIf("missing", idle); removed {
		t.Error("removed a guild with no session")
	}
}
