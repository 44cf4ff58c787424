package stream

import (
	"testing"
)

func TestObserveClientStream(t *testing.T) {
	m := NewManager()

	if err := m.ObserveClientStream(1); err != nil {
		t.Fatalf("stream 1: %v", err)
	}
	if err := m.ObserveClientStream(5); err != nil {
		t.Fatalf("stream 5: %v", err)
	}
	if m.LastClientStream() != 5 {
		t.Errorf("LastClientStream = %d, want 5", m.LastClientStream())
	}

	if err := m.ObserveClientStream(3); err == nil {
		t.Errorf("expected error for non-increasing stream id 3")
	}
	if err := m.ObserveClientStream(5); err == nil {
		t.Errorf("expected error for reused stream id 5")
	}
	if err := m.ObserveClientStream(6); err == nil {
		t.Errorf("expected error for even client stream id 6")
	}
	if err := m.ObserveClientStream(0); err == nil {
		t.Errorf("expected error for stream id 0")
	}
}

func TestReservePromisedID(t *testing.T) {
	m := NewManager()
	if id := m.ReservePromisedID(); id != 2 {
		t.Errorf("first promised id = %d, want 2", id)
	}
	if id := m.ReservePromisedID(); id != 4 {
		t.Errorf("second promised id = %d, want 4", id)
	}
}

func TestStreamTable(t *testing.T) {
	m := NewManager()
	s := m.Create(1)
	if s.Local != LocalIdle {
		t.Errorf("new stream local state = %v, want idle", s.Local)
	}
	if s.Remote != RemoteNoFin {
		t.Errorf("new stream remote state = %v, want nofin", s.Remote)
	}

	got, ok := m.Get(1)
	if !ok || got != s {
		t.Fatalf("Get(1) did not return the created stream")
	}
	if m.Count() != 1 {
		t.Errorf("Count = %d, want 1", m.Count())
	}

	m.Delete(1)
	if _, ok := m.Get(1); ok {
		t.Errorf("stream still present after Delete")
	}
	if m.Count() != 0 {
		t.Errorf("Count = %d, want 0", m.Count())
	}
}

func TestChildRegistry(t *testing.T) {
	m := NewManager()
	var stopped []int

	m.RegisterChild(1, func() { stopped = append(stopped, 1) })
	m.RegisterChild(1, func() { stopped = append(stopped, 2) })
	m.RegisterChild(3, func() { stopped = append(stopped, 3) })

	m.StopChildren(1)
	if len(stopped) != 2 {
		t.Fatalf("StopChildren(1) ran %d stops, want 2", len(stopped))
	}

	// Stopping again must be a no-op.
	m.StopChildren(1)
	if len(stopped) != 2 {
		t.Errorf("second StopChildren(1) re-ran stops")
	}

	m.StopAllChildren()
	if len(stopped) != 3 {
		t.Errorf("StopAllChildren left children running: %v", stopped)
	}
}

func TestLocalStateString(t *testing.T) {
	if LocalIdle.String() != "idle" || LocalNoFin.String() != "nofin" || LocalFin.String() != "fin" {
		t.Errorf("unexpected LocalState strings: %v %v %v", LocalIdle, LocalNoFin, LocalFin)
	}
}
