package bridge

import (
	"fmt"
	"testing"
)

func TestDebugLogBounded(t *testing.T) {
	l := NewDebugLog()
	for i := 0; i < 100; i++ {
		l.Push(fmt.Sprintf("entry %d", i))
	}
	if l.Len() != DebugLogCap {
		t.Fatalf("Len=%d, want %d", l.Len(), DebugLogCap)
	}
	snap := l.Snapshot()
	if len(snap) != DebugLogCap {
		t.Fatalf("snapshot len=%d", len(snap))
	}
	// Oldest evicted first: entries 80..99 remain, in order.
	for i, e := range snap {
		want := fmt.Sprintf("entry %d", 80+i)
		if e.Text != want {
			t.Fatalf("snap[%d]=%q, want %q", i, e.Text, want)
		}
	}
}

func TestDebugLogPartialFill(t *testing.T) {
	l := NewDebugLog()
	l.Push("a")
	l.Push("b")
	snap := l.Snapshot()
	if len(snap) != 2 || snap[0].Text != "a" || snap[1].Text != "b" {
		t.Fatalf("snapshot=%v", snap)
	}
}

func TestDebugLogClear(t *testing.T) {
	l := NewDebugLog()
	for i := 0; i < 30; i++ {
		l.Push("x")
	}
	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("Len after clear=%d", l.Len())
	}
	if l.Snapshot() != nil {
		t.Fatal("snapshot after clear should be nil")
	}
	l.Push("fresh")
	if got := l.Snapshot(); len(got) != 1 || got[0].Text != "fresh" {
		t.Fatalf("snapshot after repopulate=%v", got)
	}
}
