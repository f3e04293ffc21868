package engine

import (
	"testing"
	"time"
)

func TestTranscript_AppendOrderAndIDs(t *testing.T) {
	tr := NewTranscript()
	at := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)

	e1 := tr.Append("first", at)
	e2 := tr.Append("second", at.Add(time.Second))

	if e1.ID >= e2.ID {
		t.Errorf("expected monotonically increasing IDs, got %d then %d", e1.ID, e2.ID)
	}
	if e1.Timestamp != "10:30:00" {
		t.Errorf("expected display timestamp 10:30:00, got %s", e1.Timestamp)
	}

	entries := tr.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Text != "first" || entries[1].Text != "second" {
		t.Errorf("entries out of order: %+v", entries)
	}
}

func TestTranscript_EntriesReturnsCopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append("original", time.Now())

	entries := tr.Entries()
	entries[0].Text = "mutated"

	if tr.Entries()[0].Text != "original" {
		t.Error("mutating the returned slice should not affect the log")
	}
}

func TestTranscript_Clear_KeepsIDSequence(t *testing.T) {
	tr := NewTranscript()
	e1 := tr.Append("one", time.Now())

	tr.Clear()
	if tr.Len() != 0 {
		t.Fatalf("expected empty log after clear, got %d", tr.Len())
	}

	e2 := tr.Append("two", time.Now())
	if e2.ID <= e1.ID {
		t.Errorf("expected ID sequence to continue across clear, got %d after %d", e2.ID, e1.ID)
	}
}
