package history

import (
	"strings"
	"testing"
	"time"
)

func mustAppend(t *testing.T, l *Ledger, slug string, e Entry) {
	t.Helper()
	if err := l.Append(slug, e); err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestAppendAndList(t *testing.T) {
	l, err := NewLedger(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	mustAppend(t, l, "dana-whitfield", Entry{Type: TypeNote, Timestamp: base, Content: "Met at trade show."})
	mustAppend(t, l, "dana-whitfield", Entry{Type: TypeTranscript, Timestamp: base.Add(time.Hour), Content: "Call: discussed rates."})

	entries, err := l.List("dana-whitfield", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].Type != TypeTranscript {
		t.Errorf("newest first expected, got %q", entries[0].Type)
	}
	if entries[1].Content != "Met at trade show." {
		t.Errorf("content = %q", entries[1].Content)
	}
}

func TestListUnknownContact(t *testing.T) {
	l, _ := NewLedger(t.TempDir())
	entries, err := l.List("nobody", 0)
	if err != nil || entries != nil {
		t.Errorf("got %v, %v", entries, err)
	}
}

func TestAppendCollisionSuffix(t *testing.T) {
	l, _ := NewLedger(t.TempDir())
	ts := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	mustAppend(t, l, "dana-whitfield", Entry{Type: TypeNote, Timestamp: ts, Content: "one"})
	mustAppend(t, l, "dana-whitfield", Entry{Type: TypeNote, Timestamp: ts, Content: "two"})

	entries, _ := l.List("dana-whitfield", 0)
	if len(entries) != 2 {
		t.Fatalf("collision overwrote an entry: %d", len(entries))
	}
}

func TestAppendRejectsUnknownType(t *testing.T) {
	l, _ := NewLedger(t.TempDir())
	if err := l.Append("dana-whitfield", Entry{Type: "voicemail"}); err == nil {
		t.Error("expected error for unknown type")
	}
	if err := l.Append("", Entry{Type: TypeNote}); err == nil {
		t.Error("expected error for empty slug")
	}
}

func TestLatest(t *testing.T) {
	l, _ := NewLedger(t.TempDir())
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	mustAppend(t, l, "dana-whitfield", Entry{Type: TypeTranscript, Timestamp: base, Content: "old call"})
	mustAppend(t, l, "dana-whitfield", Entry{Type: TypeTranscript, Timestamp: base.Add(time.Hour), Content: "new call"})
	mustAppend(t, l, "dana-whitfield", Entry{Type: TypeNote, Timestamp: base.Add(2 * time.Hour), Content: "note A"})
	mustAppend(t, l, "dana-whitfield", Entry{Type: TypeNote, Timestamp: base.Add(3 * time.Hour), Content: "note B"})
	mustAppend(t, l, "dana-whitfield", Entry{Type: TypeEmail, Timestamp: base.Add(4 * time.Hour), Content: "sent draft"})

	hc, err := l.Latest("dana-whitfield")
	if err != nil {
		t.Fatal(err)
	}
	if hc.Transcript != "new call" {
		t.Errorf("transcript = %q", hc.Transcript)
	}
	if hc.Notes != "note B\n\nnote A" {
		t.Errorf("notes = %q", hc.Notes)
	}
}

func TestLatestEmpty(t *testing.T) {
	l, _ := NewLedger(t.TempDir())
	hc, err := l.Latest("nobody")
	if err != nil {
		t.Fatal(err)
	}
	if hc.Transcript != "" || hc.Notes != "" {
		t.Errorf("got %+v", hc)
	}
}

func TestSearch(t *testing.T) {
	l, _ := NewLedger(t.TempDir())
	ts := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	mustAppend(t, l, "dana-whitfield", Entry{Type: TypeNote, Timestamp: ts, Content: "Interested in solar."})
	mustAppend(t, l, "marcus-reed", Entry{Type: TypeNote, Timestamp: ts, Content: "Renewal in spring."})

	entries, err := l.Search("SOLAR")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d matches", len(entries))
	}
	if !strings.HasPrefix(entries[0].ID, "dana-whitfield/") {
		t.Errorf("ID = %q", entries[0].ID)
	}
}

func TestSubjectRoundTrip(t *testing.T) {
	l, _ := NewLedger(t.TempDir())
	ts := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	mustAppend(t, l, "dana-whitfield", Entry{Type: TypeEmail, Subject: "Rate review", Timestamp: ts, Content: "body"})

	entries, _ := l.List("dana-whitfield", 1)
	if len(entries) != 1 || entries[0].Subject != "Rate review" {
		t.Errorf("entries = %#v", entries)
	}
	if !entries[0].Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v", entries[0].Timestamp)
	}
}
