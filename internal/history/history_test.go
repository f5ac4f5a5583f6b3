package history

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	s.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestNextDocumentNumberFormatAndMonotonic(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "history.json"))

	seen := make(map[string]bool)
	var prev string
	for i := 1; i <= 25; i++ {
		n, err := s.NextDocumentNumber()
		if err != nil {
			t.Fatalf("next number: %v", err)
		}
		want := fmt.Sprintf("KP-2026-%04d", i)
		if n != want {
			t.Fatalf("expected %s, got %s", want, n)
		}
		if seen[n] {
			t.Fatalf("number %s repeated", n)
		}
		if n <= prev {
			t.Fatalf("numbers not strictly increasing: %s after %s", n, prev)
		}
		seen[n] = true
		prev = n
	}
}

func TestSequenceSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	s := openStore(t, path)
	if _, err := s.NextDocumentNumber(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := s.NextDocumentNumber(); err != nil {
		t.Fatalf("next: %v", err)
	}

	reopened := openStore(t, path)
	n, err := reopened.NextDocumentNumber()
	if err != nil {
		t.Fatalf("next after reopen: %v", err)
	}
	if n != "KP-2026-0003" {
		t.Fatalf("expected KP-2026-0003 after reopen, got %s", n)
	}
}

func TestRecordPrependsAndCaps(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "history.json"))

	for i := 1; i <= maxRecords+10; i++ {
		rec := Record{DocNumber: fmt.Sprintf("KP-2026-%04d", i), TotalQty: i}
		if err := s.Record(rec); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	list := s.List()
	if len(list) != maxRecords {
		t.Fatalf("expected cap of %d, got %d", maxRecords, len(list))
	}
	// most-recent-first: the newest entry leads, the oldest 10 dropped
	if list[0].DocNumber != fmt.Sprintf("KP-2026-%04d", maxRecords+10) {
		t.Fatalf("expected newest first, got %s", list[0].DocNumber)
	}
	if list[len(list)-1].DocNumber != "KP-2026-0011" {
		t.Fatalf("expected oldest retained to be 0011, got %s", list[len(list)-1].DocNumber)
	}
}

func TestByDocNumber(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "history.json"))

	if err := s.Record(Record{DocNumber: "KP-2026-0001", TotalUsd: 25}); err != nil {
		t.Fatalf("record: %v", err)
	}

	rec, err := s.ByDocNumber("KP-2026-0001")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if rec.TotalUsd != 25 {
		t.Fatalf("unexpected record: %#v", rec)
	}

	if _, err := s.ByDocNumber("KP-2026-9999"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordsPersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	s := openStore(t, path)
	if err := s.Record(Record{DocNumber: "KP-2026-0001"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	reopened := openStore(t, path)
	if len(reopened.List()) != 1 {
		t.Fatalf("expected 1 record after reopen, got %d", len(reopened.List()))
	}
}
