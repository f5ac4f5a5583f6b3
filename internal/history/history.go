package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/amplen/quotation-builder/internal/quote"
)

// ErrNotFound is returned by ByDocNumber when no record matches.
var ErrNotFound = errors.New("history: record not found")

// maxRecords caps the retained log; older entries fall off the end.
const maxRecords = 200

// Record is an immutable snapshot of one exported quotation.
type Record struct {
	DocNumber       string           `json:"docNumber"`
	CreatedAt       time.Time        `json:"createdAt"`
	TotalProducts   int              `json:"totalProducts"`
	TotalQty        int              `json:"totalQty"`
	TotalUsd        float64          `json:"totalUsd"`
	IsFullQuotation bool             `json:"isFullQuotation"`
	Items           []quote.LineItem `json:"items"`
}

type state struct {
	Seq     int      `json:"seq"`
	Records []Record `json:"records"`
}

// Store owns the export history log and the document-number sequence. Both
// live in one JSON file on the local device; there is no cross-process
// coordination, which is fine for a single-user tool.
type Store struct {
	mu   sync.Mutex
	path string
	st   state
	now  func() time.Time
}

// Open loads the history file, starting fresh if it does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read history %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.st); err != nil {
		return nil, fmt.Errorf("parse history %s: %w", path, err)
	}
	return s, nil
}

// NextDocumentNumber increments the persisted counter and formats it as
// KP-<year>-<seq padded to 4 digits>. Numbers are never reused, including
// across restarts: the counter is flushed before the number is handed out.
func (s *Store) NextDocumentNumber() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Seq++
	if err := s.flush(); err != nil {
		s.st.Seq--
		return "", err
	}
	return fmt.Sprintf("KP-%d-%04d", s.now().Year(), s.st.Seq), nil
}

// Record prepends the entry (most-recent-first), truncates the log to the
// retention cap and persists. This is the only mutator of the log.
func (s *Store) Record(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	s.st.Records = append([]Record{rec}, s.st.Records...)
	if len(s.st.Records) > maxRecords {
		s.st.Records = s.st.Records[:maxRecords]
	}
	return s.flush()
}

// List returns the retained records, most recent first.
func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.st.Records))
	copy(out, s.st.Records)
	return out
}

// ByDocNumber returns the first record with the given document number.
func (s *Store) ByDocNumber(docNumber string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.st.Records {
		if rec.DocNumber == docNumber {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

func (s *Store) flush() error {
	data, err := json.MarshalIndent(&s.st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
