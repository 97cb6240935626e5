package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrIndexOutOfRange = errors.New("ledger index out of range")

// Ledger is an append-only hash chain of snapshot references. Appends and verification
// share one lock so Verify never observes a half-written link.
type Ledger struct {
	mu       sync.Mutex
	id       string
	now      func() time.Time
	entries  []Entry
	lastHash string
}

func New(id string, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{id: id, now: now}
}

// Restore rebuilds a ledger from persisted entries without checking them; call Verify for
// that.
func Restore(id string, entries []Entry, now func() time.Time) *Ledger {
	l := New(id, now)
	l.entries = append([]Entry(nil), entries...)
	if n := len(l.entries); n > 0 {
		l.lastHash = l.entries[n-1].SnapshotHash
	}
	return l
}

func (l *Ledger) ID() string { return l.id }

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Head returns the latest chain hash, empty for an empty ledger.
func (l *Ledger) Head() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastHash
}

// AddSnapshot appends a link referencing summary. The payload is hashed into ContentHash.
func (l *Ledger) AddSnapshot(summary string, payload any) (Entry, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, fmt.Errorf("encode snapshot payload: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now().UTC().Truncate(time.Millisecond)
	entry := Entry{
		Index:        len(l.entries),
		Timestamp:    ts,
		SnapshotHash: ReferenceDigest(l.lastHash, summary, ts),
		PrevHash:     l.lastHash,
		PayloadRef:   summary,
		ContentHash:  Digest(string(body)),
	}
	l.entries = append(l.entries, entry)
	l.lastHash = entry.SnapshotHash
	return entry, nil
}

// Verify walks the chain from index 0 and stops at the first entry whose stored
// snapshot hash disagrees with ReferenceDigest on the first PrefixLen characters.
func (l *Ledger) Verify() VerifyResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	running := ""
	for i, e := range l.entries {
		expected := ReferenceDigest(running, e.PayloadRef, e.Timestamp)
		if prefix(expected) != prefix(e.SnapshotHash) {
			return VerifyResult{
				OK:      false,
				Checked: i + 1,
				Tamper: &TamperEvent{
					ID:           fmt.Sprintf("%s/%d", l.id, e.Index),
					Index:        e.Index,
					Timestamp:    e.Timestamp,
					Field:        FieldSnapshotHash,
					ExpectedHash: expected,
					ActualHash:   e.SnapshotHash,
					Severity:     SeverityCritical,
				},
			}
		}
		running = e.SnapshotHash
	}
	return VerifyResult{OK: true, Checked: len(l.entries)}
}

// VerifyContent reports whether payload hashes to the ContentHash stored at index.
func (l *Ledger) VerifyContent(index int, payload any) (bool, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("encode snapshot payload: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.entries) {
		return false, ErrIndexOutOfRange
	}
	return l.entries[index].ContentHash == Digest(string(body)), nil
}

// Entries returns a copy of the chain.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}
