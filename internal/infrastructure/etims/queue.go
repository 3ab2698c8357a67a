package etims

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukapoint/cloudsales-api/internal/domain/enum"
)

// QueueEntry is one persisted fiscal payload awaiting transmission. Entries are
// never deleted; failed entries stay eligible for future sweeps and operators
// purge manually.
type QueueEntry struct {
	ID               string                 `json:"id"`
	Timestamp        time.Time              `json:"timestamp"`
	InvoiceData      *Invoice               `json:"invoice_data"`
	Status           enum.QueueStatus       `json:"status"`
	TransmissionTime *time.Time             `json:"transmission_time,omitempty"`
	Response         map[string]interface{} `json:"response,omitempty"`
	Error            string                 `json:"error,omitempty"`
	LastAttempt      *time.Time             `json:"last_attempt,omitempty"`
}

// QueueStats summarizes the queue by entry status
type QueueStats struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Transmitted int `json:"transmitted"`
	Failed      int `json:"failed"`
}

// Queue is the append-only offline queue, persisted as a JSON array. A mutex
// serializes file access so sweeps and new checkouts can run concurrently: the
// sweep re-reads the file before each per-entry update and touches only the
// entry it processed, so appends landing mid-sweep are preserved.
type Queue struct {
	path string
	mu   sync.Mutex
}

// NewQueue creates a queue backed by the given file path
func NewQueue(path string) *Queue {
	return &Queue{path: path}
}

// Append adds a pending entry and returns its queue id
func (q *Queue) Append(invoice *Invoice) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.load()
	if err != nil {
		return "", err
	}

	id := "OFFLINE-" + uuid.New().String()[:8]
	entries = append(entries, QueueEntry{
		ID:          id,
		Timestamp:   time.Now(),
		InvoiceData: invoice,
		Status:      enum.QueueStatusPending,
	})

	if err := q.save(entries); err != nil {
		return "", err
	}
	return id, nil
}

// Entries returns a snapshot of all queue entries
func (q *Queue) Entries() ([]QueueEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load()
}

// UpdateEntry re-reads the queue, applies fn to the matching entry and persists.
// Unmatched ids are ignored so an operator purge during a sweep is harmless.
func (q *Queue) UpdateEntry(id string, fn func(*QueueEntry)) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.load()
	if err != nil {
		return err
	}

	for i := range entries {
		if entries[i].ID == id {
			fn(&entries[i])
			return q.save(entries)
		}
	}
	return nil
}

// Stats counts entries by status
func (q *Queue) Stats() (QueueStats, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.load()
	if err != nil {
		return QueueStats{}, err
	}

	stats := QueueStats{Total: len(entries)}
	for _, e := range entries {
		switch e.Status {
		case enum.QueueStatusPending:
			stats.Pending++
		case enum.QueueStatusTransmitted:
			stats.Transmitted++
		case enum.QueueStatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

func (q *Queue) load() ([]QueueEntry, error) {
	data, err := os.ReadFile(q.path)
	if os.IsNotExist(err) {
		return []QueueEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read offline queue: %w", err)
	}

	var entries []QueueEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse offline queue: %w", err)
	}
	return entries, nil
}

func (q *Queue) save(entries []QueueEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(q.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create queue directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".queue-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), q.path)
}
