package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Activity statuses beyond the summarization outcomes.
const (
	ActivitySkipped      = "skipped"
	ActivityNoTranscript = "no_transcript"
)

// ActivityEntry is one line in the JSONL activity log.
type ActivityEntry struct {
	Timestamp  int64  `json:"timestamp"`
	VideoID    string `json:"video_id,omitempty"`
	PlanID     string `json:"plan_id,omitempty"`
	Title      string `json:"title,omitempty"`
	Status     string `json:"status"`
	ChunkCount int    `json:"chunk_count,omitempty"`
	Model      string `json:"model,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// ActivityLog records one JSON line per processed video or corpus run.
// Appends are serialized so concurrent workers never interleave lines.
type ActivityLog struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewActivityLog(path string) (*ActivityLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("output: create log dir: %w", err)
	}
	return &ActivityLog{path: path, now: time.Now}, nil
}

// Path returns the file backing this log.
func (l *ActivityLog) Path() string {
	return l.path
}

// Record appends one entry. A zero Timestamp is filled with the current
// time in epoch seconds.
func (l *ActivityLog) Record(entry ActivityEntry) error {
	if entry.Timestamp == 0 {
		entry.Timestamp = l.now().Unix()
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("output: encode activity entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("output: open activity log: %w", err)
	}
	defer file.Close()
	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("output: append activity entry: %w", err)
	}
	return nil
}

// Tail returns up to maxEntries of the most recent entries, oldest
// first. Unparseable lines are skipped.
func (l *ActivityLog) Tail(maxEntries int) ([]ActivityEntry, error) {
	if maxEntries <= 0 {
		return nil, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("output: open activity log: %w", err)
	}
	defer file.Close()

	var entries []ActivityEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry ActivityEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("output: read activity log: %w", err)
	}
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	return entries, nil
}
