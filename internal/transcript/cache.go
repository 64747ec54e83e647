package transcript

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lancekrogers/yt-summarizer/internal/logger"
)

// Cache is a persistent content-addressed transcript store keyed by video
// ID. It survives process restarts so rate-limited fetches are never
// repeated, and it serializes fetches per ID so concurrent requests for
// the same uncached video trigger a single network call.
type Cache struct {
	db     *sql.DB
	path   string
	logger logger.Logger

	mu       sync.Mutex
	inflight map[string]*inflightFetch
}

type inflightFetch struct {
	done chan struct{}
	tr   *Transcript
	err  error
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS transcripts (
	video_id   TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	fetched_at TEXT NOT NULL,
	cues_json  TEXT NOT NULL
)`

// OpenCache initializes or connects to the transcript cache database.
func OpenCache(path string, log logger.Logger) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(cacheSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Cache{
		db:       db,
		path:     path,
		logger:   log,
		inflight: make(map[string]*inflightFetch),
	}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// GetOrFetch returns the cached transcript for videoID, or invokes fetcher
// exactly once, stores the result, and returns it. Fetch failures propagate
// uncached so a later call re-attempts. The second of two concurrent
// callers for the same uncached ID waits for the first caller's result.
// The bool reports whether the transcript came from cache.
func (c *Cache) GetOrFetch(ctx context.Context, videoID string, fetcher Fetcher) (*Transcript, bool, error) {
	c.mu.Lock()
	if f, ok := c.inflight[videoID]; ok {
		c.mu.Unlock()
		select {
		case <-f.done:
			return f.tr, false, f.err
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
	f := &inflightFetch{done: make(chan struct{})}
	c.inflight[videoID] = f
	c.mu.Unlock()

	defer func() {
		close(f.done)
		c.mu.Lock()
		delete(c.inflight, videoID)
		c.mu.Unlock()
	}()

	if cached, err := c.get(ctx, videoID); err != nil {
		f.err = err
		return nil, false, err
	} else if cached != nil {
		f.tr = cached
		return cached, true, nil
	}

	c.logger.Debug(ctx, "cache miss for %s, fetching", videoID)
	fetched, err := fetcher.Fetch(ctx, videoID)
	if err != nil {
		f.err = err
		return nil, false, err
	}
	if len(fetched.Cues) == 0 {
		// Never poison the cache with an empty entry.
		f.err = fmt.Errorf("%w: empty transcript for %s", ErrNoTranscript, videoID)
		return nil, false, f.err
	}

	// A clear racing with this fetch may remove the row again; the write
	// still happens so a completed network call is not thrown away.
	if err := c.put(ctx, fetched); err != nil {
		c.logger.Warn(ctx, "failed to cache transcript for %s: %v", videoID, err)
	}
	f.tr = fetched
	return fetched, false, nil
}

func (c *Cache) get(ctx context.Context, videoID string) (*Transcript, error) {
	var (
		title     string
		fetchedAt string
		cuesJSON  string
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT title, fetched_at, cues_json FROM transcripts WHERE video_id = ?`, videoID,
	).Scan(&title, &fetchedAt, &cuesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("parse fetched_at: %w", err)
	}
	var cues []Cue
	if err := json.Unmarshal([]byte(cuesJSON), &cues); err != nil {
		return nil, fmt.Errorf("unmarshal cues: %w", err)
	}

	return &Transcript{VideoID: videoID, Title: title, FetchedAt: ts, Cues: cues}, nil
}

func (c *Cache) put(ctx context.Context, tr *Transcript) error {
	cuesJSON, err := json.Marshal(tr.Cues)
	if err != nil {
		return fmt.Errorf("marshal cues: %w", err)
	}
	fetchedAt := tr.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO transcripts (video_id, title, fetched_at, cues_json) VALUES (?, ?, ?, ?)`,
		tr.VideoID, tr.Title, fetchedAt.Format(time.RFC3339Nano), string(cuesJSON),
	)
	if err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	return nil
}

// Clear removes the cache entry for videoID. Returns true if a row existed.
func (c *Cache) Clear(ctx context.Context, videoID string) (bool, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM transcripts WHERE video_id = ?`, videoID)
	if err != nil {
		return false, fmt.Errorf("clear transcript: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ClearAll removes every cached transcript and returns the count removed.
func (c *Cache) ClearAll(ctx context.Context) (int, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM transcripts`)
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// CacheStats reports entry count and stored transcript bytes.
type CacheStats struct {
	Entries    int
	TotalBytes int64
}

// Stats returns aggregate cache statistics.
func (c *Cache) Stats(ctx context.Context) (CacheStats, error) {
	var stats CacheStats
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(LENGTH(cues_json)), 0) FROM transcripts`,
	).Scan(&stats.Entries, &stats.TotalBytes)
	if err != nil {
		return CacheStats{}, fmt.Errorf("query stats: %w", err)
	}
	return stats, nil
}
