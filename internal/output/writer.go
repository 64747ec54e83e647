package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lancekrogers/yt-summarizer/internal/logger"
)

// Policy decides what happens when the target file already exists.
type Policy string

const (
	// PolicyOverwrite replaces the existing file.
	PolicyOverwrite Policy = "overwrite"
	// PolicySkip leaves the existing file untouched.
	PolicySkip Policy = "skip"
	// PolicyVersion writes to the lowest free "-N" suffixed name.
	PolicyVersion Policy = "version"
)

// ErrInvalidPolicy indicates an unrecognized conflict policy name.
var ErrInvalidPolicy = errors.New("output: invalid conflict policy")

// ParsePolicy validates a policy name from config or a CLI flag.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyOverwrite, PolicySkip, PolicyVersion:
		return Policy(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
}

// WriteResult reports where a document landed, or that it was skipped.
type WriteResult struct {
	Path    string
	Skipped bool
}

// Writer persists summary documents with conflict handling.
type Writer struct {
	logger logger.Logger
}

func NewWriter(log logger.Logger) *Writer {
	return &Writer{logger: log}
}

// Write saves data to dir/filename according to the policy. Writes go
// through a temp file in the same directory and a rename, so readers
// never observe a half-written document.
func (w *Writer) Write(dir, filename string, data []byte, policy Policy) (WriteResult, error) {
	if _, err := ParsePolicy(string(policy)); err != nil {
		return WriteResult{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return WriteResult{}, fmt.Errorf("output: create %s: %w", dir, err)
	}

	target := filepath.Join(dir, filename)
	if _, err := os.Stat(target); err == nil {
		switch policy {
		case PolicySkip:
			return WriteResult{Path: target, Skipped: true}, nil
		case PolicyVersion:
			target = nextVersion(dir, filename)
		case PolicyOverwrite:
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return WriteResult{}, fmt.Errorf("output: stat %s: %w", target, err)
	}

	if err := atomicWrite(target, data); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Path: target}, nil
}

// nextVersion picks the lowest unused "name-N.ext" starting from 2.
func nextVersion(dir, filename string) string {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for n := 2; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, n, ext))
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate
		}
	}
}

func atomicWrite(target string, data []byte) error {
	tmp := fmt.Sprintf("%s.%s.tmp", target, uuid.NewString()[:8])
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("output: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("output: rename %s: %w", target, err)
	}
	return nil
}
