// Package chatlog persists answered chat exchanges. The file backend appends
// to a CSV compatible with the dashboard's chat history export: one row for
// the user's question and one for the system's reply, both carrying the same
// timestamp.
package chatlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cerradowatch/fire-risk-chat/internal/domain"
)

var historyHeader = []string{"timestamp", "who", "msg"}

const (
	whoUser   = "Você"
	whoSystem = "Sistema"
)

// FileWriter appends chat entries to a CSV file. Safe for concurrent use.
type FileWriter struct {
	path string
	mu   sync.Mutex
}

// NewFileWriter creates a file-backed chat log at path. The file and its
// parent directories are created on the first append.
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

// Append writes the exchange as two CSV rows. The header is written when the
// file is new or empty.
func (w *FileWriter) Append(_ context.Context, entry domain.ChatEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create chat log dir: %w", err)
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open chat log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat chat log: %w", err)
	}

	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := cw.Write(historyHeader); err != nil {
			return fmt.Errorf("write chat log header: %w", err)
		}
	}

	ts := entry.AskedAt.Format(time.RFC3339)
	if err := cw.Write([]string{ts, whoUser, entry.Question}); err != nil {
		return fmt.Errorf("write chat log row: %w", err)
	}
	if err := cw.Write([]string{ts, whoSystem, entry.Answer}); err != nil {
		return fmt.Errorf("write chat log row: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush chat log: %w", err)
	}
	return f.Close()
}
