package reconcile

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// fileRecorder appends entries to a daily gzipped JSON-lines file. Each
// Record call writes one gzip member, which readers see as a single stream.
type fileRecorder struct {
	dir    string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewFileRecorder creates a recorder writing under dir.
func NewFileRecorder(dir string, logger zerolog.Logger) Recorder {
	return &fileRecorder{
		dir:    dir,
		logger: logger.With().Str("component", "reconciliation-file").Logger(),
	}
}

// FileName returns the daily file an entry is appended to.
func FileName(e Entry) string {
	return "reconciliation-" + e.RecordedAt.UTC().Format("2006-01-02") + ".jsonl.gz"
}

func (r *fileRecorder) Record(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode reconciliation entry: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0o750); err != nil {
		r.logger.Error().Err(err).Str("dir", r.dir).Msg("failed to create reconciliation directory")
		return fmt.Errorf("failed to create reconciliation directory %s: %w", r.dir, err)
	}

	path := filepath.Join(r.dir, FileName(entry))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		r.logger.Error().Err(err).Str("file", path).Msg("failed to open reconciliation file")
		return fmt.Errorf("failed to open reconciliation file %s: %w", path, err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	if _, err := gz.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write reconciliation entry: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to flush reconciliation entry: %w", err)
	}

	r.logger.Info().
		Str("file", path).
		Str("payment_id", entry.PaymentID).
		Msg("reconciliation entry written")
	return nil
}

// ReadFile reads every entry from a reconciliation file.
func ReadFile(ctx context.Context, path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reconciliation file %s: %w", path, err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
	}
	defer gz.Close()

	var entries []Entry
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("failed to decode reconciliation entry in %s: %w", path, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading reconciliation file %s: %w", path, err)
	}

	return entries, nil
}
