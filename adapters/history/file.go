package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Tagaingne/dream-synthesizer/domain/entities"
	"github.com/Tagaingne/dream-synthesizer/domain/repositories"
)

// FileStore keeps the dream history as one JSON array on disk. Every
// append is a load-entire-history, push, store-entire-history
// transaction. The store is the single in-process writer of its file;
// concurrent writers from other processes are out of contract.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

var _ repositories.DreamHistory = (*FileStore)(nil)

// NewFileStore creates a store over the log file at path. The file may
// not exist yet; that counts as an empty history.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Append implements repositories.DreamHistory
func (s *FileStore) Append(ctx context.Context, record *entities.DreamRecord) error {
	if record == nil {
		return errors.New("record cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	records = append(records, *record)
	if err := s.store(records); err != nil {
		return err
	}

	s.logger.Info("Dream appended to history",
		zap.String("path", s.path),
		zap.Int("total", len(records)))
	return nil
}

// ListAll implements repositories.DreamHistory
func (s *FileStore) ListAll(ctx context.Context) ([]entities.DreamRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) load() ([]entities.DreamRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.DreamRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var records []entities.DreamRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("corrupt history file %s: %w", s.path, err)
	}
	return records, nil
}

func (s *FileStore) store(records []entities.DreamRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	// Write-then-rename keeps the previous log intact if the write dies
	// halfway.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".history-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp history file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}
