package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ksenieor-creator/telegram-bot/internal/ledger"
)

// FileStore Срез данных в JSON-файле. Формат файла совместим со старым
// data.json. Запись через временный файл и rename, чтобы не оставить
// полузаписанный срез при сбое.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) LoadAll(_ context.Context) (ledger.Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ledger.Snapshot{Customers: map[string]*ledger.Customer{}}, nil
		}
		return ledger.Snapshot{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	var snap ledger.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if snap.Customers == nil {
		snap.Customers = map[string]*ledger.Customer{}
	}
	return snap, nil
}

func (s *FileStore) SaveAll(_ context.Context, snap ledger.Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(tmp), err)
	}
	return nil
}
