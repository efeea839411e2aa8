package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brazzinioc/twitter-api/internal/storage"
)

// BackupServiceProvider defines the interface for backup services.
type BackupServiceProvider interface {
	CreateSnapshot() (string, error)
	ListSnapshots() ([]string, error)
}

// BackupService copies the collection files into timestamped snapshot
// directories and prunes the oldest ones beyond the retention count.
type BackupService struct {
	store     *storage.Store
	backupDir string
	retention int
}

// NewBackupService creates a new BackupService.
func NewBackupService(store *storage.Store, backupDir string, retention int) *BackupService {
	return &BackupService{
		store:     store,
		backupDir: backupDir,
		retention: retention,
	}
}

// CreateSnapshot copies every collection file into a new timestamped
// directory and returns its path. The store's per-collection read locks
// guarantee a snapshot never contains a half-written file.
func (s *BackupService) CreateSnapshot() (string, error) {
	name := time.Now().UTC().Format("20060102-150405")
	dst := filepath.Join(s.backupDir, name)

	if err := s.store.Snapshot(dst); err != nil {
		return "", fmt.Errorf("failed to create snapshot %s: %w", name, err)
	}
	log.Info().Str("snapshot", name).Msg("Created collection snapshot")

	if err := s.prune(); err != nil {
		log.Warn().Err(err).Msg("Failed to prune old snapshots")
	}
	return dst, nil
}

// ListSnapshots returns the snapshot directory names, oldest first.
func (s *BackupService) ListSnapshots() ([]string, error) {
	entries, err := os.ReadDir(s.backupDir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// prune removes the oldest snapshots until at most retention remain.
func (s *BackupService) prune() error {
	if s.retention <= 0 {
		return nil
	}
	names, err := s.ListSnapshots()
	if err != nil {
		return err
	}
	for len(names) > s.retention {
		victim := names[0]
		if err := os.RemoveAll(filepath.Join(s.backupDir, victim)); err != nil {
			return err
		}
		log.Info().Str("snapshot", victim).Msg("Pruned old snapshot")
		names = names[1:]
	}
	return nil
}
