package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/athtracker/athtracker-backend/internal/apperrors"
	"github.com/athtracker/athtracker-backend/internal/model"
)

// BackupWriter writes timestamped JSON snapshots of a catalog.
type BackupWriter struct {
	dir string
	now func() time.Time
}

func NewBackupWriter(dir string) *BackupWriter {
	return &BackupWriter{dir: dir, now: time.Now}
}

// Write stores assets as backups/assets-backup-<timestamp>.json and returns
// the file path. The timestamp is RFC 3339 in UTC with ':' and '.' replaced
// by '-' so it is safe in file names.
func (b *BackupWriter) Write(assets []model.Asset) (string, error) {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToWriteBackup, err)
	}

	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(b.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	path := filepath.Join(b.dir, fmt.Sprintf("assets-backup-%s.json", stamp))

	if err := writeJSONFile(path, assets); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFailedToWriteBackup, err)
	}
	return path, nil
}
