package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/athtracker/athtracker-backend/internal/model"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// NewTestLogger returns a logger that records entries in the returned hook
// and writes nothing.
func NewTestLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

// WriteCatalog writes assets as a JSON catalog file under dir and returns
// its path.
func WriteCatalog(t *testing.T, dir string, assets []model.Asset) string {
	t.Helper()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(assets); err != nil {
		t.Fatalf("Failed to encode catalog: %v", err)
	}
	return WriteCatalogFile(t, dir, bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// WriteCatalogFile writes raw catalog content under dir and returns its path.
func WriteCatalogFile(t *testing.T, dir string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, "assets.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}
	return path
}
