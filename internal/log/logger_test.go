package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRotateWriter(t *testing.T) {
	dir := t.TempDir()
	writer := NewRotateFileWriter(dir, "sockinfo.log", 1)
	_, err := writer.Write([]byte("aha"))
	if err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "sockinfo.log.") {
			found = true
		}
	}
	if !found {
		t.Error("no rotated log file created")
	}

	now := time.Now()
	writer.clearExpiredFiles(now)
}

func TestClearExpiredFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().Local()
	stale := now.Add(-3 * time.Hour).Format(rotateTimeLayout)
	fresh := now.Format(rotateTimeLayout)
	for _, suffix := range []string{stale, fresh} {
		path := filepath.Join(dir, "sockinfo.log."+suffix)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	writer := NewRotateFileWriter(dir, "sockinfo.log", 1)
	writer.clearExpiredFiles(now)

	if _, err := os.Stat(filepath.Join(dir, "sockinfo.log."+stale)); !os.IsNotExist(err) {
		t.Error("stale log file not removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "sockinfo.log."+fresh)); err != nil {
		t.Error("fresh log file removed")
	}
}
