package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeHolidaysFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holidays.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write holidays file: %v", err)
	}
	return path
}

func TestLoadHolidays(t *testing.T) {
	path := writeHolidaysFile(t, `holidays:
  - 2025-01-01
  - 2025-05-01
  - 2025-12-25
`)

	set, err := LoadHolidays(path)
	if err != nil {
		t.Fatalf("LoadHolidays returned error: %v", err)
	}

	if len(set) != 3 {
		t.Errorf("got %d holidays, want 3", len(set))
	}
	if !set.Contains(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Error("2025-05-01 should be a holiday")
	}
	if set.Contains(time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)) {
		t.Error("2025-05-02 should not be a holiday")
	}
}

func TestLoadHolidaysMissingFile(t *testing.T) {
	set, err := LoadHolidays(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be an error, got %v", err)
	}
	if len(set) != 0 {
		t.Errorf("got %d holidays, want 0", len(set))
	}
}

func TestLoadHolidaysInvalidDate(t *testing.T) {
	path := writeHolidaysFile(t, `holidays:
  - 01.05.2025
`)

	if _, err := LoadHolidays(path); err == nil {
		t.Fatal("expected error for invalid date format")
	}
}

func TestLoadHolidaysInvalidYAML(t *testing.T) {
	path := writeHolidaysFile(t, "holidays: [unclosed")

	if _, err := LoadHolidays(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}
