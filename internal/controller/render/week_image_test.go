package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/cadudev/timetable_bot/internal/model"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

var renderLoc = time.FixedZone("UTC+1", 3600)

func renderEntry(day, hour int) model.ScheduleEntry {
	start := time.Date(2025, 4, day, hour, 0, 0, 0, renderLoc)
	return model.ScheduleEntry{
		Title:       "PROG101",
		Description: "Programming",
		Room:        "3.108",
		Start:       start.Unix(),
		End:         start.Add(90 * time.Minute).Unix(),
	}
}

func TestWeekImageProducesPNG(t *testing.T) {
	now := time.Date(2025, 4, 29, 14, 0, 0, 0, renderLoc)
	entries := []model.ScheduleEntry{
		renderEntry(28, 8),
		renderEntry(29, 10),
		renderEntry(30, 14),
	}

	img, err := WeekImage(entries, now, renderLoc)
	if err != nil {
		t.Fatalf("WeekImage returned error: %v", err)
	}
	if !bytes.HasPrefix(img, pngSignature) {
		t.Error("output does not start with a PNG signature")
	}
}

func TestWeekImageEmptyWeek(t *testing.T) {
	now := time.Date(2025, 4, 29, 14, 0, 0, 0, renderLoc)

	// Пустая неделя тоже рисуется: сетка без блоков
	img, err := WeekImage(nil, now, renderLoc)
	if err != nil {
		t.Fatalf("WeekImage returned error: %v", err)
	}
	if !bytes.HasPrefix(img, pngSignature) {
		t.Error("output does not start with a PNG signature")
	}
}

func TestWeekImageIgnoresMalformedEntries(t *testing.T) {
	now := time.Date(2025, 4, 29, 14, 0, 0, 0, renderLoc)
	broken := renderEntry(29, 10)
	broken.Room = ""

	if _, err := WeekImage([]model.ScheduleEntry{broken}, now, renderLoc); err != nil {
		t.Fatalf("WeekImage returned error: %v", err)
	}
}
