package timetable

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cadudev/timetable_bot/internal/model"
)

var testLoc = time.FixedZone("UTC+1", 3600)

// now в тестах: вторник 29.04.2025, 14:00 локального времени
var testNow = time.Date(2025, 4, 29, 14, 0, 0, 0, testLoc)

func entryAt(start, end time.Time) model.ScheduleEntry {
	return model.ScheduleEntry{
		Title:       "PROG101",
		Description: "Programming",
		Room:        "3.108",
		Start:       start.Unix(),
		End:         end.Unix(),
	}
}

func localTime(day, hour, minute int) time.Time {
	return time.Date(2025, 4, day, hour, minute, 0, 0, testLoc)
}

func TestBuildDigestWindowMembership(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		days     int
		included bool
	}{
		{"start of today is included", localTime(29, 0, 0), 0, true},
		{"late today is included", localTime(29, 23, 50), 0, true},
		{"already passed today is included", localTime(29, 9, 0), 0, true},
		{"tomorrow midnight is excluded for today", localTime(30, 0, 0), 0, false},
		{"yesterday is excluded for today", localTime(28, 23, 59), 0, false},
		{"tomorrow entry for tomorrow window", localTime(30, 10, 0), 1, true},
		{"today entry excluded from tomorrow window", localTime(29, 10, 0), 1, false},
		{"second day included in 3-day window", localTime(1, 10, 0).AddDate(0, 1, 0), 3, true},
		{"fourth day excluded from 3-day window", localTime(2, 10, 0).AddDate(0, 1, 0), 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := []model.ScheduleEntry{entryAt(tt.start, tt.start.Add(90*time.Minute))}

			digest, err := BuildDigest(entries, tt.days, testNow, testLoc, Options{})
			if err != nil {
				t.Fatalf("BuildDigest returned error: %v", err)
			}

			if tt.included && digest.Empty {
				t.Errorf("entry starting at %v should be inside %d-day window", tt.start, tt.days)
			}
			if !tt.included && !digest.Empty {
				t.Errorf("entry starting at %v should be outside %d-day window", tt.start, tt.days)
			}
		})
	}
}

func TestBuildDigestMembershipUsesStartTimeOnly(t *testing.T) {
	// Занятие 23:50-00:10 относится ко дню начала
	start := localTime(29, 23, 50)
	end := localTime(30, 0, 10)

	digest, err := BuildDigest([]model.ScheduleEntry{entryAt(start, end)}, 0, testNow, testLoc, Options{})
	if err != nil {
		t.Fatalf("BuildDigest returned error: %v", err)
	}
	if digest.Empty {
		t.Error("entry crossing midnight should belong to the day it starts")
	}
}

func TestBuildDigestNegativeDays(t *testing.T) {
	_, err := BuildDigest(nil, -1, testNow, testLoc, Options{})
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestBuildDigestEmptyMessages(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{0, "ℹ️ No timetable found for today."},
		{1, "ℹ️ No timetable found for tomorrow."},
		{5, "ℹ️ No timetable found for the next 5 days."},
	}

	for _, tt := range tests {
		digest, err := BuildDigest(nil, tt.days, testNow, testLoc, Options{})
		if err != nil {
			t.Fatalf("BuildDigest(days=%d) returned error: %v", tt.days, err)
		}
		if !digest.Empty {
			t.Errorf("days=%d: expected empty digest", tt.days)
		}
		if digest.Text != tt.want {
			t.Errorf("days=%d: got %q, want %q", tt.days, digest.Text, tt.want)
		}
	}
}

func TestBuildDigestFormatting(t *testing.T) {
	e := entryAt(localTime(29, 10, 0), localTime(29, 11, 30))
	e.Remarks = "bring laptop"

	digest, err := BuildDigest([]model.ScheduleEntry{e}, 0, testNow, testLoc, Options{})
	if err != nil {
		t.Fatalf("BuildDigest returned error: %v", err)
	}

	for _, want := range []string{
		"📅 Timetable for today",
		"📌 Tuesday, 29.04.2025",
		"📚 Programming",
		"🕒 10:00–11:30",
		"🏫 Room: 3.108",
		"📝 Note: bring laptop",
	} {
		if !strings.Contains(digest.Text, want) {
			t.Errorf("digest missing %q:\n%s", want, digest.Text)
		}
	}
}

func TestBuildDigestConvertsUTCToLocal(t *testing.T) {
	// 09:00 UTC это 10:00 в UTC+1
	utcStart := time.Date(2025, 4, 29, 9, 0, 0, 0, time.UTC)

	digest, err := BuildDigest(
		[]model.ScheduleEntry{entryAt(utcStart, utcStart.Add(time.Hour))},
		0, testNow, testLoc, Options{})
	if err != nil {
		t.Fatalf("BuildDigest returned error: %v", err)
	}
	if !strings.Contains(digest.Text, "🕒 10:00–11:00") {
		t.Errorf("expected local times 10:00–11:00 in digest:\n%s", digest.Text)
	}
}

func TestBuildDigestGroupingPreservesFetchOrder(t *testing.T) {
	day1 := localTime(29, 9, 0)
	day2 := localTime(30, 9, 0)

	first := entryAt(day2, day2.Add(time.Hour))
	first.Description = "First fetched"
	second := entryAt(day1, day1.Add(time.Hour))
	second.Description = "Second fetched"
	third := entryAt(day2.Add(2*time.Hour), day2.Add(3*time.Hour))
	third.Description = "Third fetched"

	digest, err := BuildDigest([]model.ScheduleEntry{first, second, third}, 7, testNow, testLoc, Options{})
	if err != nil {
		t.Fatalf("BuildDigest returned error: %v", err)
	}

	// Дата, встреченная первой, идёт первой; внутри даты порядок выборки
	posDay2 := strings.Index(digest.Text, "Wednesday, 30.04.2025")
	posDay1 := strings.Index(digest.Text, "Tuesday, 29.04.2025")
	if posDay2 == -1 || posDay1 == -1 || posDay2 > posDay1 {
		t.Errorf("groups should appear in first-seen order:\n%s", digest.Text)
	}

	posFirst := strings.Index(digest.Text, "First fetched")
	posThird := strings.Index(digest.Text, "Third fetched")
	if posFirst == -1 || posThird == -1 || posFirst > posThird {
		t.Errorf("entries within a day should keep fetch order:\n%s", digest.Text)
	}
}

func TestBuildDigestSortWithinDay(t *testing.T) {
	later := entryAt(localTime(29, 14, 30), localTime(29, 16, 0))
	later.Description = "Afternoon class"
	earlier := entryAt(localTime(29, 8, 0), localTime(29, 9, 30))
	earlier.Description = "Morning class"

	digest, err := BuildDigest([]model.ScheduleEntry{later, earlier}, 0, testNow, testLoc,
		Options{SortWithinDay: true})
	if err != nil {
		t.Fatalf("BuildDigest returned error: %v", err)
	}

	posMorning := strings.Index(digest.Text, "Morning class")
	posAfternoon := strings.Index(digest.Text, "Afternoon class")
	if posMorning == -1 || posAfternoon == -1 || posMorning > posAfternoon {
		t.Errorf("SortWithinDay should order entries chronologically:\n%s", digest.Text)
	}
}

func TestBuildDigestSkipsMalformedEntries(t *testing.T) {
	valid := entryAt(localTime(29, 10, 0), localTime(29, 11, 0))

	noRoom := entryAt(localTime(29, 12, 0), localTime(29, 13, 0))
	noRoom.Room = ""

	inverted := entryAt(localTime(29, 15, 0), localTime(29, 14, 0))

	digest, err := BuildDigest([]model.ScheduleEntry{valid, noRoom, inverted}, 0, testNow, testLoc, Options{})
	if err != nil {
		t.Fatalf("BuildDigest returned error: %v", err)
	}

	if digest.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", digest.Skipped)
	}
	if digest.Empty {
		t.Error("valid entry should survive malformed neighbors")
	}
}

func TestBuildDigestIdempotent(t *testing.T) {
	entries := []model.ScheduleEntry{
		entryAt(localTime(29, 10, 0), localTime(29, 11, 30)),
		entryAt(localTime(30, 8, 0), localTime(30, 9, 30)),
	}

	first, err := BuildDigest(entries, 7, testNow, testLoc, Options{})
	if err != nil {
		t.Fatalf("BuildDigest returned error: %v", err)
	}
	second, err := BuildDigest(entries, 7, testNow, testLoc, Options{})
	if err != nil {
		t.Fatalf("BuildDigest returned error: %v", err)
	}

	if first.Text != second.Text {
		t.Error("identical inputs must produce byte-identical digests")
	}
}
