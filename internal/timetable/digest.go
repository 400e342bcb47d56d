package timetable

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cadudev/timetable_bot/internal/model"
)

// ErrInvalidWindow возвращается при отрицательном количестве дней.
// Контроллер не должен пропускать такие значения, но ядро проверяет само.
var ErrInvalidWindow = errors.New("invalid window: days must be non-negative")

// Options настройки построения дайджеста.
type Options struct {
	// SortWithinDay сортирует занятия внутри дня по времени начала.
	// По умолчанию сохраняется порядок, в котором записи пришли от API.
	SortWithinDay bool
}

// Digest результат построения дайджеста.
type Digest struct {
	Text string
	// Empty означает что в окне не нашлось ни одного занятия.
	// Text при этом содержит информационное сообщение, это не ошибка.
	Empty bool
	// Skipped количество пропущенных некорректных записей.
	Skipped int
}

// dayGroup занятия одной календарной даты, в порядке первого появления даты.
type dayGroup struct {
	header  string
	entries []model.ScheduleEntry
}

// BuildDigest фильтрует записи по окну дней и форматирует их в текст.
//
// Семантика окна (границы считаются от локальной полуночи now, не от now):
//
//	days == 0 — только сегодня
//	days == 1 — только завтра
//	days >  1 — [сегодня, сегодня+days)
//
// Запись попадает в окно по локальному времени начала (конец не учитывается).
func BuildDigest(entries []model.ScheduleEntry, days int, now time.Time, loc *time.Location, opts Options) (Digest, error) {
	if days < 0 {
		return Digest{}, fmt.Errorf("%w: got %d", ErrInvalidWindow, days)
	}

	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	var windowStart, windowEnd time.Time
	switch {
	case days == 0:
		windowStart = midnight
		windowEnd = midnight.AddDate(0, 0, 1)
	case days == 1:
		windowStart = midnight.AddDate(0, 0, 1)
		windowEnd = midnight.AddDate(0, 0, 2)
	default:
		windowStart = midnight
		windowEnd = midnight.AddDate(0, 0, days)
	}

	skipped := 0
	var filtered []model.ScheduleEntry
	for _, e := range entries {
		if !e.Valid() {
			skipped++
			continue
		}
		start := time.Unix(e.Start, 0).In(loc)
		// Полуоткрытый интервал: start == windowEnd уже не входит
		if !start.Before(windowStart) && start.Before(windowEnd) {
			filtered = append(filtered, e)
		}
	}

	if len(filtered) == 0 {
		return Digest{Text: emptyMessage(days), Empty: true, Skipped: skipped}, nil
	}

	// Группируем по локальной дате, сохраняя порядок первого появления даты
	groupIndex := make(map[string]int)
	var groups []dayGroup
	for _, e := range filtered {
		start := time.Unix(e.Start, 0).In(loc)
		header := start.Format("Monday, 02.01.2006")
		idx, ok := groupIndex[header]
		if !ok {
			idx = len(groups)
			groupIndex[header] = idx
			groups = append(groups, dayGroup{header: header})
		}
		groups[idx].entries = append(groups[idx].entries, e)
	}

	if opts.SortWithinDay {
		for i := range groups {
			sort.SliceStable(groups[i].entries, func(a, b int) bool {
				return groups[i].entries[a].Start < groups[i].entries[b].Start
			})
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 Timetable for %s\n\n", windowLabel(days)))

	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("📌 %s\n", g.header))
		for _, e := range g.entries {
			start := time.Unix(e.Start, 0).In(loc)
			end := time.Unix(e.End, 0).In(loc)
			sb.WriteString(fmt.Sprintf("📚 %s\n", e.Description))
			sb.WriteString(fmt.Sprintf("🕒 %s–%s\n", start.Format("15:04"), end.Format("15:04")))
			sb.WriteString(fmt.Sprintf("🏫 Room: %s\n", e.Room))
			if e.Remarks != "" {
				sb.WriteString(fmt.Sprintf("📝 Note: %s\n", e.Remarks))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return Digest{Text: strings.TrimSpace(sb.String()), Skipped: skipped}, nil
}

func windowLabel(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("the next %d days", days)
	}
}

func emptyMessage(days int) string {
	switch days {
	case 0:
		return "ℹ️ No timetable found for today."
	case 1:
		return "ℹ️ No timetable found for tomorrow."
	default:
		return fmt.Sprintf("ℹ️ No timetable found for the next %d days.", days)
	}
}
