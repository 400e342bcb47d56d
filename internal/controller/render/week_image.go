package render

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/cadudev/timetable_bot/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 80
	leftLabelsWidth = 70
	dayPaddingX     = 6
	minBlockHeight  = 10.0
	blockRadius     = 5.0
	totalDaysInWeek = 7
	hourPaddingTop  = 1
	hourPaddingBot  = 1
	defaultMinHour  = 7
	defaultMaxHour  = 18
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	todayBgColor   = color.NRGBA{255, 99, 71, 60}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{225, 225, 225, 255}

	blockColor     = color.RGBA{133, 193, 85, 220}
	blockTextColor = color.RGBA{20, 24, 28, 230}
)

// weekBounds границы недели (Пн-Вс)
type weekBounds struct {
	start time.Time
	end   time.Time
}

// hourRange диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

// WeekImage рисует сетку текущей недели с занятиями и возвращает PNG.
// Записи вне недели игнорируются, некорректные пропускаются.
func WeekImage(entries []model.ScheduleEntry, now time.Time, loc *time.Location) ([]byte, error) {
	local := now.In(loc)
	week := normalizeToWeekBounds(local)
	today := normalizeToDay(local)

	weekEntries := filterWeek(entries, week, loc)
	byDay := groupByDay(weekEntries, loc)
	hours := calculateHourRange(weekEntries, loc)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dayWidth := (imageWidth - leftLabelsWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, week)
	drawHourLabels(dc, hours, cellHeight)
	drawDays(dc, week, today, byDay, hours, dayWidth, dayHeight, cellHeight, loc)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}
	return buf.Bytes(), nil
}

// normalizeToWeekBounds нормализует дату к границам недели (Пн-Вс)
func normalizeToWeekBounds(date time.Time) weekBounds {
	normalized := normalizeToDay(date)

	daysSinceMonday := int(normalized.Weekday()) - 1
	if normalized.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}

	start := normalized.AddDate(0, 0, -daysSinceMonday)
	end := start.AddDate(0, 0, 6)

	return weekBounds{start: start, end: end}
}

// normalizeToDay нормализует время к началу дня
func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func filterWeek(entries []model.ScheduleEntry, week weekBounds, loc *time.Location) []model.ScheduleEntry {
	weekEnd := week.end.AddDate(0, 0, 1)
	var out []model.ScheduleEntry
	for _, e := range entries {
		if !e.Valid() {
			continue
		}
		start := time.Unix(e.Start, 0).In(loc)
		if !start.Before(week.start) && start.Before(weekEnd) {
			out = append(out, e)
		}
	}
	return out
}

// groupByDay группирует занятия по дням недели
func groupByDay(entries []model.ScheduleEntry, loc *time.Location) map[string][]model.ScheduleEntry {
	byDay := make(map[string][]model.ScheduleEntry)
	for _, e := range entries {
		key := time.Unix(e.Start, 0).In(loc).Format("2006-01-02")
		byDay[key] = append(byDay[key], e)
	}
	return byDay
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(entries []model.ScheduleEntry, loc *time.Location) hourRange {
	minHour := 24
	maxHour := 0

	for _, e := range entries {
		start := time.Unix(e.Start, 0).In(loc)
		end := time.Unix(e.End, 0).In(loc)
		startH := start.Hour()
		endH := end.Hour()
		if end.Minute() > 0 {
			endH++
		}
		if startH < minHour {
			minHour = startH
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 23 {
		endHour = 23
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour + 1,
	}
}

// drawHeader рисует заголовок с границами недели
func drawHeader(dc *gg.Context, week weekBounds) {
	title := fmt.Sprintf("%s – %s", week.start.Format("02.01.2006"), week.end.Format("02.01.2006"))

	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, imageWidth/2, headerHeight/4, 0.5, 0.5)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx < hours.total; hIdx++ {
		actualHour := hours.start + hIdx
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		label := fmt.Sprintf("%02d:00", actualHour)
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-8, y, 1, 0.5)
	}
}

// drawDays рисует колонки дней с блоками занятий
func drawDays(dc *gg.Context, week weekBounds, today time.Time,
	byDay map[string][]model.ScheduleEntry, hours hourRange,
	dayWidth, dayHeight int, cellHeight float64, loc *time.Location) {

	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		date := week.start.AddDate(0, 0, dayIndex)
		x := float64(leftLabelsWidth + dayIndex*dayWidth)

		// Фон колонки: чередуем оттенки, сегодня подсвечиваем
		switch {
		case date.Equal(today):
			dc.SetColor(todayBgColor)
		case dayIndex%2 == 0:
			dc.SetColor(evenDayColor)
		default:
			dc.SetColor(oddDayColor)
		}
		dc.DrawRectangle(x, headerHeight, float64(dayWidth), float64(dayHeight))
		dc.Fill()

		// Подпись дня
		dc.SetColor(textColor)
		label := fmt.Sprintf("%s %s", date.Weekday().String()[:3], date.Format("02.01"))
		dc.DrawStringAnchored(label, x+float64(dayWidth)/2, float64(headerHeight)-14, 0.5, 0.5)

		// Линии часов
		dc.SetColor(hourLineColor)
		dc.SetLineWidth(0.5)
		for hIdx := 0; hIdx < hours.total; hIdx++ {
			y := float64(headerHeight) + float64(hIdx)*cellHeight
			dc.DrawLine(x, y, x+float64(dayWidth), y)
			dc.Stroke()
		}

		for _, e := range byDay[date.Format("2006-01-02")] {
			drawEntryBlock(dc, e, x, hours, dayWidth, cellHeight, loc)
		}
	}
}

// drawEntryBlock рисует один блок занятия в колонке дня
func drawEntryBlock(dc *gg.Context, e model.ScheduleEntry, dayX float64,
	hours hourRange, dayWidth int, cellHeight float64, loc *time.Location) {

	start := time.Unix(e.Start, 0).In(loc)
	end := time.Unix(e.End, 0).In(loc)

	startOffset := float64(start.Hour()-hours.start) + float64(start.Minute())/60
	endOffset := float64(end.Hour()-hours.start) + float64(end.Minute())/60

	y := float64(headerHeight) + startOffset*cellHeight
	height := (endOffset - startOffset) * cellHeight
	if height < minBlockHeight {
		height = minBlockHeight
	}

	dc.SetColor(blockColor)
	dc.DrawRoundedRectangle(dayX+dayPaddingX, y, float64(dayWidth)-2*dayPaddingX, height, blockRadius)
	dc.Fill()

	dc.SetColor(blockTextColor)
	timeLabel := fmt.Sprintf("%s–%s %s", start.Format("15:04"), end.Format("15:04"), e.Room)
	dc.DrawStringAnchored(timeLabel, dayX+float64(dayWidth)/2, y+10, 0.5, 0.5)

	if height > 26 {
		// Обрезаем название, пока оно не влезет в ширину колонки
		maxW := float64(dayWidth) - 3*dayPaddingX
		title := []rune(e.Title)
		for len(title) > 0 {
			w, _ := dc.MeasureString(string(title))
			if w <= maxW {
				break
			}
			title = title[:len(title)-1]
		}
		dc.DrawStringAnchored(string(title), dayX+float64(dayWidth)/2, y+24, 0.5, 0.5)
	}
}
