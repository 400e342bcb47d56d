package timetable

import "time"

// NextTrigger возвращает ближайший будущий момент срабатывания
// для фиксированного времени дня hour:minute в таймзоне now.
//
// Если целевое время сегодня ещё не наступило, вернётся сегодняшнее.
// Ровно в момент срабатывания и позже — завтрашнее, чтобы исключить
// повторное срабатывание на границе.
func NextTrigger(now time.Time, hour, minute int) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if now.Before(target) {
		return target
	}
	return target.AddDate(0, 0, 1)
}

// HolidaySet неизменяемый набор календарных дат (локальных),
// в которые автоматическая рассылка не выполняется.
type HolidaySet map[string]struct{}

const holidayKeyLayout = "2006-01-02"

// NewHolidaySet строит набор из дат.
func NewHolidaySet(dates []time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d.Format(holidayKeyLayout)] = struct{}{}
	}
	return set
}

// Contains проверяет входит ли дата в набор (время суток игнорируется).
func (s HolidaySet) Contains(date time.Time) bool {
	_, ok := s[date.Format(holidayKeyLayout)]
	return ok
}

// IsEligibleDay сообщает, можно ли в этот день отправлять автоматический
// дайджест: не выходной и не праздник.
func IsEligibleDay(date time.Time, holidays HolidaySet) bool {
	wd := date.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !holidays.Contains(date)
}
