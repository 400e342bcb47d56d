package model

// ScheduleEntry одно занятие из расписания Campus Dual.
// Start и End приходят как epoch-секунды без таймзоны и трактуются как UTC.
type ScheduleEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Room        string `json:"room"`
	Remarks     string `json:"remarks,omitempty"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
}

// Valid проверяет что запись содержит все обязательные поля
// и интервал времени корректен (start < end).
func (e ScheduleEntry) Valid() bool {
	if e.Start == 0 || e.End == 0 || e.Start >= e.End {
		return false
	}
	if e.Title == "" || e.Description == "" || e.Room == "" {
		return false
	}
	return true
}
