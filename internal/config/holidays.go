package config

import (
	"fmt"
	"os"
	"time"

	"github.com/cadudev/timetable_bot/internal/timetable"
	"gopkg.in/yaml.v3"
)

// holidaysFile формат YAML файла с праздниками:
//
//	holidays:
//	  - 2025-01-01
//	  - 2025-04-18
type holidaysFile struct {
	Holidays []string `yaml:"holidays"`
}

// LoadHolidays читает набор праздничных дат из YAML файла.
// Набор загружается один раз при старте и дальше не меняется.
// Отсутствие файла не ошибка: рассылка просто не будет пропускать праздники.
func LoadHolidays(path string) (timetable.HolidaySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return timetable.NewHolidaySet(nil), nil
		}
		return nil, fmt.Errorf("read holidays file: %w", err)
	}

	var parsed holidaysFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse holidays file: %w", err)
	}

	dates := make([]time.Time, 0, len(parsed.Holidays))
	for _, raw := range parsed.Holidays {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", raw, err)
		}
		dates = append(dates, d)
	}

	return timetable.NewHolidaySet(dates), nil
}
