package handlers

import (
	"time"

	"github.com/cadudev/timetable_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	timetableService *service.TimetableService
	loc              *time.Location
	logger           *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	timetableService *service.TimetableService,
	loc *time.Location,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		timetableService: timetableService,
		loc:              loc,
		logger:           logger,
	}
}
