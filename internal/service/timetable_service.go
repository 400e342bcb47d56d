package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cadudev/timetable_bot/internal/model"
	"github.com/cadudev/timetable_bot/internal/timetable"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EntryFetcher получает сырой список занятий из внешнего источника.
type EntryFetcher interface {
	FetchEntries(ctx context.Context) ([]model.ScheduleEntry, error)
}

// StatsStore счётчики и журнал дайджестов.
type StatsStore interface {
	IncrementCounter(ctx context.Context, name string) (int64, error)
	RecordDigest(ctx context.Context, id uuid.UUID, days, fetched, skipped int, empty bool) error
}

// TimetableService связывает получение расписания и построение дайджеста.
type TimetableService struct {
	fetcher       EntryFetcher
	stats         StatsStore
	loc           *time.Location
	sortWithinDay bool
	logger        *zap.Logger

	// now подменяется в тестах
	now func() time.Time
}

func NewTimetableService(
	fetcher EntryFetcher,
	stats StatsStore,
	loc *time.Location,
	sortWithinDay bool,
	logger *zap.Logger,
) *TimetableService {
	return &TimetableService{
		fetcher:       fetcher,
		stats:         stats,
		loc:           loc,
		sortWithinDay: sortWithinDay,
		logger:        logger,
		now:           time.Now,
	}
}

// BuildDigest запрашивает расписание и строит дайджест на days дней.
// Ошибки получения и окна возвращаются вызывающему как есть, без ретраев.
func (s *TimetableService) BuildDigest(ctx context.Context, days int) (string, error) {
	requestID := uuid.New()

	entries, err := s.fetcher.FetchEntries(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch timetable entries",
			zap.String("request_id", requestID.String()),
			zap.Error(err))
		return "", fmt.Errorf("fetch entries: %w", err)
	}

	digest, err := timetable.BuildDigest(entries, days, s.now(), s.loc, timetable.Options{
		SortWithinDay: s.sortWithinDay,
	})
	if err != nil {
		return "", err
	}

	if digest.Skipped > 0 {
		s.logger.Warn("Skipped malformed timetable entries",
			zap.String("request_id", requestID.String()),
			zap.Int("skipped", digest.Skipped))
	}

	// Журнал дайджестов best-effort: его ошибки не ломают ответ пользователю
	if err := s.stats.RecordDigest(ctx, requestID, days, len(entries), digest.Skipped, digest.Empty); err != nil {
		s.logger.Warn("Failed to record digest log entry",
			zap.String("request_id", requestID.String()),
			zap.Error(err))
	}

	s.logger.Info("Digest built",
		zap.String("request_id", requestID.String()),
		zap.Int("days", days),
		zap.Int("fetched", len(entries)),
		zap.Int("skipped", digest.Skipped),
		zap.Bool("empty", digest.Empty))

	return digest.Text, nil
}

// DailyDigest дайджест на сегодня для ежедневной рассылки.
func (s *TimetableService) DailyDigest(ctx context.Context) (string, error) {
	return s.BuildDigest(ctx, 0)
}

// Entries возвращает сырой список занятий (для рендера недельной картинки).
func (s *TimetableService) Entries(ctx context.Context) ([]model.ScheduleEntry, error) {
	return s.fetcher.FetchEntries(ctx)
}

// Now текущее время в таймзоне бота.
func (s *TimetableService) Now() time.Time {
	return s.now().In(s.loc)
}

// Ping увеличивает счётчик пинга и возвращает новое значение.
func (s *TimetableService) Ping(ctx context.Context) (int64, error) {
	return s.stats.IncrementCounter(ctx, "ping")
}
