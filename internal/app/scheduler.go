package app

import (
	"context"
	"time"

	"github.com/cadudev/timetable_bot/internal/timetable"
	"go.uber.org/zap"
)

// DigestSource строит дайджест расписания на сегодня.
type DigestSource interface {
	DailyDigest(ctx context.Context) (string, error)
}

// Deliverer доставляет готовый дайджест в настроенный чат.
type Deliverer interface {
	DeliverDigest(ctx context.Context, text string) error
}

// Scheduler ежедневная рассылка дайджеста в фиксированное локальное время.
//
// Цикл: ждём готовности транспорта → считаем следующий момент срабатывания →
// спим до него → по будильнику проверяем выходной/праздник и отправляем →
// снова считаем следующий момент. Ошибки цикл не останавливают.
type Scheduler struct {
	source    DigestSource
	deliverer Deliverer
	holidays  timetable.HolidaySet
	loc       *time.Location
	hour      int
	minute    int
	logger    *zap.Logger
	ready     <-chan struct{}
	stopChan  chan struct{}

	// now подменяется в тестах
	now func() time.Time
}

// NewScheduler создаёт планировщик ежедневной рассылки.
// ready закрывается снаружи, когда транспорт готов принимать сообщения.
func NewScheduler(
	source DigestSource,
	deliverer Deliverer,
	holidays timetable.HolidaySet,
	loc *time.Location,
	hour, minute int,
	ready <-chan struct{},
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		source:    source,
		deliverer: deliverer,
		holidays:  holidays,
		loc:       loc,
		hour:      hour,
		minute:    minute,
		logger:    logger,
		ready:     ready,
		stopChan:  make(chan struct{}),
		now:       time.Now,
	}
}

// Start запускает цикл рассылки в фоне.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting daily digest scheduler",
		zap.Int("hour", s.hour),
		zap.Int("minute", s.minute),
		zap.String("timezone", s.loc.String()))

	go s.run(ctx)
}

// Stop останавливает цикл. Текущее ожидание прерывается сразу,
// без попытки финальной отправки.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping daily digest scheduler")
	close(s.stopChan)
}

func (s *Scheduler) run(ctx context.Context) {
	// Одноразовый гейт: не шлём ничего, пока бот не запущен
	select {
	case <-s.ready:
	case <-s.stopChan:
		return
	case <-ctx.Done():
		return
	}

	s.logger.Info("Transport ready, scheduler loop entered")

	for {
		now := s.now().In(s.loc)
		target := timetable.NextTrigger(now, s.hour, s.minute)
		wait := target.Sub(now)

		s.logger.Info("Next daily digest scheduled",
			zap.Time("target", target),
			zap.Duration("wait", wait))

		timer := time.NewTimer(wait)

		select {
		case <-timer.C:
			s.fire(ctx)
		case <-s.stopChan:
			timer.Stop()
			s.logger.Info("Scheduler loop stopped")
			return
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Scheduler loop cancelled")
			return
		}
	}
}

// fire один цикл срабатывания. Любая ошибка логируется и проглатывается:
// пропущенный день не должен останавливать рассылку навсегда.
func (s *Scheduler) fire(ctx context.Context) {
	today := s.now().In(s.loc)

	if !timetable.IsEligibleDay(today, s.holidays) {
		s.logger.Info("Skipping daily digest",
			zap.String("date", today.Format("2006-01-02")),
			zap.String("weekday", today.Weekday().String()))
		return
	}

	text, err := s.source.DailyDigest(ctx)
	if err != nil {
		s.logger.Error("Failed to build daily digest", zap.Error(err))
		return
	}

	if err := s.deliverer.DeliverDigest(ctx, text); err != nil {
		s.logger.Error("Failed to deliver daily digest", zap.Error(err))
		return
	}

	s.logger.Info("Daily digest delivered",
		zap.String("date", today.Format("2006-01-02")))
}
