package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davidmro/tutoring_core/internal/model"
)

// CalendarService generates and clears a period's week calendar.
type CalendarService struct {
	tx      TxRunner
	periods PeriodStore
	weeks   WeekStore
	logger  *zap.Logger
}

func NewCalendarService(tx TxRunner, periods PeriodStore, weeks WeekStore, logger *zap.Logger) *CalendarService {
	return &CalendarService{
		tx:      tx,
		periods: periods,
		weeks:   weeks,
		logger:  logger,
	}
}

// GenerateWeeks creates weekCount contiguous 7-day weeks for the period,
// starting at startDate. The whole batch lands in one transaction: either
// every week is created or none. Regeneration over an existing calendar
// is refused; it must be cleared explicitly first.
func (s *CalendarService) GenerateWeeks(ctx context.Context, periodID int64, startDate time.Time, weekCount int) (int, error) {
	if weekCount < 1 {
		return 0, model.BadRequestField("week_count", "week count must be at least 1")
	}

	batchID := uuid.New()
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		period, err := s.periods.GetByID(ctx, periodID)
		if err != nil {
			return err
		}
		if period == nil {
			return model.NotFound("period %d not found", periodID)
		}

		existing, err := s.weeks.CountByPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		if existing > 0 {
			return model.Conflict("period %d already has %d weeks; clear them before regenerating", periodID, existing)
		}

		return s.weeks.InsertBatch(ctx, model.BuildWeeks(periodID, batchID, startDate, weekCount))
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Calendar generated",
		zap.Int64("period_id", periodID),
		zap.String("batch_id", batchID.String()),
		zap.String("start_date", model.TruncateDate(startDate).Format(model.DateLayout)),
		zap.Int("weeks", weekCount),
	)

	return weekCount, nil
}

// ClearWeeks deletes the period's entire calendar. It refuses while any
// scheduled session still points at one of the weeks; there is no direct
// FK from sessions to the bulk delete, so the check is explicit.
func (s *CalendarService) ClearWeeks(ctx context.Context, periodID int64) (int64, error) {
	var deleted int64
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		period, err := s.periods.GetByID(ctx, periodID)
		if err != nil {
			return err
		}
		if period == nil {
			return model.NotFound("period %d not found", periodID)
		}

		refs, err := s.weeks.SessionRefCount(ctx, periodID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return model.Conflict("%d scheduled sessions still reference weeks of period %d", refs, periodID)
		}

		deleted, err = s.weeks.DeleteByPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return model.Conflict("period %d has no weeks to delete", periodID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Calendar cleared",
		zap.Int64("period_id", periodID),
		zap.Int64("weeks_deleted", deleted),
	)

	return deleted, nil
}

// CalendarSummary describes the generated calendar's extent.
type CalendarSummary struct {
	PeriodID   int64     `json:"period_id"`
	WeekCount  int       `json:"week_count"`
	FirstStart time.Time `json:"first_start"`
	LastEnd    time.Time `json:"last_end"`
	SpanDays   int       `json:"span_days"`
}

// Summary returns the period's first/last week bounds and total span.
func (s *CalendarService) Summary(ctx context.Context, periodID int64) (*CalendarSummary, error) {
	first, last, err := s.weeks.Bounds(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, model.NotFound("period %d has no weeks", periodID)
	}

	count, err := s.weeks.CountByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	return &CalendarSummary{
		PeriodID:   periodID,
		WeekCount:  count,
		FirstStart: first.StartDate,
		LastEnd:    last.EndDate,
		SpanDays:   int(last.EndDate.Sub(first.StartDate).Hours()/24) + 1,
	}, nil
}
