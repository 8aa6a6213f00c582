package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/airfork/uts-dpm-sub000/internal/repository"
)

// mockShiftProvider synthesizes deterministic shifts from the user roster
// and the active color catalog. Used in environments without network access
// to When2Work.
type mockShiftProvider struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewMockShiftProvider creates the mock shift provider.
func NewMockShiftProvider(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ShiftProvider {
	return &mockShiftProvider{repo: repo, loc: loc, logger: logger, now: time.Now}
}

func (p *mockShiftProvider) GetAssignedShifts(ctx context.Context) ([]Shift, error) {
	users, err := p.repo.User.ListSorted(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loading user roster: %v", ErrShiftSourceUnavailable, err)
	}

	colors, err := p.repo.W2WColor.ListActiveWithActiveTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loading color catalog: %v", ErrShiftSourceUnavailable, err)
	}

	if len(users) == 0 {
		p.logger.Warn("no users available for mock shift generation")
		return nil, nil
	}
	if len(colors) == 0 {
		p.logger.Warn("no active colors with DPM types for mock shift generation")
		return nil, nil
	}

	today := p.now().In(p.loc).Format(w2wDateLayout)
	shifts := make([]Shift, 0, len(users))

	for i, user := range users {
		color := colors[i%len(colors)]
		blockNumber := i%10 + 1
		startHour := 6 + i%12
		endHour := startHour + 4

		shifts = append(shifts, Shift{
			Published:   "Y",
			FirstName:   user.Firstname,
			LastName:    user.Lastname,
			StartDate:   today,
			EndDate:     today,
			StartTime:   mockClockTime(startHour),
			EndTime:     mockClockTime(endHour),
			Description: fmt.Sprintf("[%d] Mock shift for %s %s", blockNumber, user.Firstname, user.Lastname),
			ColorID:     color.ColorCode,
			Block:       fmt.Sprintf("[EB%d]", blockNumber),
		})
	}

	p.logger.Info("generated mock shifts",
		zap.Int("shifts", len(shifts)),
		zap.Int("users", len(users)),
		zap.Int("colors", len(colors)),
	)
	return shifts, nil
}

// mockClockTime renders an hour in the free-form clock style the real
// payload uses ("7:00am", "2:00pm").
func mockClockTime(hour int) string {
	switch {
	case hour == 0:
		return "12:00am"
	case hour < 12:
		return fmt.Sprintf("%d:00am", hour)
	case hour == 12:
		return "12:00pm"
	default:
		return fmt.Sprintf("%d:00pm", hour-12)
	}
}
