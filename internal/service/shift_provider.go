package service

import (
	"context"
	"errors"
)

// ErrShiftSourceUnavailable indicates the shift source could not be reached
// or returned an unusable payload. Retryable from the caller's perspective.
var ErrShiftSourceUnavailable = errors.New("shift source unavailable")

// Shift is one raw When2Work scheduling entry, consumed as-is from the
// AssignedShiftList payload. Ephemeral; classified immediately or dropped.
type Shift struct {
	Published   string `json:"PUBLISHED"`
	FirstName   string `json:"FIRST_NAME"`
	LastName    string `json:"LAST_NAME"`
	StartDate   string `json:"START_DATE"`
	EndDate     string `json:"END_DATE"`
	StartTime   string `json:"START_TIME"`
	EndTime     string `json:"END_TIME"`
	Description string `json:"DESCRIPTION"`
	ColorID     string `json:"COLOR_ID"`
	Block       string `json:"POSITION_NAME"`
}

// assignedShifts is the wrapper object the When2Work API returns.
type assignedShifts struct {
	Shifts []Shift `json:"AssignedShiftList"`
}

// ShiftProvider supplies the day's raw shifts. Two implementations exist:
// the live When2Work client and a mock that synthesizes shifts from the
// user roster, selected once at startup by configuration.
type ShiftProvider interface {
	GetAssignedShifts(ctx context.Context) ([]Shift, error)
}
