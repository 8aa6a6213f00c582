package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/airfork/uts-dpm-sub000/internal/dto"
	"github.com/airfork/uts-dpm-sub000/internal/mailer"
	"github.com/airfork/uts-dpm-sub000/internal/model"
	"github.com/airfork/uts-dpm-sub000/internal/repository"
)

var (
	// ErrDpmNotFound indicates the point record does not exist.
	ErrDpmNotFound = errors.New("dpm not found")
	// ErrDpmTypeNotFound indicates the catalog entry does not exist.
	ErrDpmTypeNotFound = errors.New("dpm type not found")
	// ErrNameNotFound indicates no user matches the given full name.
	ErrNameNotFound = errors.New("no user with that name")
	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotAuthorized indicates the caller may not perform the operation.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrInvalidDate indicates a date field could not be parsed.
	ErrInvalidDate = errors.New("invalid date")
)

// homeWindow is how far back the driver's own view reaches.
const homeWindow = 6 // months

// UserDpmService owns the points ledger: every persisted point record and
// every balance mutation flows through here.
type UserDpmService interface {
	Create(ctx context.Context, creatorID int, req *dto.CreateDpmRequest) (*model.UserDpm, error)
	CreateFromCandidate(ctx context.Context, creatorID int, candidate AutogenDpm, date time.Time) error
	UpdateStatus(ctx context.Context, callerID, dpmID int, req *dto.UpdateDpmStatusRequest) error
	GetUnapproved(ctx context.Context, callerID int, page *dto.PaginationRequest) ([]dto.ApprovalDpmResponse, int64, error)
	GetForUser(ctx context.Context, userID int, page *dto.PaginationRequest) ([]dto.DpmDetailResponse, int64, error)
	GetCurrent(ctx context.Context, userID int) ([]dto.HomeDpmResponse, error)
	// WithRepo returns a copy of the service bound to the given repository
	// set, so callers can run writes through an open transaction.
	WithRepo(repo *repository.Repository) UserDpmService
}

type userDpmService struct {
	repo    *repository.Repository
	mail    mailer.Dispatcher
	baseURL string
	logger  *zap.Logger
	now     func() time.Time
}

// NewUserDpmService creates the UserDpmService. baseURL is the public
// address linked from notification mail.
func NewUserDpmService(repo *repository.Repository, mail mailer.Dispatcher, baseURL string, logger *zap.Logger) UserDpmService {
	return &userDpmService{
		repo:    repo,
		mail:    mail,
		baseURL: baseURL,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *userDpmService) WithRepo(repo *repository.Repository) UserDpmService {
	clone := *s
	clone.repo = repo
	return &clone
}

// Create records a manually entered point record in the pending state.
func (s *userDpmService) Create(ctx context.Context, creatorID int, req *dto.CreateDpmRequest) (*model.UserDpm, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, req.Date)
	}

	driver, err := s.repo.User.GetByFullName(ctx, req.Driver)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrNameNotFound, req.Driver)
		}
		return nil, fmt.Errorf("looking up driver: %w", err)
	}

	dpmType, err := s.repo.DpmType.GetByID(ctx, req.DpmTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDpmTypeNotFound
		}
		return nil, fmt.Errorf("looking up dpm type: %w", err)
	}

	dpm := &model.UserDpm{
		CreatedBy: creatorID,
		UserID:    driver.ID,
		DpmTypeID: dpmType.ID,
		TypeName:  dpmType.Name,
		Points:    dpmType.Points,
		Block:     req.Block,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
		Notes:     req.Notes,
	}
	if err := s.repo.UserDpm.Create(ctx, dpm); err != nil {
		return nil, fmt.Errorf("creating dpm: %w", err)
	}

	s.logger.Info("dpm created",
		zap.Int("dpm_id", dpm.ID),
		zap.Int("driver_id", driver.ID),
		zap.String("type", dpmType.Name),
		zap.Int("created_by", creatorID),
	)
	return dpm, nil
}

// CreateFromCandidate persists one autogen candidate as a pending point
// record. The candidate's own type snapshot is used; the catalog is not
// consulted again.
func (s *userDpmService) CreateFromCandidate(ctx context.Context, creatorID int, candidate AutogenDpm, date time.Time) error {
	driver, err := s.repo.User.GetByFullName(ctx, candidate.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %q", ErrNameNotFound, candidate.Name)
		}
		return fmt.Errorf("looking up driver: %w", err)
	}

	dpm := &model.UserDpm{
		CreatedBy: creatorID,
		UserID:    driver.ID,
		DpmTypeID: candidate.Type.ID,
		TypeName:  candidate.Type.Name,
		Points:    candidate.Type.Points,
		Block:     candidate.Block,
		Date:      date,
		StartTime: candidate.StartTime,
		EndTime:   candidate.EndTime,
		Location:  candidate.Location,
		Notes:     candidate.Notes,
	}
	if err := s.repo.UserDpm.Create(ctx, dpm); err != nil {
		return fmt.Errorf("creating autogen dpm: %w", err)
	}
	return nil
}

// UpdateStatus drives the approval state machine for one entry. The points
// override is applied before any transition is evaluated. Approving a
// pending entry credits the driver's balance and notifies them; ignoring an
// approved entry debits it. All other flag changes are recorded without
// touching the balance. Flag and balance are written in one transaction.
func (s *userDpmService) UpdateStatus(ctx context.Context, callerID, dpmID int, req *dto.UpdateDpmStatusRequest) error {
	caller, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("looking up caller: %w", err)
	}

	var (
		approved bool
		balance  int
		notify   *model.UserDpm
	)
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		dpm, err := txRepo.UserDpm.GetByID(ctx, dpmID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDpmNotFound
			}
			return fmt.Errorf("looking up dpm: %w", err)
		}

		switch caller.Role {
		case model.RoleAdmin:
		case model.RoleManager:
			if dpm.User == nil || dpm.User.ManagerID == nil || *dpm.User.ManagerID != caller.ID {
				return ErrNotAuthorized
			}
		default:
			return ErrNotAuthorized
		}

		delta := 0
		if req.Points != nil {
			dpm.Points = *req.Points
		}
		if req.Approved != nil {
			// The flag is part of the transition's effect: a denied entry
			// stays denied when approval cannot fire.
			if *req.Approved {
				if !dpm.Approved && !dpm.Ignored {
					dpm.Approved = true
					delta += dpm.Points
					approved = true
				}
			} else {
				dpm.Approved = false
			}
		}
		if req.Ignored != nil {
			if *req.Ignored && !dpm.Ignored && dpm.Approved {
				delta -= dpm.Points
			}
			dpm.Ignored = *req.Ignored
		}

		if err := txRepo.UserDpm.Update(ctx, dpm); err != nil {
			return fmt.Errorf("updating dpm: %w", err)
		}
		if delta != 0 || approved {
			driver, err := txRepo.User.GetByID(ctx, dpm.UserID)
			if err != nil {
				return fmt.Errorf("looking up driver: %w", err)
			}
			driver.Points += delta
			if err := txRepo.User.Update(ctx, driver); err != nil {
				return fmt.Errorf("updating driver balance: %w", err)
			}
			balance = driver.Points
		}
		if approved {
			notify = dpm
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("dpm status updated",
		zap.Int("dpm_id", dpmID),
		zap.Int("caller_id", callerID),
	)

	// Notification only after the transaction has committed.
	if notify != nil && notify.User != nil {
		manager := ""
		if notify.User.Manager != nil {
			manager = notify.User.Manager.FullName()
		}
		s.mail.EnqueueDpmReceived(mailer.DpmReceivedEmail{
			To:           notify.User.Username,
			Name:         notify.User.FullName(),
			DpmType:      notify.TypeName,
			ReceivedDate: notify.Date.Format(dateLayout),
			Manager:      manager,
			URL:          s.baseURL,
		})
		s.mail.EnqueuePointsBalance(mailer.PointsBalanceEmail{
			To:      notify.User.Username,
			Name:    notify.User.FullName(),
			Manager: manager,
			Points:  balance,
		})
	}
	return nil
}

// GetUnapproved returns pending entries for the approvals screen. Admins
// see everything; managers see only their own drivers.
func (s *userDpmService) GetUnapproved(ctx context.Context, callerID int, page *dto.PaginationRequest) ([]dto.ApprovalDpmResponse, int64, error) {
	caller, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("looking up caller: %w", err)
	}

	var (
		dpms  []model.UserDpm
		total int64
	)
	switch caller.Role {
	case model.RoleAdmin:
		dpms, total, err = s.repo.UserDpm.ListUnapproved(ctx, page.GetOffset(), page.GetPageSize())
	case model.RoleManager:
		dpms, total, err = s.repo.UserDpm.ListUnapprovedByManager(ctx, caller.ID, page.GetOffset(), page.GetPageSize())
	default:
		return nil, 0, ErrNotAuthorized
	}
	if err != nil {
		return nil, 0, fmt.Errorf("listing unapproved dpms: %w", err)
	}

	out := make([]dto.ApprovalDpmResponse, 0, len(dpms))
	for i := range dpms {
		d := &dpms[i]
		out = append(out, dto.ApprovalDpmResponse{
			ID:        d.ID,
			Driver:    fullNameOf(d.User),
			CreatedBy: fullNameOf(d.CreatedUser),
			Type:      d.TypeName,
			Points:    d.Points,
			Block:     d.Block,
			Location:  d.Location,
			Date:      d.Date.Format(dateLayout),
			Time:      formatTimeRange(d.StartTime, d.EndTime),
			CreatedAt: d.CreatedAt.Format(dateTimeLayout),
			Notes:     d.Notes,
		})
	}
	return out, total, nil
}

// GetForUser returns a driver's full history, newest first.
func (s *userDpmService) GetForUser(ctx context.Context, userID int, page *dto.PaginationRequest) ([]dto.DpmDetailResponse, int64, error) {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("looking up user: %w", err)
	}

	dpms, total, err := s.repo.UserDpm.ListByUser(ctx, userID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		return nil, 0, fmt.Errorf("listing dpms: %w", err)
	}

	out := make([]dto.DpmDetailResponse, 0, len(dpms))
	for i := range dpms {
		d := &dpms[i]
		out = append(out, dto.DpmDetailResponse{
			ID:        d.ID,
			Driver:    fullNameOf(d.User),
			CreatedBy: fullNameOf(d.CreatedUser),
			Type:      d.TypeName,
			Points:    d.Points,
			Block:     d.Block,
			Location:  d.Location,
			Date:      d.Date.Format(dateLayout),
			Time:      formatTimeRange(d.StartTime, d.EndTime),
			CreatedAt: d.CreatedAt.Format(dateTimeLayout),
			Notes:     d.Notes,
			Status:    d.StatusMessage(),
		})
	}
	return out, total, nil
}

// GetCurrent returns the caller's own recent entries. Only approved
// entries still visible to the driver are included; pending, denied, and
// hidden entries are filtered at the repository level.
func (s *userDpmService) GetCurrent(ctx context.Context, userID int) ([]dto.HomeDpmResponse, error) {
	since := s.now().AddDate(0, -homeWindow, 0)
	dpms, err := s.repo.UserDpm.ListRecentByUser(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("listing recent dpms: %w", err)
	}

	out := make([]dto.HomeDpmResponse, 0, len(dpms))
	for i := range dpms {
		d := &dpms[i]
		out = append(out, dto.HomeDpmResponse{
			Type:   d.TypeName,
			Points: d.Points,
			Date:   d.Date.Format(dateLayout),
			Notes:  d.Notes,
		})
	}
	return out, nil
}

func fullNameOf(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.FullName()
}
