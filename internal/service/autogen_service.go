package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/airfork/uts-dpm-sub000/internal/dto"
	"github.com/airfork/uts-dpm-sub000/internal/model"
	"github.com/airfork/uts-dpm-sub000/internal/repository"
)

// ErrAlreadySubmitted indicates today's autogen batch has already been
// committed.
var ErrAlreadySubmitted = errors.New("autogen already submitted today")

// submissionRetention is how long submission markers are kept.
const submissionRetention = 30 * 24 * time.Hour

// AutogenService runs the daily shift-to-DPM pipeline: fetch, classify,
// order, and commit at most once per calendar day.
type AutogenService interface {
	// Preview returns today's candidates. Before the day's commit it runs
	// the pipeline live; afterwards it serves the committed batch along
	// with the commit's time of day.
	Preview(ctx context.Context) (*dto.AutogenPreviewResponse, error)
	// Submit commits today's candidates as pending point records.
	// ErrAlreadySubmitted when today's batch has already been committed.
	Submit(ctx context.Context, actingUserID int) error
	// CleanupSubmissions deletes submission markers past retention.
	CleanupSubmissions(ctx context.Context) error
}

type autogenService struct {
	repo       *repository.Repository
	provider   ShiftProvider
	userDpmSvc UserDpmService
	logger     *zap.Logger
	loc        *time.Location
	now        func() time.Time

	// submitMu serializes Submit within this process; cacheMu guards the
	// candidate cache independently so Preview never waits on a commit.
	submitMu sync.Mutex
	cacheMu  sync.Mutex
	cache    []dto.AutogenDpmResponse
	cacheDay time.Time
}

// NewAutogenService creates the AutogenService.
func NewAutogenService(
	repo *repository.Repository,
	provider ShiftProvider,
	userDpmSvc UserDpmService,
	loc *time.Location,
	logger *zap.Logger,
) AutogenService {
	return &autogenService{
		repo:       repo,
		provider:   provider,
		userDpmSvc: userDpmSvc,
		logger:     logger,
		loc:        loc,
		now:        time.Now,
	}
}

func (s *autogenService) Preview(ctx context.Context) (*dto.AutogenPreviewResponse, error) {
	latest, err := s.repo.AutoSubmission.GetMostRecent(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading submission marker: %w", err)
	}

	if !s.submittedToday(latest) {
		dpms, err := s.generate(ctx)
		if err != nil {
			return nil, err
		}
		return &dto.AutogenPreviewResponse{Dpms: toResponses(dpms)}, nil
	}

	cached, err := s.cachedCandidates(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AutogenPreviewResponse{
		SubmittedAt: latest.Submitted.In(s.loc).Format(clockLayout),
		Dpms:        cached,
	}, nil
}

func (s *autogenService) Submit(ctx context.Context, actingUserID int) error {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	latest, err := s.repo.AutoSubmission.GetMostRecent(ctx)
	if err != nil {
		return fmt.Errorf("reading submission marker: %w", err)
	}
	if s.submittedToday(latest) {
		return ErrAlreadySubmitted
	}

	dpms, err := s.generate(ctx)
	if err != nil {
		return err
	}

	// Entries and the marker commit together under an advisory lock, so a
	// rival process either sees the guard or waits for the whole batch.
	// Losing the race rolls back cleanly with no stray entries.
	today := s.today()
	committed := 0
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.AutoSubmission.AcquireSubmitLock(ctx); err != nil {
			return fmt.Errorf("acquiring submit lock: %w", err)
		}
		locked, err := txRepo.AutoSubmission.GetMostRecent(ctx)
		if err != nil {
			return fmt.Errorf("re-reading submission marker: %w", err)
		}
		if s.submittedToday(locked) {
			return ErrAlreadySubmitted
		}

		ledger := s.userDpmSvc.WithRepo(txRepo)
		for _, d := range dpms {
			if err := ledger.CreateFromCandidate(ctx, actingUserID, d, today); err != nil {
				s.logger.Warn("skipping autogen dpm",
					zap.String("driver", d.Name),
					zap.String("block", d.Block),
					zap.Error(err),
				)
				continue
			}
			committed++
		}
		return txRepo.AutoSubmission.Create(ctx, &model.AutoSubmission{Submitted: s.now()})
	})
	if err != nil {
		return err
	}

	s.setCache(toResponses(dpms))

	s.logger.Info("autogen batch committed",
		zap.Int("candidates", len(dpms)),
		zap.Int("committed", committed),
		zap.Int("skipped", len(dpms)-committed),
		zap.Int("acting_user_id", actingUserID),
	)
	return nil
}

func (s *autogenService) CleanupSubmissions(ctx context.Context) error {
	cutoff := s.now().Add(-submissionRetention)
	removed, err := s.repo.AutoSubmission.DeleteSubmittedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("deleting old submission markers: %w", err)
	}
	s.logger.Info("autogen submission markers cleaned up", zap.Int64("removed", removed))
	return nil
}

// generate runs fetch, classify, and order without persisting anything.
func (s *autogenService) generate(ctx context.Context) ([]AutogenDpm, error) {
	shifts, err := s.provider.GetAssignedShifts(ctx)
	if err != nil {
		return nil, err
	}

	colors, err := s.repo.W2WColor.ListActiveWithActiveTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading color map: %w", err)
	}
	m := buildColorMap(colors)

	dpms := make([]AutogenDpm, 0, len(shifts))
	for _, shift := range shifts {
		if d := classifyShift(shift, m); d != nil {
			dpms = append(dpms, *d)
		}
	}
	sortByBlock(dpms)
	return dpms, nil
}

// cachedCandidates returns today's committed batch, regenerating it once
// when the cache is empty or stale (process restart after the commit).
func (s *autogenService) cachedCandidates(ctx context.Context) ([]dto.AutogenDpmResponse, error) {
	s.cacheMu.Lock()
	if s.cache != nil && s.cacheDay.Equal(s.today()) {
		cached := s.cache
		s.cacheMu.Unlock()
		return cached, nil
	}
	s.cacheMu.Unlock()

	dpms, err := s.generate(ctx)
	if err != nil {
		return nil, err
	}
	out := toResponses(dpms)
	s.setCache(out)
	return out, nil
}

func (s *autogenService) setCache(dpms []dto.AutogenDpmResponse) {
	s.cacheMu.Lock()
	s.cache = dpms
	s.cacheDay = s.today()
	s.cacheMu.Unlock()
}

// submittedToday reports whether the marker falls on today's date in the
// operating timezone. A nil marker (empty table) never matches.
func (s *autogenService) submittedToday(latest *model.AutoSubmission) bool {
	if latest == nil {
		return false
	}
	y1, m1, d1 := latest.Submitted.In(s.loc).Date()
	y2, m2, d2 := s.now().In(s.loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// today is midnight of the current day in the operating timezone.
func (s *autogenService) today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

func toResponses(dpms []AutogenDpm) []dto.AutogenDpmResponse {
	out := make([]dto.AutogenDpmResponse, 0, len(dpms))
	for _, d := range dpms {
		out = append(out, dto.AutogenDpmResponse{
			Name:      d.Name,
			Block:     d.Block,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			Type:      d.Type.Name,
			Positive:  d.Type.Points > 0,
		})
	}
	return out
}
