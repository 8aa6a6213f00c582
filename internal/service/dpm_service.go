package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/airfork/uts-dpm-sub000/internal/dto"
	"github.com/airfork/uts-dpm-sub000/internal/repository"
)

// DpmService exposes the point-type catalog.
type DpmService interface {
	// GetGroups returns active groups with their active types, for the
	// DPM entry form.
	GetGroups(ctx context.Context) ([]dto.DpmGroupResponse, error)
}

type dpmService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDpmService creates the DpmService.
func NewDpmService(repo *repository.Repository, logger *zap.Logger) DpmService {
	return &dpmService{repo: repo, logger: logger}
}

func (s *dpmService) GetGroups(ctx context.Context) ([]dto.DpmGroupResponse, error) {
	groups, err := s.repo.DpmType.ListGroupsWithActiveTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing dpm groups: %w", err)
	}

	out := make([]dto.DpmGroupResponse, 0, len(groups))
	for i := range groups {
		g := &groups[i]
		types := make([]dto.DpmTypeResponse, 0, len(g.DpmTypes))
		for j := range g.DpmTypes {
			t := &g.DpmTypes[j]
			types = append(types, dto.DpmTypeResponse{
				ID:     t.ID,
				Name:   t.Name,
				Points: t.Points,
			})
		}
		out = append(out, dto.DpmGroupResponse{
			ID:       g.ID,
			Name:     g.GroupName,
			DpmTypes: types,
		})
	}
	return out, nil
}
