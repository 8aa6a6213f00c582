package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/airfork/uts-dpm-sub000/config"
	"github.com/airfork/uts-dpm-sub000/internal/mailer"
	"github.com/airfork/uts-dpm-sub000/internal/repository"
)

// Service aggregates all service interfaces.
type Service struct {
	Autogen AutogenService
	UserDpm UserDpmService
	Dpm     DpmService
	DataGen DataGenService
}

// NewService wires the service layer. The shift provider is chosen by the
// caller so mock mode stays a startup decision.
func NewService(
	repo *repository.Repository,
	provider ShiftProvider,
	mail mailer.Dispatcher,
	cfg *config.Config,
	loc *time.Location,
	logger *zap.Logger,
) *Service {
	userDpmSvc := NewUserDpmService(repo, mail, cfg.Server.BaseURL, logger)
	return &Service{
		Autogen: NewAutogenService(repo, provider, userDpmSvc, loc, logger),
		UserDpm: userDpmSvc,
		Dpm:     NewDpmService(repo, logger),
		DataGen: NewDataGenService(repo, mail, cfg, logger),
	}
}
